// Package models defines domain entities and persistence interfaces for ytlikes.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing remote store data
//   - [Item] : A remote-addressable track identified by its ItemID (YouTube video ID)
//   - [Collection] : Playlist metadata, including the implicit "Liked Music" collection
//   - [LikeStatus] : The binary state a mutation sets on an item
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [ImportRun] : One execution of the likes import, with its committed checkpoint
//
// Persistent entities implement the Model interface providing ID generation, timestamps, and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
