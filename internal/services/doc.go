// Package services implements the [Service] interface for YouTube Music.
//
// # YouTube Music Implementation
//
// [YouTubeService] communicates with the FastAPI proxy server wrapping ytmusicapi.
//
// The proxy handles YouTube Music authentication complexities.
// The auth_file path (browser.json) is sent via X-Auth-File header on each request.
// All operations are synchronous HTTP calls to the proxy endpoints, paced by a
// [rate.Limiter] configured from credentials.youtube.requests_per_second.
//
// The same type satisfies the import engine's [tasks.RemoteStore] and
// [tasks.ItemSource], so the CLI hands one value to both.
//
// # Error Handling
//
// Non-2xx responses become [*APIError]. Its Temporary method tells the engine
// whether to retry (429, 408, 5xx) or abort. It unwraps to shared sentinels:
//   - [shared.ErrRateLimited] : 429
//   - [shared.ErrNotAuthenticated] : 401/403, usually an expired browser.json
//   - [shared.ErrServiceUnavailable] : 5xx
//   - [shared.ErrAPIRequest] : anything else
//
// A 404 on a playlist read is reported as [shared.ErrPlaylistNotFound].
package services
