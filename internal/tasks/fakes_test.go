package tasks

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytlikes/internal/models"
	"github.com/desertthunder/ytlikes/internal/shared"
)

type rateCall struct {
	ItemID string
	Status models.LikeStatus
}

// fakeRemote is an in-memory liked collection with injectable faults.
//
// Liked items are prepended, like the real collection. Keys of drops and errs
// are "STATUS:itemID".
type fakeRemote struct {
	mu sync.Mutex

	liked       []string
	exists      bool
	neverExists bool

	calls  []rateCall
	drops  map[string]int     // accepted calls that silently do nothing
	errs   map[string][]error // queued errors, popped per call
	always map[string]error   // error returned on every call

	findCalls  int
	readCalls  int
	readLimits []int
	findErrs   []error
	readErrs   []error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		drops:  make(map[string]int),
		errs:   make(map[string][]error),
		always: make(map[string]error),
	}
}

func key(status models.LikeStatus, id string) string {
	return string(status) + ":" + id
}

func (f *fakeRemote) RateItem(ctx context.Context, itemID string, status models.LikeStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := key(status, itemID)
	if err, ok := f.always[k]; ok {
		return err
	}
	if q := f.errs[k]; len(q) > 0 {
		f.errs[k] = q[1:]
		return q[0]
	}

	f.calls = append(f.calls, rateCall{ItemID: itemID, Status: status})
	if f.drops[k] > 0 {
		f.drops[k]--
		return nil
	}

	switch status {
	case models.Like:
		if !slices.Contains(f.liked, itemID) {
			f.liked = append([]string{itemID}, f.liked...)
		}
		f.exists = true
	case models.Indifferent:
		f.liked = slices.DeleteFunc(f.liked, func(id string) bool { return id == itemID })
	}
	return nil
}

func (f *fakeRemote) FindCollection(ctx context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.findCalls++
	if len(f.findErrs) > 0 {
		err := f.findErrs[0]
		f.findErrs = f.findErrs[1:]
		return "", err
	}
	if f.neverExists || !f.exists {
		return "", fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, name)
	}
	return models.LikedCollectionID, nil
}

func (f *fakeRemote) ReadMembership(ctx context.Context, collectionID string, limit int) (Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.readCalls++
	f.readLimits = append(f.readLimits, limit)
	if len(f.readErrs) > 0 {
		err := f.readErrs[0]
		f.readErrs = f.readErrs[1:]
		return nil, err
	}
	head := f.liked
	if limit < len(head) {
		head = head[:limit]
	}
	return NewMembership(head...), nil
}

func (f *fakeRemote) callsFor(status models.LikeStatus) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var ids []string
	for _, c := range f.calls {
		if c.Status == status {
			ids = append(ids, c.ItemID)
		}
	}
	return ids
}

// recordingSleeper returns immediately and remembers every requested pause.
type recordingSleeper struct {
	mu     sync.Mutex
	pauses []time.Duration
	// cancelAfter cancels the run on the n-th pause when non-zero.
	cancelAfter int
	cancel      context.CancelFunc
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.pauses = append(s.pauses, d)
	n := len(s.pauses)
	s.mu.Unlock()

	if s.cancelAfter > 0 && n == s.cancelAfter && s.cancel != nil {
		s.cancel()
	}
	return ctx.Err()
}

func (s *recordingSleeper) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pauses)
}

// recordingCheckpoints keeps every saved value in order.
type recordingCheckpoints struct {
	saved []int
	err   error
}

func (c *recordingCheckpoints) Save(ctx context.Context, jobID string, committed int) error {
	c.saved = append(c.saved, committed)
	return c.err
}

func (c *recordingCheckpoints) Load(ctx context.Context, jobID string) (int, bool, error) {
	if len(c.saved) == 0 {
		return 0, false, c.err
	}
	return c.saved[len(c.saved)-1], true, c.err
}

type tempError struct {
	msg       string
	temporary bool
}

func (e *tempError) Error() string   { return e.msg }
func (e *tempError) Temporary() bool { return e.temporary }

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// makeItems builds n distinct items with IDs "v0".."v{n-1}".
func makeItems(n int) []models.Item {
	items := make([]models.Item, n)
	for i := range n {
		items[i] = models.Item{ItemID: fmt.Sprintf("v%d", i), Title: fmt.Sprintf("Song %d", i), Artists: []string{"Artist"}}
	}
	return items
}

func itemsWithIDs(ids ...string) []models.Item {
	items := make([]models.Item, len(ids))
	for i, id := range ids {
		items[i] = models.Item{ItemID: id, Title: "Song " + id}
	}
	return items
}
