// Package resumecache keeps the client's copy of the user's saved resumes.
package resumecache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"resume-builder/internal/history"
	"resume-builder/internal/kv"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/timeout"
)

const (
	// MirrorKey is the key/value slot the cache persists itself under.
	MirrorKey = "user-resumes-storage"
	// StaleAfter is how long a fetched list is served without refetching.
	StaleAfter = 5 * time.Minute
	// TimeoutMessage replaces the error text of timeout-class failures.
	TimeoutMessage = "Request timed out. Please try again."
)

// Fetcher loads the authoritative list from the server.
type Fetcher interface {
	ListResumes(ctx context.Context) ([]history.Entry, error)
}

// State is a copy of the cache contents.
type State struct {
	Resumes     []history.Entry `json:"resumes"`
	LastFetched *time.Time      `json:"lastFetched"`
	IsLoading   bool            `json:"-"`
	Error       string          `json:"-"`
}

type mirrorEnvelope struct {
	State   State `json:"state"`
	Version int   `json:"version"`
}

// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	state   State
	fetcher Fetcher
	mirror  kv.Store
	now     func() time.Time
}

// New builds a cache seeded from mirror when it holds a list. mirror and now
// may be nil.
func New(fetcher Fetcher, mirror kv.Store, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	c := &Cache{fetcher: fetcher, mirror: mirror, now: now, state: State{Resumes: []history.Entry{}}}
	c.load()
	return c
}

func (c *Cache) load() {
	if c.mirror == nil {
		return
	}
	raw, ok, err := c.mirror.Get(MirrorKey)
	if err != nil || !ok {
		if err != nil {
			telemetry.Warn("resumecache.mirror_read_failed", map[string]any{"error": err})
		}
		return
	}
	var env mirrorEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		telemetry.Warn("resumecache.mirror_corrupt", map[string]any{"error": err})
		return
	}
	if env.State.Resumes != nil {
		c.state.Resumes = env.State.Resumes
	}
	c.state.LastFetched = env.State.LastFetched
}

// State returns a copy of the current contents.
func (c *Cache) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.state
	out.Resumes = append([]history.Entry{}, c.state.Resumes...)
	if c.state.LastFetched != nil {
		t := *c.state.LastFetched
		out.LastFetched = &t
	}
	return out
}

// Count is the number of cached resumes.
func (c *Cache) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.state.Resumes)
}

// SetResumes replaces the list, stamps the fetch time and clears the error.
func (c *Cache) SetResumes(list []history.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(list)
}

func (c *Cache) setLocked(list []history.Entry) {
	now := c.now()
	c.state.Resumes = append([]history.Entry{}, list...)
	c.state.LastFetched = &now
	c.state.Error = ""
	c.persistLocked()
}

// AddResume inserts entry, replacing any entry with the same resume id.
func (c *Cache) AddResume(entry history.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(entry.ResumeID); i >= 0 {
		c.state.Resumes[i] = entry
	} else {
		c.state.Resumes = append(c.state.Resumes, entry)
	}
	c.persistLocked()
}

// UpdateResume changes the data of an existing entry. Unknown ids are ignored.
func (c *Cache) UpdateResume(resumeID, data string, updatedAt int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(resumeID)
	if i < 0 {
		return
	}
	c.state.Resumes[i].Data = data
	c.state.Resumes[i].UpdatedAt = updatedAt
	c.persistLocked()
}

// DeleteResume drops the entry with resumeID if present.
func (c *Cache) DeleteResume(resumeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(resumeID)
	if i < 0 {
		return
	}
	c.state.Resumes = append(c.state.Resumes[:i], c.state.Resumes[i+1:]...)
	c.persistLocked()
}

// Revert puts back the list and fetch time of prev, undoing optimistic edits
// made after prev was taken.
func (c *Cache) Revert(prev State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Resumes = append([]history.Entry{}, prev.Resumes...)
	c.state.LastFetched = prev.LastFetched
	c.persistLocked()
}

// GetOrFetch returns the cached list while it is fresh, otherwise fetches
// it. A failed fetch records a user-facing error, keeps the cached list and
// returns the fetch error.
func (c *Cache) GetOrFetch(ctx context.Context, force bool) ([]history.Entry, error) {
	c.mu.Lock()
	if !force && c.freshLocked() {
		out := append([]history.Entry{}, c.state.Resumes...)
		c.mu.Unlock()
		return out, nil
	}
	c.state.IsLoading = true
	c.state.Error = ""
	c.mu.Unlock()

	list, err := c.fetcher.ListResumes(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.IsLoading = false
	if err != nil {
		c.state.Error = Message(err)
		telemetry.Warn("resumecache.fetch_failed", map[string]any{"error": err})
		return nil, err
	}
	c.setLocked(list)
	return append([]history.Entry{}, c.state.Resumes...), nil
}

// Message maps err to the text shown to users.
func Message(err error) string {
	if timeout.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return TimeoutMessage
	}
	return err.Error()
}

func (c *Cache) freshLocked() bool {
	if c.state.LastFetched == nil || len(c.state.Resumes) == 0 {
		return false
	}
	return c.now().Sub(*c.state.LastFetched) < StaleAfter
}

func (c *Cache) indexLocked(resumeID string) int {
	for i, e := range c.state.Resumes {
		if e.ResumeID == resumeID {
			return i
		}
	}
	return -1
}

func (c *Cache) persistLocked() {
	if c.mirror == nil {
		return
	}
	payload, err := json.Marshal(mirrorEnvelope{State: c.state, Version: 1})
	if err == nil {
		err = c.mirror.Set(MirrorKey, string(payload))
	}
	if err != nil {
		telemetry.Warn("resumecache.mirror_write_failed", map[string]any{"error": err})
	}
}
