package resume

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"resume-builder/internal/kv"
	"resume-builder/internal/shared/telemetry"
)

// MirrorKey is the key/value slot the store persists itself under.
const MirrorKey = "resume-storage"

const mirrorVersion = 1

// ErrIndexOutOfRange is returned by updates addressed past the end of a list.
var ErrIndexOutOfRange = errors.New("index out of range")

// Snapshot is the plain-data projection of the store.
type Snapshot struct {
	ResumeID string   `json:"resumeId"`
	Data     Document `json:"data"`
}

type mirrorEnvelope struct {
	State   Snapshot `json:"state"`
	Version int      `json:"version"`
}

// Store owns the resume being edited. All methods are safe for concurrent use.
//
// Update operations fail with ErrIndexOutOfRange and leave the document
// untouched when addressed past the end of a list. Remove operations
// silently ignore such indexes. Every successful mutation is mirrored to
// the key/value store; mirror failures are logged and otherwise ignored.
type Store struct {
	mu       sync.Mutex
	resumeID string
	doc      Document
	mirror   kv.Store
}

// NewStore returns a store seeded from mirror when it holds a snapshot,
// otherwise from DefaultDocument. mirror may be nil.
func NewStore(mirror kv.Store) *Store {
	s := &Store{doc: DefaultDocument(), mirror: mirror}
	if mirror == nil {
		return s
	}
	raw, ok, err := mirror.Get(MirrorKey)
	if err != nil {
		telemetry.Warn("resume.mirror_read_failed", map[string]any{"error": err})
		return s
	}
	if !ok {
		return s
	}
	var env struct {
		State struct {
			ResumeID string          `json:"resumeId"`
			Data     json.RawMessage `json:"data"`
		} `json:"state"`
	}
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		telemetry.Warn("resume.mirror_corrupt", map[string]any{"error": err})
		return s
	}
	doc, err := ParseUntrusted(env.State.Data)
	if err != nil {
		telemetry.Warn("resume.mirror_corrupt", map[string]any{"error": err})
		return s
	}
	s.doc = doc
	s.resumeID = env.State.ResumeID
	return s
}

// Snapshot returns a deep copy of the current id and document.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{ResumeID: s.resumeID, Data: s.doc.Clone()}
}

// ResumeID returns the current resume id, empty for an unsaved resume.
func (s *Store) ResumeID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resumeID
}

// Hydrate replaces the whole document and keeps the current id.
func (s *Store) Hydrate(doc Document) {
	s.mutate(func(d *Document) error {
		*d = doc.Clone()
		return nil
	})
}

// HydrateWithID replaces the whole document and the resume id.
func (s *Store) HydrateWithID(doc Document, resumeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc.Clone()
	s.resumeID = resumeID
	s.persistLocked()
}

// ResetToInitial restores the default document and clears the id.
func (s *Store) ResetToInitial() {
	s.HydrateWithID(DefaultDocument(), "")
}

// ensureResumeID sets the id to newID() when empty and returns the id.
func (s *Store) ensureResumeID(newID func() string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resumeID == "" {
		s.resumeID = newID()
		s.persistLocked()
	}
	return s.resumeID
}

func (s *Store) mutate(fn func(d *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(&s.doc); err != nil {
		return err
	}
	s.persistLocked()
	return nil
}

func (s *Store) persistLocked() {
	if s.mirror == nil {
		return
	}
	payload, err := json.Marshal(mirrorEnvelope{
		State:   Snapshot{ResumeID: s.resumeID, Data: s.doc},
		Version: mirrorVersion,
	})
	if err == nil {
		err = s.mirror.Set(MirrorKey, string(payload))
	}
	if err != nil {
		telemetry.Warn("resume.mirror_write_failed", map[string]any{"error": err})
	}
}

func appendItem[T cloner[T]](list *[]T, item *T, empty func() T) {
	if item == nil {
		*list = append(*list, empty())
		return
	}
	*list = append(*list, (*item).clone())
}

func updateItem[T any](list []T, index int, apply func(*T)) error {
	if index < 0 || index >= len(list) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(list))
	}
	apply(&list[index])
	return nil
}

func removeItem[T any](list *[]T, index int) {
	if index < 0 || index >= len(*list) {
		return
	}
	*list = append((*list)[:index], (*list)[index+1:]...)
}

func addBullet[T any](list []T, parent int, bullets func(*T) *[]string) error {
	return updateItem(list, parent, func(item *T) {
		b := bullets(item)
		*b = append(*b, "")
	})
}

func updateBullet[T any](list []T, parent, child int, value string, bullets func(*T) *[]string) error {
	if parent < 0 || parent >= len(list) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, parent, len(list))
	}
	b := bullets(&list[parent])
	if child < 0 || child >= len(*b) {
		return fmt.Errorf("%w: %d.%d (len %d)", ErrIndexOutOfRange, parent, child, len(*b))
	}
	(*b)[child] = value
	return nil
}

func removeBullet[T any](list []T, parent, child int, bullets func(*T) *[]string) {
	if parent < 0 || parent >= len(list) {
		return
	}
	removeItem(bullets(&list[parent]), child)
}
