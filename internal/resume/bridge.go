package resume

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"resume-builder/internal/shared/telemetry"
)

// SaveSnapshot is what gets sent to the history endpoint.
type SaveSnapshot struct {
	ResumeID   string
	Data       Document
	Serialized string
}

// Bridge moves the store's document to and from saved history.
type Bridge struct {
	Store *Store
	NewID func() string
}

// NewBridge wires a bridge that mints UUID v4 resume ids.
func NewBridge(store *Store) *Bridge {
	return &Bridge{Store: store, NewID: uuid.NewString}
}

// GetOrCreateResumeID returns the current id, minting and committing one if empty.
func (b *Bridge) GetOrCreateResumeID() string {
	return b.Store.ensureResumeID(b.NewID)
}

// SnapshotForSave assigns an id if needed and serializes the document.
func (b *Bridge) SnapshotForSave() (SaveSnapshot, error) {
	id := b.GetOrCreateResumeID()
	snap := b.Store.Snapshot()
	payload, err := json.Marshal(snap.Data)
	if err != nil {
		return SaveSnapshot{}, fmt.Errorf("serialize resume: %w", err)
	}
	return SaveSnapshot{ResumeID: id, Data: snap.Data, Serialized: string(payload)}, nil
}

// HydrateFromHistory loads a saved payload into the store under resumeID.
// It returns nil and leaves the store untouched when payload is not a JSON
// object.
func (b *Bridge) HydrateFromHistory(payload, resumeID string) *Document {
	doc, err := ParseUntrusted([]byte(payload))
	if err != nil {
		telemetry.Warn("resume.hydrate_failed", map[string]any{"resume_id": resumeID, "error": err})
		return nil
	}
	b.Store.HydrateWithID(doc, resumeID)
	return &doc
}
