package resume

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateResumeIDIsIdempotent(t *testing.T) {
	b := NewBridge(NewStore(nil))
	first := b.GetOrCreateResumeID()
	second := b.GetOrCreateResumeID()
	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, first, b.Store.ResumeID())
}

func TestSnapshotForSaveSerializesData(t *testing.T) {
	b := &Bridge{Store: NewStore(nil), NewID: func() string { return "fixed-id" }}
	b.Store.SetTitle("Grace Hopper")

	snap, err := b.SnapshotForSave()
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", snap.ResumeID)

	var back Document
	require.NoError(t, json.Unmarshal([]byte(snap.Serialized), &back))
	assert.Equal(t, snap.Data, back)
	assert.Equal(t, "Grace Hopper", back.Title)
}

func TestHydrateFromHistoryMalformedLeavesStateAlone(t *testing.T) {
	b := NewBridge(NewStore(nil))
	b.Store.HydrateWithID(sampleDocument(), "current")
	before := b.Store.Snapshot()

	got := b.HydrateFromHistory(`{not json`, "other")
	assert.Nil(t, got)
	assert.Equal(t, before, b.Store.Snapshot())
	assert.Equal(t, "current", b.Store.ResumeID())
}

func TestHydrateFromHistorySanitizesAndSetsID(t *testing.T) {
	b := NewBridge(NewStore(nil))
	got := b.HydrateFromHistory(`{"title":"Old schema","skills":{"skills":[{"category":"x"}]}}`, "saved-1")
	require.NotNil(t, got)
	assert.Equal(t, "saved-1", b.Store.ResumeID())
	assert.Equal(t, "Old schema", b.Store.Snapshot().Data.Title)
	assert.Equal(t, []string{}, b.Store.Snapshot().Data.Skills.Skills[0].Skills)
}
