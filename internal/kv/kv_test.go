package kv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Get(string) (string, bool, error) { return "", false, errors.New("read failed") }
func (failingStore) Set(string, string) error         { return errors.New("write failed") }
func (failingStore) Delete(string) error              { return errors.New("delete failed") }

func TestFileRoundTrip(t *testing.T) {
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)

	_, ok, err := f.Get("resume-storage")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, f.Set("resume-storage", `{"a":1}`))
	v, ok, err := f.Get("resume-storage")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, v)

	require.NoError(t, f.Delete("resume-storage"))
	require.NoError(t, f.Delete("resume-storage"))
	_, ok, _ = f.Get("resume-storage")
	assert.False(t, ok)
}

func TestDualFirstMatchWins(t *testing.T) {
	primary, secondary := NewMemory(), NewMemory()
	d := NewDual(primary, secondary)

	require.NoError(t, secondary.Set("k", "from-secondary"))
	v, ok, err := d.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "from-secondary", v)

	require.NoError(t, d.Set("k", "both"))
	pv, _, _ := primary.Get("k")
	sv, _, _ := secondary.Get("k")
	assert.Equal(t, "both", pv)
	assert.Equal(t, "both", sv)

	require.NoError(t, primary.Set("k", "primary-only"))
	v, _, _ = d.Get("k")
	assert.Equal(t, "primary-only", v)
}

func TestDualSurvivesOneFailingBackend(t *testing.T) {
	mem := NewMemory()
	d := NewDual(failingStore{}, mem)

	err := d.Set("k", "v")
	assert.Error(t, err)
	v, ok, err := d.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
