package policies

import (
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQTableGetSetsDefault(t *testing.T) {
	q := NewQTable()

	assert.Equal(t, 0.5, q.Get("s1", "a1", 0.5))
	q.Set("s1", "a1", 2)
	assert.Equal(t, float64(2), q.Get("s1", "a1", 0.5))
	assert.True(t, q.HasState("s1"))
	assert.False(t, q.HasState("s2"))
	assert.Equal(t, 1, q.Size())
}

func TestQTableMax(t *testing.T) {
	q := NewQTable()

	action, val := q.Max("unknown", 7)
	assert.Equal(t, "", action)
	assert.Equal(t, float64(7), val)

	q.Set("s1", "a1", 1)
	q.Set("s1", "a2", 3)
	q.Set("s1", "a3", 2)
	action, val = q.Max("s1", 0)
	assert.Equal(t, "a2", action)
	assert.Equal(t, float64(3), val)
}

func TestQTableMaxAmong(t *testing.T) {
	q := NewQTable()
	q.Set("s1", "a1", 1)
	q.Set("s1", "a2", 5)
	q.Set("s1", "a3", 5)

	action, val := q.MaxAmong("s1", []string{"a1", "a2"}, 0)
	assert.Equal(t, "a2", action)
	assert.Equal(t, float64(5), val)

	// Ties break between the tied actions only.
	for i := 0; i < 20; i++ {
		action, val = q.MaxAmong("s1", []string{"a1", "a2", "a3"}, 0)
		assert.Contains(t, []string{"a2", "a3"}, action)
		assert.Equal(t, float64(5), val)
	}

	// Unseen actions pick up the default value.
	_, val = q.MaxAmong("s2", []string{"a1"}, 4)
	assert.Equal(t, float64(4), val)
}

func TestQTableSaveLoadRoundtrip(t *testing.T) {
	q := NewQTable()
	q.Set("s1", "a1", 1.5)
	q.Set("s1", "a2", -2)
	q.Set("s2", "a1", 0.25)

	file := path.Join(t.TempDir(), "qtable.jsonl")
	require.NoError(t, q.Save(file))

	loaded := NewQTable()
	require.NoError(t, loaded.Load(file))
	assert.Equal(t, 1.5, loaded.Get("s1", "a1", 0))
	assert.Equal(t, float64(-2), loaded.Get("s1", "a2", 0))
	assert.Equal(t, 0.25, loaded.Get("s2", "a1", 0))
	assert.Equal(t, 2, loaded.Size())
}
