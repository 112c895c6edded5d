package combine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/combcal/combcal/internal/model"
)

func TestStagingLastWriteWins(t *testing.T) {
	s := newStaging()
	s.Put(model.Event{UID: "a", Summary: "first"})
	s.Put(model.Event{UID: "b", Summary: "other"})
	s.Put(model.Event{UID: "a", Summary: "second"})

	events := s.Events()
	require.Len(t, events, 2)

	// Last value per key, in first-insertion-position order.
	assert.Equal(t, "a", events[0].UID)
	assert.Equal(t, "second", events[0].Summary)
	assert.Equal(t, "b", events[1].UID)
}

func TestStagingPreservesInsertionOrder(t *testing.T) {
	s := newStaging()
	for _, uid := range []string{"c", "a", "b"} {
		s.Put(model.Event{UID: uid})
	}

	events := s.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "c", events[0].UID)
	assert.Equal(t, "a", events[1].UID)
	assert.Equal(t, "b", events[2].UID)
}
