package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendGrowsByOnePerQuestion(t *testing.T) {
	st := NewStore()
	s := st.Get("")

	questions := []string{"first", "", "second", "   ", "third"}
	for _, q := range questions {
		s.Append(q, "reply to "+q)
	}

	assert.Equal(t, []Pair{
		{Question: "first", Response: "reply to first"},
		{Question: "second", Response: "reply to second"},
		{Question: "third", Response: "reply to third"},
	}, s.Pairs())
	assert.Equal(t, 3, s.Len())
}

func TestPairsReturnsCopy(t *testing.T) {
	s := NewStore().Get("")
	s.Append("q", "r")

	pairs := s.Pairs()
	pairs[0].Question = "changed"

	assert.Equal(t, "q", s.Pairs()[0].Question)
}

func TestGet(t *testing.T) {
	st := NewStore()

	s := st.Get("unknown")
	assert.NotEqual(t, "unknown", s.ID)
	assert.NotEmpty(t, s.ID)

	again := st.Get(s.ID)
	assert.Same(t, s, again)
	assert.Equal(t, 1, st.Len())

	st.Delete(s.ID)
	assert.Equal(t, 0, st.Len())
	assert.NotSame(t, s, st.Get(s.ID))
}

func TestSessionsAreIsolated(t *testing.T) {
	st := NewStore()
	a := st.Get("")
	b := st.Get("")

	a.Append("only in a", "r")

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 0, b.Len())
}

func TestTurnsAreSerialised(t *testing.T) {
	s := NewStore().Get("")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Turn(func() error {
				n := s.Len()
				s.Append(fmt.Sprintf("q%d", i), "r")
				// Nothing else may append while the turn is running.
				assert.Equal(t, n+1, s.Len())
				return nil
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, s.Len())
}

func TestRateLimit(t *testing.T) {
	st := NewStore(WithRateLimit(0.001, 2))
	s := st.Get("")

	assert.True(t, s.Allow())
	assert.True(t, s.Allow())
	assert.False(t, s.Allow())

	// Limits are per session.
	assert.True(t, st.Get("").Allow())
}

func TestNoRateLimit(t *testing.T) {
	s := NewStore().Get("")
	for i := 0; i < 100; i++ {
		require.True(t, s.Allow())
	}
}

func TestPrune(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	st := NewStore(WithIdleTTL(time.Hour), withClock(func() time.Time { return now }))

	old := st.Get("")
	now = now.Add(50 * time.Minute)
	fresh := st.Get("")
	now = now.Add(20 * time.Minute)

	assert.Equal(t, 1, st.Prune())
	assert.Equal(t, 1, st.Len())
	assert.Same(t, fresh, st.Get(fresh.ID))
	assert.NotSame(t, old, st.Get(old.ID))
}

func TestPruneWithoutTTL(t *testing.T) {
	st := NewStore()
	st.Get("")
	assert.Equal(t, 0, st.Prune())
	assert.Equal(t, 1, st.Len())
}
