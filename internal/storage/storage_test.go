package storage

import (
	"path/filepath"
	"sync"
	"testing"

	"bazar-bot/internal/listing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func sampleAnswers() listing.Answers {
	return listing.Answers{
		CarTitle: "VW Passat B7", Engine: "2.0 TDI", Gearbox: "DSG", Mileage: "180k",
		City: "Rivne", Price: "11000$", Contacts: "@owner", Description: "Imported 2020",
	}
}

func sampleMedia() []listing.Media {
	return []listing.Media{
		{FileID: "main", Kind: listing.MediaPhoto},
		{FileID: "back", Kind: listing.MediaPhoto},
		{FileID: "clip", Kind: listing.MediaVideo},
	}
}

func TestCreateAndGetSubmission(t *testing.T) {
	s := newTestStorage(t)

	id, err := s.CreateSubmission(42, "Taras", sampleAnswers(), sampleMedia())
	require.NoError(t, err)
	assert.Positive(t, id)

	sub, err := s.GetSubmission(id)
	require.NoError(t, err)
	assert.Equal(t, id, sub.ID)
	assert.Equal(t, int64(42), sub.SubmitterID)
	assert.Equal(t, "Taras", sub.SubmitterName)
	assert.Equal(t, sampleAnswers(), sub.Answers)
	assert.Equal(t, sampleMedia(), sub.Media)
	assert.Equal(t, listing.StatusPending, sub.Status)
	assert.Empty(t, sub.Tags)
	assert.True(t, sub.DecidedAt.IsZero())
}

func TestIDsIncrease(t *testing.T) {
	s := newTestStorage(t)
	first, err := s.CreateSubmission(1, "a", sampleAnswers(), sampleMedia())
	require.NoError(t, err)
	second, err := s.CreateSubmission(2, "b", sampleAnswers(), sampleMedia())
	require.NoError(t, err)
	assert.Greater(t, second, first)
}

func TestGetSubmissionNotFound(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.GetSubmission(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTryTransitionHappensOnce(t *testing.T) {
	for _, to := range []listing.Status{listing.StatusApproved, listing.StatusDenied} {
		t.Run(string(to), func(t *testing.T) {
			s := newTestStorage(t)
			id, err := s.CreateSubmission(1, "a", sampleAnswers(), sampleMedia())
			require.NoError(t, err)

			ok, err := s.TryTransition(id, to, Decision{ModeratorID: 7, Tags: []string{"#suv", "#diesel"}, Reason: "r"})
			require.NoError(t, err)
			assert.True(t, ok)

			for _, again := range []listing.Status{listing.StatusApproved, listing.StatusDenied} {
				ok, err = s.TryTransition(id, again, Decision{ModeratorID: 8, Tags: []string{"#lpg"}})
				require.NoError(t, err)
				assert.False(t, ok)
			}

			sub, err := s.GetSubmission(id)
			require.NoError(t, err)
			assert.Equal(t, to, sub.Status)
			assert.Equal(t, int64(7), sub.ModeratorID)
			assert.Equal(t, []string{"#suv", "#diesel"}, sub.Tags)
			assert.Equal(t, "r", sub.DenyReason)
			assert.False(t, sub.DecidedAt.IsZero())
		})
	}
}

func TestTryTransitionRejectsPendingTarget(t *testing.T) {
	s := newTestStorage(t)
	id, err := s.CreateSubmission(1, "a", sampleAnswers(), sampleMedia())
	require.NoError(t, err)

	_, err = s.TryTransition(id, listing.StatusPending, Decision{})
	assert.Error(t, err)
}

func TestTryTransitionUnknownID(t *testing.T) {
	s := newTestStorage(t)
	ok, err := s.TryTransition(12345, listing.StatusApproved, Decision{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTryTransitionConcurrentSingleWinner(t *testing.T) {
	s := newTestStorage(t)
	id, err := s.CreateSubmission(1, "a", sampleAnswers(), sampleMedia())
	require.NoError(t, err)

	const racers = 16
	var wg sync.WaitGroup
	results := make(chan bool, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			to := listing.StatusApproved
			if i%2 == 1 {
				to = listing.StatusDenied
			}
			ok, err := s.TryTransition(id, to, Decision{ModeratorID: int64(i)})
			assert.NoError(t, err)
			results <- ok
		}(i)
	}
	wg.Wait()
	close(results)

	wins := 0
	for ok := range results {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
}

func TestCountPending(t *testing.T) {
	s := newTestStorage(t)
	for i := 0; i < 3; i++ {
		_, err := s.CreateSubmission(int64(i), "a", sampleAnswers(), sampleMedia())
		require.NoError(t, err)
	}
	_, err := s.TryTransition(1, listing.StatusDenied, Decision{Reason: "blurry"})
	require.NoError(t, err)

	count, err := s.CountPending()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSchemaMigrationIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repeat.db")

	first, err := NewStorage(path, zap.NewNop())
	require.NoError(t, err)
	id, err := first.CreateSubmission(5, "e", sampleAnswers(), sampleMedia())
	require.NoError(t, err)
	first.Close()

	second, err := NewStorage(path, zap.NewNop())
	require.NoError(t, err)
	defer second.Close()

	sub, err := second.GetSubmission(id)
	require.NoError(t, err)
	assert.Equal(t, sampleAnswers(), sub.Answers)
}
