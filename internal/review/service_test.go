package review

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockStore is a mock of the review store.
type mockStore struct {
	added    []*Review
	addError error
}

// Add mocks the Add method.
func (m *mockStore) Add(ctx context.Context, r *Review) error {
	if m.addError != nil {
		return m.addError
	}
	r.ID = "rev-1"
	m.added = append(m.added, r)
	return nil
}

// ListByRecipe mocks the ListByRecipe method.
func (m *mockStore) ListByRecipe(ctx context.Context, recipeID string) ([]*Review, error) {
	var out []*Review
	for _, r := range m.added {
		if r.RecipeID == recipeID {
			out = append(out, r)
		}
	}
	return out, nil
}

// mockCounterStore is a mock of the recipe counter slice.
type mockCounterStore struct {
	counters       map[string]int
	incrementError error
}

func newMockCounterStore() *mockCounterStore {
	return &mockCounterStore{counters: make(map[string]int)}
}

// IncrementReviewCounter mocks the IncrementReviewCounter method.
func (m *mockCounterStore) IncrementReviewCounter(ctx context.Context, id string) error {
	if m.incrementError != nil {
		return m.incrementError
	}
	m.counters[id]++
	return nil
}

func TestIngest_Success(t *testing.T) {
	store := &mockStore{}
	counters := newMockCounterStore()
	svc := NewService(store, counters, zap.NewNop())

	rv, err := svc.Ingest(context.Background(), Submission{
		RecipeID:     "r1",
		ReviewerName: "pat",
		Rating:       4,
		Description:  "needed more garlic",
	})
	require.NoError(t, err)

	assert.Equal(t, "rev-1", rv.ID)
	assert.Equal(t, "r1", rv.RecipeID)
	assert.Equal(t, 4, rv.Rating)
	require.Len(t, store.added, 1)
	assert.Equal(t, 1, counters.counters["r1"])
}

func TestIngest_CounterIncrementsByExactlyOne(t *testing.T) {
	store := &mockStore{}
	counters := newMockCounterStore()
	counters.counters["r1"] = 2
	svc := NewService(store, counters, zap.NewNop())

	_, err := svc.Ingest(context.Background(), Submission{
		RecipeID:    "r1",
		Rating:      5,
		Description: "great",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, counters.counters["r1"])
}

func TestIngest_RatingOutOfRange(t *testing.T) {
	for _, rating := range []int{-1, 0, 6, 100} {
		store := &mockStore{}
		counters := newMockCounterStore()
		svc := NewService(store, counters, zap.NewNop())

		_, err := svc.Ingest(context.Background(), Submission{
			RecipeID:    "r1",
			Rating:      rating,
			Description: "fine",
		})

		// Rejected before anything is persisted.
		assert.ErrorIs(t, err, ErrInvalidReview)
		assert.Empty(t, store.added)
		assert.Empty(t, counters.counters)
	}
}

func TestIngest_MissingFields(t *testing.T) {
	store := &mockStore{}
	svc := NewService(store, newMockCounterStore(), zap.NewNop())

	_, err := svc.Ingest(context.Background(), Submission{Rating: 3, Description: "ok"})
	assert.ErrorIs(t, err, ErrInvalidReview)

	_, err = svc.Ingest(context.Background(), Submission{RecipeID: "r1", Rating: 3})
	assert.ErrorIs(t, err, ErrInvalidReview)

	assert.Empty(t, store.added)
}

func TestIngest_CounterFailureDoesNotRollBackReview(t *testing.T) {
	store := &mockStore{}
	counters := newMockCounterStore()
	counters.incrementError = errors.New("recipe table unavailable")
	svc := NewService(store, counters, zap.NewNop())

	rv, err := svc.Ingest(context.Background(), Submission{
		RecipeID:    "r1",
		Rating:      2,
		Description: "bland",
	})

	// The review write stands even though the counter bump failed.
	require.NoError(t, err)
	assert.NotNil(t, rv)
	assert.Len(t, store.added, 1)
}

func TestIngest_StoreFailure(t *testing.T) {
	store := &mockStore{addError: errors.New("insert failed")}
	counters := newMockCounterStore()
	svc := NewService(store, counters, zap.NewNop())

	_, err := svc.Ingest(context.Background(), Submission{
		RecipeID:    "r1",
		Rating:      3,
		Description: "ok",
	})

	require.Error(t, err)
	// No counter bump for a review that was never persisted.
	assert.Empty(t, counters.counters)
}
