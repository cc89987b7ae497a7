package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtriage/backend/internal/application/services"
	"github.com/medtriage/backend/internal/knowledge"
	apperrors "github.com/medtriage/backend/pkg/errors"
)

// memoryCache is a map-backed CacheProvider for tests.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
	hits    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	if !ok {
		return nil, apperrors.NewNotFoundError("cache miss")
	}
	c.hits++
	return data, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.sets++
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok, nil
}

func TestConditionService_MatchConditions(t *testing.T) {
	service := services.NewConditionService(knowledge.Default())
	ctx := context.Background()

	t.Run("rejects empty symptom list", func(t *testing.T) {
		result, err := service.MatchConditions(ctx, nil)

		assert.Nil(t, result)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	})

	t.Run("unions conditions across symptoms without duplicates", func(t *testing.T) {
		result, err := service.MatchConditions(ctx, []string{"fever", "cough"})

		require.NoError(t, err)
		assert.Equal(t, []string{"bronchitis", "common_cold", "covid", "flu", "infection", "pneumonia"}, result.PossibleConditions)
		assert.Empty(t, result.RedFlagSymptoms)
		assert.False(t, result.RequiresImmediateAttention)

		// Details exist only for conditions the base describes.
		assert.Len(t, result.ConditionDetails, 3)
		assert.Contains(t, result.ConditionDetails, "common_cold")
		assert.Contains(t, result.ConditionDetails, "flu")
		assert.Contains(t, result.ConditionDetails, "pneumonia")
	})

	t.Run("matching is case insensitive", func(t *testing.T) {
		upper, err := service.MatchConditions(ctx, []string{"  FEVER "})
		require.NoError(t, err)

		lower, err := service.MatchConditions(ctx, []string{"fever"})
		require.NoError(t, err)

		assert.Equal(t, lower.PossibleConditions, upper.PossibleConditions)
		assert.Equal(t, []string{"fever"}, upper.SymptomsAnalyzed)
	})

	t.Run("repeated red flags are counted twice", func(t *testing.T) {
		result, err := service.MatchConditions(ctx, []string{"severe_chest_pain", "severe_chest_pain"})

		require.NoError(t, err)
		assert.Equal(t, []string{"severe_chest_pain", "severe_chest_pain"}, result.RedFlagSymptoms)
		assert.True(t, result.RequiresImmediateAttention)
		assert.Empty(t, result.PossibleConditions)
	})

	t.Run("unknown symptoms contribute nothing", func(t *testing.T) {
		result, err := service.MatchConditions(ctx, []string{"glowing"})

		require.NoError(t, err)
		assert.Empty(t, result.PossibleConditions)
		assert.Empty(t, result.RedFlagSymptoms)
		assert.False(t, result.RequiresImmediateAttention)
	})

	t.Run("results are served from cache on repeat lookups", func(t *testing.T) {
		cached := services.NewConditionService(knowledge.Default())
		cache := newMemoryCache()
		cached.SetCache(cache)

		first, err := cached.MatchConditions(ctx, []string{"headache"})
		require.NoError(t, err)

		second, err := cached.MatchConditions(ctx, []string{"headache"})
		require.NoError(t, err)

		assert.Equal(t, first.PossibleConditions, second.PossibleConditions)
		assert.Equal(t, 1, cache.sets)
		assert.Equal(t, 1, cache.hits)
	})
}

func TestConditionService_ClarificationQuestions(t *testing.T) {
	service := services.NewConditionService(knowledge.Default())

	t.Run("returns the symptom question set", func(t *testing.T) {
		questions := service.ClarificationQuestions("Chest_Pain")

		require.Len(t, questions, 4)
		assert.Equal(t, "On a scale of 1-10, how severe is the pain?", questions[0])
	})

	t.Run("spaced variants fall back to the default set", func(t *testing.T) {
		questions := service.ClarificationQuestions("chest pain")

		assert.Equal(t, knowledge.DefaultClarificationQuestions(), questions)
	})

	t.Run("unknown symptoms fall back to the default set", func(t *testing.T) {
		questions := service.ClarificationQuestions("glowing")

		assert.Equal(t, knowledge.DefaultClarificationQuestions(), questions)
	})
}
