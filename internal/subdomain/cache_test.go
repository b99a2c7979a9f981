package subdomain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memKV struct {
	data   map[string]string
	getErr error
}

func (m *memKV) Get(_ context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return "", ErrMiss
	}
	return v, nil
}

func (m *memKV) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.data[key] = value
	return nil
}

type countingLookup struct {
	taken map[string]bool
	calls int
}

func (c *countingLookup) IsTaken(_ context.Context, name string) (bool, error) {
	c.calls++
	return c.taken[name], nil
}

func TestCachedLookup_CachesTakenOnly(t *testing.T) {
	kv := &memKV{data: map[string]string{}}
	next := &countingLookup{taken: map[string]bool{"smith-baby": true}}
	c := NewCachedLookup(kv, next, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		taken, err := c.IsTaken(ctx, "smith-baby")
		require.NoError(t, err)
		assert.True(t, taken)
	}
	assert.Equal(t, 1, next.calls)

	for i := 0; i < 2; i++ {
		taken, err := c.IsTaken(ctx, "jones-baby")
		require.NoError(t, err)
		assert.False(t, taken)
	}
	assert.Equal(t, 3, next.calls, "available names are always re-checked")
}

func TestCachedLookup_CacheDownFallsThrough(t *testing.T) {
	kv := &memKV{data: map[string]string{}, getErr: errors.New("redis: connection refused")}
	next := &countingLookup{taken: map[string]bool{"smith-baby": true}}
	c := NewCachedLookup(kv, next, zap.NewNop())

	taken, err := c.IsTaken(context.Background(), "smith-baby")
	require.NoError(t, err)
	assert.True(t, taken)
	assert.Equal(t, 1, next.calls)
}
