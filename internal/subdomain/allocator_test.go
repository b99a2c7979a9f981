package subdomain

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"babypool/internal/apperr"
)

type failingLookup struct{ err error }

func (f failingLookup) IsTaken(context.Context, string) (bool, error) { return false, f.err }

type slowLookup struct{}

func (slowLookup) IsTaken(ctx context.Context, _ string) (bool, error) {
	<-ctx.Done()
	return false, ctx.Err()
}

func TestPropose(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Margo & Partner!!", "margo-partner"},
		{"  --Baby  Smith--  ", "baby-smith"},
		{"ALLCAPS", "allcaps"},
		{"Zoë's Pool 2026", "zo-s-pool-2026"},
		{"!!!", ""},
		{strings.Repeat("ab", 20), strings.Repeat("ab", 15)},
		{"abcdefghijklmnopqrstuvwxyz abcd efg", "abcdefghijklmnopqrstuvwxyz-abc"},
		{"abcdefghijklmnopqrstuvwxyzabc def", "abcdefghijklmnopqrstuvwxyzabc"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Propose(tt.in))
		})
	}
}

func TestPropose_OutputShape(t *testing.T) {
	inputs := []string{
		"", "a", "A--B", "--", "x y z", "émilie & léo", "baby_2026!!", "\t\n",
		strings.Repeat("-a", 40), "123 456 789 012 345 678 901 234",
		"Smith/Jones Family Pool", "日本語 name",
	}
	for _, in := range inputs {
		out := Propose(in)
		assert.LessOrEqual(t, len(out), MaxLength, in)
		assert.False(t, strings.HasPrefix(out, "-"), in)
		assert.False(t, strings.HasSuffix(out, "-"), in)
		assert.NotContains(t, out, "--", in)
		for _, r := range out {
			ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
			assert.True(t, ok, "unexpected rune %q in %q", r, out)
		}
	}
}

func TestCheck_StaticRules(t *testing.T) {
	a := NewAllocator(StaticLookup{}, Options{}, zap.NewNop())
	ctx := context.Background()

	assert.ErrorIs(t, a.Check(ctx, "ab"), apperr.ErrInvalidSubdomain)
	assert.ErrorIs(t, a.Check(ctx, strings.Repeat("a", 31)), apperr.ErrInvalidSubdomain)
	assert.ErrorIs(t, a.Check(ctx, "Bad-Name"), apperr.ErrInvalidSubdomain)
	assert.ErrorIs(t, a.Check(ctx, "bad--name"), apperr.ErrInvalidSubdomain)
	assert.ErrorIs(t, a.Check(ctx, "-bad"), apperr.ErrInvalidSubdomain)
	assert.ErrorIs(t, a.Check(ctx, "www"), apperr.ErrSubdomainReserved)
	assert.ErrorIs(t, a.Check(ctx, "admin"), apperr.ErrSubdomainReserved)
	assert.NoError(t, a.Check(ctx, "margo-partner"))
}

func TestCheck_ReservedAlwaysUnavailable(t *testing.T) {
	lookups := map[string]Lookup{
		"free":    StaticLookup{},
		"down":    failingLookup{err: errors.New("connection refused")},
		"no-host": nil,
	}
	for name, l := range lookups {
		for _, strict := range []bool{true, false} {
			a := NewAllocator(l, Options{Strict: strict}, zap.NewNop())
			assert.False(t, a.IsAvailable(context.Background(), "www"), name)
			assert.False(t, a.IsAvailable(context.Background(), "admin"), name)
		}
	}
}

func TestCheck_InjectedReservedSet(t *testing.T) {
	a := NewAllocator(nil, Options{Reserved: []string{"Acme"}}, zap.NewNop())

	assert.ErrorIs(t, a.Check(context.Background(), "acme"), apperr.ErrSubdomainReserved)
	assert.NoError(t, a.Check(context.Background(), "www"), "custom set replaces the default")
}

func TestCheck_Taken(t *testing.T) {
	a := NewAllocator(StaticLookup{"smith-baby": true}, Options{Strict: true}, zap.NewNop())

	err := a.Check(context.Background(), "smith-baby")
	assert.ErrorIs(t, err, apperr.ErrSubdomainTaken)
	assert.NoError(t, a.Check(context.Background(), "jones-baby"))
}

func TestCheck_RegistryDown(t *testing.T) {
	down := failingLookup{err: errors.New("dial tcp: connection refused")}

	lenient := NewAllocator(down, Options{Strict: false}, zap.NewNop())
	assert.NoError(t, lenient.Check(context.Background(), "smith-baby"))

	strict := NewAllocator(down, Options{Strict: true}, zap.NewNop())
	assert.ErrorIs(t, strict.Check(context.Background(), "smith-baby"), apperr.ErrRegistryUnavailable)
}

func TestCheck_LookupTimeout(t *testing.T) {
	a := NewAllocator(slowLookup{}, Options{Strict: true, LookupTimeout: 20 * time.Millisecond}, zap.NewNop())

	start := time.Now()
	err := a.Check(context.Background(), "smith-baby")
	assert.ErrorIs(t, err, apperr.ErrRegistryUnavailable)
	assert.Less(t, time.Since(start), time.Second)

	lenient := NewAllocator(slowLookup{}, Options{LookupTimeout: 20 * time.Millisecond}, zap.NewNop())
	assert.NoError(t, lenient.Check(context.Background(), "smith-baby"))
}

func TestSuggest(t *testing.T) {
	a := NewAllocator(StaticLookup{"smith": true, "smith-2": true}, Options{}, zap.NewNop())

	got, err := a.Suggest(context.Background(), "Smith", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"smith-3", "smith-4"}, got)
}

func TestSuggest_LongBase(t *testing.T) {
	long := strings.Repeat("a", MaxLength)
	a := NewAllocator(StaticLookup{long: true}, Options{}, zap.NewNop())

	got, err := a.Suggest(context.Background(), long, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, strings.Repeat("a", MaxLength-2)+"-2", got[0])
}

func TestSuggest_StrictRegistryDown(t *testing.T) {
	a := NewAllocator(failingLookup{err: errors.New("timeout")}, Options{Strict: true}, zap.NewNop())

	_, err := a.Suggest(context.Background(), "Smith", 3)
	assert.ErrorIs(t, err, apperr.ErrRegistryUnavailable)
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	down := failingLookup{err: errors.New("down")}

	taken, err := Chain{down, StaticLookup{"x-y": true}}.IsTaken(ctx, "x-y")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = Chain{StaticLookup{}, down}.IsTaken(ctx, "x-y")
	assert.Error(t, err)
	assert.False(t, taken)

	taken, err = Chain{StaticLookup{}, StaticLookup{}}.IsTaken(ctx, "x-y")
	require.NoError(t, err)
	assert.False(t, taken)
}
