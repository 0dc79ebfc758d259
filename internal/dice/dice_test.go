package dice_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dicesim/internal/dice"
)

func TestPool_Bounds(t *testing.T) {
	p := dice.Pool{Sides: 6, Count: 2}
	assert.Equal(t, 2, p.Min())
	assert.Equal(t, 12, p.Max())
	assert.InDelta(t, 7.0, p.ExpectedMean(), 1e-12)
	assert.Equal(t, "2d6", p.String())
}

func TestPool_Validate(t *testing.T) {
	assert.NoError(t, dice.Pool{Sides: 1, Count: 1}.Validate())
	assert.ErrorIs(t, dice.Pool{Sides: 0, Count: 1}.Validate(), dice.ErrInvalidParameter)
	assert.ErrorIs(t, dice.Pool{Sides: 6, Count: 0}.Validate(), dice.ErrInvalidParameter)
	assert.ErrorIs(t, dice.Pool{Sides: -3, Count: -1}.Validate(), dice.ErrInvalidParameter)
}

func TestPool_ValidateRejectsOverflow(t *testing.T) {
	assert.ErrorIs(t, dice.Pool{Sides: 1 << 62, Count: 4}.Validate(), dice.ErrInvalidParameter)
	assert.ErrorIs(t, dice.Pool{Sides: math.MaxInt, Count: 2}.Validate(), dice.ErrInvalidParameter)
	assert.NoError(t, dice.Pool{Sides: math.MaxInt, Count: 1}.Validate())
	assert.NoError(t, dice.Pool{Sides: math.MaxInt / 2, Count: 2}.Validate())

	_, err := dice.Parse("4d4611686018427387904")
	assert.ErrorIs(t, err, dice.ErrInvalidParameter)

	_, err = dice.NewSampler(dice.Pool{Sides: 1 << 62, Count: 4}, dice.NewSeededSource(1))
	assert.ErrorIs(t, err, dice.ErrInvalidParameter)
}

func TestPropertyValidPoolHasOrderedDomain(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := dice.Pool{
			Sides: rapid.IntRange(1, math.MaxInt).Draw(t, "sides"),
			Count: rapid.IntRange(1, math.MaxInt).Draw(t, "count"),
		}
		if p.Validate() != nil {
			return
		}
		if p.Min() > p.Max() {
			t.Fatalf("pool %v validated with inverted domain [%d, %d]", p, p.Min(), p.Max())
		}
	})
}

func TestParse(t *testing.T) {
	p, err := dice.Parse("3d6")
	require.NoError(t, err)
	assert.Equal(t, dice.Pool{Sides: 6, Count: 3}, p)

	p, err = dice.Parse("d20")
	require.NoError(t, err)
	assert.Equal(t, dice.Pool{Sides: 20, Count: 1}, p)

	p, err = dice.Parse(" 10D4 ")
	require.NoError(t, err)
	assert.Equal(t, dice.Pool{Sides: 4, Count: 10}, p)
}

func TestParse_Errors(t *testing.T) {
	for _, expr := range []string{"", "6", "xd6", "2dx", "0d6", "2d0", "2d6+3"} {
		_, err := dice.Parse(expr)
		assert.ErrorIs(t, err, dice.ErrInvalidParameter, "expression %q", expr)
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { dice.MustParse("nope") })
	assert.Equal(t, dice.Pool{Sides: 8, Count: 4}, dice.MustParse("4d8"))
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_Intn_ChangingBound(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 500; i++ {
		n := i%20 + 1
		v := src.Intn(n)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, n, "bound %d", n)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestSeededSource_Deterministic(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
	assert.Panics(t, func() { a.Intn(-1) })
}

func TestNewSampler_RejectsInvalidPool(t *testing.T) {
	_, err := dice.NewSampler(dice.Pool{Sides: 0, Count: 2}, dice.NewSeededSource(1))
	assert.ErrorIs(t, err, dice.ErrInvalidParameter)
}

func TestSampler_Sample_NegativeTrials(t *testing.T) {
	s, err := dice.NewSampler(dice.MustParse("2d6"), dice.NewSeededSource(1))
	require.NoError(t, err)
	_, err = s.Sample(context.Background(), -1)
	assert.ErrorIs(t, err, dice.ErrInvalidParameter)
}

func TestSampler_Sample_ZeroTrials(t *testing.T) {
	s, err := dice.NewSampler(dice.MustParse("2d6"), dice.NewSeededSource(1))
	require.NoError(t, err)
	seq, err := s.Sample(context.Background(), 0)
	require.NoError(t, err)
	n := 0
	for range seq {
		n++
	}
	assert.Zero(t, n)
}

func TestSampler_Sample_StopsOnCancel(t *testing.T) {
	s, err := dice.NewSampler(dice.MustParse("3d6"), dice.NewSeededSource(7))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	seq, err := s.Sample(ctx, 1000)
	require.NoError(t, err)

	n := 0
	for range seq {
		n++
		if n == 10 {
			cancel()
		}
	}
	assert.Equal(t, 10, n)
	assert.Error(t, ctx.Err())
}

func TestSampler_Sample_EarlyBreak(t *testing.T) {
	s, err := dice.NewSampler(dice.MustParse("1d6"), dice.NewSeededSource(3))
	require.NoError(t, err)
	seq, err := s.Sample(context.Background(), 100)
	require.NoError(t, err)
	n := 0
	for range seq {
		n++
		if n == 5 {
			break
		}
	}
	assert.Equal(t, 5, n)
}

func TestSampler_SingleSidedDieIsConstant(t *testing.T) {
	s, err := dice.NewSampler(dice.Pool{Sides: 1, Count: 4}, dice.NewCryptoSource())
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		assert.Equal(t, 4, s.Roll())
	}
}

// TestSampler_Sample_Property verifies every outcome lies in [N, N*S] and
// exactly the requested number of trials is produced.
func TestSampler_Sample_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		pool := dice.Pool{
			Sides: rapid.IntRange(1, 20).Draw(rt, "sides"),
			Count: rapid.IntRange(1, 10).Draw(rt, "count"),
		}
		trials := rapid.IntRange(0, 500).Draw(rt, "trials")
		seed := rapid.Uint64().Draw(rt, "seed")

		s, err := dice.NewSampler(pool, dice.NewSeededSource(seed), dice.WithProgressEvery(50))
		require.NoError(rt, err)
		seq, err := s.Sample(context.Background(), trials)
		require.NoError(rt, err)

		n := 0
		for v := range seq {
			n++
			if v < pool.Min() || v > pool.Max() {
				rt.Fatalf("outcome %d outside [%d, %d]", v, pool.Min(), pool.Max())
			}
		}
		assert.Equal(rt, trials, n)
	})
}
