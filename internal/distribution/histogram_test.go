package distribution_test

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dicesim/internal/dice"
	"github.com/cory-johannsen/dicesim/internal/distribution"
)

func TestHistogram_Empty(t *testing.T) {
	h := distribution.NewHistogram(dice.MustParse("2d6"))
	assert.Equal(t, int64(0), h.Total())
	assert.Equal(t, int64(0), h.MaxCount())
	assert.Empty(t, h.Observed())
	assert.Equal(t, 0.0, h.Percent(7))
	assert.Equal(t, []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, h.Domain())
}

func TestHistogram_AddAndCount(t *testing.T) {
	h := distribution.NewHistogram(dice.MustParse("2d6"))
	for _, v := range []int{7, 7, 2, 12, 7} {
		require.NoError(t, h.Add(v))
	}
	assert.Equal(t, int64(5), h.Total())
	assert.Equal(t, int64(3), h.Count(7))
	assert.Equal(t, int64(0), h.Count(8), "unobserved values in the domain count as zero")
	assert.Equal(t, int64(0), h.Count(100), "values outside the domain count as zero")
	assert.Equal(t, []int{2, 7, 12}, h.Observed())
	assert.Equal(t, int64(3), h.MaxCount())
	assert.InDelta(t, 60.0, h.Percent(7), 1e-9)
}

func TestHistogram_AddOutOfDomain(t *testing.T) {
	h := distribution.NewHistogram(dice.MustParse("2d6"))
	assert.ErrorIs(t, h.Add(1), distribution.ErrOutOfDomain)
	assert.ErrorIs(t, h.Add(13), distribution.ErrOutOfDomain)
	assert.Equal(t, int64(0), h.Total())
}

func TestAccumulate_OutOfDomain(t *testing.T) {
	_, err := distribution.Accumulate(dice.MustParse("1d6"), slices.Values([]int{1, 2, 9}))
	assert.ErrorIs(t, err, distribution.ErrOutOfDomain)
}

// TestAccumulate_Property verifies counts sum to the number of trials and every
// observed value lies in [N, N*S].
func TestAccumulate_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		pool := dice.Pool{
			Sides: rapid.IntRange(1, 12).Draw(rt, "sides"),
			Count: rapid.IntRange(1, 8).Draw(rt, "count"),
		}
		trials := rapid.IntRange(1, 1000).Draw(rt, "trials")

		s, err := dice.NewSampler(pool, dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")))
		require.NoError(rt, err)
		seq, err := s.Sample(context.Background(), trials)
		require.NoError(rt, err)
		h, err := distribution.Accumulate(pool, seq)
		require.NoError(rt, err)

		assert.Equal(rt, int64(trials), h.Total())
		var sum int64
		for _, v := range h.Domain() {
			sum += h.Count(v)
		}
		assert.Equal(rt, int64(trials), sum)
		for _, v := range h.Observed() {
			if v < pool.Min() || v > pool.Max() {
				rt.Fatalf("observed %d outside [%d, %d]", v, pool.Min(), pool.Max())
			}
		}
	})
}

// TestAccumulate_TwoDiceIsTriangular checks the 2d6 shape: peak at 7 and
// counts falling away toward both ends.
func TestAccumulate_TwoDiceIsTriangular(t *testing.T) {
	pool := dice.MustParse("2d6")
	s, err := dice.NewSampler(pool, dice.NewSeededSource(2024))
	require.NoError(t, err)
	seq, err := s.Sample(context.Background(), 200_000)
	require.NoError(t, err)
	h, err := distribution.Accumulate(pool, seq)
	require.NoError(t, err)

	assert.Equal(t, h.MaxCount(), h.Count(7))
	for v := 3; v <= 7; v++ {
		assert.Greater(t, h.Count(v), h.Count(v-1), "counts must rise toward the peak at %d", v)
	}
	for v := 7; v < 12; v++ {
		assert.Greater(t, h.Count(v), h.Count(v+1), "counts must fall after the peak at %d", v)
	}
}

// TestAccumulate_OneDieIsUniform runs 1d6 for 60000 trials; every face should
// land within 3% of 10000.
func TestAccumulate_OneDieIsUniform(t *testing.T) {
	pool := dice.MustParse("1d6")
	s, err := dice.NewSampler(pool, dice.NewSeededSource(99))
	require.NoError(t, err)
	seq, err := s.Sample(context.Background(), 60_000)
	require.NoError(t, err)
	h, err := distribution.Accumulate(pool, seq)
	require.NoError(t, err)

	for v := 1; v <= 6; v++ {
		assert.InDelta(t, 10_000, h.Count(v), 300, "face %d", v)
	}
}
