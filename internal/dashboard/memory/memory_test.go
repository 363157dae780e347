package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dompet/internal/core"
)

func TestNew_EmbeddedFixture(t *testing.T) {
	src, err := New()
	require.NoError(t, err)
	ctx := context.Background()

	latest, err := src.LatestPeriod(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.Period{Year: 2025, Month: 8}, latest)

	snap, err := src.ReadPeriod(ctx, 2025, 8)
	require.NoError(t, err)
	assert.Equal(t, 8_500_000.0, snap.Income)
	assert.Equal(t, 3_200_000.0, snap.Expenses)
	assert.Equal(t, 5_300_000.0, snap.Balance())
	assert.Len(t, snap.ByCategory, 5)
	assert.Len(t, snap.Recent, 5)

	var sum float64
	for _, c := range snap.ByCategory {
		sum += c.Amount
	}
	assert.Equal(t, snap.Expenses, sum, "categories add up to expenses")
}

func TestReadPeriod_Missing(t *testing.T) {
	src, err := New()
	require.NoError(t, err)

	_, err = src.ReadPeriod(context.Background(), 2024, 1)
	assert.ErrorIs(t, err, core.ErrPeriodMissing)

	_, err = src.ReadPeriod(context.Background(), 2025, 13)
	assert.ErrorIs(t, err, core.ErrInvalidMonth)
}

func TestReadPeriod_ReturnsCopies(t *testing.T) {
	src, err := New()
	require.NoError(t, err)
	ctx := context.Background()

	first, err := src.ReadPeriod(ctx, 2025, 8)
	require.NoError(t, err)
	first.ByCategory[0].Amount = 0

	second, err := src.ReadPeriod(ctx, 2025, 8)
	require.NoError(t, err)
	assert.Equal(t, 1_200_000.0, second.ByCategory[0].Amount)
}

func TestDelayHonorsCancellation(t *testing.T) {
	src, err := New(WithDelay(time.Hour))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = src.ReadPeriod(ctx, 2025, 8)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDelay(t *testing.T) {
	src, err := New(WithDelay(15 * time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	_, err = src.ReadPeriod(context.Background(), 2025, 8)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestWithFailure(t *testing.T) {
	src, err := New(WithFailure(nil))
	require.NoError(t, err)
	_, err = src.ReadPeriod(context.Background(), 2025, 8)
	assert.ErrorIs(t, err, ErrUnavailable)

	custom := errors.New("upstream timeout")
	src, err = New(WithFailure(custom))
	require.NoError(t, err)
	_, err = src.LatestPeriod(context.Background())
	assert.ErrorIs(t, err, custom)
}

func TestFromJSON_Invalid(t *testing.T) {
	_, err := FromJSON([]byte(`{`))
	assert.Error(t, err)

	_, err = FromJSON([]byte(`[{"period":{"year":2025,"month":0}}]`))
	assert.ErrorIs(t, err, core.ErrInvalidMonth)

	_, err = FromJSON([]byte(`[{"period":{"year":2025,"month":1}},{"period":{"year":2025,"month":1}}]`))
	assert.ErrorContains(t, err, "duplicate")
}

func TestFromFileAndPut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"period":{"year":2024,"month":12},"income":100}]`), 0o644))

	src, err := FromFile(path)
	require.NoError(t, err)

	src.Put(core.PeriodSnapshot{Period: core.Period{Year: 2025, Month: 1}, Income: 200})
	latest, err := src.LatestPeriod(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.Period{Year: 2025, Month: 1}, latest)

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLatestPeriod_Empty(t *testing.T) {
	src, err := FromJSON([]byte(`[]`))
	require.NoError(t, err)
	_, err = src.LatestPeriod(context.Background())
	assert.ErrorIs(t, err, core.ErrPeriodMissing)
}
