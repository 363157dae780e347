package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dompet/internal/core"
	"dompet/internal/finance"
)

func newTestRepo(t *testing.T) (*SQLiteRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "dompet.db")
	repo, err := NewSQLiteRepository(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo, path
}

func TestGetSettings_NotFoundOnFreshDatabase(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.GetSettings(context.Background())
	assert.ErrorIs(t, err, core.ErrSettingsNotFound)
}

func TestSaveSettings_RoundTripAndOverwrite(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	at := time.Date(2025, 8, 24, 10, 30, 0, 0, time.UTC)

	require.NoError(t, repo.SaveSettings(ctx, core.Settings{
		MonthlySavings: 2_500_000,
		Rule:           finance.DefaultRule(),
		UpdatedAt:      at,
	}))

	got, err := repo.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2_500_000.0, got.MonthlySavings)
	assert.Equal(t, finance.DefaultRule(), got.Rule)
	assert.True(t, at.Equal(got.UpdatedAt))

	custom := finance.AllocationRule{
		{Bucket: finance.BucketNeeds, Percent: 60},
		{Bucket: finance.BucketWants, Percent: 40},
	}
	require.NoError(t, repo.SaveSettings(ctx, core.Settings{MonthlySavings: 0, Rule: custom}))

	got, err = repo.GetSettings(ctx)
	require.NoError(t, err)
	assert.Zero(t, got.MonthlySavings)
	assert.Equal(t, custom, got.Rule)
	assert.False(t, got.UpdatedAt.IsZero(), "zero UpdatedAt is stamped on save")
}

func TestSaveSettings_RejectsNegativeSavings(t *testing.T) {
	repo, _ := newTestRepo(t)

	err := repo.SaveSettings(context.Background(), core.Settings{MonthlySavings: -1, Rule: finance.DefaultRule()})
	assert.Error(t, err)
}

func TestSettingsSurviveReopen(t *testing.T) {
	repo, path := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.SaveSettings(ctx, core.DefaultSettings()))
	require.NoError(t, repo.Close())

	reopened, err := NewSQLiteRepository(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, finance.DefaultRule(), got.Rule)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	_, path := newTestRepo(t)

	version, err := RunMigrations(path)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}

func TestPing(t *testing.T) {
	repo, _ := newTestRepo(t)
	assert.NoError(t, repo.Ping(context.Background()))

	require.NoError(t, repo.Close())
	assert.Error(t, repo.Ping(context.Background()))
}
