package dashboard

import (
	"context"

	"dompet/internal/core"
)

// Source supplies raw monthly figures. Implementations return an error
// wrapping core.ErrPeriodMissing for months they know nothing about.
type Source interface {
	ReadPeriod(ctx context.Context, year, month int) (core.PeriodSnapshot, error)
	// LatestPeriod is the most recent month with data.
	LatestPeriod(ctx context.Context) (core.Period, error)
}

// SettingsReader provides the user's savings amount and allocation rule.
type SettingsReader interface {
	Get(ctx context.Context) (core.Settings, error)
}
