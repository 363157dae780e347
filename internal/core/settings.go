package core

import (
	"errors"
	"time"

	"dompet/internal/finance"
)

var ErrSettingsNotFound = errors.New("settings not found")

// DefaultMonthlySavings is what the dashboard sets aside before a user has
// saved their own figure.
const DefaultMonthlySavings = 2_500_000

// Settings are the user preferences that feed the dashboard.
type Settings struct {
	MonthlySavings float64                `json:"monthly_savings"`
	Rule           finance.AllocationRule `json:"rule"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// DefaultSettings returns the settings used until the user saves any.
func DefaultSettings() Settings {
	return Settings{
		MonthlySavings: DefaultMonthlySavings,
		Rule:           finance.DefaultRule(),
	}
}
