// Package dashboard turns raw monthly figures into the KPIs, allocation
// buckets and category breakdown shown on the dashboard page.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"dompet/internal/cache"
	"dompet/internal/core"
	"dompet/internal/finance"
	applog "dompet/internal/log"
)

// Bucket is one row of the budget allocation widget.
type Bucket struct {
	Bucket     string         `json:"bucket"`
	Percent    int            `json:"percent"`
	Target     float64        `json:"target"`
	Actual     float64        `json:"actual"`
	Compliance float64        `json:"compliance"`
	Status     finance.Status `json:"status"`
}

// Category is one slice of the spending breakdown.
type Category struct {
	Category string  `json:"category"`
	Bucket   string  `json:"bucket"`
	Amount   float64 `json:"amount"`
	Share    float64 `json:"share"`
}

// Overview is everything the dashboard renders for one month.
type Overview struct {
	Period           core.Period        `json:"period"`
	Income           float64            `json:"income"`
	Expenses         float64            `json:"expenses"`
	Balance          float64            `json:"balance"`
	MonthlySavings   float64            `json:"monthly_savings"`
	SafeToSpend      float64            `json:"safe_to_spend"`
	SavingsRate      float64            `json:"savings_rate"`
	BudgetCompliance float64            `json:"budget_compliance"`
	DailyAverage     float64            `json:"daily_average"`
	ElapsedDays      int                `json:"elapsed_days"`
	MonthlyTrend     float64            `json:"monthly_trend"`
	HasPrevious      bool               `json:"has_previous"`
	Allocation       []Bucket           `json:"allocation"`
	Categories       []Category         `json:"categories"`
	Accounts         []core.Account     `json:"accounts"`
	Recent           []core.Transaction `json:"recent"`
	GeneratedAt      time.Time          `json:"generated_at"`
}

type Option func(*Service)

// WithClock overrides time.Now, which decides how many days of the current
// month have elapsed.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCache sets the overview cache.
func WithCache(c *cache.LRU[core.Period, Overview]) Option {
	return func(s *Service) { s.cache = c }
}

// Service computes overviews from a Source and user settings.
type Service struct {
	source   Source
	settings SettingsReader
	cache    *cache.LRU[core.Period, Overview]
	group    singleflight.Group
	now      func() time.Time
	logger   *applog.Logger
}

func NewService(source Source, settings SettingsReader, logger *applog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = applog.Discard()
	}
	s := &Service{
		source:   source,
		settings: settings,
		now:      time.Now,
		logger:   logger.WithComponent(applog.ComponentDashboard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache exposes the overview cache, e.g. for a janitor. It may be nil.
func (s *Service) Cache() *cache.LRU[core.Period, Overview] {
	return s.cache
}

// Invalidate drops every cached overview.
func (s *Service) Invalidate() {
	if s.cache != nil {
		s.cache.Purge()
		s.logger.Debug("Overview cache purged")
	}
}

// Latest returns the most recent period the source has data for.
func (s *Service) Latest(ctx context.Context) (core.Period, error) {
	p, err := s.source.LatestPeriod(ctx)
	if err != nil {
		return core.Period{}, fmt.Errorf("latest period: %w", err)
	}
	return p, nil
}

// computeTimeout bounds a shared computation, which outlives the request
// that started it.
const computeTimeout = 30 * time.Second

// Overview returns the dashboard for year/month. Concurrent calls for the
// same month share one computation; a caller that gives up does not cancel
// it for the others.
func (s *Service) Overview(ctx context.Context, year, month int) (Overview, error) {
	p, err := core.NewPeriod(year, month)
	if err != nil {
		return Overview{}, err
	}
	if s.cache != nil {
		if ov, ok := s.cache.Get(p); ok {
			return s.refresh(ov), nil
		}
	}

	ch := s.group.DoChan(p.Key(), func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), computeTimeout)
		defer cancel()
		ov, err := s.compute(fctx, p)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.Set(p, ov)
		}
		return ov, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return Overview{}, res.Err
		}
		return res.Val.(Overview), nil
	case <-ctx.Done():
		return Overview{}, ctx.Err()
	}
}

// refresh brings the clock-dependent figures of a cached overview up to date.
func (s *Service) refresh(ov Overview) Overview {
	days := ov.Period.ElapsedDays(s.now())
	if days != ov.ElapsedDays {
		ov.ElapsedDays = days
		ov.DailyAverage = finance.DailyAverage(ov.Expenses, float64(days))
	}
	return ov
}

func (s *Service) compute(ctx context.Context, p core.Period) (Overview, error) {
	start := time.Now()
	var (
		current, previous core.PeriodSnapshot
		hasPrevious       bool
		st                core.Settings
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap, err := s.source.ReadPeriod(gctx, p.Year, p.Month)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		current = snap
		return nil
	})
	g.Go(func() error {
		prev := p.Previous()
		snap, err := s.source.ReadPeriod(gctx, prev.Year, prev.Month)
		if errors.Is(err, core.ErrPeriodMissing) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", prev, err)
		}
		previous, hasPrevious = snap, true
		return nil
	})
	g.Go(func() error {
		var err error
		st, err = s.settings.Get(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.WarnContext(ctx, "Failed to build overview",
			applog.NewFields().WithOperation(applog.OpRead).WithPeriod(p.Year, p.Month).WithError(err).Args()...)
		return Overview{}, err
	}

	ov := Build(current, previous, hasPrevious, st, s.now())
	s.logger.DebugContext(ctx, "Overview built",
		applog.FieldYear, p.Year,
		applog.FieldMonth, p.Month,
		applog.FieldDuration, time.Since(start).Milliseconds())
	return ov, nil
}

// Build derives an Overview from raw snapshots. previous is ignored unless
// hasPrevious is set, in which case the trend compares expenses.
func Build(current, previous core.PeriodSnapshot, hasPrevious bool, st core.Settings, now time.Time) Overview {
	p := current.Period
	days := p.ElapsedDays(now)

	ov := Overview{
		Period:         p,
		Income:         current.Income,
		Expenses:       current.Expenses,
		Balance:        current.Balance(),
		MonthlySavings: st.MonthlySavings,
		SafeToSpend:    finance.SafeToSpend(current.Income, current.Expenses, st.MonthlySavings),
		SavingsRate:    finance.SavingsRate(current.Income, current.Expenses),
		DailyAverage:   finance.DailyAverage(current.Expenses, float64(days)),
		ElapsedDays:    days,
		HasPrevious:    hasPrevious,
		Accounts:       current.Accounts,
		Recent:         current.Recent,
		GeneratedAt:    now,
	}
	if hasPrevious {
		ov.MonthlyTrend = finance.MonthlyTrend(current.Expenses, previous.Expenses)
	}

	rule := st.Rule
	if len(rule) == 0 {
		rule = finance.DefaultRule()
	}
	var totalTarget float64
	for _, t := range finance.Allocate(current.Income, rule) {
		actual := current.SpentIn(t.Bucket)
		ov.Allocation = append(ov.Allocation, Bucket{
			Bucket:     t.Bucket,
			Percent:    rule.Percent(t.Bucket),
			Target:     t.Amount,
			Actual:     actual,
			Compliance: finance.BudgetCompliance(actual, t.Amount),
			Status:     finance.BudgetStatus(actual, t.Amount),
		})
		totalTarget += t.Amount
	}
	ov.BudgetCompliance = finance.BudgetCompliance(current.Expenses, totalTarget)

	for _, c := range current.ByCategory {
		ov.Categories = append(ov.Categories, Category{
			Category: c.Category,
			Bucket:   c.Bucket,
			Amount:   c.Amount,
			Share:    finance.CategoryShare(c.Amount, current.Expenses),
		})
	}
	return ov
}
