package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"dompet/internal/core"
	"dompet/internal/dashboard"
	"dompet/internal/finance"
	"dompet/internal/format"
	"dompet/internal/i18n"
	applog "dompet/internal/log"
	"dompet/internal/settings"
)

type kpiCard struct {
	Label string
	Value string
	Tone  string // neutral, positive, negative
}

type bucketRow struct {
	Bucket          string
	Label           string
	Percent         string
	Target          string
	Actual          string
	Compliance      float64
	ComplianceLabel string
	Status          finance.Status
	StatusLabel     string
}

type categoryRow struct {
	Name   string
	Amount string
	Share  string
}

type dashboardView struct {
	PeriodLabel        string
	PrevHref           string
	NextHref           string
	KPIs               []kpiCard
	AllocationSubtitle string
	AllocationSummary  string
	Allocation         []bucketRow
	Categories         []categoryRow
	Advisor            advisorView
}

// advisorView backs the "can I buy it?" form, which checks a price against
// the month's safe-to-spend.
type advisorView struct {
	Action    string
	Year      int
	Month     int
	Price     string
	Checked   bool
	Invalid   bool
	CanAfford bool
	Verdict   string
	Reason    string
}

func newAdvisorView(b *i18n.Bundle, ov dashboard.Overview, query url.Values) advisorView {
	l := b.Locale()
	v := advisorView{
		Action: i18n.Localize(l, "/dashboard"),
		Year:   ov.Period.Year,
		Month:  ov.Period.Month,
	}
	price, ok, err := ParsePriceParam(query)
	if !ok {
		return v
	}
	v.Price = sanitizeInput(query.Get("price"))
	if err != nil {
		v.Invalid = true
		return v
	}
	v.Checked = true
	canAfford, shortfall := finance.Afford(price, ov.SafeToSpend)
	v.CanAfford = canAfford
	if canAfford {
		v.Verdict = b.Text(i18n.KeyAdvisorYes)
		v.Reason = b.Sprintf(i18n.KeyAdvisorRemaining, format.Rupiah(ov.SafeToSpend, l))
	} else {
		v.Verdict = b.Text(i18n.KeyAdvisorNo)
		v.Reason = b.Sprintf(i18n.KeyAdvisorShortfall, format.Rupiah(shortfall, l))
	}
	return v
}

var statusKeys = map[finance.Status]i18n.Key{
	finance.StatusUnderBudget: i18n.KeyStatusUnderBudget,
	finance.StatusOnTrack:     i18n.KeyStatusOnTrack,
	finance.StatusOverBudget:  i18n.KeyStatusOverBudget,
}

// period picks the requested month, or the latest month with data.
func (s *Server) period(ctx context.Context, r *http.Request) (core.Period, error) {
	params, ok, err := ParseMonthParams(r.URL.Query())
	if err != nil {
		return core.Period{}, err
	}
	if !ok {
		return s.deps.Dashboard.Latest(ctx)
	}
	return core.Period{Year: params.Year, Month: params.Month}, nil
}

func (s *Server) handleDashboardPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	p, err := s.period(ctx, r)
	if errors.Is(err, ErrBadParam) {
		s.renderError(w, r, http.StatusBadRequest, i18n.KeyDashboardError)
		return
	}
	var ov dashboard.Overview
	if err == nil {
		ov, err = s.deps.Dashboard.Overview(ctx, p.Year, p.Month)
	}
	if err != nil {
		status := statusFor(err)
		logger.WarnContext(ctx, "Dashboard unavailable",
			applog.FieldOperation, applog.OpRead,
			applog.FieldStatusCode, status,
			applog.FieldError, err.Error())
		s.renderError(w, r, status, i18n.KeyDashboardError)
		return
	}

	b, err := s.bundle(r)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, i18n.KeyErrorInternal)
		return
	}
	v := newDashboardView(b, ov)
	v.Advisor = newAdvisorView(b, ov, r.URL.Query())
	s.render(w, r, http.StatusOK, "dashboard", "dashboard", v)
}

// statusFor maps dashboard errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBadParam), errors.Is(err, core.ErrInvalidMonth):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrPeriodMissing):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func newDashboardView(b *i18n.Bundle, ov dashboard.Overview) dashboardView {
	l := b.Locale()
	periodHref := func(p core.Period) string {
		return fmt.Sprintf("%s?year=%d&month=%d", i18n.Localize(l, "/dashboard"), p.Year, p.Month)
	}

	v := dashboardView{
		PeriodLabel: format.MonthYear(b, ov.Period.Year, ov.Period.Month),
		PrevHref:    periodHref(ov.Period.Previous()),
		NextHref:    periodHref(ov.Period.Next()),
	}

	trend, trendTone := format.Placeholder, "neutral"
	if ov.HasPrevious {
		trend = format.SignedPercent(ov.MonthlyTrend, l)
		switch {
		case ov.MonthlyTrend > 0:
			trendTone = "negative"
		case ov.MonthlyTrend < 0:
			trendTone = "positive"
		}
	}
	v.KPIs = []kpiCard{
		{Label: b.Text(i18n.KeyKPIIncome), Value: format.Rupiah(ov.Income, l), Tone: "neutral"},
		{Label: b.Text(i18n.KeyKPIExpenses), Value: format.Rupiah(ov.Expenses, l), Tone: "neutral"},
		{Label: b.Text(i18n.KeyKPISafeToSpend), Value: format.Rupiah(ov.SafeToSpend, l), Tone: signTone(ov.SafeToSpend)},
		{Label: b.Text(i18n.KeyKPIBalance), Value: format.Rupiah(ov.Balance, l), Tone: "neutral"},
		{Label: b.Text(i18n.KeyKPISavingsRate), Value: format.Percent(ov.SavingsRate, l), Tone: signTone(ov.SavingsRate)},
		{Label: b.Text(i18n.KeyKPICompliance), Value: format.Percent(ov.BudgetCompliance, l), Tone: "neutral"},
		{Label: b.Text(i18n.KeyKPIDailyAverage), Value: format.Rupiah(ov.DailyAverage, l), Tone: "neutral"},
		{Label: b.Text(i18n.KeyKPIMonthlyTrend), Value: trend, Tone: trendTone},
	}

	counts := map[finance.Status]int{}
	ratio := make([]string, 0, len(ov.Allocation))
	for _, a := range ov.Allocation {
		counts[a.Status]++
		ratio = append(ratio, strconv.Itoa(a.Percent))
		v.Allocation = append(v.Allocation, bucketRow{
			Bucket:          a.Bucket,
			Label:           bucketLabel(b, a.Bucket),
			Percent:         strconv.Itoa(a.Percent) + "%",
			Target:          format.Rupiah(a.Target, l),
			Actual:          format.Rupiah(a.Actual, l),
			Compliance:      a.Compliance,
			ComplianceLabel: format.Percent(a.Compliance, l),
			Status:          a.Status,
			StatusLabel:     b.Text(statusKeys[a.Status]),
		})
	}
	v.AllocationSubtitle = b.Sprintf(i18n.KeyAllocationSubtitle, strings.Join(ratio, "/"))
	v.AllocationSummary = b.Sprintf(i18n.KeyAllocationSummary,
		counts[finance.StatusOverBudget], counts[finance.StatusUnderBudget], counts[finance.StatusOnTrack])

	for _, c := range ov.Categories {
		v.Categories = append(v.Categories, categoryRow{
			Name:   c.Category,
			Amount: format.Rupiah(c.Amount, l),
			Share:  format.Percent(c.Share, l),
		})
	}
	return v
}

func signTone(v float64) string {
	if v < 0 {
		return "negative"
	}
	return "positive"
}

func bucketLabel(b *i18n.Bundle, bucket string) string {
	if k, ok := i18n.BucketKey(bucket); ok {
		return b.Text(k)
	}
	return bucket
}

type bucketInput struct {
	Bucket  string
	Label   string
	Percent int
}

type settingsView struct {
	Action         string
	MonthlySavings string
	Buckets        []bucketInput
	Saved          bool
	Errors         []string
}

func newSettingsView(b *i18n.Bundle, savings string, rule []settings.ShareInput) settingsView {
	v := settingsView{
		Action:         i18n.Localize(b.Locale(), "/settings"),
		MonthlySavings: savings,
	}
	for _, sh := range rule {
		v.Buckets = append(v.Buckets, bucketInput{Bucket: sh.Bucket, Label: bucketLabel(b, sh.Bucket), Percent: sh.Percent})
	}
	return v
}

func (s *Server) handleSettingsPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st, err := s.deps.Settings.Get(ctx)
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to load settings", applog.FieldError, err.Error())
		s.renderError(w, r, http.StatusInternalServerError, i18n.KeyErrorInternal)
		return
	}
	b, err := s.bundle(r)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, i18n.KeyErrorInternal)
		return
	}

	in := settings.InputFrom(st)
	// The masked input always uses Indonesian grouping, which ParseRupiah reads.
	v := newSettingsView(b, format.Rupiah(in.MonthlySavings, i18n.ID), in.Rule)
	v.Saved = r.URL.Query().Get("saved") == "1"
	s.render(w, r, http.StatusOK, "settings", "settings", v)
}

func (s *Server) handleSettingsSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	if resp := ParseFormOrFail(w, r); resp != nil {
		resp.Write(w)
		return
	}
	b, err := s.bundle(r)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, i18n.KeyErrorInternal)
		return
	}

	current, err := s.deps.Settings.Get(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load settings", applog.FieldError, err.Error())
		s.renderError(w, r, http.StatusInternalServerError, i18n.KeyErrorInternal)
		return
	}

	in, err := settings.InputFromForm(r.PostForm, current.Rule)
	if err == nil {
		_, err = s.deps.Settings.Update(ctx, in)
	}

	var verr *settings.ValidationError
	switch {
	case err == nil:
		http.Redirect(w, r, i18n.Localize(b.Locale(), "/settings")+"?saved=1", http.StatusSeeOther)
	case errors.As(err, &verr):
		rule := in.Rule
		if len(rule) == 0 {
			rule = settings.InputFrom(current).Rule
		}
		v := newSettingsView(b, sanitizeInput(r.PostForm.Get(settings.FormMonthlySavings)), rule)
		for _, fe := range verr.Fields {
			v.Errors = append(v.Errors, fieldLabel(b, fe.Field)+" ("+fe.Rule+")")
		}
		s.render(w, r, http.StatusUnprocessableEntity, "settings", "settings", v)
	default:
		logger.ErrorContext(ctx, "Failed to save settings",
			applog.FieldOperation, applog.OpUpdate,
			applog.FieldError, err.Error())
		s.renderError(w, r, http.StatusInternalServerError, i18n.KeyErrorInternal)
	}
}

func fieldLabel(b *i18n.Bundle, field string) string {
	if strings.HasPrefix(field, "MonthlySavings") {
		return b.Text(i18n.KeySettingsSavings)
	}
	return b.Text(i18n.KeySettingsRule)
}
