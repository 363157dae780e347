// Package settings manages the user preferences behind the dashboard: the
// monthly savings amount and the budget allocation rule.
package settings

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"dompet/internal/core"
	"dompet/internal/finance"
	applog "dompet/internal/log"
)

// ErrInvalidInput wraps every rejected Update.
var ErrInvalidInput = errors.New("invalid settings input")

// Store persists settings.
type Store interface {
	GetSettings(ctx context.Context) (core.Settings, error)
	SaveSettings(ctx context.Context, s core.Settings) error
}

// ShareInput is one bucket percentage submitted by the user.
type ShareInput struct {
	Bucket  string `json:"bucket" validate:"required,oneof=needs wants savings invest coins"`
	Percent int    `json:"percent" validate:"gte=0,lte=100"`
}

// Input is a settings update request.
type Input struct {
	MonthlySavings float64      `json:"monthly_savings" validate:"gte=0"`
	Rule           []ShareInput `json:"rule" validate:"required,min=1,max=5,dive"`
}

// FieldError describes one rejected field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError lists every rejected field of an Input.
type ValidationError struct {
	Fields []FieldError
	cause  error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %v", ErrInvalidInput, e.cause)
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" ("+f.Rule+")")
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrInvalidInput}
	}
	return []error{ErrInvalidInput, e.cause}
}

// Service reads and updates settings.
type Service struct {
	store     Store
	validate  *validator.Validate
	logger    *applog.Logger
	now       func() time.Time
	onChanged []func()
}

// NewService returns a service backed by store.
func NewService(store Store, logger *applog.Logger) *Service {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Service{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.WithComponent(applog.ComponentSettings),
		now:      time.Now,
	}
}

// OnChange registers fn to run after every successful Update.
func (s *Service) OnChange(fn func()) {
	s.onChanged = append(s.onChanged, fn)
}

// Get returns the saved settings, or the defaults if none were saved yet.
func (s *Service) Get(ctx context.Context) (core.Settings, error) {
	st, err := s.store.GetSettings(ctx)
	if errors.Is(err, core.ErrSettingsNotFound) {
		return core.DefaultSettings(), nil
	}
	if err != nil {
		return core.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return st, nil
}

// Update validates in and stores it.
func (s *Service) Update(ctx context.Context, in Input) (core.Settings, error) {
	if err := s.Validate(in); err != nil {
		s.logger.WarnContext(ctx, "Rejected settings update",
			applog.FieldOperation, applog.OpValidate,
			applog.FieldError, err.Error())
		return core.Settings{}, err
	}

	st := core.Settings{
		MonthlySavings: in.MonthlySavings,
		Rule:           in.rule(),
		UpdatedAt:      s.now().UTC(),
	}
	if err := s.store.SaveSettings(ctx, st); err != nil {
		return core.Settings{}, fmt.Errorf("update settings: %w", err)
	}

	for _, fn := range s.onChanged {
		fn()
	}
	s.logger.InfoContext(ctx, "Settings updated",
		applog.FieldOperation, applog.OpUpdate,
		"monthly_savings", st.MonthlySavings)
	return st, nil
}

// Validate checks field constraints and then the rule as a whole.
func (s *Service) Validate(in Input) error {
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return &ValidationError{cause: err}
		}
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fieldPath(fe), Rule: fe.Tag()})
		}
		return &ValidationError{Fields: fields, cause: err}
	}
	if err := in.rule().Validate(); err != nil {
		return &ValidationError{
			Fields: []FieldError{{Field: "rule", Rule: "sum=100"}},
			cause:  err,
		}
	}
	return nil
}

func (in Input) rule() finance.AllocationRule {
	rule := make(finance.AllocationRule, 0, len(in.Rule))
	for _, sh := range in.Rule {
		rule = append(rule, finance.Share{Bucket: sh.Bucket, Percent: sh.Percent})
	}
	return rule
}

// fieldPath strips the struct name from the validator namespace, so
// "Input.Rule[1].Percent" becomes "Rule[1].Percent".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// Form field names used by the settings page.
const (
	FormMonthlySavings = "monthly_savings"
	FormPercentPrefix  = "pct_"
)

// InputFromForm reads a settings form. The savings amount accepts the masked
// rupiah format the page shows ("Rp 1.500.000"). Buckets keep the order of
// rule, with percentages taken from pct_<bucket> fields.
func InputFromForm(form url.Values, rule finance.AllocationRule) (Input, error) {
	var in Input

	savings := strings.TrimSpace(form.Get(FormMonthlySavings))
	if savings == "" {
		savings = "0"
	}
	amount, err := core.ParseRupiah(savings)
	if err != nil {
		return Input{}, &ValidationError{
			Fields: []FieldError{{Field: "MonthlySavings", Rule: "rupiah"}},
			cause:  err,
		}
	}
	in.MonthlySavings = amount

	if len(rule) == 0 {
		rule = finance.DefaultRule()
	}
	for _, sh := range rule {
		raw := strings.TrimSpace(form.Get(FormPercentPrefix + sh.Bucket))
		pct := 0
		if raw != "" {
			pct, err = strconv.Atoi(strings.TrimSuffix(raw, "%"))
			if err != nil {
				return Input{}, &ValidationError{
					Fields: []FieldError{{Field: "Rule." + sh.Bucket, Rule: "number"}},
					cause:  err,
				}
			}
		}
		in.Rule = append(in.Rule, ShareInput{Bucket: sh.Bucket, Percent: pct})
	}
	return in, nil
}

// InputFrom converts stored settings back to an Input, e.g. to prefill a form.
func InputFrom(st core.Settings) Input {
	in := Input{MonthlySavings: st.MonthlySavings}
	for _, sh := range st.Rule {
		in.Rule = append(in.Rule, ShareInput{Bucket: sh.Bucket, Percent: sh.Percent})
	}
	return in
}
