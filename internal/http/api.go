package http

import (
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dompet/internal/finance"
	"dompet/internal/i18n"
	applog "dompet/internal/log"
)

func (s *Server) handleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, err := s.period(ctx, r)
	if err == nil {
		ov, oerr := s.deps.Dashboard.Overview(ctx, p.Year, p.Month)
		if oerr == nil {
			NewResponse().JSON(ov).Write(w)
			return
		}
		err = oerr
	}

	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		applog.FromContext(ctx).ErrorContext(ctx, "Dashboard API failed",
			applog.FieldOperation, applog.OpRead,
			applog.FieldError, err.Error())
		msg = "dashboard unavailable"
	}
	JSONError(status, msg, nil).Write(w)
}

type financeResult struct {
	Operation string             `json:"operation"`
	Inputs    map[string]float64 `json:"inputs"`
	Result    float64            `json:"result"`
}

func (s *Server) handleAPIFinance(w http.ResponseWriter, r *http.Request) {
	op, err := finance.Lookup(chi.URLParam(r, "operation"))
	if err != nil {
		names := make([]string, 0)
		for _, o := range finance.Operations() {
			names = append(names, o.Name)
		}
		JSONError(http.StatusNotFound, err.Error(), map[string][]string{"operations": names}).Write(w)
		return
	}

	args, err := ParseFloatParams(r.URL.Query(), op.Params...)
	if err != nil {
		JSONError(http.StatusBadRequest, err.Error(), map[string][]string{"params": op.Params}).Write(w)
		return
	}
	result, err := op.Eval(args...)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		JSONError(http.StatusUnprocessableEntity, "result is not a finite number", nil).Write(w)
		return
	}

	inputs := make(map[string]float64, len(args))
	for i, name := range op.Params {
		inputs[name] = args[i]
	}
	NewResponse().JSON(financeResult{Operation: op.Name, Inputs: inputs, Result: result}).Write(w)
}

type localeResult struct {
	Locale    i18n.Locale `json:"locale"`
	Path      string      `json:"path"`
	Prefixed  bool        `json:"prefixed"`
	Canonical bool        `json:"canonical"`
	Redirect  string      `json:"redirect,omitempty"`
}

func (s *Server) handleAPILocale(w http.ResponseWriter, r *http.Request) {
	path := sanitizeInput(r.URL.Query().Get("path"))
	if path == "" || path[0] != '/' {
		BadRequestError("path must be an absolute URL path").Write(w)
		return
	}
	if len(path) > 2048 {
		BadRequestError("path too long").Write(w)
		return
	}

	res, err := i18n.Resolve(path)
	if err != nil {
		var invalid *i18n.InvalidLocaleError
		if errors.As(err, &invalid) {
			JSONError(http.StatusNotFound, err.Error(), map[string]string{"segment": invalid.Segment}).Write(w)
			return
		}
		InternalServerError("locale resolution failed").Write(w)
		return
	}

	out := localeResult{
		Locale:    res.Locale,
		Path:      res.Path,
		Prefixed:  res.Prefixed,
		Canonical: res.Canonical(),
	}
	if !out.Canonical {
		out.Redirect = res.Path
	}
	NewResponse().JSON(out).Write(w)
}
