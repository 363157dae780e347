package finance

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownOperation = errors.New("unknown finance operation")
	ErrArity            = errors.New("wrong number of arguments")
)

// Operation is a named formula with positional parameters.
type Operation struct {
	Name   string
	Params []string
	fn     func(args []float64) float64
}

// Eval applies the formula to args, which follow Params order.
func (op Operation) Eval(args ...float64) (float64, error) {
	if len(args) != len(op.Params) {
		return 0, fmt.Errorf("%w: %s takes %d (%v), got %d", ErrArity, op.Name, len(op.Params), op.Params, len(args))
	}
	return op.fn(args), nil
}

var operations = map[string]Operation{
	"afford": {
		Name: "afford", Params: []string{"price", "safe_to_spend"},
		fn: func(a []float64) float64 {
			_, shortfall := Afford(a[0], a[1])
			return shortfall
		},
	},
	"safe-to-spend": {
		Name: "safe-to-spend", Params: []string{"income", "expenses", "savings"},
		fn: func(a []float64) float64 { return SafeToSpend(a[0], a[1], a[2]) },
	},
	"budget-compliance": {
		Name: "budget-compliance", Params: []string{"actual", "target"},
		fn: func(a []float64) float64 { return BudgetCompliance(a[0], a[1]) },
	},
	"savings-rate": {
		Name: "savings-rate", Params: []string{"income", "expenses"},
		fn: func(a []float64) float64 { return SavingsRate(a[0], a[1]) },
	},
	"daily-average": {
		Name: "daily-average", Params: []string{"amount", "days"},
		fn: func(a []float64) float64 { return DailyAverage(a[0], a[1]) },
	},
	"monthly-trend": {
		Name: "monthly-trend", Params: []string{"current", "previous"},
		fn: func(a []float64) float64 { return MonthlyTrend(a[0], a[1]) },
	},
	"category-share": {
		Name: "category-share", Params: []string{"amount", "total"},
		fn: func(a []float64) float64 { return CategoryShare(a[0], a[1]) },
	},
}

// Lookup returns the operation called name.
func Lookup(name string) (Operation, error) {
	op, ok := operations[name]
	if !ok {
		return Operation{}, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	return op, nil
}

// Operations lists every operation sorted by name.
func Operations() []Operation {
	out := make([]Operation, 0, len(operations))
	for _, op := range operations {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
