package core

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidMonth  = errors.New("invalid month")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrPeriodMissing = errors.New("period not available")
)

// Period is a calendar month.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"` // 1-12
}

// NewPeriod returns the period for year and month.
func NewPeriod(year, month int) (Period, error) {
	p := Period{Year: year, Month: month}
	return p, p.Validate()
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("%w: %d", ErrInvalidMonth, p.Month)
	}
	return nil
}

// Previous returns the month before p.
func (p Period) Previous() Period {
	if p.Month == 1 {
		return Period{Year: p.Year - 1, Month: 12}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

// Next returns the month after p.
func (p Period) Next() Period {
	if p.Month == 12 {
		return Period{Year: p.Year + 1, Month: 1}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// Days returns the number of days in the month.
func (p Period) Days() int {
	return time.Date(p.Year, time.Month(p.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ElapsedDays returns how many days of p have started by now: all of them
// for a past month, none for a future one.
func (p Period) ElapsedDays(now time.Time) int {
	cur := PeriodOf(now)
	switch {
	case p.Year < cur.Year || (p.Year == cur.Year && p.Month < cur.Month):
		return p.Days()
	case p == cur:
		return now.Day()
	default:
		return 0
	}
}

// Key is a stable cache key, e.g. "2025-08".
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

func (p Period) String() string {
	return p.Key()
}

// CategoryAmount is spending aggregated under one category name.
type CategoryAmount struct {
	Category string  `json:"category"`
	Bucket   string  `json:"bucket"`
	Amount   float64 `json:"amount"`
}

// TransactionType tells income from expense.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Transaction is a read-only line shown in the recent activity list.
type Transaction struct {
	ID       string          `json:"id"`
	Date     time.Time       `json:"date"`
	Category string          `json:"category"`
	Amount   float64         `json:"amount"`
	Note     string          `json:"note"`
	Type     TransactionType `json:"type"`
}

// Account is a balance holder (cash, bank, wallet).
type Account struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Balance float64 `json:"balance"`
}

// PeriodSnapshot holds the raw totals of one month as the data source
// reports them. Derived metrics are computed by the dashboard service.
type PeriodSnapshot struct {
	Period     Period           `json:"period"`
	Income     float64          `json:"income"`
	Expenses   float64          `json:"expenses"`
	ByCategory []CategoryAmount `json:"by_category"`
	Accounts   []Account        `json:"accounts"`
	Recent     []Transaction    `json:"recent"`
}

// SpentIn sums category amounts that belong to bucket.
func (s PeriodSnapshot) SpentIn(bucket string) float64 {
	var total float64
	for _, c := range s.ByCategory {
		if c.Bucket == bucket {
			total += c.Amount
		}
	}
	return total
}

// Balance sums account balances.
func (s PeriodSnapshot) Balance() float64 {
	var total float64
	for _, a := range s.Accounts {
		total += a.Balance
	}
	return total
}
