// Package finance computes the derived metrics shown on the dashboard.
//
// Every function is pure. A zero denominator is not an error: it yields 0 so
// widgets stay renderable for accounts without history. Inputs are not
// checked for sign or finiteness; callers own that.
package finance

// SafeToSpend returns what is left once expenses and the savings allocation
// are taken out of income. The result may be negative.
func SafeToSpend(income, expenses, savings float64) float64 {
	return income - expenses - savings
}

// BudgetCompliance returns the share of target consumed by actual, as a
// percentage capped at 100.
func BudgetCompliance(actual, target float64) float64 {
	if target == 0 {
		return 0
	}
	return min((actual/target)*100, 100)
}

// SavingsRate returns the percentage of income that was not spent.
func SavingsRate(income, expenses float64) float64 {
	if income == 0 {
		return 0
	}
	return ((income - expenses) / income) * 100
}

// DailyAverage spreads amount evenly over days.
func DailyAverage(amount, days float64) float64 {
	if days == 0 {
		return 0
	}
	return amount / days
}

// MonthlyTrend returns the percentage change from previous to current.
func MonthlyTrend(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return ((current - previous) / previous) * 100
}

// CategoryShare returns amount as a percentage of total.
func CategoryShare(amount, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (amount / total) * 100
}

// Afford reports whether price fits within safeToSpend. When it does not,
// shortfall is the missing amount; otherwise it is 0.
func Afford(price, safeToSpend float64) (canAfford bool, shortfall float64) {
	if price <= safeToSpend {
		return true, 0
	}
	return false, price - safeToSpend
}
