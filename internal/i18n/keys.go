package i18n

import "fmt"

// Key identifies one translated message. Every bundle must define all keys.
type Key string

const (
	KeyAppName      Key = "app.name"
	KeyNavDashboard Key = "nav.dashboard"
	KeyNavSettings  Key = "nav.settings"
	KeyNavLanguage  Key = "nav.language"

	KeyDashboardTitle     Key = "dashboard.title"
	KeyDashboardPeriod    Key = "dashboard.period"
	KeyDashboardError     Key = "dashboard.error"
	KeyKPIIncome          Key = "dashboard.kpi.total_income"
	KeyKPIExpenses        Key = "dashboard.kpi.total_expenses"
	KeyKPISafeToSpend     Key = "dashboard.kpi.safe_to_spend"
	KeyKPIBalance         Key = "dashboard.kpi.balance"
	KeyKPISavingsRate     Key = "dashboard.kpi.savings_rate"
	KeyKPICompliance      Key = "dashboard.kpi.budget_compliance"
	KeyKPIDailyAverage    Key = "dashboard.kpi.daily_average"
	KeyKPIMonthlyTrend    Key = "dashboard.kpi.monthly_trend"
	KeyAllocationTitle    Key = "dashboard.allocation.title"
	KeyAllocationSubtitle Key = "dashboard.allocation.subtitle"
	KeyAllocationTarget   Key = "dashboard.allocation.target"
	KeyAllocationActual   Key = "dashboard.allocation.actual"
	KeyAllocationSummary  Key = "dashboard.allocation.summary"
	KeyCategoriesTitle    Key = "dashboard.categories.title"
	KeyAdvisorTitle       Key = "dashboard.advisor.title"
	KeyAdvisorSubtitle    Key = "dashboard.advisor.subtitle"
	KeyAdvisorPrice       Key = "dashboard.advisor.price"
	KeyAdvisorCheck       Key = "dashboard.advisor.check"
	KeyAdvisorYes         Key = "dashboard.advisor.yes"
	KeyAdvisorNo          Key = "dashboard.advisor.no"
	KeyAdvisorRemaining   Key = "dashboard.advisor.remaining"
	KeyAdvisorShortfall   Key = "dashboard.advisor.shortfall"
	KeyAdvisorInvalid     Key = "dashboard.advisor.invalid"

	KeyStatusUnderBudget Key = "status.under_budget"
	KeyStatusOnTrack     Key = "status.on_track"
	KeyStatusOverBudget  Key = "status.over_budget"

	KeyBucketNeeds   Key = "bucket.needs"
	KeyBucketWants   Key = "bucket.wants"
	KeyBucketSavings Key = "bucket.savings"
	KeyBucketInvest  Key = "bucket.invest"
	KeyBucketCoins   Key = "bucket.coins"

	KeySettingsTitle   Key = "settings.title"
	KeySettingsSavings Key = "settings.monthly_savings"
	KeySettingsRule    Key = "settings.allocation"
	KeySettingsSave    Key = "settings.save"
	KeySettingsSaved   Key = "settings.saved"
	KeySettingsInvalid Key = "settings.invalid"

	KeyErrorNotFound Key = "error.not_found"
	KeyErrorInternal Key = "error.internal"
)

var monthKeys = [12]Key{
	"month.01", "month.02", "month.03", "month.04", "month.05", "month.06",
	"month.07", "month.08", "month.09", "month.10", "month.11", "month.12",
}

// MonthKey returns the key holding the name of month m (1-12).
func MonthKey(m int) Key {
	if m < 1 || m > 12 {
		panic(fmt.Sprintf("i18n: month %d out of range", m))
	}
	return monthKeys[m-1]
}

// BucketKey returns the label key for an allocation bucket, or false when the
// bucket has no translation.
func BucketKey(bucket string) (Key, bool) {
	k := Key("bucket." + bucket)
	for _, known := range []Key{KeyBucketNeeds, KeyBucketWants, KeyBucketSavings, KeyBucketInvest, KeyBucketCoins} {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// Keys returns every key a bundle must define.
func Keys() []Key {
	keys := []Key{
		KeyAppName, KeyNavDashboard, KeyNavSettings, KeyNavLanguage,
		KeyDashboardTitle, KeyDashboardPeriod, KeyDashboardError,
		KeyKPIIncome, KeyKPIExpenses, KeyKPISafeToSpend, KeyKPIBalance,
		KeyKPISavingsRate, KeyKPICompliance, KeyKPIDailyAverage, KeyKPIMonthlyTrend,
		KeyAllocationTitle, KeyAllocationSubtitle, KeyAllocationTarget, KeyAllocationActual,
		KeyAllocationSummary, KeyCategoriesTitle,
		KeyAdvisorTitle, KeyAdvisorSubtitle, KeyAdvisorPrice, KeyAdvisorCheck,
		KeyAdvisorYes, KeyAdvisorNo, KeyAdvisorRemaining, KeyAdvisorShortfall, KeyAdvisorInvalid,
		KeyStatusUnderBudget, KeyStatusOnTrack, KeyStatusOverBudget,
		KeyBucketNeeds, KeyBucketWants, KeyBucketSavings, KeyBucketInvest, KeyBucketCoins,
		KeySettingsTitle, KeySettingsSavings, KeySettingsRule, KeySettingsSave,
		KeySettingsSaved, KeySettingsInvalid,
		KeyErrorNotFound, KeyErrorInternal,
	}
	return append(keys, monthKeys[:]...)
}
