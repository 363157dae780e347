package finance

import (
	"errors"
	"fmt"
)

// Status classifies how a budget bucket is tracking against its target.
type Status string

const (
	StatusUnderBudget Status = "under-budget"
	StatusOnTrack     Status = "on-track"
	StatusOverBudget  Status = "over-budget"
)

// onTrackFloor is the share of target (in percent) from which a bucket counts
// as on track rather than under budget.
const onTrackFloor = 90.0

// BudgetStatus classifies actual spending against target. Unlike
// BudgetCompliance it is not clamped, so overspending is visible.
func BudgetStatus(actual, target float64) Status {
	if target == 0 {
		if actual > 0 {
			return StatusOverBudget
		}
		return StatusOnTrack
	}
	switch pct := (actual / target) * 100; {
	case pct > 100:
		return StatusOverBudget
	case pct >= onTrackFloor:
		return StatusOnTrack
	default:
		return StatusUnderBudget
	}
}

// Bucket names used by allocation rules.
const (
	BucketNeeds   = "needs"
	BucketWants   = "wants"
	BucketSavings = "savings"
	BucketInvest  = "invest"
	BucketCoins   = "coins"
)

var (
	ErrRuleEmpty      = errors.New("allocation rule has no buckets")
	ErrRuleTotal      = errors.New("allocation percentages must sum to 100")
	ErrRulePercent    = errors.New("allocation percentage out of range")
	ErrRuleDuplicate  = errors.New("duplicate allocation bucket")
	ErrRuleBucketName = errors.New("empty allocation bucket name")
)

// Share is one bucket of an AllocationRule.
type Share struct {
	Bucket  string `json:"bucket"`
	Percent int    `json:"percent"`
}

// AllocationRule splits income across ordered buckets.
type AllocationRule []Share

// DefaultRule is the 50/25/5/15/5 needs/wants/savings/invest/coins split.
func DefaultRule() AllocationRule {
	return AllocationRule{
		{Bucket: BucketNeeds, Percent: 50},
		{Bucket: BucketWants, Percent: 25},
		{Bucket: BucketSavings, Percent: 5},
		{Bucket: BucketInvest, Percent: 15},
		{Bucket: BucketCoins, Percent: 5},
	}
}

// Validate checks that buckets are unique, named, in range and sum to 100.
func (r AllocationRule) Validate() error {
	if len(r) == 0 {
		return ErrRuleEmpty
	}
	seen := make(map[string]struct{}, len(r))
	total := 0
	for _, s := range r {
		if s.Bucket == "" {
			return ErrRuleBucketName
		}
		if _, dup := seen[s.Bucket]; dup {
			return fmt.Errorf("%w: %s", ErrRuleDuplicate, s.Bucket)
		}
		seen[s.Bucket] = struct{}{}
		if s.Percent < 0 || s.Percent > 100 {
			return fmt.Errorf("%w: %s=%d", ErrRulePercent, s.Bucket, s.Percent)
		}
		total += s.Percent
	}
	if total != 100 {
		return fmt.Errorf("%w: got %d", ErrRuleTotal, total)
	}
	return nil
}

// Percent returns the share for bucket, or 0 when the rule does not have it.
func (r AllocationRule) Percent(bucket string) int {
	for _, s := range r {
		if s.Bucket == bucket {
			return s.Percent
		}
	}
	return 0
}

// Target is the amount income allots to one bucket.
type Target struct {
	Bucket string
	Amount float64
}

// Allocate splits income by rule, keeping the rule's order.
func Allocate(income float64, rule AllocationRule) []Target {
	out := make([]Target, 0, len(rule))
	for _, s := range rule {
		out = append(out, Target{Bucket: s.Bucket, Amount: income * float64(s.Percent) / 100})
	}
	return out
}
