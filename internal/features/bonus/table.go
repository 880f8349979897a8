package bonus

import (
	"fmt"
	"strconv"
	"strings"

	"go-backoffice/internal/common/errs"
)

// Table is an ordered step function from sales count to bonus amount.
type Table struct {
	tiers []Tier
}

func DefaultTable() *Table {
	return &Table{tiers: []Tier{
		{Threshold: 3, Amount: 1000},
		{Threshold: 6, Amount: 2500},
		{Threshold: 10, Amount: 5000},
		{Threshold: 15, Amount: 8000},
	}}
}

// NewTable requires strictly increasing thresholds above zero and non-decreasing amounts.
func NewTable(tiers []Tier) (*Table, error) {
	if len(tiers) == 0 {
		return nil, errs.Validation("bonus.table", "at least one tier is required")
	}
	for i, t := range tiers {
		if t.Threshold <= 0 {
			return nil, errs.Validation("bonus.table", "tier %d: threshold must be positive", i)
		}
		if t.Amount < 0 {
			return nil, errs.Validation("bonus.table", "tier %d: amount must not be negative", i)
		}
		if i == 0 {
			continue
		}
		if t.Threshold <= tiers[i-1].Threshold {
			return nil, errs.Validation("bonus.table", "tier %d: thresholds must increase", i)
		}
		if t.Amount < tiers[i-1].Amount {
			return nil, errs.Validation("bonus.table", "tier %d: amounts must not decrease", i)
		}
	}
	return &Table{tiers: append([]Tier(nil), tiers...)}, nil
}

// ParseTiers reads "threshold:amount" pairs separated by commas.
func ParseTiers(raw string) (*Table, error) {
	var tiers []Tier
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		threshold, amount, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, errs.Validation("bonus.parse", "tier %q is not threshold:amount", pair)
		}
		th, err := strconv.Atoi(strings.TrimSpace(threshold))
		if err != nil {
			return nil, fmt.Errorf("bonus tier %q: %w", pair, err)
		}
		am, err := strconv.ParseInt(strings.TrimSpace(amount), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bonus tier %q: %w", pair, err)
		}
		tiers = append(tiers, Tier{Threshold: th, Amount: am})
	}
	return NewTable(tiers)
}

func (t *Table) Tiers() []Tier {
	return append([]Tier(nil), t.tiers...)
}

// Calculate pays the highest reached tier. Past the last tier NextGoal stays on it.
func (t *Table) Calculate(sales int) (Result, error) {
	if sales < 0 {
		return Result{}, errs.Validation("bonus.calculate", "sales count must not be negative")
	}

	var res Result
	for _, tier := range t.tiers {
		if sales >= tier.Threshold {
			res.Amount = tier.Amount
			continue
		}
		res.NextGoal = tier.Threshold
		res.NeededForNext = tier.Threshold - sales
		return res, nil
	}

	res.NextGoal = t.tiers[len(t.tiers)-1].Threshold
	return res, nil
}
