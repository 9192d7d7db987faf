package core

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Monthly-equivalent normalization factors. A weekly price recurs about 4.33
// times per month; quarterly and yearly prices are spread across their
// months. Amounts in different currencies are summed as raw numbers: the
// engine performs no FX conversion (documented limitation, kept from the
// observed behavior).
const weeksPerMonth = 4.33

type (
	// CurrencyTotal is one entry of a per-currency grouping. The grouping is
	// a slice rather than a map so display iteration order is stable
	// (first-occurrence order).
	CurrencyTotal struct {
		Currency string
		Amount   float64
	}

	// CategoryTotal is a per-category sum with its display color.
	CategoryTotal struct {
		Category string
		Amount   float64
		Color    string
	}

	SortKey   string
	SortOrder string

	// PeriodScale selects the magnitude of category totals: monthly-equivalent
	// or re-expanded to the billing cycle's native period.
	PeriodScale string
)

const (
	SortByPlatformName SortKey = "platformName"
	SortByPrice        SortKey = "price"
	SortByNextBilling  SortKey = "nextBilling"
	SortByCurrency     SortKey = "currency"

	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"

	ScaleMonthly PeriodScale = "monthly"
	ScaleNative  PeriodScale = "native"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortByPlatformName, SortByPrice, SortByNextBilling, SortByCurrency:
		return true
	default:
		return false
	}
}

func (o SortOrder) Valid() bool {
	return o == Ascending || o == Descending
}

func (s PeriodScale) Valid() bool {
	return s == ScaleMonthly || s == ScaleNative
}

// monthlyFactor converts an amount billed once per cycle into its
// per-month-equivalent magnitude.
func monthlyFactor(cycle BillingCycle) float64 {
	switch cycle {
	case Weekly:
		return weeksPerMonth
	case Quarterly:
		return 1.0 / 3.0
	case Yearly:
		return 1.0 / 12.0
	default:
		return 1
	}
}

// MonthlyEquivalent returns what the subscription costs per month.
func MonthlyEquivalent(s Subscription) float64 {
	return s.Price.Amount() * monthlyFactor(s.Cycle)
}

// TotalForCycle sums the prices of subscriptions billed on the given cycle
// and normalizes the sum to its monthly-equivalent magnitude. Returns 0 for
// an empty input. No currency normalization is performed.
func TotalForCycle(subs []Subscription, cycle BillingCycle) float64 {
	var sum float64
	for _, s := range subs {
		if s.Cycle == cycle {
			sum += s.Price.Amount()
		}
	}
	return sum * monthlyFactor(cycle)
}

// GroupByCurrency accumulates per-subscription monthly-equivalent amounts
// into per-currency totals, preserving the order currencies first appear.
func GroupByCurrency(subs []Subscription) []CurrencyTotal {
	idx := make(map[string]int, len(subs))
	totals := make([]CurrencyTotal, 0, len(subs))
	for _, s := range subs {
		i, ok := idx[s.Currency]
		if !ok {
			i = len(totals)
			idx[s.Currency] = i
			totals = append(totals, CurrencyTotal{Currency: s.Currency})
		}
		totals[i].Amount += MonthlyEquivalent(s)
	}
	return totals
}

// CategoryTotals sums subscriptions of the given cycle per category. With
// ScaleMonthly amounts are monthly-equivalent; with ScaleNative they are
// re-expanded to the cycle's own period (a quarterly overview shows the
// amount charged per quarter). The result is sorted descending by amount,
// ties broken by category name ascending.
func CategoryTotals(subs []Subscription, cycle BillingCycle, scale PeriodScale) []CategoryTotal {
	idx := make(map[string]int)
	var totals []CategoryTotal
	for _, s := range subs {
		if s.Cycle != cycle {
			continue
		}
		amount := MonthlyEquivalent(s)
		if scale == ScaleNative {
			amount /= monthlyFactor(cycle)
		}
		i, ok := idx[s.Category]
		if !ok {
			i = len(totals)
			idx[s.Category] = i
			totals = append(totals, CategoryTotal{
				Category: s.Category,
				Color:    CategoryColor(s.Category),
			})
		}
		totals[i].Amount += amount
	}
	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].Amount != totals[j].Amount {
			return totals[i].Amount > totals[j].Amount
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}

// SortSubscriptions returns a sorted copy of subs. The sort is stable:
// subscriptions comparing equal keep their original relative order. The
// next-billing key is computed with NextBillingDate relative to now.
func SortSubscriptions(subs []Subscription, key SortKey, order SortOrder, now time.Time) []Subscription {
	out := make([]Subscription, len(subs))
	copy(out, subs)

	var collator *collate.Collator
	if key == SortByPlatformName {
		collator = collate.New(language.English, collate.IgnoreCase)
	}

	cmp := func(a, b Subscription) int {
		switch key {
		case SortByPlatformName:
			return collator.CompareString(a.PlatformName, b.PlatformName)
		case SortByPrice:
			switch {
			case a.Price.Cents < b.Price.Cents:
				return -1
			case a.Price.Cents > b.Price.Cents:
				return 1
			}
			return 0
		case SortByNextBilling:
			da := NextBillingDate(a.StartDate, a.Cycle, now)
			db := NextBillingDate(b.StartDate, b.Cycle, now)
			switch {
			case da.Before(db):
				return -1
			case da.After(db):
				return 1
			}
			return 0
		case SortByCurrency:
			switch {
			case a.Currency < b.Currency:
				return -1
			case a.Currency > b.Currency:
				return 1
			}
			return 0
		}
		return 0
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if order == Descending {
			return c > 0
		}
		return c < 0
	})
	return out
}
