package core

import "time"

// NearBillingWindowDays is the inclusive "due soon" window: a charge whose
// due date is this many whole days away or fewer (including overdue) is
// flagged as near billing.
const NearBillingWindowDays = 3

// NextBillingDate computes the first occurrence of the billing date strictly
// after now. When start is already in the future it is returned unchanged.
//
// Month and year arithmetic clamps to the last day of the resulting month
// (Jan 31 + 1 month = Feb 28/29) and is always anchored at the original
// start date, so a subscription started on the 31st keeps billing on the
// 31st whenever the month has one (Jan 31 + 2 months = Mar 31, no drift).
//
// The period count is estimated in closed form from the elapsed time, then
// corrected with a short loop, so the cost does not grow with the age of the
// subscription.
func NextBillingDate(start time.Time, cycle BillingCycle, now time.Time) time.Time {
	if start.After(now) {
		return start
	}

	k := elapsedPeriods(start, cycle, now)
	// Back off one period in case the estimate overshot, then walk forward
	// to the first occurrence strictly after now. Runs at most a few times.
	if k > 0 {
		k--
	}
	d := advance(start, cycle, k)
	for !d.After(now) {
		k++
		d = advance(start, cycle, k)
	}
	return d
}

// DaysUntil returns the whole-day difference between now and a due date,
// truncated toward zero. Negative when the due date has already passed.
func DaysUntil(due, now time.Time) int {
	return int(due.Sub(now) / (24 * time.Hour))
}

// NearBilling reports whether a due date falls within the near-billing
// window (inclusive). An overdue date counts as near.
func NearBilling(due, now time.Time) bool {
	return DaysUntil(due, now) <= NearBillingWindowDays
}

// IsNearBilling reports whether the subscription's next charge is within the
// near-billing window.
func IsNearBilling(s Subscription, now time.Time) bool {
	return NearBilling(NextBillingDate(s.StartDate, s.Cycle, now), now)
}

// DueStatus returns the UI-facing status text for a due date. Overdue is
// distinguished from "due soon" even though both are near.
func DueStatus(due, now time.Time) string {
	days := DaysUntil(due, now)
	switch {
	case days < 0:
		return "Overdue"
	case days <= NearBillingWindowDays:
		return "Due Soon"
	default:
		return "Next billing"
	}
}

// elapsedPeriods estimates how many whole cycle periods fit between start
// and now. The estimate may be off by one around month-length boundaries;
// NextBillingDate corrects for that.
func elapsedPeriods(start time.Time, cycle BillingCycle, now time.Time) int {
	switch cycle {
	case Weekly:
		return int(now.Sub(start) / (7 * 24 * time.Hour))
	case Monthly:
		return monthsBetween(start, now)
	case Quarterly:
		return monthsBetween(start, now) / 3
	case Yearly:
		return now.Year() - start.Year()
	default:
		return 0
	}
}

// advance returns start moved forward by k whole cycle periods.
func advance(start time.Time, cycle BillingCycle, k int) time.Time {
	switch cycle {
	case Weekly:
		return start.AddDate(0, 0, 7*k)
	case Monthly:
		return addMonthsClamped(start, k)
	case Quarterly:
		return addMonthsClamped(start, 3*k)
	case Yearly:
		return addMonthsClamped(start, 12*k)
	default:
		return start
	}
}

// addMonthsClamped adds months calendar-wise, clamping the day of month to
// the last day of the target month instead of letting it overflow the way
// time.AddDate does (Jan 31 + 1 month = Feb 28, not Mar 3).
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	total := int(month) - 1 + months
	year += total / 12
	month = time.Month(total%12 + 1)

	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, hour, min, sec, t.Nanosecond(), t.Location())
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
