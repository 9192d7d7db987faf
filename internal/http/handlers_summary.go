package http

import (
	"net/http"

	"subtrack/internal/core"
)

func summaryCacheKey(userID string, cycle core.BillingCycle) string {
	return userID + "|" + string(cycle)
}

func overviewCacheKey(userID string, cycle core.BillingCycle, scale core.PeriodScale) string {
	return userID + "|" + string(cycle) + "|" + string(scale)
}

// invalidateAggregates drops every cached rollup for the user. Keys are
// enumerable since cycle and scale are small closed sets.
func (s *Server) invalidateAggregates(userID string) {
	for _, cycle := range core.Cycles() {
		s.summaryCache.Delete(summaryCacheKey(userID, cycle))
		for _, scale := range []core.PeriodScale{core.ScaleMonthly, core.ScaleNative} {
			s.overviewCache.Delete(overviewCacheKey(userID, cycle, scale))
		}
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, userID string) {
	cycle := core.Monthly
	if v := r.URL.Query().Get("cycle"); v != "" {
		cycle = core.BillingCycle(v)
		if !cycle.Valid() {
			writeError(w, http.StatusBadRequest, "unknown billing cycle: "+v)
			return
		}
	}

	key := summaryCacheKey(userID, cycle)
	if view, found := s.summaryCache.Get(key); found {
		writeJSON(w, http.StatusOK, view)
		return
	}

	subs, err := s.subs.List(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	now := s.now()
	nearCount := 0
	for _, sub := range subs {
		if core.IsNearBilling(sub, now) {
			nearCount++
		}
	}

	byCurrency := core.GroupByCurrency(subs)
	currencyViews := make([]currencyTotalView, 0, len(byCurrency))
	for _, total := range byCurrency {
		currencyViews = append(currencyViews, currencyTotalView{
			Currency:  total.Currency,
			Amount:    round2(total.Amount),
			Formatted: core.FormatCurrency(total.Amount, total.Currency),
		})
	}

	view := summaryView{
		Cycle:            string(cycle),
		Total:            round2(core.TotalForCycle(subs, cycle)),
		TotalsByCurrency: currencyViews,
		Count:            len(subs),
		NearBillingCount: nearCount,
	}

	s.summaryCache.Set(key, view)
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request, userID string) {
	cycle := core.BillingCycle(r.PathValue("cycle"))
	if !cycle.Valid() {
		writeError(w, http.StatusBadRequest, "unknown billing cycle: "+string(cycle))
		return
	}

	scale := core.ScaleMonthly
	if v := r.URL.Query().Get("scale"); v != "" {
		scale = core.PeriodScale(v)
		if !scale.Valid() {
			writeError(w, http.StatusBadRequest, "unknown scale: "+v)
			return
		}
	}

	key := overviewCacheKey(userID, cycle, scale)
	if views, found := s.overviewCache.Get(key); found {
		writeJSON(w, http.StatusOK, views)
		return
	}

	subs, err := s.subs.List(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	totals := core.CategoryTotals(subs, cycle, scale)
	views := make([]categoryTotalView, 0, len(totals))
	for _, total := range totals {
		views = append(views, categoryTotalView{
			Category: total.Category,
			Amount:   round2(total.Amount),
			Color:    total.Color,
		})
	}

	s.overviewCache.Set(key, views)
	writeJSON(w, http.StatusOK, views)
}
