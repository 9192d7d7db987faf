package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"subtrack/internal/core"
)

// subscriptionRequest is the create/update payload. Either platformId
// (catalog or custom platform) or platformName must be set; a platform
// reference fills in logo, color, and default category.
type subscriptionRequest struct {
	PlatformID   string  `json:"platformId"`
	PlatformName string  `json:"platformName"`
	Category     string  `json:"category"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	Cycle        string  `json:"cycle"`
	StartDate    string  `json:"startDate"`
}

func (s *Server) toSubscription(r *http.Request, userID string, req subscriptionRequest) (core.Subscription, error) {
	cents, err := core.ParseDecimalToCents(strconv.FormatFloat(req.Price, 'f', -1, 64))
	if err != nil {
		return core.Subscription{}, err
	}

	sub := core.Subscription{
		PlatformName: strings.TrimSpace(req.PlatformName),
		Category:     strings.TrimSpace(req.Category),
		Price:        core.Money{Cents: cents},
		Currency:     strings.ToUpper(strings.TrimSpace(req.Currency)),
		Cycle:        core.BillingCycle(req.Cycle),
	}

	if req.PlatformID != "" {
		platform, err := s.subs.Platform(r.Context(), userID, req.PlatformID)
		if err != nil {
			return core.Subscription{}, err
		}
		sub.PlatformID = platform.ID
		sub.PlatformLogo = platform.Logo
		sub.Color = platform.Color
		if sub.PlatformName == "" {
			sub.PlatformName = platform.Name
		}
		if sub.Category == "" {
			sub.Category = platform.Category
		}
	} else if sub.Category != "" {
		sub.Color = core.CategoryColor(sub.Category)
	}

	if req.StartDate != "" {
		start, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			return core.Subscription{}, core.ErrZeroStartDate
		}
		sub.StartDate = start
	}

	return sub, nil
}

func (s *Server) handleListSubscriptions(w http.ResponseWriter, r *http.Request, userID string) {
	subs, err := s.subs.List(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	query := r.URL.Query()
	if v := query.Get("sort"); v != "" {
		key := core.SortKey(v)
		if !key.Valid() {
			writeError(w, http.StatusBadRequest, "unknown sort key: "+v)
			return
		}
		order := core.Ascending
		if o := query.Get("order"); o != "" {
			order = core.SortOrder(o)
			if !order.Valid() {
				writeError(w, http.StatusBadRequest, "unknown sort order: "+o)
				return
			}
		}
		subs = core.SortSubscriptions(subs, key, order, s.now())
	}

	writeJSON(w, http.StatusOK, newSubscriptionViews(subs, s.now()))
}

func (s *Server) handleGetSubscription(w http.ResponseWriter, r *http.Request, userID string) {
	sub, err := s.subs.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSubscriptionView(sub, s.now()))
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request, userID string) {
	var req subscriptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := s.toSubscription(r, userID, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	created, err := s.subs.Create(r.Context(), userID, sub)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.invalidateAggregates(userID)
	s.structured.LogSubscriptionCreated(r.Context(), created.ID, created.PlatformName,
		created.Price.Cents, created.Currency, string(created.Cycle))
	writeJSON(w, http.StatusCreated, newSubscriptionView(created, s.now()))
}

func (s *Server) handleUpdateSubscription(w http.ResponseWriter, r *http.Request, userID string) {
	var req subscriptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := s.toSubscription(r, userID, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	sub.ID = r.PathValue("id")

	updated, err := s.subs.Update(r.Context(), userID, sub)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.invalidateAggregates(userID)
	writeJSON(w, http.StatusOK, newSubscriptionView(updated, s.now()))
}

func (s *Server) handleDeleteSubscription(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.subs.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	s.invalidateAggregates(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBillingHistory(w http.ResponseWriter, r *http.Request, userID string) {
	records, err := s.subs.BillingHistory(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newHistoryViews(records))
}
