package http

import (
	"net/http"

	"subtrack/internal/core"
)

type customPlatformRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

func (s *Server) handleListPlatforms(w http.ResponseWriter, r *http.Request, userID string) {
	platforms, err := s.subs.Platforms(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlatformViews(platforms))
}

func (s *Server) handleCreateCustomPlatform(w http.ResponseWriter, r *http.Request, userID string) {
	var req customPlatformRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	platform, err := s.subs.CreateCustomPlatform(r.Context(), userID, req.Name, req.Category)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	views := newPlatformViews([]core.Platform{platform})
	writeJSON(w, http.StatusCreated, views[0])
}

type currencyView struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

func (s *Server) handleListCurrencies(w http.ResponseWriter, r *http.Request) {
	views := make([]currencyView, 0, len(core.SupportedCurrencies))
	for _, c := range core.SupportedCurrencies {
		views = append(views, currencyView{Code: c.Code, Symbol: c.Symbol, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, views)
}
