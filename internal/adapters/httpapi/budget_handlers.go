package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/innocentmk82/efecosall-sub001/internal/domain"
)

func (h *Handler) GetMonthlyUsage(w http.ResponseWriter, r *http.Request) {
	asOf, ok := h.asOfParam(w, r)
	if !ok {
		return
	}
	p, ok := h.caller(w, r)
	if !ok {
		return
	}
	usage, err := h.Budget.GetMonthlyUsage(r.Context(), p.ProfileID(), asOf)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BudgetUsageResponse{MonthlyUsage: money(usage)})
}

func (h *Handler) GetBudgetStatus(w http.ResponseWriter, r *http.Request) {
	asOf, ok := h.asOfParam(w, r)
	if !ok {
		return
	}
	p, ok := h.caller(w, r)
	if !ok {
		return
	}
	st, err := h.Budget.GetBudgetStatus(r.Context(), p.ProfileID(), asOf)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusFromDomain(st))
}

func (h *Handler) GetBudgetAlerts(w http.ResponseWriter, r *http.Request) {
	p, ok := h.caller(w, r)
	if !ok {
		return
	}
	alerts, err := h.Budget.GetBudgetAlerts(r.Context(), p.ProfileID())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if alerts == nil {
		alerts = []string{}
	}
	writeJSON(w, http.StatusOK, BudgetAlertsResponse{Alerts: alerts})
}

// CheckBudget classifies a prospective expense. Nothing is recorded.
func (h *Handler) CheckBudget(w http.ResponseWriter, r *http.Request) {
	p, ok := h.caller(w, r)
	if !ok {
		return
	}
	var body BudgetCheckRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.EstimatedCost == nil {
		requiredField(w, r, "estimatedCost")
		return
	}
	d, err := h.Budget.CheckBudgetBeforeAction(r.Context(), p.ProfileID(), *body.EstimatedCost)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, decisionFromDomain(d))
}

func (h *Handler) GetGroupBudget(w http.ResponseWriter, r *http.Request) {
	asOf, ok := h.asOfParam(w, r)
	if !ok {
		return
	}
	p, ok := h.caller(w, r)
	if !ok {
		return
	}
	o, err := h.Budget.GetGroupOverview(r.Context(), p.ProfileID(), domain.GroupID(chi.URLParam(r, "groupId")), asOf)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, groupBudgetFromDomain(o))
}

func (h *Handler) GetGroupUsage(w http.ResponseWriter, r *http.Request) {
	asOf, ok := h.asOfParam(w, r)
	if !ok {
		return
	}
	p, ok := h.caller(w, r)
	if !ok {
		return
	}
	usage, err := h.Budget.GetGroupUsage(r.Context(), p.ProfileID(), domain.GroupID(chi.URLParam(r, "groupId")), asOf)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BudgetUsageResponse{MonthlyUsage: money(usage)})
}
