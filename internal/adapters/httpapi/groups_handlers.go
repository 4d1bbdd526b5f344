package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/innocentmk82/efecosall-sub001/internal/domain"
)

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	p, ok := h.caller(w, r)
	if !ok {
		return
	}
	var body CreateGroupRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.DefaultMonthlyFuelLimit == nil {
		requiredField(w, r, "defaultMonthlyFuelLimit")
		return
	}
	g, err := h.Groups.CreateGroup(r.Context(), p.ProfileID(), body.Name, *body.DefaultMonthlyFuelLimit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, GroupResponse{Group: groupFromDomain(g)})
}

func (h *Handler) ListMyGroups(w http.ResponseWriter, r *http.Request) {
	p, ok := h.caller(w, r)
	if !ok {
		return
	}
	gs, err := h.Groups.ListMyGroups(r.Context(), p.ProfileID())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]Group, 0, len(gs))
	for _, g := range gs {
		out = append(out, groupFromDomain(g))
	}
	writeJSON(w, http.StatusOK, GroupListResponse{Groups: out})
}

func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	p, ok := h.caller(w, r)
	if !ok {
		return
	}
	g, err := h.Groups.GetGroup(r.Context(), p.ProfileID(), domain.GroupID(chi.URLParam(r, "groupId")))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, GroupResponse{Group: groupFromDomain(g)})
}

func (h *Handler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	p, ok := h.caller(w, r)
	if !ok {
		return
	}
	ds, err := h.Groups.ListDrivers(r.Context(), p.ProfileID(), domain.GroupID(chi.URLParam(r, "groupId")))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]Profile, 0, len(ds))
	for _, d := range ds {
		out = append(out, profileFromDomain(d))
	}
	writeJSON(w, http.StatusOK, DriverListResponse{Drivers: out})
}

func (h *Handler) SetDriverLimit(w http.ResponseWriter, r *http.Request) {
	p, ok := h.caller(w, r)
	if !ok {
		return
	}
	var body SetDriverLimitRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.MonthlyFuelLimit == nil {
		requiredField(w, r, "monthlyFuelLimit")
		return
	}
	d, err := h.Profiles.SetDriverLimit(r.Context(), p.ProfileID(),
		domain.GroupID(chi.URLParam(r, "groupId")),
		domain.ProfileID(chi.URLParam(r, "profileId")),
		*body.MonthlyFuelLimit,
	)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ProfileResponse{Profile: profileFromDomain(d)})
}
