package httpapi

import (
	"net/http"

	"github.com/innocentmk82/efecosall-sub001/internal/app/profiles"
	"github.com/innocentmk82/efecosall-sub001/internal/domain"
)

func (h *Handler) CreateMyProfile(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	var body CreateProfileRequest
	if !decodeBody(w, r, &body) {
		return
	}

	in := profiles.CreateMyProfileInput{
		DisplayName:    body.DisplayName,
		Role:           domain.Role(body.Role),
		PersonalBudget: body.PersonalBudget,
	}
	if body.BusinessGroupID != nil {
		gid := domain.GroupID(*body.BusinessGroupID)
		in.BusinessGroupID = &gid
	}
	p, err := h.Profiles.CreateMyProfile(r.Context(), sub, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ProfileResponse{Profile: profileFromDomain(p)})
}

func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := h.caller(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ProfileResponse{Profile: profileFromDomain(p)})
}

func (h *Handler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	var body UpdateProfileRequest
	if !decodeBody(w, r, &body) {
		return
	}

	h.idempotent(w, r, "/profiles/me", canonicalProfileUpdate(body), http.StatusOK, func() (any, error) {
		in := profiles.UpdateMyProfileInput{
			DisplayName:    optionalFromNullable(body.DisplayName),
			PersonalBudget: optionalFromNullable(body.PersonalBudget),
		}
		p, err := h.Profiles.UpdateMyProfile(r.Context(), sub, in)
		if err != nil {
			return nil, err
		}
		return ProfileResponse{Profile: profileFromDomain(p)}, nil
	})
}

func canonicalProfileUpdate(b UpdateProfileRequest) UpdateProfileRequest {
	canon := b
	if canon.DisplayName.IsSpecified() && !canon.DisplayName.IsNull() {
		if v, err := canon.DisplayName.Get(); err == nil {
			canon.DisplayName.Set(domain.NormalizeHumanName(v))
		}
	}
	return canon
}
