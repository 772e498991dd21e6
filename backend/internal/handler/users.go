package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/medina-starter/accounts/shared/api"
	"github.com/medina-starter/accounts/shared/domain"
	"github.com/medina-starter/accounts/shared/errors"
	"github.com/medina-starter/accounts/shared/utils"
)

// parseIntQuery reads an optional non-negative integer query parameter.
func parseIntQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return 0, errors.New(errors.KindBadRequest, "invalid "+name+": must be a non-negative integer")
	}
	return val, nil
}

func parseUserId(r *http.Request) (domain.UserId, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidId
	}
	return id, nil
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntQuery(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	offset, err := parseIntQuery(r, "offset")
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := h.users.List(r.Context(), domain.Page{Limit: limit, Offset: offset})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.NewUserListResponse(page))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserId(r)
	if err != nil {
		writeError(w, err)
		return
	}

	account, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.NewUserResponse(account))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserId(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body api.UpdateUserRequest
	if err := utils.DecodeValidate(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	account, err := h.users.Update(r.Context(), id, domain.Profile{
		Email:        body.Email,
		Name:         body.Name,
		MobileNumber: body.MobileNumber,
		Address:      body.Address,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.NewUserResponse(account))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserId(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
