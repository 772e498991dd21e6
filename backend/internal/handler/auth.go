package handler

import (
	"net/http"

	"github.com/medina-starter/accounts/shared/api"
	"github.com/medina-starter/accounts/shared/domain"
	"github.com/medina-starter/accounts/shared/utils"
)

const (
	flowRegister = "register"
	flowConfirm  = "confirm"
	flowLogin    = "login"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body api.RegisterRequest
	if err := utils.DecodeValidate(w, r, &body); err != nil {
		writeFlowError(w, flowRegister, err)
		return
	}

	err := h.auth.Register(r.Context(), domain.Registration{
		Email:        body.Email,
		Password:     body.Password,
		Name:         body.Name,
		MobileNumber: body.MobileNumber,
		Address:      body.Address,
	})
	if err != nil {
		writeFlowError(w, flowRegister, err)
		return
	}

	recordSuccess(flowRegister)
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	status, err := h.auth.Confirm(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		writeFlowError(w, flowConfirm, err)
		return
	}

	recordSuccess(flowConfirm)
	writeJSON(w, http.StatusOK, api.ConfirmResponse{Status: status})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body api.LoginRequest
	if err := utils.DecodeValidate(w, r, &body); err != nil {
		writeFlowError(w, flowLogin, err)
		return
	}

	token, err := h.auth.Login(r.Context(), domain.Credentials{Email: body.Email, Password: body.Password})
	if err != nil {
		writeFlowError(w, flowLogin, err)
		return
	}

	recordSuccess(flowLogin)
	writeJSON(w, http.StatusOK, api.LoginResponse{Token: token.Token, TokenType: token.TokenType})
}

func (h *Handler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	var body api.CheckEmailRequest
	if err := utils.DecodeValidate(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	exists, err := h.auth.EmailExists(r.Context(), body.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.CheckEmailResponse{Exists: exists})
}
