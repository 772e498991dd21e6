package handler

import (
	"context"
	"net/http"

	"github.com/medina-starter/accounts/backend/internal/service"
	"github.com/medina-starter/accounts/shared/errors"
	"github.com/medina-starter/accounts/shared/middleware/metrics"
	"github.com/medina-starter/accounts/shared/utils"
)

// HealthChecker reports whether the store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth   service.AuthService
	users  service.UserService
	health HealthChecker
}

func New(auth service.AuthService, users service.UserService, health HealthChecker) *Handler {
	return &Handler{auth: auth, users: users, health: health}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	utils.WriteJSON(w, status, v)
}

// writeError is the single place where a failed outcome becomes a response.
func writeError(w http.ResponseWriter, err error) {
	utils.WriteError(w, err)
}

// writeFlowError renders a failed auth flow and counts its classification.
func writeFlowError(w http.ResponseWriter, flow string, err error) {
	e := utils.WriteError(w, err)
	metrics.RecordOutcome(flow, e.Kind.String())
}

func recordSuccess(flow string) {
	metrics.RecordOutcome(flow, metrics.OutcomeSuccess)
}

var errInvalidId = errors.New(errors.KindBadRequest, "Invalid user id")
