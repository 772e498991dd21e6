package utils

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/medina-starter/accounts/shared/api"
	"github.com/medina-starter/accounts/shared/errors"
	"github.com/medina-starter/accounts/shared/logger"
	"github.com/medina-starter/accounts/shared/validation"
)

// MaxBodyBytes bounds every JSON request body.
const MaxBodyBytes = 1 << 20

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

// WriteError renders err as {"message": ...} with the status of its
// classification. Unclassified errors become a generic 500.
func WriteError(w http.ResponseWriter, err error) *errors.Error {
	e := errors.Classify(err)
	if e.Kind == errors.KindInternal {
		logger.Log.Error("request failed", "error", err)
	}
	WriteJSON(w, e.StatusCode(), api.ErrorResponse{Message: e.Message})
	return e
}

func GetIP(r *http.Request) (string, error) {
	//Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}

	//Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		ip = strings.TrimSpace(ip)
		netIP := net.ParseIP(ip)
		if netIP != nil {
			return ip, nil
		}
	}

	//Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}
	return "", fmt.Errorf("no valid ip found")
}

// Sanitizer is implemented by request bodies that clean their own fields.
type Sanitizer interface {
	Sanitize()
}

// DecodeValidate decodes a JSON body into body, sanitizes it when it is a
// Sanitizer and validates the cleaned value. Failures are classified as bad
// requests.
func DecodeValidate(w http.ResponseWriter, r *http.Request, body any) error {
	if err := Decode(w, r, body); err != nil {
		return err
	}
	if s, ok := body.(Sanitizer); ok {
		s.Sanitize()
	}
	if err := validation.Struct(body); err != nil {
		return errors.Wrap(errors.KindBadRequest, err.Error(), err)
	}
	return nil
}

func Decode(w http.ResponseWriter, r *http.Request, body any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(body); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.Wrap(errors.KindBadRequest, "Body is too large", validation.ErrPayloadTooLarge)
		}
		if stderrors.Is(err, io.EOF) {
			return errors.Wrap(errors.KindBadRequest, "Body is required", err)
		}
		return errors.Wrap(errors.KindBadRequest, "Body is invalid json", err)
	}
	return nil
}
