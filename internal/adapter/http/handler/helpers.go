package handler

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"net/http"
	"net/url"
	"strconv"

	t "github.com/Temutjin2k/carpool-admin/internal/domain/types"
	"github.com/Temutjin2k/carpool-admin/pkg/validator"
)

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return errors.New("failed to encode json")
	}

	js = append(js, '\n')

	maps.Copy(w.Header(), headers)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)

	return nil
}

func GetCode(err error) int {
	switch {
	case IsOneOf(err, t.ErrInvalidReportFormat, t.ErrInvalidFilter, t.ErrEmptyDriverID):
		return http.StatusBadRequest
	case IsOneOf(err, t.ErrDriverNotFound, t.ErrNotFound):
		return http.StatusNotFound
	case IsOneOf(err, t.ErrReconcileInProgress):
		return http.StatusConflict
	case IsOneOf(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case IsOneOf(err, t.ErrReconcileFailed, t.ErrBackendUnavailable, t.ErrUnexpectedStatus, t.ErrInvalidResponse):
		return http.StatusBadGateway
	case IsOneOf(err, t.ErrStaleLoad, t.ErrNoSnapshot):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage hides internal details of server side failures.
func errorMessage(code int, err error) string {
	switch code {
	case http.StatusBadGateway, http.StatusGatewayTimeout:
		return "the CarPool backend could not complete the request, try again later"
	case http.StatusServiceUnavailable:
		return "payments are being reloaded, try again"
	case http.StatusInternalServerError:
		return "the server encountered a problem and could not process your request"
	default:
		return err.Error()
	}
}

func IsOneOf(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// readString returns a string value from the query string, or the provided
// default value if no matching key could be found.
func readString(qs url.Values, key string, defaultValue string) string {
	s := qs.Get(key)
	if s == "" {
		return defaultValue
	}
	return s
}

// readInt reads an integer from the query string. A malformed value is recorded
// in v and the default returned.
func readInt(qs url.Values, key string, defaultValue int, v *validator.Validator) int {
	s := qs.Get(key)
	if s == "" {
		return defaultValue
	}

	i, err := strconv.Atoi(s)
	if err != nil {
		v.AddError(key, "must be an integer value")
		return defaultValue
	}
	return i
}
