package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	apperrors "github.com/kubukshop/storefront/internal/errors"
)

// responseError maps a non-2xx response to a kind-specific AppError. The
// backend answers with several payload shapes: {"error": ...},
// {"detail": ...}, {"non_field_errors": [...]} and per-field error maps;
// unrecognized shapes fall back to a generic message.
func responseError(statusCode int, body []byte) *apperrors.AppError {
	detail := extractErrorDetail(body)

	var appErr *apperrors.AppError

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		appErr = apperrors.UnauthorizedError("authentication required")
	case statusCode == http.StatusNotFound:
		appErr = apperrors.NotFoundError("not found")
	case statusCode == http.StatusBadRequest:
		appErr = apperrors.ValidationError("invalid input")
	case statusCode >= http.StatusInternalServerError:
		appErr = apperrors.ServerError("server error", statusCode)
	default:
		appErr = apperrors.BadRequestError(fmt.Sprintf("unexpected status %d", statusCode))
	}

	if detail != "" {
		appErr.WithDetail(detail)
	}

	return appErr
}

func extractErrorDetail(body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	for _, key := range []string{"error", "detail"} {
		raw, ok := payload[key]
		if !ok {
			continue
		}

		var msg string
		if err := json.Unmarshal(raw, &msg); err == nil && msg != "" {
			return msg
		}
	}

	// DRF validation payload: field name -> list of messages. Field names
	// are kept so forms can show field-specific errors.
	fields := make([]string, 0, len(payload))
	for field := range payload {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var parts []string
	for _, field := range fields {
		var messages []string
		if err := json.Unmarshal(payload[field], &messages); err != nil || len(messages) == 0 {
			continue
		}

		if field == "non_field_errors" {
			parts = append(parts, strings.Join(messages, "; "))
			continue
		}

		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(messages, "; ")))
	}

	return strings.Join(parts, "; ")
}
