package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	pkgerrors "github.com/mpoberly/storefront-backend/pkg/errors"
	"github.com/mpoberly/storefront-backend/pkg/logger"
	"github.com/mpoberly/storefront-backend/pkg/types"
	"github.com/mpoberly/storefront-backend/pkg/validation"
)

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

// Write emits a success envelope with advisory meta and links attached.
func Write(w http.ResponseWriter, status int, data any, meta map[string]any, links map[string]string) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data, Meta: meta, Links: links})
}

// WriteError maps the domain error onto the uniform error envelope. A
// violation list attached to the error becomes one envelope entry per
// violation; otherwise the error itself is the single entry.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	detail := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeUnprocessable,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict,
		pkgerrors.CodeStateConflict,
		pkgerrors.CodeIdempotency,
		pkgerrors.CodeRateLimit:
		if m := typed.Message(); m != "" {
			detail = m
		}
	}

	payload := types.ErrorEnvelope{Errors: envelopeEntries(typed, meta, detail)}

	if logg != nil {
		dump := pkgerrors.Dump(err)
		fields := map[string]any{
			"error":         dump.TopMessage,
			"error_code":    dump.Code,
			"error_chain":   dump.Chain,
			"pg_code":       dump.PGCode,
			"pg_detail":     dump.PGDetail,
			"pg_message":    dump.PGMessage,
			"pg_table":      dump.PGTable,
			"pg_column":     dump.PGColumn,
			"pg_constraint": dump.PGConstraint,
		}
		ctx = logg.WithFields(ctx, fields)
		logg.Error(ctx, "request.error", err)
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

func envelopeEntries(typed *pkgerrors.Error, meta pkgerrors.Metadata, detail string) []types.APIError {
	status := strconv.Itoa(meta.HTTPStatus)

	if meta.DetailsAllowed {
		if violations, ok := typed.Details().(validation.Violations); ok && len(violations) > 0 {
			entries := make([]types.APIError, 0, len(violations))
			for _, violation := range violations {
				entries = append(entries, types.APIError{
					Status: status,
					Title:  meta.Title,
					Detail: violation.Detail,
					Source: &types.ErrorSource{Pointer: violation.Pointer},
				})
			}
			return entries
		}
	}

	entry := types.APIError{
		Status: status,
		Title:  meta.Title,
		Detail: detail,
	}
	if pointer := typed.Pointer(); pointer != "" {
		entry.Source = &types.ErrorSource{Pointer: pointer}
	}
	return []types.APIError{entry}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
