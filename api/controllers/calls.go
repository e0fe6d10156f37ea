package controllers

import (
	"net/http"
	"strings"

	"github.com/aquadesk/aquadesk-backend/api/responses"
	"github.com/aquadesk/aquadesk-backend/api/validators"
	"github.com/aquadesk/aquadesk-backend/internal/calls"
	"github.com/aquadesk/aquadesk-backend/pkg/enums"
	pkgerrors "github.com/aquadesk/aquadesk-backend/pkg/errors"
	"github.com/aquadesk/aquadesk-backend/pkg/logger"
	"github.com/aquadesk/aquadesk-backend/pkg/pagination"
)

type ingestCallRequest struct {
	CallUUID         string  `json:"call_uuid" validate:"required"`
	CallerNumber     string  `json:"caller_number" validate:"required"`
	TargetIdentifier *string `json:"target_identifier,omitempty"`
	Source           string  `json:"source,omitempty"`
	Direction        string  `json:"direction,omitempty"`
	Status           *string `json:"status,omitempty"`
	Duration         int     `json:"duration" validate:"min=0"`
}

// CallIngest receives telephony events from the PBX and client integrations.
func CallIngest(svc calls.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ingestCallRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := calls.IngestCallInput{
			CallUUID:         req.CallUUID,
			CallerNumber:     req.CallerNumber,
			TargetIdentifier: req.TargetIdentifier,
			Status:           req.Status,
			Duration:         req.Duration,
		}
		if req.Source != "" {
			source, err := enums.ParseCallSource(req.Source)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid source"))
				return
			}
			input.Source = source
		}
		if req.Direction != "" {
			direction, err := enums.ParseCallDirection(req.Direction)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid direction"))
				return
			}
			input.Direction = direction
		}

		log, err := svc.IngestCall(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, log)
	}
}

func CallList(svc calls.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		logs, next, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"calls": logs, "next_cursor": next})
	}
}

// CallMatch resolves a raw phone number to a customer without recording a call.
func CallMatch(svc calls.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number := strings.TrimSpace(r.URL.Query().Get("number"))
		if number == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "number query parameter is required"))
			return
		}
		customerID, err := svc.Match(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"customer_id": customerID})
	}
}
