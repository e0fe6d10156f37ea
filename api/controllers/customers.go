package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aquadesk/aquadesk-backend/api/responses"
	"github.com/aquadesk/aquadesk-backend/api/validators"
	"github.com/aquadesk/aquadesk-backend/internal/audit"
	"github.com/aquadesk/aquadesk-backend/internal/customers"
	"github.com/aquadesk/aquadesk-backend/pkg/enums"
	pkgerrors "github.com/aquadesk/aquadesk-backend/pkg/errors"
	"github.com/aquadesk/aquadesk-backend/pkg/logger"
	"github.com/aquadesk/aquadesk-backend/pkg/pagination"
)

type customerPhoneRequest struct {
	Number    string `json:"number" validate:"required"`
	Label     string `json:"label,omitempty" validate:"omitempty,oneof=mobile home office"`
	IsPrimary bool   `json:"is_primary"`
}

type createCustomerRequest struct {
	FullName      string                 `json:"full_name" validate:"required,min=2"`
	Email         *string                `json:"email,omitempty" validate:"omitempty,email"`
	InternalNotes *string                `json:"internal_notes,omitempty"`
	Phones        []customerPhoneRequest `json:"phones,omitempty" validate:"dive"`
}

type updateCustomerRequest struct {
	FullName      *string `json:"full_name,omitempty" validate:"omitempty,min=2"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Status        *string `json:"status,omitempty"`
	InternalNotes *string `json:"internal_notes,omitempty"`
}

func customerIDFromPath(r *http.Request) (uuid.UUID, error) {
	return validators.ParsePathUUID(chi.URLParam(r, "customerId"), "customerId")
}

func phoneInputs(reqs []customerPhoneRequest) []customers.PhoneInput {
	inputs := make([]customers.PhoneInput, 0, len(reqs))
	for _, p := range reqs {
		inputs = append(inputs, customers.PhoneInput{
			Number:    p.Number,
			Label:     enums.PhoneLabel(p.Label),
			IsPrimary: p.IsPrimary,
		})
	}
	return inputs
}

func CustomerCreate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCustomerRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Create(r.Context(), customers.CreateCustomerInput{
			FullName:      req.FullName,
			Email:         req.Email,
			InternalNotes: req.InternalNotes,
			Phones:        phoneInputs(req.Phones),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, customer)
	}
}

func CustomerDetail(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := customerIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customer, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customer)
	}
}

func CustomerList(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, next, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"customers": list, "next_cursor": next})
	}
}

func CustomerUpdate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := customerIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateCustomerRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := customers.UpdateCustomerInput{
			FullName:      req.FullName,
			Email:         req.Email,
			InternalNotes: req.InternalNotes,
		}
		if req.Status != nil {
			status, err := enums.ParseAccountStatus(*req.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			input.Status = &status
		}

		customer, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customer)
	}
}

func CustomerSoftDelete(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := customerIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SoftDelete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func CustomerAddPhone(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := customerIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req customerPhoneRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		phone, err := svc.AddPhone(r.Context(), id, customers.PhoneInput{
			Number:    req.Number,
			Label:     enums.PhoneLabel(req.Label),
			IsPrimary: req.IsPrimary,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, phone)
	}
}

func CustomerRemovePhone(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := customerIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		phoneID, err := validators.ParsePathUUID(chi.URLParam(r, "phoneId"), "phoneId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RemovePhone(r.Context(), id, phoneID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

func CustomerLedger(svc audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := customerIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entries, next, err := svc.ListByCustomer(r.Context(), id, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"entries": entries, "next_cursor": next})
	}
}

// CustomerRenormalizePhones is an admin maintenance endpoint that rewrites
// stored phone numbers to canonical form.
func CustomerRenormalizePhones(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		changed, err := svc.RenormalizePhones(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"changed": changed})
	}
}
