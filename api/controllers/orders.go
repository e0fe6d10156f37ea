package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aquadesk/aquadesk-backend/api/responses"
	"github.com/aquadesk/aquadesk-backend/api/validators"
	"github.com/aquadesk/aquadesk-backend/internal/audit"
	internalorders "github.com/aquadesk/aquadesk-backend/internal/orders"
	"github.com/aquadesk/aquadesk-backend/pkg/enums"
	pkgerrors "github.com/aquadesk/aquadesk-backend/pkg/errors"
	"github.com/aquadesk/aquadesk-backend/pkg/logger"
	"github.com/aquadesk/aquadesk-backend/pkg/pagination"
)

type orderItemRequest struct {
	ProductID *uuid.UUID `json:"product_id,omitempty" validate:"omitempty"`
	Quantity  int        `json:"quantity" validate:"required,min=1"`
	UnitPrice string     `json:"unit_price" validate:"required"`
}

type createOrderRequest struct {
	CustomerID            *uuid.UUID         `json:"customer_id,omitempty"`
	DriverID              *uuid.UUID         `json:"driver_id,omitempty"`
	AddressID             *uuid.UUID         `json:"address_id,omitempty"`
	Status                string             `json:"status,omitempty"`
	RequestedDeliveryDate *time.Time         `json:"requested_delivery_date,omitempty"`
	DeliveryWindow        *string            `json:"delivery_window,omitempty"`
	BottlesDelivered      int                `json:"bottles_delivered" validate:"min=0"`
	BottlesReturned       int                `json:"bottles_returned" validate:"min=0"`
	TotalAmount           string             `json:"total_amount,omitempty"`
	PaymentMethod         *string            `json:"payment_method,omitempty"`
	IsPaid                bool               `json:"is_paid"`
	Items                 []orderItemRequest `json:"items,omitempty" validate:"dive"`
}

type updateOrderRequest struct {
	CustomerID            *uuid.UUID `json:"customer_id,omitempty"`
	DriverID              *uuid.UUID `json:"driver_id,omitempty"`
	AddressID             *uuid.UUID `json:"address_id,omitempty"`
	Status                *string    `json:"status,omitempty"`
	RequestedDeliveryDate *time.Time `json:"requested_delivery_date,omitempty"`
	DeliveryWindow        *string    `json:"delivery_window,omitempty"`
	BottlesDelivered      *int       `json:"bottles_delivered,omitempty" validate:"omitempty,min=0"`
	BottlesReturned       *int       `json:"bottles_returned,omitempty" validate:"omitempty,min=0"`
	TotalAmount           *string    `json:"total_amount,omitempty"`
	PaymentMethod         *string    `json:"payment_method,omitempty"`
	IsPaid                *bool      `json:"is_paid,omitempty"`
}

type deliverOrderRequest struct {
	BottlesDelivered int     `json:"bottles_delivered" validate:"min=0"`
	BottlesReturned  int     `json:"bottles_returned" validate:"min=0"`
	TotalAmount      *string `json:"total_amount,omitempty"`
	IsPaid           bool    `json:"is_paid"`
	PaymentMethod    *string `json:"payment_method,omitempty"`
}

func parseAmount(raw, field string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "amount must be a decimal number").WithDetails(map[string]string{"field": field})
	}
	return value, nil
}

func orderIDFromPath(r *http.Request) (uuid.UUID, error) {
	return validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
}

func OrderCreate(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalorders.CreateOrderInput{
			CustomerID:            req.CustomerID,
			DriverID:              req.DriverID,
			AddressID:             req.AddressID,
			RequestedDeliveryDate: req.RequestedDeliveryDate,
			DeliveryWindow:        req.DeliveryWindow,
			BottlesDelivered:      req.BottlesDelivered,
			BottlesReturned:       req.BottlesReturned,
			PaymentMethod:         req.PaymentMethod,
			IsPaid:                req.IsPaid,
		}
		if req.Status != "" {
			status, err := enums.ParseOrderStatus(req.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			input.Status = status
		}
		if req.TotalAmount != "" {
			amount, err := parseAmount(req.TotalAmount, "total_amount")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.TotalAmount = amount
		}
		for _, item := range req.Items {
			price, err := parseAmount(item.UnitPrice, "items.unit_price")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Items = append(input.Items, internalorders.OrderItemInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: price,
			})
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func OrderDetail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := orderIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func OrderList(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customerID, err := validators.ParseQueryUUID(r, "customer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := internalorders.ListFilter{CustomerID: customerID}
		if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
			parsed, err := enums.ParseOrderStatus(status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			value := parsed.String()
			filter.Status = &value
		}
		if r.URL.Query().Get("include_deleted") == "true" {
			filter.IncludeDeleted = true
		}

		orders, next, err := svc.List(r.Context(), filter, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"orders": orders, "next_cursor": next})
	}
}

func OrderUpdate(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := orderIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalorders.UpdateOrderInput{
			CustomerID:            req.CustomerID,
			DriverID:              req.DriverID,
			AddressID:             req.AddressID,
			RequestedDeliveryDate: req.RequestedDeliveryDate,
			DeliveryWindow:        req.DeliveryWindow,
			BottlesDelivered:      req.BottlesDelivered,
			BottlesReturned:       req.BottlesReturned,
			PaymentMethod:         req.PaymentMethod,
			IsPaid:                req.IsPaid,
		}
		if req.Status != nil {
			status, err := enums.ParseOrderStatus(*req.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			input.Status = &status
		}
		if req.TotalAmount != nil {
			amount, err := parseAmount(*req.TotalAmount, "total_amount")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.TotalAmount = &amount
		}

		order, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func OrderDeliver(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := orderIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req deliverOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalorders.DeliverInput{
			BottlesDelivered: req.BottlesDelivered,
			BottlesReturned:  req.BottlesReturned,
			IsPaid:           req.IsPaid,
			PaymentMethod:    req.PaymentMethod,
		}
		if req.TotalAmount != nil {
			amount, err := parseAmount(*req.TotalAmount, "total_amount")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.TotalAmount = &amount
		}

		order, err := svc.Deliver(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func OrderRevertDelivery(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := orderIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.RevertDelivery(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func OrderCancel(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := orderIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Cancel(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func OrderSoftDelete(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := orderIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.SoftDelete(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func OrderRestore(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := orderIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Restore(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func OrderAuditTrail(svc audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := orderIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entries, err := svc.ListByOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"entries": entries})
	}
}
