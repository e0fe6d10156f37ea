package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aquadesk/aquadesk-backend/internal/reconcile"
	"github.com/aquadesk/aquadesk-backend/pkg/db/models"
	"github.com/aquadesk/aquadesk-backend/pkg/enums"
	pkgerrors "github.com/aquadesk/aquadesk-backend/pkg/errors"
	"github.com/aquadesk/aquadesk-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// OrderWriteHook is invoked inside the transaction of every order write,
// with the locked before-image and the after-image of the row. The
// reconciliation engine implements it.
type OrderWriteHook interface {
	OrderWritten(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, previous *reconcile.OrderState, current reconcile.OrderState) error
}

// Service defines the order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Order, string, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*models.Order, error)
	Deliver(ctx context.Context, id uuid.UUID, input DeliverInput) (*models.Order, error)
	RevertDelivery(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Cancel(ctx context.Context, id uuid.UUID) (*models.Order, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Restore(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID *uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateOrderInput carries the fields of a new order. Status may be any
// valid lifecycle state; back-filled orders are inserted directly as
// delivered and settle immediately.
type CreateOrderInput struct {
	CustomerID            *uuid.UUID
	DriverID              *uuid.UUID
	AddressID             *uuid.UUID
	Status                enums.OrderStatus
	RequestedDeliveryDate *time.Time
	DeliveryWindow        *string
	BottlesDelivered      int
	BottlesReturned       int
	TotalAmount           decimal.Decimal
	PaymentMethod         *string
	IsPaid                bool
	Items                 []OrderItemInput
}

// UpdateOrderInput applies partial updates; nil fields are left alone.
// Setting CustomerID moves the order to another customer and settles both
// sides of the hand-off.
type UpdateOrderInput struct {
	CustomerID            *uuid.UUID
	DriverID              *uuid.UUID
	AddressID             *uuid.UUID
	Status                *enums.OrderStatus
	RequestedDeliveryDate *time.Time
	DeliveryWindow        *string
	BottlesDelivered      *int
	BottlesReturned       *int
	TotalAmount           *decimal.Decimal
	PaymentMethod         *string
	IsPaid                *bool
}

// DeliverInput records the outcome of a completed delivery.
type DeliverInput struct {
	BottlesDelivered int
	BottlesReturned  int
	TotalAmount      *decimal.Decimal
	IsPaid           bool
	PaymentMethod    *string
}

type service struct {
	repo Repository
	tx   txRunner
	hook OrderWriteHook
}

// NewService builds the orders service.
func NewService(repo Repository, tx txRunner, hook OrderWriteHook) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if hook == nil {
		return nil, fmt.Errorf("order write hook required")
	}
	return &service{repo: repo, tx: tx, hook: hook}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	status := input.Status
	if status == "" {
		status = enums.OrderStatusPending
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").WithDetails(input.Status)
	}
	if input.BottlesDelivered < 0 || input.BottlesReturned < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bottle counts cannot be negative")
	}
	if input.TotalAmount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total amount cannot be negative")
	}
	if status == enums.OrderStatusDelivered && input.CustomerID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a delivered order needs a customer")
	}

	order := &models.Order{
		ID:                    uuid.New(),
		CustomerID:            input.CustomerID,
		DriverID:              input.DriverID,
		AddressID:             input.AddressID,
		Status:                status,
		RequestedDeliveryDate: input.RequestedDeliveryDate,
		DeliveryWindow:        input.DeliveryWindow,
		BottlesDelivered:      input.BottlesDelivered,
		BottlesReturned:       input.BottlesReturned,
		TotalAmount:           input.TotalAmount,
		PaymentMethod:         input.PaymentMethod,
		IsPaid:                input.IsPaid,
	}
	if status == enums.OrderStatusDelivered {
		now := time.Now().UTC()
		order.DeliveredAt = &now
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		order.Items = append(order.Items, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
		}
		return s.hook.OrderWritten(ctx, tx, order.ID, nil, reconcile.StateOf(*order))
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Order, string, error) {
	orders, next, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return orders, next, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*models.Order, error) {
	return s.mutate(ctx, id, func(order *models.Order) error {
		if order.IsDeleted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is deleted")
		}
		if input.CustomerID != nil {
			if *input.CustomerID == uuid.Nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "customer id cannot be empty")
			}
			order.CustomerID = input.CustomerID
		}
		if input.DriverID != nil {
			order.DriverID = input.DriverID
		}
		if input.AddressID != nil {
			order.AddressID = input.AddressID
		}
		if input.Status != nil {
			if !input.Status.IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").WithDetails(*input.Status)
			}
			applyStatus(order, *input.Status)
		}
		if input.RequestedDeliveryDate != nil {
			order.RequestedDeliveryDate = input.RequestedDeliveryDate
		}
		if input.DeliveryWindow != nil {
			order.DeliveryWindow = input.DeliveryWindow
		}
		if input.BottlesDelivered != nil {
			if *input.BottlesDelivered < 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "bottle counts cannot be negative")
			}
			order.BottlesDelivered = *input.BottlesDelivered
		}
		if input.BottlesReturned != nil {
			if *input.BottlesReturned < 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "bottle counts cannot be negative")
			}
			order.BottlesReturned = *input.BottlesReturned
		}
		if input.TotalAmount != nil {
			if input.TotalAmount.IsNegative() {
				return pkgerrors.New(pkgerrors.CodeValidation, "total amount cannot be negative")
			}
			order.TotalAmount = *input.TotalAmount
		}
		if input.PaymentMethod != nil {
			order.PaymentMethod = input.PaymentMethod
		}
		if input.IsPaid != nil {
			order.IsPaid = *input.IsPaid
		}
		return nil
	})
}

func (s *service) Deliver(ctx context.Context, id uuid.UUID, input DeliverInput) (*models.Order, error) {
	if input.BottlesDelivered < 0 || input.BottlesReturned < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bottle counts cannot be negative")
	}
	return s.mutate(ctx, id, func(order *models.Order) error {
		if order.IsDeleted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is deleted")
		}
		if order.Status == enums.OrderStatusDelivered {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order already delivered")
		}
		if order.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cancelled order cannot be delivered")
		}
		if order.CustomerID == nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order has no customer")
		}

		order.BottlesDelivered = input.BottlesDelivered
		order.BottlesReturned = input.BottlesReturned
		if input.TotalAmount != nil {
			if input.TotalAmount.IsNegative() {
				return pkgerrors.New(pkgerrors.CodeValidation, "total amount cannot be negative")
			}
			order.TotalAmount = *input.TotalAmount
		}
		order.IsPaid = input.IsPaid
		if input.PaymentMethod != nil {
			order.PaymentMethod = input.PaymentMethod
		}
		applyStatus(order, enums.OrderStatusDelivered)
		return nil
	})
}

func (s *service) RevertDelivery(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.mutate(ctx, id, func(order *models.Order) error {
		if order.IsDeleted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is deleted")
		}
		if order.Status != enums.OrderStatusDelivered {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not delivered")
		}
		applyStatus(order, enums.OrderStatusPending)
		return nil
	})
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.mutate(ctx, id, func(order *models.Order) error {
		if order.IsDeleted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is deleted")
		}
		if order.Status == enums.OrderStatusDelivered {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "delivered order must be reverted before cancelling")
		}
		applyStatus(order, enums.OrderStatusCancelled)
		return nil
	})
}

func (s *service) SoftDelete(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.mutate(ctx, id, func(order *models.Order) error {
		if order.IsDeleted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order already deleted")
		}
		order.IsDeleted = true
		return nil
	})
}

func (s *service) Restore(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.mutate(ctx, id, func(order *models.Order) error {
		if !order.IsDeleted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not deleted")
		}
		order.IsDeleted = false
		return nil
	})
}

// mutate is the single write path for existing orders: lock the row, capture
// the before-image, apply the change, persist it and hand both images to the
// write hook, all in one transaction.
func (s *service) mutate(ctx context.Context, id uuid.UUID, apply func(order *models.Order) error) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		order, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "locking order")
		}

		before := reconcile.StateOf(*order)
		if err := apply(order); err != nil {
			return err
		}

		if err := s.repo.WithTx(tx).Update(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order")
		}
		if err := s.hook.OrderWritten(ctx, tx, order.ID, &before, reconcile.StateOf(*order)); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func applyStatus(order *models.Order, status enums.OrderStatus) {
	order.Status = status
	if status == enums.OrderStatusDelivered {
		now := time.Now().UTC()
		order.DeliveredAt = &now
	} else {
		order.DeliveredAt = nil
	}
}
