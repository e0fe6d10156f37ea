package customers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aquadesk/aquadesk-backend/pkg/db/models"
	"github.com/aquadesk/aquadesk-backend/pkg/pagination"
)

// Repository manages persistence for customers and their phone numbers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, customer *models.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	List(ctx context.Context, params pagination.Params) ([]models.Customer, string, error)

	// AdjustAggregates applies a signed delta to bottles_in_hand and
	// account_balance in a single UPDATE, inside the caller's transaction.
	// The row lock taken by the UPDATE is held until the transaction ends,
	// serializing concurrent adjustments for the same customer. Deltas are
	// already sign-adjusted by the caller.
	AdjustAggregates(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, bottlesDelta int, balanceDelta decimal.Decimal) error

	CreatePhone(ctx context.Context, phone *models.CustomerPhone) error
	DeletePhone(ctx context.Context, customerID, phoneID uuid.UUID) (*models.CustomerPhone, error)
	ListPhones(ctx context.Context, customerID uuid.UUID) ([]models.CustomerPhone, error)
	ListAllPhones(ctx context.Context) ([]models.CustomerPhone, error)
	UpdatePhoneNumber(ctx context.Context, phoneID uuid.UUID, number string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a customers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Preload("Phones").
		Preload("Addresses").
		Where("id = ?", id).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) Update(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *repository) List(ctx context.Context, params pagination.Params) ([]models.Customer, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	q := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var customers []models.Customer
	if err := q.Find(&customers).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(customers) > limit {
		customers = customers[:limit]
		last := customers[len(customers)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return customers, nextCursor, nil
}

func (r *repository) AdjustAggregates(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, bottlesDelta int, balanceDelta decimal.Decimal) error {
	if tx == nil {
		return fmt.Errorf("aggregate adjustment requires a transaction")
	}
	if customerID == uuid.Nil {
		return fmt.Errorf("customer id is required")
	}

	res := tx.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", customerID).
		UpdateColumns(map[string]any{
			"bottles_in_hand": gorm.Expr("bottles_in_hand + ?", bottlesDelta),
			"account_balance": gorm.Expr("account_balance + ?", balanceDelta),
			"updated_at":      time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreatePhone(ctx context.Context, phone *models.CustomerPhone) error {
	return r.db.WithContext(ctx).Create(phone).Error
}

func (r *repository) DeletePhone(ctx context.Context, customerID, phoneID uuid.UUID) (*models.CustomerPhone, error) {
	var phone models.CustomerPhone
	err := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", phoneID, customerID).
		First(&phone).Error
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(&models.CustomerPhone{}, "id = ?", phone.ID).Error; err != nil {
		return nil, err
	}
	return &phone, nil
}

func (r *repository) ListPhones(ctx context.Context, customerID uuid.UUID) ([]models.CustomerPhone, error) {
	var phones []models.CustomerPhone
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Find(&phones).Error; err != nil {
		return nil, err
	}
	return phones, nil
}

func (r *repository) ListAllPhones(ctx context.Context) ([]models.CustomerPhone, error) {
	var phones []models.CustomerPhone
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&phones).Error; err != nil {
		return nil, err
	}
	return phones, nil
}

func (r *repository) UpdatePhoneNumber(ctx context.Context, phoneID uuid.UUID, number string) error {
	return r.db.WithContext(ctx).Model(&models.CustomerPhone{}).
		Where("id = ?", phoneID).
		UpdateColumn("phone_number", number).Error
}
