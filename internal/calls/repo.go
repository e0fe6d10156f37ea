package calls

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aquadesk/aquadesk-backend/pkg/db/models"
	"github.com/aquadesk/aquadesk-backend/pkg/pagination"
)

// Repository manages call log persistence and caller-ID lookups.
type Repository interface {
	CreateCallLog(ctx context.Context, log *models.CallLog) error
	FindByCallUUID(ctx context.Context, callUUID string) (*models.CallLog, error)

	// FindCustomerIDByPhone resolves a normalized phone number to its owner.
	// Deleted customers never match.
	FindCustomerIDByPhone(ctx context.Context, normalizedNumber string) (*uuid.UUID, error)

	List(ctx context.Context, params pagination.Params) ([]models.CallLog, string, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a calls repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateCallLog(ctx context.Context, log *models.CallLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) FindByCallUUID(ctx context.Context, callUUID string) (*models.CallLog, error) {
	var log models.CallLog
	err := r.db.WithContext(ctx).
		Where("call_uuid = ?", callUUID).
		First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *repository) FindCustomerIDByPhone(ctx context.Context, normalizedNumber string) (*uuid.UUID, error) {
	var result struct {
		CustomerID uuid.UUID
	}
	err := r.db.WithContext(ctx).
		Table("customer_phones cp").
		Select("cp.customer_id AS customer_id").
		Joins("JOIN customers c ON c.id = cp.customer_id").
		Where("cp.phone_number = ? AND c.is_deleted = ?", normalizedNumber, false).
		Take(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result.CustomerID, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params) ([]models.CallLog, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	q := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var logs []models.CallLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(logs) > limit {
		logs = logs[:limit]
		last := logs[len(logs)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return logs, nextCursor, nil
}
