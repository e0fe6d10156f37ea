package customers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/aquadesk/aquadesk-backend/internal/phone"
	"github.com/aquadesk/aquadesk-backend/pkg/db"
	"github.com/aquadesk/aquadesk-backend/pkg/db/models"
	"github.com/aquadesk/aquadesk-backend/pkg/enums"
	pkgerrors "github.com/aquadesk/aquadesk-backend/pkg/errors"
	"github.com/aquadesk/aquadesk-backend/pkg/logger"
	"github.com/aquadesk/aquadesk-backend/pkg/pagination"
	"github.com/aquadesk/aquadesk-backend/pkg/redis"
)

// Service manages customer accounts and their phone numbers. It never
// touches the bottles_in_hand or account_balance aggregates; those belong to
// the reconciliation engine.
type Service interface {
	Create(ctx context.Context, input CreateCustomerInput) (*models.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	List(ctx context.Context, params pagination.Params) ([]models.Customer, string, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*models.Customer, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	AddPhone(ctx context.Context, customerID uuid.UUID, input PhoneInput) (*models.CustomerPhone, error)
	RemovePhone(ctx context.Context, customerID, phoneID uuid.UUID) error
	RenormalizePhones(ctx context.Context) (int, error)
}

// CreateCustomerInput carries the fields a new account starts with.
type CreateCustomerInput struct {
	FullName      string
	Email         *string
	InternalNotes *string
	Phones        []PhoneInput
}

// UpdateCustomerInput applies partial updates; nil fields are left alone.
type UpdateCustomerInput struct {
	FullName      *string
	Email         *string
	Status        *enums.AccountStatus
	InternalNotes *string
}

// PhoneInput is a raw phone number as entered by staff.
type PhoneInput struct {
	Number    string
	Label     enums.PhoneLabel
	IsPrimary bool
}

type service struct {
	repo          Repository
	cache         redis.CallerCache
	countryPrefix string
	logg          *logger.Logger
}

// NewService wires the customers service.
func NewService(repo Repository, cache redis.CallerCache, countryPrefix string, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("customers repository required")
	}
	if cache == nil {
		return nil, errors.New("caller cache required")
	}
	if countryPrefix == "" {
		return nil, errors.New("default country prefix required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &service{repo: repo, cache: cache, countryPrefix: countryPrefix, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateCustomerInput) (*models.Customer, error) {
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}

	customer := &models.Customer{
		ID:            uuid.New(),
		FullName:      fullName,
		Email:         input.Email,
		Status:        enums.AccountStatusActive,
		InternalNotes: input.InternalNotes,
	}
	for _, p := range input.Phones {
		normalized := phone.Normalize(p.Number, s.countryPrefix)
		label := p.Label
		if label == "" {
			label = enums.PhoneLabelMobile
		}
		if !label.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid phone label").WithDetails(p.Label)
		}
		customer.Phones = append(customer.Phones, models.CustomerPhone{
			ID:          uuid.New(),
			CustomerID:  customer.ID,
			PhoneNumber: normalized,
			Label:       label,
			IsPrimary:   p.IsPrimary,
		})
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "phone number already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating customer")
	}
	return customer, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
	}
	return customer, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]models.Customer, string, error) {
	customers, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing customers")
	}
	return customers, next, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*models.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		fullName := strings.TrimSpace(*input.FullName)
		if fullName == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name cannot be empty")
		}
		customer.FullName = fullName
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid account status").WithDetails(*input.Status)
		}
		customer.Status = *input.Status
	}
	if input.InternalNotes != nil {
		customer.InternalNotes = input.InternalNotes
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating customer")
	}
	return customer, nil
}

func (s *service) SoftDelete(ctx context.Context, id uuid.UUID) error {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if customer.IsDeleted {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "customer already deleted")
	}

	customer.IsDeleted = true
	if err := s.repo.Update(ctx, customer); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting customer")
	}

	// Deleted customers must stop resolving in caller-ID lookups.
	for _, p := range customer.Phones {
		s.invalidateCaller(ctx, p.PhoneNumber)
	}
	return nil
}

func (s *service) AddPhone(ctx context.Context, customerID uuid.UUID, input PhoneInput) (*models.CustomerPhone, error) {
	customer, err := s.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}

	label := input.Label
	if label == "" {
		label = enums.PhoneLabelMobile
	}
	if !label.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid phone label").WithDetails(input.Label)
	}

	entry := &models.CustomerPhone{
		ID:          uuid.New(),
		CustomerID:  customer.ID,
		PhoneNumber: phone.Normalize(input.Number, s.countryPrefix),
		Label:       label,
		IsPrimary:   input.IsPrimary,
	}
	if err := s.repo.CreatePhone(ctx, entry); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "phone number already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding phone")
	}

	s.invalidateCaller(ctx, entry.PhoneNumber)
	return entry, nil
}

func (s *service) RemovePhone(ctx context.Context, customerID, phoneID uuid.UUID) error {
	if customerID == uuid.Nil || phoneID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id and phone id are required")
	}
	removed, err := s.repo.DeletePhone(ctx, customerID, phoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "phone not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing phone")
	}
	s.invalidateCaller(ctx, removed.PhoneNumber)
	return nil
}

// RenormalizePhones sweeps every stored phone number through the normalizer
// and rewrites the ones that drifted from canonical form. It returns how
// many rows changed. Per-row failures are collected rather than aborting the
// sweep.
func (s *service) RenormalizePhones(ctx context.Context) (int, error) {
	phones, err := s.repo.ListAllPhones(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing phones")
	}

	var errs error
	changed := 0
	for _, p := range phones {
		normalized := phone.Normalize(p.PhoneNumber, s.countryPrefix)
		if normalized == p.PhoneNumber {
			continue
		}
		if err := s.repo.UpdatePhoneNumber(ctx, p.ID, normalized); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		s.invalidateCaller(ctx, p.PhoneNumber)
		s.invalidateCaller(ctx, normalized)
		changed++
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"scanned": len(phones),
		"changed": changed,
	})
	s.logg.Info(logCtx, "phone renormalization sweep complete")
	return changed, errs
}

func (s *service) invalidateCaller(ctx context.Context, normalizedNumber string) {
	if err := s.cache.Del(ctx, s.cache.CallerKey(normalizedNumber)); err != nil {
		s.logg.Warn(ctx, "failed to invalidate caller cache entry")
	}
}
