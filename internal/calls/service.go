package calls

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aquadesk/aquadesk-backend/internal/phone"
	"github.com/aquadesk/aquadesk-backend/pkg/db"
	"github.com/aquadesk/aquadesk-backend/pkg/db/models"
	"github.com/aquadesk/aquadesk-backend/pkg/enums"
	pkgerrors "github.com/aquadesk/aquadesk-backend/pkg/errors"
	"github.com/aquadesk/aquadesk-backend/pkg/logger"
	"github.com/aquadesk/aquadesk-backend/pkg/metrics"
	"github.com/aquadesk/aquadesk-backend/pkg/pagination"
	"github.com/aquadesk/aquadesk-backend/pkg/redis"
)

// Service ingests telephony events and resolves callers to customers.
type Service interface {
	IngestCall(ctx context.Context, input IngestCallInput) (*models.CallLog, error)
	Match(ctx context.Context, rawNumber string) (*uuid.UUID, error)
	List(ctx context.Context, params pagination.Params) ([]models.CallLog, string, error)
}

// IngestCallInput is one telephony event as reported by an integration.
type IngestCallInput struct {
	CallUUID         string
	CallerNumber     string
	TargetIdentifier *string
	Source           enums.CallSource
	Direction        enums.CallDirection
	Status           *string
	Duration         int
}

type service struct {
	repo          Repository
	cache         redis.CallerCache
	cacheTTL      time.Duration
	countryPrefix string
	metrics       *metrics.LedgerMetrics
	logg          *logger.Logger
}

// NewService wires the calls service. Metrics may be nil.
func NewService(repo Repository, cache redis.CallerCache, cacheTTL time.Duration, countryPrefix string, m *metrics.LedgerMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("calls repository required")
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
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	return &service{
		repo:          repo,
		cache:         cache,
		cacheTTL:      cacheTTL,
		countryPrefix: countryPrefix,
		metrics:       m,
		logg:          logg,
	}, nil
}

func (s *service) IngestCall(ctx context.Context, input IngestCallInput) (*models.CallLog, error) {
	callUUID := strings.TrimSpace(input.CallUUID)
	if callUUID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "call uuid is required")
	}
	if strings.TrimSpace(input.CallerNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "caller number is required")
	}
	source := input.Source
	if source == "" {
		source = enums.CallSourceFreePBX
	}
	if !source.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid call source").WithDetails(input.Source)
	}
	direction := input.Direction
	if direction == "" {
		direction = enums.CallDirectionInbound
	}
	if !direction.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid call direction").WithDetails(input.Direction)
	}
	if input.Duration < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "duration cannot be negative")
	}

	normalized := phone.Normalize(input.CallerNumber, s.countryPrefix)
	matched, err := s.Match(ctx, normalized)
	if err != nil {
		return nil, err
	}

	log := &models.CallLog{
		ID:                uuid.New(),
		CallUUID:          callUUID,
		CallerNumber:      normalized,
		MatchedCustomerID: matched,
		TargetIdentifier:  input.TargetIdentifier,
		Source:            source,
		Direction:         direction,
		Status:            input.Status,
		Duration:          input.Duration,
	}
	if err := s.repo.CreateCallLog(ctx, log); err != nil {
		if db.IsUniqueViolation(err) {
			existing, findErr := s.repo.FindByCallUUID(ctx, callUUID)
			if findErr == nil {
				return existing, nil
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "call already recorded")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording call")
	}
	return log, nil
}

// Match resolves a caller number to a customer ID, consulting the cache
// before the database. A database hit refreshes the cache; a miss is not
// cached so a newly added phone matches immediately.
func (s *service) Match(ctx context.Context, rawNumber string) (*uuid.UUID, error) {
	normalized := phone.Normalize(rawNumber, s.countryPrefix)
	key := s.cache.CallerKey(normalized)

	cached, err := s.cache.Get(ctx, key)
	if err == nil && cached != "" {
		if id, parseErr := uuid.Parse(cached); parseErr == nil {
			s.metrics.IncCallMatch("cache_hit")
			return &id, nil
		}
	} else if err != nil && !errors.Is(err, redis.Nil) {
		s.logg.Warn(ctx, "caller cache lookup failed; falling back to database")
	}

	customerID, err := s.repo.FindCustomerIDByPhone(ctx, normalized)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "matching caller")
	}
	if customerID == nil {
		s.metrics.IncCallMatch("miss")
		return nil, nil
	}

	if err := s.cache.Set(ctx, key, customerID.String(), s.cacheTTL); err != nil {
		s.logg.Warn(ctx, "failed to cache caller match")
	}
	s.metrics.IncCallMatch("hit")
	return customerID, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]models.CallLog, string, error) {
	logs, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing calls")
	}
	return logs, next, nil
}
