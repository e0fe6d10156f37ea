package customers

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aquadesk/aquadesk-backend/pkg/enums"
	pkgerrors "github.com/aquadesk/aquadesk-backend/pkg/errors"
	"github.com/aquadesk/aquadesk-backend/pkg/logger"
	"github.com/aquadesk/aquadesk-backend/pkg/redis"
)

type fakeCallerCache struct {
	values  map[string]string
	deleted []string
}

func newFakeCallerCache() *fakeCallerCache {
	return &fakeCallerCache{values: map[string]string{}}
}

func (f *fakeCallerCache) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeCallerCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.values[key] = value
	return nil
}

func (f *fakeCallerCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
		f.deleted = append(f.deleted, key)
	}
	return nil
}

func (f *fakeCallerCache) CallerKey(normalizedNumber string) string {
	return "aquadesk:caller:" + normalizedNumber
}

func newTestService(t *testing.T) (Service, Repository, *fakeCallerCache) {
	t.Helper()
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	cache := newFakeCallerCache()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(repo, cache, "+90", logg)
	require.NoError(t, err)
	return svc, repo, cache
}

func TestServiceCreateNormalizesPhones(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	customer, err := svc.Create(ctx, CreateCustomerInput{
		FullName: "Ayşe Yılmaz",
		Phones: []PhoneInput{
			{Number: "0555 987 11 22", IsPrimary: true},
		},
	})
	require.NoError(t, err)

	phones, err := repo.ListPhones(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, phones, 1)
	require.Equal(t, "+905559871122", phones[0].PhoneNumber)
	require.Equal(t, enums.PhoneLabelMobile, phones[0].Label)
	require.True(t, phones[0].IsPrimary)
}

func TestServiceCreateRequiresName(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateCustomerInput{FullName: "   "})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestServiceAddPhoneConflict(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateCustomerInput{FullName: "First"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateCustomerInput{FullName: "Second"})
	require.NoError(t, err)

	_, err = svc.AddPhone(ctx, first.ID, PhoneInput{Number: "0555 333 44 55"})
	require.NoError(t, err)

	_, err = svc.AddPhone(ctx, second.ID, PhoneInput{Number: "+90 555 333 44 55"})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestServiceRemovePhoneInvalidatesCache(t *testing.T) {
	svc, _, cache := newTestService(t)
	ctx := context.Background()

	customer, err := svc.Create(ctx, CreateCustomerInput{FullName: "Cache Owner"})
	require.NoError(t, err)
	entry, err := svc.AddPhone(ctx, customer.ID, PhoneInput{Number: "0555 666 77 88"})
	require.NoError(t, err)

	cache.values[cache.CallerKey(entry.PhoneNumber)] = customer.ID.String()
	require.NoError(t, svc.RemovePhone(ctx, customer.ID, entry.ID))

	_, ok := cache.values[cache.CallerKey(entry.PhoneNumber)]
	require.False(t, ok)
}

func TestServiceSoftDeleteInvalidatesAllPhones(t *testing.T) {
	svc, _, cache := newTestService(t)
	ctx := context.Background()

	customer, err := svc.Create(ctx, CreateCustomerInput{
		FullName: "Leaving Customer",
		Phones: []PhoneInput{
			{Number: "0555 111 00 11"},
			{Number: "0212 444 00 22", Label: enums.PhoneLabelHome},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(ctx, customer.ID))
	require.Contains(t, cache.deleted, cache.CallerKey("+905551110011"))
	require.Contains(t, cache.deleted, cache.CallerKey("+902124440022"))

	err = svc.SoftDelete(ctx, customer.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestServiceRenormalizePhones(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	customer, err := svc.Create(ctx, CreateCustomerInput{FullName: "Legacy Numbers"})
	require.NoError(t, err)

	// Simulate a row written before normalization existed.
	entry, err := svc.AddPhone(ctx, customer.ID, PhoneInput{Number: "0555 222 33 44"})
	require.NoError(t, err)
	require.NoError(t, repo.UpdatePhoneNumber(ctx, entry.ID, "0555 222 33 44"))

	changed, err := svc.RenormalizePhones(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, changed, 1)

	phones, err := repo.ListPhones(ctx, customer.ID)
	require.NoError(t, err)
	require.Equal(t, "+905552223344", phones[0].PhoneNumber)
}
