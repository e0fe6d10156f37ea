package customers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aquadesk/aquadesk-backend/pkg/db/models"
	"github.com/aquadesk/aquadesk-backend/pkg/enums"
)

func setupCustomersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	customers := `
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  full_name TEXT NOT NULL,
  email TEXT,
  bottles_in_hand INTEGER NOT NULL DEFAULT 0 CHECK (bottles_in_hand BETWEEN -100 AND 10000),
  account_balance NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'active',
  internal_notes TEXT,
  is_deleted INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	customerPhones := `
CREATE TABLE IF NOT EXISTS customer_phones (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  phone_number TEXT NOT NULL UNIQUE,
  label TEXT NOT NULL DEFAULT 'mobile',
  is_primary INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	customerAddresses := `
CREATE TABLE IF NOT EXISTS customer_addresses (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  label TEXT,
  address_line TEXT NOT NULL,
  district TEXT,
  city TEXT,
  delivery_zone_id TEXT,
  is_default INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`

	for _, ddl := range []string{customers, customerPhones, customerAddresses} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func seedCustomer(t *testing.T, db *gorm.DB, name string) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		ID:       uuid.New(),
		FullName: name,
		Status:   enums.AccountStatusActive,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func TestAdjustAggregatesAccumulates(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	customer := seedCustomer(t, db, "Aggregate Test")

	tx := db.Begin()
	require.NoError(t, tx.Error)
	require.NoError(t, repo.AdjustAggregates(ctx, tx, customer.ID, 4, decimal.RequireFromString("-50.00")))
	require.NoError(t, repo.AdjustAggregates(ctx, tx, customer.ID, -1, decimal.RequireFromString("10.00")))
	require.NoError(t, tx.Commit().Error)

	reloaded, err := repo.FindByID(ctx, customer.ID)
	require.NoError(t, err)
	require.Equal(t, 3, reloaded.BottlesInHand)
	require.Equal(t, "-40", reloaded.AccountBalance.String())
}

func TestAdjustAggregatesUnknownCustomer(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)

	tx := db.Begin()
	require.NoError(t, tx.Error)
	defer tx.Rollback()

	err := repo.AdjustAggregates(context.Background(), tx, uuid.New(), 1, decimal.Zero)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAdjustAggregatesRequiresTransaction(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)

	err := repo.AdjustAggregates(context.Background(), nil, uuid.New(), 1, decimal.Zero)
	require.Error(t, err)
}

func TestAdjustAggregatesRejectsUnreasonableBottleCounts(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	customer := seedCustomer(t, db, "Check Constraint")

	tx := db.Begin()
	require.NoError(t, tx.Error)
	defer tx.Rollback()

	err := repo.AdjustAggregates(ctx, tx, customer.ID, 20000, decimal.Zero)
	require.Error(t, err)
}

func TestPhoneUniquenessAcrossCustomers(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first := seedCustomer(t, db, "First Owner")
	second := seedCustomer(t, db, "Second Owner")

	number := "+90555" + uuid.NewString()[:8]
	require.NoError(t, repo.CreatePhone(ctx, &models.CustomerPhone{
		ID:          uuid.New(),
		CustomerID:  first.ID,
		PhoneNumber: number,
		Label:       enums.PhoneLabelMobile,
	}))

	err := repo.CreatePhone(ctx, &models.CustomerPhone{
		ID:          uuid.New(),
		CustomerID:  second.ID,
		PhoneNumber: number,
		Label:       enums.PhoneLabelMobile,
	})
	require.Error(t, err)
}

func TestDeletePhoneScopedToCustomer(t *testing.T) {
	db := setupCustomersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := seedCustomer(t, db, "Owner")
	other := seedCustomer(t, db, "Other")

	entry := &models.CustomerPhone{
		ID:          uuid.New(),
		CustomerID:  owner.ID,
		PhoneNumber: "+90555" + uuid.NewString()[:8],
		Label:       enums.PhoneLabelMobile,
	}
	require.NoError(t, repo.CreatePhone(ctx, entry))

	_, err := repo.DeletePhone(ctx, other.ID, entry.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	removed, err := repo.DeletePhone(ctx, owner.ID, entry.ID)
	require.NoError(t, err)
	require.Equal(t, entry.PhoneNumber, removed.PhoneNumber)
}
