package Models

import (
	"path/filepath"
	"testing"

	"Mawasem/Ledger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "invoices.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Invoice{}, &InvoiceItem{}))
	return db
}

func buildSnapshot(t *testing.T) Ledger.Invoice {
	t.Helper()
	l := Ledger.New()
	l.Header.ClientName = "Acme"
	l.Header.ClientAddress = "12 Market St"
	l.Header.ClientPhone = "0100000000"
	l.Header.Date = "2026-08-31"
	_, err := l.AddItem("Green Olives", "kg", "12", "7.25")
	require.NoError(t, err)
	_, err = l.AddItem("Jalapeno", "piece", "5", "3.0")
	require.NoError(t, err)

	snapshot, err := l.Snapshot()
	require.NoError(t, err)
	return snapshot
}

func TestSaveInvoiceRoundTrip(t *testing.T) {
	db := testDB(t)
	snapshot := buildSnapshot(t)

	id, err := SaveInvoice(db, snapshot)
	require.NoError(t, err)
	require.NotZero(t, id)

	stored, err := GetInvoice(db, id)
	require.NoError(t, err)

	assert.Equal(t, "Acme", stored.ClientName)
	assert.Equal(t, "12 Market St", stored.ClientAddress)
	assert.Equal(t, "0100000000", stored.ClientPhone)
	assert.Equal(t, "2026-08-31", stored.InvoiceDate)
	assert.True(t, stored.GrandTotal.Equal(decimal.RequireFromString("102")))

	require.Len(t, stored.Items, 2)
	assert.Equal(t, "Green Olives", stored.Items[0].ItemName)
	assert.Equal(t, "kg", stored.Items[0].Unit)
	assert.True(t, stored.Items[0].Qty.Equal(decimal.RequireFromString("12")))
	assert.True(t, stored.Items[0].Price.Equal(decimal.RequireFromString("7.25")))
	assert.Equal(t, "Jalapeno", stored.Items[1].ItemName)

	// Persisted grand total equals the sum of persisted item totals.
	sum := decimal.Zero
	for _, item := range stored.Items {
		sum = sum.Add(item.Total)
	}
	assert.True(t, stored.GrandTotal.Equal(sum))
}

func TestSaveInvoicePreservesItemOrder(t *testing.T) {
	db := testDB(t)

	l := Ledger.New()
	l.Header.ClientName = "Acme"
	names := []string{"Third", "First", "Second", "Last"}
	for _, name := range names {
		_, err := l.AddItem(name, "kg", "1", "1")
		require.NoError(t, err)
	}
	snapshot, err := l.Snapshot()
	require.NoError(t, err)

	id, err := SaveInvoice(db, snapshot)
	require.NoError(t, err)

	stored, err := GetInvoice(db, id)
	require.NoError(t, err)
	require.Len(t, stored.Items, len(names))
	for i, name := range names {
		assert.Equal(t, name, stored.Items[i].ItemName)
		assert.Equal(t, i+1, stored.Items[i].ItemOrder)
	}
}

func TestSaveInvoiceAppendOnly(t *testing.T) {
	db := testDB(t)
	snapshot := buildSnapshot(t)

	first, err := SaveInvoice(db, snapshot)
	require.NoError(t, err)
	second, err := SaveInvoice(db, snapshot)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	invoices, err := ListInvoices(db)
	require.NoError(t, err)
	assert.Len(t, invoices, 2)
}

func TestSaveInvoiceAtomicRollback(t *testing.T) {
	db := testDB(t)
	snapshot := buildSnapshot(t)

	// Dropping the items table makes the second insert fail; the header
	// written in the same transaction must be rolled back with it.
	require.NoError(t, db.Migrator().DropTable(&InvoiceItem{}))

	_, err := SaveInvoice(db, snapshot)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)

	var count int64
	require.NoError(t, db.Model(&Invoice{}).Count(&count).Error)
	assert.Zero(t, count)
}
