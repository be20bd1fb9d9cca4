package Models

import (
	"errors"
	"fmt"

	"Mawasem/Ledger"

	"gorm.io/gorm"
)

// ErrPersistence flags a failed store write. The caller reports it and the
// in-memory session is left untouched.
var ErrPersistence = errors.New("invoice could not be saved")

// SaveInvoice writes a ledger snapshot as one header row plus its item
// rows in a single transaction. Either everything is persisted or nothing
// is. Returns the generated invoice id.
func SaveInvoice(db *gorm.DB, snapshot Ledger.Invoice) (uint, error) {
	invoice := Invoice{
		ClientName:    snapshot.Header.ClientName,
		ClientAddress: snapshot.Header.ClientAddress,
		ClientPhone:   snapshot.Header.ClientPhone,
		InvoiceDate:   snapshot.Header.Date,
		GrandTotal:    snapshot.GrandTotal,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		for i, item := range snapshot.Items {
			row := InvoiceItem{
				InvoiceID: invoice.ID,
				ItemName:  item.Name,
				Unit:      item.Unit,
				Qty:       item.Quantity,
				Price:     item.UnitPrice,
				Total:     item.LineTotal,
				ItemOrder: i + 1,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return invoice.ID, nil
}

// GetInvoice loads one persisted invoice with its items in print order.
// Reads serve the history endpoints only; they never feed the editing
// session.
func GetInvoice(db *gorm.DB, id uint) (Invoice, error) {
	var invoice Invoice
	err := db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("item_order ASC")
	}).First(&invoice, id).Error
	return invoice, err
}

// ListInvoices returns the persisted history, newest first.
func ListInvoices(db *gorm.DB) ([]Invoice, error) {
	var invoices []Invoice
	err := db.Order("created_at DESC").Find(&invoices).Error
	return invoices, err
}
