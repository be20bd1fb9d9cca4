package Models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is one persisted invoice header. Invoices are written once and
// never updated or deleted afterwards; the store is an append-only history.
type Invoice struct {
	gorm.Model
	ClientName    string          `json:"client_name" gorm:"size:255;not null"`
	ClientAddress string          `json:"client_address" gorm:"size:500"`
	ClientPhone   string          `json:"client_phone" gorm:"size:50"`
	InvoiceDate   string          `json:"invoice_date" gorm:"size:50"`
	GrandTotal    decimal.Decimal `json:"grand_total" gorm:"type:decimal(14,2);not null"`

	Items []InvoiceItem `json:"items,omitempty" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// InvoiceItem is one persisted line of an invoice. Qty, Price and Total are
// snapshots taken at save time.
type InvoiceItem struct {
	gorm.Model
	InvoiceID uint            `json:"invoice_id" gorm:"not null;index"`
	ItemName  string          `json:"item_name" gorm:"size:255;not null"`
	Unit      string          `json:"unit" gorm:"size:100"`
	Qty       decimal.Decimal `json:"qty" gorm:"type:decimal(14,3);not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(14,2);not null"`
	Total     decimal.Decimal `json:"total" gorm:"type:decimal(14,2);not null"`
	ItemOrder int             `json:"item_order" gorm:"not null;default:0"`
}

type AddItemRequest struct {
	Name     string `json:"name" validate:"required"`
	Unit     string `json:"unit" validate:"required"`
	Quantity string `json:"quantity" validate:"required"`
	Price    string `json:"price" validate:"required"`
}

type HeaderRequest struct {
	ClientName    string `json:"client_name"`
	ClientAddress string `json:"client_address"`
	ClientPhone   string `json:"client_phone"`
	InvoiceDate   string `json:"invoice_date"`
}

type ClearRequest struct {
	Confirm bool `json:"confirm"`
}
