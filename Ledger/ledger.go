package Ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one invoice row. LineTotal is always Quantity * UnitPrice;
// it is recomputed from its inputs and never set independently.
type LineItem struct {
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Header carries the client and date fields of the invoice being edited.
// Date is free text, defaulted to the current day.
type Header struct {
	ClientName    string `json:"client_name"`
	ClientAddress string `json:"client_address"`
	ClientPhone   string `json:"client_phone"`
	Date          string `json:"invoice_date"`
}

// Invoice is an immutable snapshot of the ledger taken at save/print time.
type Invoice struct {
	Header     Header          `json:"header"`
	Items      []LineItem      `json:"items"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Ledger owns the ordered item sequence and header fields for the invoice
// currently being edited. Items are kept in insertion order, which is also
// the display and print order.
type Ledger struct {
	Header Header

	items []LineItem
	total decimal.Decimal
}

const dateLayout = "2006-01-02"

func New() *Ledger {
	return &Ledger{
		Header: Header{Date: time.Now().Format(dateLayout)},
		total:  decimal.Zero,
	}
}

// AddItem validates and appends one line item. Name and unit must be
// non-empty after trimming, quantity and price must parse as non-negative
// decimals. On any failure the ledger is left unchanged.
func (l *Ledger) AddItem(name, unit, qtyText, priceText string) (LineItem, error) {
	name = strings.TrimSpace(name)
	unit = strings.TrimSpace(unit)
	qtyText = strings.TrimSpace(qtyText)
	priceText = strings.TrimSpace(priceText)

	switch {
	case name == "":
		return LineItem{}, fmt.Errorf("%w: item name", ErrValidation)
	case unit == "":
		return LineItem{}, fmt.Errorf("%w: unit", ErrValidation)
	case qtyText == "":
		return LineItem{}, fmt.Errorf("%w: quantity", ErrValidation)
	case priceText == "":
		return LineItem{}, fmt.Errorf("%w: price", ErrValidation)
	}

	qty, err := parseAmount(qtyText)
	if err != nil {
		return LineItem{}, fmt.Errorf("%w: quantity %q", ErrNumericParse, qtyText)
	}
	price, err := parseAmount(priceText)
	if err != nil {
		return LineItem{}, fmt.Errorf("%w: price %q", ErrNumericParse, priceText)
	}

	item := LineItem{
		Name:      name,
		Unit:      unit,
		Quantity:  qty,
		UnitPrice: price,
		LineTotal: qty.Mul(price),
	}
	l.items = append(l.items, item)
	l.recompute()
	return item, nil
}

// DeleteItem removes exactly one item by its position in the sequence.
// A negative or out-of-range index means nothing was selected.
func (l *Ledger) DeleteItem(index int) error {
	if index < 0 || index >= len(l.items) {
		return ErrNoSelection
	}
	l.items = append(l.items[:index], l.items[index+1:]...)
	l.recompute()
	return nil
}

// ClearAll empties the item sequence and resets the header. Confirmation
// is the caller's responsibility.
func (l *Ledger) ClearAll() {
	l.items = nil
	l.Header = Header{Date: time.Now().Format(dateLayout)}
	l.recompute()
}

// ImportRows feeds raw tabular rows into the ledger: column 0 is the item
// name, column 1 the unit, column 2 the quantity and column 3 the price.
// Missing unit falls back to the default label, missing quantity or price
// to zero. Rows with an empty name or unparseable numbers are skipped
// silently; the returned count is the only outcome the caller sees.
func (l *Ledger) ImportRows(rows [][]string) int {
	count := 0
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}

		unit := DefaultImportUnit
		if len(row) > 1 && strings.TrimSpace(row[1]) != "" {
			unit = strings.TrimSpace(row[1])
		}

		qty := decimal.Zero
		if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
			parsed, err := parseAmount(row[2])
			if err != nil {
				continue
			}
			qty = parsed
		}

		price := decimal.Zero
		if len(row) > 3 && strings.TrimSpace(row[3]) != "" {
			parsed, err := parseAmount(row[3])
			if err != nil {
				continue
			}
			price = parsed
		}

		l.items = append(l.items, LineItem{
			Name:      name,
			Unit:      unit,
			Quantity:  qty,
			UnitPrice: price,
			LineTotal: qty.Mul(price),
		})
		count++
	}
	l.recompute()
	return count
}

// GrandTotal returns the sum of all current line totals.
func (l *Ledger) GrandTotal() decimal.Decimal {
	return l.total
}

// Items returns a copy of the current item sequence in insertion order.
func (l *Ledger) Items() []LineItem {
	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}

func (l *Ledger) ItemCount() int {
	return len(l.items)
}

// Snapshot validates the session and returns an immutable invoice value
// for the persistence and rendering adapters. The ledger itself remains
// editable afterwards.
func (l *Ledger) Snapshot() (Invoice, error) {
	if strings.TrimSpace(l.Header.ClientName) == "" {
		return Invoice{}, fmt.Errorf("%w: client name", ErrValidation)
	}
	if len(l.items) == 0 {
		return Invoice{}, ErrEmptyInvoice
	}
	return Invoice{
		Header:     l.Header,
		Items:      l.Items(),
		GrandTotal: l.total,
	}, nil
}

func (l *Ledger) recompute() {
	total := decimal.Zero
	for _, item := range l.items {
		total = total.Add(item.LineTotal)
	}
	l.total = total
}

// parseAmount accepts the numeric text typed into the quantity and price
// fields. Thousands separators are tolerated, negatives are not.
func parseAmount(text string) (decimal.Decimal, error) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %s", text)
	}
	return d, nil
}
