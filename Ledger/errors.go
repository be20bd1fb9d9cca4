package Ledger

import "errors"

// Session-level error conditions. All of them are recoverable: the caller
// reports a message and the ledger stays usable.
var (
	ErrValidation   = errors.New("required field missing")
	ErrNumericParse = errors.New("quantity and price must be numbers")
	ErrNoSelection  = errors.New("no item selected")
	ErrEmptyInvoice = errors.New("invoice has no items")
)
