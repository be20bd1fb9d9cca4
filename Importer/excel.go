package Importer

import (
	"errors"
	"fmt"
	"log"

	"Mawasem/Ledger"

	"github.com/xuri/excelize/v2"
)

// ErrImport flags a source file that could not be read at all. Individual
// bad rows are not errors; they are skipped by the ledger.
var ErrImport = errors.New("could not read import file")

// ReadRows opens a spreadsheet and returns the raw data rows of its first
// sheet. The first row is treated as a header row and dropped.
func ReadRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImport, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: file has no sheets", ErrImport)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImport, err)
	}

	if len(rows) > 0 {
		rows = rows[1:]
	}
	return rows, nil
}

// ImportFile reads a spreadsheet and feeds its rows into the ledger.
// Returns the number of rows that became line items; malformed rows are
// skipped without aborting the batch.
func ImportFile(l *Ledger.Ledger, path string) (int, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return 0, err
	}
	count := l.ImportRows(rows)
	log.Printf("Imported %d of %d rows from %s", count, len(rows), path)
	return count, nil
}
