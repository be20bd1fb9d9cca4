package Models

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the local sqlite database and migrates the invoice tables.
// The store is single-writer; no pooling or locking beyond what sqlite
// itself provides.
func Connect(path string) error {
	connection, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return err
	}
	DB = connection

	if err := DB.AutoMigrate(&Invoice{}, &InvoiceItem{}); err != nil {
		return err
	}

	log.Printf("Connected to invoice database at %s", path)
	return nil
}
