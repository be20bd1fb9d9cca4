package Controllers

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"Mawasem/Documents"
	"Mawasem/Importer"
	"Mawasem/Ledger"
	"Mawasem/Models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// InvoiceSession owns the single editing session: the in-memory ledger,
// the store handle and the document renderer. Handlers share it, so every
// ledger access goes through the mutex.
type InvoiceSession struct {
	DB          *gorm.DB
	Renderer    Documents.Renderer
	AllowResave bool

	mu       sync.Mutex
	ledger   *Ledger.Ledger
	saved    bool
	validate *validator.Validate
}

func NewInvoiceSession(db *gorm.DB, renderer Documents.Renderer, allowResave bool) *InvoiceSession {
	return &InvoiceSession{
		DB:          db,
		Renderer:    renderer,
		AllowResave: allowResave,
		ledger:      Ledger.New(),
		validate:    validator.New(),
	}
}

// Index serves the invoice entry form.
func (s *InvoiceSession) Index(c *fiber.Ctx) error {
	return c.Render("index", fiber.Map{
		"CompanyName": Documents.CompanyName,
		"Products":    Ledger.ProductSuggestions,
		"Units":       Ledger.UnitSuggestions,
		"DefaultUnit": Ledger.DefaultUnit,
	})
}

// GetInvoice returns the current ledger projection: header, items in
// display order and the running grand total.
// GET /api/invoice
func (s *InvoiceSession) GetInvoice(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return c.JSON(fiber.Map{
		"header":                s.ledger.Header,
		"items":                 itemRows(s.ledger.Items()),
		"grand_total":           s.ledger.GrandTotal(),
		"grand_total_formatted": Ledger.FormatAmount(s.ledger.GrandTotal()),
	})
}

// AddItem appends one line item to the session ledger.
// POST /api/invoice/items
func (s *InvoiceSession) AddItem(c *fiber.Ctx) error {
	var req Models.AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
	}
	if err := s.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"message": "name, unit, quantity and price are required",
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.ledger.AddItem(req.Name, req.Unit, req.Quantity, req.Price)
	if err != nil {
		return ledgerError(c, err)
	}
	s.saved = false

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":               "Item added",
		"item":                  itemRow(item),
		"grand_total_formatted": Ledger.FormatAmount(s.ledger.GrandTotal()),
	})
}

// DeleteItem removes the selected row from the session ledger.
// DELETE /api/invoice/items/:index
func (s *InvoiceSession) DeleteItem(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "No selection",
			"message": "Select an item to delete",
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.DeleteItem(index); err != nil {
		return ledgerError(c, err)
	}
	s.saved = false

	return c.JSON(fiber.Map{
		"message":               "Item deleted",
		"grand_total_formatted": Ledger.FormatAmount(s.ledger.GrandTotal()),
	})
}

// ClearAll empties the session. The caller must confirm explicitly, the
// way the form prompts before wiping the invoice.
// POST /api/invoice/clear
func (s *InvoiceSession) ClearAll(c *fiber.Ctx) error {
	var req Models.ClearRequest
	if err := c.BodyParser(&req); err != nil || !req.Confirm {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Confirmation required",
			"message": "Pass confirm=true to clear the whole invoice",
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.ClearAll()
	s.saved = false

	return c.JSON(fiber.Map{"message": "Invoice cleared"})
}

// UpdateHeader sets the client and date fields of the session.
// PUT /api/invoice/header
func (s *InvoiceSession) UpdateHeader(c *fiber.Ctx) error {
	var req Models.HeaderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.Header.ClientName = req.ClientName
	s.ledger.Header.ClientAddress = req.ClientAddress
	s.ledger.Header.ClientPhone = req.ClientPhone
	if req.InvoiceDate != "" {
		s.ledger.Header.Date = req.InvoiceDate
	}
	s.saved = false

	return c.JSON(fiber.Map{"message": "Header updated", "header": s.ledger.Header})
}

// Import reads an uploaded spreadsheet and feeds its rows into the ledger.
// Bad rows are skipped; only the accepted count comes back.
// POST /api/invoice/import
func (s *InvoiceSession) Import(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "No file provided",
			"message": "Upload an Excel file",
		})
	}

	tmp := filepath.Join(os.TempDir(), file.Filename)
	if err := c.SaveFile(file, tmp); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Upload failed",
			"message": err.Error(),
		})
	}
	defer os.Remove(tmp)

	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := Importer.ImportFile(s.ledger, tmp)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Import failed",
			"message": err.Error(),
		})
	}
	if count > 0 {
		s.saved = false
	}

	return c.JSON(fiber.Map{
		"message":               "Import finished",
		"imported":              count,
		"grand_total_formatted": Ledger.FormatAmount(s.ledger.GrandTotal()),
	})
}

// Save snapshots the ledger and persists it as a new invoice. The session
// stays editable afterwards; saving again without edits is rejected when
// the re-save guard is on.
// POST /api/invoice/save
func (s *InvoiceSession) Save(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saved && !s.AllowResave {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "Already saved",
			"message": "This invoice was already saved; edit it before saving again",
		})
	}

	snapshot, err := s.ledger.Snapshot()
	if err != nil {
		return ledgerError(c, err)
	}

	id, err := Models.SaveInvoice(s.DB, snapshot)
	if err != nil {
		log.Println(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Save failed",
			"message": err.Error(),
		})
	}
	s.saved = true

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Invoice saved",
		"invoice_id": id,
	})
}

// Print renders the current ledger into the invoice document. Printing
// does not require a saved or even complete invoice; empty client fields
// fall back to placeholders.
// POST /api/invoice/print
func (s *InvoiceSession) Print(c *fiber.Ctx) error {
	s.mu.Lock()
	invoice := Ledger.Invoice{
		Header:     s.ledger.Header,
		Items:      s.ledger.Items(),
		GrandTotal: s.ledger.GrandTotal(),
	}
	s.mu.Unlock()

	path, err := s.Renderer.RenderPDF(invoice)
	if err != nil {
		log.Println(err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Print failed",
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Invoice rendered",
		"document": filepath.Base(path),
		"url":      "/documents/" + filepath.Base(path),
	})
}

// Preview renders the printable HTML document from the fixed template.
// GET /invoice/preview
func (s *InvoiceSession) Preview(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	header := s.ledger.Header
	return c.Render("invoice", fiber.Map{
		"CompanyName":    Documents.CompanyName,
		"CompanyAddress": Documents.CompanyAddress,
		"TaxInfo":        "س.ت: " + Documents.CompanyCommID + " | ب.ض: " + Documents.CompanyTaxID,
		"Title":          Documents.DocumentTitle,
		"ClientName":     previewField(header.ClientName),
		"ClientAddress":  previewField(header.ClientAddress),
		"ClientPhone":    previewField(header.ClientPhone),
		"Date":           header.Date,
		"Items":          itemRows(s.ledger.Items()),
		"GrandTotal":     Ledger.FormatAmount(s.ledger.GrandTotal()),
		"Currency":       Documents.CurrencyLabel,
	})
}

// ListInvoices returns the persisted history, newest first.
// GET /api/invoices
func (s *InvoiceSession) ListInvoices(c *fiber.Ctx) error {
	invoices, err := Models.ListInvoices(s.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Database error",
			"message": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"data":  invoices,
		"count": len(invoices),
	})
}

// GetSavedInvoice returns one persisted invoice with its items.
// GET /api/invoices/:id
func (s *InvoiceSession) GetSavedInvoice(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid ID",
			"message": "ID must be a valid number",
		})
	}

	invoice, err := Models.GetInvoice(s.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "Invoice not found",
				"message": "The specified invoice does not exist",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Database error",
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"data": invoice})
}

// ledgerError maps the ledger's error taxonomy onto HTTP responses. Every
// condition is recoverable; the session stays usable.
func ledgerError(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadRequest
	label := "Validation failed"
	switch {
	case errors.Is(err, Ledger.ErrNumericParse):
		label = "Invalid number"
	case errors.Is(err, Ledger.ErrNoSelection):
		label = "No selection"
	case errors.Is(err, Ledger.ErrEmptyInvoice):
		label = "Empty invoice"
	}
	return c.Status(status).JSON(fiber.Map{
		"error":   label,
		"message": err.Error(),
	})
}

func previewField(value string) string {
	if value == "" {
		return "غير محدد"
	}
	return value
}

func itemRow(item Ledger.LineItem) fiber.Map {
	return fiber.Map{
		"name":                 item.Name,
		"unit":                 item.Unit,
		"quantity":             item.Quantity,
		"unit_price":           item.UnitPrice,
		"line_total":           item.LineTotal,
		"price_formatted":      Ledger.FormatAmount(item.UnitPrice),
		"line_total_formatted": Ledger.FormatAmount(item.LineTotal),
	}
}

func itemRows(items []Ledger.LineItem) []fiber.Map {
	rows := make([]fiber.Map, len(items))
	for i, item := range items {
		rows[i] = itemRow(item)
	}
	return rows
}
