package Controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"Mawasem/Documents"
	"Mawasem/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T, allowResave bool) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "invoices.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Models.Invoice{}, &Models.InvoiceItem{}))

	session := NewInvoiceSession(db, Documents.Renderer{OutputDir: t.TempDir()}, allowResave)

	app := fiber.New()
	api := app.Group("/api")
	api.Get("/invoice", session.GetInvoice)
	api.Post("/invoice/items", session.AddItem)
	api.Delete("/invoice/items/:index", session.DeleteItem)
	api.Post("/invoice/clear", session.ClearAll)
	api.Put("/invoice/header", session.UpdateHeader)
	api.Post("/invoice/import", session.Import)
	api.Post("/invoice/save", session.Save)
	api.Post("/invoice/print", session.Print)
	api.Get("/invoices", session.ListInvoices)
	api.Get("/invoices/:id", session.GetSavedInvoice)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	payload := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload))
	}
	return resp, payload
}

func TestAddItemAndProjection(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp, body := doJSON(t, app, "POST", "/api/invoice/items", map[string]string{
		"name": "Green Olives", "unit": "kg", "quantity": "12", "price": "7.25",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	item := body["item"].(map[string]interface{})
	assert.Equal(t, "87.00", item["line_total_formatted"])

	resp, body = doJSON(t, app, "POST", "/api/invoice/items", map[string]string{
		"name": "Jalapeno", "unit": "piece", "quantity": "5", "price": "3.0",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body = doJSON(t, app, "GET", "/api/invoice", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "102.00", body["grand_total_formatted"])
	assert.Len(t, body["items"], 2)
}

func TestAddItemRejectsBadNumbers(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp, body := doJSON(t, app, "POST", "/api/invoice/items", map[string]string{
		"name": "Olive", "unit": "kg", "quantity": "abc", "price": "2",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid number", body["error"])

	resp, _ = doJSON(t, app, "POST", "/api/invoice/items", map[string]string{
		"name": "", "unit": "kg", "quantity": "1", "price": "2",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	_, body = doJSON(t, app, "GET", "/api/invoice", nil)
	assert.Empty(t, body["items"])
}

func TestDeleteItemNoSelection(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp, body := doJSON(t, app, "DELETE", "/api/invoice/items/3", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No selection", body["error"])
}

func TestClearRequiresConfirmation(t *testing.T) {
	app, _ := newTestApp(t, true)

	doJSON(t, app, "POST", "/api/invoice/items", map[string]string{
		"name": "Olive", "unit": "kg", "quantity": "1", "price": "2",
	})

	resp, _ := doJSON(t, app, "POST", "/api/invoice/clear", map[string]bool{"confirm": false})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/api/invoice/clear", map[string]bool{"confirm": true})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, body := doJSON(t, app, "GET", "/api/invoice", nil)
	assert.Empty(t, body["items"])
	assert.Equal(t, "0.00", body["grand_total_formatted"])
}

func TestSaveFlow(t *testing.T) {
	app, db := newTestApp(t, true)

	// Saving an empty session fails before anything touches the store.
	resp, body := doJSON(t, app, "POST", "/api/invoice/save", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	doJSON(t, app, "PUT", "/api/invoice/header", map[string]string{
		"client_name": "Acme", "invoice_date": "2026-08-31",
	})
	doJSON(t, app, "POST", "/api/invoice/items", map[string]string{
		"name": "Olive", "unit": "kg", "quantity": "10", "price": "5.5",
	})

	resp, body = doJSON(t, app, "POST", "/api/invoice/save", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.NotZero(t, body["invoice_id"])

	var count int64
	require.NoError(t, db.Model(&Models.Invoice{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Default behavior allows saving the same session again.
	resp, _ = doJSON(t, app, "POST", "/api/invoice/save", nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestSaveGuardBlocksResave(t *testing.T) {
	app, _ := newTestApp(t, false)

	doJSON(t, app, "PUT", "/api/invoice/header", map[string]string{"client_name": "Acme"})
	doJSON(t, app, "POST", "/api/invoice/items", map[string]string{
		"name": "Olive", "unit": "kg", "quantity": "10", "price": "5.5",
	})

	resp, _ := doJSON(t, app, "POST", "/api/invoice/save", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/api/invoice/save", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Any edit reopens the session for saving.
	doJSON(t, app, "POST", "/api/invoice/items", map[string]string{
		"name": "Pepper", "unit": "box", "quantity": "3", "price": "20",
	})
	resp, _ = doJSON(t, app, "POST", "/api/invoice/save", nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestImportUpload(t *testing.T) {
	app, _ := newTestApp(t, true)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Item", "Unit", "Qty", "Price"},
		{"Olive", "kg", 10, 5.5},
		{"", "", "", ""},
		{"Pepper", "box", 3, 20},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	part, err := writer.CreateFormFile("file", "items.xlsx")
	require.NoError(t, err)
	_, err = io.Copy(part, &buf)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/invoice/import", &form)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.EqualValues(t, 2, body["imported"])
	assert.Equal(t, "115.00", body["grand_total_formatted"])
}

func TestPrintProducesDocument(t *testing.T) {
	app, _ := newTestApp(t, true)

	doJSON(t, app, "PUT", "/api/invoice/header", map[string]string{"client_name": "Acme"})
	doJSON(t, app, "POST", "/api/invoice/items", map[string]string{
		"name": "Olive", "unit": "kg", "quantity": "1", "price": "2",
	})

	resp, body := doJSON(t, app, "POST", "/api/invoice/print", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	document := body["document"].(string)
	assert.True(t, strings.HasPrefix(document, "Invoice_Acme_"))
	assert.True(t, strings.HasSuffix(document, ".pdf"))
}

func TestSavedInvoiceHistory(t *testing.T) {
	app, _ := newTestApp(t, true)

	doJSON(t, app, "PUT", "/api/invoice/header", map[string]string{"client_name": "Acme"})
	doJSON(t, app, "POST", "/api/invoice/items", map[string]string{
		"name": "Olive", "unit": "kg", "quantity": "10", "price": "5.5",
	})
	resp, body := doJSON(t, app, "POST", "/api/invoice/save", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	id := int(body["invoice_id"].(float64))

	resp, body = doJSON(t, app, "GET", "/api/invoices", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["count"])

	resp, body = doJSON(t, app, "GET", "/api/invoices/"+strconv.Itoa(id), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Acme", data["client_name"])
	assert.Len(t, data["items"], 1)

	resp, _ = doJSON(t, app, "GET", "/api/invoices/9999", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
