package Documents

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"Mawasem/Ledger"

	"github.com/jung-kurt/gofpdf"
)

// Renderer turns a finalized invoice snapshot into a PDF file. Branding
// assets are optional: a missing logo or font is omitted, never an error.
type Renderer struct {
	OutputDir string
	LogoPath  string
	FontPath  string
}

const fontFamily = "invoice"

// FileName builds the deterministic document name for an invoice:
// Invoice_<SanitizedClientName>_<YYYYMMDD_HHMMSS>.pdf. Sanitization keeps
// letters, digits and whitespace only; an empty client name falls back to
// the plain "Invoice" label.
func FileName(clientName string, now time.Time) string {
	safe := strings.TrimSpace(sanitizeClientName(clientName))
	if safe == "" {
		safe = "Invoice"
	}
	return fmt.Sprintf("Invoice_%s_%s.pdf", safe, now.Format("20060102_150405"))
}

func sanitizeClientName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// RenderPDF writes the invoice document and returns its path. The layout
// is fixed: company block, client box, one row per line item, grand total.
func (r Renderer) RenderPDF(inv Ledger.Invoice) (string, error) {
	if err := os.MkdirAll(r.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("preparing output directory: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	family := r.setupFont(pdf)
	pdf.AddPage()

	// Company block with optional logo on the opposite side.
	if r.LogoPath != "" {
		if _, err := os.Stat(r.LogoPath); err == nil {
			pdf.ImageOptions(r.LogoPath, 10, 10, 30, 0, false,
				gofpdf.ImageOptions{ReadDpi: true}, 0, "")
		} else {
			log.Printf("Logo %s not found, rendering without it", r.LogoPath)
		}
	}

	pdf.SetFont(family, "B", 18)
	pdf.CellFormat(0, 10, CompanyName, "", 1, "R", false, 0, "")
	pdf.SetFont(family, "", 9)
	taxLine := fmt.Sprintf("س.ت: %s | ب.ض: %s", CompanyCommID, CompanyTaxID)
	pdf.CellFormat(0, 5, taxLine, "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 5, CompanyAddress, "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(family, "B", 14)
	pdf.SetFillColor(248, 249, 250)
	pdf.CellFormat(0, 9, DocumentTitle, "1", 1, "C", true, 0, "")
	pdf.Ln(4)

	// Client box.
	pdf.SetFont(family, "", 10)
	pdf.CellFormat(95, 7, "العميل: "+orPlaceholder(inv.Header.ClientName), "", 0, "R", false, 0, "")
	pdf.CellFormat(95, 7, "التاريخ: "+inv.Header.Date, "", 1, "R", false, 0, "")
	pdf.CellFormat(95, 7, "العنوان: "+orPlaceholder(inv.Header.ClientAddress), "", 0, "R", false, 0, "")
	pdf.CellFormat(95, 7, "رقم الهاتف: "+orPlaceholder(inv.Header.ClientPhone), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	// Items table.
	widths := []float64{70, 30, 25, 30, 35}
	headers := []string{"الصنف", "الوحدة", "الكمية", "السعر", "الإجمالي"}
	pdf.SetFont(family, "B", 10)
	pdf.SetFillColor(44, 62, 80)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 10)
	pdf.SetTextColor(51, 51, 51)
	for _, item := range inv.Items {
		pdf.CellFormat(widths[0], 8, item.Name, "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[1], 8, item.Unit, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 8, item.Quantity.String(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 8, Ledger.FormatAmount(item.UnitPrice), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 8, Ledger.FormatAmount(item.LineTotal), "1", 1, "C", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont(family, "B", 13)
	totalLine := fmt.Sprintf("الإجمالي النهائي: %s %s", Ledger.FormatAmount(inv.GrandTotal), CurrencyLabel)
	pdf.CellFormat(0, 10, totalLine, "", 1, "L", false, 0, "")

	path := filepath.Join(r.OutputDir, FileName(inv.Header.ClientName, time.Now()))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("writing invoice document: %w", err)
	}
	log.Printf("Rendered invoice document %s", path)
	return path, nil
}

// setupFont registers the configured UTF-8 font and returns the family to
// use. Without one, gofpdf's built-in Arial is the fallback; Arabic text
// will not shape correctly then, but rendering still succeeds.
func (r Renderer) setupFont(pdf *gofpdf.Fpdf) string {
	if r.FontPath == "" {
		return "Arial"
	}
	if _, err := os.Stat(r.FontPath); err != nil {
		log.Printf("Font %s not found, falling back to built-in font", r.FontPath)
		return "Arial"
	}
	pdf.AddUTF8Font(fontFamily, "", r.FontPath)
	pdf.AddUTF8Font(fontFamily, "B", r.FontPath)
	pdf.RTL()
	return fontFamily
}

func orPlaceholder(value string) string {
	if strings.TrimSpace(value) == "" {
		return "غير محدد"
	}
	return value
}
