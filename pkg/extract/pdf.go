package extract

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/ledongthuc/pdf"

	"github.com/shunichi-ikebuchi/audit-reporter/pkg/ledger"
)

// PageSource yields the raw text of every page of one document.
type PageSource interface {
	Name() string
	PageTexts() ([]string, error)
}

// PDFDocument is a PageSource backed by an in-memory PDF.
type PDFDocument struct {
	name string
	data []byte
}

// NewPDFDocument wraps PDF bytes. name identifies the document in errors.
func NewPDFDocument(name string, data []byte) *PDFDocument {
	return &PDFDocument{name: name, data: data}
}

// OpenPDFFile reads a PDF from disk.
func OpenPDFFile(path string) (*PDFDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	return NewPDFDocument(filepath.Base(path), data), nil
}

func (d *PDFDocument) Name() string {
	return d.name
}

// PageTexts extracts plain text page by page. Pages without content yield
// an empty string so page numbers stay aligned.
func (d *PDFDocument) PageTexts() (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("panic while reading PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(d.data), int64(len(d.data)))
	if err != nil {
		return nil, fmt.Errorf("open PDF reader: %w", err)
	}

	n := reader.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract text of page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// PDFExtractor builds one transaction per page of a document.
type PDFExtractor struct {
	Parser PageParser
	Now    func() time.Time
}

// NewPDFExtractor returns an extractor using the label-based page parser.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{Parser: LabelParser{}, Now: time.Now}
}

// Extract parses every page of src. Any page failure aborts the document
// and is returned as a *DocumentError.
func (e *PDFExtractor) Extract(src PageSource) ([]ledger.Transaction, error) {
	pages, err := src.PageTexts()
	if err != nil {
		return nil, &DocumentError{Document: src.Name(), Err: err}
	}

	today := e.Now().Format(ledger.DateLayout)
	txs := make([]ledger.Transaction, 0, len(pages))

	for i, text := range pages {
		fields, err := e.Parser.ParsePage(text)
		if err != nil {
			return nil, &DocumentError{Document: src.Name(), Page: i + 1, Err: err}
		}

		vendor := fields.Vendor
		if vendor == "" {
			vendor = ledger.UnknownVendor
		}
		date := today
		if fields.Date != "" {
			date = ledger.NormalizeDate(fields.Date)
		}

		txs = append(txs, ledger.New(
			PageID(text),
			date,
			vendor,
			fields.Amount,
			fields.GST,
			string(fields.Type),
		))
	}

	slog.Debug("Extracted PDF document", "document", src.Name(), "pages", len(pages))
	return txs, nil
}

// PageID derives a short display id from page text. Identical pages share
// an id and distinct pages may collide; it is an audit aid, not a key.
func PageID(text string) string {
	return fmt.Sprintf("PDF-%d", xxhash.Sum64String(text)%1000000)
}
