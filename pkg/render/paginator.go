package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Paginator lays out a title, a subtitle and ordered sections as a
// paginated document. Text arrives already sanitized.
type Paginator interface {
	Paginate(title, subtitle string, sections []Section) ([]byte, error)
}

// FPDFPaginator renders A4 pages with the core Arial font.
type FPDFPaginator struct {
	Font string
	Now  func() time.Time
}

func NewFPDFPaginator() *FPDFPaginator {
	return &FPDFPaginator{Font: "Arial", Now: time.Now}
}

func (p *FPDFPaginator) Paginate(title, subtitle string, sections []Section) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	if p.Now != nil {
		pdf.SetCreationDate(p.Now())
	}
	pdf.SetTitle(title, false)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont(p.Font, "B", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
	pdf.SetFont(p.Font, "", 12)
	pdf.CellFormat(0, 10, tr(subtitle), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	for _, s := range sections {
		pdf.SetFont(p.Font, "B", 14)
		pdf.CellFormat(0, 10, tr(s.Heading), "", 1, "L", false, 0, "")

		for _, l := range s.Lines {
			switch l.Kind {
			case Subheading:
				pdf.SetFont(p.Font, "B", 12)
				pdf.MultiCell(0, 8, tr(l.Text), "", "L", false)
			case Bullet:
				pdf.SetFont(p.Font, "", 12)
				pdf.MultiCell(0, 8, tr("- "+l.Text), "", "L", false)
			default:
				pdf.SetFont(p.Font, "", 12)
				pdf.MultiCell(0, 8, tr(l.Text), "", "L", false)
			}
		}
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
