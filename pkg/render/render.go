// Package render turns report text into a paginated PDF artifact.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/shunichi-ikebuchi/audit-reporter/pkg/artifact"
	"github.com/shunichi-ikebuchi/audit-reporter/pkg/ledger"
	"github.com/shunichi-ikebuchi/audit-reporter/pkg/pathutil"
)

// Renderer turns report text into PDF bytes through a Paginator.
type Renderer struct {
	Paginator Paginator
	// TempDir receives artifacts from RenderArtifact. Empty means the
	// system temp directory.
	TempDir string
}

func NewRenderer() *Renderer {
	return &Renderer{Paginator: NewFPDFPaginator()}
}

// RenderDocument renders report text with the default fpdf paginator.
func RenderDocument(reportText, business string, start, end time.Time) ([]byte, error) {
	return NewRenderer().Render(reportText, business, start, end)
}

// Render sanitizes and parses reportText, then paginates it under a title
// built from business. The report preamble becomes the subtitle; without
// one the window is used.
func (r *Renderer) Render(reportText, business string, start, end time.Time) ([]byte, error) {
	doc := Parse(Sanitize(reportText))

	title := Sanitize(business + " - Audit Report")
	subtitle := strings.Join(doc.Preamble, " ")
	if subtitle == "" {
		subtitle = fmt.Sprintf("Period: %s to %s",
			start.Format(ledger.DateLayout), end.Format(ledger.DateLayout))
	}

	data, err := r.Paginator.Paginate(title, subtitle, doc.Sections)
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return data, nil
}

// RenderArtifact renders into a fresh temporary artifact named after the
// business and window. The caller must Serve or Remove it.
func (r *Renderer) RenderArtifact(reportText, business string, start, end time.Time) (*artifact.Artifact, error) {
	data, err := r.Render(reportText, business, start, end)
	if err != nil {
		return nil, err
	}
	return artifact.Create(r.TempDir, pathutil.ArtifactName(business, start, end), data)
}
