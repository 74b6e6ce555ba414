// Package pathutil provides centralized path management for report outputs.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultOutputDir is used when no output directory is configured.
const DefaultOutputDir = "reports"

// PathResolver manages paths for rendered reports and their text companions.
type PathResolver struct {
	outputDir string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// OutputDir is the directory receiving delivered reports (e.g., ./reports)
	OutputDir string
}

// New creates a new PathResolver with the given configuration.
// If OutputDir is empty, it defaults to ./reports
func New(config Config) *PathResolver {
	outputDir := config.OutputDir
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}

	return &PathResolver{outputDir: outputDir}
}

// GetOutputDir returns the output directory.
func (p *PathResolver) GetOutputDir() string {
	return p.outputDir
}

// ArtifactName returns the report file name for a business and window.
// Example: Acme_Audit_Report_2024-01-01_to_2024-01-31.pdf
func ArtifactName(business string, start, end time.Time) string {
	return baseName(business, start, end) + ".pdf"
}

// GetArtifactPath returns the path of the rendered report inside the output
// directory.
func (p *PathResolver) GetArtifactPath(business string, start, end time.Time) string {
	return filepath.Join(p.outputDir, ArtifactName(business, start, end))
}

// GetMarkdownPath returns the path of the report text written next to the
// rendered report.
func (p *PathResolver) GetMarkdownPath(business string, start, end time.Time) string {
	return filepath.Join(p.outputDir, baseName(business, start, end)+".md")
}

func baseName(business string, start, end time.Time) string {
	return fmt.Sprintf("%s_Audit_Report_%s_to_%s",
		safeName(business), start.Format("2006-01-02"), end.Format("2006-01-02"))
}

// safeName keeps the business name readable while preventing it from
// escaping the output directory.
func safeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "Report"
	}
	return name
}

// EnsureDir creates a directory if it doesn't exist.
// It creates all parent directories as needed (like mkdir -p).
func (p *PathResolver) EnsureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// EnsureParentDir ensures the parent directory of a file exists.
func (p *PathResolver) EnsureParentDir(filePath string) error {
	dir := filepath.Dir(filePath)
	return p.EnsureDir(dir)
}
