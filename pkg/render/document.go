package render

import "strings"

// LineKind tells the paginator how to emphasize a body line.
type LineKind int

const (
	Paragraph LineKind = iota
	Bullet
	Subheading
)

// Line is one non-blank body line of a section.
type Line struct {
	Kind LineKind
	Text string
}

// Section is one "## " block of the report text.
type Section struct {
	Heading string
	Lines   []Line
}

// Document is the parsed structure of report text. Preamble holds the
// non-blank lines between the title and the first section.
type Document struct {
	Title    string
	Preamble []string
	Sections []Section
}

// Parse splits report text on its heading convention. Blank lines are
// dropped and inline emphasis markers are removed.
func Parse(text string) Document {
	var doc Document
	var current *Section

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "### "):
			if current == nil {
				doc.Preamble = append(doc.Preamble, plain(line[4:]))
				continue
			}
			current.Lines = append(current.Lines, Line{Kind: Subheading, Text: plain(line[4:])})
		case strings.HasPrefix(line, "## "):
			doc.Sections = append(doc.Sections, Section{Heading: plain(line[3:])})
			current = &doc.Sections[len(doc.Sections)-1]
		case strings.HasPrefix(line, "# ") && doc.Title == "" && current == nil:
			doc.Title = plain(line[2:])
		case current == nil:
			doc.Preamble = append(doc.Preamble, plain(line))
		case strings.HasPrefix(line, "- "):
			current.Lines = append(current.Lines, Line{Kind: Bullet, Text: plain(line[2:])})
		default:
			current.Lines = append(current.Lines, Line{Kind: Paragraph, Text: plain(line)})
		}
	}
	return doc
}

func plain(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	if len(s) > 1 && strings.HasPrefix(s, "*") && strings.HasSuffix(s, "*") {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}
