package output

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ikari-pl/go-olap-memberselect/internal/olap"
	"github.com/ikari-pl/go-olap-memberselect/internal/selector"
)

// CrumbSeparator joins breadcrumbs in the text format.
const CrumbSeparator = " > "

// textFormatter prints the unique name on the first line so scripts can
// read it with a single `head -1`.
type textFormatter struct{}

// NewTextFormatter creates a plain text formatter.
func NewTextFormatter() Formatter {
	return &textFormatter{}
}

func (f *textFormatter) Format(ctx context.Context, sel selector.Selection, w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteString(sel.UniqueName)
	buf.WriteString("\n")
	if len(sel.Breadcrumbs) > 0 {
		buf.WriteString(strings.Join(sel.Breadcrumbs, CrumbSeparator))
		buf.WriteString("\n")
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func (f *textFormatter) Name() string {
	return "text"
}

func (f *textFormatter) Description() string {
	return "Unique name followed by the breadcrumb trail"
}

// markdownFormatter renders the selection as a short Markdown document.
type markdownFormatter struct{}

// NewMarkdownFormatter creates a Markdown formatter.
func NewMarkdownFormatter() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(ctx context.Context, sel selector.Selection, w io.Writer) error {
	var buf bytes.Buffer

	buf.WriteString("# Member Selection\n\n")
	buf.WriteString(fmt.Sprintf("- **Unique name:** `%s`\n", sel.UniqueName))
	if member := olap.LastSegment(sel.UniqueName); member != "" {
		buf.WriteString(fmt.Sprintf("- **Member:** %s\n", escapeCell(member)))
	}
	buf.WriteString("\n")

	if len(sel.Breadcrumbs) == 0 {
		_, err := w.Write(buf.Bytes())
		return err
	}

	buf.WriteString("## Breadcrumbs\n\n")
	buf.WriteString("| # | Entry | Kind |\n")
	buf.WriteString("|---|-------|------|\n")
	for i, crumb := range sel.Breadcrumbs {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s |\n", i, escapeCell(crumb), crumbKind(i)))
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func (f *markdownFormatter) Name() string {
	return "markdown"
}

func (f *markdownFormatter) Description() string {
	return "Markdown summary with a breadcrumb table"
}

func crumbKind(i int) string {
	switch i {
	case 0:
		return "dimension"
	case 1:
		return "hierarchy"
	default:
		return "level"
	}
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
