// Package output writes a committed member selection in the formats the CLI
// offers.
package output

import (
	"context"
	"io"

	"github.com/ikari-pl/go-olap-memberselect/internal/selector"
)

// Formatter provides methods for formatting a selection into an output format.
type Formatter interface {
	// Format formats the given selection and writes it to the writer.
	Format(ctx context.Context, sel selector.Selection, w io.Writer) error

	// Name returns the name of the formatter.
	Name() string

	// Description returns a description of the output format.
	Description() string
}

// Manager manages multiple output formatters.
type Manager interface {
	// RegisterFormatter registers a new formatter.
	RegisterFormatter(formatter Formatter)

	// GetFormatter returns a formatter by name.
	GetFormatter(name string) (Formatter, error)

	// ListFormatters returns all available formatter names.
	ListFormatters() []string

	// Format formats the selection using the specified formatter.
	Format(ctx context.Context, formatName string, sel selector.Selection, w io.Writer) error
}
