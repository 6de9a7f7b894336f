package output

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ikari-pl/go-olap-memberselect/internal/selector"
)

type yamlFormatter struct{}

// NewYAMLFormatter creates a formatter whose output can be pasted into a
// config file as the prior selection.
func NewYAMLFormatter() Formatter {
	return &yamlFormatter{}
}

func (f *yamlFormatter) Format(ctx context.Context, sel selector.Selection, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(sel); err != nil {
		return fmt.Errorf("encoding selection: %w", err)
	}
	return enc.Close()
}

func (f *yamlFormatter) Name() string {
	return "yaml"
}

func (f *yamlFormatter) Description() string {
	return "YAML, usable as the prior selection in a config file"
}
