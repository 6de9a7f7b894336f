package output

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/ikari-pl/go-olap-memberselect/internal/selector"
)

// manager implements the Manager interface.
type manager struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
}

// NewManager creates a Manager with the json, yaml, text and markdown
// formatters registered.
func NewManager() Manager {
	m := &manager{formatters: make(map[string]Formatter)}
	m.RegisterFormatter(NewJSONFormatter())
	m.RegisterFormatter(NewYAMLFormatter())
	m.RegisterFormatter(NewTextFormatter())
	m.RegisterFormatter(NewMarkdownFormatter())
	return m
}

// RegisterFormatter registers a formatter, replacing one with the same name.
func (m *manager) RegisterFormatter(formatter Formatter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.formatters[formatter.Name()] = formatter
}

// GetFormatter returns a formatter by name. Names are case-insensitive.
func (m *manager) GetFormatter(name string) (Formatter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.formatters[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %s)", name, strings.Join(m.names(), ", "))
	}
	return f, nil
}

// ListFormatters returns the registered formatter names in sorted order.
func (m *manager) ListFormatters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.names()
}

func (m *manager) names() []string {
	names := make([]string, 0, len(m.formatters))
	for name := range m.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Format formats the selection using the named formatter.
func (m *manager) Format(ctx context.Context, formatName string, sel selector.Selection, w io.Writer) error {
	f, err := m.GetFormatter(formatName)
	if err != nil {
		return err
	}
	if err := f.Format(ctx, sel, w); err != nil {
		return fmt.Errorf("formatting %s output: %w", f.Name(), err)
	}
	return nil
}
