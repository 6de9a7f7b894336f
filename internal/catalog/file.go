package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ikari-pl/go-olap-memberselect/internal/olap"
)

// Document is the YAML layout of a file catalog.
//
//	cubes:
//	  - name: Sales
//	    dimensions:
//	      - name: Geography
//	        hierarchies:
//	          - name: Standard
//	            levels: [Country, State, City]
//	            members:
//	              - name: USA
//	                children:
//	                  - name: CA
type Document struct {
	Cubes []CubeSpec `yaml:"cubes"`
}

// CubeSpec describes one cube.
type CubeSpec struct {
	Name       string          `yaml:"name"`
	Dimensions []DimensionSpec `yaml:"dimensions"`
}

// DimensionSpec describes one dimension.
type DimensionSpec struct {
	Name        string          `yaml:"name"`
	Hierarchies []HierarchySpec `yaml:"hierarchies"`
}

// HierarchySpec describes a hierarchy: its levels, top first, and the
// member tree rooted at the first level.
type HierarchySpec struct {
	Name    string       `yaml:"name"`
	Levels  []string     `yaml:"levels"`
	Members []MemberSpec `yaml:"members"`
}

// MemberSpec is one member and its children on the next level.
type MemberSpec struct {
	Name     string       `yaml:"name"`
	Caption  string       `yaml:"caption,omitempty"`
	Children []MemberSpec `yaml:"children,omitempty"`
}

type memberNode struct {
	row      olap.MemberRow
	children []*memberNode
}

type hierarchyIndex struct {
	coords  olap.Coordinates
	levels  []olap.Level
	byLevel map[string][]*memberNode
	byName  map[string]*memberNode
}

type cubeIndex struct {
	hierarchies []*hierarchyIndex
}

// FileCatalog serves a catalog loaded from a YAML document. It is safe for
// concurrent use.
type FileCatalog struct {
	path   string
	logger *slog.Logger

	mu    sync.RWMutex
	cubes map[string]*cubeIndex
}

// LoadFile reads a YAML catalog from path.
func LoadFile(logger *slog.Logger, path string) (*FileCatalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fc := &FileCatalog{path: path, logger: logger}
	if err := fc.Reload(); err != nil {
		return nil, err
	}
	return fc, nil
}

// NewFileCatalog builds a catalog from an already decoded document.
func NewFileCatalog(logger *slog.Logger, doc *Document) (*FileCatalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cubes, err := buildIndex(doc)
	if err != nil {
		return nil, err
	}
	return &FileCatalog{logger: logger, cubes: cubes}, nil
}

// Decode parses a YAML catalog document.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return &doc, nil
}

// Path returns the file the catalog was loaded from, if any.
func (fc *FileCatalog) Path() string {
	return fc.path
}

// Reload re-reads the catalog file. On error the previous contents stay in
// place.
func (fc *FileCatalog) Reload() error {
	if fc.path == "" {
		return fmt.Errorf("catalog has no backing file")
	}
	f, err := os.Open(fc.path)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return err
	}
	cubes, err := buildIndex(doc)
	if err != nil {
		return err
	}

	fc.mu.Lock()
	fc.cubes = cubes
	fc.mu.Unlock()

	fc.logger.Info("Catalog loaded", "path", fc.path, "cubes", len(cubes))
	return nil
}

// Levels implements Client.
func (fc *FileCatalog) Levels(ctx context.Context, coords olap.Coordinates) ([]olap.Level, error) {
	h, err := fc.hierarchy(coords)
	if err != nil {
		return nil, err
	}
	out := make([]olap.Level, len(h.levels))
	copy(out, h.levels)
	return out, nil
}

// LevelMembers implements Client.
func (fc *FileCatalog) LevelMembers(ctx context.Context, coords olap.Coordinates, level string) ([]olap.MemberRow, error) {
	h, err := fc.hierarchy(coords)
	if err != nil {
		return nil, err
	}
	nodes, ok := h.byLevel[level]
	if !ok {
		return nil, fmt.Errorf("level %q in %s: %w", level, olap.Bracket(coords.Dimension, coords.Hierarchy), ErrNotFound)
	}
	return rowsOf(nodes), nil
}

// ChildMembers implements Client.
func (fc *FileCatalog) ChildMembers(ctx context.Context, cube, uniqueName string) ([]olap.MemberRow, error) {
	fc.mu.RLock()
	c, ok := fc.cubes[cube]
	fc.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("cube %q: %w", cube, ErrNotFound)
	}

	uniqueName = strings.TrimSpace(uniqueName)
	for _, h := range c.hierarchies {
		if node, ok := h.byName[uniqueName]; ok {
			return rowsOf(node.children), nil
		}
	}
	// Names relative to a hierarchy, e.g. "[USA].[CA]".
	for _, h := range c.hierarchies {
		if node, ok := h.byName[olap.Prefix(h.coords.Dimension, h.coords.Hierarchy)+uniqueName]; ok {
			return rowsOf(node.children), nil
		}
	}
	return nil, fmt.Errorf("member %q in cube %q: %w", uniqueName, cube, ErrNotFound)
}

func (fc *FileCatalog) hierarchy(coords olap.Coordinates) (*hierarchyIndex, error) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	c, ok := fc.cubes[coords.Cube]
	if !ok {
		return nil, fmt.Errorf("cube %q: %w", coords.Cube, ErrNotFound)
	}
	for _, h := range c.hierarchies {
		if h.coords.Dimension == coords.Dimension && h.coords.Hierarchy == coords.Hierarchy {
			return h, nil
		}
	}
	return nil, fmt.Errorf("hierarchy %s in cube %q: %w", olap.Bracket(coords.Dimension, coords.Hierarchy), coords.Cube, ErrNotFound)
}

func rowsOf(nodes []*memberNode) []olap.MemberRow {
	rows := make([]olap.MemberRow, len(nodes))
	for i, n := range nodes {
		rows[i] = n.row
	}
	return rows
}

func buildIndex(doc *Document) (map[string]*cubeIndex, error) {
	cubes := make(map[string]*cubeIndex, len(doc.Cubes))
	for _, cs := range doc.Cubes {
		if cs.Name == "" {
			return nil, fmt.Errorf("cube without a name")
		}
		if _, dup := cubes[cs.Name]; dup {
			return nil, fmt.Errorf("duplicate cube %q", cs.Name)
		}
		ci := &cubeIndex{}
		for _, ds := range cs.Dimensions {
			for _, hs := range ds.Hierarchies {
				h, err := indexHierarchy(olap.Coordinates{Cube: cs.Name, Dimension: ds.Name, Hierarchy: hs.Name}, hs)
				if err != nil {
					return nil, fmt.Errorf("cube %q: %w", cs.Name, err)
				}
				ci.hierarchies = append(ci.hierarchies, h)
			}
		}
		cubes[cs.Name] = ci
	}
	return cubes, nil
}

func indexHierarchy(coords olap.Coordinates, hs HierarchySpec) (*hierarchyIndex, error) {
	name := olap.Bracket(coords.Dimension, coords.Hierarchy)
	if len(hs.Levels) == 0 {
		return nil, fmt.Errorf("hierarchy %s has no levels", name)
	}

	h := &hierarchyIndex{
		coords:  coords,
		byLevel: make(map[string][]*memberNode, len(hs.Levels)),
		byName:  make(map[string]*memberNode),
	}
	for _, l := range hs.Levels {
		h.levels = append(h.levels, olap.Level{
			Name:       l,
			UniqueName: olap.Qualify(coords, l),
			Caption:    l,
		})
		h.byLevel[l] = []*memberNode{}
	}

	var walk func(specs []MemberSpec, depth int, path []string) ([]*memberNode, error)
	walk = func(specs []MemberSpec, depth int, path []string) ([]*memberNode, error) {
		if len(specs) == 0 {
			return nil, nil
		}
		if depth >= len(hs.Levels) {
			return nil, fmt.Errorf("hierarchy %s: members nested deeper than its %d levels", name, len(hs.Levels))
		}
		level := hs.Levels[depth]
		nodes := make([]*memberNode, 0, len(specs))
		for _, ms := range specs {
			memberPath := append(append([]string{}, path...), ms.Name)
			unique := olap.Qualify(coords, memberPath...)
			if _, dup := h.byName[unique]; dup {
				return nil, fmt.Errorf("duplicate member %s", unique)
			}
			caption := ms.Caption
			if caption == "" {
				caption = ms.Name
			}
			node := &memberNode{row: olap.MemberRow{
				Name:            ms.Name,
				Caption:         caption,
				UniqueName:      unique,
				LevelUniqueName: olap.Qualify(coords, level),
			}}
			h.byName[unique] = node

			children, err := walk(ms.Children, depth+1, memberPath)
			if err != nil {
				return nil, err
			}
			node.children = children
			nodes = append(nodes, node)
		}
		h.byLevel[level] = append(h.byLevel[level], nodes...)
		return nodes, nil
	}

	if _, err := walk(hs.Members, 0, nil); err != nil {
		return nil, err
	}
	return h, nil
}
