package annotation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dd0wney/cluso-timing/pkg/timing"
)

// LoadFile parses an annotation file, choosing the format by extension:
// .yaml and .yml are YAML declaration documents, anything else is the text
// format.
func LoadFile(path string) (*Document, error) {
	return loadFile(path, "")
}

func loadFile(path string, sel timing.DelaySelector) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var doc *Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc, err = ParseYAMLWithSelector(f, sel)
	default:
		doc, err = ParseText(path, f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// BuildFile loads path and builds a frozen graph from it.
func BuildFile(path string, opts BuildOptions) (*timing.Graph, error) {
	doc, err := loadFile(path, opts.DelaySelector)
	if err != nil {
		return nil, err
	}
	g, err := Build(doc, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
