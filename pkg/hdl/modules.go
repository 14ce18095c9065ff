// Package hdl discovers module declarations in Verilog and SystemVerilog
// sources. It is a helper for callers that pick timing sources by module
// name and is not used by the graph engine itself.
package hdl

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dd0wney/cluso-timing/pkg/timing"
)

// Extensions lists the file suffixes FindModules scans.
var Extensions = []string{".v", ".sv", ".vh", ".svh"}

var (
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComment  = regexp.MustCompile(`//[^\n]*`)

	// module <name> [#(...)] ( or ;
	moduleDecl = regexp.MustCompile(`(?m)^\s*(?:macro)?module\s+([A-Za-z_][A-Za-z0-9_$]*)\s*(?:#\s*\([^()]*\))?\s*[(;]`)
)

// ModuleNames returns the names of the modules declared in src, in
// declaration order. Commented-out declarations are ignored.
func ModuleNames(src string) []string {
	src = blockComment.ReplaceAllString(src, "")
	src = lineComment.ReplaceAllString(src, "")

	var names []string
	for _, m := range moduleDecl.FindAllStringSubmatch(src, -1) {
		names = append(names, m[1])
	}
	return names
}

// FindModules walks root for HDL sources and returns the declared module
// names matching pattern, sorted and without duplicates. pattern matches
// anywhere in the name; anchor it for a full match.
//
// Files are read concurrently. The first read error cancels the scan.
func FindModules(ctx context.Context, root, pattern string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, timing.InvalidArgumentError("FindModules", "pattern", err.Error())
	}

	files, err := sourceFiles(root)
	if err != nil {
		return nil, err
	}

	var (
		mu    sync.Mutex
		found = make(map[string]struct{})
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, path := range files {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			names := ModuleNames(string(data))

			mu.Lock()
			defer mu.Unlock()
			for _, name := range names {
				if re.MatchString(name) {
					found[name] = struct{}{}
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(found))
	for name := range found {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// sourceFiles lists the HDL files under root in walk order. root may also
// be a single file.
func sourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if isHDL(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

func isHDL(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
