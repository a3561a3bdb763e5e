package stdlib_test

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// TestStdlibOnlyCore checks that the scheduler package and the realtime
// dispatcher import nothing outside the standard library and this module.
func TestStdlibOnlyCore(t *testing.T) {
	const module = "github.com/comalice/fixedloop"

	for _, dir := range []string{"..", "../realtime"} {
		files, err := filepath.Glob(filepath.Join(dir, "*.go"))
		if err != nil {
			t.Fatalf("Failed to list %s: %v", dir, err)
		}
		if len(files) == 0 {
			t.Fatalf("No Go files in %s", dir)
		}

		fset := token.NewFileSet()
		for _, fn := range files {
			if strings.HasSuffix(fn, "_test.go") {
				continue
			}
			f, err := parser.ParseFile(fset, fn, nil, parser.ImportsOnly)
			if err != nil {
				t.Fatalf("Failed to parse %s: %v", fn, err)
			}
			for _, imp := range f.Imports {
				path, _ := strconv.Unquote(imp.Path.Value)
				first, _, _ := strings.Cut(path, "/")
				if strings.Contains(first, ".") && !strings.HasPrefix(path, module) {
					t.Errorf("%s: non-stdlib import %s (core must be stdlib-only)", fn, path)
				}
			}
		}
	}
}
