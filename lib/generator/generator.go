// Package generator writes typed instruction accessors for hxbind
// vocabularies.
//
// It looks for Instruction composite literals in a package and renders one
// accessor method per instruction into a sibling *_hx.go file:
//
//	var Instructions = hxbind.MustSchema(
//		hxbind.Instruction{Name: "toggle"},
//		hxbind.Instruction{Name: "toggles", Attribute: "toggle", Multi: true},
//	)
//
// becomes Toggle() (string, bool) and Toggles() []string on the proxy type.
// The proxy type is Proxy unless the declaration carries a
// "//hxbind:proxy TypeName" directive; it must provide Raw, List and Number.
package generator

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Options configures the generator.
type Options struct {
	DryRun bool
	// Log receives progress lines. Defaults to os.Stdout.
	Log io.Writer
}

// Generator generates instruction accessors.
type Generator struct {
	opts Options
	fset *token.FileSet
}

// New creates a new generator.
func New(opts Options) *Generator {
	if opts.Log == nil {
		opts.Log = os.Stdout
	}
	return &Generator{
		opts: opts,
		fset: token.NewFileSet(),
	}
}

// Generate generates code for the given package patterns.
func (g *Generator) Generate(patterns ...string) error {
	packages, err := g.findPackages(patterns)
	if err != nil {
		return err
	}

	for _, pkg := range packages {
		files, err := g.Render(pkg)
		if err != nil {
			return fmt.Errorf("package %s: %w", pkg, err)
		}
		for _, path := range sortedPaths(files) {
			fmt.Fprintf(g.opts.Log, "generating %s\n", path)
			if g.opts.DryRun {
				continue
			}
			if err := os.WriteFile(path, files[path], 0o644); err != nil {
				return err
			}
		}
	}

	return nil
}

// Clean removes generated files for the given package patterns.
func (g *Generator) Clean(patterns ...string) error {
	packages, err := g.findPackages(patterns)
	if err != nil {
		return err
	}

	for _, pkg := range packages {
		if err := g.cleanPackage(pkg); err != nil {
			return fmt.Errorf("package %s: %w", pkg, err)
		}
	}

	return nil
}

// Render returns the generated files of one package directory keyed by
// output path, without writing them.
func (g *Generator) Render(dir string) (map[string][]byte, error) {
	pkgs, err := parser.ParseDir(g.fset, dir, func(info os.FileInfo) bool {
		name := info.Name()
		return !strings.HasSuffix(name, "_test.go") && !strings.HasSuffix(name, "_hx.go")
	}, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]byte)
	for _, name := range sortedPackages(pkgs) {
		for _, set := range g.findSchemas(pkgs[name]) {
			code, err := render(name, set)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", set.SourceFile, err)
			}
			base := strings.TrimSuffix(filepath.Base(set.SourceFile), ".go")
			out[filepath.Join(dir, base+"_hx.go")] = code
		}
	}
	return out, nil
}

// findPackages resolves package patterns to directory paths.
func (g *Generator) findPackages(patterns []string) ([]string, error) {
	var packages []string

	for _, pattern := range patterns {
		if !strings.HasSuffix(pattern, "/...") {
			packages = append(packages, pattern)
			continue
		}
		root := strings.TrimSuffix(pattern, "/...")
		if root == "" {
			root = "."
		}
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			base := filepath.Base(path)
			if path != root && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") || base == "vendor" || base == "testdata") {
				return filepath.SkipDir
			}
			entries, err := os.ReadDir(path)
			if err != nil {
				return nil
			}
			for _, entry := range entries {
				if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".go") && !strings.HasSuffix(entry.Name(), "_test.go") {
					packages = append(packages, path)
					break
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return packages, nil
}

// cleanPackage removes generated files from a package.
func (g *Generator) cleanPackage(pkgPath string) error {
	entries, err := os.ReadDir(pkgPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "_hx.go") {
			continue
		}
		path := filepath.Join(pkgPath, entry.Name())
		fmt.Fprintf(g.opts.Log, "removing %s\n", path)
		if !g.opts.DryRun {
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}

	return nil
}

// SchemaInfo is the set of instructions declared in one source file.
type SchemaInfo struct {
	SourceFile   string
	Receiver     string
	Instructions []InstructionInfo
}

// InstructionInfo describes one Instruction literal.
type InstructionInfo struct {
	Name      string
	Attribute string
	Multi     bool
	Numeric   bool
}

// Method returns the accessor name: "drop-zone" becomes DropZone.
func (i InstructionInfo) Method() string {
	var sb strings.Builder
	upper := true
	for _, r := range i.Name {
		switch {
		case r == '-' || r == '_' || r == '.':
			upper = true
		case upper:
			sb.WriteString(strings.ToUpper(string(r)))
			upper = false
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// findSchemas collects Instruction literals per file in source order.
func (g *Generator) findSchemas(pkg *ast.Package) []*SchemaInfo {
	var sets []*SchemaInfo

	files := make([]string, 0, len(pkg.Files))
	for name := range pkg.Files {
		files = append(files, name)
	}
	sort.Strings(files)

	for _, filename := range files {
		file := pkg.Files[filename]
		set := &SchemaInfo{SourceFile: filename, Receiver: "Proxy"}
		seen := make(map[string]bool)

		for _, decl := range file.Decls {
			genDecl, ok := decl.(*ast.GenDecl)
			if !ok || genDecl.Tok != token.VAR {
				continue
			}
			if recv := proxyDirective(genDecl.Doc); recv != "" {
				set.Receiver = recv
			}
			ast.Inspect(genDecl, func(n ast.Node) bool {
				lit, ok := n.(*ast.CompositeLit)
				if !ok || !isInstructionType(lit.Type) {
					return true
				}
				info, ok := instructionFromLit(lit)
				if ok && !seen[info.Name] {
					seen[info.Name] = true
					set.Instructions = append(set.Instructions, info)
				}
				return false
			})
		}
		if len(set.Instructions) > 0 {
			sets = append(sets, set)
		}
	}

	return sets
}

func proxyDirective(doc *ast.CommentGroup) string {
	if doc == nil {
		return ""
	}
	for _, c := range doc.List {
		if rest, ok := strings.CutPrefix(c.Text, "//hxbind:proxy "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

func isInstructionType(expr ast.Expr) bool {
	switch x := expr.(type) {
	case *ast.Ident:
		return x.Name == "Instruction"
	case *ast.SelectorExpr:
		return x.Sel.Name == "Instruction"
	}
	return false
}

// instructionFromLit reads a keyed Instruction literal. Literals without a
// constant Name are skipped.
func instructionFromLit(lit *ast.CompositeLit) (InstructionInfo, bool) {
	var info InstructionInfo
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			return info, false
		}
		key, ok := kv.Key.(*ast.Ident)
		if !ok {
			continue
		}
		switch key.Name {
		case "Name":
			info.Name, _ = stringLit(kv.Value)
		case "Attribute":
			info.Attribute, _ = stringLit(kv.Value)
		case "Multi":
			info.Multi = boolLit(kv.Value)
		case "Numeric":
			info.Numeric = boolLit(kv.Value)
		}
	}
	if info.Name == "" {
		return info, false
	}
	if info.Attribute == "" {
		info.Attribute = info.Name
	}
	return info, true
}

func stringLit(expr ast.Expr) (string, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	s, err := strconv.Unquote(lit.Value)
	return s, err == nil
}

func boolLit(expr ast.Expr) bool {
	ident, ok := expr.(*ast.Ident)
	return ok && ident.Name == "true"
}

func sortedPackages(pkgs map[string]*ast.Package) []string {
	names := make([]string, 0, len(pkgs))
	for name := range pkgs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedPaths(files map[string][]byte) []string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
