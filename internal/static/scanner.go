package static

import (
	"context"
	"errors"
	"fmt"
	"go/types"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/alexshd/immutability"
)

// ErrNoPackages is returned when the patterns match no packages.
var ErrNoPackages = errors.New("no packages matched")

// Options controls a scan.
type Options struct {
	Dir      string         // working directory for package loading
	Patterns []string       // package patterns, default "./..."
	Only     *regexp.Regexp // keep findings whose qualified name matches
}

// Finding is the static classification of one named type.
type Finding struct {
	Package  string                      `yaml:"package" json:"package"`
	Type     string                      `yaml:"type" json:"type"`
	Position string                      `yaml:"position" json:"position"`
	Product  bool                        `yaml:"product" json:"product"`
	Value    immutability.Classification `yaml:"value" json:"value"`
	Pointer  immutability.Classification `yaml:"pointer" json:"pointer"`
}

// Name returns the qualified type name used for overrides.
func (f Finding) Name() string {
	return f.Package + "." + f.Type
}

// Scan loads the packages matched by opts and classifies every
// non-generic named type they declare, in both value and pointer form.
func (c *Classifier) Scan(ctx context.Context, opts Options) ([]Finding, error) {
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedSyntax |
			packages.NeedTypes |
			packages.NeedTypesInfo |
			packages.NeedImports,
		Dir:     opts.Dir,
		Context: ctx,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("static: load %s: %w", strings.Join(patterns, " "), err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("static: %s: %w", strings.Join(patterns, " "), ErrNoPackages)
	}

	var (
		findings []Finding
		errs     []error
	)
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, fmt.Errorf("%s: %s", pkg.PkgPath, e.Msg))
		}
		if pkg.Types == nil {
			continue
		}
		c.log.Debug("scanning package", "package", pkg.PkgPath)
		findings = append(findings, c.scanPackage(pkg, opts)...)
	}
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Package != findings[j].Package {
			return findings[i].Package < findings[j].Package
		}
		return findings[i].Type < findings[j].Type
	})
	if len(errs) > 0 {
		return findings, fmt.Errorf("static: %d package error(s): %w", len(errs), errors.Join(errs...))
	}
	return findings, nil
}

func (c *Classifier) scanPackage(pkg *packages.Package, opts Options) []Finding {
	var out []Finding
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn.IsAlias() {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok || named.TypeParams().Len() > 0 {
			continue
		}

		f := Finding{
			Package: pkg.PkgPath,
			Type:    tn.Name(),
			Product: IsProduct(named),
			Value:   c.Classify(named),
			Pointer: immutability.Unverified,
		}
		if !types.IsInterface(named) {
			f.Pointer = c.Classify(types.NewPointer(named))
		}
		if opts.Only != nil && !opts.Only.MatchString(f.Name()) {
			continue
		}
		if pos := pkg.Fset.Position(tn.Pos()); pos.IsValid() {
			f.Position = fmt.Sprintf("%s:%d", relative(opts.Dir, pos.Filename), pos.Line)
		}
		out = append(out, f)
	}
	return out
}

// Summary counts findings by value classification.
func Summary(findings []Finding) map[immutability.Classification]int {
	out := make(map[immutability.Classification]int, 4)
	for _, f := range findings {
		out[f.Value]++
	}
	return out
}

// Below returns the findings whose value classification is weaker than min.
func Below(findings []Finding, min immutability.Classification) []Finding {
	var out []Finding
	for _, f := range findings {
		if !f.Value.AtLeast(min) {
			out = append(out, f)
		}
	}
	return out
}

func relative(dir, file string) string {
	if dir == "" {
		return file
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return file
	}
	if rel, err := filepath.Rel(abs, file); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return file
}
