package migration

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"text/template"
)

var (
	fileNamePattern = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.(up|down)\.sql$`)
	separatorRun    = regexp.MustCompile(`[^a-z0-9]+`)

	scaffold = template.Must(template.New("migration").Parse(
		"-- {{.Version | printf \"%06d\"}} {{.Name}}{{if .Rollback}} (rollback){{end}}\n" +
			"{{with .Description}}-- {{.}}\n{{end}}\n"))
)

// Pair is one versioned migration. Up or Down is empty when that half is
// missing from the directory.
type Pair struct {
	Version uint64
	Name    string
	Up      string
	Down    string
}

// Complete reports whether both halves exist
func (p Pair) Complete() bool {
	return p.Up != "" && p.Down != ""
}

func (p Pair) stem() string {
	return fmt.Sprintf("%06d_%s", p.Version, p.Name)
}

func (p Pair) String() string {
	s := p.stem()
	switch {
	case p.Up == "":
		s += " (up missing)"
	case p.Down == "":
		s += " (down missing)"
	}
	return s
}

// Scan returns the migrations in fsys ordered by version. Files that do not
// follow the NNNNNN_name.(up|down).sql pattern are ignored.
func Scan(fsys fs.FS) ([]Pair, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	byVersion := make(map[uint64]*Pair)
	for _, e := range entries {
		m := fileNamePattern.FindStringSubmatch(e.Name())
		if e.IsDir() || m == nil {
			continue
		}
		version, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			continue
		}
		p, ok := byVersion[version]
		if !ok {
			p = &Pair{Version: version, Name: m[2]}
			byVersion[version] = p
		}
		if m[3] == "up" {
			p.Up = e.Name()
		} else {
			p.Down = e.Name()
		}
	}

	pairs := make([]Pair, 0, len(byVersion))
	for _, p := range byVersion {
		pairs = append(pairs, *p)
	}
	slices.SortFunc(pairs, func(a, b Pair) int {
		return cmp.Compare(a.Version, b.Version)
	})
	return pairs, nil
}

// ScanDir is Scan over a directory on disk. A missing directory has no
// migrations.
func ScanDir(dir string) ([]Pair, error) {
	pairs, err := Scan(os.DirFS(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}
	return pairs, nil
}

// Create writes an empty up/down pair numbered after the highest existing
// version, e.g. 000003_add_reviews.up.sql.
func Create(dir, name, description string) (Pair, error) {
	base := snakeCase(name)
	if base == "" {
		return Pair{}, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Pair{}, fmt.Errorf("create migrations directory: %w", err)
	}
	existing, err := ScanDir(dir)
	if err != nil {
		return Pair{}, err
	}

	p := Pair{Version: 1, Name: base}
	if n := len(existing); n > 0 {
		p.Version = existing[n-1].Version + 1
	}
	p.Up = p.stem() + ".up.sql"
	p.Down = p.stem() + ".down.sql"

	data := struct {
		Pair
		Description string
		Rollback    bool
	}{Pair: p, Description: description}

	if err := writeNew(filepath.Join(dir, p.Up), data); err != nil {
		return Pair{}, err
	}
	data.Rollback = true
	if err := writeNew(filepath.Join(dir, p.Down), data); err != nil {
		_ = os.Remove(filepath.Join(dir, p.Up))
		return Pair{}, err
	}
	return p, nil
}

func writeNew(file string, data any) error {
	f, err := os.OpenFile(file, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if err := scaffold.Execute(f, data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(file), err)
	}
	return f.Close()
}

func snakeCase(name string) string {
	return strings.Trim(separatorRun.ReplaceAllString(strings.ToLower(name), "_"), "_")
}
