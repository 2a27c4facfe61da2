package persistence

import "strings"

// sortColumns whitelists the columns a listing can be ordered by. Anything
// else falls back to the listing's default order, so request input never
// reaches the ORDER BY clause verbatim.
type sortColumns struct {
	allowed    map[string]struct{}
	defaultCol string
	defaultDir string
}

func newSortColumns(defaultCol, defaultDir string, cols ...string) sortColumns {
	allowed := make(map[string]struct{}, len(cols)+1)
	allowed[defaultCol] = struct{}{}
	for _, c := range cols {
		allowed[c] = struct{}{}
	}
	return sortColumns{allowed: allowed, defaultCol: defaultCol, defaultDir: defaultDir}
}

var (
	productSort  = newSortColumns("created_at", "DESC", "updated_at", "name", "min_price", "max_price")
	categorySort = newSortColumns("name", "ASC", "slug", "created_at", "updated_at")
	tagSort      = newSortColumns("name", "ASC", "slug", "created_at", "updated_at")
	postSort     = newSortColumns("created_at", "DESC", "updated_at", "title")
)

// clause returns a "column DIR" order expression for gorm
func (s sortColumns) clause(col, dir string) string {
	return s.column(col) + " " + s.direction(dir)
}

func (s sortColumns) column(col string) string {
	col = strings.TrimSpace(col)
	if _, ok := s.allowed[col]; ok {
		return col
	}
	return s.defaultCol
}

func (s sortColumns) direction(dir string) string {
	switch strings.ToUpper(strings.TrimSpace(dir)) {
	case "ASC":
		return "ASC"
	case "DESC":
		return "DESC"
	}
	return s.defaultDir
}
