package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ColumnDef describes one destination column. Type is a logical type
// ("text", "float", "int"); backends map it to their SQL types.
type ColumnDef struct {
	Name     string
	Type     string
	Nullable bool
}

// TableDef is a backend-neutral table definition. FQN may be
// schema-qualified ("public.final_output").
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// ColumnNames returns the column names in order.
func (t TableDef) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// DDLBuilder renders a CREATE TABLE IF NOT EXISTS statement for one backend.
type DDLBuilder func(t TableDef) (string, error)

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBuilder{}
)

// RegisterDDL registers (or replaces) the DDL builder for kind. It is
// typically called from backend packages' init functions.
func RegisterDDL(kind string, fn DDLBuilder) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// BuildDDL renders the CREATE statement for t with the builder registered for
// kind.
func BuildDDL(kind string, t TableDef) (string, error) {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return "", fmt.Errorf("no DDL builder registered for storage.kind=%q", kind)
	}
	if strings.TrimSpace(t.FQN) == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}
	return fn(t)
}

// EnsureTable creates t through repo when it does not exist yet.
func EnsureTable(ctx context.Context, kind string, repo Repository, t TableDef) error {
	sql, err := BuildDDL(kind, t)
	if err != nil {
		return err
	}
	if err := repo.Exec(ctx, sql); err != nil {
		return fmt.Errorf("apply DDL for %s: %w", t.FQN, err)
	}
	return nil
}

// QuoteIdent double-quotes one identifier segment.
func QuoteIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// QuoteFQN quotes each dot-separated segment of name.
func QuoteFQN(name string) string {
	parts := strings.Split(name, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, QuoteIdent(p))
		}
	}
	return strings.Join(out, ".")
}

// CreateTableSQL renders the common CREATE TABLE IF NOT EXISTS form used by
// the built-in backends; mapType converts logical types.
func CreateTableSQL(t TableDef, mapType func(string) string) (string, error) {
	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", t.FQN)
		}
		col := QuoteIdent(name) + " " + mapType(c.Type)
		if !c.Nullable {
			col += " NOT NULL"
		}
		cols = append(cols, col)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		QuoteFQN(t.FQN), strings.Join(cols, ",\n  ")), nil
}
