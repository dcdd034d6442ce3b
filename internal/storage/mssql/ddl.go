package mssql

import (
	"fmt"
	"strings"

	"rosterclean/internal/storage"
)

// MapType maps a logical column type into a SQL Server column type. Unknown
// kinds fall back to NVARCHAR(MAX).
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "BIGINT"
	case "float", "double", "real":
		return "FLOAT"
	default:
		return "NVARCHAR(MAX)"
	}
}

// BuildCreateTableSQL returns a T-SQL script that creates t if it does not
// already exist. T-SQL has no CREATE TABLE IF NOT EXISTS, so the statement is
// wrapped in an IF OBJECT_ID(...) IS NULL guard:
//
//	IF OBJECT_ID(N'[dbo].[final_output]', N'U') IS NULL
//	BEGIN
//	  CREATE TABLE [dbo].[final_output] (
//	    [run_id] NVARCHAR(MAX) NOT NULL,
//	    ...
//	  );
//	END;
func BuildCreateTableSQL(t storage.TableDef) (string, error) {
	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("mssql ddl: column with empty name in table %s", t.FQN)
		}
		col := quoteIdent(name) + " " + MapType(c.Type)
		if !c.Nullable {
			col += " NOT NULL"
		}
		cols = append(cols, col)
	}
	fqn := quoteFQN(t.FQN)
	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n  CREATE TABLE %s (\n    %s\n  );\nEND;",
		strings.ReplaceAll(fqn, "'", "''"),
		fqn,
		strings.Join(cols, ",\n    "),
	), nil
}

// quoteIdent quotes a single identifier segment with brackets, escaping ].
func quoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

// quoteFQN quotes a possibly schema-qualified table name:
//
//	"dbo.final_output" -> [dbo].[final_output]
func quoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, quoteIdent(p))
		}
	}
	return strings.Join(out, ".")
}
