package sqlite

import "strings"

// MapType maps a logical column type into a SQLite type affinity.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "INTEGER"
	case "float", "double", "real":
		return "REAL"
	default:
		return "TEXT"
	}
}
