package postgres

import "strings"

// MapType normalizes a logical type into a Postgres SQL type.
//
//	"int"/"integer"/"bigint" -> BIGINT
//	"float"/"double"/"real"  -> DOUBLE PRECISION
//	everything else          -> TEXT
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "BIGINT"
	case "float", "double", "real":
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}
