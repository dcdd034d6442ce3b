// Package all wires the built-in storage backends into the storage factory.
//
// Importing it (as a blank import) runs the init functions of each backend,
// which register their factories and DDL builders:
//
//   - "mssql"    (rosterclean/internal/storage/mssql)
//   - "postgres" (rosterclean/internal/storage/postgres)
//   - "sqlite"   (rosterclean/internal/storage/sqlite)
//
// A binary that needs only one backend can import that package directly
// instead.
package all

import (
	_ "rosterclean/internal/storage/mssql"
	_ "rosterclean/internal/storage/postgres"
	_ "rosterclean/internal/storage/sqlite"
)
