package repositories

import "database/sql"

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repository methods that must join the caller's transaction take it as
// their first argument, so a whole checkout can run atomically.
type Querier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}
