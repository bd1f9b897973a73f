// Package sheets abstracts the spreadsheet-backed tabular store. Tables are
// ordered rows of string cells with a header row; identity is an
// application-level ID column. The store offers no transactions: every
// multi-row mutation upstream is read-table / compute / overwrite-table, so
// two concurrent writers to the same table are a last-write-wins race. That
// is a documented limitation of the store, not something the drivers hide.
package sheets

import "context"

// Store is the contract every driver implements.
type Store interface {
	// ReadTable returns all rows of a table including the header row.
	// Missing or empty tables come back as an empty slice, not an error.
	ReadTable(ctx context.Context, table string) ([][]string, error)

	// AppendRows adds rows after the current last row of the table.
	AppendRows(ctx context.Context, table string, rows [][]string) error

	// OverwriteTable replaces the whole table with the given rows
	// (header included). The overwrite is applied atomically at the
	// store boundary.
	OverwriteTable(ctx context.Context, table string, rows [][]string) error
}

// StoreError distinguishes store-level failures.
type StoreError string

func (e StoreError) Error() string { return string(e) }

var (
	ErrReadFailed  = StoreError("table read failed")
	ErrWriteFailed = StoreError("table write failed")
)
