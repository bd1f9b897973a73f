// Package repository is the typed row layer over the tabular store. All
// reads pull whole tables; all targeted mutations are read-modify-overwrite
// of the whole table, which is the only update primitive the store offers.
package repository

import (
	"context"
	"strconv"
	"strings"
	"time"

	"formbae/coach-app/internal/sheets"
)

// Tables exposes typed access to every sheet-backed table.
type Tables struct {
	store sheets.Store
}

func NewTables(store sheets.Store) *Tables {
	return &Tables{store: store}
}

// EnsureHeaders writes the header row for every table that is still empty.
// Used by the seed operation and safe to call repeatedly.
func (t *Tables) EnsureHeaders(ctx context.Context) error {
	for _, table := range AllTables {
		rows, err := t.store.ReadTable(ctx, table)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			if err := t.store.AppendRows(ctx, table, [][]string{Headers[table]}); err != nil {
				return err
			}
		}
	}
	return nil
}

// readBody returns the body rows of a table, each padded to header width.
// An entirely empty table gets its header row written on first read.
func (t *Tables) readBody(ctx context.Context, table string) ([][]string, error) {
	rows, err := t.store.ReadTable(ctx, table)
	if err != nil {
		return nil, err
	}
	headers := Headers[table]
	if len(rows) == 0 {
		if err := t.store.AppendRows(ctx, table, [][]string{headers}); err != nil {
			return nil, err
		}
		return nil, nil
	}
	body := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		body = append(body, padRow(row, len(headers)))
	}
	return body, nil
}

// overwriteBody replaces a whole table with header + body.
func (t *Tables) overwriteBody(ctx context.Context, table string, body [][]string) error {
	rows := make([][]string, 0, len(body)+1)
	rows = append(rows, Headers[table])
	rows = append(rows, body...)
	return t.store.OverwriteTable(ctx, table, rows)
}

func (t *Tables) append(ctx context.Context, table string, rows ...[]string) error {
	if len(rows) == 0 {
		return nil
	}
	// Make sure the header exists before the first data row lands.
	existing, err := t.store.ReadTable(ctx, table)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		rows = append([][]string{Headers[table]}, rows...)
	}
	return t.store.AppendRows(ctx, table, rows)
}

// upsertByKey replaces the row whose key column matches, or appends.
func (t *Tables) upsertByKey(ctx context.Context, table string, keyIdx int, values []string) error {
	body, err := t.readBody(ctx, table)
	if err != nil {
		return err
	}
	key := strings.TrimSpace(values[keyIdx])
	for i, row := range body {
		if strings.TrimSpace(row[keyIdx]) == key {
			body[i] = values
			return t.overwriteBody(ctx, table, body)
		}
	}
	body = append(body, values)
	return t.overwriteBody(ctx, table, body)
}

func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row[:width]
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}

// --- cell coercion helpers ---
// Form-encoded and sheet-sourced values arrive as strings; they are coerced
// here once, not scattered through each operation.

func cellInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func cellFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func cellBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "on", "yes":
		return true
	}
	return false
}

func cellTime(s string) time.Time {
	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return ts
}

func fmtInt(n int) string {
	return strconv.Itoa(n)
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func fmtBool(b bool) string {
	return strconv.FormatBool(b)
}

func fmtTime(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}
