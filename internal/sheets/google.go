package sheets

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Retry ceiling for transient Sheets API failures (429 / 5xx).
const (
	maxRetries     = 5
	retryBaseDelay = 400 * time.Millisecond
)

// GoogleStore drives a single Google spreadsheet. Each logical table is one
// tab addressed as "<name>!A:ZZ".
type GoogleStore struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// NewGoogleStore builds a store over a spreadsheet using a service-account
// credentials file.
func NewGoogleStore(ctx context.Context, spreadsheetID, credentialsFile string) (*GoogleStore, error) {
	if spreadsheetID == "" {
		return nil, errors.New("spreadsheet ID is required")
	}
	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	return &GoogleStore{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (s *GoogleStore) ReadTable(ctx context.Context, table string) ([][]string, error) {
	var resp *sheetsapi.ValueRange
	err := withRetry(ctx, func() error {
		var err error
		resp, err = s.svc.Spreadsheets.Values.Get(s.spreadsheetID, tableRange(table)).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadFailed, table, err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return dropGhostRows(rows), nil
}

func (s *GoogleStore) AppendRows(ctx context.Context, table string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	body := &sheetsapi.ValueRange{Values: toValues(rows)}
	err := withRetry(ctx, func() error {
		_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, tableRange(table), body).
			ValueInputOption("RAW").Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: append %s: %v", ErrWriteFailed, table, err)
	}
	return nil
}

func (s *GoogleStore) OverwriteTable(ctx context.Context, table string, rows [][]string) error {
	err := withRetry(ctx, func() error {
		_, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, tableRange(table), &sheetsapi.ClearValuesRequest{}).
			Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: clear %s: %v", ErrWriteFailed, table, err)
	}
	if len(rows) == 0 {
		return nil
	}
	body := &sheetsapi.ValueRange{Values: toValues(rows)}
	err = withRetry(ctx, func() error {
		_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, table+"!A1", body).
			ValueInputOption("RAW").Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", ErrWriteFailed, table, err)
	}
	return nil
}

func tableRange(table string) string {
	return table + "!A:ZZ"
}

func toValues(rows [][]string) [][]interface{} {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}
	return values
}

// dropGhostRows strips blank rows and accidental duplicate header rows that
// manual sheet edits tend to leave behind.
func dropGhostRows(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return rows
	}
	header := rows[0]
	headerFirst := strings.TrimSpace(cellAt(header, 0))
	kept := [][]string{header}
	for _, row := range rows[1:] {
		first := strings.TrimSpace(cellAt(row, 0))
		if first == "" {
			continue
		}
		if headerFirst != "" && first == headerFirst {
			continue
		}
		if rowEqualsHeader(row, header) {
			continue
		}
		kept = append(kept, row)
	}
	return kept
}

func rowEqualsHeader(row, header []string) bool {
	for i := range header {
		if strings.TrimSpace(cellAt(row, i)) != strings.TrimSpace(header[i]) {
			return false
		}
	}
	return true
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// withRetry retries transient API failures with exponential backoff plus
// jitter, bounded by maxRetries.
func withRetry(ctx context.Context, fn func() error) error {
	var attempt int
	for {
		err := fn()
		if err == nil {
			return nil
		}
		if !retryable(err) || attempt >= maxRetries {
			return err
		}
		delay := retryBaseDelay<<attempt + time.Duration(rand.Intn(200))*time.Millisecond
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		attempt++
	}
}

func retryable(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}
	return false
}
