package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"mileage/internal/core"
)

// GoogleSheet reads odometer rows from a private spreadsheet through
// the Sheets API. The first row of the sheet is the header; rows are
// tagged with the sheet name as their source.
type GoogleSheet struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewGoogleSheetFromEnv creates a Sheets-API source using Service
// Account credentials. Required: GOOGLE_SPREADSHEET_ID. Credentials
// come from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func NewGoogleSheetFromEnv(ctx context.Context) (*GoogleSheet, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Mileage"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &GoogleSheet{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

// NewGoogleSheet wraps an existing Sheets service, mainly for tests.
func NewGoogleSheet(svc *gsheet.Service, spreadsheetID, sheetName string) *GoogleSheet {
	return &GoogleSheet{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		// Fall back to Application Default Credentials.
		return gsheet.NewService(ctx, goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	}

	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope),
	)
}

func (s *GoogleSheet) Fetch(ctx context.Context) (core.Dataset, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.sheetName).Context(ctx).Do()
	if err != nil {
		return core.Dataset{}, fmt.Errorf("read sheet %q: %w", s.sheetName, err)
	}
	ds := datasetFromValues(resp.Values)
	if len(ds.Rows) == 0 {
		return core.Dataset{}, ErrNoData
	}
	return tag(ds, ColSourceFile, s.sheetName), nil
}

// datasetFromValues converts a Sheets API values matrix into a Dataset,
// treating the first row as the header.
func datasetFromValues(values [][]interface{}) core.Dataset {
	if len(values) == 0 {
		return core.Dataset{}
	}
	header := toStrings(values[0])
	records := make([][]string, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		records = append(records, toStrings(values[i]))
	}
	return fromTable(header, records)
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = fmt.Sprint(v)
	}
	return out
}
