package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/skverma/milknet/internal/config"
	"github.com/skverma/milknet/internal/domain/models"
)

// Exporter mirrors daily snapshots into an external spreadsheet.
type Exporter interface {
	AppendSnapshot(ctx context.Context, snapshot models.DailySnapshot) error
}

// snapshotRange is the sheet tab the rollup rows land on.
const snapshotRange = "Snapshots!A:J"

// GoogleSheetExporter implements Exporter using the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Exporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendSnapshot writes one spreadsheet row per milk-type total of the
// snapshot.
func (e *GoogleSheetExporter) AppendSnapshot(ctx context.Context, snapshot models.DailySnapshot) error {
	rows := make([][]interface{}, 0, len(snapshot.Totals))
	for _, t := range snapshot.Totals {
		rows = append(rows, []interface{}{
			snapshot.Date,
			snapshot.DeviceID,
			t.MilkType,
			t.TotalQuantity,
			t.AverageFat,
			t.AverageSNF,
			t.AverageRate,
			t.TotalAmount,
			t.TotalIncentive,
			t.GrandTotal,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	payload := &sheetsapi.ValueRange{Values: rows}
	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, snapshotRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append snapshot for device %s on %s: %w", snapshot.DeviceID, snapshot.Date, err)
	}

	e.logger.Debug("snapshot appended to sheet",
		zap.String("deviceid", snapshot.DeviceID),
		zap.String("date", snapshot.Date),
		zap.Int("rows", len(rows)))
	return nil
}
