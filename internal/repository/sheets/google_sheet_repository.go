package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/mycofarm/internal/config"
	"github.com/mamadbah2/mycofarm/internal/domain/models"
)

const snapshotRange = "Snapshots!A:J"
const dateLayout = "2006-01-02"

// Repository mirrors daily financial snapshots to a shared spreadsheet so
// the operations team can read them without touching the database.
type Repository interface {
	AppendSnapshot(ctx context.Context, snapshot models.DailySnapshot) error
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendSnapshot appends one snapshot as a spreadsheet row.
func (r *GoogleSheetRepository) AppendSnapshot(ctx context.Context, snapshot models.DailySnapshot) error {
	values := []interface{}{
		snapshot.Date.Format(dateLayout),
		snapshot.Site,
		snapshot.Revenue,
		snapshot.OtherIncome,
		snapshot.COGS,
		snapshot.OpEx,
		snapshot.GrossProfit,
		snapshot.NetProfit,
		snapshot.Receivables,
		snapshot.Payables,
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, snapshotRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append snapshot row into range %s: %w", snapshotRange, err)
	}

	r.logger.Debug("snapshot appended to sheet", zap.String("site", snapshot.Site))
	return nil
}
