package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/capra/internal/config"
	"github.com/mamadbah2/capra/internal/domain/models"
)

const (
	// ReportRange holds one row per report day, date first.
	ReportRange = "Reports!A:J"
	dayLayout   = "2006-01-02"
)

// ReportHeader is written above the first exported report.
var ReportHeader = []interface{}{
	"Date", "Herd", "Pregnant", "Kids", "Income", "Expenses", "Net", "Health spend", "Treatments (30d)", "Low stock",
}

// Repository exports farm reports to a spreadsheet.
type Repository interface {
	// AppendReport adds the report's row unless its day is already exported and
	// reports whether a row was written.
	AppendReport(ctx context.Context, report models.FarmReport) (bool, error)
}

// ReportSheet is the Google Sheets backed Repository.
type ReportSheet struct {
	values        *sheetsapi.SpreadsheetsValuesService
	spreadsheetID string
	logger        *zap.Logger
}

var _ Repository = (*ReportSheet)(nil)

// NewReportSheet connects to the spreadsheet of cfg. Without opts the
// service-account credentials file of cfg is used.
func NewReportSheet(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) (*ReportSheet, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if len(opts) == 0 {
		opts = []option.ClientOption{
			option.WithCredentialsFile(cfg.CredentialsPath),
			option.WithScopes(sheetsapi.SpreadsheetsScope),
		}
	}

	service, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init sheets client: %w", err)
	}

	return &ReportSheet{
		values:        service.Spreadsheets.Values,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendReport writes the header on an empty sheet, then the report row.
func (r *ReportSheet) AppendReport(ctx context.Context, report models.FarmReport) (bool, error) {
	day := report.Date.Format(dayLayout)

	resp, err := r.values.Get(r.spreadsheetID, ReportRange).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("read %s: %w", ReportRange, err)
	}

	rows := [][]interface{}{}
	if len(resp.Values) == 0 {
		rows = append(rows, ReportHeader)
	}
	for _, row := range resp.Values {
		if len(row) > 0 && fmt.Sprint(row[0]) == day {
			r.logger.Debug("report row already exported", zap.String("date", day))
			return false, nil
		}
	}
	rows = append(rows, reportRow(day, report))

	_, err = r.values.Append(r.spreadsheetID, ReportRange, &sheetsapi.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return false, fmt.Errorf("append report %s: %w", day, err)
	}

	r.logger.Info("report exported to sheet", zap.String("date", day), zap.Int("rows", len(rows)))
	return true, nil
}

func reportRow(day string, report models.FarmReport) []interface{} {
	return []interface{}{
		day,
		report.TotalHerd,
		report.Pregnant,
		report.Kids,
		report.Income,
		report.Expenses,
		report.Net,
		report.HealthSpend,
		report.RecentTreatments,
		strings.Join(report.LowStock, ", "),
	}
}
