package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/capra/internal/domain/models"
	repo "github.com/mamadbah2/capra/internal/repository/sheets"
	"github.com/mamadbah2/capra/internal/service/views"
)

const dateLayout = "2006-01-02"

// SnapshotSource provides the current farm state.
type SnapshotSource interface {
	Snapshot() models.Snapshot
}

// Archive stores generated reports.
type Archive interface {
	SaveFarmReport(ctx context.Context, report models.FarmReport) error
}

// Service builds periodic farm reports from the derived views.
type Service struct {
	source  SnapshotSource
	sheets  repo.Repository
	archive Archive
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a reporting service. sheets and archive are optional.
func NewService(source SnapshotSource, sheets repo.Repository, archive Archive, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source:  source,
		sheets:  sheets,
		archive: archive,
		logger:  logger,
		now:     time.Now,
	}
}

// BuildReport computes a report for the farm as of at.
func BuildReport(snap models.Snapshot, at time.Time) models.FarmReport {
	counts := views.CountHerd(snap.Herd, at)
	totals := views.FinancialTotals(snap.Transactions)
	health := views.Health(snap.Herd, at)

	lowStock := []string{}
	for _, item := range views.LowStock(snap.Inventory) {
		lowStock = append(lowStock, item.Name)
	}

	return models.FarmReport{
		Date:             models.NewDate(at).Time,
		TotalHerd:        counts.Total,
		Pregnant:         counts.Pregnant,
		Kids:             counts.Kids,
		Income:           totals.Income,
		Expenses:         totals.Expense,
		Net:              totals.Net,
		HealthSpend:      health.TotalCost,
		RecentTreatments: health.RecentTreatments,
		LowStock:         lowStock,
		CreatedAt:        at.UTC(),
	}
}

// FormatSummary renders a report as a short chat message.
func FormatSummary(report models.FarmReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Farm report %s\n", report.Date.Format(dateLayout))
	fmt.Fprintf(&sb, "Herd: %d goats, %d pregnant, %d kids under 6 months.\n", report.TotalHerd, report.Pregnant, report.Kids)
	fmt.Fprintf(&sb, "Finance: income %.2f, expenses %.2f, net %.2f.\n", report.Income, report.Expenses, report.Net)
	fmt.Fprintf(&sb, "Health: %.2f spent, %d treatments in the last 30 days.", report.HealthSpend, report.RecentTreatments)
	if len(report.LowStock) > 0 {
		fmt.Fprintf(&sb, "\nLow stock: %s.", strings.Join(report.LowStock, ", "))
	}
	return sb.String()
}

// Summary renders the current report without archiving or exporting it.
func (s *Service) Summary(ctx context.Context) (string, error) {
	if s.source == nil {
		return "", fmt.Errorf("reporting requires a snapshot source")
	}
	return FormatSummary(BuildReport(s.source.Snapshot(), s.now())), nil
}

// GenerateReport builds the current report, archives it and exports it. Archive
// and export failures are logged and do not prevent the summary from being returned.
func (s *Service) GenerateReport(ctx context.Context) (models.FarmReport, string, error) {
	if s.source == nil {
		return models.FarmReport{}, "", fmt.Errorf("reporting requires a snapshot source")
	}

	report := BuildReport(s.source.Snapshot(), s.now())

	if s.archive != nil {
		if err := s.archive.SaveFarmReport(ctx, report); err != nil {
			s.logger.Error("failed to archive farm report", zap.Error(err))
		}
	}

	if s.sheets != nil {
		if _, err := s.sheets.AppendReport(ctx, report); err != nil {
			s.logger.Error("failed to export farm report", zap.Error(err))
		}
	}

	return report, FormatSummary(report), nil
}
