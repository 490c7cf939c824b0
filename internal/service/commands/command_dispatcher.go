package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/capra/internal/domain/models"
	"github.com/mamadbah2/capra/internal/service/views"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates the command is not known.
var ErrUnsupportedCommand = errors.New("unsupported command")

const helpText = "Commands:\n" +
	"/report - farm summary\n" +
	"/herd - herd counts by breed\n" +
	"/income <amount> [category] [description]\n" +
	"/expense <amount> [category] [description]\n" +
	"Anything else is sent to the farm assistant."

// Ledger is the part of the domain store the dispatcher uses.
type Ledger interface {
	AddTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error)
	Snapshot() models.Snapshot
}

// ReportingAdapter renders the farm summary.
type ReportingAdapter interface {
	Summary(ctx context.Context) (string, error)
}

// Service executes chat commands against the store.
type Service struct {
	ledger    Ledger
	reporting ReportingAdapter
	logger    *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(ledger Ledger, reporting ReportingAdapter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ledger:    ledger,
		reporting: reporting,
		logger:    logger,
	}
}

// HandleCommand runs cmd and returns the reply text for the sender.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandReport:
		if s.reporting == nil {
			return "", ErrUnsupportedCommand
		}
		return s.reporting.Summary(ctx)
	case models.CommandHerd:
		return s.herdSummary(), nil
	case models.CommandIncome:
		return s.recordTransaction(ctx, cmd, models.TransactionIncome, "Sales")
	case models.CommandExpense:
		return s.recordTransaction(ctx, cmd, models.TransactionExpense, "Other")
	case models.CommandHelp:
		return helpText, nil
	case models.CommandUnknown:
		return "", ErrUnsupportedCommand
	default:
		return "", ErrUnsupportedCommand
	}
}

// HelpText lists the supported commands.
func HelpText() string {
	return helpText
}

func (s *Service) herdSummary() string {
	herd := s.ledger.Snapshot().Herd
	if len(herd) == 0 {
		return "No goats recorded yet."
	}

	parts := make([]string, 0)
	for _, b := range views.BreedDistribution(herd) {
		breed := b.Breed
		if breed == "" {
			breed = "Unknown"
		}
		parts = append(parts, fmt.Sprintf("%s: %d", breed, b.Count))
	}
	return fmt.Sprintf("Herd: %d goats (%s).", len(herd), strings.Join(parts, ", "))
}

func (s *Service) recordTransaction(ctx context.Context, cmd models.Command, kind models.TransactionType, defaultCategory string) (string, error) {
	tx, err := buildTransaction(cmd, kind, defaultCategory)
	if err != nil {
		return "", err
	}

	saved, err := s.ledger.AddTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("record %s: %w", strings.ToLower(string(kind)), err)
	}
	return fmt.Sprintf("%s recorded: %.2f (%s) on %s.", saved.Type, saved.Amount, saved.Category, saved.Date), nil
}

func buildTransaction(cmd models.Command, kind models.TransactionType, defaultCategory string) (models.Transaction, error) {
	if len(cmd.Args) == 0 {
		return models.Transaction{}, ErrInvalidArguments
	}

	amount, err := strconv.ParseFloat(strings.ReplaceAll(cmd.Args[0], ",", "."), 64)
	if err != nil || amount < 0 {
		return models.Transaction{}, ErrInvalidArguments
	}

	category := defaultCategory
	if len(cmd.Args) > 1 {
		category = cmd.Args[1]
	}

	description := category
	if len(cmd.Args) > 2 {
		description = strings.Join(cmd.Args[2:], " ")
	}

	return models.Transaction{
		Type:        kind,
		Category:    category,
		Amount:      amount,
		Description: description,
	}, nil
}
