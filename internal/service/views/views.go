// Package views computes dashboard figures from a store snapshot.
//
// Everything here is a pure function of the snapshot and the supplied clock
// reading; nothing is cached, so callers recompute on every read.
package views

import (
	"sort"
	"strings"
	"time"

	"github.com/mamadbah2/capra/internal/domain/models"
)

const (
	// KidWindowMonths is the calendar-month age below which a member counts as a kid.
	KidWindowMonths = 6
	// TreatmentWindow is the trailing window for the recent-treatment count.
	TreatmentWindow = 30 * 24 * time.Hour
	// SickWindow is the trailing window used to flag recently treated members.
	SickWindow = 7 * 24 * time.Hour
)

// HerdCounts are the headline herd figures.
type HerdCounts struct {
	Total    int `json:"total"`
	Pregnant int `json:"pregnant"`
	Kids     int `json:"kids"`
}

// BreedCount is one slice of the breed distribution.
type BreedCount struct {
	Breed string `json:"breed"`
	Count int    `json:"count"`
}

// Totals are the ledger sums.
type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

// HealthEntry is a health record tagged with the member it belongs to.
type HealthEntry struct {
	models.HealthRecord
	MemberID   string `json:"memberId"`
	MemberName string `json:"memberName"`
	MemberTag  string `json:"memberTag"`
}

// HealthOverview is the herd-wide health log with its summary figures.
type HealthOverview struct {
	Records          []HealthEntry `json:"records"`
	TotalCost        float64       `json:"totalCost"`
	Vaccines         int           `json:"vaccines"`
	RecentTreatments int           `json:"recentTreatments"`
}

// StockLevel is an inventory item with its low-stock flag.
type StockLevel struct {
	models.InventoryItem
	Low bool `json:"low"`
}

// Dashboard bundles the figures shown on the landing page.
type Dashboard struct {
	Herd     HerdCounts   `json:"herd"`
	Breeds   []BreedCount `json:"breeds"`
	Finance  Totals       `json:"finance"`
	LowStock []StockLevel `json:"lowStock"`
}

// CountHerd returns total, pregnant and kid counts. A kid is a member whose date
// of birth is after now minus KidWindowMonths calendar months.
func CountHerd(herd []models.HerdMember, now time.Time) HerdCounts {
	cutoff := now.AddDate(0, -KidWindowMonths, 0)
	counts := HerdCounts{Total: len(herd)}
	for _, m := range herd {
		if m.Status == models.StatusPregnant {
			counts.Pregnant++
		}
		if !m.DOB.IsZero() && m.DOB.After(cutoff) {
			counts.Kids++
		}
	}
	return counts
}

// BreedDistribution counts members per breed in first-seen order.
func BreedDistribution(herd []models.HerdMember) []BreedCount {
	out := []BreedCount{}
	index := make(map[string]int)
	for _, m := range herd {
		if i, ok := index[m.Breed]; ok {
			out[i].Count++
			continue
		}
		index[m.Breed] = len(out)
		out = append(out, BreedCount{Breed: m.Breed, Count: 1})
	}
	return out
}

// Breeds returns the distinct breeds in first-seen order.
func Breeds(herd []models.HerdMember) []string {
	dist := BreedDistribution(herd)
	out := make([]string, len(dist))
	for i, b := range dist {
		out[i] = b.Breed
	}
	return out
}

// FinancialTotals sums income and expense and their difference.
func FinancialTotals(txs []models.Transaction) Totals {
	var totals Totals
	for _, t := range txs {
		switch t.Type {
		case models.TransactionIncome:
			totals.Income += t.Amount
		case models.TransactionExpense:
			totals.Expense += t.Amount
		}
	}
	totals.Net = totals.Income - totals.Expense
	return totals
}

// TransactionsByDate returns the ledger newest first; equal dates keep insertion order.
func TransactionsByDate(txs []models.Transaction) []models.Transaction {
	out := append([]models.Transaction{}, txs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}

// Health flattens every member's health log, newest first, and derives the
// spend, vaccine and recent-treatment figures.
func Health(herd []models.HerdMember, now time.Time) HealthOverview {
	overview := HealthOverview{Records: []HealthEntry{}}
	for _, m := range herd {
		for _, r := range m.HealthRecords {
			overview.Records = append(overview.Records, HealthEntry{
				HealthRecord: r,
				MemberID:     m.ID,
				MemberName:   m.Name,
				MemberTag:    m.Tag,
			})
		}
	}
	sort.SliceStable(overview.Records, func(i, j int) bool {
		return overview.Records[i].Date.After(overview.Records[j].Date.Time)
	})

	treatmentCutoff := now.Add(-TreatmentWindow)
	for _, r := range overview.Records {
		overview.TotalCost += r.Cost
		switch r.Type {
		case models.HealthVaccine:
			overview.Vaccines++
		case models.HealthTreatment:
			if r.Date.After(treatmentCutoff) {
				overview.RecentTreatments++
			}
		case models.HealthDeworming, models.HealthCheckup:
		}
	}
	return overview
}

// SickWithin returns members with at least one health record dated inside the
// trailing window ending at now.
func SickWithin(herd []models.HerdMember, now time.Time, window time.Duration) []models.HerdMember {
	cutoff := now.Add(-window)
	out := []models.HerdMember{}
	for _, m := range herd {
		for _, r := range m.HealthRecords {
			if r.Date.After(cutoff) {
				out = append(out, m.Clone())
				break
			}
		}
	}
	return out
}

// SearchHerd filters members whose name, tag or breed contains query, ignoring case.
// An empty query returns the whole herd.
func SearchHerd(herd []models.HerdMember, query string) []models.HerdMember {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []models.HerdMember{}
	for _, m := range herd {
		if q == "" ||
			strings.Contains(strings.ToLower(m.Name), q) ||
			strings.Contains(strings.ToLower(m.Tag), q) ||
			strings.Contains(strings.ToLower(m.Breed), q) {
			out = append(out, m)
		}
	}
	return out
}

// AgeYears is the difference between the current year and the birth year.
func AgeYears(m models.HerdMember, now time.Time) int {
	if m.DOB.IsZero() {
		return 0
	}
	return now.Year() - m.DOB.Year()
}

// StockLevels flags every item whose quantity has fallen below its alert level.
func StockLevels(items []models.InventoryItem) []StockLevel {
	out := make([]StockLevel, len(items))
	for i, item := range items {
		out[i] = StockLevel{InventoryItem: item, Low: item.Quantity < item.AlertLevel}
	}
	return out
}

// LowStock returns only the items that need restocking.
func LowStock(items []models.InventoryItem) []StockLevel {
	out := []StockLevel{}
	for _, level := range StockLevels(items) {
		if level.Low {
			out = append(out, level)
		}
	}
	return out
}

// BuildDashboard computes the landing-page figures.
func BuildDashboard(snap models.Snapshot, now time.Time) Dashboard {
	return Dashboard{
		Herd:     CountHerd(snap.Herd, now),
		Breeds:   BreedDistribution(snap.Herd),
		Finance:  FinancialTotals(snap.Transactions),
		LowStock: LowStock(snap.Inventory),
	}
}
