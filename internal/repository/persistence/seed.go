package persistence

import "github.com/mamadbah2/capra/internal/domain/models"

// SeedHerd returns the demo herd used when nothing has been saved yet.
func SeedHerd() []models.HerdMember {
	return []models.HerdMember{
		{
			ID:     "1",
			Tag:    "G-101",
			Name:   "Bella",
			Breed:  "Boer",
			Gender: models.GenderFemale,
			DOB:    models.MustDate("2021-05-15"),
			Status: models.StatusPregnant,
			WeightHistory: []models.WeightRecord{
				{Date: models.MustDate("2023-01-01"), Weight: 45},
				{Date: models.MustDate("2023-06-01"), Weight: 52},
				{Date: models.MustDate("2023-12-01"), Weight: 58},
			},
			HealthRecords: []models.HealthRecord{
				{ID: "h1", Date: models.MustDate("2023-09-10"), Type: models.HealthVaccine, Description: "CDT Booster", Cost: 12},
				{ID: "h2", Date: models.MustDate("2023-05-15"), Type: models.HealthCheckup, Description: "Annual Physical", Cost: 50},
			},
			Notes: "High milk yield expected.",
		},
		{
			ID:     "2",
			Tag:    "G-102",
			Name:   "Max",
			Breed:  "Kalahari Red",
			Gender: models.GenderMale,
			DOB:    models.MustDate("2020-03-10"),
			Status: models.StatusOpen,
			WeightHistory: []models.WeightRecord{
				{Date: models.MustDate("2023-01-01"), Weight: 85},
				{Date: models.MustDate("2023-12-01"), Weight: 92},
			},
			HealthRecords: []models.HealthRecord{
				{ID: "h3", Date: models.MustDate("2023-10-01"), Type: models.HealthDeworming, Description: "Routine Ivermectin", Cost: 5},
			},
			Notes: "Primary sire.",
		},
		{
			ID:            "3",
			Tag:           "G-103",
			Name:          "Daisy",
			Breed:         "Saanen",
			Gender:        models.GenderFemale,
			DOB:           models.MustDate("2022-01-20"),
			Status:        models.StatusLactating,
			WeightHistory: []models.WeightRecord{{Date: models.MustDate("2023-12-01"), Weight: 48}},
			HealthRecords: []models.HealthRecord{},
		},
	}
}

// SeedTransactions returns the demo ledger.
func SeedTransactions() []models.Transaction {
	return []models.Transaction{
		{ID: "1", Date: models.MustDate("2023-10-01"), Type: models.TransactionExpense, Category: "Feed", Amount: 450, Description: "Alfalfa hay"},
		{ID: "2", Date: models.MustDate("2023-10-05"), Type: models.TransactionIncome, Category: "Sales", Amount: 1200, Description: "Sold 3 kids"},
		{ID: "3", Date: models.MustDate("2023-10-10"), Type: models.TransactionExpense, Category: "Medicine", Amount: 120, Description: "Dewormer"},
	}
}

// SeedInventory returns the demo supply list.
func SeedInventory() []models.InventoryItem {
	return []models.InventoryItem{
		{ID: "1", Name: "Alfalfa Hay", Category: models.InventoryFeed, Quantity: 50, Unit: "bales", AlertLevel: 10},
		{ID: "2", Name: "Dewormer (Ivermectin)", Category: models.InventoryMedicine, Quantity: 2, Unit: "bottles", AlertLevel: 1},
	}
}
