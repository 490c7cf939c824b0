package models

import "time"

// FarmReport is the periodic summary archived in MongoDB and exported to Sheets.
type FarmReport struct {
	Date             time.Time `bson:"date" json:"date"`
	TotalHerd        int       `bson:"total_herd" json:"total_herd"`
	Pregnant         int       `bson:"pregnant" json:"pregnant"`
	Kids             int       `bson:"kids" json:"kids"`
	Income           float64   `bson:"income" json:"income"`
	Expenses         float64   `bson:"expenses" json:"expenses"`
	Net              float64   `bson:"net" json:"net"`
	HealthSpend      float64   `bson:"health_spend" json:"health_spend"`
	RecentTreatments int       `bson:"recent_treatments" json:"recent_treatments"`
	LowStock         []string  `bson:"low_stock" json:"low_stock"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}
