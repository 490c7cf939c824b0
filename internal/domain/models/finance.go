package models

// TransactionType separates money coming in from money going out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "Income"
	TransactionExpense TransactionType = "Expense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionIncome, TransactionExpense:
		return true
	default:
		return false
	}
}

// TransactionCategories are the categories offered by the entry form. Category is free form; this is only a suggestion set.
var TransactionCategories = []string{"Feed", "Medicine", "Sales", "Equipment", "Labor", "Veterinary", "Other"}

// Transaction is a single income or expense entry in the farm ledger.
type Transaction struct {
	ID          string          `json:"id"`
	Date        Date            `json:"date"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Amount      float64         `json:"amount" validate:"gte=0"`
	Description string          `json:"description" validate:"required"`
}
