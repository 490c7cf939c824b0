package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidRecord marks a record that fails field or enum validation.
var ErrInvalidRecord = errors.New("invalid record")

var validate = validator.New()

// Validate checks required fields and closed enum values of a herd member and its logs.
func (m HerdMember) Validate() error {
	var problems []string
	if err := validate.Struct(m); err != nil {
		problems = append(problems, fieldProblems(err)...)
	}
	if !m.Gender.Valid() {
		problems = append(problems, fmt.Sprintf("gender %q must be one of Male, Female", m.Gender))
	}
	if !m.Status.Valid() {
		problems = append(problems, fmt.Sprintf("status %q must be one of Open, Mated, Pregnant, Lactating, Dry", m.Status))
	}
	for _, r := range m.HealthRecords {
		if !r.Type.Valid() {
			problems = append(problems, fmt.Sprintf("health record type %q must be one of Vaccine, Deworming, Treatment, Checkup", r.Type))
		}
	}
	return joinProblems(problems)
}

// Validate checks a single health record.
func (r HealthRecord) Validate() error {
	var problems []string
	if err := validate.Struct(r); err != nil {
		problems = append(problems, fieldProblems(err)...)
	}
	if !r.Type.Valid() {
		problems = append(problems, fmt.Sprintf("health record type %q must be one of Vaccine, Deworming, Treatment, Checkup", r.Type))
	}
	return joinProblems(problems)
}

// Validate checks a ledger entry.
func (t Transaction) Validate() error {
	var problems []string
	if err := validate.Struct(t); err != nil {
		problems = append(problems, fieldProblems(err)...)
	}
	if !t.Type.Valid() {
		problems = append(problems, fmt.Sprintf("type %q must be one of Income, Expense", t.Type))
	}
	return joinProblems(problems)
}

// Validate checks an inventory item.
func (i InventoryItem) Validate() error {
	var problems []string
	if err := validate.Struct(i); err != nil {
		problems = append(problems, fieldProblems(err)...)
	}
	if !i.Category.Valid() {
		problems = append(problems, fmt.Sprintf("category %q must be one of Feed, Medicine, Equipment", i.Category))
	}
	return joinProblems(problems)
}

func fieldProblems(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			out = append(out, fmt.Sprintf("%s is required", field))
		case "gte":
			out = append(out, fmt.Sprintf("%s must not be negative", field))
		default:
			out = append(out, fmt.Sprintf("%s is invalid", field))
		}
	}
	return out
}

func joinProblems(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(problems, "; "))
}
