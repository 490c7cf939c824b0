package models

// Gender is the sex of a herd member.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Valid reports whether g is a known gender.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale:
		return true
	default:
		return false
	}
}

// BreedingStatus is the reproductive state of a herd member.
type BreedingStatus string

const (
	StatusOpen      BreedingStatus = "Open"
	StatusMated     BreedingStatus = "Mated"
	StatusPregnant  BreedingStatus = "Pregnant"
	StatusLactating BreedingStatus = "Lactating"
	StatusDry       BreedingStatus = "Dry"
)

// BreedingStatuses lists every status in display order.
var BreedingStatuses = []BreedingStatus{StatusOpen, StatusMated, StatusPregnant, StatusLactating, StatusDry}

// Valid reports whether s is a known breeding status.
func (s BreedingStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusMated, StatusPregnant, StatusLactating, StatusDry:
		return true
	default:
		return false
	}
}

// HealthRecordType classifies a health log entry.
type HealthRecordType string

const (
	HealthVaccine   HealthRecordType = "Vaccine"
	HealthDeworming HealthRecordType = "Deworming"
	HealthTreatment HealthRecordType = "Treatment"
	HealthCheckup   HealthRecordType = "Checkup"
)

// Valid reports whether t is a known health record type.
func (t HealthRecordType) Valid() bool {
	switch t {
	case HealthVaccine, HealthDeworming, HealthTreatment, HealthCheckup:
		return true
	default:
		return false
	}
}

// WeightRecord is one weighing of a herd member, in kilograms.
type WeightRecord struct {
	Date   Date    `json:"date"`
	Weight float64 `json:"weight" validate:"gte=0"`
}

// HealthRecord is an entry in a herd member's health log.
type HealthRecord struct {
	ID          string           `json:"id"`
	Date        Date             `json:"date"`
	Type        HealthRecordType `json:"type"`
	Description string           `json:"description" validate:"required"`
	Cost        float64          `json:"cost" validate:"gte=0"`
	BatchNumber string           `json:"batchNumber,omitempty"`
}

// HerdMember is a single animal in the herd.
type HerdMember struct {
	ID            string         `json:"id"`
	Tag           string         `json:"tag" validate:"required"`
	Name          string         `json:"name" validate:"required"`
	Breed         string         `json:"breed"`
	Gender        Gender         `json:"gender"`
	DOB           Date           `json:"dob"`
	Sire          string         `json:"sire,omitempty"`
	Dam           string         `json:"dam,omitempty"`
	Status        BreedingStatus `json:"status"`
	WeightHistory []WeightRecord `json:"weightHistory" validate:"dive"`
	HealthRecords []HealthRecord `json:"healthRecords" validate:"dive"`
	Notes         string         `json:"notes,omitempty"`
	PhotoURL      string         `json:"photoUrl,omitempty"`
}

// Clone returns a deep copy so callers can never alias the store's slices.
func (m HerdMember) Clone() HerdMember {
	out := m
	out.WeightHistory = append([]WeightRecord(nil), m.WeightHistory...)
	out.HealthRecords = append([]HealthRecord(nil), m.HealthRecords...)
	if out.WeightHistory == nil {
		out.WeightHistory = []WeightRecord{}
	}
	if out.HealthRecords == nil {
		out.HealthRecords = []HealthRecord{}
	}
	return out
}

// WithDefaults fills an empty gender with Female and an empty status with Open.
func (m HerdMember) WithDefaults() HerdMember {
	if m.Gender == "" {
		m.Gender = GenderFemale
	}
	if m.Status == "" {
		m.Status = StatusOpen
	}
	return m
}

// HealthRecordIndex returns the position of the record with the given id, or -1.
func (m HerdMember) HealthRecordIndex(id string) int {
	for i, r := range m.HealthRecords {
		if r.ID == id {
			return i
		}
	}
	return -1
}
