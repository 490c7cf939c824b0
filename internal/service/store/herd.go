package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/capra/internal/domain/models"
)

const kindHerd = "herd"

func herdID(m models.HerdMember) string { return m.ID }

// Herd returns a copy of the herd in insertion order.
func (s *Store) Herd() []models.HerdMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneHerd(s.herd)
}

// HerdMember returns the member with the given id.
func (s *Store) HerdMember(id string) (models.HerdMember, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.herd {
		if m.ID == id {
			return m.Clone(), true
		}
	}
	return models.HerdMember{}, false
}

// AddHerdMember stores m under a freshly generated id and returns the stored record.
// Gender and status default to Female and Open when left empty.
func (s *Store) AddHerdMember(ctx context.Context, m models.HerdMember) (models.HerdMember, error) {
	m = m.Clone().WithDefaults()
	m.ID = s.newID()
	if err := s.prepareMember(&m); err != nil {
		s.record(kindHerd, "add", Rejected, err)
		return models.HerdMember{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.commitHerd(ctx, appendCopy(s.herd, m))
	s.record(kindHerd, "add", settle(err), err)
	if err != nil {
		return models.HerdMember{}, err
	}
	s.logger.Debug("herd member added", zap.String("id", m.ID), zap.String("tag", m.Tag))
	return m.Clone(), nil
}

// UpdateHerdMember replaces the member with the same id as m.
func (s *Store) UpdateHerdMember(ctx context.Context, m models.HerdMember) (Result, error) {
	m = m.Clone()
	if err := s.prepareMember(&m); err != nil {
		s.record(kindHerd, "update", Rejected, err)
		return Rejected, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, found := replaceByID(s.herd, m, herdID)
	if !found {
		s.record(kindHerd, "update", NotFound, nil)
		return NotFound, nil
	}
	err := s.commitHerd(ctx, next)
	s.record(kindHerd, "update", settle(err), err)
	return settle(err), err
}

// DeleteHerdMember removes the member with the given id together with its logs.
func (s *Store) DeleteHerdMember(ctx context.Context, id string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, found := removeByID(s.herd, id, herdID)
	if !found {
		s.record(kindHerd, "delete", NotFound, nil)
		return NotFound, nil
	}
	err := s.commitHerd(ctx, next)
	s.record(kindHerd, "delete", settle(err), err)
	return settle(err), err
}

// AddHealthRecord appends rec to the member's health log. The member is replaced
// as a whole, exactly as UpdateHerdMember would.
func (s *Store) AddHealthRecord(ctx context.Context, memberID string, rec models.HealthRecord) (models.HealthRecord, Result, error) {
	rec.ID = s.newID()
	if rec.Date.IsZero() {
		rec.Date = s.today()
	}
	normalizeHealthRecord(&rec)
	if err := rec.Validate(); err != nil {
		s.record(kindHerd, "add_health", Rejected, err)
		return models.HealthRecord{}, Rejected, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfMember(memberID)
	if idx < 0 {
		s.record(kindHerd, "add_health", NotFound, nil)
		return models.HealthRecord{}, NotFound, nil
	}
	member := s.herd[idx].Clone()
	member.HealthRecords = append(member.HealthRecords, rec)

	next, _ := replaceByID(s.herd, member, herdID)
	err := s.commitHerd(ctx, next)
	s.record(kindHerd, "add_health", settle(err), err)
	if err != nil {
		return models.HealthRecord{}, Rejected, err
	}
	return rec, Applied, nil
}

// RemoveHealthRecord deletes one entry from a member's health log. NotFound is
// returned when either the member or the record is unknown.
func (s *Store) RemoveHealthRecord(ctx context.Context, memberID, recordID string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfMember(memberID)
	if idx < 0 {
		s.record(kindHerd, "remove_health", NotFound, nil)
		return NotFound, nil
	}
	member := s.herd[idx].Clone()
	records, found := removeByID(member.HealthRecords, recordID, func(r models.HealthRecord) string { return r.ID })
	if !found {
		s.record(kindHerd, "remove_health", NotFound, nil)
		return NotFound, nil
	}
	member.HealthRecords = records

	next, _ := replaceByID(s.herd, member, herdID)
	err := s.commitHerd(ctx, next)
	s.record(kindHerd, "remove_health", settle(err), err)
	return settle(err), err
}

func (s *Store) indexOfMember(id string) int {
	for i, m := range s.herd {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// prepareMember assigns ids to new health records, drops batch numbers that only
// vaccines carry and validates the result.
func (s *Store) prepareMember(m *models.HerdMember) error {
	seen := make(map[string]struct{}, len(m.HealthRecords))
	for i := range m.HealthRecords {
		rec := &m.HealthRecords[i]
		if rec.ID == "" {
			rec.ID = s.newID()
		}
		if _, dup := seen[rec.ID]; dup {
			return fmt.Errorf("%w: duplicate health record id %s", models.ErrInvalidRecord, rec.ID)
		}
		seen[rec.ID] = struct{}{}
		normalizeHealthRecord(rec)
	}
	return m.Validate()
}

func normalizeHealthRecord(rec *models.HealthRecord) {
	switch rec.Type {
	case models.HealthVaccine:
	case models.HealthDeworming, models.HealthTreatment, models.HealthCheckup:
		rec.BatchNumber = ""
	}
}

// commitHerd writes next through and only then makes it the live collection.
// Callers hold s.mu.
func (s *Store) commitHerd(ctx context.Context, next []models.HerdMember) error {
	if err := s.persister.SaveHerd(ctx, next); err != nil {
		s.logger.Error("failed to persist herd", zap.Error(err))
		return fmt.Errorf("persist herd: %w", err)
	}
	s.herd = next
	return nil
}
