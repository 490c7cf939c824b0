package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/capra/internal/domain/models"
)

const (
	kindTransactions = "transactions"
	kindInventory    = "inventory"
)

func transactionID(t models.Transaction) string { return t.ID }
func inventoryID(i models.InventoryItem) string { return i.ID }

// Transactions returns a copy of the ledger in insertion order.
func (s *Store) Transactions() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Transaction{}, s.transactions...)
}

// AddTransaction records t under a fresh id. A missing date becomes today.
func (s *Store) AddTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	t.ID = s.newID()
	if t.Date.IsZero() {
		t.Date = s.today()
	}
	if err := t.Validate(); err != nil {
		s.record(kindTransactions, "add", Rejected, err)
		return models.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.commitTransactions(ctx, appendCopy(s.transactions, t))
	s.record(kindTransactions, "add", settle(err), err)
	if err != nil {
		return models.Transaction{}, err
	}
	s.logger.Debug("transaction added", zap.String("id", t.ID), zap.String("type", string(t.Type)), zap.Float64("amount", t.Amount))
	return t, nil
}

// UpdateTransaction replaces the entry with the same id as t. A missing date
// becomes today, as in AddTransaction.
func (s *Store) UpdateTransaction(ctx context.Context, t models.Transaction) (Result, error) {
	if t.Date.IsZero() {
		t.Date = s.today()
	}
	if err := t.Validate(); err != nil {
		s.record(kindTransactions, "update", Rejected, err)
		return Rejected, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, found := replaceByID(s.transactions, t, transactionID)
	if !found {
		s.record(kindTransactions, "update", NotFound, nil)
		return NotFound, nil
	}
	err := s.commitTransactions(ctx, next)
	s.record(kindTransactions, "update", settle(err), err)
	return settle(err), err
}

// DeleteTransaction removes the entry with the given id.
func (s *Store) DeleteTransaction(ctx context.Context, id string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, found := removeByID(s.transactions, id, transactionID)
	if !found {
		s.record(kindTransactions, "delete", NotFound, nil)
		return NotFound, nil
	}
	err := s.commitTransactions(ctx, next)
	s.record(kindTransactions, "delete", settle(err), err)
	return settle(err), err
}

func (s *Store) commitTransactions(ctx context.Context, next []models.Transaction) error {
	if err := s.persister.SaveTransactions(ctx, next); err != nil {
		s.logger.Error("failed to persist transactions", zap.Error(err))
		return fmt.Errorf("persist transactions: %w", err)
	}
	s.transactions = next
	return nil
}

// Inventory returns a copy of the supply list.
func (s *Store) Inventory() []models.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.InventoryItem{}, s.inventory...)
}

// AddInventoryItem stores item under a fresh id.
func (s *Store) AddInventoryItem(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error) {
	item.ID = s.newID()
	if err := item.Validate(); err != nil {
		s.record(kindInventory, "add", Rejected, err)
		return models.InventoryItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.commitInventory(ctx, appendCopy(s.inventory, item))
	s.record(kindInventory, "add", settle(err), err)
	if err != nil {
		return models.InventoryItem{}, err
	}
	return item, nil
}

// UpdateInventoryItem replaces the item with the same id.
func (s *Store) UpdateInventoryItem(ctx context.Context, item models.InventoryItem) (Result, error) {
	if err := item.Validate(); err != nil {
		s.record(kindInventory, "update", Rejected, err)
		return Rejected, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, found := replaceByID(s.inventory, item, inventoryID)
	if !found {
		s.record(kindInventory, "update", NotFound, nil)
		return NotFound, nil
	}
	err := s.commitInventory(ctx, next)
	s.record(kindInventory, "update", settle(err), err)
	return settle(err), err
}

// DeleteInventoryItem removes the item with the given id.
func (s *Store) DeleteInventoryItem(ctx context.Context, id string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, found := removeByID(s.inventory, id, inventoryID)
	if !found {
		s.record(kindInventory, "delete", NotFound, nil)
		return NotFound, nil
	}
	err := s.commitInventory(ctx, next)
	s.record(kindInventory, "delete", settle(err), err)
	return settle(err), err
}

func (s *Store) commitInventory(ctx context.Context, next []models.InventoryItem) error {
	if err := s.persister.SaveInventory(ctx, next); err != nil {
		s.logger.Error("failed to persist inventory", zap.Error(err))
		return fmt.Errorf("persist inventory: %w", err)
	}
	s.inventory = next
	return nil
}
