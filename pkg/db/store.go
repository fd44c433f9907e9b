package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/gatewaynetwork/bridge-relay/pkg/db/dao"
)

// ErrCursorNotFound is returned when no scan cursor row exists for a chain.
var ErrCursorNotFound = errors.New("scan cursor not found")

// Store owns all persisted relay state: the scan cursor, settlement records
// and error records. Other components access rows only through this contract.
type Store struct {
	db *bun.DB
}

// NewStore creates a new store on top of an established connection
func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetCursor returns the last scanned height for a chain.
func (s *Store) GetCursor(ctx context.Context, chain string) (int64, error) {
	d := new(dao.HeightDao)
	err := s.db.NewSelect().
		Model(d).
		Where("chain = ?", chain).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrCursorNotFound
		}
		return 0, fmt.Errorf("failed to get cursor: %w", err)
	}
	return d.Height, nil
}

// SetCursor persists the last scanned height for a chain.
func (s *Store) SetCursor(ctx context.Context, chain string, height int64) error {
	d := &dao.HeightDao{Chain: chain, Height: height}
	_, err := s.db.NewInsert().
		Model(d).
		On("CONFLICT (chain) DO UPDATE").
		Set("height = EXCLUDED.height").
		Set("updated_at = NOW()").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set cursor: %w", err)
	}
	return nil
}

// SettlementExists reports whether a deposit has already been settled.
func (s *Store) SettlementExists(ctx context.Context, sourceTxID string) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*dao.SettlementDao)(nil)).
		Where("source_tx_id = ?", sourceTxID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check settlement exists: %w", err)
	}
	return exists, nil
}

// CreateSettlement records a completed payout. The insert is idempotent on
// source_tx_id, so a reprocessed block cannot produce a second row.
func (s *Store) CreateSettlement(ctx context.Context, settlement *Settlement) error {
	d := toSettlementDao(settlement)
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	_, err := s.db.NewInsert().
		Model(d).
		On("CONFLICT (source_tx_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create settlement: %w", err)
	}
	return nil
}

// CreateErrorRecord appends one fault entry to the errors table.
func (s *Store) CreateErrorRecord(ctx context.Context, record *ErrorRecord) error {
	d := toErrorRecordDao(record)
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	_, err := s.db.NewInsert().
		Model(d).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create error record: %w", err)
	}
	return nil
}

// ListSettlements returns the most recent settlements.
func (s *Store) ListSettlements(ctx context.Context, limit int) ([]*Settlement, error) {
	var daos []dao.SettlementDao
	err := s.db.NewSelect().
		Model(&daos).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	settlements := make([]*Settlement, len(daos))
	for i := range daos {
		settlements[i] = toSettlement(&daos[i])
	}
	return settlements, nil
}

// ListErrorRecords returns the most recent error records.
func (s *Store) ListErrorRecords(ctx context.Context, limit int) ([]*ErrorRecord, error) {
	var daos []dao.ErrorRecordDao
	err := s.db.NewSelect().
		Model(&daos).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list error records: %w", err)
	}
	records := make([]*ErrorRecord, len(daos))
	for i := range daos {
		records[i] = toErrorRecord(&daos[i])
	}
	return records, nil
}
