package db

import (
	"time"

	"github.com/gatewaynetwork/bridge-relay/pkg/db/dao"
)

// Settlement is a completed payout for one source-chain deposit.
type Settlement struct {
	ID            string
	SourceAddress string
	TargetAddress string
	SourceTxID    string
	TargetTxID    string
	Amount        string
	Fee           string
	Shielded      bool
	CreatedAt     time.Time
}

// ErrorRecord is one operator-facing fault entry.
type ErrorRecord struct {
	ID              string
	SourceAddress   string
	TargetAddress   string
	SourceTxID      string
	Amount          string
	ErrorKind       string
	ExceptionDetail string
	CreatedAt       time.Time
}

func toSettlementDao(s *Settlement) *dao.SettlementDao {
	return &dao.SettlementDao{
		ID:            s.ID,
		SourceAddress: s.SourceAddress,
		TargetAddress: s.TargetAddress,
		SourceTxID:    s.SourceTxID,
		TargetTxID:    s.TargetTxID,
		Amount:        s.Amount,
		Fee:           s.Fee,
		Shielded:      s.Shielded,
	}
}

func toSettlement(d *dao.SettlementDao) *Settlement {
	return &Settlement{
		ID:            d.ID,
		SourceAddress: d.SourceAddress,
		TargetAddress: d.TargetAddress,
		SourceTxID:    d.SourceTxID,
		TargetTxID:    d.TargetTxID,
		Amount:        d.Amount,
		Fee:           d.Fee,
		Shielded:      d.Shielded,
		CreatedAt:     d.CreatedAt,
	}
}

func toErrorRecordDao(r *ErrorRecord) *dao.ErrorRecordDao {
	d := &dao.ErrorRecordDao{
		ID:            r.ID,
		SourceAddress: r.SourceAddress,
		SourceTxID:    r.SourceTxID,
		Amount:        r.Amount,
		ErrorKind:     r.ErrorKind,
	}
	if r.TargetAddress != "" {
		d.TargetAddress = &r.TargetAddress
	}
	if r.ExceptionDetail != "" {
		d.ExceptionDetail = &r.ExceptionDetail
	}
	return d
}

func toErrorRecord(d *dao.ErrorRecordDao) *ErrorRecord {
	r := &ErrorRecord{
		ID:            d.ID,
		SourceAddress: d.SourceAddress,
		SourceTxID:    d.SourceTxID,
		Amount:        d.Amount,
		ErrorKind:     d.ErrorKind,
		CreatedAt:     d.CreatedAt,
	}
	if d.TargetAddress != nil {
		r.TargetAddress = *d.TargetAddress
	}
	if d.ExceptionDetail != nil {
		r.ExceptionDetail = *d.ExceptionDetail
	}
	return r
}
