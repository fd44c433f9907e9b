package dao

import "time"

// ErrorRecordDao is a data access object that maps directly to the 'errors' table in PostgreSQL.
// Rows are append-only and operator-facing; the relay never reads them back.
type ErrorRecordDao struct {
	tableName       struct{}  `bun:"table:errors"` // nolint
	ID              string    `json:"id" bun:",pk,type:uuid"`
	SourceAddress   string    `json:"source_address" bun:",notnull,type:varchar(255)"`
	TargetAddress   *string   `json:"target_address,omitempty" bun:"target_address,type:varchar(255)"`
	SourceTxID      string    `json:"source_tx_id" bun:",notnull,type:varchar(128)"`
	Amount          string    `json:"amount" bun:",notnull,type:numeric(38,18)"`
	ErrorKind       string    `json:"error_kind" bun:",notnull,type:varchar(32)"`
	ExceptionDetail *string   `json:"exception_detail,omitempty" bun:"exception_detail,type:text"`
	CreatedAt       time.Time `json:"created_at" bun:",notnull,nullzero,default:current_timestamp"`
}
