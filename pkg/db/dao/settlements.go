package dao

import "time"

// SettlementDao is a data access object that maps directly to the 'executed' table in PostgreSQL.
// source_tx_id carries a unique index (see migrations) and is the idempotency
// key that prevents a deposit from being paid out twice.
type SettlementDao struct {
	tableName     struct{}  `bun:"table:executed"` // nolint
	ID            string    `json:"id" bun:",pk,type:uuid"`
	SourceAddress string    `json:"source_address" bun:",notnull,type:varchar(255)"`
	TargetAddress string    `json:"target_address" bun:",notnull,type:varchar(255)"`
	SourceTxID    string    `json:"source_tx_id" bun:",notnull,type:varchar(128)"`
	TargetTxID    string    `json:"target_tx_id" bun:",notnull,type:varchar(128)"`
	Amount        string    `json:"amount" bun:",notnull,type:numeric(38,18)"`
	Fee           string    `json:"fee" bun:",notnull,type:numeric(38,18)"`
	Shielded      bool      `json:"shielded" bun:",notnull,default:false"`
	CreatedAt     time.Time `json:"created_at" bun:",notnull,nullzero,default:current_timestamp"`
}
