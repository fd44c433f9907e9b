package dao

import "time"

// HeightDao is a data access object that maps directly to the 'heights' table in PostgreSQL.
type HeightDao struct {
	tableName struct{}  `bun:"table:heights"` // nolint
	Chain     string    `json:"chain" bun:",pk,type:varchar(32)"`
	Height    int64     `json:"height" bun:",notnull"`
	UpdatedAt time.Time `json:"updated_at" bun:",notnull,nullzero,default:current_timestamp"`
}
