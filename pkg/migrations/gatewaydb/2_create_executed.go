package gatewaydb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/gatewaynetwork/bridge-relay/pkg/db/dao"
	mghelper "github.com/gatewaynetwork/bridge-relay/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating executed table...")
		if err := mghelper.CreateSchema(ctx, db, &dao.SettlementDao{}); err != nil {
			return err
		}
		// source_tx_id uniqueness is the idempotency guarantee; the store
		// relies on this index for its ON CONFLICT insert.
		return mghelper.CreateModelUniqueIndexes(ctx, db, &dao.SettlementDao{}, "source_tx_id")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping executed table...")
		if err := mghelper.DropModelIndexes(ctx, db, &dao.SettlementDao{}, "source_tx_id"); err != nil {
			return err
		}
		return mghelper.DropTables(ctx, db, &dao.SettlementDao{})
	})
}
