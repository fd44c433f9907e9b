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
		log.Println("creating errors table...")
		return mghelper.CreateSchema(ctx, db, &dao.ErrorRecordDao{})
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping errors table...")
		return mghelper.DropTables(ctx, db, &dao.ErrorRecordDao{})
	})
}
