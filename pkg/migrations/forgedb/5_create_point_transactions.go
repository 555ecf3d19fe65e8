package forgedb

import (
	"context"
	"log"

	mghelper "github.com/forgelabs/forge/pkg/pgutil/migrations"
	"github.com/forgelabs/forge/pkg/pointstore"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating point_transactions table...")
		if err := mghelper.CreateSchema(ctx, db, &pointstore.TransactionDao{}); err != nil {
			return err
		}
		// Create indexes
		return mghelper.CreateModelIndexes(ctx, db, &pointstore.TransactionDao{}, "user_id", "challenge_id")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping point_transactions table...")
		return mghelper.DropTables(ctx, db, &pointstore.TransactionDao{})
	})
}
