package forgedb

import (
	"context"
	"log"

	"github.com/forgelabs/forge/pkg/activitystore"
	mghelper "github.com/forgelabs/forge/pkg/pgutil/migrations"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating activities table...")
		if err := mghelper.CreateSchema(ctx, db, &activitystore.ActivityDao{}); err != nil {
			return err
		}
		// Create indexes
		return mghelper.CreateModelIndexes(ctx, db, &activitystore.ActivityDao{}, "user_id", "created_at")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping activities table...")
		return mghelper.DropTables(ctx, db, &activitystore.ActivityDao{})
	})
}
