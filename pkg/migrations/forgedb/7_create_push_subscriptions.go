package forgedb

import (
	"context"
	"log"

	"github.com/forgelabs/forge/pkg/notify"
	mghelper "github.com/forgelabs/forge/pkg/pgutil/migrations"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating push_subscriptions table...")
		if err := mghelper.CreateSchema(ctx, db, &notify.SubscriptionDao{}); err != nil {
			return err
		}
		// Upserts conflict on this index
		return mghelper.CreateModelUniqueIndex(ctx, db, &notify.SubscriptionDao{}, "user_id", "endpoint")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping push_subscriptions table...")
		return mghelper.DropTables(ctx, db, &notify.SubscriptionDao{})
	})
}
