package forgedb

import (
	"context"
	"log"

	"github.com/forgelabs/forge/pkg/friendstore"
	mghelper "github.com/forgelabs/forge/pkg/pgutil/migrations"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating friendships table...")
		if err := mghelper.CreateSchema(ctx, db, &friendstore.FriendshipDao{}); err != nil {
			return err
		}
		// One row per directed pair; the store checks both directions
		// before inserting.
		if err := mghelper.CreateModelUniqueIndex(ctx, db, &friendstore.FriendshipDao{}, "user_id", "friend_id"); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &friendstore.FriendshipDao{}, "friend_id")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping friendships table...")
		return mghelper.DropTables(ctx, db, &friendstore.FriendshipDao{})
	})
}
