package forgedb

import (
	"context"
	"log"

	mghelper "github.com/forgelabs/forge/pkg/pgutil/migrations"
	"github.com/forgelabs/forge/pkg/submissionstore"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating submissions table...")
		if err := mghelper.CreateSchema(ctx, db, &submissionstore.SubmissionDao{}); err != nil {
			return err
		}
		// One submission per user per challenge per day; inserts rely on
		// this index for conflict detection.
		if err := mghelper.CreateModelUniqueIndex(ctx, db, &submissionstore.SubmissionDao{}, "challenge_id", "user_id", "submitted_on"); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &submissionstore.SubmissionDao{}, "challenge_id", "user_id")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping submissions table...")
		return mghelper.DropTables(ctx, db, &submissionstore.SubmissionDao{})
	})
}
