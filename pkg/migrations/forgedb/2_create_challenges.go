package forgedb

import (
	"context"
	"log"

	"github.com/forgelabs/forge/pkg/challengestore"
	mghelper "github.com/forgelabs/forge/pkg/pgutil/migrations"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating challenges, challenge_participants and invites tables...")
		if err := mghelper.CreateSchema(ctx, db,
			&challengestore.ChallengeDao{},
			&challengestore.ParticipantDao{},
			&challengestore.InviteDao{},
		); err != nil {
			return err
		}
		// Create indexes
		if err := mghelper.CreateModelIndexes(ctx, db, &challengestore.ChallengeDao{}, "creator_id", "status"); err != nil {
			return err
		}
		// One membership row per user per challenge
		if err := mghelper.CreateModelUniqueIndex(ctx, db, &challengestore.ParticipantDao{}, "challenge_id", "user_id"); err != nil {
			return err
		}
		if err := mghelper.CreateModelIndexes(ctx, db, &challengestore.ParticipantDao{}, "user_id"); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &challengestore.InviteDao{}, "invitee_id", "challenge_id")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping challenges, challenge_participants and invites tables...")
		return mghelper.DropTables(ctx, db,
			&challengestore.InviteDao{},
			&challengestore.ParticipantDao{},
			&challengestore.ChallengeDao{},
		)
	})
}
