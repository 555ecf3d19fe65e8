package submissionstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/forgelabs/forge/pkg/submission"
)

// SubmissionDao is a data access object that maps directly to the
// 'submissions' table in PostgreSQL.
type SubmissionDao struct {
	bun.BaseModel `bun:"table:submissions,alias:s"`
	ID            int64          `bun:"id,pk,autoincrement"`
	ChallengeID   int64          `bun:"challenge_id,notnull"`
	UserID        int64          `bun:"user_id,notnull"`
	SubmittedOn   time.Time      `bun:"submitted_on,notnull,type:date"`
	Verified      bool           `bun:"verified,notnull,default:false"`
	Pending       bool           `bun:"pending,notnull,default:false"`
	AIMessage     *string        `bun:"ai_message,type:text"`
	ExtractedData map[string]any `bun:"extracted_data,type:jsonb,nullzero"`
	CreatedAt     time.Time      `bun:"created_at,nullzero,default:current_timestamp"`

	// Populated via join on list queries; not a column.
	Username *string `bun:"username,scanonly"`
}

func toSubmissionDao(sub *submission.Submission) *SubmissionDao {
	dao := &SubmissionDao{
		ChallengeID:   sub.ChallengeID,
		UserID:        sub.UserID,
		SubmittedOn:   sub.SubmittedOn,
		Verified:      sub.Verified,
		Pending:       sub.Pending,
		ExtractedData: sub.ExtractedData,
	}
	if sub.AIMessage != "" {
		dao.AIMessage = &sub.AIMessage
	}
	return dao
}

func toSubmission(dao *SubmissionDao) *submission.Submission {
	sub := &submission.Submission{
		ID:            dao.ID,
		ChallengeID:   dao.ChallengeID,
		UserID:        dao.UserID,
		SubmittedOn:   dao.SubmittedOn,
		Verified:      dao.Verified,
		Pending:       dao.Pending,
		ExtractedData: dao.ExtractedData,
		CreatedAt:     dao.CreatedAt,
	}
	if dao.AIMessage != nil {
		sub.AIMessage = *dao.AIMessage
	}
	if dao.Username != nil {
		sub.Username = *dao.Username
	}
	return sub
}
