package pointstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/forgelabs/forge/pkg/points"
)

// TransactionDao is a data access object that maps directly to the
// 'point_transactions' table in PostgreSQL.
type TransactionDao struct {
	bun.BaseModel `bun:"table:point_transactions,alias:pt"`
	ID            int64     `bun:"id,pk,autoincrement"`
	UserID        int64     `bun:"user_id,notnull"`
	Amount        int64     `bun:"amount,notnull"`
	Type          string    `bun:"type,notnull,type:varchar(32)"`
	Description   *string   `bun:"description,type:varchar(500)"`
	ChallengeID   *int64    `bun:"challenge_id"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`

	// Populated by ListTransactions via join; not a column.
	ChallengeName *string `bun:"challenge_name,scanonly"`
}

func toTransactionDao(tx *points.Transaction) *TransactionDao {
	dao := &TransactionDao{
		UserID:      tx.UserID,
		Amount:      tx.Amount,
		Type:        string(tx.Type),
		ChallengeID: tx.ChallengeID,
	}
	if tx.Description != "" {
		dao.Description = &tx.Description
	}
	return dao
}

func toTransaction(dao *TransactionDao) *points.Transaction {
	tx := &points.Transaction{
		ID:          dao.ID,
		UserID:      dao.UserID,
		Amount:      dao.Amount,
		Type:        points.Type(dao.Type),
		ChallengeID: dao.ChallengeID,
		CreatedAt:   dao.CreatedAt,
	}
	if dao.Description != nil {
		tx.Description = *dao.Description
	}
	if dao.ChallengeName != nil {
		tx.ChallengeName = *dao.ChallengeName
	}
	return tx
}
