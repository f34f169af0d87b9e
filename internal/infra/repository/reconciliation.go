package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"gotrip-checkout/internal/domain/payment"
	"gotrip-checkout/internal/infra"
	"gotrip-checkout/internal/usecase/commands"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	findReconciliationSQL = `
SELECT outcome
FROM payment_reconciliations
WHERE key = $1`

	insertReconciliationSQL = `
INSERT INTO payment_reconciliations (key, txn_ref, response_code, state, path, outcome, decided_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (key) DO NOTHING`
)

// ReconciliationRepository is the ledger of decided payment outcomes. The first decision for a
// gateway transaction wins; later saves for the same key are ignored.
type ReconciliationRepository struct {
	db     DBTX
	logger *slog.Logger
}

func NewReconciliationRepository(db DBTX, logger *slog.Logger) *ReconciliationRepository {
	return &ReconciliationRepository{db: db, logger: logger}
}

func (r *ReconciliationRepository) Find(ctx context.Context, key string) (*payment.Outcome, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, findReconciliationSQL, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "reconciliation not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find reconciliation", err)
	}

	var o payment.Outcome
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to decode reconciliation outcome", err)
	}
	return &o, nil
}

func (r *ReconciliationRepository) Save(ctx context.Context, rec commands.ReconciliationRecord) error {
	raw, err := json.Marshal(rec.Outcome)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to encode reconciliation outcome", err)
	}

	tag, err := r.db.Exec(ctx, insertReconciliationSQL,
		rec.Key,
		rec.TxnRef,
		rec.ResponseCode,
		string(rec.Outcome.State),
		string(rec.Outcome.Path),
		raw,
		rec.DecidedAt,
	)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to save reconciliation", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug("reconciliation already recorded", "key", rec.Key)
	}
	return nil
}
