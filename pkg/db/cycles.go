package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/quatton/vitalsync/pkg/db/models"
	"github.com/uptrace/bun"
)

// Outcome reports what an upsert did to the row.
type Outcome int

const (
	Inserted Outcome = iota + 1
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}

var ErrCycleNotFound = errors.New("cycle record not found")

// immutableColumns never change once a row exists.
var immutableColumns = []string{"id", "provider", "user_id", "cycle_id", "created_at"}

type CycleRepository struct {
	db  bun.IDB
	now func() time.Time
}

func NewCycleRepository(db bun.IDB) *CycleRepository {
	return &CycleRepository{db: db, now: time.Now}
}

// Upsert writes rec keyed by rec.ID. The insert-or-update decision is made
// by the database inside one transaction, so two writers racing on the same
// id cannot both insert. rec.UpdatedAt is set to the write time.
func (r *CycleRepository) Upsert(ctx context.Context, rec *models.CycleRecord) (Outcome, error) {
	var outcome Outcome
	rec.UpdatedAt = r.now().UTC()

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewInsert().
			Model(rec).
			On("CONFLICT (id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("insert %s: %w", rec.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 1 {
			outcome = Inserted
			return nil
		}

		res, err = tx.NewUpdate().
			Model(rec).
			ExcludeColumn(immutableColumns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update %s: %w", rec.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("update %s: row vanished during upsert", rec.ID)
		}
		outcome = Updated
		return nil
	})
	if err != nil {
		return 0, err
	}
	return outcome, nil
}

func (r *CycleRepository) Get(ctx context.Context, id string) (*models.CycleRecord, error) {
	rec := new(models.CycleRecord)
	err := r.db.NewSelect().Model(rec).Where("cr.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCycleNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListByUser returns a user's cycles whose start falls in [from, to), oldest
// first. Zero bounds are open.
func (r *CycleRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]models.CycleRecord, error) {
	var recs []models.CycleRecord
	q := r.db.NewSelect().Model(&recs).Where("cr.user_id = ?", userID)
	if !from.IsZero() {
		q = q.Where("cr.start >= ?", from.UTC())
	}
	if !to.IsZero() {
		q = q.Where("cr.start < ?", to.UTC())
	}
	if err := q.OrderExpr("cr.start ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *CycleRepository) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*models.CycleRecord)(nil)).Count(ctx)
}
