package migrations

import (
	"context"

	"github.com/quatton/vitalsync/pkg/db/models"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewCreateTable().
			Model((*models.CycleRecord)(nil)).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return err
		}

		_, err = db.NewCreateIndex().
			Model((*models.CycleRecord)(nil)).
			Index("cycle_records_user_start_idx").
			IfNotExists().
			Column("user_id", "start").
			Exec(ctx)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewDropIndex().
			Model((*models.CycleRecord)(nil)).
			IfExists().
			Index("cycle_records_user_start_idx").
			Exec(ctx)
		if err != nil {
			return err
		}

		_, err = db.NewDropTable().Model((*models.CycleRecord)(nil)).IfExists().Exec(ctx)
		return err
	})
}
