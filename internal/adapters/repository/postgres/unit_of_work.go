package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tjanuki/storage-manager/internal/core/port"
)

type sqlUnitOfWork struct {
	db *sql.DB
	tx *sql.Tx
}

// NewUnitOfWork creates a unit of work bound to db
func NewUnitOfWork(db *sql.DB) port.UnitOfWork {
	return &sqlUnitOfWork{db: db}
}

func (u *sqlUnitOfWork) querier() SQLQuerier {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *sqlUnitOfWork) VideoRepo() port.VideoRepository {
	return NewSqlVideoRepository(u.querier())
}

func (u *sqlUnitOfWork) TagRepo() port.TagRepository {
	return NewSqlTagRepository(u.querier())
}

func (u *sqlUnitOfWork) VideoTagRepo() port.VideoTagRepository {
	return NewSqlVideoTagRepository(u.querier())
}

// Execute runs fn inside a transaction. Nested calls reuse the outer transaction.
func (u *sqlUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&sqlUnitOfWork{db: u.db, tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
