package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/remerata/bookcloud/internal/errs"
	"github.com/remerata/bookcloud/internal/model"
)

// BookMutation is the full post-transition shape of the lending columns.
// Absent values clear their columns, so every transition writes a
// consistent row rather than patching fields one by one.
type BookMutation struct {
	Status  model.BookStatus
	Holder  string
	DueDate model.Date
	Pending *model.PendingRequest
}

// Transition is applied in a single transaction: the book row is updated
// only if its status still equals the expected one, and the ledger
// mutations land in the same transaction. Zero rows on the guarded update
// means another writer won the race.
type Transition struct {
	Book        BookMutation
	AppendEntry *model.LedgerEntry
	// ResolveEntry moves the book's single PENDING ledger entry to the
	// given terminal status.
	ResolveEntry model.EntryStatus
}

func (r *repository) ApplyTransition(ctx context.Context, bookUid string, expected model.BookStatus, mut Transition) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return dbErr(err)
	}
	defer tx.Rollback() //nolint:errcheck

	upd := qb.Update(booksTableName).
		Set("status", mut.Book.Status).
		Set("holder_username", nullStr(mut.Book.Holder)).
		Set("due_date", mut.Book.DueDate)

	if p := mut.Book.Pending; p != nil {
		upd = upd.
			Set("pending_username", p.Username).
			Set("pending_action", string(p.Action)).
			Set("pending_start", p.Start).
			Set("pending_due", p.Due)
	} else {
		upd = upd.
			Set("pending_username", nil).
			Set("pending_action", nil).
			Set("pending_start", nil).
			Set("pending_due", nil)
	}

	query, args, err := upd.
		Where(sq.Eq{"book_uid": bookUid, "status": expected}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return dbErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbErr(err)
	}
	if n == 0 {
		// the guarded update lost: either the book is gone or a
		// concurrent transition landed first
		var exists bool
		if err := tx.GetContext(ctx, &exists,
			`select exists (select 1 from books where book_uid = $1)`, bookUid); err != nil {
			return dbErr(err)
		}
		if !exists {
			return errs.ErrNotFound
		}
		return errs.ErrConflict
	}

	if mut.ResolveEntry != "" {
		query, args, err := qb.Update(ledgerTableName).
			Set("status", mut.ResolveEntry).
			Where(sq.Eq{"book_uid": bookUid, "status": model.EntryPending}).
			ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return dbErr(err)
		}
		if n, _ := res.RowsAffected(); n == 0 { //nolint:errcheck
			return errors.Wrap(errs.ErrNotFound, "pending ledger entry")
		}
	}

	if e := mut.AppendEntry; e != nil {
		query, args, err := qb.Insert(ledgerTableName).
			Columns("entry_uid", "book_uid", "username", "action", "status", "start_date", "till_date").
			Values(e.EntryUid, e.BookUid, e.Username, e.Action, e.Status, e.StartDate, e.TillDate).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.log.Error("ApplyTransition append", zap.String("bookUid", bookUid), zap.Error(err))
			return dbErr(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return dbErr(err)
	}
	return nil
}

func (r *repository) ListPendingForBook(ctx context.Context, bookUid string) ([]model.LedgerEntry, error) {
	query, args, err := qb.Select("*").
		From(ledgerTableName).
		Where(sq.Eq{"book_uid": bookUid, "status": model.EntryPending}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.LedgerEntry
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, dbErr(err)
	}
	return items, nil
}

func (r *repository) ListPendingEntries(ctx context.Context) ([]model.LedgerEntry, error) {
	query, args, err := qb.Select("*").
		From(ledgerTableName).
		Where(sq.Eq{"status": model.EntryPending}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.LedgerEntry
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, dbErr(err)
	}
	return items, nil
}

func (r *repository) ListLedgerForUser(ctx context.Context, username string, page, size int) (model.ListLedger, error) {
	q := qb.Select("*").
		From(ledgerTableName).
		Where(sq.Eq{"username": username}).
		OrderBy("created_at desc")

	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListLedger{}, err
	}
	var items []model.LedgerEntry
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return model.ListLedger{}, dbErr(err)
	}
	return model.ListLedger{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(items),
		},
		Items: items,
	}, nil
}
