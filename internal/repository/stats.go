package repository

import (
	"context"

	"github.com/remerata/bookcloud/internal/model"
)

const dashboardRecentLimit = 10

func (r *repository) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	var stats model.DashboardStats

	q := `
	select
	    count(*),
	    count(*) filter (where status = 'AVAILABLE'),
	    count(*) filter (where status = 'PENDING'),
	    count(*) filter (where status = 'BORROWED'),
	    count(*) filter (where status = 'RESERVED')
	from books`
	if err := r.db.QueryRowContext(ctx, q).Scan(
		&stats.TotalBooks,
		&stats.AvailableBooks,
		&stats.PendingBooks,
		&stats.BorrowedBooks,
		&stats.ReservedBooks,
	); err != nil {
		return model.DashboardStats{}, dbErr(err)
	}

	topQ := `
	select l.book_uid, b.title, count(*) as cnt
	from ledger l
	join books b on b.book_uid = l.book_uid
	where l.action = 'BORROW' and l.status = 'APPROVED'
	group by l.book_uid, b.title
	order by cnt desc
	limit 5`
	if err := r.db.SelectContext(ctx, &stats.TopBorrowed, topQ); err != nil {
		return model.DashboardStats{}, dbErr(err)
	}

	actQ := `
	select * from activity
	order by created_at desc
	limit $1`
	if err := r.db.SelectContext(ctx, &stats.RecentActivity, actQ, dashboardRecentLimit); err != nil {
		return model.DashboardStats{}, dbErr(err)
	}

	return stats, nil
}

func (r *repository) AppendActivity(ctx context.Context, act model.Activity) error {
	query, args, err := qb.Insert(activityTableName).
		Columns("username", "book_uid", "book_title", "event").
		Values(act.Username, act.BookUid, act.BookTitle, act.Event).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return dbErr(err)
	}
	return nil
}
