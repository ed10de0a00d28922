package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/remerata/bookcloud/internal/errs"
	"github.com/remerata/bookcloud/internal/model"
)

type Repository interface {
	GetBook(ctx context.Context, bookUid string) (model.Book, error)
	ListBooks(ctx context.Context, search string, showAll bool, page, size int) (model.ListBooks, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, bookUid string, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, bookUid string) error
	ApplyTransition(ctx context.Context, bookUid string, expected model.BookStatus, mut Transition) error

	ListPendingForBook(ctx context.Context, bookUid string) ([]model.LedgerEntry, error)
	ListPendingEntries(ctx context.Context) ([]model.LedgerEntry, error)
	ListLedgerForUser(ctx context.Context, username string, page, size int) (model.ListLedger, error)

	CreateUser(ctx context.Context, user model.User) error
	GetUser(ctx context.Context, username string) (model.User, error)

	DashboardStats(ctx context.Context) (model.DashboardStats, error)
	AppendActivity(ctx context.Context, act model.Activity) error
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName    = `books`
	ledgerTableName   = `ledger`
	usersTableName    = `users`
	activityTableName = `activity`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// dbErr maps driver failures onto the service error taxonomy.
func dbErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return errs.ErrConflict
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errs.ErrNotFound
	}
	return errors.Wrapf(errs.ErrUnavailable, "db: %v", err)
}

func (r *repository) GetBook(ctx context.Context, bookUid string) (model.Book, error) {
	query, args, err := qb.Select("*").
		From(booksTableName).
		Where(sq.Eq{"book_uid": bookUid}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		return model.Book{}, dbErr(err)
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context, search string, showAll bool, page, size int) (model.ListBooks, error) {
	q := qb.Select("*").
		From(booksTableName).
		OrderBy("created_at desc")

	if search != "" {
		like := "%" + search + "%"
		q = q.Where(sq.Or{
			sq.ILike{"title": like},
			sq.ILike{"author": like},
		})
	}
	if !showAll {
		q = q.Where(sq.Eq{"status": model.BookAvailable})
	}
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return model.ListBooks{}, dbErr(err)
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(books),
		},
		Items: books,
	}, nil
}

func (r *repository) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("book_uid", "title", "author", "genre", "description", "pub_date", "cover_url", "status").
		Values(uuid.New(), req.Title, req.Author, nullStr(req.Genre), nullStr(req.Description),
			req.PubDate, nullStr(req.CoverURL), model.BookAvailable).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		r.log.Error("CreateBook", zap.String("q", query), zap.Error(err))
		return model.Book{}, dbErr(err)
	}
	return book, nil
}

func (r *repository) UpdateBook(ctx context.Context, bookUid string, req model.UpdateBookRequest) (model.Book, error) {
	query, args, err := qb.Update(booksTableName).
		Set("title", req.Title).
		Set("author", req.Author).
		Set("genre", nullStr(req.Genre)).
		Set("description", nullStr(req.Description)).
		Set("pub_date", req.PubDate).
		Set("cover_url", nullStr(req.CoverURL)).
		Where(sq.Eq{"book_uid": bookUid}).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		return model.Book{}, dbErr(err)
	}
	return book, nil
}

func (r *repository) DeleteBook(ctx context.Context, bookUid string) error {
	query, args, err := qb.Delete(booksTableName).
		Where(sq.Eq{"book_uid": bookUid}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return dbErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 { //nolint:errcheck
		return errs.ErrNotFound
	}
	return nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
