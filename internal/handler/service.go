package handler

import (
	"context"

	"github.com/remerata/bookcloud/internal/model"
	"github.com/remerata/bookcloud/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LendingService interface {
	GetBook(ctx context.Context, bookUid string) (model.Book, error)
	ListBooks(ctx context.Context, search string, showAll bool, page, size int) (model.ListBooks, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, bookUid string, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, bookUid string) error

	SubmitRequest(ctx context.Context, bookUid string, req model.TransitionRequest) (model.Book, error)
	Approve(ctx context.Context, bookUid string) (model.Book, error)
	Reject(ctx context.Context, bookUid string) (model.Book, error)
	Return(ctx context.Context, bookUid string) (model.Book, error)

	ListLedger(ctx context.Context, page, size int) (model.ListLedger, error)
	PendingQueue(ctx context.Context) ([]model.LedgerEntry, error)
	Dashboard(ctx context.Context) (model.DashboardStats, error)

	Register(ctx context.Context, req model.UserCreateRequest) error
	Authorize(ctx context.Context, req model.AuthRequest) (model.AuthResponse, error)

	Watcher() *service.Watcher
}

var _ LendingService = (*service.Service)(nil)
