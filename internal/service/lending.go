package service

import (
	"github.com/google/uuid"

	"github.com/remerata/bookcloud/internal/errs"
	"github.com/remerata/bookcloud/internal/model"
	"github.com/remerata/bookcloud/internal/repository"
)

// The lending state machine. Each function evaluates one event against
// the book's current state and returns the full mutation set to apply
// atomically, without touching storage itself.
//
//	AVAILABLE --request--> PENDING --approve--> BORROWED | RESERVED
//	                          |                      |
//	                       reject                  return
//	                          v                      v
//	                      AVAILABLE              AVAILABLE

func submitRequest(book model.Book, username string, req model.TransitionRequest) (repository.Transition, error) {
	if book.Status != model.BookAvailable {
		return repository.Transition{}, errs.ErrConflict
	}
	entry := model.LedgerEntry{
		EntryUid:  uuid.NewString(),
		BookUid:   book.BookUid,
		Username:  username,
		Action:    req.Action,
		Status:    model.EntryPending,
		StartDate: req.StartDate,
		TillDate:  req.TillDate,
	}
	return repository.Transition{
		Book: repository.BookMutation{
			Status: model.BookPending,
			Pending: &model.PendingRequest{
				Username: username,
				Action:   req.Action,
				Start:    req.StartDate,
				Due:      req.TillDate,
			},
		},
		AppendEntry: &entry,
	}, nil
}

func approveRequest(book model.Book) (repository.Transition, error) {
	p := book.Pending()
	if book.Status != model.BookPending || p == nil {
		return repository.Transition{}, errs.ErrInvalidState
	}
	to := model.BookBorrowed
	if p.Action == model.ActionReserve {
		to = model.BookReserved
	}
	return repository.Transition{
		Book: repository.BookMutation{
			Status:  to,
			Holder:  p.Username,
			DueDate: p.Due,
		},
		ResolveEntry: model.EntryApproved,
	}, nil
}

func rejectRequest(book model.Book) (repository.Transition, error) {
	if book.Status != model.BookPending {
		return repository.Transition{}, errs.ErrInvalidState
	}
	return repository.Transition{
		Book:         repository.BookMutation{Status: model.BookAvailable},
		ResolveEntry: model.EntryRejected,
	}, nil
}

func returnBook(book model.Book, caller string, isAdmin bool) (repository.Transition, error) {
	if book.Status != model.BookBorrowed && book.Status != model.BookReserved {
		return repository.Transition{}, errs.ErrInvalidState
	}
	if !isAdmin && book.HolderUsername.String != caller {
		return repository.Transition{}, errs.ErrForbidden
	}
	entry := model.LedgerEntry{
		EntryUid: uuid.NewString(),
		BookUid:  book.BookUid,
		Username: book.HolderUsername.String,
		Action:   model.ActionReturn,
		Status:   model.EntryReturned,
	}
	return repository.Transition{
		Book:        repository.BookMutation{Status: model.BookAvailable},
		AppendEntry: &entry,
	}, nil
}
