package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/remerata/bookcloud/internal/errs"
	"github.com/remerata/bookcloud/internal/model"
	"github.com/remerata/bookcloud/internal/repository"
	"github.com/remerata/bookcloud/pkg/auth"
	"github.com/remerata/bookcloud/pkg/kafka"
)

const (
	EventRequestSubmitted = "REQUEST_SUBMITTED"
	EventRequestApproved  = "REQUEST_APPROVED"
	EventRequestRejected  = "REQUEST_REJECTED"
	EventBookReturned     = "BOOK_RETURNED"
)

type Service struct {
	log      *zap.Logger
	repo     repository.Repository
	producer sarama.SyncProducer
	watcher  *Watcher
}

func NewService(repo repository.Repository, producer sarama.SyncProducer, log *zap.Logger) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		producer: producer,
		watcher:  NewWatcher(),
	}
}

func (s *Service) Watcher() *Watcher {
	return s.watcher
}

// --- catalog (administrative override, bypasses the state machine) ---

func (s *Service) GetBook(ctx context.Context, bookUid string) (model.Book, error) {
	return s.repo.GetBook(ctx, bookUid)
}

func (s *Service) ListBooks(ctx context.Context, search string, showAll bool, page, size int) (model.ListBooks, error) {
	return s.repo.ListBooks(ctx, search, showAll, page, size)
}

func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	if !auth.IsAdmin(ctx) {
		return model.Book{}, errs.ErrForbidden
	}
	return s.repo.CreateBook(ctx, req)
}

func (s *Service) UpdateBook(ctx context.Context, bookUid string, req model.UpdateBookRequest) (model.Book, error) {
	if !auth.IsAdmin(ctx) {
		return model.Book{}, errs.ErrForbidden
	}
	return s.repo.UpdateBook(ctx, bookUid, req)
}

func (s *Service) DeleteBook(ctx context.Context, bookUid string) error {
	if !auth.IsAdmin(ctx) {
		return errs.ErrForbidden
	}
	return s.repo.DeleteBook(ctx, bookUid)
}

// --- lending transitions ---

func (s *Service) SubmitRequest(ctx context.Context, bookUid string, req model.TransitionRequest) (model.Book, error) {
	username := auth.UserName(ctx)
	if username == "" {
		return model.Book{}, errs.ErrForbidden
	}

	// at most one unresolved request per book
	pending, err := s.repo.ListPendingForBook(ctx, bookUid)
	if err != nil {
		return model.Book{}, err
	}
	if len(pending) > 0 {
		return model.Book{}, errs.ErrConflict
	}

	return s.transition(ctx, bookUid, EventRequestSubmitted, func(b model.Book) (repository.Transition, error) {
		return submitRequest(b, username, req)
	})
}

func (s *Service) Approve(ctx context.Context, bookUid string) (model.Book, error) {
	if !auth.IsAdmin(ctx) {
		return model.Book{}, errs.ErrForbidden
	}
	return s.transition(ctx, bookUid, EventRequestApproved, approveRequest)
}

func (s *Service) Reject(ctx context.Context, bookUid string) (model.Book, error) {
	if !auth.IsAdmin(ctx) {
		return model.Book{}, errs.ErrForbidden
	}
	return s.transition(ctx, bookUid, EventRequestRejected, rejectRequest)
}

func (s *Service) Return(ctx context.Context, bookUid string) (model.Book, error) {
	caller := auth.UserName(ctx)
	if caller == "" {
		return model.Book{}, errs.ErrForbidden
	}
	isAdmin := auth.IsAdmin(ctx)
	return s.transition(ctx, bookUid, EventBookReturned, func(b model.Book) (repository.Transition, error) {
		return returnBook(b, caller, isAdmin)
	})
}

// transition runs one guard evaluation against fresh state and applies
// the mutation set atomically. A lost CAS is re-evaluated once against
// re-fetched state; the second evaluation normally surfaces the terminal
// guard error instead of retrying blindly.
func (s *Service) transition(
	ctx context.Context,
	bookUid, event string,
	eval func(model.Book) (repository.Transition, error),
) (model.Book, error) {
	const casAttempts = 2

	var lastErr error
	for attempt := 0; attempt < casAttempts; attempt++ {
		book, err := s.repo.GetBook(ctx, bookUid)
		if err != nil {
			return model.Book{}, err
		}
		mut, err := eval(book)
		if err != nil {
			return model.Book{}, err
		}
		if err := s.repo.ApplyTransition(ctx, bookUid, book.Status, mut); err != nil {
			if errors.Is(err, errs.ErrConflict) {
				lastErr = err
				continue
			}
			return model.Book{}, err
		}

		updated, err := s.repo.GetBook(ctx, bookUid)
		if err != nil {
			return model.Book{}, err
		}

		actor := auth.UserName(ctx)
		if mut.AppendEntry != nil {
			actor = mut.AppendEntry.Username
		}
		s.publish(model.LendingEvent{
			Event:     event,
			BookUid:   updated.BookUid,
			BookTitle: updated.Title,
			Username:  actor,
			At:        time.Now().UTC(),
		})
		return updated, nil
	}
	return model.Book{}, lastErr
}

func (s *Service) publish(ev model.LendingEvent) {
	s.watcher.Publish(ev)

	if s.producer == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		s.log.Error("publish marshal", zap.Error(err))
		return
	}
	msg := &sarama.ProducerMessage{
		Topic: kafka.LendingTopic,
		Key:   sarama.StringEncoder(ev.BookUid),
		Value: sarama.StringEncoder(data),
	}
	if _, _, err := s.producer.SendMessage(msg); err != nil {
		// the transition already committed; the activity feed is best effort
		s.log.Error("publish kafka", zap.String("event", ev.Event), zap.Error(err))
	}
}

// --- ledger ---

func (s *Service) ListLedger(ctx context.Context, page, size int) (model.ListLedger, error) {
	username := auth.UserName(ctx)
	if username == "" {
		return model.ListLedger{}, errs.ErrForbidden
	}
	return s.repo.ListLedgerForUser(ctx, username, page, size)
}

func (s *Service) PendingQueue(ctx context.Context) ([]model.LedgerEntry, error) {
	if !auth.IsAdmin(ctx) {
		return nil, errs.ErrForbidden
	}
	return s.repo.ListPendingEntries(ctx)
}

// --- dashboard / activity ---

func (s *Service) Dashboard(ctx context.Context) (model.DashboardStats, error) {
	if !auth.IsAdmin(ctx) {
		return model.DashboardStats{}, errs.ErrForbidden
	}
	return s.repo.DashboardStats(ctx)
}

func (s *Service) RecordActivity(ctx context.Context, ev model.LendingEvent) error {
	return s.repo.AppendActivity(ctx, model.Activity{
		Username:  ev.Username,
		BookUid:   ev.BookUid,
		BookTitle: ev.BookTitle,
		Event:     ev.Event,
	})
}
