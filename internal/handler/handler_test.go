package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/remerata/bookcloud/internal/errs"
	"github.com/remerata/bookcloud/internal/handler"
	service_mocks "github.com/remerata/bookcloud/internal/handler/mocks"
	"github.com/remerata/bookcloud/internal/model"
	"github.com/remerata/bookcloud/pkg/auth"
	"github.com/remerata/bookcloud/pkg/validate"
)

func date(s string) model.Date {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return model.Date{Time: t}
}

func TestHandler_ListBooks(t *testing.T) {
	t.Parallel()
	type input struct {
		search     string
		page, size int
		showAll    bool
	}
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLendingService, req input)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		input        input
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLendingService, req input) {
				r.EXPECT().
					ListBooks(context.Background(), req.search, req.showAll, req.page, req.size).
					Return(model.ListBooks{
						Paging: model.Paging{
							Page:          req.page,
							PageSize:      req.size,
							TotalElements: 1,
						},
						Items: []model.Book{
							{
								BookUid: "f7cdc58f-2caf-4b15-9727-f89dcc629b27",
								Title:   "The Pragmatic Programmer",
								Author:  "Hunt & Thomas",
								Status:  model.BookAvailable,
							},
						},
					}, nil)
			},
			input: input{},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"page":0,"pageSize":0,"totalElements":1,"items":[{"bookUid":"f7cdc58f-2caf-4b15-9727-f89dcc629b27","title":"The Pragmatic Programmer","author":"Hunt & Thomas","genre":null,"description":null,"pubDate":null,"coverUrl":null,"status":"AVAILABLE","holderUsername":null,"dueDate":null,"createdAt":"0001-01-01T00:00:00Z"}]}`,
			},
		},
		{
			name: "err. internal",
			mockBehavior: func(r *service_mocks.MockLendingService, req input) {
				r.EXPECT().
					ListBooks(context.Background(), req.search, req.showAll, req.page, req.size).
					Return(model.ListBooks{}, errors.New("db internal"))
			},
			input: input{},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLendingService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(handler.Config{}, svc, nil, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.GET("/books", h.ListBooks)

			r := httptest.NewRequest(http.MethodGet,
				fmt.Sprintf("/books?search=%s&page=%d&size=%d&showAll=%v",
					tt.input.search, tt.input.page, tt.input.size, tt.input.showAll), http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc, tt.input)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_SubmitRequest(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLendingService)

	const bookUid = "0d3eaf9f-3155-46e7-a9b2-6c1b011dfa74"
	transitionReq := model.TransitionRequest{
		Action:    model.ActionBorrow,
		StartDate: date("2026-09-01"),
		TillDate:  date("2026-09-15"),
	}

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"action":"BORROW","startDate":"2026-09-01","tillDate":"2026-09-15"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				pending := model.Book{
					BookUid:         bookUid,
					Title:           "The Pragmatic Programmer",
					Author:          "Hunt & Thomas",
					Status:          model.BookPending,
					PendingUsername: model.NewNullString("alice"),
					PendingAction:   model.NewNullString("BORROW"),
				}
				r.EXPECT().
					SubmitRequest(context.Background(), bookUid, transitionReq).
					Return(pending, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"bookUid":"0d3eaf9f-3155-46e7-a9b2-6c1b011dfa74","title":"The Pragmatic Programmer","author":"Hunt & Thomas","genre":null,"description":null,"pubDate":null,"coverUrl":null,"status":"PENDING","holderUsername":null,"dueDate":null,"createdAt":"0001-01-01T00:00:00Z"}`,
			},
		},
		{
			name:         "err. bad action",
			body:         `{"action":"STEAL","startDate":"2026-09-01","tillDate":"2026-09-15"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
		{
			name: "err. busy book",
			body: `{"action":"BORROW","startDate":"2026-09-01","tillDate":"2026-09-15"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					SubmitRequest(context.Background(), bookUid, transitionReq).
					Return(model.Book{}, errs.ErrConflict)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"conflict"}`,
			},
		},
		{
			name: "err. book missing",
			body: `{"action":"BORROW","startDate":"2026-09-01","tillDate":"2026-09-15"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					SubmitRequest(context.Background(), bookUid, transitionReq).
					Return(model.Book{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLendingService(c)
			h := handler.New(handler.Config{}, svc, nil, zap.NewExample().Named("test"))

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/books/:bookUid/request", h.SubmitRequest)

			r := httptest.NewRequest(http.MethodPost, "/books/"+bookUid+"/request", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_Approve(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockLendingService)

	const bookUid = "0d3eaf9f-3155-46e7-a9b2-6c1b011dfa74"

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					Approve(context.Background(), bookUid).
					Return(model.Book{
						BookUid:        bookUid,
						Title:          "The Pragmatic Programmer",
						Author:         "Hunt & Thomas",
						Status:         model.BookBorrowed,
						HolderUsername: model.NewNullString("alice"),
					}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"bookUid":"0d3eaf9f-3155-46e7-a9b2-6c1b011dfa74","title":"The Pragmatic Programmer","author":"Hunt & Thomas","genre":null,"description":null,"pubDate":null,"coverUrl":null,"status":"BORROWED","holderUsername":"alice","dueDate":null,"createdAt":"0001-01-01T00:00:00Z"}`,
		},
		{
			name: "err. forbidden",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					Approve(context.Background(), bookUid).
					Return(model.Book{}, errs.ErrForbidden)
			},
			expectedCode: http.StatusForbidden,
			expectedBody: `{"message":"forbidden"}`,
		},
		{
			name: "err. not pending",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					Approve(context.Background(), bookUid).
					Return(model.Book{}, errs.ErrInvalidState)
			},
			expectedCode: http.StatusConflict,
			expectedBody: `{"message":"invalid state"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLendingService(c)
			h := handler.New(handler.Config{}, svc, nil, zap.NewExample().Named("test"))

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/books/:bookUid/approve", h.Approve)

			r := httptest.NewRequest(http.MethodPost, "/books/"+bookUid+"/approve", http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_AuthModes(t *testing.T) {
	t.Parallel()

	t.Run("gateway headers accepted when trusted", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		svc := service_mocks.NewMockLendingService(c)
		svc.EXPECT().
			ListBooks(gomock.Any(), "", false, 0, 0).
			Return(model.ListBooks{}, nil)
		h := handler.New(handler.Config{TrustGatewayHeaders: true}, svc, nil, zap.NewExample().Named("test"))
		e := h.NewRouter()

		r := httptest.NewRequest(http.MethodGet, "/api/v1/books", http.NoBody)
		r.Header.Set(auth.XUserNameHeader, "alice")
		r.Header.Set(auth.XUserRoleHeader, auth.RoleUser)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("gateway mode rejects requests without user headers", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		svc := service_mocks.NewMockLendingService(c)
		h := handler.New(handler.Config{TrustGatewayHeaders: true}, svc, nil, zap.NewExample().Named("test"))
		e := h.NewRouter()

		r := httptest.NewRequest(http.MethodGet, "/api/v1/books", http.NoBody)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bearer mode rejects a missing token", func(t *testing.T) {
		t.Parallel()
		c := gomock.NewController(t)
		defer c.Finish()
		svc := service_mocks.NewMockLendingService(c)
		h := handler.New(handler.Config{}, svc, nil, zap.NewExample().Named("test"))
		e := h.NewRouter()

		r := httptest.NewRequest(http.MethodGet, "/api/v1/books", http.NoBody)
		r.Header.Set(auth.XUserNameHeader, "alice")
		r.Header.Set(auth.XUserRoleHeader, auth.RoleUser)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)

		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandler_Register(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockLendingService)

	userReq := model.UserCreateRequest{
		Username: "alice",
		FullName: "Alice Liddell",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	}

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		expectedCode int
	}{
		{
			name: "created",
			body: `{"username":"alice","fullname":"Alice Liddell","email":"alice@example.com","password":"s3cret-pass"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					Register(context.Background(), userReq).
					Return(nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "err. duplicate",
			body: `{"username":"alice","fullname":"Alice Liddell","email":"alice@example.com","password":"s3cret-pass"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					Register(context.Background(), userReq).
					Return(errs.ErrUserExists)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name:         "err. missing email",
			body:         `{"username":"alice","fullname":"Alice Liddell","password":"s3cret-pass"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			expectedCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLendingService(c)
			h := handler.New(handler.Config{}, svc, nil, zap.NewExample().Named("test"))

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/register", h.Register)

			r := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
		})
	}
}
