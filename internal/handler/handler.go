package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "github.com/remerata/bookcloud/docs"
	"github.com/remerata/bookcloud/internal/errs"
	"github.com/remerata/bookcloud/internal/model"
	"github.com/remerata/bookcloud/pkg/blob"
	md "github.com/remerata/bookcloud/pkg/middleware"
	"github.com/remerata/bookcloud/pkg/validate"
)

type Config struct {
	// TrustGatewayHeaders switches authentication from bearer-token
	// verification to the X-User-* headers set by an upstream gateway
	// that already verified the token.
	TrustGatewayHeaders bool `yaml:"trustGatewayHeaders" envconfig:"AUTH_TRUST_GATEWAY_HEADERS" default:"false"`
}

type Handler struct {
	cfg        Config
	lendingSvc LendingService
	uploader   *blob.Client
	log        *zap.Logger
}

func New(cfg Config, lendingSvc LendingService, uploader *blob.Client, log *zap.Logger) *Handler {
	return &Handler{
		cfg:        cfg,
		lendingSvc: lendingSvc,
		uploader:   uploader,
		log:        log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/register", h.Register)
	api.POST("/authorize", h.Authorize)

	authMW := md.JwtAuthentication
	if h.cfg.TrustGatewayHeaders {
		authMW = md.AuthContext
	}
	authed := api.Group("", authMW)

	authed.GET("/books", h.ListBooks)
	authed.GET("/books/watch", h.WatchBooks)
	authed.GET("/books/:bookUid", h.GetBook)
	authed.POST("/books", h.CreateBook)
	authed.PUT("/books/:bookUid", h.UpdateBook)
	authed.DELETE("/books/:bookUid", h.DeleteBook)

	authed.POST("/books/:bookUid/request", h.SubmitRequest)
	authed.POST("/books/:bookUid/approve", h.Approve)
	authed.POST("/books/:bookUid/reject", h.Reject)
	authed.POST("/books/:bookUid/return", h.Return)

	authed.GET("/ledger", h.ListLedger)
	authed.GET("/ledger/pending", h.PendingQueue)
	authed.GET("/dashboard", h.Dashboard)
	authed.POST("/covers", h.UploadCover)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps the service error taxonomy onto HTTP statuses.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrInvalidState), errors.Is(err, errs.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, errs.ErrUserExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// Register godoc
// @Summary  Register a new user
// @Tags     auth
// @Accept   json
// @Param    request body model.UserCreateRequest true "user"
// @Success  201 {string} string "ok"
// @Router   /register [post]
func (h *Handler) Register(c echo.Context) error {
	var req model.UserCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.lendingSvc.Register(c.Request().Context(), req); err != nil {
		return httpError(err)
	}
	return c.String(http.StatusCreated, "ok")
}

// Authorize godoc
// @Summary  Exchange credentials for an access token
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    request body model.AuthRequest true "credentials"
// @Success  200 {object} model.AuthResponse
// @Router   /authorize [post]
func (h *Handler) Authorize(c echo.Context) error {
	var req model.AuthRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	resp, err := h.lendingSvc.Authorize(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ListBooks godoc
// @Summary  List catalog books
// @Tags     books
// @Produce  json
// @Param    search  query string false "title/author substring"
// @Param    showAll query bool   false "include non-available books"
// @Param    page    query int    false "page"
// @Param    size    query int    false "page size"
// @Success  200 {object} model.ListBooks
// @Security Bearer
// @Router   /books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		err     error
		page    int
		size    int
		showAll bool
	)
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if page, err = strconv.Atoi(pageParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("page is invalid"))
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if size, err = strconv.Atoi(sizeParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("size is invalid"))
		}
	}
	if showAllParam := c.QueryParam("showAll"); showAllParam != "" {
		if showAll, err = strconv.ParseBool(showAllParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("showAll is invalid"))
		}
	}

	books, err := h.lendingSvc.ListBooks(ctx, c.QueryParam("search"), showAll, page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

// GetBook godoc
// @Summary  Get a single book
// @Tags     books
// @Produce  json
// @Param    bookUid path string true "book uid"
// @Success  200 {object} model.Book
// @Security Bearer
// @Router   /books/{bookUid} [get]
func (h *Handler) GetBook(c echo.Context) error {
	bookUid := c.Param("bookUid")
	book, err := h.lendingSvc.GetBook(c.Request().Context(), bookUid)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// CreateBook godoc
// @Summary  Add a book to the catalog (admin)
// @Tags     books
// @Accept   json
// @Produce  json
// @Param    request body model.CreateBookRequest true "book"
// @Success  201 {object} model.Book
// @Security Bearer
// @Router   /books [post]
func (h *Handler) CreateBook(c echo.Context) error {
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	book, err := h.lendingSvc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

// UpdateBook godoc
// @Summary  Edit a book (admin)
// @Tags     books
// @Accept   json
// @Produce  json
// @Param    bookUid path string true "book uid"
// @Param    request body model.UpdateBookRequest true "book"
// @Success  200 {object} model.Book
// @Security Bearer
// @Router   /books/{bookUid} [put]
func (h *Handler) UpdateBook(c echo.Context) error {
	bookUid := c.Param("bookUid")
	var req model.UpdateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	book, err := h.lendingSvc.UpdateBook(c.Request().Context(), bookUid, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// DeleteBook godoc
// @Summary  Delete a book (admin)
// @Tags     books
// @Param    bookUid path string true "book uid"
// @Success  204
// @Security Bearer
// @Router   /books/{bookUid} [delete]
func (h *Handler) DeleteBook(c echo.Context) error {
	bookUid := c.Param("bookUid")
	if err := h.lendingSvc.DeleteBook(c.Request().Context(), bookUid); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SubmitRequest godoc
// @Summary  Request to borrow or reserve an available book
// @Tags     lending
// @Accept   json
// @Produce  json
// @Param    bookUid path string true "book uid"
// @Param    request body model.TransitionRequest true "request"
// @Success  200 {object} model.Book
// @Security Bearer
// @Router   /books/{bookUid}/request [post]
func (h *Handler) SubmitRequest(c echo.Context) error {
	bookUid := c.Param("bookUid")
	if bookUid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "bookUid is empty")
	}
	var req model.TransitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	book, err := h.lendingSvc.SubmitRequest(c.Request().Context(), bookUid, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// Approve godoc
// @Summary  Approve the pending request on a book (admin)
// @Tags     lending
// @Produce  json
// @Param    bookUid path string true "book uid"
// @Success  200 {object} model.Book
// @Security Bearer
// @Router   /books/{bookUid}/approve [post]
func (h *Handler) Approve(c echo.Context) error {
	book, err := h.lendingSvc.Approve(c.Request().Context(), c.Param("bookUid"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// Reject godoc
// @Summary  Reject the pending request on a book (admin)
// @Tags     lending
// @Produce  json
// @Param    bookUid path string true "book uid"
// @Success  200 {object} model.Book
// @Security Bearer
// @Router   /books/{bookUid}/reject [post]
func (h *Handler) Reject(c echo.Context) error {
	book, err := h.lendingSvc.Reject(c.Request().Context(), c.Param("bookUid"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// Return godoc
// @Summary  Return a borrowed or reserved book
// @Tags     lending
// @Produce  json
// @Param    bookUid path string true "book uid"
// @Success  200 {object} model.Book
// @Security Bearer
// @Router   /books/{bookUid}/return [post]
func (h *Handler) Return(c echo.Context) error {
	book, err := h.lendingSvc.Return(c.Request().Context(), c.Param("bookUid"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// ListLedger godoc
// @Summary  The caller's lending history, newest first
// @Tags     ledger
// @Produce  json
// @Param    page query int false "page"
// @Param    size query int false "page size"
// @Success  200 {object} model.ListLedger
// @Security Bearer
// @Router   /ledger [get]
func (h *Handler) ListLedger(c echo.Context) error {
	var (
		err  error
		page int
		size int
	)
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if page, err = strconv.Atoi(pageParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("page is invalid"))
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if size, err = strconv.Atoi(sizeParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("size is invalid"))
		}
	}
	ledger, err := h.lendingSvc.ListLedger(c.Request().Context(), page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ledger)
}

// PendingQueue godoc
// @Summary  All unresolved requests, oldest first (admin)
// @Tags     ledger
// @Produce  json
// @Success  200 {array} model.LedgerEntry
// @Security Bearer
// @Router   /ledger/pending [get]
func (h *Handler) PendingQueue(c echo.Context) error {
	entries, err := h.lendingSvc.PendingQueue(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

// Dashboard godoc
// @Summary  Catalog and activity statistics (admin)
// @Tags     dashboard
// @Produce  json
// @Success  200 {object} model.DashboardStats
// @Security Bearer
// @Router   /dashboard [get]
func (h *Handler) Dashboard(c echo.Context) error {
	stats, err := h.lendingSvc.Dashboard(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// UploadCover godoc
// @Summary  Upload a cover image, returns its stable URL
// @Tags     books
// @Accept   mpfd
// @Produce  json
// @Param    file formData file true "image"
// @Success  200 {object} map[string]string
// @Security Bearer
// @Router   /covers [post]
func (h *Handler) UploadCover(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer f.Close() //nolint:errcheck

	url, err := h.uploader.Upload(c.Request().Context(), fh.Filename, f)
	if err != nil {
		h.log.Error("cover upload", zap.Error(err))
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"coverUrl": url})
}
