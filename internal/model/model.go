package model

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"
)

type BookStatus string

const (
	BookAvailable BookStatus = "AVAILABLE"
	BookPending   BookStatus = "PENDING"
	BookBorrowed  BookStatus = "BORROWED"
	BookReserved  BookStatus = "RESERVED"
)

type Action string

const (
	ActionBorrow  Action = "BORROW"
	ActionReserve Action = "RESERVE"
	ActionReturn  Action = "RETURN"
)

type EntryStatus string

const (
	EntryPending  EntryStatus = "PENDING"
	EntryApproved EntryStatus = "APPROVED"
	EntryRejected EntryStatus = "REJECTED"
	EntryReturned EntryStatus = "RETURNED"
)

// NullString renders as a plain string or null instead of the
// database/sql struct shape.
type NullString struct {
	sql.NullString
}

func NewNullString(s string) NullString {
	return NullString{sql.NullString{String: s, Valid: s != ""}}
}

func (ns NullString) MarshalJSON() ([]byte, error) {
	if !ns.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(ns.String)
}

func (ns *NullString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		ns.Valid = false
		ns.String = ""
		return nil
	}
	if err := json.Unmarshal(b, &ns.String); err != nil {
		return err
	}
	ns.Valid = ns.String != ""
	return nil
}

// Date binds and renders date-only values (2006-01-02).
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

func (d *Date) Scan(src any) error {
	if src == nil {
		*d = Date{}
		return nil
	}
	var nt sql.NullTime
	if err := nt.Scan(src); err != nil {
		return err
	}
	d.Time = nt.Time
	return nil
}

type PendingRequest struct {
	Username string `json:"username"`
	Action   Action `json:"action"`
	Start    Date   `json:"startDate"`
	Due      Date   `json:"dueDate"`
}

type Book struct {
	ID              int        `json:"-" db:"id"`
	BookUid         string     `json:"bookUid" db:"book_uid"`
	Title           string     `json:"title" db:"title"`
	Author          string     `json:"author" db:"author"`
	Genre           NullString `json:"genre" db:"genre"`
	Description     NullString `json:"description" db:"description"`
	PubDate         Date       `json:"pubDate" db:"pub_date"`
	CoverURL        NullString `json:"coverUrl" db:"cover_url"`
	Status          BookStatus `json:"status" db:"status"`
	HolderUsername  NullString `json:"holderUsername" db:"holder_username"`
	DueDate         Date       `json:"dueDate" db:"due_date"`
	PendingUsername NullString `json:"-" db:"pending_username"`
	PendingAction   NullString `json:"-" db:"pending_action"`
	PendingStart    Date       `json:"-" db:"pending_start"`
	PendingDue      Date       `json:"-" db:"pending_due"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
}

// Pending reconstructs the embedded pending request columns, nil when the
// book is not awaiting resolution.
func (b Book) Pending() *PendingRequest {
	if !b.PendingUsername.Valid {
		return nil
	}
	return &PendingRequest{
		Username: b.PendingUsername.String,
		Action:   Action(b.PendingAction.String),
		Start:    b.PendingStart,
		Due:      b.PendingDue,
	}
}

type LedgerEntry struct {
	ID        int         `json:"-" db:"id"`
	EntryUid  string      `json:"entryUid" db:"entry_uid"`
	BookUid   string      `json:"bookUid" db:"book_uid"`
	Username  string      `json:"username" db:"username"`
	Action    Action      `json:"action" db:"action"`
	Status    EntryStatus `json:"status" db:"status"`
	StartDate Date        `json:"startDate" db:"start_date"`
	TillDate  Date        `json:"tillDate" db:"till_date"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
}

type User struct {
	ID           int       `json:"-" db:"id"`
	Username     string    `json:"username" db:"username"`
	FullName     string    `json:"fullname" db:"fullname"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []Book `json:"items"`
}

type ListLedger struct {
	Paging `json:",inline"`
	Items  []LedgerEntry `json:"items"`
}

type CreateBookRequest struct {
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	PubDate     Date   `json:"pubDate"`
	CoverURL    string `json:"coverUrl"`
}

type UpdateBookRequest struct {
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	PubDate     Date   `json:"pubDate"`
	CoverURL    string `json:"coverUrl"`
}

type TransitionRequest struct {
	Action    Action `json:"action" validate:"required,oneof=BORROW RESERVE"`
	StartDate Date   `json:"startDate" validate:"required"`
	TillDate  Date   `json:"tillDate" validate:"required"`
}

type UserCreateRequest struct {
	Username string `json:"username" validate:"required"`
	FullName string `json:"fullname" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=USER ADMIN"`
}

type AuthRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	ExpiresIn   int    `json:"expiresIn"`
	AccessToken string `json:"accessToken"`
}

type TopBook struct {
	BookUid string `json:"bookUid" db:"book_uid"`
	Title   string `json:"title" db:"title"`
	Count   int    `json:"count" db:"cnt"`
}

type Activity struct {
	ID        int       `json:"-" db:"id"`
	Username  string    `json:"username" db:"username"`
	BookUid   string    `json:"bookUid" db:"book_uid"`
	BookTitle string    `json:"bookTitle" db:"book_title"`
	Event     string    `json:"event" db:"event"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type DashboardStats struct {
	TotalBooks     int        `json:"totalBooks"`
	AvailableBooks int        `json:"availableBooks"`
	PendingBooks   int        `json:"pendingBooks"`
	BorrowedBooks  int        `json:"borrowedBooks"`
	ReservedBooks  int        `json:"reservedBooks"`
	TopBorrowed    []TopBook  `json:"topBorrowed"`
	RecentActivity []Activity `json:"recentActivity"`
}

// LendingEvent is the payload published to the lending-events topic.
type LendingEvent struct {
	Event     string    `json:"event"`
	BookUid   string    `json:"bookUid"`
	BookTitle string    `json:"bookTitle"`
	Username  string    `json:"username"`
	At        time.Time `json:"at"`
}
