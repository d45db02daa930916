// Package users stores accounts and verifies their passwords.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"jobly/jobs-service/internal/apperr"
	"jobly/jobs-service/internal/db"
	"jobly/jobs-service/internal/sqlutil"
)

// DefaultWorkFactor is the bcrypt cost used when none is configured.
const DefaultWorkFactor = 12

// Postgres error codes surfaced as bad requests.
const (
	pgUniqueViolation = "23505"
	pgStringTooLong   = "22001"
	pgCheckViolation  = "23514"
)

const userColumns = `username, first_name, last_name, email, is_admin`

// ErrInvalidCredentials is returned for an unknown user and for a wrong
// password alike, so callers cannot probe which usernames exist.
var ErrInvalidCredentials = apperr.Unauthorized("Invalid username/password")

// User is an account without its password hash.
type User struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
}

// Registration is the input of Register.
type Registration struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
	IsAdmin   bool
}

// Update is a partial account update. Password is hashed before storage.
type Update struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	IsAdmin   *bool
}

// Store wraps the users table.
type Store struct {
	db         db.DBTX
	workFactor int
}

// NewStore returns a Store hashing passwords with the given bcrypt cost.
func NewStore(db db.DBTX, workFactor int) *Store {
	if workFactor <= 0 {
		workFactor = DefaultWorkFactor
	}
	return &Store{db: db, workFactor: workFactor}
}

// Authenticate returns the user when password matches the stored hash.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*User, error) {
	var (
		u    User
		hash string
	)
	err := s.db.QueryRow(ctx,
		`SELECT username, password, first_name, last_name, email, is_admin
		 FROM users
		 WHERE username = $1`,
		username,
	).Scan(&u.Username, &hash, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

// Register hashes the password and inserts a new user.
func (s *Store) Register(ctx context.Context, r Registration) (*User, error) {
	hash, err := s.hash(r.Password)
	if err != nil {
		return nil, err
	}

	u, err := scanUser(s.db.QueryRow(ctx,
		`INSERT INTO users (username, password, first_name, last_name, email, is_admin)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+userColumns,
		r.Username, hash, r.FirstName, r.LastName, r.Email, r.IsAdmin,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return nil, apperr.BadRequest(fmt.Sprintf("Duplicate username: %s", r.Username))
			case pgStringTooLong, pgCheckViolation:
				return nil, apperr.BadRequest("Invalid user data", pgErr.Message)
			}
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	return u, nil
}

// Get returns the user with the given username.
func (s *Store) Get(ctx context.Context, username string) (*User, error) {
	u, err := scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users
		 WHERE username = $1`,
		username,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("No user: %s", username)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Update applies the non-nil fields of up to the given user.
func (s *Store) Update(ctx context.Context, username string, up Update) (*User, error) {
	var fields []sqlutil.Field
	if up.FirstName != nil {
		fields = append(fields, sqlutil.Field{Name: "firstName", Value: *up.FirstName})
	}
	if up.LastName != nil {
		fields = append(fields, sqlutil.Field{Name: "lastName", Value: *up.LastName})
	}
	if up.Email != nil {
		fields = append(fields, sqlutil.Field{Name: "email", Value: *up.Email})
	}
	if up.Password != nil {
		hash, err := s.hash(*up.Password)
		if err != nil {
			return nil, err
		}
		fields = append(fields, sqlutil.Field{Name: "password", Value: hash})
	}
	if up.IsAdmin != nil {
		fields = append(fields, sqlutil.Field{Name: "isAdmin", Value: *up.IsAdmin})
	}

	set, err := sqlutil.PartialUpdate(fields, map[string]string{
		"firstName": "first_name",
		"lastName":  "last_name",
		"isAdmin":   "is_admin",
	})
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`UPDATE users
		 SET %s
		 WHERE username = %s
		 RETURNING `+userColumns,
		set.SQL(), set.NextPlaceholder(),
	)
	u, err := scanUser(s.db.QueryRow(ctx, query, set.Args(username)...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("No user: %s", username)
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func (s *Store) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.workFactor)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Email, &u.IsAdmin); err != nil {
		return nil, err
	}
	return &u, nil
}
