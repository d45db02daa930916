// Package companies reads and seeds company rows. Companies are owned by a
// separate part of the board; jobs only look them up by handle.
package companies

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"jobly/jobs-service/internal/apperr"
	"jobly/jobs-service/internal/db"
)

// Company is the JSON shape of a company.
type Company struct {
	Handle       string  `json:"handle"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	NumEmployees *int    `json:"numEmployees"`
	LogoURL      *string `json:"logoUrl"`
}

// Repository wraps the companies table.
type Repository struct {
	db db.DBTX
}

// NewRepository returns a Repository backed by db.
func NewRepository(db db.DBTX) *Repository {
	return &Repository{db: db}
}

// Get returns the company with the given handle.
func (r *Repository) Get(ctx context.Context, handle string) (*Company, error) {
	var c Company
	err := r.db.QueryRow(ctx,
		`SELECT handle, name, description, num_employees, logo_url
		 FROM companies
		 WHERE handle = $1`,
		handle,
	).Scan(&c.Handle, &c.Name, &c.Description, &c.NumEmployees, &c.LogoURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("No company: %s", handle)
	}
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// Create inserts c and returns the stored row.
func (r *Repository) Create(ctx context.Context, c Company) (*Company, error) {
	var out Company
	err := r.db.QueryRow(ctx,
		`INSERT INTO companies (handle, name, description, num_employees, logo_url)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING handle, name, description, num_employees, logo_url`,
		c.Handle, c.Name, c.Description, c.NumEmployees, c.LogoURL,
	).Scan(&out.Handle, &out.Name, &out.Description, &out.NumEmployees, &out.LogoURL)
	if err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}
	return &out, nil
}
