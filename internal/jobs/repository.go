package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"jobly/jobs-service/internal/apperr"
	"jobly/jobs-service/internal/companies"
	"jobly/jobs-service/internal/db"
	"jobly/jobs-service/internal/sqlutil"
)

// Postgres error codes surfaced as bad requests.
const (
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

const jobColumns = `id, title, salary, equity::text, company_handle`

// CompanyGetter looks up the company a job belongs to.
type CompanyGetter interface {
	Get(ctx context.Context, handle string) (*companies.Company, error)
}

// Repository runs single-statement queries against the jobs table.
type Repository struct {
	db        db.DBTX
	companies CompanyGetter
}

// NewRepository returns a Repository. companies resolves the nested company
// returned by Get.
func NewRepository(db db.DBTX, companies CompanyGetter) *Repository {
	return &Repository{db: db, companies: companies}
}

// Create inserts a job and returns it with its generated id. The company
// handle is checked by the foreign key only.
func (r *Repository) Create(ctx context.Context, in NewJob) (*Job, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO jobs (title, salary, equity, company_handle)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+jobColumns,
		in.Title, in.Salary, in.Equity, in.CompanyHandle,
	)

	job, err := scanJob(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgForeignKeyViolation:
				return nil, apperr.BadRequest(fmt.Sprintf("No company: %s", in.CompanyHandle))
			case pgCheckViolation:
				return nil, apperr.BadRequest("Invalid job data", pgErr.Message)
			}
		}
		return nil, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

// FindAll lists jobs matching f ordered by title. No match is an empty
// slice, not an error.
func (r *Repository) FindAll(ctx context.Context, f Filter) ([]Summary, error) {
	query, args := BuildFindAllQuery(f)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("findAll jobs query: %w", err)
	}
	defer rows.Close()

	jobs := make([]Summary, 0)
	for rows.Next() {
		var s Summary
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Salary, &s.Equity,
			&s.CompanyHandle, &s.CompanyName,
		); err != nil {
			return nil, fmt.Errorf("findAll jobs scan: %w", err)
		}
		jobs = append(jobs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("findAll jobs rows: %w", err)
	}
	return jobs, nil
}

// Get returns a job with its company nested.
func (r *Repository) Get(ctx context.Context, id int) (*Detail, error) {
	job, err := scanJob(r.db.QueryRow(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs
		 WHERE id = $1`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("No job: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	company, err := r.companies.Get(ctx, job.CompanyHandle)
	if err != nil {
		return nil, fmt.Errorf("get job %d company: %w", id, err)
	}

	return &Detail{
		ID:      job.ID,
		Title:   job.Title,
		Salary:  job.Salary,
		Equity:  job.Equity,
		Company: company,
	}, nil
}

// Update applies the non-nil fields of u to job id.
func (r *Repository) Update(ctx context.Context, id int, u Update) (*Job, error) {
	set, err := sqlutil.PartialUpdate(u.fields(), nil)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`UPDATE jobs
		 SET %s
		 WHERE id = %s
		 RETURNING `+jobColumns,
		set.SQL(), set.NextPlaceholder(),
	)

	job, err := scanJob(r.db.QueryRow(ctx, query, set.Args(id)...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("No job: %d", id)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation {
			return nil, apperr.BadRequest("Invalid job data", pgErr.Message)
		}
		return nil, fmt.Errorf("update job: %w", err)
	}
	return job, nil
}

// Remove deletes job id.
func (r *Repository) Remove(ctx context.Context, id int) error {
	var deleted int
	err := r.db.QueryRow(ctx,
		`DELETE FROM jobs
		 WHERE id = $1
		 RETURNING id`,
		id,
	).Scan(&deleted)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("No job: %d", id)
	}
	if err != nil {
		return fmt.Errorf("remove job: %w", err)
	}
	return nil
}

// fields lists the present columns in a fixed order: title, salary, equity.
func (u Update) fields() []sqlutil.Field {
	var fields []sqlutil.Field
	if u.Title != nil {
		fields = append(fields, sqlutil.Field{Name: "title", Value: *u.Title})
	}
	if u.Salary != nil {
		fields = append(fields, sqlutil.Field{Name: "salary", Value: *u.Salary})
	}
	if u.Equity != nil {
		fields = append(fields, sqlutil.Field{Name: "equity", Value: *u.Equity})
	}
	return fields
}

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	if err := row.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle); err != nil {
		return nil, err
	}
	return &j, nil
}
