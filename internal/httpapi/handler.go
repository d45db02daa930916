// Package httpapi implements the HTTP handlers of the jobs service.
//
// Routes:
//
//	POST   /auth/token          → token for valid credentials
//	POST   /auth/register       → create a non-admin account, return token
//	POST   /jobs                → create job (admin)
//	GET    /jobs                → list jobs, optional title/minSalary/hasEquity
//	GET    /jobs/{id}           → job with its company
//	PATCH  /jobs/{id}           → partial update of title/salary/equity (admin)
//	DELETE /jobs/{id}           → remove job (admin)
//	GET    /users/{username}    → account details (admin)
//	PATCH  /users/{username}    → partial account update (admin)
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"jobly/jobs-service/internal/apperr"
	"jobly/jobs-service/internal/events"
	"jobly/jobs-service/internal/jobs"
	"jobly/jobs-service/internal/middleware"
	"jobly/jobs-service/internal/users"
)

// ─── Dependencies ────────────────────────────────────────────────────────────

// JobStore is the job repository as seen by the handlers.
type JobStore interface {
	Create(ctx context.Context, in jobs.NewJob) (*jobs.Job, error)
	FindAll(ctx context.Context, f jobs.Filter) ([]jobs.Summary, error)
	Get(ctx context.Context, id int) (*jobs.Detail, error)
	Update(ctx context.Context, id int, u jobs.Update) (*jobs.Job, error)
	Remove(ctx context.Context, id int) error
}

// UserStore is the account store as seen by the handlers.
type UserStore interface {
	Authenticate(ctx context.Context, username, password string) (*users.User, error)
	Register(ctx context.Context, r users.Registration) (*users.User, error)
	Get(ctx context.Context, username string) (*users.User, error)
	Update(ctx context.Context, username string, u users.Update) (*users.User, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(username string, isAdmin bool) (string, error)
}

// ─── Handler ─────────────────────────────────────────────────────────────────

// Handler holds shared dependencies.
type Handler struct {
	jobs     JobStore
	users    UserStore
	tokens   TokenIssuer
	events   events.Publisher
	validate *validator.Validate
	now      func() time.Time
}

// NewHandler returns a configured Handler. A nil publisher disables events.
func NewHandler(js JobStore, us UserStore, tokens TokenIssuer, pub events.Publisher) *Handler {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Handler{
		jobs:     js,
		users:    us,
		tokens:   tokens,
		events:   pub,
		validate: newValidator(),
		now:      time.Now,
	}
}

// RegisterRoutes mounts all routes on mux. Admin routes expect the
// Authenticate middleware to run before the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	admin := func(fn http.HandlerFunc) http.Handler { return middleware.RequireAdmin(fn) }

	mux.HandleFunc("POST /auth/token", h.token)
	mux.HandleFunc("POST /auth/register", h.register)

	mux.Handle("POST /jobs", admin(h.createJob))
	mux.HandleFunc("GET /jobs", h.listJobs)
	mux.HandleFunc("GET /jobs/{id}", h.getJob)
	mux.Handle("PATCH /jobs/{id}", admin(h.updateJob))
	mux.Handle("DELETE /jobs/{id}", admin(h.deleteJob))

	mux.Handle("GET /users/{username}", admin(h.getUser))
	mux.Handle("PATCH /users/{username}", admin(h.updateUser))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		h.writeError(w, r, apperr.NotFound("Not Found"))
	})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", slog.String("error", err.Error()))
	}
}

// writeError is the single error responder. Internal causes are logged with
// the request id and replaced by a generic message.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		slog.ErrorContext(r.Context(), "request failed",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	apperr.WriteJSON(w, err)
}

// publish sends a job event. Failures are logged and never fail the request.
func (h *Handler) publish(r *http.Request, typ string, jobID int, companyHandle string) {
	e := events.Event{
		Type:          typ,
		JobID:         jobID,
		CompanyHandle: companyHandle,
		At:            h.now().UTC(),
	}
	if claims := middleware.GetClaims(r.Context()); claims != nil {
		e.Actor = claims.Username
	}
	if err := h.events.Publish(r.Context(), e); err != nil {
		slog.WarnContext(r.Context(), "publish event",
			slog.String("type", typ),
			slog.Int("job_id", jobID),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("error", err.Error()),
		)
	}
}
