package httpapi

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"jobly/jobs-service/internal/apperr"
	"jobly/jobs-service/internal/events"
	"jobly/jobs-service/internal/jobs"
)

type jobNewRequest struct {
	Title         string  `json:"title" validate:"required,max=255"`
	Salary        *int    `json:"salary" validate:"omitnil,min=0,max=2147483647"`
	Equity        *string `json:"equity" validate:"omitnil,equity"`
	CompanyHandle string  `json:"companyHandle" validate:"required,max=25"`
}

type jobUpdateRequest struct {
	Title  *string `json:"title" validate:"omitnil,min=1,max=255"`
	Salary *int    `json:"salary" validate:"omitnil,min=0,max=2147483647"`
	Equity *string `json:"equity" validate:"omitnil,equity"`
}

var jobQueryKeys = map[string]bool{"title": true, "minSalary": true, "hasEquity": true}

// createJob handles POST /jobs
func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	var req jobNewRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	job, err := h.jobs.Create(r.Context(), jobs.NewJob{
		Title:         req.Title,
		Salary:        req.Salary,
		Equity:        req.Equity,
		CompanyHandle: req.CompanyHandle,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.publish(r, events.JobCreated, job.ID, job.CompanyHandle)
	writeJSON(w, http.StatusCreated, map[string]any{"job": job})
}

// listJobs handles GET /jobs
func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	list, err := h.jobs.FindAll(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": list})
}

// getJob handles GET /jobs/{id}
func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	job, err := h.jobs.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"job": job})
}

// updateJob handles PATCH /jobs/{id}
func (h *Handler) updateJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req jobUpdateRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	job, err := h.jobs.Update(r.Context(), id, jobs.Update{
		Title:  req.Title,
		Salary: req.Salary,
		Equity: req.Equity,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.publish(r, events.JobUpdated, job.ID, job.CompanyHandle)
	writeJSON(w, http.StatusOK, map[string]any{"job": job})
}

// deleteJob handles DELETE /jobs/{id}
func (h *Handler) deleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.jobs.Remove(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.publish(r, events.JobDeleted, id, "")
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// jobID parses the {id} path segment. A non-integer id names no job.
func jobID(r *http.Request) (int, error) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.NotFound("No job: %s", raw)
	}
	return id, nil
}

// parseFilter reads the GET /jobs query string. hasEquity filters only for
// the literal "true"; any other value includes every job.
func parseFilter(r *http.Request) (jobs.Filter, error) {
	q := r.URL.Query()

	var unknown []string
	for key := range q {
		if !jobQueryKeys[key] {
			unknown = append(unknown, fmt.Sprintf("%s is not allowed", key))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return jobs.Filter{}, apperr.BadRequest("invalid query", unknown...)
	}

	var f jobs.Filter
	if q.Has("title") {
		title := q.Get("title")
		f.Title = &title
	}
	if q.Has("minSalary") {
		// salary is an int4 column
		n64, err := strconv.ParseInt(q.Get("minSalary"), 10, 32)
		n := int(n64)
		if err != nil || n < 0 {
			return jobs.Filter{}, apperr.BadRequest("invalid query", "minSalary must be a non-negative integer")
		}
		f.MinSalary = &n
	}
	if q.Has("hasEquity") {
		has := q.Get("hasEquity") == "true"
		f.HasEquity = &has
	}
	return f, nil
}
