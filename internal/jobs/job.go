// Package jobs implements the job postings model: the filter query builder
// and the repository over the jobs table.
package jobs

import "jobly/jobs-service/internal/companies"

// Job is a row of the jobs table as returned by create and update.
type Job struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Salary        *int    `json:"salary"`
	Equity        *string `json:"equity"`
	CompanyHandle string  `json:"companyHandle"`
}

// Summary is a job as listed by FindAll, with the owning company's name.
type Summary struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Salary        *int    `json:"salary"`
	Equity        *string `json:"equity"`
	CompanyHandle string  `json:"companyHandle"`
	CompanyName   *string `json:"companyName"`
}

// Detail is a single job with its company nested in place of the handle.
type Detail struct {
	ID      int                `json:"id"`
	Title   string             `json:"title"`
	Salary  *int               `json:"salary"`
	Equity  *string            `json:"equity"`
	Company *companies.Company `json:"company"`
}

// NewJob is the input of Create.
type NewJob struct {
	Title         string
	Salary        *int
	Equity        *string
	CompanyHandle string
}

// Update is the input of a partial update. A nil field is left unchanged.
// The company handle is fixed at creation and has no field here.
type Update struct {
	Title  *string
	Salary *int
	Equity *string
}
