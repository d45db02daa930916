package companies_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobly/jobs-service/internal/apperr"
	"jobly/jobs-service/internal/companies"
)

var companyColumns = []string{"handle", "name", "description", "num_employees", "logo_url"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestGet(t *testing.T) {
	mock := newMock(t)
	n, logo := 1, "http://c1.img"
	mock.ExpectQuery(regexp.QuoteMeta("FROM companies")).
		WithArgs("c1").
		WillReturnRows(pgxmock.NewRows(companyColumns).AddRow("c1", "C1", "Desc1", &n, &logo))

	c, err := companies.NewRepository(mock).Get(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, &companies.Company{
		Handle:       "c1",
		Name:         "C1",
		Description:  "Desc1",
		NumEmployees: &n,
		LogoURL:      &logo,
	}, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_NotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM companies")).
		WithArgs("nope").
		WillReturnRows(pgxmock.NewRows(companyColumns))

	_, err := companies.NewRepository(mock).Get(context.Background(), "nope")
	assert.True(t, apperr.IsNotFound(err))
	assert.EqualError(t, err, "No company: nope")
}

func TestCreate(t *testing.T) {
	mock := newMock(t)
	n := 3
	in := companies.Company{Handle: "c3", Name: "C3", Description: "Desc3", NumEmployees: &n}
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO companies")).
		WithArgs("c3", "C3", "Desc3", &n, (*string)(nil)).
		WillReturnRows(pgxmock.NewRows(companyColumns).AddRow("c3", "C3", "Desc3", &n, (*string)(nil)))

	c, err := companies.NewRepository(mock).Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "c3", c.Handle)
	assert.Nil(t, c.LogoURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}
