package users_test

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"jobly/jobs-service/internal/apperr"
	"jobly/jobs-service/internal/sqlutil"
	"jobly/jobs-service/internal/users"
)

var (
	userCols     = []string{"username", "first_name", "last_name", "email", "is_admin"}
	authUserCols = []string{"username", "password", "first_name", "last_name", "email", "is_admin"}
)

func newStore(t *testing.T) (*users.Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return users.NewStore(mock, bcrypt.MinCost), mock
}

func mustHash(t *testing.T, pw string) string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(b)
}

func TestAuthenticate(t *testing.T) {
	store, mock := newStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows(authUserCols).
			AddRow("u1", mustHash(t, "pwd123"), "U1F", "U1L", "u1@email.com", false))

	u, err := store.Authenticate(context.Background(), "u1", "pwd123")
	require.NoError(t, err)
	assert.Equal(t, &users.User{
		Username:  "u1",
		FirstName: "U1F",
		LastName:  "U1L",
		Email:     "u1@email.com",
	}, u)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	store, mock := newStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows(authUserCols).
			AddRow("u1", mustHash(t, "pwd123"), "U1F", "U1L", "u1@email.com", false))

	_, err := store.Authenticate(context.Background(), "u1", "pwd213")
	assert.ErrorIs(t, err, users.ErrInvalidCredentials)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestAuthenticate_UnknownUserLooksLikeWrongPassword(t *testing.T) {
	store, mock := newStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs("nunuh").
		WillReturnRows(pgxmock.NewRows(authUserCols))

	_, err := store.Authenticate(context.Background(), "nunuh", "pwd123")
	assert.ErrorIs(t, err, users.ErrInvalidCredentials)
	assert.NotEqual(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestRegister_HashesPassword(t *testing.T) {
	store, mock := newStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("bluepill", pgxmock.AnyArg(), "Morpheus", "Cool", "matrixman@matrix.com", false).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow("bluepill", "Morpheus", "Cool", "matrixman@matrix.com", false))

	u, err := store.Register(context.Background(), users.Registration{
		Username:  "bluepill",
		Password:  "noredpill",
		FirstName: "Morpheus",
		LastName:  "Cool",
		Email:     "matrixman@matrix.com",
	})
	require.NoError(t, err)
	assert.False(t, u.IsAdmin)
}

func TestRegister_Duplicate(t *testing.T) {
	store, mock := newStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := store.Register(context.Background(), users.Registration{Username: "u1", Password: "password"})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	assert.EqualError(t, err, "Duplicate username: u1")
}

func TestRegister_ValueTooLong(t *testing.T) {
	store, mock := newStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pgconn.PgError{Code: "22001", Message: "value too long for type character varying(25)"})

	_, err := store.Register(context.Background(), users.Registration{
		Username: strings.Repeat("u", 26), Password: "password",
	})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	assert.EqualError(t, err, "Invalid user data")
}

func TestGet_NotFound(t *testing.T) {
	store, mock := newStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs("nope").
		WillReturnRows(pgxmock.NewRows(userCols))

	_, err := store.Get(context.Background(), "nope")
	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdate_MapsColumnNames(t *testing.T) {
	store, mock := newStore(t)
	mock.ExpectQuery(`SET "first_name"=\$1, "is_admin"=\$2\s+WHERE username = \$3`).
		WithArgs("New", true, "u1").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow("u1", "New", "U1L", "u1@email.com", true))

	u, err := store.Update(context.Background(), "u1", users.Update{
		FirstName: ptr("New"),
		IsAdmin:   ptr(true),
	})
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
	assert.Equal(t, "New", u.FirstName)
}

func TestUpdate_NoData(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Update(context.Background(), "u1", users.Update{})
	assert.ErrorIs(t, err, sqlutil.ErrNoData)
}

func ptr[T any](v T) *T { return &v }
