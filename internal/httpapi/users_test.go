package httpapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUser_Admin(t *testing.T) {
	env := newEnv(t)
	rr := env.do(http.MethodGet, "/users/u1", env.adminToken, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t,
		`{"user":{"username":"u1","firstName":"U1F","lastName":"U1L","email":"user1@user.com","isAdmin":false}}`,
		rr.Body.String())
}

func TestGetUser_Rejections(t *testing.T) {
	env := newEnv(t)

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/users/u1", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/users/u1", env.userToken, nil).Code)

	rr := env.do(http.MethodGet, "/users/nope", env.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "No user: nope", errorMessage(t, rr))
}

func TestUpdateUser_Admin(t *testing.T) {
	env := newEnv(t)
	rr := env.do(http.MethodPatch, "/users/u1", env.adminToken, `{"firstName":"New","isAdmin":true}`)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	user := decodeBody(t, rr)["user"].(map[string]any)
	assert.Equal(t, "New", user["firstName"])
	assert.Equal(t, true, user["isAdmin"])
}

func TestUpdateUser_Rejections(t *testing.T) {
	env := newEnv(t)
	cases := []struct {
		name   string
		token  string
		body   string
		status int
	}{
		{"non-admin", env.userToken, `{"firstName":"x"}`, http.StatusUnauthorized},
		{"empty object", env.adminToken, `{}`, http.StatusBadRequest},
		{"username key", env.adminToken, `{"username":"other"}`, http.StatusBadRequest},
		{"bad email", env.adminToken, `{"email":"nope"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := env.do(http.MethodPatch, "/users/u1", tc.token, tc.body)
			assert.Equal(t, tc.status, rr.Code, rr.Body.String())
		})
	}
}
