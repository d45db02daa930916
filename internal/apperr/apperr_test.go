package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"jobly/jobs-service/internal/apperr"
)

func TestKindStatus(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.KindBadRequest:   http.StatusBadRequest,
		apperr.KindUnauthorized: http.StatusUnauthorized,
		apperr.KindNotFound:     http.StatusNotFound,
		apperr.KindInternal:     http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.Status(), "kind %s", kind)
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("get job: %w", apperr.NotFound("No job: %d", 7))

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.True(t, apperr.IsNotFound(err))
	assert.EqualError(t, err, "get job: No job: 7")
}

func TestKindOf_PlainErrorIsInternal(t *testing.T) {
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(errors.New("boom")))
	assert.False(t, apperr.IsNotFound(nil))
}

func TestInternal_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperr.Internal(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal server error", err.Message)
}

func TestUnauthorized_DefaultMessage(t *testing.T) {
	assert.Equal(t, "Unauthorized", apperr.Unauthorized("").Message)
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	apperr.WriteJSON(rr, apperr.BadRequest("invalid body", "title: required"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t,
		`{"error":{"message":"invalid body","status":400,"details":["title: required"]}}`,
		rr.Body.String())
}

func TestWriteJSON_HidesInternalCause(t *testing.T) {
	rr := httptest.NewRecorder()
	apperr.WriteJSON(rr, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":{"message":"internal server error","status":500}}`, rr.Body.String())
}
