package flint

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/ridge/must/v2"
	"github.com/ridge/tj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateError(t *testing.T) {
	body := must.OK1(json.Marshal(tj.O{
		"message": "Index `movies` not found.",
		"code":    "index_not_found",
		"type":    "invalid_request",
	}))

	err := translateError(http.StatusNotFound, body)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, CodeIndexNotFound, e.Code)
	assert.Equal(t, "invalid_request", e.Type)
	assert.Equal(t, http.StatusNotFound, e.StatusCode)
	assert.Equal(t, "flint: Index `movies` not found. (index_not_found)", e.Error())
}

func TestTranslateErrorPreservesUnknownCodes(t *testing.T) {
	body := must.OK1(json.Marshal(tj.O{
		"message": "something new",
		"code":    "brand_new_code",
		"type":    "system",
	}))

	err := translateError(http.StatusInternalServerError, body)
	assert.Equal(t, "brand_new_code", ErrCode(err))
}

func TestTranslateErrorUnparseableBody(t *testing.T) {
	err := translateError(http.StatusBadGateway, []byte("<html>bad gateway</html>"))
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, CodeUnknown, e.Code)
	assert.Equal(t, "<html>bad gateway</html>", e.Message)

	err = translateError(http.StatusBadGateway, nil)
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), e.Message)
}

func TestErrorHelpers(t *testing.T) {
	notFound := &Error{Code: CodeIndexNotFound, Message: "gone"}
	conflict := &Error{Code: CodeIndexAlreadyExists, Message: "there"}

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(conflict))
	assert.True(t, IsConflict(conflict))
	assert.Empty(t, ErrCode(errors.New("plain")))
}

func TestTransportErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &TransportError{cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "flint: transport: connection refused", err.Error())

	var e *Error
	assert.False(t, errors.As(err, &e)) // transport faults are not domain errors
}
