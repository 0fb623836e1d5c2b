package httpclient

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestNewStatusError_KeepsStatusAndBody(t *testing.T) {
	err := NewStatusError(newResponse(http.StatusUnauthorized, "  username or password is incorrect\n"))

	assert.Equal(t, http.StatusUnauthorized, err.StatusCode)
	assert.Equal(t, "username or password is incorrect", err.Body)
	assert.Equal(t, "unexpected status 401: username or password is incorrect", err.Error())
}

func TestNewStatusError_EmptyBody(t *testing.T) {
	err := NewStatusError(newResponse(http.StatusBadGateway, ""))
	assert.Equal(t, "unexpected status 502", err.Error())
}

func TestNewStatusError_TruncatesLargeBody(t *testing.T) {
	err := NewStatusError(newResponse(http.StatusInternalServerError, strings.Repeat("x", 3*maxErrorBody)))
	assert.Len(t, err.Body, maxErrorBody)
}

func TestIsSuccess(t *testing.T) {
	assert.True(t, IsSuccess(200))
	assert.True(t, IsSuccess(204))
	assert.False(t, IsSuccess(199))
	assert.False(t, IsSuccess(300))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(400))
	assert.True(t, IsClientError(499))
	assert.False(t, IsClientError(500))
	assert.False(t, IsClientError(200))
}

type countingBody struct {
	io.Reader
	closes int
}

func (b *countingBody) Close() error {
	b.closes++
	return nil
}

func TestNewStatusError_ClosesBodyOnce(t *testing.T) {
	body := &countingBody{Reader: strings.NewReader("nope")}

	NewStatusError(&http.Response{StatusCode: http.StatusUnauthorized, Body: body})

	assert.Equal(t, 1, body.closes)
}
