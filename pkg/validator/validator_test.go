package validator

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/shopease/pkg/errors"
)

type credentials struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
}

type quantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=-1000,lte=1000"`
}

func TestValidate_Success(t *testing.T) {
	assert.NoError(t, Validate(credentials{Username: "mor_2314", Password: "83r5^_"}))
}

func TestValidate_MissingRequired_UsesJSONNames(t *testing.T) {
	err := Validate(credentials{Password: "x"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, map[string]string{"username": "is required"}, valErr.Fields())
}

func TestValidate_MultipleErrors(t *testing.T) {
	err := Validate(credentials{})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Len(t, valErr.Fields(), 2)
	assert.Contains(t, err.Error(), "field 'username' is required")
	assert.Contains(t, err.Error(), "field 'password' is required")
}

func TestValidate_Range(t *testing.T) {
	err := Validate(quantityRequest{Quantity: 5000})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be less than or equal to 1000", valErr.Fields()["quantity"])
}

func TestValidate_Max(t *testing.T) {
	err := Validate(credentials{Username: strings.Repeat("u", 65), Password: "p"})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be at most 64 characters", valErr.Fields()["username"])
}

func TestDecodeAndValidate_Success(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"johnd","password":"m38rmF$"}`))

	var c credentials
	require.NoError(t, DecodeAndValidate(req, &c))
	assert.Equal(t, "johnd", c.Username)
}

func TestDecodeAndValidate_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))

	var c credentials
	err := DecodeAndValidate(req, &c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestDecodeAndValidate_UnknownField(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"a","password":"b","role":"admin"}`))

	var c credentials
	err := DecodeAndValidate(req, &c)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestDecodeAndValidate_ValidationFails(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"johnd"}`))

	var c credentials
	err := DecodeAndValidate(req, &c)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields(), "password")
}
