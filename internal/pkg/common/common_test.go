package common

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomErrorIsThroughWrap(t *testing.T) {
	wrapped := ErrInvalidPayload.Wrap(errors.New("bad token"))

	assert.True(t, errors.Is(wrapped, ErrInvalidPayload))
	assert.False(t, errors.Is(wrapped, ErrInvalidScale))
	assert.Equal(t, "無效的食譜資料: bad token", wrapped.Error())
	assert.True(t, errors.Is(fmt.Errorf("context: %w", wrapped), ErrInvalidPayload))
}

func TestToErrorResponse(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		debug   bool
		status  int
		code    string
		details string
	}{
		{"custom", ErrDocumentNotFound, false, http.StatusNotFound, ErrCodeDocumentNotFound, ""},
		{"wrapped hides details", ErrInvalidPayload.Wrap(errors.New("eof")), false, http.StatusBadRequest, ErrCodeInvalidPayload, ""},
		{"wrapped debug details", ErrInvalidPayload.Wrap(errors.New("eof")), true, http.StatusBadRequest, ErrCodeInvalidPayload, "eof"},
		{"validation", NewValidationError("empty body"), false, http.StatusBadRequest, ErrCodeInvalidRequest, ""},
		{"unknown", errors.New("boom"), false, http.StatusInternalServerError, ErrCodeInternalError, ""},
		{"unknown debug", errors.New("boom"), true, http.StatusInternalServerError, ErrCodeInternalError, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := ToErrorResponse(tt.err, tt.debug)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.details, resp.Details)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var v map[string]int

	require.NoError(t, DecodeJSON(strings.NewReader(`{"a":1}`), &v))
	assert.Equal(t, 1, v["a"])

	assert.Error(t, DecodeJSON(strings.NewReader(`{"a":1} {"b":2}`), &v))
	assert.Error(t, DecodeJSON(strings.NewReader(`{"a":1} null`), &v))
	assert.Error(t, DecodeJSONStrict(strings.NewReader(`{"a":1}`), &struct{ B int }{}))
}

func TestDecodePayload(t *testing.T) {
	payload, err := DecodePayload(strings.NewReader(`{"parsedIngredients":[{"name":"flour","amount":2,"unit":"cup"}],"steps":["Sift the flour."]}`))
	require.NoError(t, err)
	require.Len(t, payload.ParsedIngredients, 1)
	assert.Equal(t, "flour", payload.ParsedIngredients[0].Name)
	assert.Equal(t, []string{"Sift the flour."}, payload.Steps)

	_, err = DecodePayload(strings.NewReader(`{"steps":`))
	assert.True(t, errors.Is(err, ErrInvalidPayload))
}

func TestPayloadFingerprint(t *testing.T) {
	a := &RecipePayload{Steps: []string{"Boil water."}}
	b := &RecipePayload{Steps: []string{"Boil water."}}
	c := &RecipePayload{Steps: []string{"Boil milk."}}

	assert.Equal(t, PayloadFingerprint(a), PayloadFingerprint(b))
	assert.NotEqual(t, PayloadFingerprint(a), PayloadFingerprint(c))
	assert.Equal(t, HashString(""), PayloadFingerprint(nil))
	assert.Len(t, HashString("x"), 64)
}
