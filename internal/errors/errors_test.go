package errors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorInterface(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")
	assert.Equal(t, "bad input", err.Error())
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
}

func TestAPIErrorRender(t *testing.T) {
	apiErr := NewWithDetails(http.StatusUnprocessableEntity, "INVALID_LICENSE_ARTIFACT", "broken", "cause")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	require.NoError(t, render.Render(w, r, apiErr))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_LICENSE_ARTIFACT")
	assert.Contains(t, w.Body.String(), "cause")
}

func TestInvalidLicenseArtifact(t *testing.T) {
	apiErr := InvalidLicenseArtifact(errors.New("signature verification failed"))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "INVALID_LICENSE_ARTIFACT", apiErr.ErrorCode)
	assert.Equal(t, "signature verification failed", apiErr.Details)
}
