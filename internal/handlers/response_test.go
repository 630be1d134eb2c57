package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripacker/tripacker-backend/internal/services"
)

func respondAndRecord(t *testing.T, err error) (int, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	respondServiceError(c, err)

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body.Error
}

func TestRespondServiceErrorStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{services.ErrAccessDenied, http.StatusForbidden},
		{services.ErrTripNotFound, http.StatusNotFound},
		{services.ErrAlreadyGenerated, http.StatusConflict},
		{services.ErrInvalidToken, http.StatusUnauthorized},
		{services.ErrGenerationFailed, http.StatusBadGateway},
	}
	for _, tc := range cases {
		code, _ := respondAndRecord(t, tc.err)
		assert.Equal(t, tc.status, code, "error %v", tc.err)
	}
}

func TestRespondServiceErrorInvalidInput(t *testing.T) {
	err := fmt.Errorf("%w: destination is required", services.ErrInvalidInput)
	code, msg := respondAndRecord(t, err)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, msg, "destination is required")
}

func TestRespondServiceErrorHidesInternalDetail(t *testing.T) {
	err := fmt.Errorf("loading generated list: connection refused to db:5432")
	code, msg := respondAndRecord(t, err)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal server error", msg)
	assert.NotContains(t, msg, "db:5432")
}
