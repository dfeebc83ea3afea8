package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"servicehub/internal/domain"
	"servicehub/internal/lifecycle"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func render(t *testing.T, err error) (int, envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	FromError(c, err)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestFromError_Kinds(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.Validation("rejection reason is required"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{fmt.Errorf("cancel: %w", domain.InvalidTransition("booking 1 is confirmed")), http.StatusConflict, "INVALID_TRANSITION"},
		{domain.Forbidden("nope"), http.StatusForbidden, "FORBIDDEN"},
		{domain.NotFound("booking not found"), http.StatusNotFound, "NOT_FOUND"},
		{&domain.Error{Kind: domain.KindExpired, Message: "coupon expired"}, http.StatusUnprocessableEntity, "EXPIRED"},
		{&domain.Error{Kind: domain.KindAccessDenied, Message: "trial over"}, http.StatusForbidden, "ACCESS_DENIED"},
		{errors.New("db is down"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		status, env := render(t, tt.err)
		assert.Equal(t, tt.status, status, tt.code)
		assert.False(t, env.Success)
		assert.Equal(t, tt.code, env.Error.Code)
	}
}

func TestFromError_LimitError(t *testing.T) {
	err := &lifecycle.LimitError{Err: lifecycle.ErrPropertyLimitReached, Current: 1, Limit: 1, PlanName: "Starter", UpgradeTo: "growth"}
	status, env := render(t, fmt.Errorf("create property: %w", err))

	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "LIMIT_REACHED", env.Error.Code)
	assert.Equal(t, "growth", env.Error.Details["upgrade_to"])
}
