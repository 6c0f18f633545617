package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/retaildash/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValidationErrors(t *testing.T) {
	type orderLine struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	type testRequest struct {
		Email  string      `json:"email" binding:"required,email"`
		Status string      `json:"status" binding:"omitempty,oneof=active inactive"`
		Items  []orderLine `json:"items" binding:"required,min=1,dive"`
	}

	SetupValidator()

	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var req testRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	post := func(body string) (*httptest.ResponseRecorder, dto.Response) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(RequestIDHeader, "val-1")
		w := serve(router, req)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return w, resp
	}

	t.Run("field errors use JSON names", func(t *testing.T) {
		w, resp := post(`{"email": "invalid", "status": "retired", "items": []}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "val-1", resp.Error.RequestID)

		byField := map[string]dto.ValidationDetail{}
		for _, d := range resp.Error.Details {
			byField[d.Field] = d
		}
		assert.Equal(t, "Invalid email format", byField["email"].Message)
		assert.Equal(t, "Must be one of: active inactive", byField["status"].Message)
		assert.Equal(t, "Must contain at least 1 item(s)", byField["items"].Message)
	})

	t.Run("nested line errors", func(t *testing.T) {
		_, resp := post(`{"email": "a@b.co", "items": [{"quantity": 0}]}`)

		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "quantity", resp.Error.Details[0].Field)
		assert.Equal(t, "required", resp.Error.Details[0].Tag)
	})

	t.Run("wrong JSON type", func(t *testing.T) {
		_, resp := post(`{"email": 42}`)

		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "email", resp.Error.Details[0].Field)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		w, resp := post(`{"email": `)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	})

	t.Run("valid request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test",
			strings.NewReader(`{"email": "a@b.co", "items": [{"quantity": 2}]}`))
		req.Header.Set("Content-Type", "application/json")
		w := serve(router, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
