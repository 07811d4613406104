package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bergizi/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleValidationError_UsesJSONFieldNames(t *testing.T) {
	type employeeRequest struct {
		FullName string `json:"full_name" binding:"required"`
		NIK      string `json:"nik" binding:"required,nik"`
		Email    string `json:"email" binding:"omitempty,email"`
	}

	SetupValidator()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.POST("/employees", func(c *gin.Context) {
		var req employeeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(`{"nik":"12345","email":"bad"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)

	fields := map[string]string{}
	for _, d := range resp.Error.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "This field is required", fields["full_name"])
	assert.Equal(t, "NIK must be 16 digits", fields["nik"])
	assert.Equal(t, "Invalid email format", fields["email"])
}

func TestConfigureValidator_DecimalAndNIK(t *testing.T) {
	type stockRequest struct {
		Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
		NIK      string          `json:"nik" validate:"omitempty,nik"`
	}
	v := validator.New()
	configureValidator(v)

	assert.NoError(t, v.Struct(stockRequest{Quantity: decimal.RequireFromString("2.5"), NIK: "3171234567890123"}))

	err := v.Struct(stockRequest{Quantity: decimal.Zero})
	require.Error(t, err)
	resp := FormatValidationErrors(err, "req-1")
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "quantity", resp.Error.Details[0].Field)
	assert.Equal(t, "Must be greater than 0", resp.Error.Details[0].Message)

	err = v.Struct(stockRequest{Quantity: decimal.NewFromInt(1), NIK: "31712345678901AB"})
	require.Error(t, err)
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "req-2")
	assert.False(t, resp.Success)
	assert.Equal(t, "req-2", resp.Error.RequestID)
	assert.Empty(t, resp.Error.Details)
}
