package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/trilytx/trilytx-backend/models"
)

type MockValidator struct {
	mock.Mock
}

func (m *MockValidator) Validate(ctx context.Context, token string) (models.Credentials, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.Credentials), args.Error(1)
}

func TestAuthenticationMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		setupHeaders   func(*http.Request)
		setupValidator func(*MockValidator)
		expectedStatus int
		expectedUserId string
	}{
		{
			name: "success with bearer token",
			setupHeaders: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer test-token")
			},
			setupValidator: func(v *MockValidator) {
				v.On("Validate", mock.Anything, "test-token").
					Return(models.Credentials{UserId: "user-1", Email: "test@example.com"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedUserId: "user-1",
		},
		{
			name: "invalid bearer token format",
			setupHeaders: func(r *http.Request) {
				r.Header.Set("Authorization", "InvalidFormat")
			},
			setupValidator: func(v *MockValidator) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty authorization header",
			setupHeaders:   func(r *http.Request) {},
			setupValidator: func(v *MockValidator) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "unauthorized when validation fails",
			setupHeaders: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer expired")
			},
			setupValidator: func(v *MockValidator) {
				v.On("Validate", mock.Anything, "expired").
					Return(models.Credentials{}, errors.Wrap(models.UnAuthorizedError, "token is expired"))
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "internal error when validator breaks",
			setupHeaders: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer test-token")
			},
			setupValidator: func(v *MockValidator) {
				v.On("Validate", mock.Anything, "test-token").
					Return(models.Credentials{}, errors.New("unexpected"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := new(MockValidator)
			tt.setupValidator(validator)
			auth := NewAuthentication(validator)

			w := httptest.NewRecorder()
			_, engine := gin.CreateTestContext(w)
			engine.GET("/test", auth.Middleware, func(c *gin.Context) {
				assert.Equal(t, tt.expectedUserId, UserIdFromCtx(c.Request.Context()))
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			tt.setupHeaders(req)
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			validator.AssertExpectations(t)
		})
	}
}

func TestAuthenticationMiddleware_anonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := NewAuthentication(nil)

	w := httptest.NewRecorder()
	_, engine := gin.CreateTestContext(w)
	engine.GET("/test", auth.Middleware, func(c *gin.Context) {
		creds, found := CredentialsFromCtx(c.Request.Context())
		assert.True(t, found)
		assert.Equal(t, models.Credentials{}, creds)
		c.Status(http.StatusOK)
	})

	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
