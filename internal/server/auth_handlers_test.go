package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(m *MockUserRepository)
		expectedStatus int
		expectedErrors []string
	}{
		{
			name: "Success",
			body: map[string]string{
				"name":                  "Jane",
				"email":                 "jane@example.com",
				"password":              "password123",
				"password_confirmation": "password123",
			},
			mockSetup: func(m *MockUserRepository) {
				m.On("EmailTaken", mock.Anything, "jane@example.com", uint(0)).Return(false, nil)
				m.On("CreateWithToken", mock.Anything, mock.Anything, mock.Anything).Return("token-123", nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Password Confirmation Mismatch",
			body: map[string]string{
				"name":                  "Jane",
				"email":                 "jane@example.com",
				"password":              "password123",
				"password_confirmation": "different",
			},
			mockSetup: func(m *MockUserRepository) {
				m.On("EmailTaken", mock.Anything, "jane@example.com", uint(0)).Return(false, nil)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedErrors: []string{"password"},
		},
		{
			name: "Duplicate Email",
			body: map[string]string{
				"name":                  "Jane",
				"email":                 "jane@example.com",
				"password":              "password123",
				"password_confirmation": "password123",
			},
			mockSetup: func(m *MockUserRepository) {
				m.On("EmailTaken", mock.Anything, "jane@example.com", uint(0)).Return(true, nil)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedErrors: []string{"email"},
		},
		{
			name: "Collects All Field Errors",
			body: map[string]string{
				"email": "not-an-email",
			},
			mockSetup:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedErrors: []string{"name", "email", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockRepo := new(MockUserRepository)
			s := &Server{config: testConfig(), userRepo: mockRepo}
			app.Post("/register", s.Register)
			tt.mockSetup(mockRepo)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			env := decodeEnvelope(t, resp)
			if tt.expectedStatus == http.StatusCreated {
				assert.True(t, env.Success)
				assert.Equal(t, "Registration successful!", env.Message)
			} else {
				assert.False(t, env.Success)
				assert.Equal(t, "Registration failed", env.Message)
				for _, field := range tt.expectedErrors {
					assert.Contains(t, env.Errors, field)
				}
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestLogin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	verifiedAt := time.Now()

	tests := []struct {
		name            string
		body            map[string]string
		mockSetup       func(m *MockUserRepository)
		expectedStatus  int
		expectedMessage string
	}{
		{
			name: "Success",
			body: map[string]string{"email": "jane@example.com", "password": "password123"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "jane@example.com").Return(&models.User{
					ID:              1,
					Email:           "jane@example.com",
					Password:        string(hashed),
					EmailVerifiedAt: &verifiedAt,
				}, nil)
			},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Login successful!",
		},
		{
			name: "Unknown Email",
			body: map[string]string{"email": "nobody@example.com", "password": "password123"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)
			},
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid credentials.",
		},
		{
			name: "Wrong Password",
			body: map[string]string{"email": "jane@example.com", "password": "wrong"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "jane@example.com").Return(&models.User{
					ID:              1,
					Email:           "jane@example.com",
					Password:        string(hashed),
					EmailVerifiedAt: &verifiedAt,
				}, nil)
			},
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid credentials.",
		},
		{
			name: "Unverified Account",
			body: map[string]string{"email": "jane@example.com", "password": "password123"},
			mockSetup: func(m *MockUserRepository) {
				m.On("GetByEmail", mock.Anything, "jane@example.com").Return(&models.User{
					ID:       1,
					Email:    "jane@example.com",
					Password: string(hashed),
				}, nil)
			},
			expectedStatus:  http.StatusForbidden,
			expectedMessage: "Account not verified.",
		},
		{
			name:            "Validation Failure",
			body:            map[string]string{"email": "not-an-email"},
			mockSetup:       func(m *MockUserRepository) {},
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedMessage: "Login failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockRepo := new(MockUserRepository)
			s := &Server{config: testConfig(), userRepo: mockRepo}
			app.Post("/login", s.Login)
			tt.mockSetup(mockRepo)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			env := decodeEnvelope(t, resp)
			assert.Equal(t, tt.expectedMessage, env.Message)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthRequired(t *testing.T) {
	s := &Server{config: testConfig()}
	app := fiber.New()
	app.Get("/protected", s.AuthRequired(), func(c *fiber.Ctx) error {
		return models.Respond(c, fiber.StatusOK, fiber.Map{"user_id": currentUserID(c)}, "ok")
	})

	t.Run("Valid Token", func(t *testing.T) {
		token, err := s.generateToken(1)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Missing Header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Garbage Token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		other := &Server{config: testConfig()}
		other.config.JWTSecret = "another-secret-another-secret-12345!"
		token, err := other.generateToken(1)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogout(t *testing.T) {
	// Without Redis the jti cannot be blacklisted, but logout still
	// responds with success.
	s := &Server{config: testConfig()}
	app := fiber.New()
	app.Post("/logout", s.AuthRequired(), s.Logout)

	token, err := s.generateToken(1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.Equal(t, "Logged out successfully.", env.Message)
}
