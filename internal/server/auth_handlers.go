package server

import (
	"fmt"
	"strconv"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer   = "inkwell-api"
	tokenAudience = "inkwell-client"
	tokenTTL      = time.Hour * 24 * 7
)

func blacklistKey(jti string) string {
	return "blacklist:" + jti
}

type registerRequest struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8,eqfield=PasswordConfirmation"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Registration failed", models.FieldErrors{
				"body": {"The request body is invalid."},
			}))
	}

	errs := validation.Struct(req)
	if errs == nil {
		errs = models.FieldErrors{}
	}
	if _, seen := errs["email"]; !seen {
		taken, err := s.userRepo.EmailTaken(c.Context(), req.Email, 0)
		if err != nil {
			return models.RespondWithError(c, err)
		}
		if taken {
			errs.Add("email", "The email has already been taken.")
		}
	}
	if len(errs) > 0 {
		return models.RespondWithError(c, models.NewValidationError("Registration failed", errs))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c,
			models.NewInternalError("Error during registration", err))
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
	}

	// The insert and the token issuance commit together, so a signing
	// failure never leaves an account behind.
	token, err := s.userRepo.CreateWithToken(c.Context(), user, func(u *models.User) (string, error) {
		return s.generateToken(u.ID)
	})
	if err != nil {
		return models.RespondWithError(c,
			models.NewInternalError("Error during registration", err))
	}

	return models.Respond(c, fiber.StatusCreated, fiber.Map{
		"token": token,
		"user":  user,
	}, "Registration successful!")
}

// Login handles POST /api/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Login failed", models.FieldErrors{
				"body": {"The request body is invalid."},
			}))
	}

	if errs := validation.Struct(req); errs != nil {
		return models.RespondWithError(c, models.NewValidationError("Login failed", errs))
	}

	user, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if user == nil {
		return models.RespondWithError(c,
			models.NewUnauthenticatedError("Invalid credentials."))
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		return models.RespondWithError(c,
			models.NewUnauthenticatedError("Invalid credentials."))
	}

	if !user.Verified() {
		return models.RespondWithError(c,
			models.NewForbiddenError("Account not verified."))
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return models.RespondWithError(c,
			models.NewInternalError("Error during login", err))
	}

	return models.Respond(c, fiber.StatusOK, fiber.Map{
		"token": token,
		"user":  user,
	}, "Login successful!")
}

// Logout handles POST /api/logout. It revokes the presented token by
// blacklisting its jti until the token would have expired on its own.
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, _ := c.Locals("tokenClaims").(jwt.MapClaims)

	if jti, ok := claims["jti"].(string); ok && jti != "" && s.redis != nil {
		ttl := tokenTTL
		if exp, expOk := claims["exp"].(float64); expOk {
			if remaining := time.Until(time.Unix(int64(exp), 0)); remaining > 0 {
				ttl = remaining
			}
		}
		if err := s.redis.Set(c.Context(), blacklistKey(jti), "1", ttl).Err(); err != nil {
			return models.RespondWithError(c,
				models.NewInternalError("Error during logout", err))
		}
	}

	return models.Respond(c, fiber.StatusOK, nil, "Logged out successfully.")
}

// generateToken creates a JWT token for the given user ID
func (s *Server) generateToken(userID uint) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"exp": now.Add(tokenTTL).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": s.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID so individual tokens can be revoked
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
