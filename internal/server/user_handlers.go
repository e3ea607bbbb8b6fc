package server

import (
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type createUserRequest struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8,eqfield=PasswordConfirmation"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type updateUserRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
}

// GetUsers handles GET /api/users
func (s *Server) GetUsers(c *fiber.Ctx) error {
	p := parsePagination(c)

	result, err := s.userRepo.List(c.Context(), p.Search, p.Page, p.PerPage)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, result, "Users retrieved successfully")
}

// CreateUser handles POST /api/users
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Validation Error", models.FieldErrors{
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
		return models.RespondWithError(c, models.NewValidationError("Validation Error", errs))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c,
			models.NewInternalError("Failed to create user.", err))
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		return models.RespondWithError(c,
			models.NewInternalError("Failed to create user.", err))
	}

	return models.Respond(c, fiber.StatusCreated, user, "User created successfully")
}

// GetUser handles GET /api/users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "Not Found")
	if err != nil {
		return nil
	}

	user, err := s.userRepo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, models.NewNotFoundError("Not Found"))
		}
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, user, "User retrieved successfully")
}

// UpdateUser handles PUT /api/users/:id. Users may only update themselves.
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "Not Found")
	if err != nil {
		return nil
	}

	user, err := s.userRepo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, models.NewNotFoundError("Not Found"))
		}
		return models.RespondWithError(c, err)
	}
	if user.ID != currentUserID(c) {
		return models.RespondWithError(c, models.NewForbiddenError("Unauthorized"))
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Validation Error", models.FieldErrors{
				"body": {"The request body is invalid."},
			}))
	}

	errs := validation.Struct(req)
	if errs == nil {
		errs = models.FieldErrors{}
	}
	if _, seen := errs["email"]; !seen {
		taken, takenErr := s.userRepo.EmailTaken(c.Context(), req.Email, user.ID)
		if takenErr != nil {
			return models.RespondWithError(c, takenErr)
		}
		if taken {
			errs.Add("email", "The email has already been taken.")
		}
	}
	if len(errs) > 0 {
		return models.RespondWithError(c, models.NewValidationError("Validation Error", errs))
	}

	user.Name = req.Name
	user.Email = req.Email
	if err := s.userRepo.Update(c.Context(), user, map[string]any{
		"name":  req.Name,
		"email": req.Email,
	}); err != nil {
		return models.RespondWithError(c,
			models.NewInternalError("Failed to update user.", err))
	}

	return models.Respond(c, fiber.StatusOK, user, "User updated successfully")
}

// DeleteUser handles DELETE /api/users/:id. Users may only delete themselves.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "Not Found")
	if err != nil {
		return nil
	}

	user, err := s.userRepo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, models.NewNotFoundError("Not Found"))
		}
		return models.RespondWithError(c, err)
	}
	if user.ID != currentUserID(c) {
		return models.RespondWithError(c, models.NewForbiddenError("Unauthorized"))
	}

	if err := s.userRepo.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c,
			models.NewInternalError("Failed to delete user.", err))
	}

	return models.Respond(c, fiber.StatusOK, nil, "User deleted successfully")
}
