package server

import (
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// GetCategories handles GET /api/post-categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	p := parsePagination(c)

	result, err := s.categoryRepo.List(c.Context(), p.Search, p.Page, p.PerPage)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, result, "Post categories retrieved successfully.")
}

// CreateCategory handles POST /api/post-categories
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	req, errs, err := s.parseCategoryRequest(c, 0)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if len(errs) > 0 {
		return models.RespondWithError(c,
			models.NewValidationError("The given data was invalid.", errs))
	}

	category := &models.PostCategory{Name: req.Name}
	if err := s.categoryRepo.Create(c.Context(), category); err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusCreated, category, "Post category created successfully.")
}

// GetCategory handles GET /api/post-categories/:id
func (s *Server) GetCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "Post category not found.")
	if err != nil {
		return nil
	}

	category, err := s.categoryRepo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c,
				models.NewNotFoundError("Post category not found."))
		}
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, category, "Post category retrieved successfully.")
}

// UpdateCategory handles PUT /api/post-categories/:id
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "Post category not found.")
	if err != nil {
		return nil
	}

	category, err := s.categoryRepo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c,
				models.NewNotFoundError("Post category not found."))
		}
		return models.RespondWithError(c, err)
	}

	req, errs, reqErr := s.parseCategoryRequest(c, id)
	if reqErr != nil {
		return models.RespondWithError(c, reqErr)
	}
	if len(errs) > 0 {
		return models.RespondWithError(c,
			models.NewValidationError("The given data was invalid.", errs))
	}

	category.Name = req.Name
	if err := s.categoryRepo.Update(c.Context(), category); err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, category, "Post category updated successfully.")
}

// DeleteCategory handles DELETE /api/post-categories/:id
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "Post category not found.")
	if err != nil {
		return nil
	}

	if _, err := s.categoryRepo.GetByID(c.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c,
				models.NewNotFoundError("Post category not found."))
		}
		return models.RespondWithError(c, err)
	}

	hasPosts, err := s.categoryRepo.HasPosts(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if hasPosts {
		return models.RespondWithError(c,
			models.NewConflictError("Post categories cannot be deleted because they still have posts."))
	}

	if err := s.categoryRepo.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, nil, "Post category deleted successfully.")
}

func (s *Server) parseCategoryRequest(c *fiber.Ctx, excludeID uint) (*categoryRequest, models.FieldErrors, error) {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, models.FieldErrors{"body": {"The request body is invalid."}}, nil
	}

	errs := validation.Struct(req)
	if errs == nil {
		errs = models.FieldErrors{}
	}

	if req.Name != "" {
		taken, err := s.categoryRepo.NameTaken(c.Context(), req.Name, excludeID)
		if err != nil {
			return nil, nil, err
		}
		if taken {
			errs.Add("name", "The name has already been taken.")
		}
	}

	return &req, errs, nil
}
