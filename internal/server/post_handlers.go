package server

import (
	"errors"
	"mime/multipart"

	"inkwell/internal/media"
	"inkwell/internal/models"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type postRequest struct {
	Title          string `json:"title" form:"title" validate:"required,max=255"`
	Content        string `json:"content" form:"content" validate:"required"`
	PostCategories []uint `json:"post_categories" form:"post_categories" validate:"required,min=1"`
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c)

	result, err := s.postRepo.List(c.Context(), p.Search, p.Page, p.PerPage)
	if err != nil {
		return models.RespondWithError(c,
			models.NewInternalError("Failed to retrieve posts.", err))
	}

	return models.Respond(c, fiber.StatusOK, result, "Posts retrieved successfully.")
}

// GetPost handles GET /api/posts/:slug
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postRepo.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, models.NewNotFoundError("Post not found"))
		}
		return models.RespondWithError(c,
			models.NewInternalError("Failed to retrieve post.", err))
	}

	return models.Respond(c, fiber.StatusOK, models.NewPostView(post), "Post retrieved successfully")
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	req, fileHeader, errs, err := s.parsePostRequest(c, 0)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if len(errs) > 0 {
		return models.RespondWithError(c, models.NewValidationError("Validation Error", errs))
	}

	var stored *media.Stored
	if fileHeader != nil {
		stored, err = s.storage.Save(fileHeader)
		if err != nil {
			return models.RespondWithError(c,
				models.NewInternalError("Failed to create post.", err))
		}
	}

	post := &models.Post{
		Title:   req.Title,
		Content: req.Content,
		UserID:  userID,
	}

	if err := s.postRepo.Create(c.Context(), post, req.PostCategories, stored); err != nil {
		if stored != nil {
			_ = s.storage.Remove(stored.FileName)
		}
		return models.RespondWithError(c,
			models.NewInternalError("Failed to create post.", err))
	}

	return models.Respond(c, fiber.StatusCreated, post, "Post created successfully.")
}

// UpdatePost handles POST /api/posts/:id/update
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	id, err := s.parseID(c, "id", "Post not found")
	if err != nil {
		return nil
	}

	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, models.NewNotFoundError("Post not found"))
		}
		return models.RespondWithError(c,
			models.NewInternalError("Failed to update post.", err))
	}
	if post.UserID != userID {
		return models.RespondWithError(c, models.NewForbiddenError("Unauthorized"))
	}

	req, fileHeader, errs, err := s.parsePostRequest(c, id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if len(errs) > 0 {
		return models.RespondWithError(c, models.NewValidationError("Validation Error", errs))
	}

	var stored *media.Stored
	if fileHeader != nil {
		stored, err = s.storage.Save(fileHeader)
		if err != nil {
			return models.RespondWithError(c,
				models.NewInternalError("Failed to update post.", err))
		}
	}

	post.Title = req.Title
	post.Content = req.Content

	replacedFile, err := s.postRepo.Update(c.Context(), post, req.PostCategories, stored)
	if err != nil {
		if stored != nil {
			_ = s.storage.Remove(stored.FileName)
		}
		return models.RespondWithError(c,
			models.NewInternalError("Failed to update post.", err))
	}
	if replacedFile != "" {
		_ = s.storage.Remove(replacedFile)
	}

	return models.Respond(c, fiber.StatusOK, post, "Post updated successfully.")
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	id, err := s.parseID(c, "id", "Post not found")
	if err != nil {
		return nil
	}

	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, models.NewNotFoundError("Post not found"))
		}
		return models.RespondWithError(c,
			models.NewInternalError("Failed to delete post.", err))
	}
	if post.UserID != userID {
		return models.RespondWithError(c, models.NewForbiddenError("Unauthorized"))
	}

	removedFile, err := s.postRepo.Delete(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c,
			models.NewInternalError("Failed to delete post.", err))
	}
	if removedFile != "" {
		_ = s.storage.Remove(removedFile)
	}

	return models.Respond(c, fiber.StatusOK, nil, "Post deleted successfully.")
}

// parsePostRequest parses and validates the shared create/update payload.
// excludeID is the post being updated (0 on create) for the title uniqueness
// check. The returned file header is already validated but not yet saved.
func (s *Server) parsePostRequest(c *fiber.Ctx, excludeID uint) (*postRequest, *multipart.FileHeader, models.FieldErrors, error) {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, nil, models.FieldErrors{"body": {"The request body is invalid."}}, nil
	}

	errs := validation.Struct(req)
	if errs == nil {
		errs = models.FieldErrors{}
	}

	if excludeID != 0 && req.Title != "" {
		taken, err := s.postRepo.TitleTaken(c.Context(), req.Title, excludeID)
		if err != nil {
			return nil, nil, nil, models.NewInternalError("Failed to update post.", err)
		}
		if taken {
			errs.Add("title", "The title has already been taken.")
		}
	}

	if len(req.PostCategories) > 0 {
		missing, err := s.postRepo.MissingCategoryIDs(c.Context(), req.PostCategories)
		if err != nil {
			return nil, nil, nil, models.NewInternalError("Failed to validate categories.", err)
		}
		if len(missing) > 0 {
			errs.Add("post_categories", "The selected post categories is invalid.")
		}
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		fileHeader = nil
	}
	if fileHeader != nil {
		for _, msg := range media.ValidateHeader(fileHeader) {
			errs.Add("image", msg)
		}
	}

	return &req, fileHeader, errs, nil
}
