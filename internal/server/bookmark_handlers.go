package server

import (
	"errors"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetBookmarks handles GET /api/bookmarks
func (s *Server) GetBookmarks(c *fiber.Ctx) error {
	bookmarks, err := s.bookmarkRepo.ListForUser(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c,
			models.NewInternalError("Failed to retrieve bookmarks.", err))
	}

	return models.Respond(c, fiber.StatusOK, bookmarks, "Bookmarks retrieved successfully")
}

// ToggleBookmark handles POST /api/bookmarks/:postId. Both branches return
// the refreshed bookmark list.
func (s *Server) ToggleBookmark(c *fiber.Ctx) error {
	userID := currentUserID(c)

	postID, err := s.parseID(c, "postId", "Post not found")
	if err != nil {
		return nil
	}

	if _, err := s.postRepo.GetByID(c.Context(), postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, models.NewNotFoundError("Post not found"))
		}
		return models.RespondWithError(c,
			models.NewInternalError("Failed to toggle bookmark", err))
	}

	bookmarked, err := s.bookmarkRepo.Toggle(c.Context(), userID, postID)
	if err != nil {
		return models.RespondWithError(c,
			models.NewInternalError("Failed to toggle bookmark", err))
	}

	bookmarks, err := s.bookmarkRepo.ListForUser(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c,
			models.NewInternalError("Failed to toggle bookmark", err))
	}

	message := "Bookmark removed"
	if bookmarked {
		message = "Post bookmarked"
	}
	return models.Respond(c, fiber.StatusOK, bookmarks, message)
}
