package models

import "github.com/gofiber/fiber/v2"

// Envelope is the uniform JSON wrapper around every API response. Success
// responses always carry data (possibly null); error responses omit data and
// carry errors only when a structured error map exists.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Respond writes a success envelope with the given status code.
func Respond(c *fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// RespondWithError writes an error envelope. AppError values carry their own
// status and structured error map; anything else becomes a 500 with the raw
// message under errors.error.
func RespondWithError(c *fiber.Ctx, err error) error {
	appErr, ok := err.(*AppError)
	if !ok {
		appErr = NewInternalError("Something went wrong. Try again later.", err)
	}

	body := fiber.Map{
		"success": false,
		"message": appErr.Message,
	}
	if len(appErr.Errors) > 0 {
		body["errors"] = appErr.Errors
	}
	return c.Status(appErr.Status).JSON(body)
}

// Paginated is the pagination metadata block wrapped around list payloads.
type Paginated struct {
	Data        any   `json:"data"`
	Total       int64 `json:"total"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	From        int   `json:"from"`
	To          int   `json:"to"`
	Offset      int   `json:"offset"`
	Limit       int   `json:"limit"`
}

// NewPaginated computes the derived page fields for count items on the given
// page. From/To are zero when the page is empty.
func NewPaginated(data any, total int64, page, perPage, count int) Paginated {
	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}
	offset := (page - 1) * perPage

	from, to := 0, 0
	if count > 0 {
		from = offset + 1
		to = offset + count
	}

	return Paginated{
		Data:        data,
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    lastPage,
		From:        from,
		To:          to,
		Offset:      offset,
		Limit:       perPage,
	}
}
