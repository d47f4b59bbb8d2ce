package courseValidator

import (
	"strconv"
	"strings"

	"coursebox/middleware"

	"github.com/gofiber/fiber/v2"
)

// CourseForm carries the scalar multipart fields of a create/update request.
// Publish is a pointer so handlers can tell "absent" from "set to empty".
type CourseForm struct {
	ID          string
	Title       string
	Description string
	VideoLink   string
	Article     string
	CreatedBy   string
	Publish     *string
}

func parseForm(c *fiber.Ctx) *CourseForm {
	form := &CourseForm{
		ID:          c.FormValue("_id"),
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		VideoLink:   c.FormValue("videoLink"),
		Article:     c.FormValue("article"),
		CreatedBy:   c.FormValue("createdBy"),
	}
	if mf, err := c.MultipartForm(); err == nil {
		if vals, ok := mf.Value["publish"]; ok && len(vals) > 0 {
			form.Publish = &vals[0]
		}
	}
	return form
}

// CreateCourse validates the multipart body of a create request.
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		form := parseForm(c)

		if strings.TrimSpace(form.Title) == "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Title is required")
		}

		c.Locals("courseForm", form)
		return c.Next()
	}
}

// UpdateCourse validates the multipart body of an update request.
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		form := parseForm(c)

		if strings.TrimSpace(form.ID) == "" || strings.TrimSpace(form.Title) == "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "ID and title are required")
		}

		c.Locals("courseForm", form)
		return c.Next()
	}
}

// CourseID validates the :id path parameter on get/delete routes.
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil || id == 0 {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid course id")
		}

		c.Locals("courseID", uint(id))
		return c.Next()
	}
}
