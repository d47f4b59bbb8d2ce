package courseRoutes

import (
	courseController "coursebox/controllers/course"
	"coursebox/middleware"
	validators "coursebox/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all course routes. Reads are public; anything
// that mutates is JWT-guarded.
func SetupCourseRoutes(app *fiber.App, ctl *courseController.Controller) {
	group := app.Group("/courses")

	group.Get("/", ctl.GetCourses)
	// teacher listing has to register before the :id route
	group.Get("/teacher/:id", ctl.GetTeacherCourses)
	group.Get("/:id", validators.CourseID(), ctl.GetCourseByID)

	group.Post("/", middleware.JWTMiddleware, validators.CreateCourse(), ctl.CreateCourse)
	group.Put("/:id", middleware.JWTMiddleware, validators.UpdateCourse(), ctl.UpdateCourse)
	group.Delete("/:id", middleware.JWTMiddleware, validators.CourseID(), ctl.DeleteCourse)
}
