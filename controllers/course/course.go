package courseController

import (
	"io"
	"mime/multipart"
	"strconv"

	"coursebox/logger"
	"coursebox/media"
	"coursebox/middleware"
	"coursebox/models"
	"coursebox/utils"
	courseValidator "coursebox/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Notifier announces a course's transition to published. Delivery is
// best-effort and must never affect a response.
type Notifier interface {
	CoursePublished(course *models.Course)
}

// Controller coordinates validation, media uploads and persistence for the
// course endpoints. One instance is built at startup with its collaborators
// injected; handlers hold no state of their own.
type Controller struct {
	DB     *gorm.DB
	Media  media.Gateway
	Log    *logger.Logger
	Notify Notifier
}

func NewController(db *gorm.DB, gw media.Gateway, log *logger.Logger, notify Notifier) *Controller {
	return &Controller{DB: db, Media: gw, Log: log, Notify: notify}
}

// readFile loads one multipart file fully into memory.
func readFile(fh *multipart.FileHeader) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}

// recordUpload writes the audit row the orphan sweeper works from. Failure to
// record never fails the request.
func (ctl *Controller) recordUpload(publicID string, kind media.Kind, url string) {
	row := models.Upload{PublicID: publicID, Kind: string(kind), URL: url}
	if err := ctl.DB.Create(&row).Error; err != nil {
		ctl.Log.Warn("failed to record upload audit row", "publicId", publicID, "error", err)
	}
}

// uploadImage validates the image gate and pushes the buffer to the media
// store. Returns the public URL.
func (ctl *Controller) uploadImage(c *fiber.Ctx, fh *multipart.FileHeader) (string, error) {
	buf, err := readFile(fh)
	if err != nil {
		return "", err
	}

	width, err := utils.ImageWidth(buf)
	if err != nil {
		return "", err
	}
	if width < utils.MinCourseImageWidth {
		return "", errImageTooNarrow
	}

	name := utils.ImageObjectName()
	url, err := ctl.Media.Upload(c.UserContext(), buf, media.CourseImageFolder, name, media.KindImage)
	if err != nil {
		return "", err
	}
	ctl.recordUpload(media.CourseImageFolder+"/"+name, media.KindImage, url)
	return url, nil
}

// uploadFiles pushes every generic attachment sequentially, in the order
// received. The first failure aborts; earlier uploads are not rolled back
// here (the sweeper reclaims them later).
func (ctl *Controller) uploadFiles(c *fiber.Ctx, headers []*multipart.FileHeader) ([]string, error) {
	var urls []string
	for _, fh := range headers {
		buf, err := readFile(fh)
		if err != nil {
			return nil, err
		}
		name := utils.FileObjectName(fh.Filename)
		url, err := ctl.Media.Upload(c.UserContext(), buf, media.CourseFileFolder, name, media.KindRaw)
		if err != nil {
			return nil, err
		}
		ctl.recordUpload(media.CourseFileFolder+"/"+name, media.KindRaw, url)
		urls = append(urls, url)
	}
	return urls, nil
}

// CreateCourse handles POST /courses.
func (ctl *Controller) CreateCourse(c *fiber.Ctx) error {
	form := c.Locals("courseForm").(*courseValidator.CourseForm)

	var imgHeader *multipart.FileHeader
	var fileHeaders []*multipart.FileHeader
	if mf, err := c.MultipartForm(); err == nil {
		if imgs := mf.File["img"]; len(imgs) > 0 {
			imgHeader = imgs[0]
		}
		fileHeaders = mf.File["files"]
	}

	var imgURL string
	if imgHeader != nil {
		url, err := ctl.uploadImage(c, imgHeader)
		if err == errImageTooNarrow {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "The image width must be at least 850px")
		}
		if err != nil {
			ctl.Log.Error("course image upload failed", "error", err)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add course")
		}
		imgURL = url
	}

	fileURLs, err := ctl.uploadFiles(c, fileHeaders)
	if err != nil {
		ctl.Log.Error("course file upload failed", "error", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add course")
	}

	course := models.Course{
		Title:       form.Title,
		Description: form.Description,
		Article:     form.Article,
		VideoLink:   form.VideoLink,
		Image:       imgURL,
		Files:       joinURLs(fileURLs),
		CreatedBy:   form.CreatedBy,
	}
	if form.Publish != nil {
		course.Publish = *form.Publish
	}

	if err := ctl.DB.Create(&course).Error; err != nil {
		ctl.Log.Error("failed to persist course", "error", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to add course")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      course.ID,
		"message": "Course added successfully",
	})
}

// UpdateCourse handles PUT /courses/:id.
func (ctl *Controller) UpdateCourse(c *fiber.Ctx) error {
	form := c.Locals("courseForm").(*courseValidator.CourseForm)

	id, err := strconv.ParseUint(form.ID, 10, 64)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "Course not found")
	}

	var course models.Course
	if err := ctl.DB.First(&course, uint(id)).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "Course not found")
	}

	wasPublished := course.IsPublished()

	var imgHeader *multipart.FileHeader
	var fileHeaders []*multipart.FileHeader
	if mf, mfErr := c.MultipartForm(); mfErr == nil {
		if imgs := mf.File["img"]; len(imgs) > 0 {
			imgHeader = imgs[0]
		}
		fileHeaders = mf.File["files"]
	}

	// A new image replaces the old URL; without one the previous value stays.
	// The replaced remote object is not destroyed here — the sweeper owns that.
	if imgHeader != nil {
		url, upErr := ctl.uploadImage(c, imgHeader)
		if upErr == errImageTooNarrow {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "The image width must be at least 850px")
		}
		if upErr != nil {
			ctl.Log.Error("course image upload failed", "courseId", course.ID, "error", upErr)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update course")
		}
		course.Image = url
	}

	// New files overwrite the whole list; none attached keeps the old list.
	if len(fileHeaders) > 0 {
		urls, upErr := ctl.uploadFiles(c, fileHeaders)
		if upErr != nil {
			ctl.Log.Error("course file upload failed", "courseId", course.ID, "error", upErr)
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update course")
		}
		course.Files = joinURLs(urls)
	}

	course.Title = form.Title
	course.Description = form.Description
	course.VideoLink = form.VideoLink
	course.Article = form.Article
	if form.Publish != nil {
		course.Publish = *form.Publish
	}

	if err := ctl.DB.Save(&course).Error; err != nil {
		ctl.Log.Error("failed to persist course update", "courseId", course.ID, "error", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update course")
	}

	// Delivery is best-effort, so a slow mail backend must not hold up the
	// response.
	if !wasPublished && course.IsPublished() && ctl.Notify != nil {
		go ctl.Notify.CoursePublished(&course)
	}

	return middleware.MessageResponse(c, fiber.StatusOK, "Course updated successfully")
}

// DeleteCourse handles DELETE /courses/:id. The record delete is the point of
// no return; remote cleanup afterwards is best-effort per object.
func (ctl *Controller) DeleteCourse(c *fiber.Ctx) error {
	id := c.Locals("courseID").(uint)

	var course models.Course
	if err := ctl.DB.First(&course, id).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "Course not found")
	}

	if err := ctl.DB.Delete(&models.Course{}, id).Error; err != nil {
		ctl.Log.Error("failed to delete course", "courseId", id, "error", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete course")
	}

	if course.Image != "" {
		publicID := utils.PublicIDFromURL(course.Image, media.CourseImageFolder)
		if err := ctl.Media.Destroy(c.UserContext(), publicID, media.KindImage); err != nil {
			ctl.Log.Warn("failed to delete course image from media store", "publicId", publicID, "error", err)
		}
	}

	for _, fileURL := range course.FileURLs() {
		publicID := utils.PublicIDFromURL(fileURL, media.CourseFileFolder)
		if err := ctl.Media.Destroy(c.UserContext(), publicID, media.KindRaw); err != nil {
			ctl.Log.Warn("failed to delete course file from media store", "publicId", publicID, "error", err)
		}
	}

	return middleware.MessageResponse(c, fiber.StatusOK, "Course deleted successfully along with associated files")
}

// GetCourses handles GET /courses.
func (ctl *Controller) GetCourses(c *fiber.Ctx) error {
	var courses []models.Course
	if err := ctl.DB.Find(&courses).Error; err != nil {
		ctl.Log.Error("failed to fetch courses", "error", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch courses")
	}

	if len(courses) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "No courses found")
	}

	return c.Status(fiber.StatusOK).JSON(courses)
}

// GetCourseByID handles GET /courses/:id.
func (ctl *Controller) GetCourseByID(c *fiber.Ctx) error {
	id := c.Locals("courseID").(uint)

	var course models.Course
	if err := ctl.DB.First(&course, id).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "Course not found")
	}

	return c.Status(fiber.StatusOK).JSON(course)
}

// GetTeacherCourses handles GET /courses/teacher/:id.
func (ctl *Controller) GetTeacherCourses(c *fiber.Ctx) error {
	creatorID := c.Params("id")

	var courses []models.Course
	if err := ctl.DB.Where("created_by = ?", creatorID).Find(&courses).Error; err != nil {
		ctl.Log.Error("failed to fetch teacher courses", "creatorId", creatorID, "error", err)
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch courses")
	}

	if len(courses) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "No courses found for this teacher")
	}

	return c.Status(fiber.StatusOK).JSON(courses)
}
