package utils

import (
	"fmt"
	"strconv"

	"coursebox/logger"
	"coursebox/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gorm.io/gorm"
)

// PublishNotifier emails a course's creator when the course transitions to
// published. Delivery is best-effort: every failure is logged and swallowed.
type PublishNotifier struct {
	DB     *gorm.DB
	Log    *logger.Logger
	APIKey string
	Sender string
}

func NewPublishNotifier(db *gorm.DB, log *logger.Logger, apiKey, sender string) *PublishNotifier {
	return &PublishNotifier{DB: db, Log: log, APIKey: apiKey, Sender: sender}
}

// CoursePublished notifies the creator of course that it went live.
func (n *PublishNotifier) CoursePublished(course *models.Course) {
	if n.APIKey == "" {
		n.Log.Debug("sendgrid key not configured, skipping publish notification", "courseId", course.ID)
		return
	}

	creatorID, err := strconv.ParseUint(course.CreatedBy, 10, 64)
	if err != nil {
		n.Log.Warn("cannot resolve course creator for notification", "courseId", course.ID, "createdBy", course.CreatedBy)
		return
	}

	var creator models.User
	if err := n.DB.First(&creator, uint(creatorID)).Error; err != nil {
		n.Log.Warn("course creator not found for notification", "courseId", course.ID, "creatorId", creatorID)
		return
	}

	from := mail.NewEmail("Coursebox", n.Sender)
	to := mail.NewEmail(creator.Name, creator.Email)
	subject := fmt.Sprintf("Your course %q is now published", course.Title)
	plain := fmt.Sprintf("Hi %s,\n\nYour course %q is now live and visible to students.\n", creator.Name, course.Title)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your course <strong>%s</strong> is now live and visible to students.</p>", creator.Name, course.Title)

	message := mail.NewSingleEmail(from, subject, to, plain, html)
	client := sendgrid.NewSendClient(n.APIKey)

	resp, err := client.Send(message)
	if err != nil {
		n.Log.Warn("publish notification failed", "courseId", course.ID, "error", err)
		return
	}
	if resp.StatusCode >= 400 {
		n.Log.Warn("publish notification rejected", "courseId", course.ID, "status", resp.StatusCode)
		return
	}
	n.Log.Info("publish notification sent", "courseId", course.ID, "to", creator.Email)
}
