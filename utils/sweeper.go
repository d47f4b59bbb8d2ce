package utils

import (
	"context"
	"strings"
	"time"

	"coursebox/logger"
	"coursebox/media"
	"coursebox/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// UploadSweeper reclaims remote media objects that no course references
// anymore: leftovers of aborted multi-upload batches and attachments that were
// replaced by a later update. It runs outside any request path and never
// changes a response; request handlers deliberately do no rollback of their
// own.
type UploadSweeper struct {
	DB    *gorm.DB
	Media media.Gateway
	Log   *logger.Logger
	Grace time.Duration // minimum age before an upload is eligible
}

func NewUploadSweeper(db *gorm.DB, gw media.Gateway, log *logger.Logger, grace time.Duration) *UploadSweeper {
	return &UploadSweeper{DB: db, Media: gw, Log: log, Grace: grace}
}

// Start schedules the sweep on the given cron spec and returns the running
// scheduler so the caller can Stop it on shutdown.
func (s *UploadSweeper) Start(schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		s.Sweep(context.Background())
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	s.Log.Info("upload sweeper scheduled", "schedule", schedule, "grace", s.Grace.String())
	return c, nil
}

// escapeLike neutralizes LIKE metacharacters so a stored URL only matches
// itself. Upload URLs always contain "_", which is a single-character wildcard
// when left bare.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// Sweep walks audit rows older than the grace period and destroys every
// remote object whose URL no longer appears in any course record. Each object
// is handled independently; one failure does not stop the pass.
func (s *UploadSweeper) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.Grace)

	var uploads []models.Upload
	if err := s.DB.Where("created_at < ?", cutoff).Find(&uploads).Error; err != nil {
		s.Log.Error("upload sweep query failed", "error", err)
		return
	}

	swept := 0
	for _, up := range uploads {
		var count int64
		err := s.DB.Model(&models.Course{}).
			Where("image = ? OR files LIKE ? ESCAPE '\\'", up.URL, "%"+escapeLike(up.URL)+"%").
			Count(&count).Error
		if err != nil {
			s.Log.Error("upload sweep reference check failed", "publicId", up.PublicID, "error", err)
			continue
		}
		if count > 0 {
			continue // still referenced
		}

		if err := s.Media.Destroy(ctx, up.PublicID, media.Kind(up.Kind)); err != nil {
			s.Log.Warn("upload sweep destroy failed", "publicId", up.PublicID, "error", err)
			continue
		}
		if err := s.DB.Delete(&models.Upload{}, up.ID).Error; err != nil {
			s.Log.Warn("upload sweep failed to prune audit row", "publicId", up.PublicID, "error", err)
			continue
		}
		swept++
	}

	if swept > 0 || len(uploads) > 0 {
		s.Log.Info("upload sweep finished", "candidates", len(uploads), "swept", swept)
	}
}
