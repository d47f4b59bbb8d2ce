package utils

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"coursebox/logger"
	"coursebox/media"
	"coursebox/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type recordingGateway struct {
	mu       sync.Mutex
	destroys []string
	fail     map[string]bool
}

func (g *recordingGateway) Upload(context.Context, []byte, string, string, media.Kind) (string, error) {
	panic("sweeper never uploads")
}

func (g *recordingGateway) Destroy(_ context.Context, publicID string, _ media.Kind) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail[publicID] {
		return fmt.Errorf("destroy rejected for %s", publicID)
	}
	g.destroys = append(g.destroys, publicID)
	return nil
}

func sweeperTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Course{}, &models.Upload{}))
	return db
}

func backdate(t *testing.T, db *gorm.DB, up *models.Upload) {
	t.Helper()
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, db.Model(up).Update("created_at", old).Error)
}

func TestSweep_DestroysOnlyUnreferencedUploads(t *testing.T) {
	db := sweeperTestDB(t)
	gw := &recordingGateway{}

	referencedURL := "https://media.test/courses/images/img_live"
	orphanURL := "https://media.test/courses/files/file_orphan"

	require.NoError(t, db.Create(&models.Course{Title: "Live", Image: referencedURL}).Error)

	referenced := models.Upload{PublicID: "courses/images/img_live", Kind: "image", URL: referencedURL}
	orphan := models.Upload{PublicID: "courses/files/file_orphan", Kind: "raw", URL: orphanURL}
	require.NoError(t, db.Create(&referenced).Error)
	require.NoError(t, db.Create(&orphan).Error)
	backdate(t, db, &referenced)
	backdate(t, db, &orphan)

	s := NewUploadSweeper(db, gw, logger.NewNop(), time.Hour)
	s.Sweep(context.Background())

	assert.Equal(t, []string{"courses/files/file_orphan"}, gw.destroys)

	var remaining []models.Upload
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1, "only the referenced audit row survives")
	assert.Equal(t, "courses/images/img_live", remaining[0].PublicID)
}

func TestSweep_UnderscoreInURLIsNotAWildcard(t *testing.T) {
	db := sweeperTestDB(t)
	gw := &recordingGateway{}

	// A course references a URL that differs from the orphan's only where the
	// orphan has "_". A bare LIKE would treat the underscore as a
	// single-character wildcard and wrongly count this as a reference.
	require.NoError(t, db.Create(&models.Course{
		Title: "Lookalike",
		Files: "https://media.test/courses/files/fileXorphan",
	}).Error)

	orphan := models.Upload{
		PublicID: "courses/files/file_orphan",
		Kind:     "raw",
		URL:      "https://media.test/courses/files/file_orphan",
	}
	require.NoError(t, db.Create(&orphan).Error)
	backdate(t, db, &orphan)

	s := NewUploadSweeper(db, gw, logger.NewNop(), time.Hour)
	s.Sweep(context.Background())

	assert.Equal(t, []string{"courses/files/file_orphan"}, gw.destroys,
		"the lookalike reference must not shield the orphan")
}

func TestSweep_RespectsGracePeriod(t *testing.T) {
	db := sweeperTestDB(t)
	gw := &recordingGateway{}

	fresh := models.Upload{PublicID: "courses/files/file_fresh", Kind: "raw", URL: "https://media.test/courses/files/file_fresh"}
	require.NoError(t, db.Create(&fresh).Error)

	s := NewUploadSweeper(db, gw, logger.NewNop(), time.Hour)
	s.Sweep(context.Background())

	assert.Empty(t, gw.destroys, "uploads inside the grace period stay untouched")
}

func TestSweep_FailedDestroyKeepsRowForRetry(t *testing.T) {
	db := sweeperTestDB(t)
	gw := &recordingGateway{fail: map[string]bool{"courses/files/file_bad": true}}

	bad := models.Upload{PublicID: "courses/files/file_bad", Kind: "raw", URL: "https://media.test/courses/files/file_bad"}
	good := models.Upload{PublicID: "courses/files/file_good", Kind: "raw", URL: "https://media.test/courses/files/file_good"}
	require.NoError(t, db.Create(&bad).Error)
	require.NoError(t, db.Create(&good).Error)
	backdate(t, db, &bad)
	backdate(t, db, &good)

	s := NewUploadSweeper(db, gw, logger.NewNop(), time.Hour)
	s.Sweep(context.Background())

	assert.Equal(t, []string{"courses/files/file_good"}, gw.destroys)

	var badStillThere models.Upload
	assert.NoError(t, db.Where("public_id = ?", "courses/files/file_bad").First(&badStillThere).Error,
		"a failed destroy keeps the audit row so the next pass retries it")
}
