package models_test

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mizutamari/gallery/models"
)

func newTestStore(t *testing.T) *models.PhotoStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// in-memory sqlite lives per connection; keep the pool to one
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Photo{}))
	return models.NewPhotoStore(db)
}

func insertPhoto(t *testing.T, store *models.PhotoStore, title, date string) models.Photo {
	t.Helper()
	p := models.Photo{
		FilenameWeb:   title + "-web.jpg",
		FilenameThumb: title + "-thumb.jpg",
		Title:         title,
		Date:          date,
	}
	require.NoError(t, store.Insert(context.Background(), &p))
	return p
}

func TestPhotoStore_InsertAssignsIDAndTimestamp(t *testing.T) {
	store := newTestStore(t)

	p := insertPhoto(t, store, "first", "2024-05-01")
	assert.NotZero(t, p.ID)
	assert.False(t, p.UploadedAt.IsZero())
}

func TestPhotoStore_GetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	inserted := insertPhoto(t, store, "first", "2024-05-01")

	got, err := store.Get(context.Background(), inserted.ID)
	require.NoError(t, err)
	assert.Equal(t, inserted.ID, got.ID)
	assert.Equal(t, "first", got.Title)
	assert.Equal(t, "2024-05-01", got.Date)
	assert.Equal(t, "first-web.jpg", got.FilenameWeb)
	assert.Equal(t, "first-thumb.jpg", got.FilenameThumb)
}

func TestPhotoStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), 12345)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestPhotoStore_Update(t *testing.T) {
	store := newTestStore(t)
	p := insertPhoto(t, store, "old", "2024-05-01")

	require.NoError(t, store.Update(context.Background(), p.ID, "new title", "2024-06-15"))

	got, err := store.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "new title", got.Title)
	assert.Equal(t, "2024-06-15", got.Date)
	// filenames are immutable through Update
	assert.Equal(t, "old-web.jpg", got.FilenameWeb)
}

func TestPhotoStore_UpdateMissing(t *testing.T) {
	store := newTestStore(t)

	err := store.Update(context.Background(), 999, "title", "2024-01-01")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestPhotoStore_Delete(t *testing.T) {
	store := newTestStore(t)
	p := insertPhoto(t, store, "gone", "2024-05-01")

	require.NoError(t, store.Delete(context.Background(), p.ID))

	_, err := store.Get(context.Background(), p.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	err = store.Delete(context.Background(), p.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestPhotoStore_ListAllOrdering(t *testing.T) {
	store := newTestStore(t)
	a := insertPhoto(t, store, "a", "2024-05-02")
	b := insertPhoto(t, store, "b", "2024-05-01")
	c := insertPhoto(t, store, "c", "2024-05-02")

	photos, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, photos, 3)

	// newest date first, newest id first within a date
	assert.Equal(t, c.ID, photos[0].ID)
	assert.Equal(t, a.ID, photos[1].ID)
	assert.Equal(t, b.ID, photos[2].ID)
}

func TestPhotoStore_ListByIDDescOrdering(t *testing.T) {
	store := newTestStore(t)
	a := insertPhoto(t, store, "a", "2024-05-02")
	b := insertPhoto(t, store, "b", "2024-05-01")
	c := insertPhoto(t, store, "c", "2024-05-02")

	photos, err := store.ListByIDDesc(context.Background())
	require.NoError(t, err)
	require.Len(t, photos, 3)
	assert.Equal(t, []uint{c.ID, b.ID, a.ID}, []uint{photos[0].ID, photos[1].ID, photos[2].ID})
}

func TestPhotoStore_IDsNeverReused(t *testing.T) {
	store := newTestStore(t)
	insertPhoto(t, store, "a", "2024-05-01")
	b := insertPhoto(t, store, "b", "2024-05-01")

	require.NoError(t, store.Delete(context.Background(), b.ID))

	c := insertPhoto(t, store, "c", "2024-05-01")
	assert.Greater(t, c.ID, b.ID)
}
