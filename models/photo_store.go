package models

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// PhotoStore wraps photo persistence. Each method is a single statement;
// lookups that miss return gorm.ErrRecordNotFound and the caller decides
// whether that is an error.
type PhotoStore struct {
	db *gorm.DB
}

func NewPhotoStore(db *gorm.DB) *PhotoStore {
	return &PhotoStore{db: db}
}

// Insert persists a new photo. The store assigns ID and stamps UploadedAt
// with the current UTC instant unless already set.
func (s *PhotoStore) Insert(ctx context.Context, p *Photo) error {
	if p.UploadedAt.IsZero() {
		p.UploadedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("insert photo: %w", err)
	}
	return nil
}

// Get loads one photo by id.
func (s *PhotoStore) Get(ctx context.Context, id uint) (*Photo, error) {
	var p Photo
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Update rewrites the mutable fields (title, date) of an existing photo.
func (s *PhotoStore) Update(ctx context.Context, id uint, title, date string) error {
	res := s.db.WithContext(ctx).Model(&Photo{}).Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "date": date})
	if res.Error != nil {
		return fmt.Errorf("update photo %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the photo row. Artifact files are the caller's business.
func (s *PhotoStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&Photo{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete photo %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListAll returns every photo ordered for the public gallery: newest date
// first, newest upload first within a date. GroupByDate relies on this order.
func (s *PhotoStore) ListAll(ctx context.Context) ([]Photo, error) {
	var photos []Photo
	if err := s.db.WithContext(ctx).Order("date DESC, id DESC").Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return photos, nil
}

// ListByIDDesc returns every photo newest-first regardless of date, the order
// the admin table uses.
func (s *PhotoStore) ListByIDDesc(ctx context.Context) ([]Photo, error) {
	var photos []Photo
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return photos, nil
}
