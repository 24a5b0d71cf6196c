package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mizutamari/gallery/models"
	"github.com/mizutamari/gallery/utils"
)

// StatsController provides gallery statistics such as counts and page views.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate statistics for the gallery.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var photoCount int64
	var dayCount int64
	var todayViews int64
	var totalViews int64

	if err := s.db.Model(&models.Photo{}).Count(&photoCount).Error; err != nil {
		// Fallback to 0 instead of failing the whole endpoint
		photoCount = 0
	}

	if err := s.db.Model(&models.Photo{}).Distinct("date").Count(&dayCount).Error; err != nil {
		dayCount = 0
	}

	// Compare against the same midnight value the PV recorder writes so the
	// equality holds on both mysql DATE columns and sqlite text storage.
	now := time.Now().In(utils.RefLocation())
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := s.db.Model(&models.PageView{}).
		Where("date = ?", midnight).
		Select("COALESCE(SUM(count),0)").
		Scan(&todayViews).Error; err != nil {
		todayViews = 0
	}

	if err := s.db.Model(&models.PageView{}).
		Select("COALESCE(SUM(count),0)").
		Scan(&totalViews).Error; err != nil {
		totalViews = 0
	}

	utils.Success(ctx, gin.H{
		"photo_count": photoCount,
		"day_count":   dayCount,
		"today_views": todayViews,
		"total_views": totalViews,
	})
}
