package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mizutamari/gallery/models"
	"github.com/mizutamari/gallery/utils"
)

// GalleryController serves the public photo wall.
type GalleryController struct {
	db     *gorm.DB
	photos *models.PhotoStore
}

// NewGalleryController creates a GalleryController.
func NewGalleryController(db *gorm.DB) *GalleryController {
	return &GalleryController{db: db, photos: models.NewPhotoStore(db)}
}

const galleryCacheKey = "cache:gallery:groups"

// ListGrouped returns all photos grouped by date, newest day first.
func (g *GalleryController) ListGrouped(ctx *gin.Context) {
	// try cache first
	if b, ok := utils.CacheGetBytes(galleryCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	photos, err := g.photos.ListAll(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to list photos")
		return
	}

	groups := models.GroupByDate(photos)
	for i := range groups {
		groups[i].DisplayDate = utils.FormatDateCN(groups[i].Date)
	}

	payload := gin.H{"groups": groups, "count": len(photos)}
	utils.CacheSetJSON(galleryCacheKey, utils.SuccessEnvelope(payload), 10*time.Minute)

	utils.Success(ctx, payload)
}
