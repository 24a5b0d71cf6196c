package controllers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mizutamari/gallery/config"
	"github.com/mizutamari/gallery/models"
	"github.com/mizutamari/gallery/utils"
)

// PhotoController handles the admin photo endpoints: upload, list, edit, delete.
type PhotoController struct {
	db     *gorm.DB
	photos *models.PhotoStore
}

// NewPhotoController creates a PhotoController.
func NewPhotoController(db *gorm.DB) *PhotoController {
	return &PhotoController{db: db, photos: models.NewPhotoStore(db)}
}

// allowedUploadExts mirrors the formats the image decoder is registered for.
var allowedUploadExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ListAdmin returns all photos newest-first for the management table.
func (p *PhotoController) ListAdmin(ctx *gin.Context) {
	photos, err := p.photos.ListByIDDesc(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to list photos")
		return
	}
	utils.Success(ctx, gin.H{"items": photos, "count": len(photos)})
}

// Upload ingests one image: decode, re-encode as a web rendition and a
// thumbnail, then persist the row. On any failure before the insert, the
// request errors without creating a row; files already written stay on disk
// for the orphan sweeper.
func (p *PhotoController) Upload(ctx *gin.Context) {
	// Accept common field name 'file' or fallback to 'f'
	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		file, header, err = ctx.Request.FormFile("f")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				utils.Error(ctx, http.StatusRequestEntityTooLarge, 41301, "request body too large")
				return
			}
			utils.Error(ctx, http.StatusBadRequest, 40030, "未选择图片")
			return
		}
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedUploadExts[ext] {
		utils.Error(ctx, http.StatusBadRequest, 40031, "不支持的图片格式")
		return
	}

	img, err := utils.DecodeNormalize(file)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40032, "图片无效或已损坏")
		return
	}

	title, date, ok := normalizePhotoMeta(ctx, ctx.PostForm("title"), ctx.PostForm("date"))
	if !ok {
		return
	}

	cfg := config.Get()
	for _, dir := range []string{cfg.UploadDirWeb, cfg.UploadDirThumbs} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create upload directory")
			return
		}
	}

	webName := utils.NewArtifactName()
	thumbName := utils.NewArtifactName()

	if err := utils.SaveJPEG(img, cfg.WebMaxSide, cfg.WebQuality, filepath.Join(cfg.UploadDirWeb, webName)); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to save image")
		return
	}
	if err := utils.SaveJPEG(img, cfg.ThumbMaxSide, cfg.ThumbQuality, filepath.Join(cfg.UploadDirThumbs, thumbName)); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to save image")
		return
	}

	photo := models.Photo{
		FilenameWeb:   webName,
		FilenameThumb: thumbName,
		Title:         title,
		Date:          date,
	}
	if err := p.photos.Insert(ctx.Request.Context(), &photo); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to save photo record")
		return
	}

	utils.InvalidateByPrefix("cache:gallery:")
	utils.Success(ctx, gin.H{"photo": photo})
}

// Update edits a photo's title and date. Absent rows are a no-op: the
// response is success either way, matching delete semantics.
func (p *PhotoController) Update(ctx *gin.Context) {
	id, err := strconv.ParseUint(strings.TrimSpace(ctx.Param("id")), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid photo id")
		return
	}

	var req struct {
		Title string `json:"title"`
		Date  string `json:"date"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	title, date, ok := normalizePhotoMeta(ctx, req.Title, req.Date)
	if !ok {
		return
	}

	if err := p.photos.Update(ctx.Request.Context(), uint(id), title, date); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Success(ctx, gin.H{"message": "photo updated"})
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to update photo")
		return
	}

	utils.InvalidateByPrefix("cache:gallery:")
	utils.Success(ctx, gin.H{"message": "photo updated"})
}

// Delete removes both image renditions and the photo row. Files go first so
// a failed row delete can be retried; missing files and missing rows are
// tolerated.
func (p *PhotoController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseUint(strings.TrimSpace(ctx.Param("id")), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid photo id")
		return
	}

	photo, err := p.photos.Get(ctx.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Success(ctx, gin.H{"message": "photo deleted"})
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to load photo")
		return
	}

	cfg := config.Get()
	removeArtifact(filepath.Join(cfg.UploadDirWeb, photo.FilenameWeb))
	removeArtifact(filepath.Join(cfg.UploadDirThumbs, photo.FilenameThumb))

	if err := p.photos.Delete(ctx.Request.Context(), uint(id)); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to delete photo")
		return
	}

	utils.InvalidateByPrefix("cache:gallery:")
	utils.Success(ctx, gin.H{"message": "photo deleted"})
}

// normalizePhotoMeta applies the metadata defaulting policy: blank titles
// become the configured placeholder, blank dates become today in the gallery
// timezone, and non-blank dates must be YYYY-MM-DD. Returns ok=false after
// writing the error response itself.
func normalizePhotoMeta(ctx *gin.Context, title, date string) (string, string, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = config.Get().DefaultTitle
	}
	date = strings.TrimSpace(date)
	if date == "" {
		date = utils.TodayString()
	} else if !utils.ValidDate(date) {
		utils.Error(ctx, http.StatusBadRequest, 40033, "日期格式应为 YYYY-MM-DD")
		return "", "", false
	}
	return title, date, true
}

func removeArtifact(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		utils.Sugar.Warnf("remove image artifact %s: %v", path, err)
	}
}
