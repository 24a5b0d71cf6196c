package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/mizutamari/gallery/config"
	"github.com/mizutamari/gallery/utils"
)

// ConfigController serves dynamic, environment-driven UI configuration.
type ConfigController struct{}

func NewConfigController() *ConfigController { return &ConfigController{} }

// GetSite returns the public site configuration: the gallery title and the
// announcement shown above the photo wall. The notice is operator-supplied
// HTML and still goes through the sanitizer before leaving the API.
func (c *ConfigController) GetSite(ctx *gin.Context) {
	cfg := config.Get()
	utils.Success(ctx, gin.H{
		"title":       cfg.SiteTitle,
		"notice_html": utils.Sanitize(cfg.SiteNoticeHTML),
	})
}
