package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mizutamari/gallery/config"
	"github.com/mizutamari/gallery/utils"
)

// BodySizeLimit rejects oversized requests before the upload handler buffers
// anything. Requests that lie about Content-Length are still cut off by
// MaxBytesReader when the multipart form is read.
func BodySizeLimit() gin.HandlerFunc {
	limit := int64(config.Get().MaxUploadMB) << 20

	return func(ctx *gin.Context) {
		if ctx.Request.ContentLength > limit {
			utils.Error(ctx, 413, 41301, "request body too large")
			ctx.Abort()
			return
		}
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, limit)
		ctx.Next()
	}
}
