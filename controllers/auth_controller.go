package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mizutamari/gallery/config"
	"github.com/mizutamari/gallery/middleware"
	"github.com/mizutamari/gallery/utils"
)

// AuthController handles the shared-password admin session endpoints.
// The gallery has a single administrator, so there is no user table:
// knowing the configured password is the whole identity.
type AuthController struct{}

// NewAuthController creates an AuthController.
func NewAuthController() *AuthController {
	return &AuthController{}
}

// Login verifies the admin password and issues a session token as both
// an HttpOnly cookie and a bearer token in the response body.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Password      string `json:"password" binding:"required"`
		CaptchaID     string `json:"captcha_id"`
		CaptchaAnswer string `json:"captcha_answer"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	cfg := config.Get()
	ip := ctx.ClientIP()

	// Anti-abuse: temp ban after repeated failures, captcha after a few
	if utils.LoginIsBanned(ip) {
		utils.Error(ctx, http.StatusTooManyRequests, 42920, "当前 IP 已被临时限制，请稍后再试")
		return
	}
	if utils.LoginCaptchaRequired(ip) {
		if !utils.VerifyCaptcha(strings.TrimSpace(req.CaptchaID), strings.TrimSpace(req.CaptchaAnswer)) {
			utils.Respond(ctx, http.StatusBadRequest, 40012, "验证码错误或已过期", gin.H{"captcha_required": true})
			return
		}
	}

	if !utils.VerifyAdminPassword(cfg.AdminPassword, req.Password) {
		fails := utils.LoginFailRecord(ip)
		if fails >= max(cfg.LoginFailedMaxPerIPPerHour, 1) {
			utils.LoginBan(ip)
		}
		utils.Respond(ctx, http.StatusUnauthorized, 40106, "密码错误", gin.H{
			"captcha_required": utils.LoginCaptchaRequired(ip),
		})
		return
	}

	utils.LoginFailReset(ip)

	ttl := time.Duration(cfg.SessionTTLHours) * time.Hour
	token, err := utils.GenerateToken(ttl)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.SessionCookieName, token, cfg.SessionTTLHours*3600, "/", "", false, true)

	utils.Success(ctx, gin.H{"token": token})
}

// Logout invalidates the session token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	if token == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "missing session token")
		return
	}

	expiresAt := time.Now().Add(time.Duration(config.Get().SessionTTLHours) * time.Hour)
	if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	utils.BlacklistToken(token, expiresAt)

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)

	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me confirms the current session is a valid admin session.
func (a *AuthController) Me(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"admin": true})
}

// Captcha returns a fresh captcha id and base64 image (data URI).
func (a *AuthController) Captcha(ctx *gin.Context) {
	id, b64, err := utils.GenerateCaptcha()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "生成验证码失败")
		return
	}
	utils.Success(ctx, gin.H{"id": id, "image": b64, "required": utils.LoginCaptchaRequired(ctx.ClientIP())})
}
