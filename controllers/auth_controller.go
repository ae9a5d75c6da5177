package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Sapphirecho8/misaka-danmu-server-plus/app"
	"github.com/Sapphirecho8/misaka-danmu-server-plus/invites"
	"github.com/Sapphirecho8/misaka-danmu-server-plus/models"
)

type AuthController struct{ *Srv }

func GetAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

// POST /api/auth/register  受邀注册（公开接口）
func (ac *AuthController) Register(c *gin.Context) {
	var req invites.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	id, err := ac.Invites.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, invites.ErrInviteNotFound),
			errors.Is(err, invites.ErrInviteExpired),
			errors.Is(err, invites.ErrNoRemainingUses):
			c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		case errors.Is(err, invites.ErrReservedUsername):
			c.JSON(http.StatusForbidden, app.H{"error": err.Error()})
		case errors.Is(err, invites.ErrUsernameExists):
			c.JSON(http.StatusConflict, app.H{"error": err.Error()})
		default:
			ac.Logger.Error("受邀注册失败", zap.Error(err))
			c.JSON(http.StatusInternalServerError, app.H{"error": "internal error"})
		}
		return
	}
	c.JSON(http.StatusCreated, app.H{"id": id})
}

// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	u, err := ac.Repo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, app.H{"error": "用户名或密码错误"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": "internal error"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "用户名或密码错误"})
		return
	}

	token, jti, err := app.SignToken(ac.Cfg.JWTSecret, u, ac.Cfg.SessionTTL)
	if err != nil {
		ac.Logger.Error("签发 token 失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, app.H{"error": "internal error"})
		return
	}
	if err := ac.AppSess.Create(ctx, jti, u.ID, u.Username); err != nil {
		ac.Logger.Error("写入会话失败", zap.Error(err))
		c.JSON(http.StatusInternalServerError, app.H{"error": "internal error"})
		return
	}
	_ = ac.Repo.TouchUserLogin(ctx, u.ID) // 登录快照失败不阻塞

	c.JSON(http.StatusOK, app.H{"token": token, "user": u})
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	if sid := app.CurrentSessionID(c); sid != "" {
		_ = ac.AppSess.Delete(c.Request.Context(), sid)
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	u := app.CurrentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, app.H{
		"user":        u,
		"permissions": models.DecodePermissions(u.PermissionsJSON),
	})
}
