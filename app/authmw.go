package app

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Sapphirecho8/misaka-danmu-server-plus/config"
	"github.com/Sapphirecho8/misaka-danmu-server-plus/db"
	"github.com/Sapphirecho8/misaka-danmu-server-plus/models"
	"github.com/Sapphirecho8/misaka-danmu-server-plus/session"
)

const (
	ctxUserKey    = "user"
	ctxSessionKey = "sessionID"
)

// AuthRequired 解析 Bearer token，校验 Redis 会话还活着，
// 并确认用户仍然存在，把完整用户行放进 Context（只查一次）
func AuthRequired(cfg config.Config, appSess *session.AppSessionStore, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}

		claims, err := ParseToken(cfg.JWTSecret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}

		if _, err := appSess.Get(c.Request.Context(), claims.ID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		u, err := repo.FindUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			_ = appSess.Delete(c.Request.Context(), claims.ID)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}

		c.Set(ctxUserKey, u)
		c.Set(ctxSessionKey, claims.ID)
		c.Next()
	}
}

// CurrentUser 取中间件放进来的用户行，未鉴权时为 nil
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

func CurrentSessionID(c *gin.Context) string {
	v, ok := c.Get(ctxSessionKey)
	if !ok {
		return ""
	}
	sid, _ := v.(string)
	return sid
}

// SetCurrentUser 测试里直接塞用户用
func SetCurrentUser(c *gin.Context, u *models.User) { c.Set(ctxUserKey, u) }
