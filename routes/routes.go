package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Sapphirecho8/misaka-danmu-server-plus/app"
	"github.com/Sapphirecho8/misaka-danmu-server-plus/controllers"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	inviteCtl := controllers.GetInviteController(s)
	authCtl := controllers.GetAuthController(s)

	// 复用的中间件
	authMW := app.AuthRequired(a.Config, s.AppSess, s.Repo)
	rateMW := app.PerHourRateLimit(a.RDB)

	// ------------------------------
	// 认证（公开 + 受保护）
	// ------------------------------
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authCtl.Register) // 受邀注册
		auth.POST("/login", authCtl.Login)
	}

	authed := r.Group("/api/auth", authMW)
	{
		authed.POST("/logout", authCtl.Logout)
		authed.GET("/me", authCtl.Me)
	}

	// ------------------------------
	// 邀请码
	// ------------------------------
	// 公开校验：不泄露禁用码的存在
	r.GET("/api/invites/validate", inviteCtl.Validate)

	invitesGrp := r.Group("/api/invites", authMW, rateMW)
	{
		invitesGrp.GET("", inviteCtl.List)
		invitesGrp.POST("", inviteCtl.Create)
		invitesGrp.DELETE("/:id", inviteCtl.Delete)
	}
}
