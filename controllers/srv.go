package controllers

import (
	"go.uber.org/zap"

	"github.com/Sapphirecho8/misaka-danmu-server-plus/app"
	"github.com/Sapphirecho8/misaka-danmu-server-plus/config"
	"github.com/Sapphirecho8/misaka-danmu-server-plus/db"
	"github.com/Sapphirecho8/misaka-danmu-server-plus/invites"
	"github.com/Sapphirecho8/misaka-danmu-server-plus/session"
)

// Srv 聚合各依赖，作为控制器的统一入口
type Srv struct {
	Repo    *db.Repo
	Invites invites.Service
	AppSess *session.AppSessionStore
	Logger  *zap.Logger
	Cfg     config.Config
}

func GetSrv(a *app.App) *Srv {
	repo := db.NewRepo(a.DB)
	return &Srv{
		Repo:    repo,
		Invites: invites.NewService(repo, repo, a.Config.SuperAdminUsername, a.Logger),
		AppSess: session.NewAppSessionStore(a.RDB, a.Config.SessionTTL),
		Logger:  a.Logger,
		Cfg:     a.Config,
	}
}
