package main

import (
	"context"
	"log"
	"os"

	"github.com/Sapphirecho8/misaka-danmu-server-plus/app"
	"github.com/Sapphirecho8/misaka-danmu-server-plus/config"
	"github.com/Sapphirecho8/misaka-danmu-server-plus/db"
	"github.com/Sapphirecho8/misaka-danmu-server-plus/routes"
)

func main() {
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	app.EnsureSuperAdmin(context.Background(), application.Config, db.NewRepo(application.DB), application.Logger)

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	routes.RegisterRoutes(r, application)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	log.Printf("listening on :%s", port)
	_ = r.Run(":" + port)
}
