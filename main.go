package main

import (
	"os"
	"time"

	"github.com/mizutamari/gallery/config"
	"github.com/mizutamari/gallery/models"
	"github.com/mizutamari/gallery/routes"
	"github.com/mizutamari/gallery/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.Photo{}, &models.PageView{})

	// Upload directories must exist before the first ingest
	for _, dir := range []string{cfg.UploadDirWeb, cfg.UploadDirThumbs} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			utils.Sugar.Fatalf("create upload directory %s: %v", dir, err)
		}
	}

	r := routes.SetupRouter(db)

	// Start background sweep for image files without a database row (best-effort)
	utils.StartOrphanSweeper(db, time.Duration(cfg.OrphanSweepMinutes)*time.Minute)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
