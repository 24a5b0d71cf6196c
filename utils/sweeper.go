package utils

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mizutamari/gallery/config"
	"github.com/mizutamari/gallery/models"
)

// A failed upload can leave artifact files behind without a database row
// (the row is only inserted after both files are written). StartOrphanSweeper
// launches a background goroutine that periodically deletes such orphans.
// It is best-effort and logs failures.
func StartOrphanSweeper(db *gorm.DB, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		for {
			// Sleep first to avoid racing immediately at startup
			time.Sleep(interval)
			cfg := config.Get()
			if !cfg.OrphanSweepEnabled {
				continue
			}
			sweepDir(db, cfg.UploadDirWeb, "filename_web")
			sweepDir(db, cfg.UploadDirThumbs, "filename_thumb")
		}
	}()
}

// orphanGraceAge protects files whose upload may still be in flight.
const orphanGraceAge = time.Hour

func sweepDir(db *gorm.DB, dir, column string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jpg") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) < orphanGraceAge {
			continue
		}
		var n int64
		if err := db.Model(&models.Photo{}).Where(column+" = ?", entry.Name()).Count(&n).Error; err != nil {
			if Sugar != nil {
				Sugar.Warnf("orphan sweep query failed: %v", err)
			}
			return
		}
		if n > 0 {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
			removed++
		}
		if removed >= 100 { // bound work per round
			break
		}
	}
	if removed > 0 && Sugar != nil {
		Sugar.Infof("orphan sweep removed %d file(s) from %s", removed, dir)
	}
}
