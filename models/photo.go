package models

import "time"

// Photo is one gallery image together with its two stored artifacts.
// FilenameWeb/FilenameThumb are bare filenames under the configured upload
// directories; URLs are composed by the frontend from /static/uploads/.
type Photo struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FilenameWeb   string    `gorm:"size:64;not null;uniqueIndex" json:"filename_web"`
	FilenameThumb string    `gorm:"size:64;not null;uniqueIndex" json:"filename_thumb"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Date          string    `gorm:"size:10;not null;index" json:"date"`
	UploadedAt    time.Time `gorm:"not null" json:"uploaded_at"`
}

// PhotoGroup is one calendar day of the public gallery.
type PhotoGroup struct {
	Date        string  `json:"date"`
	DisplayDate string  `json:"display_date"`
	Items       []Photo `json:"items"`
}

// GroupByDate partitions an already-sorted photo slice into contiguous
// same-date runs, preserving the input order inside each group. Callers are
// expected to pass ListAll output (date desc, id desc).
func GroupByDate(photos []Photo) []PhotoGroup {
	groups := []PhotoGroup{}
	for _, p := range photos {
		if n := len(groups); n > 0 && groups[n-1].Date == p.Date {
			groups[n-1].Items = append(groups[n-1].Items, p)
			continue
		}
		groups = append(groups, PhotoGroup{Date: p.Date, Items: []Photo{p}})
	}
	return groups
}
