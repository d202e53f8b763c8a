package location

import "time"

// Location is one row of the per-language metadata tables ("de" and "en").
// The tables share this shape; only the localized text differs. A record is
// fetched fresh for every request and never cached.
type Location struct {
	Key                  string     `gorm:"primaryKey;column:key"`
	Name                 string     `gorm:"column:name"`
	CalendarURL          *string    `gorm:"column:calendar_url"`
	LastCalendarScrapeAt *time.Time `gorm:"column:last_calendar_scrape_at"`
	Type                 string     `gorm:"column:type"`
	TypeCommonName       string     `gorm:"column:type_common_name"`
	Lat                  float64    `gorm:"column:lat"`
	Lon                  float64    `gorm:"column:lon"`
}

// Alias maps a secondary lookup key to its canonical location key. Rows
// where alias == key exist but are not redirects.
type Alias struct {
	Alias     string `gorm:"primaryKey;column:alias"`
	Key       string `gorm:"column:key"`
	VisibleID string `gorm:"column:visible_id"`
	Type      string `gorm:"column:type"`
}

func (Alias) TableName() string { return "aliases" }
