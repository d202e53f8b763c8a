package location

import (
	"log"

	"gorm.io/gorm"

	"github.com/campusnav/preview-server/internal/db"
)

// Migrate creates the per-language tables and the aliases table.
func Migrate(d *gorm.DB) error {
	if err := d.Table("de").AutoMigrate(&Location{}); err != nil {
		return err
	}
	if err := d.Table("en").AutoMigrate(&Location{}); err != nil {
		return err
	}
	return d.AutoMigrate(&Alias{})
}

func Init() {
	if err := Migrate(db.DB); err != nil {
		log.Fatal("Failed to auto-migrate location tables: ", err)
	}
}
