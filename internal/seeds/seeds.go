package seeds

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campusnav/preview-server/internal/location"
)

// Fixture is the YAML shape the seed tool consumes: one entry per
// location carrying both localizations, plus the alias rows.
type Fixture struct {
	Locations []FixtureLocation `yaml:"locations"`
	Aliases   []FixtureAlias    `yaml:"aliases"`
}

type FixtureLocation struct {
	Key          string  `yaml:"key"`
	NameDE       string  `yaml:"name_de"`
	NameEN       string  `yaml:"name_en"`
	Type         string  `yaml:"type"`
	TypeCommonDE string  `yaml:"type_common_de"`
	TypeCommonEN string  `yaml:"type_common_en"`
	CalendarURL  *string `yaml:"calendar_url"`
	Lat          float64 `yaml:"lat"`
	Lon          float64 `yaml:"lon"`
}

type FixtureAlias struct {
	Alias     string `yaml:"alias"`
	Key       string `yaml:"key"`
	VisibleID string `yaml:"visible_id"`
	Type      string `yaml:"type"`
}

// SeedFile loads the fixture at path into the metadata tables, upserting
// by key so reseeding is idempotent.
func SeedFile(d *gorm.DB, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", path, err)
	}
	var fx Fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return Seed(d, fx)
}

func Seed(d *gorm.DB, fx Fixture) error {
	upsert := clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}

	for _, l := range fx.Locations {
		de := location.Location{
			Key: l.Key, Name: l.NameDE, Type: l.Type, TypeCommonName: l.TypeCommonDE,
			CalendarURL: l.CalendarURL, Lat: l.Lat, Lon: l.Lon,
		}
		if err := d.Table("de").Clauses(upsert).Create(&de).Error; err != nil {
			return fmt.Errorf("seed de %s: %w", l.Key, err)
		}
		en := location.Location{
			Key: l.Key, Name: l.NameEN, Type: l.Type, TypeCommonName: l.TypeCommonEN,
			CalendarURL: l.CalendarURL, Lat: l.Lat, Lon: l.Lon,
		}
		if err := d.Table("en").Clauses(upsert).Create(&en).Error; err != nil {
			return fmt.Errorf("seed en %s: %w", l.Key, err)
		}
	}

	aliasUpsert := clause.OnConflict{
		Columns:   []clause.Column{{Name: "alias"}},
		UpdateAll: true,
	}
	for _, a := range fx.Aliases {
		row := location.Alias{Alias: a.Alias, Key: a.Key, VisibleID: a.VisibleID, Type: a.Type}
		if err := d.Clauses(aliasUpsert).Create(&row).Error; err != nil {
			return fmt.Errorf("seed alias %s: %w", a.Alias, err)
		}
	}
	return nil
}
