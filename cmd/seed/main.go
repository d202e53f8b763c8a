package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/campusnav/preview-server/internal/db"
	"github.com/campusnav/preview-server/internal/location"
	"github.com/campusnav/preview-server/internal/seeds"
)

func main() {
	fixture := flag.String("fixture", "seeds/locations.yaml", "YAML fixture with locations and aliases")
	flag.Parse()

	_ = godotenv.Load(".env.local")
	db.Connect(os.Getenv("DATABASE_URL"))
	location.Init()

	if err := seeds.SeedFile(db.DB, *fixture); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded metadata from %s", *fixture)
}
