package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/campusnav/preview-server/internal/config"
	"github.com/campusnav/preview-server/internal/db"
	"github.com/campusnav/preview-server/internal/location"
	"github.com/campusnav/preview-server/internal/middleware"
	"github.com/campusnav/preview-server/internal/preview"
	"github.com/campusnav/preview-server/internal/tiles"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	db.Connect(cfg.DatabaseURL)
	location.Init()

	assets, err := preview.LoadAssets()
	if err != nil {
		log.Fatal("Failed to load static assets: ", err)
	}

	store, err := tiles.NewStore(cfg.TileCacheDir, cfg.TileURLTemplate, cfg.TileRateLimit)
	if err != nil {
		log.Fatal("Failed to init tile cache: ", err)
	}

	handler := preview.NewHandler(
		location.NewResolver(db.DB),
		tiles.NewCompositor(store),
		assets,
		cfg.ExternalBaseURL,
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Get("/", RootHandler)
	r.Mount("/api/preview", preview.SetupRoutes(handler))

	log.Printf("Server listening on port :%s...", cfg.Port)
	if err := http.ListenAndServe("0.0.0.0:"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
