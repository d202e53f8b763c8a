package preview

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/{id}", h.Preview)
	return r
}
