package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/go-chi/chi/v5"

	"github.com/campusnav/preview-server/internal/localization"
	"github.com/campusnav/preview-server/internal/location"
	"github.com/campusnav/preview-server/internal/tiles"
)

// Handler runs the preview pipeline: alias resolution, localized lookup,
// map composition, overlay rendering, PNG encoding. One pipeline per
// request; the only state shared between requests lives in the tile store.
type Handler struct {
	resolver        *location.Resolver
	compositor      *tiles.Compositor
	assets          *Assets
	externalBaseURL string
}

func NewHandler(resolver *location.Resolver, compositor *tiles.Compositor, assets *Assets, externalBaseURL string) *Handler {
	return &Handler{
		resolver:        resolver,
		compositor:      compositor,
		assets:          assets,
		externalBaseURL: strings.TrimRight(externalBaseURL, "/"),
	}
}

// Preview handles GET /{id}?lang=..&format=.. and responds with a
// permanent redirect (alias hit), a plain-text error (unknown key or
// database failure), or an image/png body. A failed map render is not an
// error to the client: the default card is served instead.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	id := normalizeID(chi.URLParam(r, "id"))
	lang := localization.ParseLang(r.URL.Query().Get("lang"))
	format := ParseFormat(r.URL.Query().Get("format"))

	if alias, ok := h.resolver.ResolveAlias(ctx, id); ok {
		target := fmt.Sprintf("%s/api/preview/%s?lang=%s&format=%s",
			h.externalBaseURL, alias.Key, lang, format)
		http.Redirect(w, r, target, http.StatusPermanentRedirect)
		return
	}

	loc, err := h.resolver.FetchLocalized(ctx, id, lang.UseEnglish())
	if errors.Is(err, location.ErrNotFound) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Error fetching location %q: %v", id, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	img, err := h.render(ctx, loc, format)
	if err != nil {
		log.Printf("Warning: rendering preview for %q failed, serving default image. Check the connection to the tileserver: %v", id, err)
		img = h.assets.DefaultCard
	}

	log.Printf("Preview generation for %s took %s", id, time.Since(start))
	w.Header().Set("Content-Type", "image/png")
	w.Write(img)
}

func (h *Handler) render(ctx context.Context, loc *location.Location, format Format) ([]byte, error) {
	width, height := format.Size()
	zoom := tiles.ZoomForType(loc.Type)

	canvas, err := h.compositor.Compose(ctx, loc.Lat, loc.Lon, zoom, width, height)
	if err != nil {
		return nil, err
	}

	h.assets.DrawPin(canvas)
	h.assets.DrawFooter(canvas, loc.Name, loc.TypeCommonName)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

// normalizeID strips whitespace and control characters from the path
// identifier before any lookup.
func normalizeID(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
