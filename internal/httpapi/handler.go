// Package httpapi serves the cart over HTTP for non-terminal frontends.
package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Makepad-fr/gomarketplace/internal/auth"
	"github.com/Makepad-fr/gomarketplace/internal/cart"
	"github.com/Makepad-fr/gomarketplace/internal/model"
)

// maxBodyBytes bounds an add request; a product is a handful of short fields.
const maxBodyBytes = 64 << 10

type cartResponse struct {
	Products []model.Product `json:"products"`
	Items    int             `json:"items"`
	Total    float64         `json:"total"`
}

type addRequest struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	ImageURL string  `json:"image_url"`
	Price    float64 `json:"price"`
}

// NewRouter mounts the cart routes. A non-empty token makes every /cart
// route require it as a bearer token.
func NewRouter(store *cart.Store, token string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/cart", func(r chi.Router) {
		if token != "" {
			r.Use(requireToken(token))
		}
		r.Use(cart.Middleware(store))

		r.Get("/", getCart)
		r.Post("/items", addItem)
		r.Post("/items/{id}/increment", increment)
		r.Post("/items/{id}/decrement", decrement)
	})

	return otelhttp.NewHandler(r, "gomarketplace")
}

func getCart(w http.ResponseWriter, r *http.Request) {
	writeCart(w, cart.Use(r.Context()))
}

func addItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	c := cart.Use(r.Context())
	c.AddToCart(r.Context(), model.Product{
		ID:       req.ID,
		Title:    req.Title,
		ImageURL: req.ImageURL,
		Price:    req.Price,
	})
	writeCart(w, c)
}

func increment(w http.ResponseWriter, r *http.Request) {
	c := cart.Use(r.Context())
	c.Increment(r.Context(), chi.URLParam(r, "id"))
	writeCart(w, c)
}

func decrement(w http.ResponseWriter, r *http.Request) {
	c := cart.Use(r.Context())
	c.Decrement(r.Context(), chi.URLParam(r, "id"))
	writeCart(w, c)
}

func requireToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := auth.StripBearer(r.Header.Get("Authorization"))
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeCart(w http.ResponseWriter, c cart.Cart) {
	products := c.Products()
	sum := model.Summarize(products)
	writeJSON(w, http.StatusOK, cartResponse{
		Products: products,
		Items:    sum.Items,
		Total:    sum.Total,
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
