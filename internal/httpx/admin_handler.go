package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arigading/go-catalog-checkout/internal/auth"
	"github.com/arigading/go-catalog-checkout/internal/catalog"
	"github.com/arigading/go-catalog-checkout/internal/store"
)

// AdminHandler melayani back office: login, CRUD produk, metrik inventory.
// Kebijakan error CRUD sederhana: tampilkan errornya, jangan ubah apa pun,
// biarkan admin retry.
type AdminHandler struct {
	Auth    *auth.Service
	Store   *store.Client
	Catalog *catalog.Cache
}

func (h *AdminHandler) Register(r *chi.Mux) {
	r.Post("/admin/login", h.login)

	r.Group(func(g chi.Router) {
		g.Use(h.requireAdmin)
		g.Post("/admin/logout", h.logout)
		g.Post("/admin/products", h.createProduct)
		g.Put("/admin/products/{id}", h.updateProduct)
		g.Delete("/admin/products/{id}", h.deleteProduct)
		g.Get("/admin/summary", h.summary)
		g.Post("/admin/catalog/refresh", h.refreshCatalog)
	})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AdminHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	cred, err := h.Auth.Login(ctx, req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidLogin) {
		writeError(w, http.StatusUnauthorized, "email atau password salah")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cred)
}

func (h *AdminHandler) logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Auth.Logout(ctx, bearerToken(r)); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *AdminHandler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if _, err := h.Auth.Verify(ctx, bearerToken(r)); err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type productReq struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
	IsAvailable bool   `json:"isAvailable"`
	Stock       int    `json:"stock"`
	Sold        int    `json:"sold"`
}

// toProduct menerapkan aturan boundary edit: produk yang ditandai tidak
// tersedia stoknya dipaksa nol.
func (req productReq) toProduct(id string) catalog.Product {
	p := catalog.Product{
		ID:          id,
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
		IsAvailable: req.IsAvailable,
		Stock:       req.Stock,
		Sold:        req.Sold,
	}
	if !p.IsAvailable {
		p.Stock = 0
	}
	return p
}

func (h *AdminHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	p := req.toProduct("pending") // id diberikan remote store
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	created, err := h.Store.Create(ctx, p)
	if err != nil {
		writeRemoteError(w, err)
		return
	}
	h.refreshBestEffort(ctx)
	writeJSON(w, http.StatusCreated, toProductView(created))
}

func (h *AdminHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	p := req.toProduct(id)
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	updated, err := h.Store.Update(ctx, id, p)
	if err != nil {
		writeRemoteError(w, err)
		return
	}
	h.refreshBestEffort(ctx)
	writeJSON(w, http.StatusOK, toProductView(updated))
}

func (h *AdminHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Store.Delete(ctx, id); err != nil {
		writeRemoteError(w, err)
		return
	}
	h.refreshBestEffort(ctx)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// summary dihitung ulang dari snapshot cache terbaru setiap kali diminta.
func (h *AdminHandler) summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Summarize(h.Catalog.Current()))
}

func (h *AdminHandler) refreshCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Catalog.Refresh(ctx); err != nil {
		// non-fatal: snapshot lama tetap dipakai
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":  err.Error(),
			"status": "stale data retained",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

func (h *AdminHandler) refreshBestEffort(ctx context.Context) {
	if err := h.Catalog.Refresh(ctx); err != nil {
		log.Printf("admin: catalog refresh failed: %v", err)
	}
}

func writeRemoteError(w http.ResponseWriter, err error) {
	var se *store.Error
	if errors.As(err, &se) {
		writeError(w, http.StatusBadGateway, se.Error())
		return
	}
	writeError(w, http.StatusBadGateway, err.Error())
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
