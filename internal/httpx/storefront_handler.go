package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/arigading/go-catalog-checkout/internal/cart"
	"github.com/arigading/go-catalog-checkout/internal/catalog"
	"github.com/arigading/go-catalog-checkout/internal/checkout"
	"github.com/arigading/go-catalog-checkout/internal/events"
	kafkax "github.com/arigading/go-catalog-checkout/internal/kafka"
	"github.com/arigading/go-catalog-checkout/internal/store"
)

// StorefrontHandler melayani katalog publik, keranjang, dan alur checkout.
type StorefrontHandler struct {
	Catalog  *catalog.Cache
	Store    *store.Client
	Carts    cart.Store
	Checkout *checkout.Orchestrator

	// Producer boleh nil (broker tidak dikonfigurasi); Publish jadi no-op.
	ProducerOK   *kafkax.Producer
	ProducerFail *kafkax.Producer
	Service      string
}

func (h *StorefrontHandler) Register(r *chi.Mux) {
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Get("/categories", h.listCategories)

	r.Get("/carts/{cartID}", h.getCart)
	r.Post("/carts/{cartID}/items", h.addCartItem)
	r.Patch("/carts/{cartID}/items/{productID}", h.updateCartItem)
	r.Delete("/carts/{cartID}/items/{productID}", h.removeCartItem)

	r.Post("/checkout", h.beginCheckout)
	r.Post("/checkout/{id}/confirm", h.confirmCheckout)
	r.Post("/checkout/{id}/cancel", h.cancelCheckout)
}

func (h *StorefrontHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := catalog.FilterParams{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		MinPrice: parseInt64(q.Get("min_price")),
		MaxPrice: parseInt64(q.Get("max_price")),
	}
	products := catalog.Filter(h.Catalog.Current(), f)
	writeJSON(w, http.StatusOK, map[string]any{
		"products": toProductViews(products),
		"count":    len(products),
	})
}

// getProduct baca langsung dari remote store supaya stok di halaman detail
// selalu segar; fallback ke cache kalau remote sedang bermasalah.
func (h *StorefrontHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Store.Get(ctx, id)
	if err != nil {
		var se *store.Error
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		if cached, ok := h.Catalog.Get(id); ok {
			writeJSON(w, http.StatusOK, toProductView(cached))
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toProductView(p))
}

func (h *StorefrontHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": catalog.Categories(h.Catalog.Current()),
	})
}

func (h *StorefrontHandler) getCart(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Carts.Load(ctx, cartID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cartView(c))
}

type addItemReq struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *StorefrontHandler) addCartItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "missing product_id")
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	p, ok := h.Catalog.Get(req.ProductID)
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Carts.Load(ctx, cartID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	c.Add(cart.LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		Image:     p.Image,
		Quantity:  req.Quantity,
		Stock:     p.Stock,
	})
	if err := h.Carts.Save(ctx, cartID, c); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cartView(c))
}

type updateItemReq struct {
	Quantity int `json:"quantity"`
}

func (h *StorefrontHandler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")
	productID := chi.URLParam(r, "productID")
	var req updateItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Carts.Load(ctx, cartID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := c.SetQuantity(productID, req.Quantity); err != nil {
		writeError(w, http.StatusNotFound, "item not in cart")
		return
	}
	if err := h.Carts.Save(ctx, cartID, c); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cartView(c))
}

func (h *StorefrontHandler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")
	productID := chi.URLParam(r, "productID")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Carts.Load(ctx, cartID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	c.Remove(productID)
	if err := h.Carts.Save(ctx, cartID, c); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cartView(c))
}

type beginCheckoutReq struct {
	CartID     string   `json:"cart_id"`
	ProductIDs []string `json:"product_ids"`
}

func (h *StorefrontHandler) beginCheckout(w http.ResponseWriter, r *http.Request) {
	var req beginCheckoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.CartID == "" {
		writeError(w, http.StatusBadRequest, "missing cart_id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.Checkout.Begin(ctx, req.CartID, req.ProductIDs)
	if err != nil {
		var ve *checkout.ValidationError
		switch {
		case errors.As(err, &ve):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":   ve.Error(),
				"details": ve.Shortfalls,
			})
		case errors.Is(err, checkout.ErrEmptySelection):
			writeError(w, http.StatusBadRequest, "pilih produk yang ingin di-checkout terlebih dahulu")
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"checkout_id":   res.CheckoutID,
		"whatsapp_link": res.Link,
		"message":       res.Message,
		"items":         res.Items,
		"total":         res.Total,
	})
}

func (h *StorefrontHandler) confirmCheckout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := h.Checkout.Confirm(r.Context(), id)
	if err != nil {
		var pf *checkout.PartialFailure
		switch {
		case errors.As(err, &pf):
			h.publishPartialFailure(id, pf)
			// pesan WhatsApp sudah terkirim; user harus tahu order mungkin
			// sudah berjalan walau pembukuan stok gagal sebagian
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":     "pesanan sudah dikirim ke WhatsApp, tapi ada kesalahan saat mengurangi stok",
				"detail":    pf.Err.Error(),
				"committed": pf.Committed,
				"failed_id": pf.FailedID,
			})
		case errors.Is(err, checkout.ErrProcessing):
			writeError(w, http.StatusConflict, "konfirmasi sedang diproses")
		case errors.Is(err, checkout.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, "checkout session not found")
		default:
			writeError(w, http.StatusConflict, err.Error())
		}
		return
	}

	h.publishSucceeded(res)
	writeJSON(w, http.StatusOK, map[string]any{
		"order_id": res.OrderID,
		"items":    res.Items,
		"total":    res.Total,
	})
}

func (h *StorefrontHandler) cancelCheckout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.Checkout.Cancel(id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
	case errors.Is(err, checkout.ErrProcessing):
		writeError(w, http.StatusConflict, "konfirmasi sedang diproses, tidak bisa dibatalkan")
	case errors.Is(err, checkout.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "checkout session not found")
	default:
		writeError(w, http.StatusConflict, err.Error())
	}
}

func (h *StorefrontHandler) publishSucceeded(res *checkout.Result) {
	if h.ProducerOK == nil {
		return
	}
	ev := events.Envelope{
		EventID:       uuid.NewString(),
		EventType:     events.TypeCheckoutSucceeded,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		CorrelationID: res.OrderID,
		Payload: kafkax.MustMarshal(events.CheckoutSucceededPayload{
			OrderID: res.OrderID,
			CartID:  res.CartID,
			Items:   toEventItems(res.Items),
			Total:   res.Total,
		}),
	}
	h.ProducerOK.Publish(events.PartitionKey(res.CartID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(ev.EventType)},
	)
}

func (h *StorefrontHandler) publishPartialFailure(checkoutID string, pf *checkout.PartialFailure) {
	if h.ProducerFail == nil {
		return
	}
	ev := events.Envelope{
		EventID:       uuid.NewString(),
		EventType:     events.TypeCheckoutPartialFailure,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		CorrelationID: checkoutID,
		Payload: kafkax.MustMarshal(events.CheckoutPartialFailurePayload{
			CartID:    pf.CartID,
			Committed: toEventItems(pf.Committed),
			FailedID:  pf.FailedID,
			Error:     pf.Err.Error(),
		}),
	}
	h.ProducerFail.Publish(events.PartitionKey(pf.CartID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(ev.EventType)},
	)
}

func toEventItems(items []checkout.Item) []events.ItemQty {
	out := make([]events.ItemQty, 0, len(items))
	for _, it := range items {
		out = append(out, events.ItemQty{ProductID: it.ProductID, Name: it.Name, Qty: it.Quantity, Price: it.Price})
	}
	return out
}

func parseInt64(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
