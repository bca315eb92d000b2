// Package http exposes the storefront session as a JSON API.
package http

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/fjod/decohome/internal/codec"
	"github.com/fjod/decohome/internal/domain"
	"github.com/fjod/decohome/internal/session"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	session *session.Controller
	timeout time.Duration
	logger  *zap.Logger
}

func NewHandler(ctrl *session.Controller, timeout time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		session: ctrl,
		timeout: timeout,
		logger:  logger,
	}
}

type LoadSessionRequestDTO struct {
	Fragment string `json:"fragment"`
}

type LoadSessionResponseDTO struct {
	session.Snapshot
	FragmentCleared bool `json:"fragmentCleared"`
}

type AddItemRequestDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CreateProductRequestDTO struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
}

type GenerateRequestDTO struct {
	Image    string `json:"image"`
	MimeType string `json:"mimeType"`
}

type ShareRequestDTO struct {
	BaseURL string `json:"baseUrl"`
}

type ShareResponseDTO struct {
	Link     string            `json:"link"`
	Feedback *session.Feedback `json:"feedback,omitempty"`
}

func (h *Handler) LoadSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req LoadSessionRequestDTO
	if !h.decode(w, r, &req) {
		return
	}

	loc := codec.NewFragmentLocation(req.Fragment)
	source := h.session.Load(ctx, loc)
	h.logger.Info("session loaded",
		zap.String("source", string(source)),
		zap.String("request_id", getRequestID(r.Context())))

	h.respondJSON(w, http.StatusOK, LoadSessionResponseDTO{
		Snapshot:        h.session.Snapshot(),
		FragmentCleared: loc.Cleared(),
	})
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.session.Snapshot())
}

// transition adapts a parameterless controller event to a handler that
// answers with the new snapshot.
func (h *Handler) transition(event func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := event(); err != nil {
			h.handleError(w, err)
			return
		}
		h.respondJSON(w, http.StatusOK, h.session.Snapshot())
	}
}

func (h *Handler) OpenAddForm(w http.ResponseWriter, r *http.Request) {
	h.transition(h.session.OpenAddForm)(w, r)
}

func (h *Handler) CancelAddForm(w http.ResponseWriter, r *http.Request) {
	h.transition(h.session.CancelAddForm)(w, r)
}

func (h *Handler) ProceedToCheckout(w http.ResponseWriter, r *http.Request) {
	h.transition(h.session.ProceedToCheckout)(w, r)
}

func (h *Handler) BackToCart(w http.ResponseWriter, r *http.Request) {
	h.transition(h.session.BackToCart)(w, r)
}

func (h *Handler) ContinueShopping(w http.ResponseWriter, r *http.Request) {
	h.transition(h.session.ContinueShopping)(w, r)
}

func (h *Handler) OpenCart(w http.ResponseWriter, r *http.Request) {
	h.session.OpenCart()
	h.respondJSON(w, http.StatusOK, h.session.Snapshot())
}

func (h *Handler) CloseCart(w http.ResponseWriter, r *http.Request) {
	h.session.CloseCart()
	h.respondJSON(w, http.StatusOK, h.session.Snapshot())
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if !h.decode(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		h.respondError(w, http.StatusBadRequest, "invalid_product_id", "productId is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := h.session.AddToCart(req.ProductID, req.Quantity); err != nil {
		h.handleError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, h.session.Snapshot())
}

// UpdateQuantity removes the line when quantity drops below one.
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	var req UpdateQuantityRequestDTO
	if !h.decode(w, r, &req) {
		return
	}

	h.session.UpdateCartQuantity(productID, req.Quantity)
	h.respondJSON(w, http.StatusOK, h.session.Snapshot())
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.session.RemoveFromCart(chi.URLParam(r, "productId"))
	h.respondJSON(w, http.StatusOK, h.session.Snapshot())
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.session.Snapshot().Products)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateProductRequestDTO
	if !h.decode(w, r, &req) {
		return
	}

	product, err := h.session.SubmitProduct(ctx, domain.ProductDraft{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, product)
}

// GenerateDetails starts AI generation; poll GET /session for the result.
func (h *Handler) GenerateDetails(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequestDTO
	if !h.decode(w, r, &req) {
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid_image", "image must be base64 encoded")
		return
	}

	if err := h.session.GenerateDetails(image, req.MimeType); err != nil {
		h.handleError(w, err)
		return
	}
	h.respondJSON(w, http.StatusAccepted, h.session.Snapshot())
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var form domain.CheckoutForm
	if !h.decode(w, r, &form) {
		return
	}

	order, err := h.session.PlaceOrder(ctx, form)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, order)
}

func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	var req ShareRequestDTO
	if !h.decode(w, r, &req) {
		return
	}

	link, err := h.session.Share(req.BaseURL)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, ShareResponseDTO{
		Link:     link,
		Feedback: h.session.Snapshot().Feedback,
	})
}
