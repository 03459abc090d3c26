// Package update реализует HTTP-обработчик частичного обновления товара.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// Service описывает интерфейс бизнес-логики обновления товара.
type Service interface {
	Update(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error)
}

// Request — изменяемые поля; отсутствующие не меняются
type Request struct {
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
	Image       []string `json:"image,omitempty"`
	Brand       *string  `json:"brand,omitempty"`
	Category    []string `json:"category,omitempty"`
}

// Handler обрабатывает PUT /product/update/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Обновление товара
// @Tags product
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID товара"
// @Param request body Request true "Изменяемые поля"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /product/update/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.InvalidBody(w, r, log, err)
		return
	}

	product, err := h.service.Update(r.Context(), id, models.ProductPatch{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Images:      req.Image,
		Brand:       req.Brand,
		Categories:  req.Category,
	})
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	log.Info("product updated", slog.String("product_id", id))

	render.JSON(w, r, response.OK("Product successfully updated").With("product", product))
}
