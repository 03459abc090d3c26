// Package list реализует HTTP-обработчик получения всех товаров каталога.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// Service описывает интерфейс бизнес-логики чтения каталога.
type Service interface {
	List(ctx context.Context) ([]models.Product, error)
}

// Handler обрабатывает GET /product.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список товаров
// @Tags product
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 404 {object} response.ErrorResponse
// @Router /product [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	products, err := h.service.List(r.Context())
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}

	render.JSON(w, r, response.OK("").With("products", products))
}
