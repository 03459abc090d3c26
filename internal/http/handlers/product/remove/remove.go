// Package remove реализует HTTP-обработчик удаления товара.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// Service описывает интерфейс бизнес-логики.
type Service interface {
	Delete(ctx context.Context, id string) (*models.Product, error)
}

// Handler обрабатывает DELETE /product/delete/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление товара
// @Tags product
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID товара"
// @Success 200 {object} map[string]any
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /product/delete/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	product, err := h.service.Delete(r.Context(), id)
	if err != nil {
		response.Fail(w, r, log, err)
		return
	}
	log.Info("Product successfully deleted", slog.String("product_id", id))

	render.JSON(w, r, response.OK("Product successfully deleted").With("product", product))
}
