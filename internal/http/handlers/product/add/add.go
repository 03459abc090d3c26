// Package add реализует HTTP-обработчик добавления товара в каталог.
package add

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// Service описывает интерфейс бизнес-логики добавления товара.
type Service interface {
	Add(ctx context.Context, p models.Product) (*models.Product, error)
}

// Request — данные нового товара
type Request struct {
	Name        string   `json:"name" validate:"required"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Description string   `json:"description"`
	Image       []string `json:"image" validate:"required,min=1"`
	Brand       string   `json:"brand"`
	Category    []string `json:"category" validate:"required,min=1"`
}

// Handler обрабатывает POST /product/add.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Добавление товара
// @Tags product
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Товар"
// @Success 201 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /product/add [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.add"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.InvalidBody(w, r, log, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, r, log, err)
		return
	}

	product, err := h.service.Add(r.Context(), models.Product{
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
	log.Info("product added", slog.String("product_id", product.ID))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OK("Product successfully added").With("product", product))
}
