// Package validate реализует HTTP-обработчик подтверждения платежа.
//
// Подпись Razorpay проверяется на сервере. Успешный платёж активирует
// или продлевает подписку пользователя из метаданных заказа.
package validate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/aboutwebsite/sitebuilder/internal/http/response"
	"github.com/aboutwebsite/sitebuilder/internal/lib/sl"
	"github.com/aboutwebsite/sitebuilder/internal/models"
	"github.com/aboutwebsite/sitebuilder/internal/services/payment"
	"github.com/aboutwebsite/sitebuilder/internal/storage"
)

// Service описывает интерфейс бизнес-логики подтверждения платежа.
type Service interface {
	Validate(ctx context.Context, req models.DummyValidate) (*models.Subscription, error)
}

// Handler обрабатывает запросы на подтверждение платежа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подтвердить платёж
// @Description Проверяет подпись Razorpay и активирует подписку по успешному платежу
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.DummyValidate true "Идентификаторы заказа и платежа с подписью"
// @Success 200 {object} response.Response "Активированная подписка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или подпись"
// @Failure 404 {object} response.ErrorResponse "Заказ не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payments/validate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.validate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyValidate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	sub, err := h.service.Validate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidSignature):
			log.Warn("invalid payment signature", slog.String("order_id", req.RazorpayOrderID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid payment signature"))
		case errors.Is(err, storage.ErrNotFound):
			log.Warn("order not found", slog.String("order_id", req.RazorpayOrderID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("order not found"))
		case errors.Is(err, payment.ErrMissingContext):
			log.Error("order notes missing subscription context", slog.String("order_id", req.RazorpayOrderID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("order is missing subscription context"))
		default:
			log.Error("failed to validate payment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to validate payment"))
		}
		return
	}

	log.Info("success to validate payment", slog.String("order_id", req.RazorpayOrderID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": sub,
	}))
}
