// Package request реализует HTTP-обработчик создания заявки на SSL-сертификат.
package request

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/aboutwebsite/sitebuilder/internal/http/middlewarectx"
	"github.com/aboutwebsite/sitebuilder/internal/http/response"
	"github.com/aboutwebsite/sitebuilder/internal/lib/sl"
	"github.com/aboutwebsite/sitebuilder/internal/models"
	"github.com/aboutwebsite/sitebuilder/internal/services/domain"
	"github.com/aboutwebsite/sitebuilder/internal/services/ssl"
	"github.com/aboutwebsite/sitebuilder/internal/storage"
)

// Service описывает интерфейс бизнес-логики заявок на SSL.
type Service interface {
	Request(ctx context.Context, userID string, req models.DummySSLRequest) (*models.SSLRequest, error)
}

// Handler обрабатывает запросы на выпуск SSL-сертификата для домена сайта.
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
// @Summary Заявка на SSL
// @Description Создает заявку на выпуск SSL-сертификата для домена сайта
// @Tags SSL
// @Accept  json
// @Produce  json
// @Param request body models.DummySSLRequest true "Сайт и домен для сертификата"
// @Success 200 {object} response.Response "Созданная заявка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или домен"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Сайт не найден"
// @Failure 409 {object} response.ErrorResponse "Заявка уже в работе"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /ssl/request [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ssl.request"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummySSLRequest
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

	userID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || userID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	sslReq, err := h.service.Request(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Warn("website not found", slog.String("website_id", req.WebsiteID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("website not found"))
		case errors.Is(err, ssl.ErrDuplicateRequest):
			log.Warn("ssl request already in progress", slog.String("domain", req.Domain))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("ssl request already in progress for this domain"))
		case errors.Is(err, domain.ErrInvalidFormat):
			log.Warn("invalid domain format", slog.String("domain", req.Domain))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid domain format"))
		default:
			log.Error("failed to create ssl request", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create ssl request"))
		}
		return
	}

	log.Info("success to create ssl request", slog.String("ssl_request_id", sslReq.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"sslRequest": sslReq,
	}))
}
