// Package create реализует HTTP-обработчик создания сайта.
//
// Handler принимает название и JSON-документ сайта, проверяет лимит сайтов
// пользователя и возвращает созданный сайт.
package create

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
	"github.com/aboutwebsite/sitebuilder/internal/services/website"
)

// Service описывает интерфейс бизнес-логики создания сайта.
type Service interface {
	Create(ctx context.Context, userID string, req models.DummyWebsite) (*models.Website, error)
}

// Handler обрабатывает запросы на создание сайта.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики сайтов
	validate *validator.Validate // Валидатор структуры входящих данных
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
// @Summary Создать сайт
// @Description Создает новый сайт пользователя с учетом лимита на количество сайтов
// @Tags Websites
// @Accept  json
// @Produce  json
// @Param request body models.DummyWebsite true "Название и документ сайта"
// @Success 200 {object} response.Response "Созданный сайт"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Достигнут лимит сайтов"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /websites [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.website.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyWebsite
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

	site, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		var limitErr *website.LimitError
		if errors.As(err, &limitErr) {
			log.Warn("website limit reached", slog.Int("limit", limitErr.Limit))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error(limitErr.Error()))
			return
		}
		log.Error("failed to create website", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create website"))
		return
	}

	log.Info("success to create website", slog.String("website_id", site.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"website": site,
	}))
}
