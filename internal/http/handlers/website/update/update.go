// Package update реализует HTTP-обработчик обновления сайта.
//
// Handler принимает название и JSON-документ сайта. Изменения полей subdomain
// и customDomain внутри документа проходят через реестр адресов, внешние
// операции провайдера не блокируют сохранение.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/aboutwebsite/sitebuilder/internal/http/middlewarectx"
	"github.com/aboutwebsite/sitebuilder/internal/http/response"
	"github.com/aboutwebsite/sitebuilder/internal/lib/sl"
	"github.com/aboutwebsite/sitebuilder/internal/models"
	"github.com/aboutwebsite/sitebuilder/internal/services/domain"
	"github.com/aboutwebsite/sitebuilder/internal/storage"
)

// Service описывает интерфейс бизнес-логики обновления сайта.
type Service interface {
	Update(ctx context.Context, id, userID string, req models.DummyWebsite) (*models.Website, *models.ProviderResult, error)
}

// Handler обрабатывает запросы на обновление сайта.
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
// @Summary Обновить сайт
// @Description Обновляет название и документ сайта, включая смену адресов
// @Tags Websites
// @Accept  json
// @Produce  json
// @Param id path string true "ID сайта"
// @Param request body models.DummyWebsite true "Название и документ сайта"
// @Success 200 {object} response.Response "Обновлённый сайт"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или адрес"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Сайт не найден"
// @Failure 409 {object} response.ErrorResponse "Адрес уже занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /websites/{id} [put]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.website.update"

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

	id := chi.URLParam(r, "id")
	site, provider, err := h.service.Update(r.Context(), id, userID, req)
	if err != nil {
		var takenErr *domain.AddressTakenError
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Warn("website not found", slog.String("website_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("website not found"))
		case errors.As(err, &takenErr):
			log.Warn("address already taken", slog.String("address", takenErr.Address))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(takenErr.Error()))
		case errors.Is(err, domain.ErrInvalidFormat):
			log.Warn("invalid address format", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid address format"))
		default:
			log.Error("failed to update website", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update website"))
		}
		return
	}

	data := map[string]any{"website": site}
	if provider != nil {
		data["vercel"] = provider
	}
	log.Info("success to update website", slog.String("website_id", id))
	render.JSON(w, r, response.OKWithData(data))
}
