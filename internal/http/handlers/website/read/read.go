// Package read реализует HTTP-обработчик получения конкретного сайта по ID.
//
// Handler извлекает ID из URL-параметров, проверяет принадлежность сайта
// пользователю и возвращает документ сайта в JSON-формате.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/aboutwebsite/sitebuilder/internal/http/middlewarectx"
	"github.com/aboutwebsite/sitebuilder/internal/http/response"
	"github.com/aboutwebsite/sitebuilder/internal/lib/sl"
	"github.com/aboutwebsite/sitebuilder/internal/models"
	"github.com/aboutwebsite/sitebuilder/internal/storage"
)

// Service описывает интерфейс бизнес-логики чтения сайта.
type Service interface {
	Get(ctx context.Context, id, userID string) (*models.Website, error)
}

// Handler обрабатывает запросы на получение сайта по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить сайт
// @Description Возвращает сайт текущего пользователя по ID
// @Tags Websites
// @Produce  json
// @Param id path string true "ID сайта"
// @Success 200 {object} response.Response "Данные сайта"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Сайт не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /websites/{id} [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.website.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || userID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id := chi.URLParam(r, "id")
	site, err := h.service.Get(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Warn("website not found", slog.String("website_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("website not found"))
			return
		}
		log.Error("failed to read website", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read website"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"website": site,
	}))
}
