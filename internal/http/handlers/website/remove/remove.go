// Package remove реализует HTTP-обработчик удаления сайта.
package remove

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

// Service описывает интерфейс бизнес-логики удаления сайта.
type Service interface {
	Delete(ctx context.Context, id, userID string) (*models.ProviderResult, error)
}

// Handler обрабатывает запросы на удаление сайта.
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
// @Summary Удалить сайт
// @Description Удаляет сайт пользователя и снимает его домен у провайдера
// @Tags Websites
// @Produce  json
// @Param id path string true "ID сайта"
// @Success 200 {object} response.Response "Сайт удалён"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Сайт не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /websites/{id} [delete]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.website.remove"

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
	provider, err := h.service.Delete(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Warn("website not found", slog.String("website_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("website not found"))
			return
		}
		log.Error("failed to delete website", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to delete website"))
		return
	}

	data := map[string]any{"message": "website deleted successfully"}
	if provider != nil {
		data["vercel"] = provider
	}
	log.Info("success to delete website", slog.String("website_id", id))
	render.JSON(w, r, response.OKWithData(data))
}
