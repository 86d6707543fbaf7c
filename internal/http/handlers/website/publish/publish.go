// Package publish реализует HTTP-обработчик публикации сайта.
//
// Публикация доступна только при активной подписке. Без неё возвращается
// HTTP 403 с предложением оформить подписку.
package publish

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
	"github.com/aboutwebsite/sitebuilder/internal/services/website"
	"github.com/aboutwebsite/sitebuilder/internal/storage"
)

// Service описывает интерфейс бизнес-логики публикации сайта.
type Service interface {
	Publish(ctx context.Context, id, userID string) (*models.Website, error)
}

// Handler обрабатывает запросы на публикацию сайта.
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
// @Summary Опубликовать сайт
// @Description Делает сайт общедоступным при наличии активной подписки
// @Tags Websites
// @Produce  json
// @Param id path string true "ID сайта"
// @Success 200 {object} response.Response "Опубликованный сайт"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет активной подписки"
// @Failure 404 {object} response.ErrorResponse "Сайт не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /websites/{id}/publish [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.website.publish"

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
	site, err := h.service.Publish(r.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, website.ErrSubscriptionRequired):
			log.Warn("publish denied without subscription", slog.String("user_id", userID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("Please subscribe to publish your website. Plans start at ₹199/month."))
		case errors.Is(err, storage.ErrNotFound):
			log.Warn("website not found", slog.String("website_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("website not found"))
		default:
			log.Error("failed to publish website", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to publish website"))
		}
		return
	}

	log.Info("success to publish website", slog.String("website_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"website": site,
	}))
}
