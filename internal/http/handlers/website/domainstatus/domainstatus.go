// Package domainstatus реализует HTTP-обработчик проверки состояния внешнего домена сайта.
package domainstatus

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

// Service описывает интерфейс бизнес-логики проверки домена у провайдера.
type Service interface {
	CustomDomainStatus(ctx context.Context, id, userID string) (*models.ProviderResult, error)
}

// Handler обрабатывает запросы на проверку состояния внешнего домена.
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
// @Summary Состояние внешнего домена
// @Description Возвращает статус верификации внешнего домена сайта у провайдера
// @Tags Websites
// @Produce  json
// @Param id path string true "ID сайта"
// @Success 200 {object} response.Response "Статус домена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Сайт или домен не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /websites/{id}/custom-domain/status [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.website.domainstatus"

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
	result, err := h.service.CustomDomainStatus(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Warn("website or domain not found", slog.String("website_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("website or domain not found"))
			return
		}
		log.Error("failed to check domain status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to check domain status"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"vercel": result,
	}))
}
