// Package status реализует HTTP-обработчик получения статуса заявки на SSL-сертификат.
package status

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

// Service описывает интерфейс бизнес-логики чтения заявки на SSL.
type Service interface {
	Status(ctx context.Context, id, userID string) (*models.SSLRequest, error)
}

// Handler обрабатывает запросы на получение статуса заявки на SSL.
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
// @Summary Статус заявки на SSL
// @Description Возвращает заявку на SSL-сертификат по её ID
// @Tags SSL
// @Produce  json
// @Param id path string true "ID заявки"
// @Success 200 {object} response.Response "Заявка на SSL"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /ssl/requests/{id} [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ssl.status"

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
	sslReq, err := h.service.Status(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Warn("ssl request not found", slog.String("ssl_request_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("ssl request not found"))
			return
		}
		log.Error("failed to read ssl request", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read ssl request"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"sslRequest": sslReq,
	}))
}
