// Package domainstatus реализует HTTP-обработчик получения статуса SSL по домену.
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
	"github.com/aboutwebsite/sitebuilder/internal/services/domain"
	"github.com/aboutwebsite/sitebuilder/internal/storage"
)

// Service описывает интерфейс бизнес-логики чтения заявки на SSL по домену.
type Service interface {
	StatusForDomain(ctx context.Context, userID, domain string) (*models.SSLRequest, error)
}

// Handler обрабатывает запросы на получение статуса SSL по домену.
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
// @Summary Статус SSL по домену
// @Description Возвращает последнюю заявку на SSL-сертификат для домена пользователя
// @Tags SSL
// @Produce  json
// @Param domain path string true "Домен"
// @Success 200 {object} response.Response "Заявка на SSL"
// @Failure 400 {object} response.ErrorResponse "Некорректный домен"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /ssl/status/{domain} [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ssl.domainstatus"

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

	d := chi.URLParam(r, "domain")
	sslReq, err := h.service.StatusForDomain(r.Context(), userID, d)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFormat) {
			log.Warn("invalid domain format", slog.String("domain", d))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid domain format"))
			return
		}
		if errors.Is(err, storage.ErrNotFound) {
			log.Warn("ssl request not found", slog.String("domain", d))
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
