// Package listdomains реализует HTTP-обработчик получения адресов всех сайтов пользователя.
package listdomains

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/aboutwebsite/sitebuilder/internal/http/middlewarectx"
	"github.com/aboutwebsite/sitebuilder/internal/http/response"
	"github.com/aboutwebsite/sitebuilder/internal/lib/sl"
	"github.com/aboutwebsite/sitebuilder/internal/models"
)

// Service описывает интерфейс бизнес-логики получения адресов сайтов.
type Service interface {
	ListDomains(ctx context.Context, userID string) ([]models.DomainInfo, error)
}

// Handler обрабатывает запросы на получение адресов всех сайтов пользователя.
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
// @Summary Адреса сайтов
// @Description Возвращает поддомены и внешние домены всех сайтов пользователя
// @Tags Domains
// @Produce  json
// @Success 200 {object} response.Response "Список адресов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /domains [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.domain.listdomains"

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

	domains, err := h.service.ListDomains(r.Context(), userID)
	if err != nil {
		log.Error("failed to list domains", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list domains"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"domains": domains,
	}))
}
