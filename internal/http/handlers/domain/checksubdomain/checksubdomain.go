// Package checksubdomain реализует HTTP-обработчик проверки доступности поддомена.
//
// Параметр websiteId позволяет исключить собственный сайт из проверки,
// чтобы повторная привязка того же адреса не считалась конфликтом.
package checksubdomain

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/aboutwebsite/sitebuilder/internal/http/response"
	"github.com/aboutwebsite/sitebuilder/internal/lib/sl"
	"github.com/aboutwebsite/sitebuilder/internal/services/domain"
)

// Service описывает интерфейс бизнес-логики проверки поддомена.
type Service interface {
	CheckSubdomain(ctx context.Context, subdomain, excludeID string) (string, bool, error)
}

// Handler обрабатывает запросы на проверку доступности поддомена.
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
// @Summary Проверить поддомен
// @Description Проверяет формат и доступность поддомена
// @Tags Domains
// @Produce  json
// @Param subdomain query string true "Поддомен"
// @Param websiteId query string false "ID сайта, исключаемого из проверки"
// @Success 200 {object} response.Response "Результат проверки"
// @Failure 400 {object} response.ErrorResponse "Некорректный поддомен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /domains/check-subdomain [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.domain.checksubdomain"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	subdomain := r.URL.Query().Get("subdomain")
	excludeID := r.URL.Query().Get("websiteId")

	normalized, available, err := h.service.CheckSubdomain(r.Context(), subdomain, excludeID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFormat) {
			log.Warn("invalid subdomain format", slog.String("subdomain", subdomain))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid subdomain format"))
			return
		}
		log.Error("failed to check subdomain", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to check subdomain"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"subdomain": normalized,
		"available": available,
	}))
}
