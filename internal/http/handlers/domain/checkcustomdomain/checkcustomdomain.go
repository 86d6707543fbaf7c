// Package checkcustomdomain реализует HTTP-обработчик проверки доступности внешнего домена.
//
// Доступность проверяется по каноническому виду домена, поэтому example.com
// и www.example.com считаются одним адресом.
package checkcustomdomain

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

// Service описывает интерфейс бизнес-логики проверки внешнего домена.
type Service interface {
	CheckCustomDomain(ctx context.Context, domain, excludeID string) (string, bool, error)
}

// Handler обрабатывает запросы на проверку доступности внешнего домена.
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
// @Summary Проверить внешний домен
// @Description Проверяет формат и доступность внешнего домена
// @Tags Domains
// @Produce  json
// @Param domain query string true "Внешний домен"
// @Param websiteId query string false "ID сайта, исключаемого из проверки"
// @Success 200 {object} response.Response "Результат проверки"
// @Failure 400 {object} response.ErrorResponse "Некорректный домен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /domains/check-custom-domain [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.domain.checkcustomdomain"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	domainName := r.URL.Query().Get("domain")
	excludeID := r.URL.Query().Get("websiteId")

	normalized, available, err := h.service.CheckCustomDomain(r.Context(), domainName, excludeID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFormat) {
			log.Warn("invalid domain format", slog.String("domain", domainName))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid domain format"))
			return
		}
		log.Error("failed to check custom domain", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to check custom domain"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"domain":    normalized,
		"available": available,
	}))
}
