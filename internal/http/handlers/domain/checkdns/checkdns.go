// Package checkdns реализует HTTP-обработчик проверки DNS-настроек внешнего домена.
package checkdns

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/aboutwebsite/sitebuilder/internal/http/response"
	"github.com/aboutwebsite/sitebuilder/internal/lib/sl"
	"github.com/aboutwebsite/sitebuilder/internal/models"
	"github.com/aboutwebsite/sitebuilder/internal/services/domain"
)

// Service описывает интерфейс бизнес-логики проверки DNS.
type Service interface {
	CheckDNS(ctx context.Context, domain string) (*models.DNSStatus, error)
}

// Handler обрабатывает запросы на проверку NS-записей внешнего домена.
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
// @Summary Проверить DNS домена
// @Description Проверяет, указывают ли NS-записи домена на провайдера хостинга
// @Tags Domains
// @Produce  json
// @Param domain query string true "Внешний домен"
// @Success 200 {object} response.Response "Состояние DNS"
// @Failure 400 {object} response.ErrorResponse "Некорректный домен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /domains/check-dns [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.domain.checkdns"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	domainName := r.URL.Query().Get("domain")
	status, err := h.service.CheckDNS(r.Context(), domainName)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFormat) {
			log.Warn("invalid domain format", slog.String("domain", domainName))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid domain format"))
			return
		}
		log.Error("failed to check dns", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to check dns"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"dns": status,
	}))
}
