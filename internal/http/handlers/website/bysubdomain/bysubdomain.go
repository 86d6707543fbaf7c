// Package bysubdomain реализует публичный HTTP-обработчик просмотра сайта по поддомену.
package bysubdomain

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/aboutwebsite/sitebuilder/internal/http/response"
	"github.com/aboutwebsite/sitebuilder/internal/lib/sl"
	"github.com/aboutwebsite/sitebuilder/internal/models"
	"github.com/aboutwebsite/sitebuilder/internal/services/website"
	"github.com/aboutwebsite/sitebuilder/internal/storage"
)

// Service описывает интерфейс бизнес-логики разрешения сайта по поддомену.
type Service interface {
	GetBySubdomain(ctx context.Context, subdomain string) (*models.Website, error)
}

// Handler обрабатывает публичные запросы на просмотр сайта по поддомену.
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
// @Summary Сайт по поддомену
// @Description Возвращает документ опубликованного сайта по его поддомену
// @Tags Public
// @Produce  json
// @Param subdomain path string true "Поддомен сайта"
// @Success 200 {object} response.Response "Документ сайта"
// @Failure 404 {object} response.ErrorResponse "Сайт не найден или не опубликован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sites/by-subdomain/{subdomain} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.website.bysubdomain"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	subdomain := chi.URLParam(r, "subdomain")
	site, err := h.service.GetBySubdomain(r.Context(), subdomain)
	if err != nil {
		if errors.Is(err, website.ErrNotPublished) || errors.Is(err, storage.ErrNotFound) {
			log.Warn("website not available by subdomain", slog.String("subdomain", subdomain))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("website not found"))
			return
		}
		log.Error("failed to resolve website by subdomain", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read website"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"website": site,
	}))
}
