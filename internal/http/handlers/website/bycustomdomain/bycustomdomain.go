// Package bycustomdomain реализует публичный HTTP-обработчик просмотра сайта по внешнему домену.
//
// Домен приводится к каноническому виду, поэтому example.com и www.example.com
// ведут на один и тот же сайт.
package bycustomdomain

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
	"github.com/aboutwebsite/sitebuilder/internal/services/website"
	"github.com/aboutwebsite/sitebuilder/internal/storage"
)

// Service описывает интерфейс бизнес-логики разрешения сайта по внешнему домену.
type Service interface {
	GetByCustomDomain(ctx context.Context, domain string) (*models.Website, error)
}

// Handler обрабатывает публичные запросы на просмотр сайта по внешнему домену.
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
// @Summary Сайт по внешнему домену
// @Description Возвращает документ опубликованного сайта по его внешнему домену
// @Tags Public
// @Produce  json
// @Param domain query string true "Внешний домен сайта"
// @Success 200 {object} response.Response "Документ сайта"
// @Failure 400 {object} response.ErrorResponse "Домен не указан"
// @Failure 404 {object} response.ErrorResponse "Сайт не найден или не опубликован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sites/by-domain [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.website.bycustomdomain"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	domain := r.URL.Query().Get("domain")
	if domain == "" {
		log.Error("missing domain query parameter")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing domain parameter"))
		return
	}

	site, err := h.service.GetByCustomDomain(r.Context(), domain)
	if err != nil {
		if errors.Is(err, website.ErrNotPublished) || errors.Is(err, storage.ErrNotFound) {
			log.Warn("website not available by domain", slog.String("domain", domain))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("website not found"))
			return
		}
		log.Error("failed to resolve website by domain", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read website"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"website": site,
	}))
}
