// Package published реализует публичный HTTP-обработчик просмотра опубликованного сайта.
//
// Обработчик не требует авторизации. Сайт отдается только если он опубликован
// и подписка владельца активна, иначе возвращается HTTP 404.
package published

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

// Service описывает интерфейс бизнес-логики публичного просмотра сайта.
type Service interface {
	GetPublished(ctx context.Context, id string) (*models.Website, error)
}

// Handler обрабатывает публичные запросы на просмотр опубликованного сайта.
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
// @Summary Опубликованный сайт
// @Description Возвращает документ опубликованного сайта по его ID
// @Tags Public
// @Produce  json
// @Param id path string true "ID сайта"
// @Success 200 {object} response.Response "Документ сайта"
// @Failure 404 {object} response.ErrorResponse "Сайт не найден или не опубликован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /published/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.website.published"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	site, err := h.service.GetPublished(r.Context(), id)
	if err != nil {
		if errors.Is(err, website.ErrNotPublished) || errors.Is(err, storage.ErrNotFound) {
			log.Warn("published website not available", slog.String("website_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("website not found"))
			return
		}
		log.Error("failed to read published website", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read website"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"website": site,
	}))
}
