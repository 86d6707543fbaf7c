// Package generate реализует HTTP-обработчик генерации контента сайта по описанию бизнеса.
//
// При недоступности модели возвращается шаблонный контент, признак
// aiGenerated в ответе показывает источник текста.
package generate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/aboutwebsite/sitebuilder/internal/http/response"
	"github.com/aboutwebsite/sitebuilder/internal/lib/sl"
	"github.com/aboutwebsite/sitebuilder/internal/models"
)

// Service описывает интерфейс бизнес-логики генерации контента.
type Service interface {
	Generate(ctx context.Context, description string) (*models.GeneratedContent, bool)
}

// Handler обрабатывает запросы на генерацию контента сайта.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сгенерировать контент сайта
// @Description Генерирует тексты для сайта по описанию бизнеса
// @Tags AI
// @Accept  json
// @Produce  json
// @Param request body models.DummyGenerate true "Описание бизнеса"
// @Success 200 {object} response.Response "Сгенерированный контент"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /ai/generate [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ai.generate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyGenerate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	content, generated := h.service.Generate(r.Context(), req.BusinessDescription)

	log.Info("success to generate content", slog.Bool("ai_generated", generated))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"content":     content,
		"aiGenerated": generated,
	}))
}
