// Package onboarding реализует HTTP-обработчик завершения онбординга пользователя.
package onboarding

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/aboutwebsite/sitebuilder/internal/http/middlewarectx"
	"github.com/aboutwebsite/sitebuilder/internal/http/response"
	"github.com/aboutwebsite/sitebuilder/internal/lib/sl"
	"github.com/aboutwebsite/sitebuilder/internal/models"
)

// Service описывает интерфейс бизнес-логики онбординга.
type Service interface {
	CompleteOnboarding(ctx context.Context, userID string, data map[string]any) (*models.User, error)
}

// Handler обрабатывает запросы на сохранение данных онбординга.
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
// @Summary Завершить онбординг
// @Description Сохраняет данные онбординга и помечает его завершённым
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummyOnboarding true "Данные онбординга"
// @Success 200 {object} response.Response "Онбординг завершён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/onboarding [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.onboarding"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyOnboarding
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

	userID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || userID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	user, err := h.service.CompleteOnboarding(r.Context(), userID, req.Data)
	if err != nil {
		log.Error("failed to complete onboarding", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to complete onboarding"))
		return
	}

	log.Info("success to complete onboarding", slog.String("user_id", userID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": user,
	}))
}
