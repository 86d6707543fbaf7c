// Package setdomain реализует HTTP-обработчик привязки внешнего домена к сайту.
//
// Домен резервируется в реестре адресов с учётом эквивалентности www и без-www
// вариантов. Результат операции у провайдера прикладывается к ответу и не
// влияет на успех привязки.
package setdomain

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/aboutwebsite/sitebuilder/internal/http/middlewarectx"
	"github.com/aboutwebsite/sitebuilder/internal/http/response"
	"github.com/aboutwebsite/sitebuilder/internal/lib/sl"
	"github.com/aboutwebsite/sitebuilder/internal/models"
	"github.com/aboutwebsite/sitebuilder/internal/services/domain"
	"github.com/aboutwebsite/sitebuilder/internal/storage"
)

// Service описывает интерфейс бизнес-логики привязки внешнего домена.
type Service interface {
	SetCustomDomain(ctx context.Context, id, userID, domain string) (*models.Website, *models.ProviderResult, error)
}

// Handler обрабатывает запросы на привязку внешнего домена.
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
// @Summary Привязать внешний домен
// @Description Резервирует внешний домен за сайтом и регистрирует его у провайдера
// @Tags Websites
// @Accept  json
// @Produce  json
// @Param id path string true "ID сайта"
// @Param request body models.DummyCustomDomain true "Внешний домен"
// @Success 200 {object} response.Response "Сайт с привязанным доменом"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или домен"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Сайт не найден"
// @Failure 409 {object} response.ErrorResponse "Домен уже занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /websites/{id}/custom-domain [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.website.setdomain"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCustomDomain
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

	id := chi.URLParam(r, "id")
	site, provider, err := h.service.SetCustomDomain(r.Context(), id, userID, req.CustomDomain)
	if err != nil {
		var takenErr *domain.AddressTakenError
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Warn("website not found", slog.String("website_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("website not found"))
		case errors.As(err, &takenErr):
			log.Warn("domain already taken", slog.String("domain", takenErr.Address))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(takenErr.Error()))
		case errors.Is(err, domain.ErrInvalidFormat):
			log.Warn("invalid domain format", slog.String("domain", req.CustomDomain))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid domain format"))
		default:
			log.Error("failed to set custom domain", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to set custom domain"))
		}
		return
	}

	data := map[string]any{"website": site}
	if provider != nil {
		data["vercel"] = provider
	}
	log.Info("success to set custom domain", slog.String("website_id", id))
	render.JSON(w, r, response.OKWithData(data))
}
