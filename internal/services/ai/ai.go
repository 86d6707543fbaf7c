// Package ai реализует генерацию текстов сайта по описанию бизнеса.
// При недоступности модели возвращается детерминированный шаблонный
// вариант, сценарий создания сайта не прерывается.
package ai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/aboutwebsite/sitebuilder/internal/lib/sl"
	"github.com/aboutwebsite/sitebuilder/internal/models"
)

const systemPrompt = `You are a copywriter for small business websites.
Given a business description, respond with a JSON object with exactly these keys:
tagline, heroTitle, heroSubtitle, heroDescription, aboutTitle, aboutDescription.
Respond with JSON only, no markdown.`

// Completer клиент генеративной модели.
type Completer interface {
	IsConfigured() bool
	ChatCompletion(ctx context.Context, system, user string) (string, error)
}

// Service сервис генерации контента.
type Service struct {
	completer Completer
	log       *slog.Logger
}

// New создаёт сервис генерации контента.
func New(completer Completer, log *slog.Logger) *Service {
	return &Service{
		completer: completer,
		log:       log,
	}
}

// Generate возвращает тексты сайта для описания бизнеса. Ошибки модели
// и неразборчивые ответы заменяются шаблонным вариантом.
func (s *Service) Generate(ctx context.Context, businessDescription string) (*models.GeneratedContent, bool) {
	if !s.completer.IsConfigured() {
		return fallbackContent(businessDescription), false
	}

	raw, err := s.completer.ChatCompletion(ctx, systemPrompt, businessDescription)
	if err != nil {
		s.log.Warn("content generation failed, using fallback", sl.Err(err))
		return fallbackContent(businessDescription), false
	}

	content, err := parseContent(raw)
	if err != nil {
		s.log.Warn("failed to parse generated content, using fallback", sl.Err(err))
		return fallbackContent(businessDescription), false
	}
	return content, true
}

// parseContent разбирает ответ модели, терпимо к обёртке из code fence.
func parseContent(raw string) (*models.GeneratedContent, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	var content models.GeneratedContent
	if err := json.Unmarshal([]byte(strings.TrimSpace(cleaned)), &content); err != nil {
		return nil, err
	}
	return &content, nil
}

func fallbackContent(businessDescription string) *models.GeneratedContent {
	short := businessDescription
	if len(short) > 120 {
		short = short[:120]
	}
	return &models.GeneratedContent{
		Tagline:          "Quality you can trust",
		HeroTitle:        "Welcome to our business",
		HeroSubtitle:     "We are here to serve you",
		HeroDescription:  short,
		AboutTitle:       "About us",
		AboutDescription: businessDescription,
	}
}
