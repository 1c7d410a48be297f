// Package aitext writes event copy with a hosted language model. It never
// fails: a missing key or a failed call yields a fixed fallback.
package aitext

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/unikiala/unikiala-api/internal/logger/sl"
)

const (
	MissingKeyDescription = "Configuração de IA pendente. Adicione a API Key."
	FailedDescription     = "Não foi possível gerar a descrição automaticamente. Por favor, insira manualmente."
	EmptyDescription      = "Descrição não disponível no momento."
)

var (
	missingKeyTags = []string{"Cultura", "Eventos"}
	failedTags     = []string{"Cultura", "Lazer"}
)

// Model turns a prompt into text.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	log     *slog.Logger
	model   Model
	timeout time.Duration
}

// New returns a helper over model; a nil model means no API key is set.
func New(log *slog.Logger, model Model) *Service {
	return &Service{log: log, model: model, timeout: 20 * time.Second}
}

func (s *Service) Configured() bool { return s.model != nil }

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.model.Generate(ctx, prompt)
}

func (s *Service) GenerateDescription(ctx context.Context, title, details string) string {
	if s.model == nil {
		return MissingKeyDescription
	}
	prompt := fmt.Sprintf(`Atue como um especialista em marketing de eventos culturais.
Escreva uma descrição atraente, curta e emocionante (máximo 3 parágrafos) para um evento chamado %q.
Detalhes adicionais: %s.
O tom deve ser convidativo e culturalmente relevante para o público de Angola.
Não use formatação markdown, apenas texto simples.`, title, details)

	text, err := s.generate(ctx, prompt)
	if err != nil {
		s.log.Error("description generation failed", slog.String("title", title), sl.Err(err))
		return FailedDescription
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return EmptyDescription
	}
	return text
}

// SuggestTags asks for five one-word tags and splits the answer on commas.
func (s *Service) SuggestTags(ctx context.Context, description string) []string {
	if s.model == nil {
		return append([]string(nil), missingKeyTags...)
	}
	text, err := s.generate(ctx, "Gere 5 tags curtas (uma palavra cada) baseadas nesta descrição de evento: "+description)
	if err != nil {
		s.log.Error("tag suggestion failed", sl.Err(err))
		return append([]string(nil), failedTags...)
	}

	var tags []string
	for _, t := range strings.Split(text, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return append([]string(nil), failedTags...)
	}
	return tags
}
