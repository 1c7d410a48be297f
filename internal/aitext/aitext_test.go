package aitext

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/unikiala/unikiala-api/internal/logger/handlers/slogdiscard"
)

type mockModel struct{ mock.Mock }

func (m *mockModel) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func TestFallbacksWithoutKey(t *testing.T) {
	t.Parallel()
	s := New(slogdiscard.NewDiscardLogger(), nil)

	assert.False(t, s.Configured())
	assert.Equal(t, MissingKeyDescription, s.GenerateDescription(context.Background(), "Show", ""))
	assert.Equal(t, []string{"Cultura", "Eventos"}, s.SuggestTags(context.Background(), "x"))
}

func TestFallbacksOnError(t *testing.T) {
	t.Parallel()
	m := &mockModel{}
	m.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))
	s := New(slogdiscard.NewDiscardLogger(), m)

	assert.Equal(t, FailedDescription, s.GenerateDescription(context.Background(), "Show", "detalhes"))
	assert.Equal(t, []string{"Cultura", "Lazer"}, s.SuggestTags(context.Background(), "x"))
	m.AssertNumberOfCalls(t, "Generate", 2)
}

func TestGenerateDescriptionPrompt(t *testing.T) {
	t.Parallel()
	m := &mockModel{}
	m.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, `"Noite de Semba"`) &&
			strings.Contains(p, "Detalhes adicionais: ao ar livre.") &&
			strings.Contains(p, "Angola")
	})).Return("  Uma noite inesquecível.\n", nil)
	s := New(slogdiscard.NewDiscardLogger(), m)

	got := s.GenerateDescription(context.Background(), "Noite de Semba", "ao ar livre")
	assert.Equal(t, "Uma noite inesquecível.", got)
	m.AssertExpectations(t)
}

func TestGenerateDescriptionEmptyAnswer(t *testing.T) {
	t.Parallel()
	m := &mockModel{}
	m.On("Generate", mock.Anything, mock.Anything).Return("   ", nil)
	s := New(slogdiscard.NewDiscardLogger(), m)

	assert.Equal(t, EmptyDescription, s.GenerateDescription(context.Background(), "A", "B"))
}

func TestSuggestTagsSplitsOnCommas(t *testing.T) {
	t.Parallel()
	m := &mockModel{}
	m.On("Generate", mock.Anything, mock.Anything).Return("Música, Kizomba ,Dança,, Luanda", nil)
	s := New(slogdiscard.NewDiscardLogger(), m)

	assert.Equal(t, []string{"Música", "Kizomba", "Dança", "Luanda"}, s.SuggestTags(context.Background(), "desc"))
}
