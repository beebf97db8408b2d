package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funding-digest/internal/domain/entity"
)

func klarna() entity.RawArticle {
	return entity.RawArticle{
		Headline:    "Stockholm fintech Klarna raises $10M seed round",
		Source:      "EU-Startups",
		URL:         "https://eu-startups.example/klarna",
		PublishedAt: time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC),
		Summary:     "The   payments company\nannounced the round on Tuesday.",
	}
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		answer  string
		want    bool
		wantErr bool
	}{
		{answer: "YES", want: true},
		{answer: "yes.", want: true},
		{answer: "  No ", want: false},
		{answer: "**YES** - the company raised a seed round", want: true},
		{answer: "NO, this is a new fund", want: false},
		{answer: "Ja", want: true},
		{answer: "Maybe", wantErr: true},
		{answer: "", wantErr: true},
		{answer: "42", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			got, err := parseVerdict(tt.answer)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifier_Classify(t *testing.T) {
	stub := &stubCompleter{answers: []string{"YES"}}
	c := NewClassifier(stub)

	verdict, err := c.Classify(context.Background(), klarna())
	require.NoError(t, err)
	assert.True(t, verdict)

	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], "Headline: Stockholm fintech Klarna raises $10M seed round")
	assert.Contains(t, stub.prompts[0], "Source: EU-Startups")
	assert.Contains(t, stub.prompts[0], "Summary: The payments company announced the round on Tuesday.")
}

func TestClassifier_OmitsEmptySummary(t *testing.T) {
	stub := &stubCompleter{answers: []string{"NO"}}
	article := klarna()
	article.Summary = ""

	verdict, err := NewClassifier(stub).Classify(context.Background(), article)
	require.NoError(t, err)
	assert.False(t, verdict)
	assert.NotContains(t, stub.prompts[0], "Summary:")
}

func TestClassifier_UnparseableAnswer(t *testing.T) {
	stub := &stubCompleter{answers: []string{"It depends on the definition of funding"}}

	_, err := NewClassifier(stub).Classify(context.Background(), klarna())
	assert.ErrorIs(t, err, entity.ErrMalformedResponse)
	assert.True(t, entity.IsModelFailure(err))
}

func TestClassifier_CompleterFailure(t *testing.T) {
	stub := &stubCompleter{err: &entity.ModelError{Provider: "stub", Op: "complete", Err: entity.ErrRateLimited}}

	_, err := NewClassifier(stub).Classify(context.Background(), klarna())
	assert.ErrorIs(t, err, entity.ErrRateLimited)
}
