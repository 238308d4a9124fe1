package cvanalyze

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	llmclient "jobsim-backend/lib/llm"
)

type stubLLM struct {
	answer   string
	err      error
	gotPromt string
}

func (s *stubLLM) Complete(ctx context.Context, sysPromt, userPromt string, opts llmclient.Options) (string, error) {
	s.gotPromt = userPromt
	return s.answer, s.err
}

func (s *stubLLM) CompleteJSON(ctx context.Context, sysPromt, userPromt string, opts llmclient.Options) (string, error) {
	return s.Complete(ctx, sysPromt, userPromt, opts)
}

func TestExtract(t *testing.T) {
	ctx := context.Background()

	t.Run(`valid structured answer`, func(t *testing.T) {
		llm := &stubLLM{answer: `{"skills": ["Go", "Docker"], "experience_summary": "Backend developer for 4 years."}`}
		analyzer := NewInstance(llm, 8000)

		data, err := analyzer.Extract(ctx, "resume text")
		require.NoError(t, err)
		require.Equal(t, []string{"Go", "Docker"}, data.Skills)
		require.Equal(t, "Backend developer for 4 years.", data.ExperienceSummary)
	})

	t.Run(`fenced answer`, func(t *testing.T) {
		llm := &stubLLM{answer: "```json\n{\"skills\": [\"SQL\"], \"experience_summary\": \"DBA.\"}\n```"}
		analyzer := NewInstance(llm, 8000)

		data, err := analyzer.Extract(ctx, "resume text")
		require.NoError(t, err)
		require.Equal(t, []string{"SQL"}, data.Skills)
	})

	t.Run(`text is truncated to the model context limit`, func(t *testing.T) {
		llm := &stubLLM{answer: `{"skills": [], "experience_summary": "ok"}`}
		analyzer := NewInstance(llm, 100)

		_, err := analyzer.Extract(ctx, strings.Repeat("x", 500))
		require.NoError(t, err)
		require.Contains(t, llm.gotPromt, strings.Repeat("x", 100))
		require.NotContains(t, llm.gotPromt, strings.Repeat("x", 101))
	})

	t.Run(`truncation does not split multi-byte runes`, func(t *testing.T) {
		llm := &stubLLM{answer: `{"skills": [], "experience_summary": "ok"}`}
		analyzer := NewInstance(llm, 10)

		_, err := analyzer.Extract(ctx, strings.Repeat("ё", 50))
		require.NoError(t, err)
		require.True(t, utf8.ValidString(llm.gotPromt))
		require.Contains(t, llm.gotPromt, strings.Repeat("ё", 10))
		require.NotContains(t, llm.gotPromt, strings.Repeat("ё", 11))
	})

	t.Run(`empty resume text`, func(t *testing.T) {
		analyzer := NewInstance(&stubLLM{}, 8000)

		data, err := analyzer.Extract(ctx, "")
		require.Error(t, err)
		require.Empty(t, data.Skills)
		require.Contains(t, data.ExperienceSummary, "Error")
	})

	t.Run(`transport failure yields degraded result`, func(t *testing.T) {
		llm := &stubLLM{err: errors.New("timeout")}
		analyzer := NewInstance(llm, 8000)

		data, err := analyzer.Extract(ctx, "resume text")
		require.Error(t, err)
		require.Empty(t, data.Skills)
		require.Contains(t, data.ExperienceSummary, "Error")
	})

	t.Run(`invalid json yields degraded result`, func(t *testing.T) {
		llm := &stubLLM{answer: "The resume mentions Go and Docker."}
		analyzer := NewInstance(llm, 8000)

		data, err := analyzer.Extract(ctx, "resume text")
		require.Error(t, err)
		require.Contains(t, data.ExperienceSummary, "Error")
	})

	t.Run(`wrong field types yield degraded result`, func(t *testing.T) {
		llm := &stubLLM{answer: `{"skills": "Go, Docker", "experience_summary": "ok"}`}
		analyzer := NewInstance(llm, 8000)

		data, err := analyzer.Extract(ctx, "resume text")
		require.Error(t, err)
		require.Contains(t, data.ExperienceSummary, "Error")
	})
}
