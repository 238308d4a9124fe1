package interview

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	cvanalyze "jobsim-backend/lib/cv/analyze"
	sessionstore "jobsim-backend/lib/interview/session-store"
	"jobsim-backend/models"
	interviewapimodels "jobsim-backend/models/api/interview"
)

type stubTranscriber struct {
	transcript string
	err        error
	calls      int
}

func (s *stubTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	s.calls++
	return s.transcript, s.err
}

type stubTextExtract struct {
	text  string
	ok    bool
	calls int
}

func (s *stubTextExtract) ExtractText(fileName string, fileBody []byte) (string, bool) {
	s.calls++
	return s.text, s.ok
}

type stubCvAnalyze struct {
	data  cvanalyze.CvData
	err   error
	calls int
}

func (s *stubCvAnalyze) Extract(ctx context.Context, cvText string) (cvanalyze.CvData, error) {
	s.calls++
	return s.data, s.err
}

type stubQuestionGen struct {
	question string
	err      error
	calls    int
}

func (s *stubQuestionGen) Generate(ctx context.Context, role string, st *models.ConversationState) (string, error) {
	s.calls++
	return s.question, s.err
}

type stubAnswerEval struct {
	result interviewapimodels.Evaluation
	calls  int
	gotQ   string
}

func (s *stubAnswerEval) Evaluate(ctx context.Context, question, transcript string, st *models.ConversationState) interviewapimodels.Evaluation {
	s.calls++
	s.gotQ = question
	return s.result
}

type turnFixture struct {
	handler     Provider
	sessions    sessionstore.Provider
	transcriber *stubTranscriber
	textExtract *stubTextExtract
	cvAnalyze   *stubCvAnalyze
	questionGen *stubQuestionGen
	answerEval  *stubAnswerEval
}

func newFixture() *turnFixture {
	f := &turnFixture{
		sessions:    sessionstore.NewInstance(),
		transcriber: &stubTranscriber{transcript: "my answer"},
		textExtract: &stubTextExtract{text: "resume text", ok: true},
		cvAnalyze: &stubCvAnalyze{data: cvanalyze.CvData{
			Skills:            []string{"Go", "SQL"},
			ExperienceSummary: "Three years of backend work.",
		}},
		questionGen: &stubQuestionGen{question: "What is your biggest achievement?"},
		answerEval:  &stubAnswerEval{result: interviewapimodels.Evaluation{Score: 4.0, Feedback: "good"}},
	}
	f.handler = NewInstance(f.sessions, f.transcriber, f.textExtract, f.cvAnalyze, f.questionGen, f.answerEval)
	return f
}

func testAudio() string {
	return base64.StdEncoding.EncodeToString([]byte("RIFFfakewav"))
}

func TestProcessTurn(t *testing.T) {
	ctx := context.Background()

	t.Run(`first turn without audio succeeds`, func(t *testing.T) {
		f := newFixture()
		resp, err := f.handler.ProcessTurn(ctx, interviewapimodels.TurnRequest{Role: "Backend Engineer"}, "", nil)
		require.NoError(t, err)
		require.NotEmpty(t, resp.SessionID)
		require.Equal(t, "What is your biggest achievement?", resp.Question)
		require.Equal(t, TranscriptPlaceholder, resp.Transcript)
		require.Equal(t, EvaluationPlaceholder, resp.Evaluation)
		require.Equal(t, 0, f.transcriber.calls)
		require.Equal(t, 0, f.answerEval.calls)
	})

	t.Run(`second turn requires audio`, func(t *testing.T) {
		f := newFixture()
		resp, err := f.handler.ProcessTurn(ctx, interviewapimodels.TurnRequest{Role: "Backend Engineer"}, "", nil)
		require.NoError(t, err)

		_, err = f.handler.ProcessTurn(ctx, interviewapimodels.TurnRequest{
			SessionID: resp.SessionID,
			Role:      "Backend Engineer",
		}, "", nil)
		require.ErrorIs(t, err, ErrAudioRequired)
	})

	t.Run(`invalid base64 audio`, func(t *testing.T) {
		f := newFixture()
		_, err := f.handler.ProcessTurn(ctx, interviewapimodels.TurnRequest{
			Role:  "Backend Engineer",
			Audio: "%%%not-base64%%%",
		}, "", nil)
		require.ErrorIs(t, err, ErrBadAudioEncoding)
	})

	t.Run(`answer is transcribed and evaluated against last question`, func(t *testing.T) {
		f := newFixture()
		first, err := f.handler.ProcessTurn(ctx, interviewapimodels.TurnRequest{Role: "Backend Engineer"}, "", nil)
		require.NoError(t, err)

		second, err := f.handler.ProcessTurn(ctx, interviewapimodels.TurnRequest{
			SessionID: first.SessionID,
			Role:      "Backend Engineer",
			Audio:     testAudio(),
		}, "", nil)
		require.NoError(t, err)
		require.Equal(t, first.SessionID, second.SessionID)
		require.Equal(t, "my answer", second.Transcript)
		require.Equal(t, first.Question, f.answerEval.gotQ)
		require.Equal(t, f.answerEval.result, second.Evaluation)

		session := f.sessions.GetOrCreate(first.SessionID)
		require.Equal(t, []float64{4.0}, session.State.PreviousScores)
		require.Len(t, session.State.PreviousQuestions, 2)
		require.Len(t, session.State.PreviousAnswers, 1)
	})

	t.Run(`refused evaluation is not folded into scores`, func(t *testing.T) {
		f := newFixture()
		f.answerEval.result = interviewapimodels.Evaluation{Score: 0, Feedback: "refused", Refusal: true}

		first, err := f.handler.ProcessTurn(ctx, interviewapimodels.TurnRequest{Role: "Backend Engineer"}, "", nil)
		require.NoError(t, err)
		second, err := f.handler.ProcessTurn(ctx, interviewapimodels.TurnRequest{
			SessionID: first.SessionID,
			Role:      "Backend Engineer",
			Audio:     testAudio(),
		}, "", nil)
		require.NoError(t, err)
		require.Equal(t, f.answerEval.result, second.Evaluation)

		session := f.sessions.GetOrCreate(first.SessionID)
		require.Empty(t, session.State.PreviousScores)
	})

	t.Run(`transcription failure is fatal to the turn`, func(t *testing.T) {
		f := newFixture()
		f.transcriber.err = errors.New("deepgram unavailable")

		_, err := f.handler.ProcessTurn(ctx, interviewapimodels.TurnRequest{
			Role:  "Backend Engineer",
			Audio: testAudio(),
		}, "", nil)
		require.Error(t, err)
	})

	t.Run(`question generation failure is fatal to the turn`, func(t *testing.T) {
		f := newFixture()
		f.questionGen.err = errors.New("model refused")

		_, err := f.handler.ProcessTurn(ctx, interviewapimodels.TurnRequest{Role: "Backend Engineer"}, "", nil)
		require.Error(t, err)
	})

	t.Run(`resume is processed once per session`, func(t *testing.T) {
		f := newFixture()
		cvBody := []byte("plain resume")

		first, err := f.handler.ProcessTurn(ctx, interviewapimodels.TurnRequest{Role: "Backend Engineer"}, "resume.txt", cvBody)
		require.NoError(t, err)
		require.Equal(t, []string{"Go", "SQL"}, first.CvSummaryDebug.Skills)
		require.NotNil(t, first.CvSummaryDebug.Experience)
		require.Equal(t, "Three years of backend work.", *first.CvSummaryDebug.Experience)
		require.Equal(t, 1, f.cvAnalyze.calls)

		_, err = f.handler.ProcessTurn(ctx, interviewapimodels.TurnRequest{
			SessionID: first.SessionID,
			Role:      "Backend Engineer",
			Audio:     testAudio(),
		}, "resume.txt", cvBody)
		require.NoError(t, err)
		require.Equal(t, 1, f.cvAnalyze.calls)
	})

	t.Run(`failed resume extraction does not block retry`, func(t *testing.T) {
		f := newFixture()
		f.cvAnalyze.err = errors.New("llm down")
		cvBody := []byte("plain resume")

		first, err := f.handler.ProcessTurn(ctx, interviewapimodels.TurnRequest{Role: "Backend Engineer"}, "resume.txt", cvBody)
		require.NoError(t, err)
		require.Nil(t, first.CvSummaryDebug.Skills)

		// следующая попытка с файлом снова вызывает анализ
		f.cvAnalyze.err = nil
		second, err := f.handler.ProcessTurn(ctx, interviewapimodels.TurnRequest{
			SessionID: first.SessionID,
			Role:      "Backend Engineer",
			Audio:     testAudio(),
		}, "resume.txt", cvBody)
		require.NoError(t, err)
		require.Equal(t, 2, f.cvAnalyze.calls)
		require.Equal(t, []string{"Go", "SQL"}, second.CvSummaryDebug.Skills)
	})

	t.Run(`empty session id creates a new session each time`, func(t *testing.T) {
		f := newFixture()
		first, err := f.handler.ProcessTurn(ctx, interviewapimodels.TurnRequest{Role: "Backend Engineer"}, "", nil)
		require.NoError(t, err)
		second, err := f.handler.ProcessTurn(ctx, interviewapimodels.TurnRequest{Role: "Backend Engineer"}, "", nil)
		require.NoError(t, err)
		require.NotEqual(t, first.SessionID, second.SessionID)
	})
}
