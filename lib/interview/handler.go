package interview

import (
	"context"
	"encoding/base64"
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	cvanalyze "jobsim-backend/lib/cv/analyze"
	cvtextextract "jobsim-backend/lib/cv/textextract"
	deepgramclient "jobsim-backend/lib/external-services/deepgram"
	answereval "jobsim-backend/lib/interview/answer-eval"
	questiongen "jobsim-backend/lib/interview/question-gen"
	sessionstore "jobsim-backend/lib/interview/session-store"
	"jobsim-backend/lib/utils/helpers"
	"jobsim-backend/models"
	interviewapimodels "jobsim-backend/models/api/interview"
)

// Заглушки в ответе, когда соответствующий шаг хода не выполнялся
const (
	TranscriptPlaceholder = "No audio provided for this turn."
	EvaluationPlaceholder = "No answer was provided to evaluate."
)

// Ошибки клиентского ввода, контроллер отдаёт их как 400
var (
	ErrAudioRequired    = errors.New("audio is required after the first question")
	ErrBadAudioEncoding = errors.New("audio must be valid base64")
)

type Provider interface {
	ProcessTurn(ctx context.Context, req interviewapimodels.TurnRequest, cvFileName string, cvFileBody []byte) (*interviewapimodels.TurnResponse, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(
		sessionstore.NewInstance(),
		deepgramclient.Instance,
		cvtextextract.Instance,
		cvanalyze.Instance,
		questiongen.Instance,
		answereval.Instance,
	)
}

func NewInstance(
	sessions sessionstore.Provider,
	transcriber deepgramclient.Provider,
	textExtract cvtextextract.Provider,
	cvAnalyze cvanalyze.Provider,
	questionGen questiongen.Provider,
	answerEval answereval.Provider,
) Provider {
	return impl{
		sessions:    sessions,
		transcriber: transcriber,
		textExtract: textExtract,
		cvAnalyze:   cvAnalyze,
		questionGen: questionGen,
		answerEval:  answerEval,
	}
}

type impl struct {
	sessions    sessionstore.Provider
	transcriber deepgramclient.Provider
	textExtract cvtextextract.Provider
	cvAnalyze   cvanalyze.Provider
	questionGen questiongen.Provider
	answerEval  answereval.Provider
}

func (i impl) getLogger(sessionID string) *log.Entry {
	return log.WithField("session_id", sessionID)
}

// ProcessTurn выполняет один ход интервью: резюме -> транскрибация ->
// оценка предыдущего ответа -> генерация следующего вопроса.
// Весь ход выполняется под блокировкой сессии, внешние вызовы строго
// последовательны.
func (i impl) ProcessTurn(ctx context.Context, req interviewapimodels.TurnRequest, cvFileName string, cvFileBody []byte) (*interviewapimodels.TurnResponse, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	logger := i.getLogger(sessionID)

	session := i.sessions.GetOrCreate(sessionID)
	session.Lock()
	defer session.Unlock()
	state := &session.State

	// обработка резюме выполняется один раз за сессию, сбои не прерывают ход
	if len(cvFileBody) != 0 && !state.HasCvData() {
		i.enrichFromCv(ctx, logger, state, cvFileName, cvFileBody)
	}

	// аудио можно не передавать только на самом первом ходе
	if req.Audio == "" && !state.IsFirstTurn() {
		return nil, ErrAudioRequired
	}

	transcript := ""
	if req.Audio != "" {
		audio, err := base64.StdEncoding.DecodeString(req.Audio)
		if err != nil {
			return nil, ErrBadAudioEncoding
		}
		transcript, err = i.transcriber.Transcribe(ctx, audio)
		if err != nil {
			logger.WithError(err).Error("ошибка транскрибации ответа")
			return nil, errors.Wrap(err, "ошибка транскрибации ответа")
		}
		state.PreviousAnswers = append(state.PreviousAnswers, transcript)
	}

	var evaluation *interviewapimodels.Evaluation
	if transcript != "" && len(state.PreviousQuestions) != 0 {
		// оцениваем всегда относительно последнего заданного вопроса
		result := i.answerEval.Evaluate(ctx, state.LastQuestion(), transcript, state)
		evaluation = &result
		if !result.Refusal && result.Score > 0 && !math.IsNaN(result.Score) && !math.IsInf(result.Score, 0) {
			state.PreviousScores = append(state.PreviousScores, result.Score)
		}
	}

	if helpers.IsContextDone(ctx) {
		return nil, errors.New("запрос отменён клиентом")
	}
	question, err := i.questionGen.Generate(ctx, req.Role, state)
	if err != nil {
		logger.WithError(err).Error("ошибка генерации вопроса")
		return nil, errors.Wrap(err, "ошибка генерации вопроса")
	}
	state.PreviousQuestions = append(state.PreviousQuestions, question)

	resp := &interviewapimodels.TurnResponse{
		SessionID:      sessionID,
		Question:       question,
		Transcript:     transcript,
		CvSummaryDebug: cvDebug(state),
	}
	if transcript == "" {
		resp.Transcript = TranscriptPlaceholder
	}
	if evaluation != nil {
		resp.Evaluation = *evaluation
	} else {
		resp.Evaluation = EvaluationPlaceholder
	}
	return resp, nil
}

// enrichFromCv извлекает текст из файла резюме и заполняет навыки и опыт
// в состоянии сессии. Ошибки логируются и глотаются, деградированный
// результат анализа в состояние не попадает, чтобы не блокировать повтор.
func (i impl) enrichFromCv(ctx context.Context, logger *log.Entry, state *models.ConversationState, fileName string, fileBody []byte) {
	text, ok := i.textExtract.ExtractText(fileName, fileBody)
	if !ok || text == "" {
		logger.Warnf("не удалось извлечь текст из файла резюме: %v", fileName)
		return
	}
	cvData, err := i.cvAnalyze.Extract(ctx, text)
	if err != nil {
		logger.WithError(err).Warn("ошибка анализа резюме")
		return
	}
	state.CvSkills = cvData.Skills
	state.CvExperienceSummary = cvData.ExperienceSummary
}

func cvDebug(state *models.ConversationState) interviewapimodels.CvDebug {
	debug := interviewapimodels.CvDebug{}
	if state.HasCvData() {
		debug.Skills = state.CvSkills
		experience := state.CvExperienceSummary
		debug.Experience = &experience
	}
	return debug
}
