package initializers

import (
	"context"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"jobsim-backend/config"
	"jobsim-backend/fiberlog"
	cvanalyze "jobsim-backend/lib/cv/analyze"
	cvtextextract "jobsim-backend/lib/cv/textextract"
	deepgramclient "jobsim-backend/lib/external-services/deepgram"
	"jobsim-backend/lib/interview"
	answereval "jobsim-backend/lib/interview/answer-eval"
	questiongen "jobsim-backend/lib/interview/question-gen"
	llmclient "jobsim-backend/lib/llm"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	// .env нужен до чтения конфигурации, отсутствие файла не ошибка
	if err := godotenv.Load(); err != nil {
		log.Debug(".env файл не найден, используем переменные окружения")
	}
	LoggerConfig = InitLogger()
	config.InitConfig()
	llmclient.NewHandler()
	deepgramclient.NewHandler()
	cvtextextract.NewHandler()
	cvanalyze.NewHandler()
	questiongen.NewHandler()
	answereval.NewHandler()
	interview.NewHandler()
}
