package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"5001"  env:"APP_PORT"`
		Name       string `default:"JobSim AI" env:"APP_NAME"`
		SiteURL    string `default:"http://localhost:5000" env:"APP_SITE_URL"`
		// лимит тела запроса, МБ (аудио передаётся в base64)
		BodyLimitMB int `default:"25" env:"APP_BODY_LIMIT_MB"`
	}
	LLM struct {
		APIKey     string `default:"" env:"DEEPSEEK_API_KEY"`
		BaseURL    string `default:"https://openrouter.ai/api/v1" env:"LLM_BASE_URL"`
		Model      string `default:"deepseek/deepseek-chat-v3-0324:free" env:"LLM_MODEL"`
		TimeoutSec int    `default:"60" env:"LLM_TIMEOUT_SEC"`
	}
	Deepgram struct {
		APIKey     string `default:"" env:"DEEPGRAM_API_KEY"`
		Model      string `default:"nova-2" env:"DEEPGRAM_MODEL"`
		TimeoutSec int    `default:"60" env:"DEEPGRAM_TIMEOUT_SEC"`
	}
	CV struct {
		// текст резюме обрезается перед отправкой в LLM, чтобы уложиться в контекст модели
		MaxTextLength int `default:"8000" env:"CV_MAX_TEXT_LENGTH"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
