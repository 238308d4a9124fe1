package fiberlog

import "github.com/sirupsen/logrus"

// Config - настройки логирования запросов: целевой логгер и набор тегов
type Config struct {
	Logger *logrus.Logger
	Tags   []string
}

// ConfigDefault - набор тегов по умолчанию
var ConfigDefault = Config{
	Logger: nil,
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
	},
}
