package cvtextextract

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"

	docx "github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"
)

// Provider извлекает текст из загруженного файла резюме.
// Любая ошибка извлечения превращается в пустой результат:
// обработка резюме не должна прерывать ход интервью.
type Provider interface {
	ExtractText(fileName string, fileBody []byte) (text string, ok bool)
}

var Instance Provider

var supportedExtensions = map[string]bool{
	".txt":  true,
	".pdf":  true,
	".docx": true,
}

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

func (i impl) ExtractText(fileName string, fileBody []byte) (string, bool) {
	logger := log.WithField("cv_file", fileName)
	ext := strings.ToLower(filepath.Ext(fileName))
	if !supportedExtensions[ext] {
		logger.Warnf("неподдерживаемый тип файла резюме: %v", ext)
		return "", false
	}

	var (
		text string
		err  error
	)
	switch ext {
	case ".txt":
		text = extractTxt(fileBody)
	case ".pdf":
		text, err = extractPdf(fileBody)
	case ".docx":
		text, err = extractDocx(fileBody)
	}
	if err != nil {
		logger.WithError(err).Error("ошибка извлечения текста из файла резюме")
		return "", false
	}
	if strings.TrimSpace(text) == "" {
		logger.Warn("файл резюме не содержит текста")
		return "", false
	}
	logger.Infof("текст резюме извлечён, длина: %v", len(text))
	return text, true
}

// сначала UTF-8, при невалидных байтах перечитываем как Latin-1
func extractTxt(fileBody []byte) string {
	if utf8.Valid(fileBody) {
		return string(fileBody)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(fileBody)
	if err != nil {
		return string(fileBody)
	}
	return string(decoded)
}

func extractPdf(fileBody []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(fileBody), int64(len(fileBody)))
	if err != nil {
		return "", errors.Wrap(err, "ошибка чтения pdf")
	}
	plainText, err := reader.GetPlainText()
	if err != nil {
		return "", errors.Wrap(err, "ошибка извлечения текста из pdf")
	}
	buf := new(bytes.Buffer)
	if _, err = buf.ReadFrom(plainText); err != nil {
		return "", errors.Wrap(err, "ошибка извлечения текста из pdf")
	}
	return buf.String(), nil
}

func extractDocx(fileBody []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(fileBody), int64(len(fileBody)))
	if err != nil {
		return "", errors.Wrap(err, "ошибка чтения docx")
	}
	sb := new(strings.Builder)
	for _, item := range doc.Document.Body.Items {
		if paragraph, ok := item.(*docx.Paragraph); ok {
			sb.WriteString(paragraph.String())
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}
