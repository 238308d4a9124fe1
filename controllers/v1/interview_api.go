package apiv1

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"jobsim-backend/controllers"
	interviewhandler "jobsim-backend/lib/interview"
	apimodels "jobsim-backend/models/api"
	interviewapimodels "jobsim-backend/models/api/interview"
)

type interviewApiController struct {
	controllers.BaseAPIController
}

func InitInterviewApiRouters(app *fiber.App) {
	controller := interviewApiController{}
	app.Post("interview", controller.ProcessTurn)
	app.Get("health", controller.Health)
}

// @Summary Ход интервью
// @Tags Интервью
// @Description Выполнение одного хода интервью: транскрибация ответа, оценка и генерация следующего вопроса. Принимает JSON либо multipart с файлом резюме (txt, pdf, docx)
// @Accept json
// @Accept mpfd
// @Param	body body	 interviewapimodels.TurnRequest	true	"request body"
// @Success 200 {object} interviewapimodels.TurnResponse
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview [post]
func (c *interviewApiController) ProcessTurn(ctx *fiber.Ctx) error {
	req, cvFileName, cvFileBody, err := c.parseTurnRequest(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = req.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	resp, err := interviewhandler.Instance.ProcessTurn(ctx.UserContext(), req, cvFileName, cvFileBody)
	if err != nil {
		if errors.Is(err, interviewhandler.ErrAudioRequired) || errors.Is(err, interviewhandler.ErrBadAudioEncoding) {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выполнения хода интервью")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// parseTurnRequest принимает запрос как JSON-тело либо multipart-форму
// с опциональным файлом резюме в поле cv
func (c *interviewApiController) parseTurnRequest(ctx *fiber.Ctx) (req interviewapimodels.TurnRequest, cvFileName string, cvFileBody []byte, err error) {
	contentType := string(ctx.Request().Header.ContentType())
	if !strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		err = c.BodyParser(ctx, &req)
		return req, "", nil, err
	}

	req.SessionID = ctx.FormValue("session_id", "")
	req.Role = ctx.FormValue("role", "")
	req.Audio = ctx.FormValue("audio", "")

	file, fErr := ctx.FormFile("cv")
	if fErr != nil {
		// файл резюме опционален
		return req, "", nil, nil
	}
	buffer, fErr := file.Open()
	if fErr != nil {
		c.GetLogger(ctx).WithError(fErr).Error("Ошибка при получении файла резюме")
		return req, "", nil, errors.New("не удалось прочитать файл резюме")
	}
	defer buffer.Close()
	cvFileBody, fErr = io.ReadAll(buffer)
	if fErr != nil {
		c.GetLogger(ctx).WithError(fErr).Error("Ошибка при загрузке файла резюме")
		return req, "", nil, errors.New("не удалось прочитать файл резюме")
	}
	return req, file.Filename, cvFileBody, nil
}

// @Summary Проверка работоспособности сервиса
// @Tags Служебные
// @Success 200
// @router /api/v1/health [get]
func (c *interviewApiController) Health(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"status": "API is healthy"})
}
