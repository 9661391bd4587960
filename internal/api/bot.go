package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	app "face-capture/internal/application"
	"face-capture/internal/container"
	"face-capture/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я помогу сделать хорошее фото для документов.

📸 Пришлите селфи, и я скажу, как поправить положение лица.

📋 Команды:
/check — проверить селфи
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте /check
2️⃣ Пришлите селфи
3️⃣ Получите подсказку или отметку, что лицо расположено правильно

💡 Рекомендации:
• Смотрите прямо в камеру, не наклоняйте голову
• Лицо должно быть в центре кадра
• Держите телефон на расстоянии вытянутой руки

📋 Команды:
/check — начать проверку
/cancel — отменить операцию`

	msgAwaitingSelfie  = "📸 Пришлите селфи для проверки."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendCheck       = "📸 Отправьте /check, а затем селфи."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Проверяю положение лица..."
	msgWellPositioned  = "✅ Лицо расположено правильно, можно снимать."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
)

var guidanceText = map[entity.GuidanceReason]string{
	entity.GuidancePlaceFaceInFrame: "🙈 Лицо не найдено. Поместите лицо в кадр.",
	entity.GuidanceMoveCloser:       "🔍 Подойдите ближе к камере.",
	entity.GuidanceMoveBack:         "↔️ Отодвиньтесь от камеры.",
	entity.GuidanceMoveLeft:         "⬅️ Сместитесь влево.",
	entity.GuidanceMoveRight:        "➡️ Сместитесь вправо.",
	entity.GuidanceMoveUp:           "⬆️ Поднимите камеру или сместитесь вверх.",
	entity.GuidanceMoveDown:         "⬇️ Опустите камеру или сместитесь вниз.",
	entity.GuidanceCenterFace:       "🎯 Расположите лицо по центру и смотрите прямо в камеру.",
}

// Bot представляет Telegram-бота
type Bot struct {
	api       *tgbotapi.BotAPI
	container *container.Container
	log       logrus.FieldLogger
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, log logrus.FieldLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.WithField("account", api.Self.UserName).Info("authorized")

	return &Bot{
		api:       api,
		container: c,
		log:       log,
	}, nil
}

// Run запускает основной цикл обработки сообщений
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.container.UserService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.log.WithError(err).Error("get user")
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 && user.State == entity.StateAwaitingSelfie {
		b.handlePhoto(ctx, msg)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendCheck)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	var err error

	switch msg.Command() {
	case "start":
		_, err = b.container.UserService.Cancel(ctx, user.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "check":
		_, err = b.container.SelfieService.BeginCheck(ctx, user.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgAwaitingSelfie)

	case "cancel":
		_, err = b.container.UserService.Cancel(ctx, user.ID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}

	if err != nil {
		b.log.WithError(err).WithField("command", msg.Command()).Error("update user state")
	}
}

// handlePhoto проверяет присланное селфи
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	log := b.log.WithField("chat_id", msg.Chat.ID)

	if _, err := b.container.UserService.StartProcessing(ctx, msg.From.ID, msg.Chat.ID); err != nil {
		log.WithError(err).Error("update user state")
	}
	defer func() {
		if _, err := b.container.SelfieService.FinishCheck(ctx, msg.From.ID, msg.Chat.ID); err != nil {
			log.WithError(err).Error("finish check")
		}
	}()

	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]
	imageData, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		log.WithError(err).Error("download photo")
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	report, err := b.container.SelfieService.CheckPhoto(ctx, imageData)
	if err != nil {
		log.WithError(err).Error("check photo")
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	log.WithFields(logrus.Fields{
		"face_detected":   report.Verdict.FaceDetected,
		"well_positioned": report.Verdict.WellPositioned,
		"guidance":        report.Guidance,
	}).Info("selfie checked")

	text := reportMessage(report)
	if len(report.Annotated) == 0 {
		b.sendMessage(msg.Chat.ID, text)
		return
	}

	reply := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileBytes{Name: "selfie.jpg", Bytes: report.Annotated})
	reply.Caption = text
	if _, err := b.api.Send(reply); err != nil {
		log.WithError(err).Error("send annotated photo")
		b.sendMessage(msg.Chat.ID, text)
	}
}

// reportMessage превращает результат проверки в ответ пользователю
func reportMessage(report *app.SelfieReport) string {
	if report.Verdict.WellPositioned {
		return msgWellPositioned
	}
	if text, ok := guidanceText[report.Guidance]; ok {
		return text
	}
	return report.Guidance.Label()
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithError(err).WithField("chat_id", chatID).Error("send message")
	}
}
