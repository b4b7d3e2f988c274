package telegramimpl

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/bluesky-likes-crawler/internal/telegram"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/config"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/logger"
	"go.uber.org/fx"
)

// maxMessageLength is the Telegram limit for one text message.
const maxMessageLength = 4096

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

// sender is the part of *tgbotapi.BotAPI the notifier uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramImpl struct {
	bot    sender
	userID int64
	logger logger.Logger
}

// New returns a notifier that only logs when no bot token is configured.
func New(opts Opts) (telegram.Client, error) {
	log := opts.Logger.WithComponent("Telegram")
	if opts.Config.Telegram.Token == "" || opts.Config.Telegram.User == 0 {
		log.Info("Telegram notifications disabled")
		return Nop{logger: log}, nil
	}

	tgBot, err := tgbotapi.NewBotAPI(opts.Config.Telegram.Token)
	if err != nil {
		log.Error("Error creating bot", "Error", err)
		return nil, err
	}

	return &TelegramImpl{
		bot:    tgBot,
		userID: opts.Config.Telegram.User,
		logger: log,
	}, nil
}

var _ telegram.Client = (*TelegramImpl)(nil)

// SendMessageToUser sends a text message to the configured user
func (tg *TelegramImpl) SendMessageToUser(message string) {
	msg := tgbotapi.NewMessage(tg.userID, truncate(message))
	_, err := tg.bot.Send(msg)
	if err != nil {
		tg.logger.Error("Error sending message to user",
			"userID", tg.userID,
			"error", err)
		return
	}

	tg.logger.Info("Message sent to user",
		"userID", tg.userID)
}

// truncate cuts message to maxMessageLength characters.
func truncate(message string) string {
	runes := []rune(message)
	if len(runes) <= maxMessageLength {
		return message
	}
	return string(runes[:maxMessageLength-3]) + "..."
}

// Nop logs messages instead of sending them.
type Nop struct {
	logger logger.Logger
}

var _ telegram.Client = Nop{}

func (n Nop) SendMessageToUser(message string) {
	n.logger.Debug("Notification not sent", "message", message)
}
