package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aukit/nof1-reporter/internal/config"
	"github.com/aukit/nof1-reporter/internal/logger"
	"github.com/aukit/nof1-reporter/internal/report"
)

type Notifier struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	enabled bool
	maxLen  int
	logger  *logger.Logger
}

func NewNotifier(cfg *config.Config, log *logger.Logger) *Notifier {
	if !cfg.Telegram.Enabled {
		return &Notifier{enabled: false, logger: log}
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		log.Error("failed to create telegram bot", "error", err)
		return &Notifier{enabled: false, logger: log}
	}

	log.Info("telegram bot connected", "username", bot.Self.UserName)

	return &Notifier{
		bot:     bot,
		chatID:  cfg.Telegram.ChatID,
		enabled: true,
		maxLen:  cfg.Report.MaxMessageLen,
		logger:  log,
	}
}

func (n *Notifier) Enabled() bool { return n.enabled }

// SendReport delivers a rendered report, split into parts when it exceeds
// the message budget. A rejected send comes back as a DeliveryError; the
// caller surfaces it and never re-aggregates because of it.
func (n *Notifier) SendReport(text string) error {
	if !n.enabled {
		return nil
	}

	parts := report.Chunk(text, n.maxLen)
	for i, part := range parts {
		if len(parts) > 1 {
			part = fmt.Sprintf("%s (part %d/%d)", part, i+1, len(parts))
		}
		msg := tgbotapi.NewMessage(n.chatID, part)
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.DisableWebPagePreview = true

		if _, err := n.bot.Send(msg); err != nil {
			return &report.DeliveryError{Err: fmt.Errorf("send part %d/%d: %w", i+1, len(parts), err)}
		}
	}
	n.logger.Info("report delivered", "parts", len(parts))
	return nil
}

func (n *Notifier) NotifyError(context string, err error) {
	n.send(fmt.Sprintf("⚠️ *Error* [%s]\n%v", context, err))
}

func (n *Notifier) NotifyStatus(message string) {
	n.send(message)
}

func (n *Notifier) send(text string) {
	if !n.enabled {
		return
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error("send telegram message", "error", err)
	}
}
