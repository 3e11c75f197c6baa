// Package telegram delivers schedule images to the channel and error alerts
// to the admin chat via the Telegram Bot API, with retry for transient
// failures.
package telegram

import (
	"fmt"
	"html"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client handles Telegram delivery.
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	errorChatID    int64
	alertPrefix    string
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a Telegram client. errorChatID may equal chatID; an empty
// errorChatID disables alerts. alertPrefix tags alert messages so one admin
// chat can serve several scrapers.
func NewClient(botToken, chatID, errorChatID, alertPrefix string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	var errorChatIDInt int64
	if errorChatID != "" {
		errorChatIDInt, err = strconv.ParseInt(errorChatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid error chat ID: %w", err)
		}
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		errorChatID:    errorChatIDInt,
		alertPrefix:    alertPrefix,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// SendScheduleImage uploads a grid image to the channel with an HTML caption.
func (c *Client) SendScheduleImage(path, caption string) error {
	doc := tgbotapi.NewDocument(c.chatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	doc.ParseMode = tgbotapi.ModeHTML
	return c.sendWithRetry(doc)
}

// SendError posts an alert to the error chat. No-op when alerts are disabled.
func (c *Client) SendError(message string) error {
	if c.errorChatID == 0 {
		return nil
	}
	msg := tgbotapi.NewMessage(c.errorChatID, FormatAlert(c.alertPrefix, message))
	msg.ParseMode = tgbotapi.ModeHTML
	return c.sendWithRetry(msg)
}

func (c *Client) sendWithRetry(msg tgbotapi.Chattable) error {
	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}
	return fmt.Errorf("failed to send after %d retries: %w", c.maxRetries, lastErr)
}

// FormatAlert builds the error-alert text: a bold prefix line plus the
// HTML-escaped message.
func FormatAlert(prefix, message string) string {
	escaped := html.EscapeString(message)
	if prefix == "" {
		return "❌ " + escaped
	}
	return fmt.Sprintf("<b>%s</b>\n❌ %s", html.EscapeString(prefix), escaped)
}

// ScheduleCaption builds the channel caption for a schedule image. dayLabel
// is "сьогодні" or "завтра".
func ScheduleCaption(regionName, dayLabel string) string {
	name := html.EscapeString(regionName)
	return fmt.Sprintf("🔄 <b>%s</b>\nГрафік на %s\n#%s", name, dayLabel, name)
}
