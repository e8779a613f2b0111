package notifier

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	telegramAPIBaseURL = "https://api.telegram.org/bot"
	telegramTimeout    = 10 * time.Second
)

// TelegramNotifier sends one HTML message per batch to a chat
type TelegramNotifier struct {
	client   *resty.Client
	botToken string
	chatID   string
	baseURL  string
}

// NewTelegramNotifier creates a Telegram Bot API notifier.
func NewTelegramNotifier(botToken, chatID string) (*TelegramNotifier, error) {
	if botToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("chat ID is required")
	}

	client := resty.New()
	client.SetTimeout(telegramTimeout)
	client.SetHeader("Content-Type", "application/json")

	return &TelegramNotifier{
		client:   client,
		botToken: botToken,
		chatID:   chatID,
		baseURL:  telegramAPIBaseURL,
	}, nil
}

// Notify sends a digest of the notices
func (n *TelegramNotifier) Notify(ctx context.Context, notices []Notice) error {
	if len(notices) == 0 {
		return nil
	}
	return n.sendMessage(ctx, formatTelegram(notices))
}

func formatTelegram(notices []Notice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>🚤 1号艇 高配当 %d件</b>\n\n", len(notices))
	for _, notice := range notices {
		fmt.Fprintf(&b, "<b>%s</b> %dR  複勝 %s倍", html.EscapeString(notice.VenueName), notice.Race, notice.Odds)
		if notice.CutoffTime != "" {
			fmt.Fprintf(&b, "  締切 %s", notice.CutoffTime)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// telegramReply is the Bot API answer envelope
type telegramReply struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (n *TelegramNotifier) sendMessage(ctx context.Context, text string) error {
	payload := map[string]interface{}{
		"chat_id":                  n.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}

	var reply telegramReply
	res, err := n.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&reply).
		ForceContentType("application/json").
		Post(fmt.Sprintf("%s%s/sendMessage", n.baseURL, n.botToken))
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("telegram API error (status %d): %s", res.StatusCode(), res.String())
	}
	if !reply.OK {
		return fmt.Errorf("telegram API error: %s", reply.Description)
	}
	return nil
}
