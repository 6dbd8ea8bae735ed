// Package notifier delivers pipeline events to a Telegram chat.
package notifier

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"blogforge/internal/config"
)

// sender is the narrow slice of the bot API we use, kept small for tests.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram formats pipeline events into chat messages. It implements the
// pipeline's EventSink and never propagates delivery failures.
type Telegram struct {
	api    sender
	chatID int64
}

// New connects to the Telegram bot API.
func New(cfg config.TelegramConfig) (*Telegram, error) {
	if cfg.BotToken == "" || cfg.ChatID == 0 {
		return nil, fmt.Errorf("telegram notifier misconfigured")
	}
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}
	return &Telegram{api: api, chatID: cfg.ChatID}, nil
}

// Emit sends one event as a message. Unknown event types are ignored.
func (t *Telegram) Emit(eventType string, payload map[string]any) {
	text := formatEvent(eventType, payload)
	if text == "" {
		return
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		log.Printf("telegram send failed: %v", err)
	}
}

func formatEvent(eventType string, payload map[string]any) string {
	switch eventType {
	case "publish_succeeded":
		return fmt.Sprintf("✅ 발행 완료: %v\n카테고리: %v\n%v",
			payload["title"], payload["category"], payload["url"])
	case "publish_failed":
		return fmt.Sprintf("❌ 발행 실패: %v\n원인: %v",
			payload["title"], payload["error"])
	case "publish_skipped":
		return fmt.Sprintf("⏸ 발행 보류: %v", payload["reason"])
	case "review_completed":
		return fmt.Sprintf("📝 검수 완료: %v\n상태: %v / AI 점수 %v / SEO %.1f / 품질 %v",
			payload["title"], payload["status"], payload["ai_score"],
			toFloat(payload["seo_score"]), payload["quality"])
	default:
		return ""
	}
}

func toFloat(v any) float64 {
	f, _ := v.(float64)
	return f
}
