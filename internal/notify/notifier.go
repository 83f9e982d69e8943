package notify

import (
	"context"
	"fmt"
	"log"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"paper_bot/internal/modules/metrics"
)

type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

// Backend — конечный транспорт уведомления (Telegram или stdout).
type Backend interface {
	Deliver(msg string)
}

// Service — очередь уведомлений. Отправка не блокирует торговый цикл:
// при заполненном буфере сообщение теряется, движок идёт дальше.
type Service struct {
	backend Backend
	queue   chan string
	m       *metrics.Metrics
}

func NewService(backend Backend, m *metrics.Metrics) *Service {
	return &Service{
		backend: backend,
		queue:   make(chan string, 256),
		m:       m,
	}
}

func (s *Service) Send(msg string) {
	select {
	case s.queue <- msg:
	default:
		s.m.NotifyDropped.Inc()
		log.Printf("[NOTIFY] queue full, dropped: %s", msg)
	}
}

func (s *Service) Sendf(format string, args ...any) { s.Send(fmt.Sprintf(format, args...)) }

// Run — воркер доставки, живёт до отмены контекста.
func (s *Service) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.queue:
			s.backend.Deliver(msg)
		}
	}
}

// Telegram — пассивный бэкенд: только исходящие сообщения.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{bot: b, chatID: chatID}, nil
}

func (t *Telegram) Deliver(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg)); err != nil {
		log.Printf("[NOTIFY] telegram send failed: %v", err)
	}
}

// Stdout — заглушка для локальных прогонов без токена.
type Stdout struct{}

func NewStdout() *Stdout           { return &Stdout{} }
func (s *Stdout) Deliver(m string) { log.Println(m) }
