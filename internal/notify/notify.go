// Package notify is the user notification port: a fire-and-forget toast sink
// consumed by the entity access layer.
package notify

import "log/slog"

// Notifier принимает уведомления для пользователя
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Toast - сообщение, доставляемое интерфейсу
type Toast struct {
	Level   string `json:"level"` // success | error
	Message string `json:"message"`
}

// SlogNotifier пишет уведомления в структурированный лог
type SlogNotifier struct{}

func NewSlogNotifier() *SlogNotifier {
	return &SlogNotifier{}
}

func (n *SlogNotifier) Success(message string) {
	slog.Info("toast", "level", "success", "message", message)
}

func (n *SlogNotifier) Error(message string) {
	slog.Warn("toast", "level", "error", "message", message)
}

// Publisher - то, что умеет публиковать в шину сообщений
type Publisher interface {
	Publish(subject string, data interface{}) error
}

// Broadcast транслирует уведомления в NATS, откуда их забирает интерфейс
type Broadcast struct {
	publisher Publisher
	subject   string
}

func NewBroadcast(publisher Publisher, subject string) *Broadcast {
	return &Broadcast{publisher: publisher, subject: subject}
}

func (b *Broadcast) Success(message string) {
	b.publish("success", message)
}

func (b *Broadcast) Error(message string) {
	b.publish("error", message)
}

func (b *Broadcast) publish(level, message string) {
	if err := b.publisher.Publish(b.subject, Toast{Level: level, Message: message}); err != nil {
		slog.Error("Failed to broadcast toast", "level", level, "error", err)
	}
}

// Multi доставляет уведомление во все приемники
type Multi []Notifier

func (m Multi) Success(message string) {
	for _, n := range m {
		n.Success(message)
	}
}

func (m Multi) Error(message string) {
	for _, n := range m {
		n.Error(message)
	}
}
