package consumers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/stan.go"

	"skydesk/internal/documents"
	"skydesk/internal/messaging"
	"skydesk/internal/models"
	"skydesk/internal/notify"
)

type Handlers struct {
	resolver  *documents.Resolver
	generator documents.Generator
}

func NewHandlers(resolver *documents.Resolver, generator documents.Generator) *Handlers {
	return &Handlers{
		resolver:  resolver,
		generator: generator,
	}
}

// HandleEntityEvent пишет аудиторский след каждой мутации сущности.
// Для новых билетов дополнительно запускается выпуск документа.
func (h *Handlers) HandleEntityEvent(m *stan.Msg) {
	var event messaging.EntityEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal entity event", "error", err)
		return
	}

	slog.Info("audit", "kind", event.Kind, "op", event.Op, "id", event.ID)

	if event.Kind == models.KindTicket && event.Op == "created" {
		h.issueTicketDocument(event.ID)
	}

	m.Ack()
}

// HandleToast дублирует пользовательские уведомления в лог сервиса
func (h *Handlers) HandleToast(m *stan.Msg) {
	var toast notify.Toast
	if err := json.Unmarshal(m.Data, &toast); err != nil {
		slog.Error("Failed to unmarshal toast", "error", err)
		return
	}

	slog.Info("toast delivered", "level", toast.Level, "message", toast.Message)
	m.Ack()
}

func (h *Handlers) issueTicketDocument(ticketID int64) {
	ctx := context.Background()

	doc, err := h.resolver.ResolveTicket(ctx, ticketID)
	if err != nil {
		slog.Error("Failed to resolve ticket document", "ticket_id", ticketID, "error", err)
		return
	}

	if h.generator == nil {
		slog.Info("Ticket document resolved, no generator configured",
			"ticket_id", ticketID, "seat", doc.Ticket.SeatNumber)
		return
	}

	rendered, err := h.generator.Render(ctx, *doc)
	if err != nil {
		slog.Error("Failed to render ticket document", "ticket_id", ticketID, "error", err)
		return
	}

	slog.Info("Ticket document issued", "ticket_id", ticketID, "bytes", len(rendered))
}
