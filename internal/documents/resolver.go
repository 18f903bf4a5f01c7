// Package documents feeds the external ticket/receipt renderer. The renderer
// itself (PDF, QR) lives outside this service; the contract here is that it
// always receives fully resolved records, never partial ones.
package documents

import (
	"context"
	"errors"
	"fmt"

	"skydesk/internal/access"
	"skydesk/internal/models"
)

// ErrNotFound - запись, на которую ссылается документ, отсутствует
var ErrNotFound = errors.New("record not found")

// TicketDocument - полностью собранные данные для печати билета или квитанции
type TicketDocument struct {
	Ticket    models.Ticket    `json:"ticket"`
	Passenger models.Passenger `json:"passenger"`
	Flight    models.Flight    `json:"flight"`
}

// Generator - внешний генератор документов
type Generator interface {
	Render(ctx context.Context, doc TicketDocument) ([]byte, error)
}

// Resolver собирает данные документа через слой доступа к сущностям
type Resolver struct {
	access access.EntityAccess
}

func NewResolver(entityAccess access.EntityAccess) *Resolver {
	return &Resolver{access: entityAccess}
}

// ResolveTicket находит билет и разрешает его ссылки на пассажира и рейс
func (r *Resolver) ResolveTicket(ctx context.Context, ticketID int64) (*TicketDocument, error) {
	ticket, err := findRecord[models.Ticket](ctx, r.access, models.KindTicket, ticketID)
	if err != nil {
		return nil, err
	}

	passenger, err := findRecord[models.Passenger](ctx, r.access, models.KindPassenger, ticket.PassengerID)
	if err != nil {
		return nil, err
	}

	flight, err := findRecord[models.Flight](ctx, r.access, models.KindFlight, ticket.FlightID)
	if err != nil {
		return nil, err
	}

	return &TicketDocument{Ticket: *ticket, Passenger: *passenger, Flight: *flight}, nil
}

func findRecord[T models.Record](ctx context.Context, entityAccess access.EntityAccess, kind models.Kind, id int64) (*T, error) {
	records, err := entityAccess.FetchAll(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s records: %w", kind.Subject(), err)
	}
	for _, record := range records {
		if record.ID() != id {
			continue
		}
		if typed, ok := record.(T); ok {
			return &typed, nil
		}
	}
	return nil, fmt.Errorf("%s %d: %w", kind.Subject(), id, ErrNotFound)
}
