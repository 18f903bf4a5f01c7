// Package booking is the customer-facing flow on top of the entity access
// layer: ticket purchase, cancellation and the passenger profile. It never
// talks to the store directly.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skydesk/internal/access"
	"skydesk/internal/models"
)

var (
	// ErrTicketNotFound - билет с таким идентификатором отсутствует
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrPassengerNotFound - пассажир с таким идентификатором отсутствует
	ErrPassengerNotFound = errors.New("passenger not found")
	// ErrNotCancellable - отменить можно только забронированный билет
	ErrNotCancellable = errors.New("only booked tickets can be cancelled")
)

type Service struct {
	access access.EntityAccess
}

func NewService(entityAccess access.EntityAccess) *Service {
	return &Service{access: entityAccess}
}

// Purchase бронирует место: создает билет в статусе BOOKED
// с серверным временем покупки.
func (s *Service) Purchase(ctx context.Context, req *models.PurchaseTicketRequest) (*models.Ticket, error) {
	payload := map[string]any{
		"FlightID":     req.FlightID,
		"PassengerID":  req.PassengerID,
		"PurchaseDate": time.Now().UTC(),
		"SeatNumber":   req.SeatNumber,
		"Price":        req.Price,
		"Status":       models.TicketStatusBooked,
	}

	record, err := s.access.Create(ctx, models.KindTicket, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to purchase ticket: %w", err)
	}

	ticket, ok := record.(models.Ticket)
	if !ok {
		return nil, fmt.Errorf("unexpected record type %T for ticket", record)
	}
	return &ticket, nil
}

// Cancel переводит билет в CANCELLED. Отменить можно только забронированный билет;
// сам переход статусов внешний - платежи и отмены приходят явными вызовами.
func (s *Service) Cancel(ctx context.Context, ticketID int64) (*models.Ticket, error) {
	current, err := s.findTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if current.Status != models.TicketStatusBooked {
		return nil, fmt.Errorf("ticket %d is %s: %w", ticketID, current.Status, ErrNotCancellable)
	}

	record, err := s.access.Update(ctx, models.KindTicket, ticketID, map[string]any{
		"Status": models.TicketStatusCancelled,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel ticket: %w", err)
	}

	ticket, ok := record.(models.Ticket)
	if !ok {
		return nil, fmt.Errorf("unexpected record type %T for ticket", record)
	}
	return &ticket, nil
}

// Profile возвращает пассажира и его билеты, от новых к старым
func (s *Service) Profile(ctx context.Context, passengerID int64) (*models.ProfileResponse, error) {
	passengers, err := s.access.FetchAll(ctx, models.KindPassenger)
	if err != nil {
		return nil, fmt.Errorf("failed to load passengers: %w", err)
	}

	var passenger *models.Passenger
	for _, record := range passengers {
		if p, ok := record.(models.Passenger); ok && p.PassengerID == passengerID {
			passenger = &p
			break
		}
	}
	if passenger == nil {
		return nil, fmt.Errorf("passenger %d: %w", passengerID, ErrPassengerNotFound)
	}

	records, err := s.access.FetchAll(ctx, models.KindTicket)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}

	tickets := make([]models.Ticket, 0)
	for _, record := range records {
		if t, ok := record.(models.Ticket); ok && t.PassengerID == passengerID {
			tickets = append(tickets, t)
		}
	}

	return &models.ProfileResponse{Passenger: *passenger, Tickets: tickets}, nil
}

func (s *Service) findTicket(ctx context.Context, ticketID int64) (*models.Ticket, error) {
	records, err := s.access.FetchAll(ctx, models.KindTicket)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}
	for _, record := range records {
		if t, ok := record.(models.Ticket); ok && t.TicketID == ticketID {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("ticket %d: %w", ticketID, ErrTicketNotFound)
}
