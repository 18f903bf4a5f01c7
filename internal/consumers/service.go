// Package consumers is the background side of the service: it drains the
// entity event stream for the audit trail and issues ticket documents for
// fresh bookings.
package consumers

import (
	"context"
	"log/slog"

	"skydesk/internal/access"
	"skydesk/internal/config"
	"skydesk/internal/database"
	"skydesk/internal/documents"
	"skydesk/internal/messaging"
	"skydesk/internal/notify"
	"skydesk/internal/storage"
)

type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config, generator documents.Generator) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Потребители читают хранилище напрямую, без шины событий:
	// иначе их собственные выборки порождали бы новые события
	store := storage.NewSQLStore(db)
	entityAccess := access.NewService(store, notify.NewSlogNotifier())
	resolver := documents.NewResolver(entityAccess)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		handlers: NewHandlers(resolver, generator),
	}, nil
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	_, err := cs.nats.SubscribeQueue(messaging.SubjectEntityEvents, "consumers", cs.handlers.HandleEntityEvent)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(messaging.SubjectToasts, "consumers", cs.handlers.HandleToast)
	if err != nil {
		return err
	}

	slog.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
