// Package access exposes generic fetch/create/update/delete over the six
// entity kinds. It is the only layer that classifies storage failures and
// notifies the user: every operation either succeeds or returns the already
// classified (and already reported) error, so callers never branch on raw
// store errors.
package access

import (
	"context"
	"errors"
	"log/slog"

	"skydesk/internal/dberrors"
	"skydesk/internal/messaging"
	"skydesk/internal/metrics"
	"skydesk/internal/models"
	"skydesk/internal/notify"
	"skydesk/internal/schema"
	"skydesk/internal/storage"
)

// Сообщения об успехе операций
const (
	MsgCreated = "Запись добавлена"
	MsgUpdated = "Запись обновлена"
	MsgDeleted = "Запись удалена"

	msgNotFound = "Запись не найдена"
)

// EntityAccess - порт слоя доступа для контроллера грида и сервисов поверх него
type EntityAccess interface {
	FetchAll(ctx context.Context, kind models.Kind) ([]models.Record, error)
	Create(ctx context.Context, kind models.Kind, payload map[string]any) (models.Record, error)
	Update(ctx context.Context, kind models.Kind, id int64, payload map[string]any) (models.Record, error)
	Delete(ctx context.Context, kind models.Kind, id int64) error
}

type Service struct {
	store    storage.Store
	notifier notify.Notifier
	events   notify.Publisher
}

type Option func(*Service)

// WithEvents включает публикацию событий изменения сущностей в шину
func WithEvents(publisher notify.Publisher) Option {
	return func(s *Service) {
		s.events = publisher
	}
}

func NewService(store storage.Store, notifier notify.Notifier, opts ...Option) *Service {
	service := &Service{
		store:    store,
		notifier: notifier,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

var _ EntityAccess = (*Service)(nil)

// FetchAll возвращает все записи сущности, от новых к старым.
// При сбое ошибка классифицируется и пользователь уведомляется здесь же.
func (s *Service) FetchAll(ctx context.Context, kind models.Kind) ([]models.Record, error) {
	records, err := s.store.SelectAll(ctx, kind)
	if err != nil {
		return nil, s.fail(kind, "fetch", err)
	}

	metrics.EntityOps.WithLabelValues(string(kind), "fetch", "ok").Inc()
	return records, nil
}

// Create создает запись. Идентификатор в payload игнорируется: его назначает хранилище.
func (s *Service) Create(ctx context.Context, kind models.Kind, payload map[string]any) (models.Record, error) {
	record, err := s.store.Insert(ctx, kind, stripIdentifier(kind, payload))
	if err != nil {
		return nil, s.fail(kind, "create", err)
	}

	metrics.EntityOps.WithLabelValues(string(kind), "create", "ok").Inc()
	s.notifier.Success(MsgCreated)
	s.publish(kind, "created", record.ID())
	return record, nil
}

// Update частично обновляет запись. Поле-идентификатор из payload отбрасывается.
func (s *Service) Update(ctx context.Context, kind models.Kind, id int64, payload map[string]any) (models.Record, error) {
	record, err := s.store.Update(ctx, kind, id, stripIdentifier(kind, payload))
	if err != nil {
		return nil, s.fail(kind, "update", err)
	}

	metrics.EntityOps.WithLabelValues(string(kind), "update", "ok").Inc()
	s.notifier.Success(MsgUpdated)
	s.publish(kind, "updated", record.ID())
	return record, nil
}

// Delete удаляет запись. Повторное удаление - ошибка "не найдено", не паника.
func (s *Service) Delete(ctx context.Context, kind models.Kind, id int64) error {
	if err := s.store.Delete(ctx, kind, id); err != nil {
		return s.fail(kind, "delete", err)
	}

	metrics.EntityOps.WithLabelValues(string(kind), "delete", "ok").Inc()
	s.notifier.Success(MsgDeleted)
	s.publish(kind, "deleted", id)
	return nil
}

// fail классифицирует ошибку, уведомляет пользователя ровно один раз
// и возвращает классифицированную ошибку вызывающему.
func (s *Service) fail(kind models.Kind, op string, err error) error {
	var classified *dberrors.Error
	if errors.Is(err, storage.ErrNotFound) {
		classified = dberrors.New(dberrors.StoreError, msgNotFound, err)
	} else {
		classified = dberrors.Classify(err)
	}

	metrics.EntityOps.WithLabelValues(string(kind), op, string(classified.Kind)).Inc()
	s.notifier.Error(classified.Message)
	return classified
}

func (s *Service) publish(kind models.Kind, op string, id int64) {
	if s.events == nil {
		return
	}
	event := messaging.EntityEvent{Kind: kind, Op: op, ID: id}
	if err := s.events.Publish(messaging.SubjectEntityEvents, event); err != nil {
		slog.Error("Failed to publish entity event", "kind", kind, "op", op, "id", id, "error", err)
	}
}

// stripIdentifier возвращает копию payload без поля-идентификатора и без
// колонок, которых у сущности нет.
func stripIdentifier(kind models.Kind, payload map[string]any) map[string]any {
	ent, ok := schema.ForKind(kind)
	if !ok {
		return payload
	}

	clean := make(map[string]any, len(payload))
	for key, value := range payload {
		if key == ent.IDField || !ent.HasColumn(key) {
			continue
		}
		clean[key] = value
	}
	return clean
}
