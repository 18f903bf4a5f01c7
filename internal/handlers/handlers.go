package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"skydesk/internal/access"
	"skydesk/internal/booking"
	"skydesk/internal/cache"
	"skydesk/internal/dberrors"
	"skydesk/internal/documents"
	"skydesk/internal/grid"
	"skydesk/internal/models"
	"skydesk/internal/storage"
)

type Handlers struct {
	grid      *grid.Controller
	access    access.EntityAccess
	bookings  *booking.Service
	documents *documents.Resolver
	valkey    *cache.ValkeyClient
}

// NewHandlers собирает обработчики; valkey может быть nil - тогда опции
// селектов читаются из хранилища на каждый запрос.
func NewHandlers(gridCtrl *grid.Controller, entityAccess access.EntityAccess, bookings *booking.Service, resolver *documents.Resolver, valkey *cache.ValkeyClient) *Handlers {
	return &Handlers{
		grid:      gridCtrl,
		access:    entityAccess,
		bookings:  bookings,
		documents: resolver,
		valkey:    valkey,
	}
}

// entityKind разбирает параметр :entity; пишет 400 и возвращает false при ошибке
func entityKind(c *gin.Context) (models.Kind, bool) {
	kind, ok := models.ParseKind(c.Param("entity"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown entity: " + c.Param("entity")})
		return "", false
	}
	return kind, true
}

// respondClassified переводит классифицированную ошибку в HTTP статус.
// Пользовательское уведомление уже отправлено слоем доступа.
func respondClassified(c *gin.Context, err error, extra gin.H) {
	status := http.StatusInternalServerError
	message := err.Error()

	var classified *dberrors.Error
	if errors.As(err, &classified) {
		message = classified.Message
		switch {
		case errors.Is(err, storage.ErrNotFound):
			status = http.StatusNotFound
		case classified.Kind == dberrors.DuplicateKey, classified.Kind == dberrors.ReferentialIntegrity:
			status = http.StatusConflict
		case classified.Kind == dberrors.UnknownError:
			status = http.StatusBadGateway
		}
	}

	body := gin.H{"error": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}
