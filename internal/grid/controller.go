// Package grid orchestrates the admin data grid: fetch on entity switch,
// filtering and search, pagination and refetch after every successful
// mutation. A fetch result is committed only if its request token is still
// the latest one, so a response for a previous entity kind can never
// populate the grid after the user switched away.
package grid

import (
	"context"
	"errors"
	"sync"

	"skydesk/internal/access"
	"skydesk/internal/filter"
	"skydesk/internal/metrics"
	"skydesk/internal/models"
	"skydesk/internal/schema"
)

// DefaultPageSize - размер страницы грида по умолчанию
const DefaultPageSize = 7

// State - состояние грида по активной сущности
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
)

// ErrNoActiveKind возвращается для операций без выбранной сущности
var ErrNoActiveKind = errors.New("no active entity kind")

// View - снимок грида для отрисовки
type View struct {
	Kind       models.Kind     `json:"kind"`
	State      State           `json:"state"`
	Rows       []models.Record `json:"rows"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
	Search     string          `json:"search,omitempty"`
	Filters    filter.Set      `json:"filters,omitempty"`
}

type Controller struct {
	access   access.EntityAccess
	pageSize int

	mu      sync.Mutex
	kind    models.Kind
	state   State
	token   uint64
	rows    []models.Record
	filters filter.Set
	search  string
	page    int
}

func NewController(entityAccess access.EntityAccess, pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller{
		access:   entityAccess,
		pageSize: pageSize,
		state:    StateIdle,
		filters:  filter.Set{},
		page:     1,
	}
}

// SwitchKind делает сущность активной: сбрасывает фильтры, поиск и страницу
// и загружает коллекцию заново.
func (c *Controller) SwitchKind(ctx context.Context, kind models.Kind) error {
	c.mu.Lock()
	c.kind = kind
	c.filters = filter.Set{}
	c.search = ""
	c.page = 1
	c.rows = nil
	c.state = StateLoading
	c.token++
	token := c.token
	c.mu.Unlock()

	return c.fetch(ctx, kind, token)
}

// Refresh перечитывает коллекцию активной сущности
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.kind == "" {
		c.mu.Unlock()
		return ErrNoActiveKind
	}
	kind := c.kind
	c.state = StateLoading
	c.token++
	token := c.token
	c.mu.Unlock()

	return c.fetch(ctx, kind, token)
}

// fetch выполняет выборку и фиксирует результат, только если токен запроса
// все еще актуален. Ошибка выборки уже классифицирована и показана
// пользователем слоем доступа: здесь она превращается в пустую коллекцию.
func (c *Controller) fetch(ctx context.Context, kind models.Kind, token uint64) error {
	records, err := c.access.FetchAll(ctx, kind)

	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.token {
		// пользователь уже переключился, поздний ответ отбрасывается
		metrics.StaleFetchesDropped.Inc()
		return nil
	}

	if err != nil {
		c.rows = []models.Record{}
		c.state = StateReady
		return err
	}

	c.rows = records
	c.state = StateReady
	return nil
}

// SetSearch меняет строку поиска; любое изменение возвращает грид на первую страницу
func (c *Controller) SetSearch(search string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if search != c.search {
		c.search = search
		c.page = 1
	}
}

// SetFilters заменяет набор активных фильтров
func (c *Controller) SetFilters(filters filter.Set) {
	if filters == nil {
		filters = filter.Set{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !equalSets(c.filters, filters) {
		c.filters = filters
		c.page = 1
	}
}

// SetPage переходит на страницу, не меняя фильтры
func (c *Controller) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = page
}

// Show - единая точка входа обработчика: переключает сущность при
// необходимости, применяет параметры и возвращает снимок.
func (c *Controller) Show(ctx context.Context, kind models.Kind, filters filter.Set, search string, page int) View {
	c.mu.Lock()
	switched := c.kind != kind || c.state == StateIdle
	c.mu.Unlock()

	if switched {
		// ошибка уже показана пользователю, грид остается пустым
		_ = c.SwitchKind(ctx, kind)
	}

	if filters != nil {
		c.SetFilters(filters)
	}
	c.SetSearch(search)
	c.SetPage(page)

	return c.View()
}

// View строит снимок: применяет фильтры и поиск к загруженной коллекции
// и вырезает текущую страницу.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := View{
		Kind:     c.kind,
		State:    c.state,
		Rows:     []models.Record{},
		Page:     c.page,
		PageSize: c.pageSize,
		Search:   c.search,
		Filters:  c.filters,
	}
	if c.kind == "" {
		return view
	}

	ent, ok := schema.ForKind(c.kind)
	if !ok {
		return view
	}

	visible := filter.Apply(ent, c.filters, c.search, c.rows)
	view.Total = len(visible)
	view.TotalPages = (len(visible) + c.pageSize - 1) / c.pageSize

	page := c.page
	if view.TotalPages > 0 && page > view.TotalPages {
		page = view.TotalPages
	}
	view.Page = page

	start := (page - 1) * c.pageSize
	end := start + c.pageSize
	if start > len(visible) {
		start = len(visible)
	}
	if end > len(visible) {
		end = len(visible)
	}
	view.Rows = visible[start:end]

	return view
}

// Create создает запись и, если сущность все еще активна, перечитывает коллекцию
func (c *Controller) Create(ctx context.Context, kind models.Kind, payload map[string]any) (models.Record, error) {
	record, err := c.access.Create(ctx, kind, payload)
	if err != nil {
		return nil, err
	}
	c.refreshIfActive(ctx, kind)
	return record, nil
}

// Update обновляет запись и перечитывает коллекцию активной сущности
func (c *Controller) Update(ctx context.Context, kind models.Kind, id int64, payload map[string]any) (models.Record, error) {
	record, err := c.access.Update(ctx, kind, id, payload)
	if err != nil {
		return nil, err
	}
	c.refreshIfActive(ctx, kind)
	return record, nil
}

// Delete удаляет запись и перечитывает коллекцию активной сущности
func (c *Controller) Delete(ctx context.Context, kind models.Kind, id int64) error {
	if err := c.access.Delete(ctx, kind, id); err != nil {
		return err
	}
	c.refreshIfActive(ctx, kind)
	return nil
}

// После мутации грид не латает строки локально, а перечитывает их целиком:
// состояние хранилища авторитетно (серверные значения по умолчанию, триггеры).
func (c *Controller) refreshIfActive(ctx context.Context, kind models.Kind) {
	c.mu.Lock()
	active := c.kind == kind
	c.mu.Unlock()
	if !active {
		return
	}
	// ошибка перечитывания уже показана пользователю слоем доступа
	_ = c.Refresh(ctx)
}

func equalSets(a, b filter.Set) bool {
	if len(a) != len(b) {
		return false
	}
	for field, value := range a {
		if other, ok := b[field]; !ok || other != value {
			return false
		}
	}
	return true
}
