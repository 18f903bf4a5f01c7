package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"skydesk/internal/filter"
	"skydesk/internal/models"
	"skydesk/internal/schema"
)

// ShowGrid - GET /api/admin/:entity
// Снимок грида: переключение сущности, поиск, фильтры, пагинация.
// Параметры: search, page, filter[Field], from[Field], to[Field], range[Field].
func (h *Handlers) ShowGrid(c *gin.Context) {
	kind, ok := entityKind(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		return
	}

	filters := parseFilters(c)
	search := c.Query("search")

	view := h.grid.Show(c.Request.Context(), kind, filters, search, page)
	c.JSON(http.StatusOK, view)
}

// parseFilters собирает набор фильтров из query-параметров
func parseFilters(c *gin.Context) filter.Set {
	values := c.QueryMap("filter")
	froms := c.QueryMap("from")
	tos := c.QueryMap("to")
	ranges := c.QueryMap("range")

	if len(values) == 0 && len(froms) == 0 && len(tos) == 0 && len(ranges) == 0 {
		return filter.Set{}
	}

	set := filter.Set{}
	for field, v := range values {
		entry := set[field]
		entry.Value = v
		set[field] = entry
	}
	for field, v := range froms {
		entry := set[field]
		entry.From = v
		set[field] = entry
	}
	for field, v := range tos {
		entry := set[field]
		entry.To = v
		set[field] = entry
	}
	for field, v := range ranges {
		entry := set[field]
		entry.Range = v == "true" || v == "1"
		set[field] = entry
	}
	return set
}

// GetGridSchema - GET /api/admin/:entity/schema
// Описание сущности для интерфейса: идентификатор, колонки, фильтры
func (h *Handlers) GetGridSchema(c *gin.Context) {
	kind, ok := entityKind(c)
	if !ok {
		return
	}

	ent := schema.MustForKind(kind)
	c.JSON(http.StatusOK, gin.H{
		"kind":     ent.Kind,
		"id_field": ent.IDField,
		"columns":  ent.Columns,
		"filters":  ent.Filters,
	})
}

// GetFilterOptions - GET /api/admin/:entity/options/:field
// Опции селект-фильтра: статичные из схемы или справочник по внешнему ключу
func (h *Handlers) GetFilterOptions(c *gin.Context) {
	kind, ok := entityKind(c)
	if !ok {
		return
	}

	ent := schema.MustForKind(kind)
	field := c.Param("field")

	var desc *schema.FilterDescriptor
	for i := range ent.Filters {
		if ent.Filters[i].Field == field {
			desc = &ent.Filters[i]
			break
		}
	}
	if desc == nil || desc.Kind != schema.FilterSelect {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no select filter for field " + field})
		return
	}

	if len(desc.Options) > 0 {
		options := make([]schema.Option, len(desc.Options))
		for i, o := range desc.Options {
			options[i] = schema.Option{Value: o, Label: o}
		}
		c.JSON(http.StatusOK, options)
		return
	}

	options, err := h.referenceOptions(c, desc.Ref)
	if err != nil {
		respondClassified(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, options)
}

// referenceOptions строит справочник по сущности, на которую ссылается фильтр,
// с кешем в Valkey
func (h *Handlers) referenceOptions(c *gin.Context, ref models.Kind) ([]schema.Option, error) {
	ctx := c.Request.Context()

	if h.valkey != nil {
		if options, err := h.valkey.GetOptions(ctx, ref); err == nil {
			return options, nil
		}
	}

	records, err := h.access.FetchAll(ctx, ref)
	if err != nil {
		return nil, err
	}

	options := make([]schema.Option, len(records))
	for i, record := range records {
		options[i] = schema.Option{
			Value: strconv.FormatInt(record.ID(), 10),
			Label: models.OptionLabel(record),
		}
	}

	if h.valkey != nil {
		if err := h.valkey.SetOptions(ctx, ref, options); err != nil {
			slog.Warn("Failed to cache filter options", "ref", ref, "error", err)
		}
	}
	return options, nil
}

// CreateRecord - POST /api/admin/:entity
func (h *Handlers) CreateRecord(c *gin.Context) {
	kind, ok := entityKind(c)
	if !ok {
		return
	}

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.grid.Create(c.Request.Context(), kind, payload)
	if err != nil {
		respondClassified(c, err, gin.H{"record": nil})
		return
	}

	h.invalidateOptions(c, kind)
	c.JSON(http.StatusCreated, gin.H{"record": record})
}

// UpdateRecord - PATCH /api/admin/:entity/:id
func (h *Handlers) UpdateRecord(c *gin.Context) {
	kind, ok := entityKind(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return
	}

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.grid.Update(c.Request.Context(), kind, id, payload)
	if err != nil {
		respondClassified(c, err, gin.H{"record": nil})
		return
	}

	h.invalidateOptions(c, kind)
	c.JSON(http.StatusOK, gin.H{"record": record})
}

// DeleteRecord - DELETE /api/admin/:entity/:id
func (h *Handlers) DeleteRecord(c *gin.Context) {
	kind, ok := entityKind(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return
	}

	if err := h.grid.Delete(c.Request.Context(), kind, id); err != nil {
		respondClassified(c, err, gin.H{"success": false})
		return
	}

	h.invalidateOptions(c, kind)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// invalidateOptions сбрасывает закешированный справочник после мутации
func (h *Handlers) invalidateOptions(c *gin.Context, kind models.Kind) {
	if h.valkey == nil {
		return
	}
	if err := h.valkey.InvalidateOptions(c.Request.Context(), kind); err != nil {
		slog.Warn("Failed to invalidate options cache", "kind", kind, "error", err)
	}
}
