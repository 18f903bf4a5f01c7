// Package filter derives the visible subset of a fetched collection from the
// active filter values and the free-text search string. Apply is a pure
// function over its inputs and is safe to re-run on every keystroke.
package filter

import (
	"strconv"
	"strings"
	"time"

	"skydesk/internal/models"
	"skydesk/internal/schema"
)

// Value - текущее значение одного фильтра. Для фильтров-диапазонов с
// включенным режимом диапазона используются From/To, иначе Value.
type Value struct {
	Value string `json:"value,omitempty"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
	Range bool   `json:"range,omitempty"`
}

// Set - активные фильтры, ключ - имя поля
type Set map[string]Value

// Apply возвращает строки, прошедшие поиск и все активные фильтры.
// Поиск - это ИЛИ по всем колонкам; фильтры комбинируются через И.
func Apply(ent schema.Entity, filters Set, search string, rows []models.Record) []models.Record {
	result := rows

	if term := strings.TrimSpace(search); term != "" {
		result = retain(result, func(r models.Record) bool {
			return matchesAnyColumn(ent, r, term)
		})
	}

	for _, desc := range ent.Filters {
		value, present := filters[desc.Field]
		if !present || !active(desc, value) {
			continue
		}
		predicate := buildPredicate(desc, value)
		result = retain(result, predicate)
	}

	return result
}

func retain(rows []models.Record, keep func(models.Record) bool) []models.Record {
	filtered := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		if keep(row) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// matchesAnyColumn ищет подстроку без учета регистра в любом поле строки.
// Пользователь не знает, в какой колонке живет его запрос.
func matchesAnyColumn(ent schema.Entity, r models.Record, term string) bool {
	for _, col := range ent.Columns {
		value, ok := r.Field(col)
		if !ok {
			continue
		}
		if containsFold(Stringify(value), term) {
			return true
		}
	}
	return false
}

// active решает, накладывает ли фильтр ограничение. Диапазон с включенным
// режимом активен всегда: пустые границы означают "без ограничений".
// Одиночная граница при выключенном режиме тоже активна и работает
// односторонним сравнением.
func active(desc schema.FilterDescriptor, value Value) bool {
	if isRange(desc.Kind) {
		if value.Range {
			return true
		}
		return strings.TrimSpace(value.Value) != "" ||
			strings.TrimSpace(value.From) != "" ||
			strings.TrimSpace(value.To) != ""
	}
	return strings.TrimSpace(value.Value) != ""
}

func isRange(kind schema.FilterKind) bool {
	return kind == schema.FilterRangeNumber || kind == schema.FilterRangeDate
}

func buildPredicate(desc schema.FilterDescriptor, value Value) func(models.Record) bool {
	field := desc.Field

	switch desc.Kind {
	case schema.FilterSelect:
		want := strings.TrimSpace(value.Value)
		return func(r models.Record) bool {
			v, ok := r.Field(field)
			return ok && Stringify(v) == want
		}

	case schema.FilterText:
		want := strings.TrimSpace(value.Value)
		return func(r models.Record) bool {
			v, ok := r.Field(field)
			return ok && containsFold(Stringify(v), want)
		}

	case schema.FilterRangeNumber:
		if !value.Range && strings.TrimSpace(value.Value) != "" {
			return numberEqualPredicate(field, value.Value)
		}
		return numberRangePredicate(field, value.From, value.To)

	case schema.FilterRangeDate:
		if !value.Range && strings.TrimSpace(value.Value) != "" {
			return dateEqualPredicate(field, value.Value)
		}
		return dateRangePredicate(field, value.From, value.To)
	}

	// неизвестный тип фильтра ничего не ограничивает
	return func(models.Record) bool { return true }
}

func numberRangePredicate(field, fromRaw, toRaw string) func(models.Record) bool {
	from, hasFrom := parseNumber(fromRaw)
	to, hasTo := parseNumber(toRaw)
	if !hasFrom && !hasTo {
		return func(models.Record) bool { return true }
	}
	return func(r models.Record) bool {
		v, ok := r.Field(field)
		if !ok {
			return false
		}
		n, ok := asNumber(v)
		if !ok {
			return false
		}
		return (!hasFrom || n >= from) && (!hasTo || n <= to)
	}
}

func numberEqualPredicate(field, raw string) func(models.Record) bool {
	want, ok := parseNumber(raw)
	if !ok {
		// некорректное значение трактуется как отсутствие фильтра
		return func(models.Record) bool { return true }
	}
	return func(r models.Record) bool {
		v, present := r.Field(field)
		if !present {
			return false
		}
		n, numeric := asNumber(v)
		return numeric && n == want
	}
}

func dateRangePredicate(field, fromRaw, toRaw string) func(models.Record) bool {
	from, _, hasFrom := parseBoundTime(fromRaw)
	to, toDateOnly, hasTo := parseBoundTime(toRaw)
	if !hasFrom && !hasTo {
		return func(models.Record) bool { return true }
	}
	if hasTo && toDateOnly {
		// граница "по" без времени включает весь день
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return func(r models.Record) bool {
		v, ok := r.Field(field)
		if !ok {
			return false
		}
		t, ok := asTime(v)
		if !ok {
			return false
		}
		return (!hasFrom || !t.Before(from)) && (!hasTo || !t.After(to))
	}
}

func dateEqualPredicate(field, raw string) func(models.Record) bool {
	want, dateOnly, ok := parseBoundTime(raw)
	if !ok {
		return func(models.Record) bool { return true }
	}
	return func(r models.Record) bool {
		v, present := r.Field(field)
		if !present {
			return false
		}
		t, isTime := asTime(v)
		if !isTime {
			return false
		}
		if dateOnly {
			return sameDay(t, want)
		}
		return t.Truncate(time.Minute).Equal(want.Truncate(time.Minute))
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

var boundLayouts = []struct {
	layout   string
	dateOnly bool
}{
	{"2006-01-02", true},
	{"2006-01-02T15:04", false},
	{"2006-01-02 15:04", false},
	{time.RFC3339, false},
}

func parseBoundTime(raw string) (time.Time, bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, false
	}
	for _, l := range boundLayouts {
		if t, err := time.Parse(l.layout, raw); err == nil {
			return t, l.dateOnly, true
		}
	}
	return time.Time{}, false, false
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func asTime(v any) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Stringify приводит значение поля к строке так, как его отображает грид
func Stringify(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case *string:
		if value == nil {
			return ""
		}
		return *value
	case int64:
		return strconv.FormatInt(value, 10)
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case time.Time:
		return value.Format("2006-01-02 15:04")
	}
	return ""
}
