package models

import "strings"

// Kind идентифицирует одну из шести сущностей системы
type Kind string

const (
	KindAirport   Kind = "AIRPORT"
	KindAirline   Kind = "AIRLINE"
	KindAirplane  Kind = "AIRPLANE"
	KindFlight    Kind = "FLIGHT"
	KindTicket    Kind = "TICKET"
	KindPassenger Kind = "PASSENGER"
)

// Kinds перечисляет все сущности в порядке отображения в админке
var Kinds = []Kind{KindAirport, KindAirline, KindAirplane, KindFlight, KindTicket, KindPassenger}

// ParseKind разбирает имя сущности без учета регистра
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, true
		}
	}
	return "", false
}

func (k Kind) String() string {
	return string(k)
}

// Subject возвращает имя сущности в нижнем регистре для URL и NATS сабжектов
func (k Kind) Subject() string {
	return strings.ToLower(string(k))
}

// Record - общий интерфейс записи любой сущности
type Record interface {
	// Kind возвращает тег сущности
	Kind() Kind
	// ID возвращает значение поля-идентификатора
	ID() int64
	// Field возвращает значение колонки по имени; false для неизвестной колонки
	Field(name string) (any, bool)
}
