// Package schema describes the six entity tables: identifier fields, column
// order and the filter rules the admin grid may apply to each of them.
// It is a static lookup table with no failure modes.
package schema

import "skydesk/internal/models"

// FilterKind задает тип фильтра колонки
type FilterKind string

const (
	FilterSelect      FilterKind = "select"
	FilterRangeNumber FilterKind = "range-number"
	FilterRangeDate   FilterKind = "range-date"
	FilterText        FilterKind = "text"
)

// FilterDescriptor описывает один фильтр в шапке грида.
// Options заполнен для статичных селектов, Ref - для селектов по внешнему ключу.
type FilterDescriptor struct {
	Field   string      `json:"field"`
	Label   string      `json:"label"`
	Kind    FilterKind  `json:"kind"`
	Options []string    `json:"options,omitempty"`
	Ref     models.Kind `json:"ref,omitempty"`
}

// Option - пара значение/подпись для селектов
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Entity описывает таблицу сущности
type Entity struct {
	Kind    models.Kind
	Table   string
	IDField string
	// Колонки в порядке выборки, идентификатор первым
	Columns []string
	Filters []FilterDescriptor
}

// InsertColumns возвращает колонки без идентификатора: он назначается хранилищем
// и никогда не принимается в payload.
func (e Entity) InsertColumns() []string {
	cols := make([]string, 0, len(e.Columns)-1)
	for _, c := range e.Columns {
		if c != e.IDField {
			cols = append(cols, c)
		}
	}
	return cols
}

// HasColumn проверяет, что имя является колонкой сущности
func (e Entity) HasColumn(name string) bool {
	for _, c := range e.Columns {
		if c == name {
			return true
		}
	}
	return false
}

var registry = map[models.Kind]Entity{
	models.KindAirport: {
		Kind:    models.KindAirport,
		Table:   "AIRPORT",
		IDField: "AirportID",
		Columns: []string{"AirportID", "Name", "City", "Country", "Code"},
		Filters: []FilterDescriptor{
			{Field: "Name", Label: "Название", Kind: FilterText},
			{Field: "City", Label: "Город", Kind: FilterText},
			{Field: "Country", Label: "Страна", Kind: FilterText},
			{Field: "Code", Label: "Код", Kind: FilterText},
		},
	},
	models.KindAirline: {
		Kind:    models.KindAirline,
		Table:   "AIRLINE",
		IDField: "AirlineID",
		Columns: []string{"AirlineID", "Name", "Country"},
		Filters: []FilterDescriptor{
			{Field: "Name", Label: "Название", Kind: FilterText},
			{Field: "Country", Label: "Страна", Kind: FilterText},
		},
	},
	models.KindAirplane: {
		Kind:    models.KindAirplane,
		Table:   "AIRPLANE",
		IDField: "AirplaneID",
		Columns: []string{"AirplaneID", "AirlineID", "Model", "Capacity"},
		Filters: []FilterDescriptor{
			{Field: "AirlineID", Label: "Авиакомпания", Kind: FilterSelect, Ref: models.KindAirline},
			{Field: "Model", Label: "Модель", Kind: FilterText},
			{Field: "Capacity", Label: "Вместимость", Kind: FilterRangeNumber},
		},
	},
	models.KindFlight: {
		Kind:    models.KindFlight,
		Table:   "FLIGHT",
		IDField: "FlightID",
		Columns: []string{"FlightID", "AirplaneID", "DepartureAirportID", "ArrivalAirportID", "DepartureTime", "ArrivalTime"},
		Filters: []FilterDescriptor{
			{Field: "AirplaneID", Label: "Самолет", Kind: FilterSelect, Ref: models.KindAirplane},
			{Field: "DepartureAirportID", Label: "Аэропорт вылета", Kind: FilterSelect, Ref: models.KindAirport},
			{Field: "ArrivalAirportID", Label: "Аэропорт прилета", Kind: FilterSelect, Ref: models.KindAirport},
			{Field: "DepartureTime", Label: "Время вылета", Kind: FilterRangeDate},
			{Field: "ArrivalTime", Label: "Время прилета", Kind: FilterRangeDate},
		},
	},
	models.KindTicket: {
		Kind:    models.KindTicket,
		Table:   "TICKET",
		IDField: "TicketID",
		Columns: []string{"TicketID", "FlightID", "PassengerID", "PurchaseDate", "SeatNumber", "Price", "Status"},
		Filters: []FilterDescriptor{
			{Field: "FlightID", Label: "Рейс", Kind: FilterSelect, Ref: models.KindFlight},
			{Field: "PassengerID", Label: "Пассажир", Kind: FilterSelect, Ref: models.KindPassenger},
			{Field: "PurchaseDate", Label: "Дата покупки", Kind: FilterRangeDate},
			{Field: "SeatNumber", Label: "Место", Kind: FilterText},
			{Field: "Price", Label: "Цена", Kind: FilterRangeNumber},
			{Field: "Status", Label: "Статус", Kind: FilterSelect, Options: []string{
				models.TicketStatusBooked, models.TicketStatusCancelled, models.TicketStatusCompleted,
			}},
		},
	},
	models.KindPassenger: {
		Kind:    models.KindPassenger,
		Table:   "PASSENGER",
		IDField: "PassengerID",
		Columns: []string{"PassengerID", "Gender", "FirstName", "LastName", "PassportSeries", "PassportNumber", "DateOfBirth", "Phone", "Email", "Role"},
		Filters: []FilterDescriptor{
			{Field: "Gender", Label: "Пол", Kind: FilterSelect, Options: []string{"Male", "Female"}},
			{Field: "FirstName", Label: "Имя", Kind: FilterText},
			{Field: "LastName", Label: "Фамилия", Kind: FilterText},
			{Field: "PassportSeries", Label: "Серия паспорта", Kind: FilterText},
			{Field: "PassportNumber", Label: "Номер паспорта", Kind: FilterText},
			{Field: "DateOfBirth", Label: "Дата рождения", Kind: FilterRangeDate},
			{Field: "Phone", Label: "Телефон", Kind: FilterText},
			{Field: "Email", Label: "Email", Kind: FilterText},
			{Field: "Role", Label: "Роль", Kind: FilterSelect, Options: []string{"admin", "user"}},
		},
	},
}

// ForKind возвращает описание сущности; false для неизвестного тега
func ForKind(kind models.Kind) (Entity, bool) {
	e, ok := registry[kind]
	return e, ok
}

// MustForKind используется там, где тег уже прошел валидацию
func MustForKind(kind models.Kind) Entity {
	e, ok := registry[kind]
	if !ok {
		panic("schema: unknown entity kind " + string(kind))
	}
	return e
}
