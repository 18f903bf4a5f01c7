package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"skydesk/internal/models"
	"skydesk/internal/schema"
)

var airportRows = []models.Record{
	models.Airport{AirportID: 3, Name: "Национальный аэропорт Минск", City: "Минск", Country: "Беларусь", Code: "MSQ"},
	models.Airport{AirportID: 2, Name: "Шереметьево", City: "Москва", Country: "Россия", Code: "SVO"},
	models.Airport{AirportID: 1, Name: "Пулково", City: "Санкт-Петербург", Country: "Россия", Code: "LED"},
}

func TestSearchMatchesAnyColumn(t *testing.T) {
	ent := schema.MustForKind(models.KindAirport)

	// запрос живет в разных колонках у разных строк
	byCity := Apply(ent, nil, "Москва", airportRows)
	assert.Len(t, byCity, 1)
	assert.Equal(t, int64(2), byCity[0].ID())

	byCode := Apply(ent, nil, "LED", airportRows)
	assert.Len(t, byCode, 1)
	assert.Equal(t, int64(1), byCode[0].ID())

	byID := Apply(ent, nil, "3", airportRows)
	assert.Len(t, byID, 1)
	assert.Equal(t, int64(3), byID[0].ID())
}

func TestSearchCaseInsensitiveCyrillic(t *testing.T) {
	ent := schema.MustForKind(models.KindAirport)

	lower := Apply(ent, nil, "минск", airportRows)
	upper := Apply(ent, nil, "МИНСК", airportRows)

	assert.Len(t, lower, 1)
	assert.Equal(t, lower, upper)
}

func TestSearchBlankMatchesEverything(t *testing.T) {
	ent := schema.MustForKind(models.KindAirport)

	assert.Len(t, Apply(ent, nil, "", airportRows), len(airportRows))
	assert.Len(t, Apply(ent, nil, "   ", airportRows), len(airportRows))
}

func TestTextFilterSubstring(t *testing.T) {
	ent := schema.MustForKind(models.KindAirport)

	filters := Set{"Country": {Value: "россия"}}
	result := Apply(ent, filters, "", airportRows)

	assert.Len(t, result, 2)
}

func TestFiltersCombineWithAnd(t *testing.T) {
	ent := schema.MustForKind(models.KindAirport)

	filters := Set{
		"Country": {Value: "Россия"},
		"City":    {Value: "Москва"},
	}
	result := Apply(ent, filters, "", airportRows)

	assert.Len(t, result, 1)
	assert.Equal(t, int64(2), result[0].ID())
}

func TestSearchAndFiltersCombine(t *testing.T) {
	ent := schema.MustForKind(models.KindAirport)

	filters := Set{"Country": {Value: "Россия"}}
	result := Apply(ent, filters, "Пулково", airportRows)

	assert.Len(t, result, 1)
	assert.Equal(t, int64(1), result[0].ID())
}

var airplaneRows = []models.Record{
	models.Airplane{AirplaneID: 3, AirlineID: 1, Model: "Boeing 777-300ER", Capacity: 402},
	models.Airplane{AirplaneID: 2, AirlineID: 2, Model: "Airbus A320", Capacity: 180},
	models.Airplane{AirplaneID: 1, AirlineID: 1, Model: "Embraer E195", Capacity: 124},
}

func TestNumberRange(t *testing.T) {
	ent := schema.MustForKind(models.KindAirplane)

	filters := Set{"Capacity": {From: "160", To: "200", Range: true}}
	result := Apply(ent, filters, "", airplaneRows)

	assert.Len(t, result, 1)
	assert.Equal(t, int64(2), result[0].ID())
}

func TestNumberRangeOpenBounds(t *testing.T) {
	ent := schema.MustForKind(models.KindAirplane)

	onlyFrom := Apply(ent, Set{"Capacity": {From: "150", Range: true}}, "", airplaneRows)
	assert.Len(t, onlyFrom, 2)

	onlyTo := Apply(ent, Set{"Capacity": {To: "150", Range: true}}, "", airplaneRows)
	assert.Len(t, onlyTo, 1)
	assert.Equal(t, int64(1), onlyTo[0].ID())
}

func TestNumberRangeBothBoundsBlank(t *testing.T) {
	ent := schema.MustForKind(models.KindAirplane)

	// включенный диапазон без границ не ограничивает ничего
	filters := Set{"Capacity": {Range: true}}
	result := Apply(ent, filters, "", airplaneRows)

	assert.Len(t, result, len(airplaneRows))
}

func TestNumberRangeMalformedBoundIsOpen(t *testing.T) {
	ent := schema.MustForKind(models.KindAirplane)

	filters := Set{"Capacity": {From: "abc", To: "200", Range: true}}
	result := Apply(ent, filters, "", airplaneRows)

	assert.Len(t, result, 2)
}

func TestNumberSingleBoundWithRangeOff(t *testing.T) {
	ent := schema.MustForKind(models.KindAirplane)

	// одиночная граница при выключенном режиме работает как >= / <=
	atLeast := Apply(ent, Set{"Capacity": {From: "160"}}, "", airplaneRows)
	assert.Len(t, atLeast, 2)

	atMost := Apply(ent, Set{"Capacity": {To: "160"}}, "", airplaneRows)
	assert.Len(t, atMost, 1)
	assert.Equal(t, int64(1), atMost[0].ID())
}

func TestDateSingleBoundWithRangeOff(t *testing.T) {
	ent := schema.MustForKind(models.KindFlight)
	rows := []models.Record{
		flightAt(2, time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)),
		flightAt(1, time.Date(2026, 4, 20, 8, 0, 0, 0, time.UTC)),
	}

	result := Apply(ent, Set{"DepartureTime": {From: "2026-05-01"}}, "", rows)

	assert.Len(t, result, 1)
	assert.Equal(t, int64(2), result[0].ID())
}

func TestNumberExactValue(t *testing.T) {
	ent := schema.MustForKind(models.KindAirplane)

	result := Apply(ent, Set{"Capacity": {Value: "180"}}, "", airplaneRows)
	assert.Len(t, result, 1)
	assert.Equal(t, int64(2), result[0].ID())

	// некорректное значение трактуется как отсутствие фильтра
	malformed := Apply(ent, Set{"Capacity": {Value: "huge"}}, "", airplaneRows)
	assert.Len(t, malformed, len(airplaneRows))
}

func TestSelectFilterByForeignKey(t *testing.T) {
	ent := schema.MustForKind(models.KindAirplane)

	result := Apply(ent, Set{"AirlineID": {Value: "1"}}, "", airplaneRows)

	assert.Len(t, result, 2)
}

func flightAt(id int64, departure time.Time) models.Flight {
	return models.Flight{
		FlightID:      id,
		DepartureTime: departure,
		ArrivalTime:   departure.Add(2 * time.Hour),
	}
}

func TestDateRange(t *testing.T) {
	ent := schema.MustForKind(models.KindFlight)
	rows := []models.Record{
		flightAt(3, time.Date(2026, 5, 3, 23, 30, 0, 0, time.UTC)),
		flightAt(2, time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)),
		flightAt(1, time.Date(2026, 4, 20, 8, 0, 0, 0, time.UTC)),
	}

	filters := Set{"DepartureTime": {From: "2026-05-01", To: "2026-05-03", Range: true}}
	result := Apply(ent, filters, "", rows)

	// граница "по" без времени включает весь день 3 мая
	assert.Len(t, result, 2)
	assert.Equal(t, int64(3), result[0].ID())
	assert.Equal(t, int64(2), result[1].ID())
}

func TestDateRangeWithTimeBound(t *testing.T) {
	ent := schema.MustForKind(models.KindFlight)
	rows := []models.Record{
		flightAt(2, time.Date(2026, 5, 3, 23, 30, 0, 0, time.UTC)),
		flightAt(1, time.Date(2026, 5, 3, 9, 0, 0, 0, time.UTC)),
	}

	filters := Set{"DepartureTime": {To: "2026-05-03T12:00", Range: true}}
	result := Apply(ent, filters, "", rows)

	assert.Len(t, result, 1)
	assert.Equal(t, int64(1), result[0].ID())
}

func TestDateRangeMalformedBoundsAreOpen(t *testing.T) {
	ent := schema.MustForKind(models.KindFlight)
	rows := []models.Record{
		flightAt(1, time.Date(2026, 5, 3, 9, 0, 0, 0, time.UTC)),
	}

	filters := Set{"DepartureTime": {From: "вчера", To: "завтра", Range: true}}
	result := Apply(ent, filters, "", rows)

	assert.Len(t, result, 1)
}

func TestDateExactDayMatch(t *testing.T) {
	ent := schema.MustForKind(models.KindFlight)
	rows := []models.Record{
		flightAt(2, time.Date(2026, 5, 4, 0, 15, 0, 0, time.UTC)),
		flightAt(1, time.Date(2026, 5, 3, 9, 0, 0, 0, time.UTC)),
	}

	result := Apply(ent, Set{"DepartureTime": {Value: "2026-05-03"}}, "", rows)

	assert.Len(t, result, 1)
	assert.Equal(t, int64(1), result[0].ID())
}

func TestStringify(t *testing.T) {
	role := "admin"

	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "", Stringify((*string)(nil)))
	assert.Equal(t, "admin", Stringify(&role))
	assert.Equal(t, "42", Stringify(int64(42)))
	assert.Equal(t, "199.5", Stringify(199.5))
	assert.Equal(t, "2026-05-03 09:00", Stringify(time.Date(2026, 5, 3, 9, 0, 0, 0, time.UTC)))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	ent := schema.MustForKind(models.KindAirport)
	before := make([]models.Record, len(airportRows))
	copy(before, airportRows)

	Apply(ent, Set{"Country": {Value: "Россия"}}, "минск", airportRows)

	assert.Equal(t, before, airportRows)
}
