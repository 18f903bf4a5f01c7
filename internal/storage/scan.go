package storage

import (
	"database/sql"
	"fmt"

	"skydesk/internal/models"
)

// rowScanner покрывает *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord читает одну строку таблицы в запись соответствующей сущности.
// Порядок колонок фиксирован реестром схем.
func scanRecord(kind models.Kind, row rowScanner) (models.Record, error) {
	switch kind {
	case models.KindAirport:
		var a models.Airport
		if err := row.Scan(&a.AirportID, &a.Name, &a.City, &a.Country, &a.Code); err != nil {
			return nil, err
		}
		return a, nil

	case models.KindAirline:
		var a models.Airline
		if err := row.Scan(&a.AirlineID, &a.Name, &a.Country); err != nil {
			return nil, err
		}
		return a, nil

	case models.KindAirplane:
		var a models.Airplane
		if err := row.Scan(&a.AirplaneID, &a.AirlineID, &a.Model, &a.Capacity); err != nil {
			return nil, err
		}
		return a, nil

	case models.KindFlight:
		var f models.Flight
		if err := row.Scan(&f.FlightID, &f.AirplaneID, &f.DepartureAirportID, &f.ArrivalAirportID,
			&f.DepartureTime, &f.ArrivalTime); err != nil {
			return nil, err
		}
		return f, nil

	case models.KindTicket:
		var t models.Ticket
		if err := row.Scan(&t.TicketID, &t.FlightID, &t.PassengerID, &t.PurchaseDate,
			&t.SeatNumber, &t.Price, &t.Status); err != nil {
			return nil, err
		}
		return t, nil

	case models.KindPassenger:
		var p models.Passenger
		var role sql.NullString
		if err := row.Scan(&p.PassengerID, &p.Gender, &p.FirstName, &p.LastName,
			&p.PassportSeries, &p.PassportNumber, &p.DateOfBirth, &p.Phone, &p.Email, &role); err != nil {
			return nil, err
		}
		if role.Valid {
			p.Role = &role.String
		}
		return p, nil
	}

	return nil, fmt.Errorf("unknown entity kind %q", kind)
}
