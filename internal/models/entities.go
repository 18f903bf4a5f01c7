package models

import (
	"fmt"
	"time"
)

// Статусы билета
const (
	TicketStatusBooked    = "BOOKED"
	TicketStatusCancelled = "CANCELLED"
	TicketStatusCompleted = "COMPLETED"
)

// Airport - строка таблицы аэропортов
type Airport struct {
	AirportID int64  `json:"AirportID" db:"AirportID"`
	Name      string `json:"Name" db:"Name"`
	City      string `json:"City" db:"City"`
	Country   string `json:"Country" db:"Country"`
	Code      string `json:"Code" db:"Code"`
}

func (a Airport) Kind() Kind { return KindAirport }
func (a Airport) ID() int64  { return a.AirportID }

func (a Airport) Field(name string) (any, bool) {
	switch name {
	case "AirportID":
		return a.AirportID, true
	case "Name":
		return a.Name, true
	case "City":
		return a.City, true
	case "Country":
		return a.Country, true
	case "Code":
		return a.Code, true
	}
	return nil, false
}

// Airline - строка таблицы авиакомпаний
type Airline struct {
	AirlineID int64  `json:"AirlineID" db:"AirlineID"`
	Name      string `json:"Name" db:"Name"`
	Country   string `json:"Country" db:"Country"`
}

func (a Airline) Kind() Kind { return KindAirline }
func (a Airline) ID() int64  { return a.AirlineID }

func (a Airline) Field(name string) (any, bool) {
	switch name {
	case "AirlineID":
		return a.AirlineID, true
	case "Name":
		return a.Name, true
	case "Country":
		return a.Country, true
	}
	return nil, false
}

// Airplane - строка таблицы самолетов; AirlineID ссылается на AIRLINE
type Airplane struct {
	AirplaneID int64  `json:"AirplaneID" db:"AirplaneID"`
	AirlineID  int64  `json:"AirlineID" db:"AirlineID"`
	Model      string `json:"Model" db:"Model"`
	Capacity   int64  `json:"Capacity" db:"Capacity"`
}

func (a Airplane) Kind() Kind { return KindAirplane }
func (a Airplane) ID() int64  { return a.AirplaneID }

func (a Airplane) Field(name string) (any, bool) {
	switch name {
	case "AirplaneID":
		return a.AirplaneID, true
	case "AirlineID":
		return a.AirlineID, true
	case "Model":
		return a.Model, true
	case "Capacity":
		return a.Capacity, true
	}
	return nil, false
}

// Flight - строка таблицы рейсов; ссылается на AIRPLANE и две строки AIRPORT
type Flight struct {
	FlightID           int64     `json:"FlightID" db:"FlightID"`
	AirplaneID         int64     `json:"AirplaneID" db:"AirplaneID"`
	DepartureAirportID int64     `json:"DepartureAirportID" db:"DepartureAirportID"`
	ArrivalAirportID   int64     `json:"ArrivalAirportID" db:"ArrivalAirportID"`
	DepartureTime      time.Time `json:"DepartureTime" db:"DepartureTime"`
	ArrivalTime        time.Time `json:"ArrivalTime" db:"ArrivalTime"`
}

func (f Flight) Kind() Kind { return KindFlight }
func (f Flight) ID() int64  { return f.FlightID }

func (f Flight) Field(name string) (any, bool) {
	switch name {
	case "FlightID":
		return f.FlightID, true
	case "AirplaneID":
		return f.AirplaneID, true
	case "DepartureAirportID":
		return f.DepartureAirportID, true
	case "ArrivalAirportID":
		return f.ArrivalAirportID, true
	case "DepartureTime":
		return f.DepartureTime, true
	case "ArrivalTime":
		return f.ArrivalTime, true
	}
	return nil, false
}

// Ticket - строка таблицы билетов; ссылается на FLIGHT и PASSENGER
type Ticket struct {
	TicketID     int64     `json:"TicketID" db:"TicketID"`
	FlightID     int64     `json:"FlightID" db:"FlightID"`
	PassengerID  int64     `json:"PassengerID" db:"PassengerID"`
	PurchaseDate time.Time `json:"PurchaseDate" db:"PurchaseDate"`
	SeatNumber   string    `json:"SeatNumber" db:"SeatNumber"`
	Price        float64   `json:"Price" db:"Price"`
	Status       string    `json:"Status" db:"Status"`
}

func (t Ticket) Kind() Kind { return KindTicket }
func (t Ticket) ID() int64  { return t.TicketID }

func (t Ticket) Field(name string) (any, bool) {
	switch name {
	case "TicketID":
		return t.TicketID, true
	case "FlightID":
		return t.FlightID, true
	case "PassengerID":
		return t.PassengerID, true
	case "PurchaseDate":
		return t.PurchaseDate, true
	case "SeatNumber":
		return t.SeatNumber, true
	case "Price":
		return t.Price, true
	case "Status":
		return t.Status, true
	}
	return nil, false
}

// Passenger - строка таблицы пассажиров. Role может быть пустым: admin, user или ничего.
type Passenger struct {
	PassengerID    int64     `json:"PassengerID" db:"PassengerID"`
	Gender         string    `json:"Gender" db:"Gender"`
	FirstName      string    `json:"FirstName" db:"FirstName"`
	LastName       string    `json:"LastName" db:"LastName"`
	PassportSeries string    `json:"PassportSeries" db:"PassportSeries"`
	PassportNumber string    `json:"PassportNumber" db:"PassportNumber"`
	DateOfBirth    time.Time `json:"DateOfBirth" db:"DateOfBirth"`
	Phone          string    `json:"Phone" db:"Phone"`
	Email          string    `json:"Email" db:"Email"`
	Role           *string   `json:"Role" db:"Role"`
}

func (p Passenger) Kind() Kind { return KindPassenger }
func (p Passenger) ID() int64  { return p.PassengerID }

func (p Passenger) Field(name string) (any, bool) {
	switch name {
	case "PassengerID":
		return p.PassengerID, true
	case "Gender":
		return p.Gender, true
	case "FirstName":
		return p.FirstName, true
	case "LastName":
		return p.LastName, true
	case "PassportSeries":
		return p.PassportSeries, true
	case "PassportNumber":
		return p.PassportNumber, true
	case "DateOfBirth":
		return p.DateOfBirth, true
	case "Phone":
		return p.Phone, true
	case "Email":
		return p.Email, true
	case "Role":
		return p.Role, true
	}
	return nil, false
}

// OptionLabel возвращает человекочитаемую подпись записи для выпадающих списков
func OptionLabel(r Record) string {
	switch rec := r.(type) {
	case Airport:
		return fmt.Sprintf("%s (%s)", rec.Name, rec.Code)
	case Airline:
		return rec.Name
	case Airplane:
		return rec.Model
	case Flight:
		return fmt.Sprintf("Рейс %d: %s", rec.FlightID, rec.DepartureTime.Format("2006-01-02 15:04"))
	case Ticket:
		return fmt.Sprintf("Билет %d, место %s", rec.TicketID, rec.SeatNumber)
	case Passenger:
		return fmt.Sprintf("%s %s", rec.LastName, rec.FirstName)
	}
	return fmt.Sprintf("%s %d", r.Kind(), r.ID())
}
