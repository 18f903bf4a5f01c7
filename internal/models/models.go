package models

// PurchaseTicketRequest - модель покупки билета
type PurchaseTicketRequest struct {
	FlightID    int64   `json:"flight_id" binding:"required"`
	PassengerID int64   `json:"passenger_id" binding:"required"`
	SeatNumber  string  `json:"seat_number" binding:"required"`
	Price       float64 `json:"price" binding:"required"`
}

// CancelTicketRequest - модель отмены билета
type CancelTicketRequest struct {
	TicketID int64 `json:"ticket_id" binding:"required"`
}

// ProfileResponse - профиль пассажира с его билетами
type ProfileResponse struct {
	Passenger Passenger `json:"passenger"`
	Tickets   []Ticket  `json:"tickets"`
}
