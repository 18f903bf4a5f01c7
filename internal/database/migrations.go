package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createAirportTable,
		createAirlineTable,
		createAirplaneTable,
		createFlightTable,
		createPassengerTable,
		createTicketTable,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

// Имена таблиц и колонок совпадают с именами сущностей и полей в реестре схем,
// поэтому везде используются кавычки.

const createAirportTable = `
CREATE TABLE IF NOT EXISTS "AIRPORT" (
    "AirportID" SERIAL PRIMARY KEY,
    "Name" VARCHAR(255) NOT NULL,
    "City" VARCHAR(100) NOT NULL,
    "Country" VARCHAR(100) NOT NULL,
    "Code" VARCHAR(10) NOT NULL UNIQUE
);`

const createAirlineTable = `
CREATE TABLE IF NOT EXISTS "AIRLINE" (
    "AirlineID" SERIAL PRIMARY KEY,
    "Name" VARCHAR(255) NOT NULL UNIQUE,
    "Country" VARCHAR(100) NOT NULL
);`

const createAirplaneTable = `
CREATE TABLE IF NOT EXISTS "AIRPLANE" (
    "AirplaneID" SERIAL PRIMARY KEY,
    "AirlineID" INTEGER NOT NULL REFERENCES "AIRLINE"("AirlineID"),
    "Model" VARCHAR(100) NOT NULL,
    "Capacity" INTEGER NOT NULL CHECK ("Capacity" > 0)
);`

const createFlightTable = `
CREATE TABLE IF NOT EXISTS "FLIGHT" (
    "FlightID" SERIAL PRIMARY KEY,
    "AirplaneID" INTEGER NOT NULL REFERENCES "AIRPLANE"("AirplaneID"),
    "DepartureAirportID" INTEGER NOT NULL REFERENCES "AIRPORT"("AirportID"),
    "ArrivalAirportID" INTEGER NOT NULL REFERENCES "AIRPORT"("AirportID"),
    "DepartureTime" TIMESTAMP NOT NULL,
    "ArrivalTime" TIMESTAMP NOT NULL
);`

const createPassengerTable = `
CREATE TABLE IF NOT EXISTS "PASSENGER" (
    "PassengerID" SERIAL PRIMARY KEY,
    "Gender" VARCHAR(10) NOT NULL CHECK ("Gender" IN ('Male', 'Female')),
    "FirstName" VARCHAR(100) NOT NULL,
    "LastName" VARCHAR(100) NOT NULL,
    "PassportSeries" VARCHAR(10) NOT NULL,
    "PassportNumber" VARCHAR(20) NOT NULL,
    "DateOfBirth" DATE NOT NULL,
    "Phone" VARCHAR(20) NOT NULL,
    "Email" VARCHAR(255) NOT NULL UNIQUE,
    "Role" VARCHAR(20) CHECK ("Role" IN ('admin', 'user')),

    UNIQUE ("PassportSeries", "PassportNumber")
);`

const createTicketTable = `
CREATE TABLE IF NOT EXISTS "TICKET" (
    "TicketID" SERIAL PRIMARY KEY,
    "FlightID" INTEGER NOT NULL REFERENCES "FLIGHT"("FlightID"),
    "PassengerID" INTEGER NOT NULL REFERENCES "PASSENGER"("PassengerID"),
    "PurchaseDate" TIMESTAMP NOT NULL DEFAULT NOW(),
    "SeatNumber" VARCHAR(10) NOT NULL,
    "Price" DECIMAL(10,2) NOT NULL,
    "Status" VARCHAR(20) NOT NULL DEFAULT 'BOOKED' CHECK ("Status" IN ('BOOKED', 'CANCELLED', 'COMPLETED')),

    UNIQUE ("FlightID", "SeatNumber")
);`
