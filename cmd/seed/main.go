package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"skydesk/internal/access"
	"skydesk/internal/config"
	"skydesk/internal/database"
	"skydesk/internal/logger"
	"skydesk/internal/models"
	"skydesk/internal/notify"
	"skydesk/internal/storage"
)

var (
	clearExisting = flag.Bool("clear", false, "Clear existing records before seeding")
	passengers    = flag.Int("passengers", 20, "Number of passengers to generate")
	dryRun        = flag.Bool("dry-run", false, "Show what would be generated without making changes")
)

type Seeder struct {
	db     *database.DB
	access access.EntityAccess
}

func main() {
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, "text")

	slog.Info("Starting seeder...")

	db, err := database.Connect(cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	store := storage.NewSQLStore(db)
	seeder := &Seeder{
		db:     db,
		access: access.NewService(store, notify.NewSlogNotifier()),
	}

	if err := seeder.Run(context.Background()); err != nil {
		slog.Error("Seeding failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Seeding completed successfully!")
}

func (s *Seeder) Run(ctx context.Context) error {
	if *dryRun {
		slog.Info("[DRY RUN] Would seed reference data",
			"airports", len(airportSeed), "airlines", len(airlineSeed), "passengers", *passengers)
		return nil
	}

	if *clearExisting {
		if err := s.clear(); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	airportIDs, err := s.seedAirports(ctx)
	if err != nil {
		return err
	}

	airlineIDs, err := s.seedAirlines(ctx)
	if err != nil {
		return err
	}

	airplaneIDs, err := s.seedAirplanes(ctx, airlineIDs)
	if err != nil {
		return err
	}

	flightIDs, err := s.seedFlights(ctx, airplaneIDs, airportIDs)
	if err != nil {
		return err
	}

	passengerIDs, err := s.seedPassengers(ctx)
	if err != nil {
		return err
	}

	return s.seedTickets(ctx, flightIDs, passengerIDs)
}

// clear удаляет данные в порядке, обратном зависимостям
func (s *Seeder) clear() error {
	for _, table := range []string{"TICKET", "FLIGHT", "AIRPLANE", "PASSENGER", "AIRLINE", "AIRPORT"} {
		if _, err := s.db.Exec(fmt.Sprintf(`DELETE FROM %q`, table)); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
		slog.Info("Cleared table", "table", table)
	}
	return nil
}

var airportSeed = []map[string]any{
	{"Name": "Национальный аэропорт Минск", "City": "Минск", "Country": "Беларусь", "Code": "MSQ"},
	{"Name": "Шереметьево", "City": "Москва", "Country": "Россия", "Code": "SVO"},
	{"Name": "Пулково", "City": "Санкт-Петербург", "Country": "Россия", "Code": "LED"},
	{"Name": "Алматы", "City": "Алматы", "Country": "Казахстан", "Code": "ALA"},
	{"Name": "Ататюрк", "City": "Стамбул", "Country": "Турция", "Code": "IST"},
}

var airlineSeed = []map[string]any{
	{"Name": "Белавиа", "Country": "Беларусь"},
	{"Name": "Аэрофлот", "Country": "Россия"},
	{"Name": "Air Astana", "Country": "Казахстан"},
	{"Name": "Turkish Airlines", "Country": "Турция"},
}

var airplaneModels = []struct {
	Model    string
	Capacity int
}{
	{"Boeing 737-800", 189},
	{"Airbus A320", 180},
	{"Embraer E195", 124},
	{"Boeing 777-300ER", 402},
}

func (s *Seeder) seedAirports(ctx context.Context) ([]int64, error) {
	return s.insertAll(ctx, models.KindAirport, airportSeed)
}

func (s *Seeder) seedAirlines(ctx context.Context) ([]int64, error) {
	return s.insertAll(ctx, models.KindAirline, airlineSeed)
}

func (s *Seeder) seedAirplanes(ctx context.Context, airlineIDs []int64) ([]int64, error) {
	payloads := make([]map[string]any, 0, len(airlineIDs)*2)
	for _, airlineID := range airlineIDs {
		for i := 0; i < 2; i++ {
			plane := airplaneModels[rand.Intn(len(airplaneModels))]
			payloads = append(payloads, map[string]any{
				"AirlineID": airlineID,
				"Model":     plane.Model,
				"Capacity":  plane.Capacity,
			})
		}
	}
	return s.insertAll(ctx, models.KindAirplane, payloads)
}

func (s *Seeder) seedFlights(ctx context.Context, airplaneIDs, airportIDs []int64) ([]int64, error) {
	payloads := make([]map[string]any, 0, len(airplaneIDs)*3)
	for _, airplaneID := range airplaneIDs {
		for i := 0; i < 3; i++ {
			from := airportIDs[rand.Intn(len(airportIDs))]
			to := airportIDs[rand.Intn(len(airportIDs))]
			for to == from {
				to = airportIDs[rand.Intn(len(airportIDs))]
			}

			departure := time.Now().UTC().Truncate(time.Hour).Add(time.Duration(rand.Intn(30*24)) * time.Hour)
			payloads = append(payloads, map[string]any{
				"AirplaneID":         airplaneID,
				"DepartureAirportID": from,
				"ArrivalAirportID":   to,
				"DepartureTime":      departure,
				"ArrivalTime":        departure.Add(time.Duration(rand.Intn(300)+60) * time.Minute),
			})
		}
	}
	return s.insertAll(ctx, models.KindFlight, payloads)
}

var firstNames = []string{"Иван", "Петр", "Анна", "Мария", "Алексей", "Ольга", "Дмитрий", "Елена"}
var lastNames = []string{"Иванов", "Петров", "Сидоров", "Кузнецов", "Смирнов", "Попов", "Волков", "Козлов"}

func (s *Seeder) seedPassengers(ctx context.Context) ([]int64, error) {
	payloads := make([]map[string]any, 0, *passengers)
	for i := 0; i < *passengers; i++ {
		gender := "Male"
		if rand.Intn(2) == 0 {
			gender = "Female"
		}

		lastName := lastNames[rand.Intn(len(lastNames))]
		if gender == "Female" {
			lastName += "а"
		}

		payloads = append(payloads, map[string]any{
			"Gender":         gender,
			"FirstName":      firstNames[rand.Intn(len(firstNames))],
			"LastName":       lastName,
			"PassportSeries": fmt.Sprintf("MP%d", rand.Intn(90)+10),
			"PassportNumber": fmt.Sprintf("%07d", rand.Intn(10000000)),
			"DateOfBirth":    time.Date(1950+rand.Intn(55), time.Month(rand.Intn(12)+1), rand.Intn(28)+1, 0, 0, 0, 0, time.UTC),
			"Phone":          fmt.Sprintf("+37529%07d", rand.Intn(10000000)),
			"Email":          fmt.Sprintf("passenger%d@example.com", i+1),
			"Role":           "user",
		})
	}
	return s.insertAll(ctx, models.KindPassenger, payloads)
}

func (s *Seeder) seedTickets(ctx context.Context, flightIDs, passengerIDs []int64) error {
	statuses := []string{models.TicketStatusBooked, models.TicketStatusCancelled, models.TicketStatusCompleted}

	for _, passengerID := range passengerIDs {
		tickets := rand.Intn(3)
		for i := 0; i < tickets; i++ {
			payload := map[string]any{
				"FlightID":     flightIDs[rand.Intn(len(flightIDs))],
				"PassengerID":  passengerID,
				"PurchaseDate": time.Now().UTC().Add(-time.Duration(rand.Intn(60*24)) * time.Hour),
				"SeatNumber":   fmt.Sprintf("%d%c", rand.Intn(30)+1, 'A'+rune(rand.Intn(6))),
				"Price":        float64(rand.Intn(400)+50) * 10,
				"Status":       statuses[rand.Intn(len(statuses))],
			}
			if _, err := s.access.Create(ctx, models.KindTicket, payload); err != nil {
				// конфликт места на рейсе, просто пропускаем
				slog.Warn("Skipped ticket", "passenger_id", passengerID, "error", err)
			}
		}
	}
	return nil
}

func (s *Seeder) insertAll(ctx context.Context, kind models.Kind, payloads []map[string]any) ([]int64, error) {
	ids := make([]int64, 0, len(payloads))
	for _, payload := range payloads {
		record, err := s.access.Create(ctx, kind, payload)
		if err != nil {
			return nil, fmt.Errorf("failed to seed %s: %w", kind.Subject(), err)
		}
		ids = append(ids, record.ID())
	}
	slog.Info("Seeded records", "kind", kind, "count", len(ids))
	return ids, nil
}
