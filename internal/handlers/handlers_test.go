package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skydesk/internal/booking"
	"skydesk/internal/dberrors"
	"skydesk/internal/documents"
	"skydesk/internal/grid"
	"skydesk/internal/models"
	"skydesk/internal/schema"
	"skydesk/internal/storage"
)

type fakeAccess struct {
	records map[models.Kind][]models.Record

	createErr error
	updateErr error
	deleteErr error
}

func (f *fakeAccess) FetchAll(_ context.Context, kind models.Kind) ([]models.Record, error) {
	return f.records[kind], nil
}

func (f *fakeAccess) Create(_ context.Context, kind models.Kind, payload map[string]any) (models.Record, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if kind == models.KindTicket {
		return models.Ticket{
			TicketID:     100,
			FlightID:     payload["FlightID"].(int64),
			PassengerID:  payload["PassengerID"].(int64),
			PurchaseDate: payload["PurchaseDate"].(time.Time),
			SeatNumber:   payload["SeatNumber"].(string),
			Price:        payload["Price"].(float64),
			Status:       payload["Status"].(string),
		}, nil
	}
	return models.Airport{AirportID: 100, Name: "Новый", Code: "NEW"}, nil
}

func (f *fakeAccess) Update(_ context.Context, kind models.Kind, id int64, payload map[string]any) (models.Record, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if kind == models.KindTicket {
		status, _ := payload["Status"].(string)
		return models.Ticket{TicketID: id, Status: status}, nil
	}
	return models.Airport{AirportID: id, Name: "Обновлен"}, nil
}

func (f *fakeAccess) Delete(context.Context, models.Kind, int64) error {
	return f.deleteErr
}

func setupRouter(access *fakeAccess) *gin.Engine {
	gin.SetMode(gin.TestMode)

	gridCtrl := grid.NewController(access, grid.DefaultPageSize)
	bookings := booking.NewService(access)
	resolver := documents.NewResolver(access)
	h := NewHandlers(gridCtrl, access, bookings, resolver, nil)

	r := gin.New()
	api := r.Group("/api")
	{
		admin := api.Group("/admin")
		{
			admin.GET("/:entity", h.ShowGrid)
			admin.POST("/:entity", h.CreateRecord)
			admin.GET("/:entity/schema", h.GetGridSchema)
			admin.GET("/:entity/options/:field", h.GetFilterOptions)
			admin.PATCH("/:entity/:id", h.UpdateRecord)
			admin.DELETE("/:entity/:id", h.DeleteRecord)
		}

		bookingsGroup := api.Group("/bookings")
		{
			bookingsGroup.POST("", h.PurchaseTicket)
			bookingsGroup.PATCH("/cancel", h.CancelTicket)
		}

		api.GET("/profile/:passengerID", h.GetProfile)
		api.GET("/tickets/:id/document", h.GetTicketDocument)
	}
	return r
}

func seededAccess() *fakeAccess {
	return &fakeAccess{records: map[models.Kind][]models.Record{
		models.KindAirport: {
			models.Airport{AirportID: 2, Name: "Шереметьево", City: "Москва", Country: "Россия", Code: "SVO"},
			models.Airport{AirportID: 1, Name: "Национальный аэропорт Минск", City: "Минск", Country: "Беларусь", Code: "MSQ"},
		},
		models.KindAirline: {
			models.Airline{AirlineID: 2, Name: "Аэрофлот", Country: "Россия"},
			models.Airline{AirlineID: 1, Name: "Белавиа", Country: "Беларусь"},
		},
		models.KindFlight: {
			models.Flight{FlightID: 3, AirplaneID: 1, DepartureTime: time.Date(2026, 5, 3, 9, 0, 0, 0, time.UTC)},
		},
		models.KindPassenger: {
			models.Passenger{PassengerID: 5, FirstName: "Анна", LastName: "Иванова"},
		},
		models.KindTicket: {
			models.Ticket{TicketID: 8, FlightID: 3, PassengerID: 5, SeatNumber: "11B", Status: models.TicketStatusCompleted},
			models.Ticket{TicketID: 7, FlightID: 3, PassengerID: 5, SeatNumber: "12A", Status: models.TicketStatusBooked},
		},
	}}
}

func doJSON(t *testing.T, r *gin.Engine, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(jsonBody)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestShowGrid(t *testing.T) {
	r := setupRouter(seededAccess())

	w := doJSON(t, r, "GET", "/api/admin/airport", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var view struct {
		Kind  string           `json:"kind"`
		State string           `json:"state"`
		Rows  []map[string]any `json:"rows"`
		Total int              `json:"total"`
		Page  int              `json:"page"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "AIRPORT", view.Kind)
	assert.Equal(t, "ready", view.State)
	assert.Equal(t, 2, view.Total)
	assert.Equal(t, 1, view.Page)
	require.Len(t, view.Rows, 2)
	assert.Equal(t, "Шереметьево", view.Rows[0]["Name"])
}

func TestShowGridWithSearch(t *testing.T) {
	r := setupRouter(seededAccess())

	w := doJSON(t, r, "GET", "/api/admin/airport?search=%D0%BC%D0%B8%D0%BD%D1%81%D0%BA", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var view struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 1, view.Total)
}

func TestShowGridWithFilter(t *testing.T) {
	r := setupRouter(seededAccess())

	w := doJSON(t, r, "GET", "/api/admin/airport?filter[Country]=%D0%A0%D0%BE%D1%81%D1%81%D0%B8%D1%8F", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var view struct {
		Rows []map[string]any `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "SVO", view.Rows[0]["Code"])
}

func TestShowGridUnknownEntity(t *testing.T) {
	r := setupRouter(seededAccess())

	w := doJSON(t, r, "GET", "/api/admin/spaceship", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetGridSchema(t *testing.T) {
	r := setupRouter(seededAccess())

	w := doJSON(t, r, "GET", "/api/admin/flight/schema", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Kind    string   `json:"kind"`
		IDField string   `json:"id_field"`
		Columns []string `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "FLIGHT", body.Kind)
	assert.Equal(t, "FlightID", body.IDField)
	assert.Contains(t, body.Columns, "DepartureTime")
}

func TestGetFilterOptionsStatic(t *testing.T) {
	r := setupRouter(seededAccess())

	w := doJSON(t, r, "GET", "/api/admin/ticket/options/Status", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var options []schema.Option
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &options))
	require.Len(t, options, 3)
	assert.Equal(t, models.TicketStatusBooked, options[0].Value)
}

func TestGetFilterOptionsReference(t *testing.T) {
	r := setupRouter(seededAccess())

	w := doJSON(t, r, "GET", "/api/admin/airplane/options/AirlineID", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var options []schema.Option
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &options))
	require.Len(t, options, 2)
	assert.Equal(t, "2", options[0].Value)
	assert.Equal(t, "Аэрофлот", options[0].Label)
}

func TestGetFilterOptionsUnknownField(t *testing.T) {
	r := setupRouter(seededAccess())

	w := doJSON(t, r, "GET", "/api/admin/airport/options/Name", nil)

	// текстовый фильтр опций не имеет
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRecord(t *testing.T) {
	r := setupRouter(seededAccess())

	w := doJSON(t, r, "POST", "/api/admin/airport", map[string]any{
		"Name": "Новый", "City": "Город", "Country": "Страна", "Code": "NEW",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Record map[string]any `json:"record"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(100), body.Record["AirportID"])
}

func TestCreateRecordDuplicate(t *testing.T) {
	access := seededAccess()
	access.createErr = dberrors.New(dberrors.DuplicateKey, dberrors.MsgDuplicateKey, nil)
	r := setupRouter(access)

	w := doJSON(t, r, "POST", "/api/admin/airport", map[string]any{"Code": "MSQ"})

	assert.Equal(t, http.StatusConflict, w.Code)

	var body struct {
		Error  string `json:"error"`
		Record any    `json:"record"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, dberrors.MsgDuplicateKey, body.Error)
	assert.Nil(t, body.Record)
}

func TestUpdateRecord(t *testing.T) {
	r := setupRouter(seededAccess())

	w := doJSON(t, r, "PATCH", "/api/admin/airport/1", map[string]any{"Name": "Обновлен"})

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Record map[string]any `json:"record"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Обновлен", body.Record["Name"])
}

func TestUpdateRecordInvalidID(t *testing.T) {
	r := setupRouter(seededAccess())

	w := doJSON(t, r, "PATCH", "/api/admin/airport/abc", map[string]any{"Name": "x"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteRecord(t *testing.T) {
	r := setupRouter(seededAccess())

	w := doJSON(t, r, "DELETE", "/api/admin/airport/1", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
}

func TestDeleteRecordMissing(t *testing.T) {
	access := seededAccess()
	access.deleteErr = dberrors.New(dberrors.StoreError, "Запись не найдена", storage.ErrNotFound)
	r := setupRouter(access)

	w := doJSON(t, r, "DELETE", "/api/admin/airport/404", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Запись не найдена", body.Error)
}

func TestPurchaseTicket(t *testing.T) {
	r := setupRouter(seededAccess())

	w := doJSON(t, r, "POST", "/api/bookings", models.PurchaseTicketRequest{
		FlightID:    3,
		PassengerID: 5,
		SeatNumber:  "14C",
		Price:       250,
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Ticket models.Ticket `json:"ticket"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.TicketStatusBooked, body.Ticket.Status)
	assert.Equal(t, "14C", body.Ticket.SeatNumber)
}

func TestPurchaseTicketMissingFields(t *testing.T) {
	r := setupRouter(seededAccess())

	w := doJSON(t, r, "POST", "/api/bookings", map[string]any{"flight_id": 3})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelTicket(t *testing.T) {
	r := setupRouter(seededAccess())

	w := doJSON(t, r, "PATCH", "/api/bookings/cancel", models.CancelTicketRequest{TicketID: 7})

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Ticket models.Ticket `json:"ticket"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.TicketStatusCancelled, body.Ticket.Status)
}

func TestCancelCompletedTicket(t *testing.T) {
	r := setupRouter(seededAccess())

	w := doJSON(t, r, "PATCH", "/api/bookings/cancel", models.CancelTicketRequest{TicketID: 8})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelUnknownTicket(t *testing.T) {
	r := setupRouter(seededAccess())

	w := doJSON(t, r, "PATCH", "/api/bookings/cancel", models.CancelTicketRequest{TicketID: 404})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProfile(t *testing.T) {
	r := setupRouter(seededAccess())

	w := doJSON(t, r, "GET", "/api/profile/5", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var profile models.ProfileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "Иванова", profile.Passenger.LastName)
	require.Len(t, profile.Tickets, 2)
	assert.Equal(t, int64(8), profile.Tickets[0].TicketID)
	assert.Equal(t, int64(7), profile.Tickets[1].TicketID)
}

func TestGetProfileUnknownPassenger(t *testing.T) {
	r := setupRouter(seededAccess())

	w := doJSON(t, r, "GET", "/api/profile/404", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTicketDocument(t *testing.T) {
	r := setupRouter(seededAccess())

	w := doJSON(t, r, "GET", "/api/tickets/7/document", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var doc documents.TicketDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, int64(7), doc.Ticket.TicketID)
	assert.Equal(t, int64(5), doc.Passenger.PassengerID)
	assert.Equal(t, int64(3), doc.Flight.FlightID)
}

func TestGetTicketDocumentMissing(t *testing.T) {
	r := setupRouter(seededAccess())

	w := doJSON(t, r, "GET", "/api/tickets/404/document", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateRecordMissing(t *testing.T) {
	access := seededAccess()
	access.updateErr = dberrors.New(dberrors.StoreError, "Запись не найдена", storage.ErrNotFound)
	r := setupRouter(access)

	w := doJSON(t, r, "PATCH", "/api/admin/airport/404", map[string]any{"Name": "x"})

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Запись не найдена", body.Error)
}
