package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm/clause"

	"infinite-experiment/flightdeck/internal/common"
	"infinite-experiment/flightdeck/internal/config"
	"infinite-experiment/flightdeck/internal/constants"
	"infinite-experiment/flightdeck/internal/db"
	"infinite-experiment/flightdeck/internal/metrics"
	"infinite-experiment/flightdeck/internal/middleware"
	gormModels "infinite-experiment/flightdeck/internal/models/gorm"
)

const (
	operatorKey  = "op-key"
	passengerKey = "pax-key"
)

type testServer struct {
	handler   http.Handler
	route     gormModels.RouteTemplate
	gate      gormModels.Gate
	passenger gormModels.Passenger
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Database:  config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"},
		RateLimit: config.RateLimitConfig{RPS: 100, Burst: 100},
		Cache:     config.CacheConfig{RouteTTL: time.Minute},
	}

	gormDB, err := db.InitORM(cfg.Database)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	sqlDB, err := db.InitSQL(cfg.Database, gormDB)
	if err != nil {
		t.Fatalf("Failed to wrap sqlx: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	seed := func(v interface{}) {
		if err := gormDB.Omit(clause.Associations).Create(v).Error; err != nil {
			t.Fatalf("Failed to seed %T: %v", v, err)
		}
	}

	airline := gormModels.Airline{Name: "Thai Skyways", IATACode: "TS"}
	seed(&airline)
	bkk := gormModels.Airport{IATACode: "BKK", Name: "Suvarnabhumi"}
	seed(&bkk)
	cnx := gormModels.Airport{IATACode: "CNX", Name: "Chiang Mai"}
	seed(&cnx)

	srv := &testServer{}
	srv.route = gormModels.RouteTemplate{
		FlightNo: "TS101", AirlineID: airline.ID, OriginAirportID: bkk.ID,
		DestinationAirportID: cnx.ID, DurationMinutes: 120, Status: constants.RouteActive,
	}
	seed(&srv.route)
	srv.gate = gormModels.Gate{AirportID: bkk.ID, Code: "A1", Status: constants.GateActive}
	seed(&srv.gate)
	srv.passenger = gormModels.Passenger{FirstName: "Somchai", LastName: "Test", Email: "somchai@example.com"}
	seed(&srv.passenger)

	seed(&gormModels.APIKey{Key: operatorKey, Status: true, AccountID: "ops", Role: constants.RoleOperator})
	seed(&gormModels.APIKey{Key: passengerKey, Status: true, AccountID: fmt.Sprint(srv.passenger.ID), Role: constants.RolePassenger})

	reg := prometheus.NewRegistry()
	deps := InitDependencies(cfg, gormDB, sqlDB, common.NewCacheService(time.Minute, time.Minute), metrics.NewMetricsRegistry(reg))
	handlers := NewHandlers(deps)

	// Mirror the production route table
	r := chi.NewRouter()
	r.Get("/healthCheck", HealthCheckHandler(deps.SQL, deps.Services.Cache, time.Now()))
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.AuthMiddleware("", deps.Repo.Keys))
		v1.Get("/routes/{id}", handlers.GetRoute())
		v1.Get("/instances/search", handlers.ListInstances())
		v1.Get("/instances/{id}/gate-options", handlers.GateOptions())
		v1.Group(func(ops chi.Router) {
			ops.Use(middleware.IsOperatorMiddleware())
			ops.Post("/routes", handlers.CreateRoute())
			ops.Post("/instances", handlers.CreateInstance())
			ops.Put("/instances/{id}", handlers.UpdateInstanceStatus())
			ops.Put("/instances/{id}/gate", handlers.ReassignGate())
		})
		v1.Post("/bookings", handlers.CreateBooking())
		v1.Get("/bookings", handlers.ListBookings())
		v1.Patch("/bookings/{id}/status", handlers.UpdateBookingStatus())
	})
	srv.handler = r

	return srv
}

func (s *testServer) do(t *testing.T, method, path, key string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Response is not an envelope: %v (%s)", err, rec.Body.String())
	}
	return rec.Code, env
}

func (s *testServer) createInstance(t *testing.T, dep, arr time.Time) (int, envelope) {
	return s.do(t, http.MethodPost, "/api/v1/instances", operatorKey, map[string]any{
		"route_id":           s.route.ID,
		"departure_datetime": dep,
		"arrival_datetime":   arr,
		"price":              1800,
	})
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("Failed to decode data: %v (%s)", err, string(env.Data))
	}
	return out
}

var base = time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC)

func TestCreateInstanceAndGateExhaustion(t *testing.T) {
	srv := setupServer(t)

	code, env := srv.createInstance(t, base.Add(10*time.Hour), base.Add(12*time.Hour))
	if code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", code, env.Message)
	}
	created := decodeData[struct {
		Instance struct {
			InstanceID int64  `json:"instance_id"`
			FlightNo   string `json:"flight_no"`
		} `json:"instance"`
		Gate *struct {
			GateCode string `json:"gate_code"`
		} `json:"gate"`
	}](t, env)
	if created.Instance.FlightNo != "TS101" || created.Gate == nil || created.Gate.GateCode != "A1" {
		t.Errorf("Unexpected create payload: %s", string(env.Data))
	}

	code, env = srv.createInstance(t, base.Add(10*time.Hour), base.Add(12*time.Hour))
	if code != http.StatusConflict {
		t.Fatalf("Expected 409 when the only gate is taken, got %d", code)
	}
	conflict := decodeData[struct {
		Code     string `json:"code"`
		Instance struct {
			InstanceID int64 `json:"instance_id"`
		} `json:"instance"`
	}](t, env)
	if conflict.Code != constants.ErrCodeNoGateAvailable || conflict.Instance.InstanceID == 0 {
		t.Errorf("Expected stored instance and NO_GATE_AVAILABLE, got %s", string(env.Data))
	}
}

func TestCreateInstanceValidationAndAccess(t *testing.T) {
	srv := setupServer(t)

	code, _ := srv.do(t, http.MethodPost, "/api/v1/instances", operatorKey, map[string]any{"route_id": srv.route.ID})
	if code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing fields, got %d", code)
	}

	code, _ = srv.do(t, http.MethodPost, "/api/v1/instances", operatorKey, map[string]any{"bogus": true})
	if code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown field, got %d", code)
	}

	code, _ = srv.do(t, http.MethodPost, "/api/v1/instances", passengerKey, map[string]any{})
	if code != http.StatusForbidden {
		t.Errorf("Expected 403 for passenger, got %d", code)
	}

	code, _ = srv.do(t, http.MethodPost, "/api/v1/instances", "", map[string]any{})
	if code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without credentials, got %d", code)
	}
}

func TestUpdateInstanceStatus(t *testing.T) {
	srv := setupServer(t)
	_, env := srv.createInstance(t, base.Add(10*time.Hour), base.Add(12*time.Hour))
	id := decodeData[struct {
		Instance struct {
			InstanceID int64 `json:"instance_id"`
		} `json:"instance"`
	}](t, env).Instance.InstanceID
	path := fmt.Sprintf("/api/v1/instances/%d", id)

	code, _ := srv.do(t, http.MethodPut, path, operatorKey, map[string]any{"status": "delayed"})
	if code != http.StatusBadRequest {
		t.Errorf("Expected 400 for delayed without minutes, got %d", code)
	}

	srv.do(t, http.MethodPut, path, operatorKey, map[string]any{"status": "delayed", "delayed_minutes": 20})
	code, env = srv.do(t, http.MethodPut, path, operatorKey, map[string]any{"status": "delayed", "delayed_minutes": 45})
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", code, env.Message)
	}
	got := decodeData[struct {
		Arrival time.Time `json:"arrival_datetime"`
	}](t, env)
	if !got.Arrival.Equal(base.Add(12*time.Hour + 45*time.Minute)) {
		t.Errorf("Expected arrival 12:45, got %s", got.Arrival)
	}

	code, _ = srv.do(t, http.MethodPut, "/api/v1/instances/999", operatorKey, map[string]any{"status": "on-time"})
	if code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", code)
	}

	srv.do(t, http.MethodPut, path, operatorKey, map[string]any{"status": "cancelled"})
	code, _ = srv.do(t, http.MethodPut, path, operatorKey, map[string]any{"status": "on-time"})
	if code != http.StatusConflict {
		t.Errorf("Expected 409 leaving cancelled, got %d", code)
	}
}

func TestGateEndpoints(t *testing.T) {
	srv := setupServer(t)
	_, env := srv.createInstance(t, base.Add(10*time.Hour), base.Add(12*time.Hour))
	id := decodeData[struct {
		Instance struct {
			InstanceID int64 `json:"instance_id"`
		} `json:"instance"`
	}](t, env).Instance.InstanceID

	code, env := srv.do(t, http.MethodGet, fmt.Sprintf("/api/v1/instances/%d/gate-options", id), passengerKey, nil)
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	opts := decodeData[struct {
		CurrentGateID *int64 `json:"current_gate_id"`
		Gates         []struct {
			IsAvailable bool `json:"is_available"`
		} `json:"gates"`
	}](t, env)
	if opts.CurrentGateID == nil || *opts.CurrentGateID != srv.gate.ID || len(opts.Gates) != 1 || !opts.Gates[0].IsAvailable {
		t.Errorf("Unexpected gate options: %s", string(env.Data))
	}

	path := fmt.Sprintf("/api/v1/instances/%d/gate", id)
	if code, _ := srv.do(t, http.MethodPut, path, operatorKey, map[string]any{"gate_id": srv.gate.ID}); code != http.StatusOK {
		t.Errorf("Expected reconfirming the same gate to succeed, got %d", code)
	}
	if code, _ := srv.do(t, http.MethodPut, path, operatorKey, map[string]any{"gate_id": 999}); code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown gate, got %d", code)
	}
	if code, _ := srv.do(t, http.MethodPut, path, operatorKey, map[string]any{}); code != http.StatusBadRequest {
		t.Errorf("Expected 400 without gate_id, got %d", code)
	}
}

func TestBookingEndpoints(t *testing.T) {
	srv := setupServer(t)
	_, env := srv.createInstance(t, base.Add(10*time.Hour), base.Add(12*time.Hour))
	id := decodeData[struct {
		Instance struct {
			InstanceID int64 `json:"instance_id"`
		} `json:"instance"`
	}](t, env).Instance.InstanceID

	body := map[string]any{"passenger_id": srv.passenger.ID, "instance_id": id, "seat": "1A"}

	code, env := srv.do(t, http.MethodPost, "/api/v1/bookings", passengerKey, body)
	if code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", code, env.Message)
	}
	ticket := decodeData[struct {
		TicketID int64  `json:"ticket_id"`
		Status   string `json:"status"`
	}](t, env)

	code, env = srv.do(t, http.MethodPost, "/api/v1/bookings", passengerKey, body)
	if code != http.StatusConflict {
		t.Fatalf("Expected 409 on duplicate, got %d", code)
	}
	dup := decodeData[struct {
		Code     string `json:"code"`
		Conflict struct {
			ConflictingTicketID int64     `json:"conflicting_ticket_id"`
			Departure           time.Time `json:"departure"`
			Arrival             time.Time `json:"arrival"`
		} `json:"conflict"`
	}](t, env)
	if dup.Code != constants.ErrCodeAlreadyBooked || dup.Conflict.ConflictingTicketID != ticket.TicketID {
		t.Errorf("Unexpected conflict payload: %s", string(env.Data))
	}

	// Passengers cannot book for someone else
	other := map[string]any{"passenger_id": srv.passenger.ID + 100, "instance_id": id}
	if code, _ := srv.do(t, http.MethodPost, "/api/v1/bookings", passengerKey, other); code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", code)
	}
	// Operators can, and get 404 for an unknown passenger
	if code, _ := srv.do(t, http.MethodPost, "/api/v1/bookings", operatorKey, other); code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", code)
	}

	statusPath := fmt.Sprintf("/api/v1/bookings/%d/status", ticket.TicketID)
	code, env = srv.do(t, http.MethodPatch, statusPath, passengerKey, map[string]any{"status": "checked-in"})
	if code != http.StatusOK || decodeData[struct {
		Status string `json:"status"`
	}](t, env).Status != "checked-in" {
		t.Errorf("Expected checked-in, got %d %s", code, string(env.Data))
	}
	if code, _ := srv.do(t, http.MethodPatch, statusPath, passengerKey, map[string]any{"status": "lost"}); code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", code)
	}
	if code, _ := srv.do(t, http.MethodPatch, "/api/v1/bookings/999/status", operatorKey, map[string]any{"status": "cancelled"}); code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", code)
	}

	code, env = srv.do(t, http.MethodGet, fmt.Sprintf("/api/v1/bookings?passenger_id=%d", srv.passenger.ID), passengerKey, nil)
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if n := len(decodeData[[]json.RawMessage](t, env)); n != 1 {
		t.Errorf("Expected 1 ticket, got %d", n)
	}
	if code, _ := srv.do(t, http.MethodGet, "/api/v1/bookings", passengerKey, nil); code != http.StatusForbidden {
		t.Errorf("Expected 403 for passenger listing everyone, got %d", code)
	}
}

func TestRoutesAndSearch(t *testing.T) {
	srv := setupServer(t)

	code, env := srv.do(t, http.MethodPost, "/api/v1/routes", operatorKey, map[string]any{
		"flight_no": "TS101", "airline_id": srv.route.AirlineID, "origin_airport_id": srv.route.OriginAirportID,
		"destination_airport_id": srv.route.DestinationAirportID, "duration_minutes": 60,
	})
	if code != http.StatusConflict {
		t.Errorf("Expected 409 for duplicate flight number, got %d: %s", code, env.Message)
	}

	code, env = srv.do(t, http.MethodGet, fmt.Sprintf("/api/v1/routes/%d", srv.route.ID), passengerKey, nil)
	if code != http.StatusOK || decodeData[struct {
		FlightNo string `json:"flight_no"`
	}](t, env).FlightNo != "TS101" {
		t.Errorf("Expected route TS101, got %d %s", code, string(env.Data))
	}
	if code, _ := srv.do(t, http.MethodGet, "/api/v1/routes/abc", passengerKey, nil); code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad id, got %d", code)
	}

	srv.createInstance(t, base.Add(10*time.Hour), base.Add(12*time.Hour))
	code, env = srv.do(t, http.MethodGet, fmt.Sprintf("/api/v1/instances/search?origin_airport_id=%d&departure_date=2030-02-01", srv.route.OriginAirportID), passengerKey, nil)
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if n := len(decodeData[[]json.RawMessage](t, env)); n != 1 {
		t.Errorf("Expected 1 instance, got %d", n)
	}
	if code, _ := srv.do(t, http.MethodGet, "/api/v1/instances/search?departure_date=tomorrow", passengerKey, nil); code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad date, got %d", code)
	}
}

func TestHealthCheck(t *testing.T) {
	srv := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthCheck", nil)
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Status   string `json:"status"`
		Services map[string]struct {
			Status string `json:"status"`
		} `json:"services"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body.Status != "ok" || body.Services["database"].Status != "ok" || body.Services["cache"].Status != "ok" {
		t.Errorf("Unexpected health: %s", rec.Body.String())
	}
}
