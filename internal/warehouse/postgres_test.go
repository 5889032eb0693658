package warehouse

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"
)

// setupTestPostgres creates a test database connection with a fresh schema.
// Returns nil if no PostgreSQL server is available.
func setupTestPostgres(t *testing.T) *PostgresDB {
	t.Helper()

	cfg := DefaultConfig().Postgres
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Password = v
	}

	ctx := context.Background()
	pg, err := OpenPostgres(ctx, cfg)
	if err != nil {
		return nil
	}

	// Rebuild the schema so each run starts clean.
	if err := pg.DropSchema(ctx); err != nil {
		_ = pg.Close()
		return nil
	}
	if err := pg.CreateSchema(ctx); err != nil {
		_ = pg.Close()
		return nil
	}
	return pg
}

func TestPostgresWarehouseRoundTrip(t *testing.T) {
	pg := setupTestPostgres(t)
	if pg == nil {
		t.Skip("No PostgreSQL connection available")
	}
	defer func() { _ = pg.Close() }()

	ctx := context.Background()
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	if err := pg.InsertDate(ctx, DateFromTime(day)); err != nil {
		t.Fatalf("insert date: %v", err)
	}
	if err := pg.InsertAirport(ctx, Airport{AirportID: "JFK", Name: "John F. Kennedy International"}); err != nil {
		t.Fatalf("insert airport: %v", err)
	}
	if err := pg.InsertAirline(ctx, Airline{AirlineID: "AA", AirlineName: "American Airlines"}); err != nil {
		t.Fatalf("insert airline: %v", err)
	}

	weatherID, err := pg.InsertWeather(ctx, WeatherObservation{
		AirportID: "JFK",
		DateID:    20240115,
		TAvg:      f64Ptr(-2.5),
	})
	if err != nil {
		t.Fatalf("insert weather: %v", err)
	}

	flightID, err := pg.InsertFlight(ctx, Flight{
		FlightDateID: 20240115,
		DepAirportID: "JFK",
		AirlineID:    "AA",
		DepDelayMin:  f64Ptr(22),
		IsDelayed15:  true,
	})
	if err != nil {
		t.Fatalf("insert flight: %v", err)
	}

	n, err := pg.LinkFlightWeather(ctx)
	if err != nil {
		t.Fatalf("link flight weather: %v", err)
	}
	if n != 1 {
		t.Errorf("linked rows = %d, want 1", n)
	}

	got, err := pg.GetFlight(ctx, flightID)
	if err != nil {
		t.Fatalf("get flight: %v", err)
	}
	if got == nil {
		t.Fatal("expected flight row, got nil")
	}
	if got.WeatherID == nil || *got.WeatherID != weatherID {
		t.Errorf("weather_id = %v, want %d", got.WeatherID, weatherID)
	}
	if got.DepDelayMin == nil || *got.DepDelayMin != 22 {
		t.Errorf("dep_delay_min = %v, want 22", got.DepDelayMin)
	}
	if got.Cancelled || got.Diverted {
		t.Errorf("cancelled/diverted = %v/%v, want false/false", got.Cancelled, got.Diverted)
	}

	gotDate, err := pg.GetDate(ctx, 20240115)
	if err != nil {
		t.Fatalf("get date: %v", err)
	}
	if gotDate == nil || !gotDate.FullDate.Equal(day) {
		t.Errorf("full_date = %+v, want %v", gotDate, day)
	}
}

func TestPostgresConstraintClassification(t *testing.T) {
	pg := setupTestPostgres(t)
	if pg == nil {
		t.Skip("No PostgreSQL connection available")
	}
	defer func() { _ = pg.Close() }()

	ctx := context.Background()
	if err := pg.InsertDate(ctx, DateFromTime(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))); err != nil {
		t.Fatalf("insert date: %v", err)
	}
	if err := pg.InsertAirport(ctx, Airport{AirportID: "JFK", Name: "John F. Kennedy International"}); err != nil {
		t.Fatalf("insert airport: %v", err)
	}

	// Dangling airline reference.
	_, err := pg.InsertFlight(ctx, Flight{FlightDateID: 20240115, DepAirportID: "JFK", AirlineID: "XX"})
	if !IsForeignKeyViolation(err) {
		t.Errorf("expected foreign key violation, got: %v", err)
	}

	// Duplicate (airport, date) weather pair.
	if _, err := pg.InsertWeather(ctx, WeatherObservation{AirportID: "JFK", DateID: 20240115}); err != nil {
		t.Fatalf("insert weather: %v", err)
	}
	_, err = pg.InsertWeather(ctx, WeatherObservation{AirportID: "JFK", DateID: 20240115})
	if !IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got: %v", err)
	}

	// NULL in a required column.
	_, err = pg.Pool().Exec(ctx, `
		INSERT INTO fact_flights (flight_date_id, dep_airport_id, airline_id, is_delayed_15)
		VALUES (20240115, 'JFK', NULL, FALSE)
	`)
	if !IsNotNullViolation(err) {
		t.Errorf("expected not-null violation, got: %v", err)
	}
}
