// Package warehouse owns the flight data warehouse: the star schema DDL,
// its lifecycle (create/drop/truncate), and typed row operations over the
// five tables. Referential integrity is delegated entirely to the hosting
// engine's constraints; the store surfaces violations, it never repairs them.
package warehouse

import (
	"context"
	"fmt"
)

// Driver selects the engine hosting the warehouse schema.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds connection settings for the warehouse engines.
type Config struct {
	Driver   string // "postgres" or "sqlite"
	Postgres PostgresConfig
	SQLite   SQLiteConfig
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// SQLiteConfig holds the embedded database location.
type SQLiteConfig struct {
	Path string
}

// DefaultConfig returns a configuration with default local development
// settings.
func DefaultConfig() Config {
	return Config{
		Driver: DriverPostgres,
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "flight_dwh",
			User:     "dwh",
			Password: "dwh",
		},
		SQLite: SQLiteConfig{
			Path: "flight_dwh.db",
		},
	}
}

// Store is the set of operations a relational engine provides over the
// warehouse tables. Both backends implement it; callers pick one via Open.
type Store interface {
	Close() error

	// Schema lifecycle.
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error
	Truncate(ctx context.Context) error

	// dim_date
	InsertDate(ctx context.Context, d Date) error
	GetDate(ctx context.Context, dateID int) (*Date, error)

	// dim_airport
	InsertAirport(ctx context.Context, a Airport) error
	GetAirport(ctx context.Context, airportID string) (*Airport, error)

	// dim_airline
	InsertAirline(ctx context.Context, a Airline) error
	GetAirline(ctx context.Context, airlineID string) (*Airline, error)

	// dim_weather
	InsertWeather(ctx context.Context, w WeatherObservation) (int64, error)
	GetWeather(ctx context.Context, weatherID int64) (*WeatherObservation, error)
	GetWeatherByAirportDate(ctx context.Context, airportID string, dateID int) (*WeatherObservation, error)

	// fact_flights
	InsertFlight(ctx context.Context, f Flight) (int64, error)
	GetFlight(ctx context.Context, flightID int64) (*Flight, error)
	QueryFlights(ctx context.Context, q FlightQuery) ([]Flight, error)

	// LinkFlightWeather resolves fact_flights.weather_id from the
	// (dep_airport_id, flight_date_id) pair against dim_weather for rows
	// that have no weather observation yet. Returns rows updated.
	LinkFlightWeather(ctx context.Context) (int64, error)

	// TableCounts returns row counts per warehouse table.
	TableCounts(ctx context.Context) (map[string]int64, error)
}

// Open opens the warehouse on the configured engine.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverPostgres:
		return OpenPostgres(ctx, cfg.Postgres)
	case DriverSQLite:
		return OpenSQLite(cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}
