package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteDB hosts the warehouse schema on an embedded SQLite database.
// Foreign key enforcement is off by default in SQLite; Open switches it on
// so both engines reject dangling references the same way.
type SQLiteDB struct {
	db *sql.DB
}

// OpenSQLite opens or creates a SQLite database at the given path.
func OpenSQLite(path string) (*SQLiteDB, error) {
	// foreign_keys is a per-connection setting, so it goes in the DSN
	// rather than a one-off PRAGMA exec that only reaches one pooled
	// connection.
	dsn := "file:" + path +
		"?_pragma=foreign_keys(1)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection.
func (d *SQLiteDB) Close() error {
	return d.db.Close()
}

// DB returns the underlying database handle for advanced operations.
func (d *SQLiteDB) DB() *sql.DB {
	return d.db
}

// CreateSchema creates the warehouse tables and indexes.
func (d *SQLiteDB) CreateSchema(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// DropSchema drops the warehouse tables. Safe to call when they do not
// exist yet.
func (d *SQLiteDB) DropSchema(ctx context.Context) error {
	for i := len(Tables) - 1; i >= 0; i-- {
		if _, err := d.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+Tables[i]); err != nil {
			return fmt.Errorf("drop %s: %w", Tables[i], err)
		}
	}
	return nil
}

// Truncate empties all warehouse tables and resets the surrogate key
// counters.
func (d *SQLiteDB) Truncate(ctx context.Context) error {
	for i := len(Tables) - 1; i >= 0; i-- {
		if _, err := d.db.ExecContext(ctx, "DELETE FROM "+Tables[i]); err != nil {
			return fmt.Errorf("truncate %s: %w", Tables[i], err)
		}
	}
	// sqlite_sequence only exists once an AUTOINCREMENT table has rows.
	_, _ = d.db.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name IN ('dim_weather', 'fact_flights')")
	return nil
}

const sqliteDateFormat = "2006-01-02"

// InsertDate stores a dim_date row.
func (d *SQLiteDB) InsertDate(ctx context.Context, row Date) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO dim_date (date_id, full_date, year, month, day, day_of_week, day_name, week_of_year, is_weekend)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, row.DateID, row.FullDate.Format(sqliteDateFormat), row.Year, row.Month, row.Day,
		row.DayOfWeek, row.DayName, row.WeekOfYear, row.IsWeekend)
	return err
}

// GetDate retrieves a dim_date row by its YYYYMMDD key.
func (d *SQLiteDB) GetDate(ctx context.Context, dateID int) (*Date, error) {
	var row Date
	var fullDate string
	err := d.db.QueryRowContext(ctx, `
		SELECT date_id, full_date, year, month, day, day_of_week, day_name, week_of_year, is_weekend
		FROM dim_date WHERE date_id = ?
	`, dateID).Scan(&row.DateID, &fullDate, &row.Year, &row.Month, &row.Day,
		&row.DayOfWeek, &row.DayName, &row.WeekOfYear, &row.IsWeekend)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	row.FullDate, err = time.Parse(sqliteDateFormat, fullDate)
	if err != nil {
		return nil, fmt.Errorf("parse full_date: %w", err)
	}
	return &row, nil
}

// InsertAirport stores a dim_airport row.
func (d *SQLiteDB) InsertAirport(ctx context.Context, a Airport) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO dim_airport (airport_id, name, city, state, country, latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.AirportID, a.Name, a.City, a.State, a.Country, a.Latitude, a.Longitude)
	return err
}

// GetAirport retrieves a dim_airport row by IATA code.
func (d *SQLiteDB) GetAirport(ctx context.Context, airportID string) (*Airport, error) {
	var a Airport
	err := d.db.QueryRowContext(ctx, `
		SELECT airport_id, name, city, state, country, latitude, longitude
		FROM dim_airport WHERE airport_id = ?
	`, airportID).Scan(&a.AirportID, &a.Name, &a.City, &a.State, &a.Country, &a.Latitude, &a.Longitude)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// InsertAirline stores a dim_airline row.
func (d *SQLiteDB) InsertAirline(ctx context.Context, a Airline) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO dim_airline (airline_id, airline_name)
		VALUES (?, ?)
	`, a.AirlineID, a.AirlineName)
	return err
}

// GetAirline retrieves a dim_airline row by airline code.
func (d *SQLiteDB) GetAirline(ctx context.Context, airlineID string) (*Airline, error) {
	var a Airline
	err := d.db.QueryRowContext(ctx, `
		SELECT airline_id, airline_name
		FROM dim_airline WHERE airline_id = ?
	`, airlineID).Scan(&a.AirlineID, &a.AirlineName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// InsertWeather stores a dim_weather row and returns the generated
// weather_id.
func (d *SQLiteDB) InsertWeather(ctx context.Context, w WeatherObservation) (int64, error) {
	result, err := d.db.ExecContext(ctx, `
		INSERT INTO dim_weather (airport_id, date_id, tavg, prcp, wspd)
		VALUES (?, ?, ?, ?, ?)
	`, w.AirportID, w.DateID, w.TAvg, w.Prcp, w.WSpd)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetWeather retrieves a dim_weather row by surrogate key.
func (d *SQLiteDB) GetWeather(ctx context.Context, weatherID int64) (*WeatherObservation, error) {
	return d.getWeather(ctx, `weather_id = ?`, weatherID)
}

// GetWeatherByAirportDate retrieves a dim_weather row by its business key.
func (d *SQLiteDB) GetWeatherByAirportDate(ctx context.Context, airportID string, dateID int) (*WeatherObservation, error) {
	return d.getWeather(ctx, `airport_id = ? AND date_id = ?`, airportID, dateID)
}

func (d *SQLiteDB) getWeather(ctx context.Context, where string, args ...interface{}) (*WeatherObservation, error) {
	var w WeatherObservation
	err := d.db.QueryRowContext(ctx, `
		SELECT weather_id, airport_id, date_id, tavg, prcp, wspd
		FROM dim_weather WHERE `+where,
		args...).Scan(&w.WeatherID, &w.AirportID, &w.DateID, &w.TAvg, &w.Prcp, &w.WSpd)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// InsertFlight stores a fact_flights row and returns the generated
// flight_id. The referenced date, departure airport, and airline rows must
// already exist; the engine rejects dangling references.
func (d *SQLiteDB) InsertFlight(ctx context.Context, f Flight) (int64, error) {
	result, err := d.db.ExecContext(ctx, `
		INSERT INTO fact_flights (flight_date_id, dep_airport_id, arr_airport_id, airline_id, weather_id,
			flight_number, tail_number, sched_dep_time, sched_arr_time, dep_time_label,
			dep_delay_min, arr_delay_min, distance,
			cancelled, diverted, cancellation_code, is_delayed_15,
			carrier_delay_min, weather_delay_min, nas_delay_min, security_delay_min, late_aircraft_delay_min)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, f.FlightDateID, f.DepAirportID, f.ArrAirportID, f.AirlineID, f.WeatherID,
		f.FlightNumber, f.TailNumber, f.SchedDepTime, f.SchedArrTime, f.DepTimeLabel,
		f.DepDelayMin, f.ArrDelayMin, f.Distance,
		f.Cancelled, f.Diverted, f.CancellationCode, f.IsDelayed15,
		f.CarrierDelayMin, f.WeatherDelayMin, f.NASDelayMin, f.SecurityDelayMin, f.LateAircraftDelayMin)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetFlight retrieves a fact_flights row by surrogate key.
func (d *SQLiteDB) GetFlight(ctx context.Context, flightID int64) (*Flight, error) {
	var f Flight
	err := d.db.QueryRowContext(ctx,
		`SELECT `+flightColumns+` FROM fact_flights WHERE flight_id = ?`,
		flightID).Scan(flightScanDest(&f)...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// QueryFlights retrieves fact rows matching the given filters, following
// the access paths the secondary indexes support.
func (d *SQLiteDB) QueryFlights(ctx context.Context, q FlightQuery) ([]Flight, error) {
	var conditions []string
	var args []interface{}

	if q.FlightDateID != 0 {
		conditions = append(conditions, "flight_date_id = ?")
		args = append(args, q.FlightDateID)
	}
	if q.DepAirportID != "" {
		conditions = append(conditions, "dep_airport_id = ?")
		args = append(args, q.DepAirportID)
	}
	if q.AirlineID != "" {
		conditions = append(conditions, "airline_id = ?")
		args = append(args, q.AirlineID)
	}
	if q.Cancelled != nil {
		conditions = append(conditions, "cancelled = ?")
		args = append(args, *q.Cancelled)
	}
	if q.Diverted != nil {
		conditions = append(conditions, "diverted = ?")
		args = append(args, *q.Diverted)
	}

	query := `SELECT ` + flightColumns + ` FROM fact_flights`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := 100
	if q.Limit > 0 {
		limit = q.Limit
	}
	query += fmt.Sprintf(" ORDER BY flight_id LIMIT %d OFFSET %d", limit, q.Offset)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query flights: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var flights []Flight
	for rows.Next() {
		var f Flight
		if err := rows.Scan(flightScanDest(&f)...); err != nil {
			return nil, fmt.Errorf("scan flight: %w", err)
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

// LinkFlightWeather resolves weather_id for fact rows that have none,
// joining dim_weather on the departure airport and flight date.
func (d *SQLiteDB) LinkFlightWeather(ctx context.Context) (int64, error) {
	result, err := d.db.ExecContext(ctx, `
		UPDATE fact_flights
		SET weather_id = (
			SELECT dw.weather_id FROM dim_weather dw
			WHERE dw.airport_id = fact_flights.dep_airport_id
			  AND dw.date_id = fact_flights.flight_date_id
		)
		WHERE weather_id IS NULL
		  AND EXISTS (
			SELECT 1 FROM dim_weather dw
			WHERE dw.airport_id = fact_flights.dep_airport_id
			  AND dw.date_id = fact_flights.flight_date_id
		)
	`)
	if err != nil {
		return 0, fmt.Errorf("link flight weather: %w", err)
	}
	return result.RowsAffected()
}

// TableCounts returns row counts per warehouse table.
func (d *SQLiteDB) TableCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(Tables))
	for _, table := range Tables {
		var n int64
		if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
