package warehouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDB hosts the warehouse schema on a PostgreSQL connection pool.
type PostgresDB struct {
	pool *pgxpool.Pool
}

// OpenPostgres opens a connection pool to PostgreSQL.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*PostgresDB, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// Test the connection.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresDB{pool: pool}, nil
}

// Close closes the PostgreSQL connection pool.
func (d *PostgresDB) Close() error {
	d.pool.Close()
	return nil
}

// Pool returns the underlying connection pool for advanced operations.
func (d *PostgresDB) Pool() *pgxpool.Pool {
	return d.pool
}

// CreateSchema creates the warehouse tables and indexes.
func (d *PostgresDB) CreateSchema(ctx context.Context) error {
	if _, err := d.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// DropSchema drops the warehouse tables. Safe to call when they do not
// exist yet.
func (d *PostgresDB) DropSchema(ctx context.Context) error {
	for i := len(Tables) - 1; i >= 0; i-- {
		stmt := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", Tables[i])
		if _, err := d.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("drop %s: %w", Tables[i], err)
		}
	}
	return nil
}

// Truncate empties all warehouse tables and resets the surrogate key
// sequences, so a reload starts from a clean slate.
func (d *PostgresDB) Truncate(ctx context.Context) error {
	for i := len(Tables) - 1; i >= 0; i-- {
		stmt := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", Tables[i])
		if _, err := d.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("truncate %s: %w", Tables[i], err)
		}
	}
	return nil
}

// InsertDate stores a dim_date row.
func (d *PostgresDB) InsertDate(ctx context.Context, row Date) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO dim_date (date_id, full_date, year, month, day, day_of_week, day_name, week_of_year, is_weekend)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, row.DateID, row.FullDate, row.Year, row.Month, row.Day, row.DayOfWeek, row.DayName, row.WeekOfYear, row.IsWeekend)
	return err
}

// GetDate retrieves a dim_date row by its YYYYMMDD key.
func (d *PostgresDB) GetDate(ctx context.Context, dateID int) (*Date, error) {
	var row Date
	err := d.pool.QueryRow(ctx, `
		SELECT date_id, full_date, year, month, day, day_of_week, day_name, week_of_year, is_weekend
		FROM dim_date WHERE date_id = $1
	`, dateID).Scan(&row.DateID, &row.FullDate, &row.Year, &row.Month, &row.Day,
		&row.DayOfWeek, &row.DayName, &row.WeekOfYear, &row.IsWeekend)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// InsertAirport stores a dim_airport row.
func (d *PostgresDB) InsertAirport(ctx context.Context, a Airport) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO dim_airport (airport_id, name, city, state, country, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.AirportID, a.Name, a.City, a.State, a.Country, a.Latitude, a.Longitude)
	return err
}

// GetAirport retrieves a dim_airport row by IATA code.
func (d *PostgresDB) GetAirport(ctx context.Context, airportID string) (*Airport, error) {
	var a Airport
	err := d.pool.QueryRow(ctx, `
		SELECT airport_id, name, city, state, country, latitude, longitude
		FROM dim_airport WHERE airport_id = $1
	`, airportID).Scan(&a.AirportID, &a.Name, &a.City, &a.State, &a.Country, &a.Latitude, &a.Longitude)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// InsertAirline stores a dim_airline row.
func (d *PostgresDB) InsertAirline(ctx context.Context, a Airline) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO dim_airline (airline_id, airline_name)
		VALUES ($1, $2)
	`, a.AirlineID, a.AirlineName)
	return err
}

// GetAirline retrieves a dim_airline row by airline code.
func (d *PostgresDB) GetAirline(ctx context.Context, airlineID string) (*Airline, error) {
	var a Airline
	err := d.pool.QueryRow(ctx, `
		SELECT airline_id, airline_name
		FROM dim_airline WHERE airline_id = $1
	`, airlineID).Scan(&a.AirlineID, &a.AirlineName)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// InsertWeather stores a dim_weather row and returns the generated
// weather_id.
func (d *PostgresDB) InsertWeather(ctx context.Context, w WeatherObservation) (int64, error) {
	var id int64
	err := d.pool.QueryRow(ctx, `
		INSERT INTO dim_weather (airport_id, date_id, tavg, prcp, wspd)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING weather_id
	`, w.AirportID, w.DateID, w.TAvg, w.Prcp, w.WSpd).Scan(&id)
	return id, err
}

// GetWeather retrieves a dim_weather row by surrogate key.
func (d *PostgresDB) GetWeather(ctx context.Context, weatherID int64) (*WeatherObservation, error) {
	return d.getWeather(ctx, `weather_id = $1`, weatherID)
}

// GetWeatherByAirportDate retrieves a dim_weather row by its business key.
func (d *PostgresDB) GetWeatherByAirportDate(ctx context.Context, airportID string, dateID int) (*WeatherObservation, error) {
	return d.getWeather(ctx, `airport_id = $1 AND date_id = $2`, airportID, dateID)
}

func (d *PostgresDB) getWeather(ctx context.Context, where string, args ...interface{}) (*WeatherObservation, error) {
	var w WeatherObservation
	err := d.pool.QueryRow(ctx, `
		SELECT weather_id, airport_id, date_id, tavg, prcp, wspd
		FROM dim_weather WHERE `+where,
		args...).Scan(&w.WeatherID, &w.AirportID, &w.DateID, &w.TAvg, &w.Prcp, &w.WSpd)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

const flightColumns = `flight_id, flight_date_id, dep_airport_id, arr_airport_id, airline_id, weather_id,
	flight_number, tail_number, sched_dep_time, sched_arr_time, dep_time_label,
	dep_delay_min, arr_delay_min, distance,
	cancelled, diverted, cancellation_code, is_delayed_15,
	carrier_delay_min, weather_delay_min, nas_delay_min, security_delay_min, late_aircraft_delay_min`

// InsertFlight stores a fact_flights row and returns the generated
// flight_id. The referenced date, departure airport, and airline rows must
// already exist; the engine rejects dangling references.
func (d *PostgresDB) InsertFlight(ctx context.Context, f Flight) (int64, error) {
	var id int64
	err := d.pool.QueryRow(ctx, `
		INSERT INTO fact_flights (flight_date_id, dep_airport_id, arr_airport_id, airline_id, weather_id,
			flight_number, tail_number, sched_dep_time, sched_arr_time, dep_time_label,
			dep_delay_min, arr_delay_min, distance,
			cancelled, diverted, cancellation_code, is_delayed_15,
			carrier_delay_min, weather_delay_min, nas_delay_min, security_delay_min, late_aircraft_delay_min)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING flight_id
	`, f.FlightDateID, f.DepAirportID, f.ArrAirportID, f.AirlineID, f.WeatherID,
		f.FlightNumber, f.TailNumber, f.SchedDepTime, f.SchedArrTime, f.DepTimeLabel,
		f.DepDelayMin, f.ArrDelayMin, f.Distance,
		f.Cancelled, f.Diverted, f.CancellationCode, f.IsDelayed15,
		f.CarrierDelayMin, f.WeatherDelayMin, f.NASDelayMin, f.SecurityDelayMin, f.LateAircraftDelayMin).Scan(&id)
	return id, err
}

// GetFlight retrieves a fact_flights row by surrogate key.
func (d *PostgresDB) GetFlight(ctx context.Context, flightID int64) (*Flight, error) {
	var f Flight
	err := d.pool.QueryRow(ctx,
		`SELECT `+flightColumns+` FROM fact_flights WHERE flight_id = $1`,
		flightID).Scan(flightScanDest(&f)...)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// QueryFlights retrieves fact rows matching the given filters, following
// the access paths the secondary indexes support.
func (d *PostgresDB) QueryFlights(ctx context.Context, q FlightQuery) ([]Flight, error) {
	var conditions []string
	var args []interface{}

	add := func(expr string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", expr, len(args)))
	}

	if q.FlightDateID != 0 {
		add("flight_date_id", q.FlightDateID)
	}
	if q.DepAirportID != "" {
		add("dep_airport_id", q.DepAirportID)
	}
	if q.AirlineID != "" {
		add("airline_id", q.AirlineID)
	}
	if q.Cancelled != nil {
		add("cancelled", *q.Cancelled)
	}
	if q.Diverted != nil {
		add("diverted", *q.Diverted)
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

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query flights: %w", err)
	}
	defer rows.Close()

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
func (d *PostgresDB) LinkFlightWeather(ctx context.Context) (int64, error) {
	tag, err := d.pool.Exec(ctx, `
		UPDATE fact_flights ff
		SET weather_id = dw.weather_id
		FROM dim_weather dw
		WHERE dw.airport_id = ff.dep_airport_id
		  AND dw.date_id = ff.flight_date_id
		  AND ff.weather_id IS NULL
	`)
	if err != nil {
		return 0, fmt.Errorf("link flight weather: %w", err)
	}
	return tag.RowsAffected(), nil
}

// TableCounts returns row counts per warehouse table.
func (d *PostgresDB) TableCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(Tables))
	for _, table := range Tables {
		var n int64
		if err := d.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// flightScanDest returns scan destinations for a row selected with
// flightColumns, in column order.
func flightScanDest(f *Flight) []interface{} {
	return []interface{}{
		&f.FlightID, &f.FlightDateID, &f.DepAirportID, &f.ArrAirportID, &f.AirlineID, &f.WeatherID,
		&f.FlightNumber, &f.TailNumber, &f.SchedDepTime, &f.SchedArrTime, &f.DepTimeLabel,
		&f.DepDelayMin, &f.ArrDelayMin, &f.Distance,
		&f.Cancelled, &f.Diverted, &f.CancellationCode, &f.IsDelayed15,
		&f.CarrierDelayMin, &f.WeatherDelayMin, &f.NASDelayMin, &f.SecurityDelayMin, &f.LateAircraftDelayMin,
	}
}
