package warehouse

// Star schema for the flight data warehouse: three independent dimensions
// (dim_date, dim_airport, dim_airline), a weather dimension keyed on
// (airport, date), and the central fact_flights table referencing all four.
//
// The DDL exists in two dialects. PostgreSQL is the production engine;
// SQLite is the embedded engine used for local work and tests. Both declare
// the same tables, keys, and constraints.

// postgresSchema creates the warehouse tables and indexes on PostgreSQL.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS dim_date (
	date_id         INTEGER PRIMARY KEY,
	full_date       DATE NOT NULL,
	year            INTEGER NOT NULL,
	month           INTEGER NOT NULL,
	day             INTEGER NOT NULL,
	day_of_week     INTEGER NOT NULL,
	day_name        VARCHAR(3) NOT NULL,
	week_of_year    INTEGER NOT NULL,
	is_weekend      BOOLEAN NOT NULL
);

CREATE TABLE IF NOT EXISTS dim_airport (
	airport_id      VARCHAR(10) PRIMARY KEY,
	name            TEXT NOT NULL,
	city            TEXT,
	state           TEXT,
	country         TEXT,
	latitude        NUMERIC(9,6),
	longitude       NUMERIC(9,6)
);

CREATE TABLE IF NOT EXISTS dim_airline (
	airline_id      VARCHAR(10) PRIMARY KEY,
	airline_name    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS dim_weather (
	weather_id      BIGSERIAL PRIMARY KEY,
	airport_id      VARCHAR(10) NOT NULL REFERENCES dim_airport(airport_id),
	date_id         INTEGER NOT NULL REFERENCES dim_date(date_id),
	tavg            NUMERIC(5,1),
	prcp            NUMERIC(6,1),
	wspd            NUMERIC(5,1),
	UNIQUE (airport_id, date_id)
);

CREATE TABLE IF NOT EXISTS fact_flights (
	flight_id               BIGSERIAL PRIMARY KEY,
	flight_date_id          INTEGER NOT NULL REFERENCES dim_date(date_id),
	dep_airport_id          VARCHAR(10) NOT NULL REFERENCES dim_airport(airport_id),
	arr_airport_id          VARCHAR(10) REFERENCES dim_airport(airport_id),
	airline_id              VARCHAR(10) NOT NULL REFERENCES dim_airline(airline_id),
	weather_id              BIGINT REFERENCES dim_weather(weather_id),
	flight_number           TEXT,
	tail_number             TEXT,
	sched_dep_time          TEXT,
	sched_arr_time          TEXT,
	dep_time_label          TEXT,
	dep_delay_min           NUMERIC(7,1),
	arr_delay_min           NUMERIC(7,1),
	distance                NUMERIC(7,1),
	cancelled               BOOLEAN NOT NULL DEFAULT FALSE,
	diverted                BOOLEAN NOT NULL DEFAULT FALSE,
	cancellation_code       TEXT,
	is_delayed_15           BOOLEAN NOT NULL,
	carrier_delay_min       NUMERIC(7,1),
	weather_delay_min       NUMERIC(7,1),
	nas_delay_min           NUMERIC(7,1),
	security_delay_min      NUMERIC(7,1),
	late_aircraft_delay_min NUMERIC(7,1)
);

CREATE INDEX IF NOT EXISTS idx_fact_flights_date_dep_airline
	ON fact_flights (flight_date_id, dep_airport_id, airline_id);
CREATE INDEX IF NOT EXISTS idx_fact_flights_airline
	ON fact_flights (airline_id);
CREATE INDEX IF NOT EXISTS idx_fact_flights_disruption
	ON fact_flights (cancelled, diverted);
`

// sqliteSchema mirrors postgresSchema. Surrogate keys use AUTOINCREMENT,
// booleans are stored as 0/1, full_date as an ISO-8601 text date.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS dim_date (
	date_id         INTEGER PRIMARY KEY,
	full_date       TEXT NOT NULL,
	year            INTEGER NOT NULL,
	month           INTEGER NOT NULL,
	day             INTEGER NOT NULL,
	day_of_week     INTEGER NOT NULL,
	day_name        TEXT NOT NULL,
	week_of_year    INTEGER NOT NULL,
	is_weekend      BOOLEAN NOT NULL
);

CREATE TABLE IF NOT EXISTS dim_airport (
	airport_id      TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	city            TEXT,
	state           TEXT,
	country         TEXT,
	latitude        REAL,
	longitude       REAL
);

CREATE TABLE IF NOT EXISTS dim_airline (
	airline_id      TEXT PRIMARY KEY,
	airline_name    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS dim_weather (
	weather_id      INTEGER PRIMARY KEY AUTOINCREMENT,
	airport_id      TEXT NOT NULL REFERENCES dim_airport(airport_id),
	date_id         INTEGER NOT NULL REFERENCES dim_date(date_id),
	tavg            REAL,
	prcp            REAL,
	wspd            REAL,
	UNIQUE (airport_id, date_id)
);

CREATE TABLE IF NOT EXISTS fact_flights (
	flight_id               INTEGER PRIMARY KEY AUTOINCREMENT,
	flight_date_id          INTEGER NOT NULL REFERENCES dim_date(date_id),
	dep_airport_id          TEXT NOT NULL REFERENCES dim_airport(airport_id),
	arr_airport_id          TEXT REFERENCES dim_airport(airport_id),
	airline_id              TEXT NOT NULL REFERENCES dim_airline(airline_id),
	weather_id              INTEGER REFERENCES dim_weather(weather_id),
	flight_number           TEXT,
	tail_number             TEXT,
	sched_dep_time          TEXT,
	sched_arr_time          TEXT,
	dep_time_label          TEXT,
	dep_delay_min           REAL,
	arr_delay_min           REAL,
	distance                REAL,
	cancelled               BOOLEAN NOT NULL DEFAULT 0,
	diverted                BOOLEAN NOT NULL DEFAULT 0,
	cancellation_code       TEXT,
	is_delayed_15           BOOLEAN NOT NULL,
	carrier_delay_min       REAL,
	weather_delay_min       REAL,
	nas_delay_min           REAL,
	security_delay_min      REAL,
	late_aircraft_delay_min REAL
);

CREATE INDEX IF NOT EXISTS idx_fact_flights_date_dep_airline
	ON fact_flights (flight_date_id, dep_airport_id, airline_id);
CREATE INDEX IF NOT EXISTS idx_fact_flights_airline
	ON fact_flights (airline_id);
CREATE INDEX IF NOT EXISTS idx_fact_flights_disruption
	ON fact_flights (cancelled, diverted);
`

// Tables lists the warehouse tables in dependency order: dimensions first,
// fact last. Drops and truncates walk this list in reverse.
var Tables = []string{
	"dim_date",
	"dim_airport",
	"dim_airline",
	"dim_weather",
	"fact_flights",
}
