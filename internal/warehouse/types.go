package warehouse

import (
	"time"
)

// Date represents a dim_date row: one row per calendar date, keyed by the
// date formatted as YYYYMMDD. Reference data; written once, never updated.
type Date struct {
	DateID     int
	FullDate   time.Time
	Year       int
	Month      int
	Day        int
	DayOfWeek  int // ISO: Monday=1 .. Sunday=7.
	DayName    string
	WeekOfYear int
	IsWeekend  bool
}

// DateID returns the YYYYMMDD integer key for a calendar date.
func DateID(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// DateFromTime builds the dim_date row for the calendar date of t.
func DateFromTime(t time.Time) Date {
	dow := int(t.Weekday())
	if dow == 0 {
		dow = 7 // time.Sunday is 0, ISO wants 7.
	}
	_, week := t.ISOWeek()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Date{
		DateID:     DateID(t),
		FullDate:   day,
		Year:       t.Year(),
		Month:      int(t.Month()),
		Day:        t.Day(),
		DayOfWeek:  dow,
		DayName:    t.Weekday().String()[:3],
		WeekOfYear: week,
		IsWeekend:  dow >= 6,
	}
}

// Airport represents a dim_airport row, keyed by IATA code.
// City, state, country, and coordinates may be absent in the source data.
type Airport struct {
	AirportID string
	Name      string
	City      *string
	State     *string
	Country   *string
	Latitude  *float64
	Longitude *float64
}

// Airline represents a dim_airline row, keyed by airline code.
type Airline struct {
	AirlineID   string
	AirlineName string
}

// WeatherObservation represents a dim_weather row: at most one observation
// per (airport, date) pair, enforced by a unique constraint.
type WeatherObservation struct {
	WeatherID int64
	AirportID string
	DateID    int
	TAvg      *float64 // average temperature
	Prcp      *float64 // precipitation
	WSpd      *float64 // wind speed
}

// Flight represents a fact_flights row. Flight date, departure airport, and
// airline must resolve to dimension rows; arrival airport and weather
// observation are optional (unknown/diverted destination, no matched
// weather row). Measures and component delay breakdowns are nullable.
type Flight struct {
	FlightID     int64
	FlightDateID int
	DepAirportID string
	ArrAirportID *string
	AirlineID    string
	WeatherID    *int64

	FlightNumber *string
	TailNumber   *string
	SchedDepTime *string
	SchedArrTime *string
	DepTimeLabel *string

	DepDelayMin *float64
	ArrDelayMin *float64
	Distance    *float64

	Cancelled        bool
	Diverted         bool
	CancellationCode *string
	IsDelayed15      bool

	CarrierDelayMin      *float64
	WeatherDelayMin      *float64
	NASDelayMin          *float64
	SecurityDelayMin     *float64
	LateAircraftDelayMin *float64
}

// DelayThresholdMin is the departure-delay threshold, in minutes, above
// which a flight counts as delayed for the is_delayed_15 flag.
const DelayThresholdMin = 15.0

// DelayedFromDeparture computes the is_delayed_15 flag from a departure
// delay. The schema stores the flag verbatim; loaders are expected to derive
// it here so the threshold lives in one place. A missing delay is not
// delayed.
func DelayedFromDeparture(depDelayMin *float64) bool {
	return depDelayMin != nil && *depDelayMin >= DelayThresholdMin
}

// FlightQuery filters QueryFlights along the fact table's indexed columns:
// date/departure airport/carrier and the disruption flags.
type FlightQuery struct {
	FlightDateID int    // Filter by flight date (YYYYMMDD), 0 = any.
	DepAirportID string // Filter by departure airport code.
	AirlineID    string // Filter by airline code.
	Cancelled    *bool  // Filter by cancelled flag.
	Diverted     *bool  // Filter by diverted flag.
	Limit        int    // Max results (default 100).
	Offset       int    // Pagination offset.
}
