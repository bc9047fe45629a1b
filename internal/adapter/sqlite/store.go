package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
	"github.com/Temutjin2k/taxi-pulse/internal/domain/types"
)

//go:embed schema.sql
var schemaSQL string

const timeLayout = time.RFC3339Nano

// Store persists enriched datasets in a local SQLite file, keyed by dataset
// version. A warm load restores the exact dataset that was saved.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the cache file and applies the schema.
func Open(path string) (*Store, error) {
	dsn := path + "?_journal=WAL&_fk=1&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open: %w", err)
	}

	// SQLite allows one writer; a single connection avoids nested
	// transaction errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: ping: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: pragma: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes the dataset in one transaction, replacing any previous rows of
// the same version.
func (s *Store) Save(ctx context.Context, ds *models.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite store: Save (begin): %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE version = ?;`, ds.Version); err != nil {
		return fmt.Errorf("sqlite store: Save (clear): %w", err)
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO datasets (version, period, sample_size, min_date, max_date, loaded_at,
                              dropped_invalid_ts, dropped_fare, dropped_distance,
                              dropped_duration, dropped_passengers)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		ds.Version, ds.Period.String(), ds.SampleSize,
		ds.MinDate.Format(timeLayout), ds.MaxDate.Format(timeLayout), ds.LoadedAt.Format(timeLayout),
		ds.Dropped.InvalidTimestamps, ds.Dropped.FareOutOfBounds, ds.Dropped.DistanceOutOfBounds,
		ds.Dropped.DurationOutOfBounds, ds.Dropped.PassengersOutOfBounds,
	)
	if err != nil {
		return fmt.Errorf("sqlite store: Save (dataset): %w", err)
	}

	tripStmt, err := tx.PrepareContext(ctx, `
        INSERT INTO trips (version, pickup_at, dropoff_at, pu_location_id, do_location_id,
                           pickup_borough, dropoff_borough, passenger_count, trip_distance,
                           fare_amount, tip_amount, total_amount, payment_type,
                           duration_minutes, hour, day_of_week, is_weekend,
                           tip_pct, price_per_mile, weather)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("sqlite store: Save (prepare): %w", err)
	}
	defer tripStmt.Close()

	for _, t := range ds.Trips {
		_, err := tripStmt.ExecContext(ctx,
			ds.Version, t.PickupAt.Format(timeLayout), t.DropoffAt.Format(timeLayout),
			t.PULocationID, t.DOLocationID,
			string(t.PickupBorough), string(t.DropoffBorough),
			t.PassengerCount, t.TripDistance,
			t.FareAmount, t.TipAmount, t.TotalAmount, t.Payment.String(),
			t.DurationMinutes, t.Hour, int(t.DayOfWeek), boolToInt(t.IsWeekend),
			t.TipPct, t.PricePerMile, string(t.Weather),
		)
		if err != nil {
			return fmt.Errorf("sqlite store: Save (trip): %w", err)
		}
	}

	weatherStmt, err := tx.PrepareContext(ctx, `
        INSERT INTO weather_days (version, date, temp_min_f, temp_max_f, rainy, precipitation)
        VALUES (?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("sqlite store: Save (prepare weather): %w", err)
	}
	defer weatherStmt.Close()

	for _, w := range ds.Weather {
		_, err := weatherStmt.ExecContext(ctx,
			ds.Version, w.Date, w.TempMinF, w.TempMaxF, boolToInt(w.Rainy), w.PrecipitationInches,
		)
		if err != nil {
			return fmt.Errorf("sqlite store: Save (weather): %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite store: Save (commit): %w", err)
	}
	return nil
}

// Load restores the dataset of the given version. A missing version returns
// (nil, nil) so the caller falls through to ingestion.
func (s *Store) Load(ctx context.Context, version string) (*models.Dataset, error) {
	ds := &models.Dataset{Version: version}

	var period, minDate, maxDate, loadedAt string
	err := s.db.QueryRowContext(ctx, `
        SELECT period, sample_size, min_date, max_date, loaded_at,
               dropped_invalid_ts, dropped_fare, dropped_distance,
               dropped_duration, dropped_passengers
        FROM datasets WHERE version = ?;`, version,
	).Scan(&period, &ds.SampleSize, &minDate, &maxDate, &loadedAt,
		&ds.Dropped.InvalidTimestamps, &ds.Dropped.FareOutOfBounds, &ds.Dropped.DistanceOutOfBounds,
		&ds.Dropped.DurationOutOfBounds, &ds.Dropped.PassengersOutOfBounds)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite store: Load (dataset): %w", err)
	}

	if ds.Period, err = parsePeriod(period); err != nil {
		return nil, fmt.Errorf("sqlite store: Load: %w", err)
	}
	if ds.MinDate, err = time.Parse(timeLayout, minDate); err != nil {
		return nil, fmt.Errorf("sqlite store: Load (min_date): %w", err)
	}
	if ds.MaxDate, err = time.Parse(timeLayout, maxDate); err != nil {
		return nil, fmt.Errorf("sqlite store: Load (max_date): %w", err)
	}
	if ds.LoadedAt, err = time.Parse(timeLayout, loadedAt); err != nil {
		return nil, fmt.Errorf("sqlite store: Load (loaded_at): %w", err)
	}

	if ds.Trips, err = s.loadTrips(ctx, version); err != nil {
		return nil, err
	}
	if ds.Weather, err = s.loadWeather(ctx, version); err != nil {
		return nil, err
	}
	return ds, nil
}

func (s *Store) loadTrips(ctx context.Context, version string) ([]models.Trip, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT pickup_at, dropoff_at, pu_location_id, do_location_id,
               pickup_borough, dropoff_borough, passenger_count, trip_distance,
               fare_amount, tip_amount, total_amount, payment_type,
               duration_minutes, hour, day_of_week, is_weekend,
               tip_pct, price_per_mile, weather
        FROM trips WHERE version = ? ORDER BY pickup_at;`, version)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: loadTrips: %w", err)
	}
	defer rows.Close()

	var trips []models.Trip
	for rows.Next() {
		var (
			t                             models.Trip
			pickupAt, dropoffAt           string
			pickupBorough, dropoffBorough string
			payment, weather              string
			dow, weekend                  int
		)
		err := rows.Scan(
			&pickupAt, &dropoffAt, &t.PULocationID, &t.DOLocationID,
			&pickupBorough, &dropoffBorough, &t.PassengerCount, &t.TripDistance,
			&t.FareAmount, &t.TipAmount, &t.TotalAmount, &payment,
			&t.DurationMinutes, &t.Hour, &dow, &weekend,
			&t.TipPct, &t.PricePerMile, &weather,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlite store: loadTrips (scan): %w", err)
		}

		if t.PickupAt, err = time.Parse(timeLayout, pickupAt); err != nil {
			return nil, fmt.Errorf("sqlite store: loadTrips (pickup_at): %w", err)
		}
		if t.DropoffAt, err = time.Parse(timeLayout, dropoffAt); err != nil {
			return nil, fmt.Errorf("sqlite store: loadTrips (dropoff_at): %w", err)
		}
		t.PickupBorough = types.Borough(pickupBorough)
		t.DropoffBorough = types.Borough(dropoffBorough)
		t.Payment = types.PaymentType(payment)
		t.Weather = types.WeatherFlag(weather)
		t.DayOfWeek = time.Weekday(dow)
		t.IsWeekend = weekend != 0

		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite store: loadTrips (rows): %w", err)
	}
	return trips, nil
}

func (s *Store) loadWeather(ctx context.Context, version string) (map[string]models.WeatherDay, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT date, temp_min_f, temp_max_f, rainy, precipitation
        FROM weather_days WHERE version = ?;`, version)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: loadWeather: %w", err)
	}
	defer rows.Close()

	out := make(map[string]models.WeatherDay)
	for rows.Next() {
		var (
			w     models.WeatherDay
			rainy int
		)
		if err := rows.Scan(&w.Date, &w.TempMinF, &w.TempMaxF, &rainy, &w.PrecipitationInches); err != nil {
			return nil, fmt.Errorf("sqlite store: loadWeather (scan): %w", err)
		}
		w.Rainy = rainy != 0
		out[w.Date] = w
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite store: loadWeather (rows): %w", err)
	}
	return out, nil
}

func parsePeriod(s string) (models.Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return models.Period{}, fmt.Errorf("bad period %q: %w", s, err)
	}
	return models.Period{Year: t.Year(), Month: t.Month()}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
