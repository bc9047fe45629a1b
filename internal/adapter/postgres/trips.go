package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
)

// TripRepo loads raw trips from the warehouse table. The sample is taken in
// SQL so repeated loads of the same period return the same rows.
type TripRepo struct {
	db *pgxpool.Pool
}

func NewTripRepo(db *pgxpool.Pool) *TripRepo {
	return &TripRepo{db: db}
}

// sampleSeed salts the md5 ordering. Fixed so the sample is reproducible.
const sampleSeed = "42"

func (r *TripRepo) LoadTrips(ctx context.Context, period models.Period, sampleSize int) ([]models.RawTrip, error) {
	// md5(id || seed) gives a deterministic pseudo-random order without a
	// server-side setseed session.
	query := `
        SELECT
            pickup_at, dropoff_at,
            pu_location_id, do_location_id,
            passenger_count, trip_distance,
            fare_amount, tip_amount, total_amount,
            payment_type
        FROM yellow_trips
        WHERE pickup_at >= $1 AND pickup_at < $2
        ORDER BY md5(id::text || $3)
        LIMIT $4;`

	rows, err := r.db.Query(ctx, query, period.Start(), period.End(), sampleSeed, sampleSize)
	if err != nil {
		return nil, fmt.Errorf("trip repo: LoadTrips: %w", err)
	}
	defer rows.Close()

	trips := make([]models.RawTrip, 0, sampleSize)
	for rows.Next() {
		var t models.RawTrip
		err := rows.Scan(
			&t.PickupAt, &t.DropoffAt,
			&t.PULocationID, &t.DOLocationID,
			&t.PassengerCount, &t.TripDistance,
			&t.FareAmount, &t.TipAmount, &t.TotalAmount,
			&t.PaymentCode,
		)
		if err != nil {
			return nil, fmt.Errorf("trip repo: LoadTrips (scan): %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trip repo: LoadTrips (rows): %w", err)
	}

	return trips, nil
}
