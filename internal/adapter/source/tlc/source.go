package tlc

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
	"github.com/Temutjin2k/taxi-pulse/internal/domain/types"
	"github.com/Temutjin2k/taxi-pulse/pkg/logger"
	wrap "github.com/Temutjin2k/taxi-pulse/pkg/logger/wrapper"
)

// sampleSeed fixes the row sample so reloading the same file yields the
// same dataset.
const sampleSeed = 42

const pickupLayout = "2006-01-02 15:04:05"

// Source downloads monthly trip CSVs from the open-data endpoint and keeps
// a raw copy on local disk so restarts do not re-download.
type Source struct {
	baseURL string
	rawDir  string
	client  *http.Client
	log     logger.Logger
}

func New(baseURL, rawDir string, timeout time.Duration, log logger.Logger) *Source {
	return &Source{
		baseURL: baseURL,
		rawDir:  rawDir,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (s *Source) LoadTrips(ctx context.Context, period models.Period, sampleSize int) ([]models.RawTrip, error) {
	path, err := s.ensureFile(ctx, period)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tlc source: open %s: %w", path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f)
	if df.Error() != nil {
		return nil, fmt.Errorf("tlc source: parse %s: %w", path, df.Error())
	}

	df = sample(df, sampleSize)

	trips, err := toRawTrips(df)
	if err != nil {
		return nil, fmt.Errorf("tlc source: %s: %w", path, err)
	}

	s.log.Info(ctx, "trip file loaded",
		"path", path,
		"rows", len(trips),
	)
	return trips, nil
}

// ensureFile returns the local path of the period's CSV, downloading it
// first when the raw cache misses.
func (s *Source) ensureFile(ctx context.Context, period models.Period) (string, error) {
	name := fmt.Sprintf("yellow_tripdata_%s.csv", period)
	path := filepath.Join(s.rawDir, name)

	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(s.rawDir, 0o755); err != nil {
		return "", fmt.Errorf("tlc source: mkdir %s: %w", s.rawDir, err)
	}

	url := fmt.Sprintf("%s/%s", s.baseURL, name)
	s.log.Info(ctx, "downloading trip file", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("tlc source: build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", wrap.Error(ctx, fmt.Errorf("%w: %v", types.ErrSourceUnavailable, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", wrap.Error(ctx, fmt.Errorf("%w: GET %s: %s", types.ErrSourceUnavailable, url, resp.Status))
	}

	// Download to a temp file first so a torn download never poisons the cache.
	tmp, err := os.CreateTemp(s.rawDir, name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("tlc source: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("tlc source: download %s: %w", url, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("tlc source: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("tlc source: rename: %w", err)
	}

	return path, nil
}

// sample keeps sampleSize rows picked with a fixed seed. A prefix would bias
// the dataset toward the start of the month, so indices come from a seeded
// permutation instead.
func sample(df dataframe.DataFrame, sampleSize int) dataframe.DataFrame {
	n := df.Nrow()
	if sampleSize <= 0 || n <= sampleSize {
		return df
	}

	rng := rand.New(rand.NewSource(sampleSeed))
	idx := rng.Perm(n)[:sampleSize]
	sort.Ints(idx)
	return df.Subset(idx)
}

func toRawTrips(df dataframe.DataFrame) ([]models.RawTrip, error) {
	required := []string{
		"tpep_pickup_datetime", "tpep_dropoff_datetime",
		"PULocationID", "DOLocationID",
		"passenger_count", "trip_distance",
		"fare_amount", "tip_amount", "total_amount",
		"payment_type",
	}
	names := make(map[string]bool, len(df.Names()))
	for _, n := range df.Names() {
		names[n] = true
	}
	for _, col := range required {
		if !names[col] {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	pickup := df.Col("tpep_pickup_datetime")
	dropoff := df.Col("tpep_dropoff_datetime")
	puZone := df.Col("PULocationID")
	doZone := df.Col("DOLocationID")
	passengers := df.Col("passenger_count")
	distance := df.Col("trip_distance")
	fare := df.Col("fare_amount")
	tip := df.Col("tip_amount")
	total := df.Col("total_amount")
	payment := df.Col("payment_type")

	n := df.Nrow()
	trips := make([]models.RawTrip, 0, n)
	for i := 0; i < n; i++ {
		var t models.RawTrip

		// Unparsable timestamps stay zero-valued; the enrichment stage
		// drops and counts them.
		t.PickupAt, _ = time.Parse(pickupLayout, pickup.Elem(i).String())
		t.DropoffAt, _ = time.Parse(pickupLayout, dropoff.Elem(i).String())

		t.PULocationID, _ = puZone.Elem(i).Int()
		t.DOLocationID, _ = doZone.Elem(i).Int()
		t.PassengerCount, _ = passengers.Elem(i).Int()
		t.PaymentCode, _ = payment.Elem(i).Int()

		t.TripDistance = distance.Elem(i).Float()
		t.FareAmount = fare.Elem(i).Float()
		t.TipAmount = tip.Elem(i).Float()
		t.TotalAmount = total.Elem(i).Float()

		trips = append(trips, t)
	}
	return trips, nil
}
