package tlc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
	"github.com/Temutjin2k/taxi-pulse/pkg/logger"
)

const sampleCSV = `tpep_pickup_datetime,tpep_dropoff_datetime,PULocationID,DOLocationID,passenger_count,trip_distance,fare_amount,tip_amount,total_amount,payment_type
2024-01-05 09:15:00,2024-01-05 09:35:00,161,237,1,3.2,15.5,3.0,18.5,1
2024-01-06 18:00:00,2024-01-06 18:40:00,132,161,2,11.0,42.0,0.0,42.0,2
2024-01-07 23:30:00,2024-01-08 00:05:00,7,33,1,6.5,28.0,5.0,33.0,1
`

func TestToRawTrips(t *testing.T) {
	df := dataframe.ReadCSV(strings.NewReader(sampleCSV))
	if df.Error() != nil {
		t.Fatalf("ReadCSV: %v", df.Error())
	}

	trips, err := toRawTrips(df)
	if err != nil {
		t.Fatalf("toRawTrips: %v", err)
	}
	if len(trips) != 3 {
		t.Fatalf("got %d trips, want 3", len(trips))
	}

	first := trips[0]
	wantPickup := time.Date(2024, 1, 5, 9, 15, 0, 0, time.UTC)
	if !first.PickupAt.Equal(wantPickup) {
		t.Errorf("PickupAt = %v, want %v", first.PickupAt, wantPickup)
	}
	if first.PULocationID != 161 || first.DOLocationID != 237 {
		t.Errorf("zones = %d/%d, want 161/237", first.PULocationID, first.DOLocationID)
	}
	if first.FareAmount != 15.5 || first.TipAmount != 3.0 {
		t.Errorf("fare/tip = %v/%v", first.FareAmount, first.TipAmount)
	}
	if first.PaymentCode != 1 || trips[1].PaymentCode != 2 {
		t.Errorf("payment codes = %d/%d", first.PaymentCode, trips[1].PaymentCode)
	}
}

func TestToRawTrips_MissingColumn(t *testing.T) {
	df := dataframe.ReadCSV(strings.NewReader("a,b\n1,2\n"))
	if _, err := toRawTrips(df); err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func TestSample_Deterministic(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("x\n")
	for i := 0; i < 100; i++ {
		sb.WriteString("1\n")
	}
	df := dataframe.ReadCSV(strings.NewReader(sb.String()))

	a := sample(df, 10)
	b := sample(df, 10)
	if a.Nrow() != 10 || b.Nrow() != 10 {
		t.Fatalf("sample sizes %d/%d, want 10", a.Nrow(), b.Nrow())
	}
	if !reflect.DeepEqual(a.Records(), b.Records()) {
		t.Fatal("same input sampled differently")
	}
}

func TestSample_SmallInputUntouched(t *testing.T) {
	df := dataframe.ReadCSV(strings.NewReader("x\n1\n2\n"))
	if got := sample(df, 10).Nrow(); got != 2 {
		t.Fatalf("got %d rows, want all 2", got)
	}
}

func TestLoadTrips_DownloadAndCache(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if !strings.HasSuffix(r.URL.Path, "yellow_tripdata_2024-01.csv") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	rawDir := t.TempDir()
	src := New(srv.URL, rawDir, 5*time.Second, logger.InitLogger("tlc-test", "error"))
	period := models.Period{Year: 2024, Month: time.January}

	trips, err := src.LoadTrips(context.Background(), period, 1000)
	if err != nil {
		t.Fatalf("LoadTrips: %v", err)
	}
	if len(trips) != 3 {
		t.Fatalf("got %d trips, want 3", len(trips))
	}
	if _, err := os.Stat(filepath.Join(rawDir, "yellow_tripdata_2024-01.csv")); err != nil {
		t.Fatalf("raw file not cached: %v", err)
	}

	// Second load hits the disk cache, not the server.
	if _, err := src.LoadTrips(context.Background(), period, 1000); err != nil {
		t.Fatalf("second LoadTrips: %v", err)
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}
}

func TestLoadTrips_SourceDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src := New(srv.URL, t.TempDir(), time.Second, logger.InitLogger("tlc-test", "error"))
	_, err := src.LoadTrips(context.Background(), models.Period{Year: 2024, Month: time.January}, 10)
	if err == nil {
		t.Fatal("expected error when the source is down")
	}
}
