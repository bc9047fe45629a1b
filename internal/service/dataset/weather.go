package dataset

import (
	"math"
	"math/rand"

	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
)

// Weather model constants. The generator is synthetic but deterministic:
// the same period always produces the same map.
const (
	weatherSeed = 42

	baseTempF       = 35.0
	seasonalSwingF  = 30.0
	tempNoiseStdF   = 8.0
	tempSpreadF     = 12.0
	rainProbability = 0.15
	meanPrecipIn    = 0.3
)

// GenerateWeather builds one synthetic weather day per calendar date of the
// period: a seasonal temperature curve with seeded noise and an independent
// rain draw. Precipitation is only non-zero on rainy days.
func GenerateWeather(period models.Period) map[string]models.WeatherDay {
	rng := rand.New(rand.NewSource(weatherSeed))
	out := make(map[string]models.WeatherDay, period.Days())

	for day := period.Start(); day.Before(period.End()); day = day.AddDate(0, 0, 1) {
		doy := float64(day.YearDay())
		mean := baseTempF + seasonalSwingF*math.Sin(2*math.Pi*doy/365)
		mean += rng.NormFloat64() * tempNoiseStdF

		rainy := rng.Float64() < rainProbability
		var precip float64
		if rainy {
			precip = rng.ExpFloat64() * meanPrecipIn
		}

		key := models.DateKey(day)
		out[key] = models.WeatherDay{
			Date:                key,
			TempMinF:            mean - tempSpreadF/2,
			TempMaxF:            mean + tempSpreadF/2,
			Rainy:               rainy,
			PrecipitationInches: precip,
		}
	}
	return out
}
