package types

// Enum для типов оплаты.
// Raw source codes collapse to three categories: the source uses
// 1=credit card, 2=cash, 3=no charge, 4=dispute, 5=unknown.
type PaymentType string

const (
	PaymentCreditCard PaymentType = "credit_card"
	PaymentCash       PaymentType = "cash"
	PaymentOther      PaymentType = "other"
)

func (p PaymentType) String() string {
	return string(p)
}

// PaymentTypeFromCode maps a raw source payment code to the category enum.
func PaymentTypeFromCode(code int) PaymentType {
	switch code {
	case 1:
		return PaymentCreditCard
	case 2:
		return PaymentCash
	default:
		return PaymentOther
	}
}

// Enum для погодного флага записи.
// Unknown marks trips whose date has no weather-day entry after the left join.
type WeatherFlag string

const (
	WeatherClear   WeatherFlag = "clear"
	WeatherRainy   WeatherFlag = "rainy"
	WeatherUnknown WeatherFlag = "unknown"
)

// Enum для района города
type Borough string

const (
	BoroughManhattan    Borough = "Manhattan"
	BoroughBrooklyn     Borough = "Brooklyn"
	BoroughQueens       Borough = "Queens"
	BoroughBronx        Borough = "Bronx"
	BoroughStatenIsland Borough = "Staten Island"
	BoroughEWR          Borough = "EWR"
	BoroughUnknown      Borough = "Unknown"
)

// Filter selector values. "all" disables the dimension.
const (
	SelectorAll = "all"

	DayTypeWeekday = "weekday"
	DayTypeWeekend = "weekend"
)

// Enum для режима источника данных
type SourceMode string

const (
	SourceTLC      SourceMode = "tlc"
	SourcePostgres SourceMode = "postgres"
)
