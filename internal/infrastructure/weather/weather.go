package weather

import (
	"context"
	"time"
)

// Day is the daily forecast for one calendar date (UTC midnight).
type Day struct {
	Date     time.Time
	Code     int
	MaxTempC float64
}

// Sunny reports clear, mainly clear or partly cloudy skies (WMO codes 0-2).
func (d Day) Sunny() bool {
	return d.Code >= 0 && d.Code <= 2
}

// Icon names the pictogram used for the code in emails.
func (d Day) Icon() string {
	switch {
	case d.Code == 0:
		return "sun"
	case d.Code <= 2:
		return "partcloud"
	case d.Code == 3 || d.Code == 45 || d.Code == 48:
		return "cloud"
	case d.Code >= 51 && d.Code <= 65, d.Code >= 80 && d.Code <= 82:
		return "rain"
	default:
		return "storm"
	}
}

// Provider returns daily forecasts for days consecutive dates starting at from.
// Dates the provider has no data for are omitted.
type Provider interface {
	Daily(ctx context.Context, from time.Time, days int) ([]Day, error)
}
