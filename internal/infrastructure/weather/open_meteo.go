package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cottage-booking/config"

	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

type openMeteo struct {
	client *http.Client
	cfg    config.ForecastConfig
	log    *logrus.Logger
}

// NewOpenMeteo returns a Provider backed by the Open-Meteo forecast API.
func NewOpenMeteo(cfg config.ForecastConfig, log *logrus.Logger) Provider {
	return &openMeteo{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		log:    log,
	}
}

type forecastResponse struct {
	Daily struct {
		Time        []string   `json:"time"`
		WeatherCode []*int     `json:"weathercode"`
		MaxTemp     []*float64 `json:"temperature_2m_max"`
	} `json:"daily"`
}

func (o *openMeteo) Daily(ctx context.Context, from time.Time, days int) ([]Day, error) {
	if days <= 0 {
		return nil, nil
	}
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, days-1)

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(o.cfg.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(o.cfg.Longitude, 'f', -1, 64))
	q.Set("daily", "weathercode,temperature_2m_max")
	q.Set("timezone", o.cfg.Timezone)
	q.Set("start_date", start.Format(dateLayout))
	q.Set("end_date", end.Format(dateLayout))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.cfg.BaseURL+"/v1/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open-meteo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open-meteo: unexpected status %d", resp.StatusCode)
	}

	var body forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("open-meteo decode: %w", err)
	}

	daily := body.Daily
	out := make([]Day, 0, len(daily.Time))
	for i, raw := range daily.Time {
		if i >= len(daily.WeatherCode) || daily.WeatherCode[i] == nil {
			continue
		}
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			o.log.Warnf("Skipping forecast day %q: %v", raw, err)
			continue
		}
		if date.Before(start) || date.After(end) {
			continue
		}
		day := Day{Date: date, Code: *daily.WeatherCode[i]}
		if i < len(daily.MaxTemp) && daily.MaxTemp[i] != nil {
			day.MaxTempC = *daily.MaxTemp[i]
		}
		out = append(out, day)
	}

	o.log.Debugf("Forecast fetched: %d of %d days from %s", len(out), days, start.Format(dateLayout))
	return out, nil
}
