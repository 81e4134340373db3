package weather

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// User-facing messages produced by the lookup path.
const (
	MsgUnavailable    = "⚠ Сервис временно недоступен"
	providerErrPrefix = "🚫 Ошибка: "
)

var errMalformedLocalTime = errors.New("malformed localtime")

// ProviderErrorMessage renders a provider-reported error for the user.
func ProviderErrorMessage(msg string) string {
	return providerErrPrefix + msg
}

// Render formats a report as the multi-line chat reply.
// displayName overrides the provider's "name, country" label when not empty.
func Render(r Report, displayName string) (string, error) {
	clock, err := timeOfDay(r.LocalTime)
	if err != nil {
		return "", err
	}

	name := displayName
	if name == "" {
		name = fmt.Sprintf("%s, %s", r.Name, r.Country)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🌍 %s\n", name)
	fmt.Fprintf(&b, "📍 Координаты: %s\n", Coordinates(r.Lat, r.Lon))
	fmt.Fprintf(&b, "🕒 Местное время: %s\n\n", clock)
	fmt.Fprintf(&b, "🌡 Температура: %s°C\n", formatNumber(r.TemperatureC))
	fmt.Fprintf(&b, "☁️ Состояние: %s\n", r.Condition)
	fmt.Fprintf(&b, "💨 Ветер: %s км/ч\n", formatNumber(r.WindKph))
	fmt.Fprintf(&b, "💧 Влажность: %d%%", r.HumidityPct)
	return b.String(), nil
}

// Coordinates renders a lat/lon pair with four fixed decimals.
func Coordinates(lat, lon float64) string {
	return fmt.Sprintf("%.4f°N, %.4f°E", lat, lon)
}

// timeOfDay takes the second whitespace-separated token of the provider's
// "date time" string.
func timeOfDay(localtime string) (string, error) {
	fields := strings.Fields(localtime)
	if len(fields) < 2 {
		return "", fmt.Errorf("%w: %q", errMalformedLocalTime, localtime)
	}
	return fields[1], nil
}

// formatNumber prints whole values with one decimal (14.0) and everything
// else in shortest form (-3.5, 10.8).
func formatNumber(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
