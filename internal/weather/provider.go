package weather

import (
	"context"
	"fmt"
)

// Provider abstracts a current-conditions weather source (e.g. WeatherAPI).
type Provider interface {
	Name() string
	Current(ctx context.Context, location string) (Report, error)
}

// ProviderError is an error reported by the provider itself in the response
// body, such as an unknown location. It is shown to the user verbatim.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}
