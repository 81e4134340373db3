package weather

// Query identifies a place to look up.
// Location is sent to the provider as is; DisplayName, when set, replaces
// the provider's own "name, country" label in the rendered report.
type Query struct {
	Location    string `json:"location"`
	DisplayName string `json:"displayName,omitempty"`
}

// Report is the current-conditions view of a location as returned by a provider.
type Report struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	LocalTime string  `json:"localtime"` // provider format, "2006-01-02 15:04"

	TemperatureC float64 `json:"tempC"`
	Condition    string  `json:"condition"`
	WindKph      float64 `json:"windKph"`
	HumidityPct  int     `json:"humidity"`
}
