package configs

// GA4 configures the Google Analytics 4 Measurement Protocol click
// forwarder. Forwarding is off unless both credentials are provided.
type GA4 struct {
	// MeasurementID is the GA4 data stream measurement id (G-XXXXXXX).
	MeasurementID string `env:"MEASUREMENT_ID"`
	// APISecret is the Measurement Protocol API secret of the stream.
	APISecret string `env:"API_SECRET"`
	// Endpoint is the Measurement Protocol collection endpoint.
	Endpoint string `env:"ENDPOINT" envDefault:"https://www.google-analytics.com/mp/collect"`
}

// Enabled reports whether click forwarding to GA4 is configured.
func (c GA4) Enabled() bool {
	return c.MeasurementID != "" && c.APISecret != ""
}
