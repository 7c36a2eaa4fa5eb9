package model

// Rider is a passenger with fixed pickup and dropoff points. Riders never
// move; their locations are copied onto ride requests at creation time.
type Rider struct {
	ID      string   `json:"id"`
	Pickup  Location `json:"pickup"`
	Dropoff Location `json:"dropoff"`
}
