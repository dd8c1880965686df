package models

import "time"

// EnvironmentReading is a single ambient measurement for a growing site.
// Readings are immutable and time-ordered; only the most recent one drives
// forecasting.
type EnvironmentReading struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Site        string    `bson:"site" json:"site"`
	Temperature float64   `bson:"temperature" json:"temperature"`
	Humidity    float64   `bson:"humidity" json:"humidity"`
	Moisture    float64   `bson:"moisture" json:"moisture"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
}
