//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// Technician is a tradesperson that can be matched to jobs.
type Technician struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	SignedUp  *bool     `json:"signed_up,omitempty"`
	Trade     string    `json:"trade"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	RadiusMi  float64   `json:"service_radius_miles"`
	CreatedAt time.Time `json:"created_at"`
}
