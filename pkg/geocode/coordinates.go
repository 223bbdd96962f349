package geocode

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Coordinates is a point on the globe as returned by the provider, untouched.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// Validate reports whether both values are within their geographic range.
func (c Coordinates) Validate() error {
	return validate.Struct(c)
}
