package weather

import "errors"

// ErrNoData is returned when the response carries no observation.
var ErrNoData = errors.New("weather response has no observations")
