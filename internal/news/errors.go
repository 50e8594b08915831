package news

import "errors"

// ErrMalformedResponse is returned when the response lacks the data array.
var ErrMalformedResponse = errors.New("news response has no data array")
