package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnexpectedStatus is returned when the upstream answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrDecode is returned when the response body is not the expected JSON.
	ErrDecode = errors.New("decode response body")
)

// StatusError carries the status code of a rejected response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s for url: %s", e.Code, http.StatusText(e.Code), e.URL)
}

// Is lets errors.Is(err, ErrUnexpectedStatus) match any StatusError.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}
