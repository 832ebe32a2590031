package client

import (
	"fmt"
	"net/http"
)

// StatusError reports a non-2xx answer from a service.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("client: %s returned %d %s", e.Endpoint, e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("client: %s returned %d %s: %s", e.Endpoint, e.Code, http.StatusText(e.Code), e.Body)
}
