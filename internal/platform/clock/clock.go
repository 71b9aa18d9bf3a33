package clock

import (
	"fmt"
	"time"
)

// BusinessClock reports the current time in a configured business timezone.
// It implements the services.Clock port.
type BusinessClock struct {
	loc *time.Location
}

// New creates a BusinessClock for the given IANA timezone name. An empty
// name means UTC.
func New(timezone string) (*BusinessClock, error) {
	if timezone == "" {
		return &BusinessClock{loc: time.UTC}, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid business timezone %q: %w", timezone, err)
	}
	return &BusinessClock{loc: loc}, nil
}

// Now returns the current time in the business timezone.
func (c *BusinessClock) Now() time.Time {
	return time.Now().In(c.loc)
}
