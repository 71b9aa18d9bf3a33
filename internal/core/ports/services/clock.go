package services

import "time"

// Clock supplies the current time in the configured business timezone.
// The legacy system hardcoded a fixed UTC offset; the timezone is explicit
// configuration here.
type Clock interface {
	Now() time.Time
}
