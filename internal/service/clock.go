package service

import "time"

// utcNow is the clock every service stamps rows with.
func utcNow() time.Time {
	return time.Now().UTC()
}
