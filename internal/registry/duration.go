package registry

import "time"

func microsecondsToDuration(us int) time.Duration {
	return time.Duration(us) * time.Microsecond
}
