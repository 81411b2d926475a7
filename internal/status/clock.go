package status

import "time"

// Clock - источник времени для кулдауна и кэша, в тестах подменяется.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
