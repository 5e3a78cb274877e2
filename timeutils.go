package drivetelemetry

import (
	"time"
)

func iso8601Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
