package instance

import "os"

const fallbackID = "local"

// ID names the running process in logs. DYNO wins when set, then the
// hostname, then "local".
func ID() string {
	if id := os.Getenv("DYNO"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallbackID
}
