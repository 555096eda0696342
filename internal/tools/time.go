package tools

import "time"

// timeNow is a package-level variable for testability.
// Tests can replace this to control time in assertions.
// Same pattern as branchnote/time.go.
var timeNow = time.Now

// nowStamp is the human-facing timestamp written into rendered documents.
func nowStamp() string {
	return timeNow().Format("2006-01-02 15:04:05")
}
