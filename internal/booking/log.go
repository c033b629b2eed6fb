package booking

import (
	"encoding/json"
	"log"
	"time"
)

// logEvent writes a single-line structured JSON log record.
func logEvent(eventType string, data map[string]interface{}) {
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	data["level"] = "info"
	data["component"] = "bookings"
	data["event_type"] = eventType

	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("[Bookings] Failed to marshal log event: %v", err)
		return
	}

	log.Println(string(jsonData))
}
