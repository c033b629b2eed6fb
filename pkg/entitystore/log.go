package entitystore

import (
	"encoding/json"
	"log"
	"time"
)

// logEvent writes a single-line structured JSON log record.
func logEvent(eventType string, data map[string]interface{}) {
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	if _, ok := data["level"]; !ok {
		data["level"] = "info"
	}
	data["component"] = "entitystore"
	data["event_type"] = eventType

	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("[EntityStore] Failed to marshal log event: %v", err)
		return
	}

	log.Println(string(jsonData))
}
