package docker

import (
	"fmt"

	"github.com/google/uuid"
)

// Label keys used for DogRoom containers
const (
	LabelProject      = "dogroom.project"
	LabelInstanceName = "dogroom.instance.name"
	LabelRunID        = "dogroom.instance.run_id"
	LabelComponent    = "dogroom.component"
	LabelRedisPort    = "dogroom.redis.port"
)

// ComponentRedis is the component label value of the Redis container.
const ComponentRedis = "redis"

// BuildLabels creates the standard label set for DogRoom containers.
// component may be empty.
func BuildLabels(instanceName, runID, component string) map[string]string {
	labels := map[string]string{
		LabelProject:      "true",
		LabelInstanceName: instanceName,
		LabelRunID:        runID,
	}

	if component != "" {
		labels[LabelComponent] = component
	}

	return labels
}

// GenerateRunID creates a new UUID for a container run.
func GenerateRunID() string {
	return uuid.New().String()
}

// RedisContainerName returns the Redis container name for an instance
func RedisContainerName(instanceName string) string {
	return fmt.Sprintf("dogroom-redis-%s", instanceName)
}
