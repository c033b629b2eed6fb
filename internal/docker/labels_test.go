package docker

import (
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLabels(t *testing.T) {
	labels := BuildLabels("prod", "test-run-123", ComponentRedis)

	assert.Equal(t, "true", labels[LabelProject])
	assert.Equal(t, "prod", labels[LabelInstanceName])
	assert.Equal(t, "test-run-123", labels[LabelRunID])
	assert.Equal(t, ComponentRedis, labels[LabelComponent])
	assert.Len(t, labels, 4)
}

func TestBuildLabels_NoComponent(t *testing.T) {
	labels := BuildLabels("dev", "test-run-456", "")

	assert.NotContains(t, labels, LabelComponent)
	assert.Len(t, labels, 3)
}

func TestGenerateRunID(t *testing.T) {
	runID1 := GenerateRunID()
	runID2 := GenerateRunID()

	_, err := uuid.Parse(runID1)
	assert.NoError(t, err)
	assert.NotEqual(t, runID1, runID2)
}

func TestRedisContainerName(t *testing.T) {
	assert.Equal(t, "dogroom-redis-default", RedisContainerName("default"))
}

func TestRedisPortLabel(t *testing.T) {
	port, ok := redisPortLabel(map[string]string{LabelRedisPort: "6380"})
	assert.True(t, ok)
	assert.Equal(t, 6380, port)

	_, ok = redisPortLabel(map[string]string{LabelRedisPort: "abc"})
	assert.False(t, ok)

	_, ok = redisPortLabel(map[string]string{})
	assert.False(t, ok)
}

func TestIsPortBindable(t *testing.T) {
	listener, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	defer listener.Close()

	port := listener.Addr().(*net.TCPAddr).Port
	assert.False(t, isPortBindable(port))
}

func TestRedisURL(t *testing.T) {
	url := RedisURL(6390)
	assert.Contains(t, url, "redis://")
	assert.Contains(t, url, ":6390")
	assert.Equal(t, url, RedisContainer{Port: 6390}.URL())
}
