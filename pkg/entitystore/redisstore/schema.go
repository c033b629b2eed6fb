package redisstore

import (
	"fmt"
	"strings"
)

// Redis key pattern helpers
//
// All keys are namespaced by instance name so several DogRoom deployments can
// share one Redis server without interference.
//
// Key pattern: dogroom:{instance_name}:{kind}:...

// RecordKey returns the Redis key holding one JSON record.
// Pattern: dogroom:{instance_name}:record:{entity}:{id}
func RecordKey(instanceName, entity, id string) string {
	return fmt.Sprintf("dogroom:%s:record:%s:%s", instanceName, entity, id)
}

// RecordKeyPrefix returns the common prefix of all record keys of an entity type.
// Pattern: dogroom:{instance_name}:record:{entity}:
func RecordKeyPrefix(instanceName, entity string) string {
	return fmt.Sprintf("dogroom:%s:record:%s:", instanceName, entity)
}

// IndexKey returns the Redis key for an index ZSET.
// Members are record ids, scores their insertion sequence.
// Pattern: dogroom:{instance_name}:index:{index_name}
func IndexKey(instanceName, indexName string) string {
	return fmt.Sprintf("dogroom:%s:index:%s", instanceName, indexName)
}

// IndexSeqKey returns the Redis key of an index's insertion counter.
// Pattern: dogroom:{instance_name}:index:{index_name}:seq
func IndexSeqKey(instanceName, indexName string) string {
	return fmt.Sprintf("dogroom:%s:index:%s:seq", instanceName, indexName)
}

// SeededKey returns the Redis key of the seeded marker for an entity type.
// Pattern: dogroom:{instance_name}:seeded:{entity}
func SeededKey(instanceName, entity string) string {
	return fmt.Sprintf("dogroom:%s:seeded:%s", instanceName, entity)
}

// LockKey returns the Redis key of a named lease lock.
// Pattern: dogroom:{instance_name}:lock:{name}
func LockKey(instanceName, name string) string {
	return fmt.Sprintf("dogroom:%s:lock:%s", instanceName, name)
}

// escapeGlob escapes the characters SCAN MATCH treats specially.
func escapeGlob(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return r.Replace(s)
}
