package cache

import (
	"strconv"
	"strings"
)

const (
	GlobalKeyPrefix = "exforge"
)

// GenerateCacheKey builds prefix:service:type:id, with paramsKey joined by "_" as
// an optional last segment.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// SessionKey holds the submission hash of one learner session.
func SessionKey(sessionID string) string {
	return GenerateCacheKey("exercise", "session", sessionID)
}

// CompletionKey holds a cached model completion for one request shape.
func CompletionKey(kind, knowledgePointHash string, count int) string {
	return GenerateCacheKey("proxy", "completion", kind, knowledgePointHash, strconv.Itoa(count))
}
