package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ExamQuestionsKey returns the cache key for an exam's student-facing
// question payload (questions without correct answers).
func (r *CacheKeyStruct) ExamQuestionsKey(examID string) string {
	return fmt.Sprintf("exam:%s:questions", examID)
}

// AttemptMonitorChannel returns the Redis PubSub channel that carries
// live attempt activity events to admin monitors.
func (r *CacheKeyStruct) AttemptMonitorChannel() string {
	return "attempts:monitor"
}

var CacheKey = NewCacheKeyStruct()
