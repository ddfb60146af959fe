package council

import (
	"fmt"
	"regexp"
)

// Redis key pattern helpers
//
// All Redis keys and Pub/Sub channels are namespaced by instance name to
// enable multiple Moot instances to safely coexist on a single Redis server.
//
// Key pattern: moot:{instance_name}:{entity}:{id}
// Channel pattern: moot:{instance_name}:{event_type}_events

const (
	// MaxInstanceNameLength is the maximum length for an instance name (DNS-compatible)
	MaxInstanceNameLength = 63
)

var (
	// instanceNamePattern is the regex pattern for valid instance names.
	// Must be DNS-compatible: lowercase alphanumeric, hyphens allowed (but not at start/end).
	instanceNamePattern = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)
)

// ValidateInstanceName checks if an instance name is valid according to DNS naming rules.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("instance name cannot be empty")
	}

	if len(name) > MaxInstanceNameLength {
		return fmt.Errorf("instance name too long: %d characters (max: %d)", len(name), MaxInstanceNameLength)
	}

	if !instanceNamePattern.MatchString(name) {
		return fmt.Errorf("invalid instance name '%s': must be lowercase alphanumeric with hyphens (not at start/end)", name)
	}

	return nil
}

// SessionKey returns the Redis key for a session's StageState hash.
// Pattern: moot:{instance_name}:session:{session_id}
func SessionKey(instanceName, sessionID string) string {
	return fmt.Sprintf("moot:%s:session:%s", instanceName, sessionID)
}

// SessionIndexKey returns the Redis key for the set of all session IDs.
// Pattern: moot:{instance_name}:sessions
func SessionIndexKey(instanceName string) string {
	return fmt.Sprintf("moot:%s:sessions", instanceName)
}

// ProgressEventsChannel returns the Pub/Sub channel name for progress events.
// The pipeline publishes here at every stage and debate-round boundary.
// Pattern: moot:{instance_name}:progress_events
func ProgressEventsChannel(instanceName string) string {
	return fmt.Sprintf("moot:%s:progress_events", instanceName)
}
