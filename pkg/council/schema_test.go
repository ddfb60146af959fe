package council

import (
	"strings"
	"testing"
)

// TestSessionKey tests session key generation
func TestSessionKey(t *testing.T) {
	key := SessionKey("default", "abc-123")
	expected := "moot:default:session:abc-123"
	if key != expected {
		t.Errorf("expected %q, got %q", expected, key)
	}
}

// TestSessionIndexKey tests session index key generation
func TestSessionIndexKey(t *testing.T) {
	key := SessionIndexKey("default")
	expected := "moot:default:sessions"
	if key != expected {
		t.Errorf("expected %q, got %q", expected, key)
	}
}

// TestProgressEventsChannel tests progress channel naming
func TestProgressEventsChannel(t *testing.T) {
	channel := ProgressEventsChannel("prod-1")
	expected := "moot:prod-1:progress_events"
	if channel != expected {
		t.Errorf("expected %q, got %q", expected, channel)
	}
}

// TestKeyIsolation verifies different instances produce disjoint keys
func TestKeyIsolation(t *testing.T) {
	a := SessionKey("instance-a", "same-id")
	b := SessionKey("instance-b", "same-id")
	if a == b {
		t.Error("keys for different instances must differ")
	}
}

// TestValidateInstanceName tests DNS-compatible naming rules
func TestValidateInstanceName(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple lowercase", "default", false},
		{"with hyphens", "prod-us-east-1", false},
		{"single character", "a", false},
		{"numeric", "123", false},
		{"empty", "", true},
		{"uppercase", "Default", true},
		{"leading hyphen", "-default", true},
		{"trailing hyphen", "default-", true},
		{"underscore", "my_instance", true},
		{"too long", strings.Repeat("a", MaxInstanceNameLength+1), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateInstanceName(tc.input)
			if tc.wantErr && err == nil {
				t.Errorf("expected error for %q, got nil", tc.input)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("expected %q to be valid, got: %v", tc.input, err)
			}
		})
	}
}
