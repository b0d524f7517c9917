package sqlguard

import (
	"testing"
)

func TestCheckParameter_CleanValues(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{name: "plain string", value: "12345"},
		{name: "name with apostrophe-free text", value: "Acme Corp"},
		{name: "integer", value: 42},
		{name: "float", value: 3.14},
		{name: "boolean", value: true},
		{name: "nil", value: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if check := CheckParameter("p", tt.value); check != nil {
				t.Errorf("expected clean, got fingerprint %s", check.Fingerprint)
			}
		})
	}
}

func TestCheckParameter_DetectsInjection(t *testing.T) {
	check := CheckParameter("search", "'; DROP TABLE users--")
	if check == nil {
		t.Fatal("expected injection to be detected")
	}
	if check.ParamName != "search" {
		t.Errorf("expected param name preserved, got %q", check.ParamName)
	}
	if check.Fingerprint == "" {
		t.Error("expected a libinjection fingerprint")
	}
}

func TestCheckParameters_ReportsOnlyFailures(t *testing.T) {
	params := map[string]any{
		"customer_id": "12345",
		"search":      "' OR 1=1 --",
		"limit":       100,
	}

	failures := CheckParameters(params)
	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failures))
	}
	if failures[0].ParamName != "search" {
		t.Errorf("expected failure on 'search', got %q", failures[0].ParamName)
	}
}

func TestCheckParameters_EmptySet(t *testing.T) {
	if failures := CheckParameters(nil); len(failures) != 0 {
		t.Errorf("expected no failures for empty set, got %d", len(failures))
	}
}
