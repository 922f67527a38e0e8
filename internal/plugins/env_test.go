package plugins

import "testing"

func TestAsBoolTruthyTokens(t *testing.T) {
	for _, value := range []string{"t", "true", "y", "yes", "on", "1", "TRUE", "Yes", " on "} {
		if !asBool(value) {
			t.Fatalf("asBool(%q) = false, want true", value)
		}
	}
	for _, value := range []string{"", "0", "false", "no", "off", "maybe", "2"} {
		if asBool(value) {
			t.Fatalf("asBool(%q) = true, want false", value)
		}
	}
}

func TestEnvBoolFallback(t *testing.T) {
	const name = "DDC_TEST_TOGGLE"
	if !envBool(name, true) {
		t.Fatalf("unset variable should resolve to the fallback")
	}
	t.Setenv(name, "no")
	if envBool(name, true) {
		t.Fatalf("explicit falsey value should win over the fallback")
	}
	t.Setenv(name, "yes")
	if !envBool(name, false) {
		t.Fatalf("truthy value should win over the fallback")
	}
}
