package env

import "testing"

func TestGetFallsBackWhenBlank(t *testing.T) {
	t.Setenv("CANVASSHUB_TEST_VALUE", "  ")
	if got := Get("CANVASSHUB_TEST_VALUE", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv("CANVASSHUB_TEST_VALUE", "set")
	if got := Get("CANVASSHUB_TEST_VALUE", "fallback"); got != "set" {
		t.Fatalf("expected set, got %q", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("CANVASSHUB_TEST_FLAG", "true")
	if !Bool("CANVASSHUB_TEST_FLAG", false) {
		t.Fatal("expected true")
	}
	t.Setenv("CANVASSHUB_TEST_FLAG", "nope")
	if !Bool("CANVASSHUB_TEST_FLAG", true) {
		t.Fatal("expected fallback for malformed value")
	}
}
