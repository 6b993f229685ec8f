package logger

import "testing"

func TestNew_RejectsUnknownLevel(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNew_ConsoleDevelopment(t *testing.T) {
	l, err := New(Config{Development: true, Level: "debug", Encoding: "console", Service: "portfolio"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if !l.Core().Enabled(-1) {
		t.Fatal("expected debug level to be enabled")
	}
}

func TestL_FallsBackWithoutInit(t *testing.T) {
	if L() == nil {
		t.Fatal("expected a usable logger")
	}
	if Named("consumer") == nil {
		t.Fatal("expected a named logger")
	}
}
