package monitoring

import (
	"testing"
)

func TestSetLogger(t *testing.T) {
	// Save original logger
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	// Now set to nil and verify it doesn't call our logger
	called = false
	SetLogger(nil)
	Logf("test")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestDebugf_GatedByDiagnostics(t *testing.T) {
	original := Logf
	defer func() {
		Logf = original
		SetDiagnostics(false)
	}()

	lines := 0
	SetLogger(func(string, ...interface{}) { lines++ })

	SetDiagnostics(false)
	Debugf("[Grid] quiet %d", 1)
	if lines != 0 {
		t.Fatalf("Debugf logged %d lines with diagnostics disabled", lines)
	}

	SetDiagnostics(true)
	if !DiagnosticsEnabled() {
		t.Fatal("DiagnosticsEnabled() = false after SetDiagnostics(true)")
	}
	Debugf("[Grid] loud %d", 2)
	if lines != 1 {
		t.Fatalf("Debugf logged %d lines with diagnostics enabled, want 1", lines)
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logf panicked: %v", r)
		}
	}()

	Logf("test message: %s", "value")
}
