package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLoggerCaptures(t *testing.T) {
	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})
	defer SetLogger(nil)

	Logf("jam after %d ticks", 240)
	if got != "jam after 240 ticks" {
		t.Errorf("captured %q", got)
	}
}

func TestSetLoggerNilIsNoop(t *testing.T) {
	SetLogger(nil)
	// Must not panic.
	Logf("dropped %v", struct{}{})
}
