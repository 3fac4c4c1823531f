package logger

import "testing"

func TestZerologLoggerMethods(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	l := NewZerologLogger("dispatch")
	if l == nil {
		t.Fatal("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"trip_id": "t1"})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLoggerLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	l := NewZerologLogger("dispatch")
	// Below-threshold calls must not panic even though they are dropped.
	l.Debugf("dropped")
	l.Infof("dropped")
	l.Warnf("kept")
}

func TestZerologLoggerBadLevelFallsBack(t *testing.T) {
	t.Setenv("LOG_LEVEL", "nonsense")
	l := NewZerologLogger("dispatch")
	l.Infof("still works")
}
