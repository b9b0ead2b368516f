package log

import "testing"

func TestNewDefaultsToAppComponent(t *testing.T) {
	if got := New(Config{}).Component(); got != ComponentApp {
		t.Errorf("Component() = %q, want %q", got, ComponentApp)
	}
}

func TestLoggerStampsComponentField(t *testing.T) {
	l := New(Config{Component: ComponentWorker})

	args := l.withComponent([]any{"record_id", int64(7)})
	if len(args) != 4 {
		t.Fatalf("got %d args, want the component pair prepended to 2", len(args))
	}
	if args[0] != FieldComponent || args[1] != ComponentWorker {
		t.Errorf("leading pair = %v=%v, want %s=%s", args[0], args[1], FieldComponent, ComponentWorker)
	}
}

func TestWithComponent(t *testing.T) {
	l := New(Config{Component: ComponentApp})
	if got := l.WithComponent(ComponentWorker).Component(); got != ComponentWorker {
		t.Errorf("Component() = %q, want %q", got, ComponentWorker)
	}
	// The original logger keeps its own component.
	if got := l.Component(); got != ComponentApp {
		t.Errorf("original Component() = %q, want %q", got, ComponentApp)
	}
}
