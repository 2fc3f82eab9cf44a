package shutdown

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestRegistry_Order(t *testing.T) {
	r := NewRegistry()
	var order []string
	add := func(name string, prio int) {
		r.Register(name, prio, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}
	add("logger", PriorityLogger)
	add("arena", PriorityNative)
	add("temp", PriorityFiles)
	add("arena-2", PriorityNative)

	want := []string{"arena", "arena-2", "temp", "logger"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if errs := r.Run(context.Background()); len(errs) != 0 {
		t.Errorf("Run() errors = %v", errs)
	}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("ran %v, want %v", order, want)
	}
}

func TestRegistry_ErrorsDoNotStopLaterHandlers(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	ranLast := false
	r.Register("arena", PriorityNative, func(context.Context) error { return boom })
	r.Register("logger", PriorityLogger, func(context.Context) error { ranLast = true; return nil })

	errs := r.Run(context.Background())
	if len(errs) != 1 || !errors.Is(errs[0], boom) || !strings.HasPrefix(errs[0].Error(), "arena: ") {
		t.Errorf("Run() errors = %v", errs)
	}
	if !ranLast {
		t.Error("handler after a failure did not run")
	}
}

func TestRegistry_RunOnce(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Register("x", 0, func(context.Context) error { calls++; return nil })

	r.Run(context.Background())
	r.Run(context.Background())
	r.Register("late", 0, func(context.Context) error { calls++; return nil })

	if calls != 1 {
		t.Errorf("handlers ran %d times, want 1", calls)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, registration after Run should be ignored", r.Len())
	}
}
