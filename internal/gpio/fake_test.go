package gpio

import (
	"errors"
	"testing"
)

func TestFakeInputGet(t *testing.T) {
	f := NewFakeInput(true, false, true)

	want := []bool{true, false, true, true} // last sample repeats
	for i, w := range want {
		got, err := f.Get()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if got != w {
			t.Errorf("sample %d: expected %v, got %v", i, w, got)
		}
	}
}

func TestFakeInputNoSamplesUsesHigh(t *testing.T) {
	f := NewFakeInput()

	got, _ := f.Get()
	if got {
		t.Error("expected low by default")
	}

	f.High = true
	got, _ = f.Get()
	if !got {
		t.Error("expected high after setting High")
	}
}

func TestFakeInputError(t *testing.T) {
	f := NewFakeInput(true)
	f.ReadError = errors.New("simulated error")

	_, err := f.Get()
	if err == nil || err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeInputReset(t *testing.T) {
	f := NewFakeInput(true, false)
	f.Get()
	f.Reset()

	got, _ := f.Get()
	if !got {
		t.Error("after reset: expected first sample (true)")
	}
}

func TestFakeOutputRecordsHistory(t *testing.T) {
	f := NewFakeOutput()
	for _, h := range []bool{false, true, true, false, true} {
		if err := f.Set(h); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if !f.High {
		t.Error("expected final level high")
	}
	if len(f.History) != 5 {
		t.Fatalf("expected 5 history entries, got %d", len(f.History))
	}
	if got := f.Rising(); got != 2 {
		t.Errorf("expected 2 rising edges, got %d", got)
	}
}

func TestFakeOutputError(t *testing.T) {
	f := NewFakeOutput()
	f.SetError = errors.New("stuck")

	if err := f.Set(true); err == nil {
		t.Error("expected error")
	}
	if f.High {
		t.Error("level should be unchanged after failed Set")
	}
}

func TestFakeOutputOnSet(t *testing.T) {
	var seen []bool
	f := &FakeOutput{OnSet: func(h bool) { seen = append(seen, h) }}

	f.Set(true)
	f.Set(false)

	if len(seen) != 2 || !seen[0] || seen[1] {
		t.Errorf("unexpected OnSet calls: %v", seen)
	}
	if len(f.History) != 0 {
		t.Error("history should stay empty when Record is false")
	}
}

func TestFakePinsRejectsDirectionConflict(t *testing.T) {
	p := NewFakePins()

	if _, err := p.Output(5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Input(5); err == nil {
		t.Error("expected error requesting output pin as input")
	}

	if _, err := p.Input(6); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Output(6); err == nil {
		t.Error("expected error requesting input pin as output")
	}
}

func TestFakePinsReturnsSameLine(t *testing.T) {
	p := NewFakePins()

	a, _ := p.Output(17)
	b, _ := p.Output(17)
	if a != b {
		t.Error("expected the same output for the same pin")
	}

	a.Set(true)
	if !p.Outputs[17].High {
		t.Error("expected write visible through Outputs map")
	}
}

func TestFakePinsClose(t *testing.T) {
	p := NewFakePins()
	if err := p.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Closed {
		t.Error("should be closed after Close()")
	}
	if err := p.Close(); err == nil {
		t.Error("expected error on second Close()")
	}
}
