package examples

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ziadkadry99/jisho/internal/dictionary"
)

type generatorFunc func(ctx context.Context, req dictionary.GenerateExampleRequest) (*dictionary.Example, error)

func (f generatorFunc) GenerateExample(ctx context.Context, req dictionary.GenerateExampleRequest) (*dictionary.Example, error) {
	return f(ctx, req)
}

var rainSense = dictionary.Sense{ID: "s1", Definitions: []string{"rain", "rainfall"}}

var rainExample = dictionary.Example{
	ID: "x1", SentenceJa: "雨が降っている。", SentenceRomaji: "ame ga futte iru.", SentenceEn: "It is raining.",
}

func TestNewWidgetMode(t *testing.T) {
	w := NewWidget(nil, "雨", rainSense, nil)
	if v := w.View(); v.Mode != ModeGenerate || !v.ShowTrigger() {
		t.Errorf("expected generate mode for a sense without examples, got %s", v.Mode)
	}

	withExamples := rainSense
	withExamples.Examples = []dictionary.Example{rainExample}
	w = NewWidget(nil, "雨", withExamples, nil)
	if v := w.View(); v.Mode != ModeList || v.ShowTrigger() {
		t.Errorf("expected list mode for a sense with examples, got %s", v.Mode)
	}
}

func TestGenerateSuccess(t *testing.T) {
	var got dictionary.GenerateExampleRequest
	gen := generatorFunc(func(ctx context.Context, req dictionary.GenerateExampleRequest) (*dictionary.Example, error) {
		got = req
		ex := rainExample
		return &ex, nil
	})
	w := NewWidget(gen, "雨", rainSense, nil)

	if err := w.Generate(t.Context()); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := dictionary.GenerateExampleRequest{SenseID: "s1", Word: "雨", Definition: "rain; rainfall"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}

	v := w.View()
	if v.Mode != ModeList || v.ShowTrigger() {
		t.Errorf("expected list mode without trigger, got %s", v.Mode)
	}
	if diff := cmp.Diff([]dictionary.Example{rainExample}, v.Examples); diff != "" {
		t.Errorf("examples mismatch (-want +got):\n%s", diff)
	}

	if err := w.Generate(t.Context()); !errors.Is(err, ErrListMode) {
		t.Errorf("expected ErrListMode once in list mode, got %v", err)
	}
	if n := len(w.View().Examples); n != 1 {
		t.Errorf("expected exactly one example, got %d", n)
	}
}

func TestGenerateFailureThenRetry(t *testing.T) {
	fail := true
	gen := generatorFunc(func(ctx context.Context, req dictionary.GenerateExampleRequest) (*dictionary.Example, error) {
		if fail {
			return nil, errors.New("backend returned status 500")
		}
		ex := rainExample
		return &ex, nil
	})
	w := NewWidget(gen, "雨", rainSense, nil)

	if err := w.Generate(t.Context()); err == nil {
		t.Fatal("expected failure")
	}
	v := w.View()
	if v.Error != ErrorMessage {
		t.Errorf("expected error message %q, got %q", ErrorMessage, v.Error)
	}
	if v.Mode != ModeGenerate || !v.ShowTrigger() || v.TriggerDisabled() {
		t.Errorf("expected an enabled trigger after failure, got %+v", v)
	}

	fail = false
	if err := w.Generate(t.Context()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	v = w.View()
	if v.Error != "" {
		t.Errorf("expected error cleared, got %q", v.Error)
	}
	if v.Mode != ModeList || len(v.Examples) != 1 {
		t.Errorf("expected one example in list mode, got %+v", v)
	}
}

func TestGenerateNilExampleIsFailure(t *testing.T) {
	gen := generatorFunc(func(ctx context.Context, req dictionary.GenerateExampleRequest) (*dictionary.Example, error) {
		return nil, nil
	})
	w := NewWidget(gen, "雨", rainSense, nil)

	if err := w.Generate(t.Context()); err == nil {
		t.Fatal("expected failure for an empty response")
	}
	if v := w.View(); v.Error != ErrorMessage || v.Mode != ModeGenerate {
		t.Errorf("unexpected view %+v", v)
	}
}

func TestGeneratePendingIgnoresSecondTrigger(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	gen := generatorFunc(func(ctx context.Context, req dictionary.GenerateExampleRequest) (*dictionary.Example, error) {
		calls++
		close(started)
		<-release
		ex := rainExample
		return &ex, nil
	})
	w := NewWidget(gen, "雨", rainSense, nil)

	done := make(chan error, 1)
	go func() { done <- w.Generate(t.Context()) }()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("generation never started")
	}

	v := w.View()
	if !v.Pending || !v.TriggerDisabled() {
		t.Errorf("expected a disabled trigger while pending, got %+v", v)
	}
	if err := w.Generate(t.Context()); !errors.Is(err, ErrPending) {
		t.Errorf("expected ErrPending, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected one backend call, got %d", calls)
	}
	if v := w.View(); v.Pending || len(v.Examples) != 1 {
		t.Errorf("unexpected view after completion %+v", v)
	}
}

func TestNewWidgetFromRequest(t *testing.T) {
	req := dictionary.GenerateExampleRequest{SenseID: "s9", Word: "雪", Definition: "snow"}
	w := NewWidgetFromRequest(nil, req, nil)
	v := w.View()
	if v.SenseID != "s9" || v.Mode != ModeGenerate {
		t.Errorf("unexpected view %+v", v)
	}
}
