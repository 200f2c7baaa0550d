// Package examples implements the on-demand example sentence generator
// shown for senses that have no examples.
package examples

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/ziadkadry99/jisho/internal/dictionary"
	"github.com/ziadkadry99/jisho/internal/logging"
)

// ErrorMessage is shown after a failed generation.
const ErrorMessage = "Failed to generate example. Please try again."

var (
	// ErrPending is returned when a generation is already running.
	ErrPending = errors.New("example generation already in progress")
	// ErrListMode is returned once the widget shows examples.
	ErrListMode = errors.New("sense already has examples")

	errNoExample = errors.New("backend returned no example")
)

// Mode is what the widget displays.
type Mode int

const (
	// ModeGenerate shows the generate trigger.
	ModeGenerate Mode = iota
	// ModeList shows the examples.
	ModeList
)

func (m Mode) String() string {
	if m == ModeList {
		return "list"
	}
	return "generate"
}

// Generator creates one example sentence.
type Generator interface {
	GenerateExample(ctx context.Context, req dictionary.GenerateExampleRequest) (*dictionary.Example, error)
}

// View is what the widget renders.
type View struct {
	SenseID  string
	Mode     Mode
	Examples []dictionary.Example
	Pending  bool
	Error    string
}

// ShowTrigger reports whether the generate button is rendered.
func (v View) ShowTrigger() bool { return v.Mode == ModeGenerate }

// TriggerDisabled reports whether the generate button is disabled.
func (v View) TriggerDisabled() bool { return v.Pending }

// Widget is the example area of one sense. The mode only moves from
// generate to list.
type Widget struct {
	gen    Generator
	req    dictionary.GenerateExampleRequest
	logger *zap.Logger

	mu       sync.Mutex
	mode     Mode
	examples []dictionary.Example
	pending  bool
	errMsg   string
}

// NewWidget creates the widget for sense of the headword word. It starts in
// generate mode only when the sense has no examples.
func NewWidget(gen Generator, word string, sense dictionary.Sense, logger *zap.Logger) *Widget {
	w := &Widget{
		gen: gen,
		req: dictionary.GenerateExampleRequest{
			SenseID:    sense.ID,
			Word:       word,
			Definition: sense.DefinitionText(),
		},
		logger:   logging.OrNop(logger),
		examples: append([]dictionary.Example(nil), sense.Examples...),
	}
	if len(w.examples) > 0 {
		w.mode = ModeList
	}
	return w
}

// NewWidgetFromRequest creates a generate-mode widget for a sense known
// only by its generation request.
func NewWidgetFromRequest(gen Generator, req dictionary.GenerateExampleRequest, logger *zap.Logger) *Widget {
	return &Widget{gen: gen, req: req, logger: logging.OrNop(logger)}
}

// Generate requests one example. On success it is appended and the widget
// switches to list mode; on failure the error message is set and the
// trigger stays available. Calls while pending or in list mode are
// ignored and return ErrPending or ErrListMode.
func (w *Widget) Generate(ctx context.Context) error {
	w.mu.Lock()
	if w.mode == ModeList {
		w.mu.Unlock()
		return ErrListMode
	}
	if w.pending {
		w.mu.Unlock()
		return ErrPending
	}
	w.pending = true
	w.errMsg = ""
	req := w.req
	w.mu.Unlock()

	example, err := w.gen.GenerateExample(ctx, req)
	if err == nil && example == nil {
		err = errNoExample
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = false
	if err != nil {
		w.logger.Warn("generating example", zap.String("sense_id", req.SenseID), zap.Error(err))
		w.errMsg = ErrorMessage
		return err
	}
	w.examples = append(w.examples, *example)
	w.mode = ModeList
	return nil
}

// View returns what the widget currently shows.
func (w *Widget) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return View{
		SenseID:  w.req.SenseID,
		Mode:     w.mode,
		Examples: append([]dictionary.Example(nil), w.examples...),
		Pending:  w.pending,
		Error:    w.errMsg,
	}
}
