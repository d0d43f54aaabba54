package form

import (
	"fmt"
	"sync"

	"github.com/google/go-cmp/cmp"

	"github.com/comunavision/go-admin/pkg/schema"
)

// ChangeFunc observes the engine's value map after a mutation. It only fires
// when the map's content actually changed, so wiring it back into the code
// that feeds SetInitial cannot oscillate.
type ChangeFunc func(values map[string]any)

// Option configures an Engine.
type Option func(*Engine)

// WithInitial seeds the engine with an existing record's dynamic data.
func WithInitial(values map[string]any) Option {
	return func(e *Engine) {
		e.setInitialLocked(values)
	}
}

// WithChangeFunc registers the change observer.
func WithChangeFunc(fn ChangeFunc) Option {
	return func(e *Engine) {
		e.onChange = fn
	}
}

// Engine tracks one form's state against its field set. Values hold the
// typed representations ParseValue produces; the initial snapshot is kept for
// dirty detection and reset.
type Engine struct {
	mu       sync.Mutex
	fields   []schema.FieldDescriptor
	byKey    map[string]schema.FieldDescriptor
	values   map[string]any
	initial  map[string]any
	onChange ChangeFunc
}

// New builds an engine over the given field set.
func New(fields []schema.FieldDescriptor, options ...Option) *Engine {
	e := &Engine{
		fields:  append([]schema.FieldDescriptor(nil), fields...),
		byKey:   make(map[string]schema.FieldDescriptor, len(fields)),
		values:  map[string]any{},
		initial: map[string]any{},
	}
	for _, f := range fields {
		e.byKey[f.Key] = f
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Fields returns the engine's field set in render order.
func (e *Engine) Fields() []schema.FieldDescriptor {
	return append([]schema.FieldDescriptor(nil), e.fields...)
}

// SetInitial replaces the baseline snapshot and resets the working values to
// it. Re-sending a deep-equal snapshot is a no-op and never emits a change,
// which keeps a load→render→store round trip quiescent.
func (e *Engine) SetInitial(values map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cmp.Equal(e.initial, normalize(values)) {
		return
	}
	e.setInitialLocked(values)
}

func (e *Engine) setInitialLocked(values map[string]any) {
	e.initial = normalize(values)
	e.values = cloneMap(e.initial)
}

// Set parses one raw input and stores it under the field's key. Unknown keys
// are rejected; parse failures leave the stored value untouched.
func (e *Engine) Set(key, raw string) error {
	e.mu.Lock()
	field, ok := e.byKey[key]
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("form: campo desconocido %q", key)
	}
	value, err := ParseValue(field, raw)
	if err != nil {
		return err
	}
	e.SetRaw(key, value)
	return nil
}

// SetRaw stores an already-typed value. A write that leaves the map's deep
// content unchanged does not notify the observer.
func (e *Engine) SetRaw(key string, value any) {
	e.mu.Lock()
	before := cloneMap(e.values)
	e.values[key] = value
	changed := !cmp.Equal(before, e.values)
	snapshot := cloneMap(e.values)
	fn := e.onChange
	e.mu.Unlock()

	if changed && fn != nil {
		fn(snapshot)
	}
}

// Get returns the stored value for a key.
func (e *Engine) Get(key string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	value, ok := e.values[key]
	return value, ok
}

// Values returns a copy of the current working map, empties included.
func (e *Engine) Values() map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneMap(e.values)
}

// Clean returns the submit-ready map: the working values with empty entries
// pruned.
func (e *Engine) Clean() map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Prune(e.values)
}

// Dirty reports whether the working values differ from the initial snapshot
// once both are pruned. Typing and erasing a value leaves the form clean.
func (e *Engine) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !cmp.Equal(Prune(e.initial), Prune(e.values))
}

// Validate checks required fields against the pruned values and returns one
// error message per violation, keyed by field key and naming the display
// label.
func (e *Engine) Validate() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()

	clean := Prune(e.values)
	problems := map[string]string{}
	for _, field := range e.fields {
		if !field.Required || !field.Active {
			continue
		}
		if _, ok := clean[field.Key]; !ok {
			problems[field.Key] = fmt.Sprintf("%s es obligatorio", field.DisplayLabel())
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}

// Reset discards edits and returns to the initial snapshot.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.values = cloneMap(e.initial)
}

func cloneMap(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}

func normalize(values map[string]any) map[string]any {
	if values == nil {
		return map[string]any{}
	}
	return cloneMap(values)
}
