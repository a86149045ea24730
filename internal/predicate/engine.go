// internal/predicate/engine.go
package predicate

import "sync"

// Engine compiles trigger conditions once and evaluates them against state
// snapshots. Programs are cached by canonical text. Safe for concurrent use.
type Engine struct {
	mu       sync.RWMutex
	programs map[string]*Program
}

// NewEngine creates an engine with an empty program cache.
func NewEngine() *Engine {
	return &Engine{programs: make(map[string]*Program)}
}

// Program returns the cached program for text, compiling it on first use.
// Compilation failures are not cached.
func (e *Engine) Program(text string) (*Program, error) {
	e.mu.RLock()
	p, ok := e.programs[text]
	e.mu.RUnlock()
	if ok {
		return p, nil
	}

	p, err := NewProgram(text)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if cached, ok := e.programs[text]; ok {
		return cached, nil
	}
	e.programs[text] = p
	return p, nil
}

// Evaluate runs the program for text against states.
func (e *Engine) Evaluate(text string, states map[string]bool) (bool, error) {
	p, err := e.Program(text)
	if err != nil {
		return false, err
	}
	return p.Evaluate(states)
}

// Len returns the number of cached programs.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.programs)
}
