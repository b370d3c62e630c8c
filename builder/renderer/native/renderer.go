// Package native renders LaTeX math in-process with KaTeX running on goja.
package native

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/dop251/goja"
	"github.com/spf13/afero"
	"github.com/zeebo/blake3"
)

// instance is a single isolated JS runtime. A goja runtime is not safe
// for concurrent use, so each one is owned by one caller at a time.
type instance struct {
	vm       *goja.Runtime
	katex    goja.Value
	renderFn goja.Callable
}

// Renderer manages a bounded pool of KaTeX runtimes.
type Renderer struct {
	prog       *goja.Program
	pool       chan *instance
	numWorkers int
	mu         sync.Mutex
	created    int
	logger     *slog.Logger
}

// New compiles the KaTeX script at path. Runtimes are created lazily, up
// to workers of them.
func New(fs afero.Fs, path string, workers int, logger *slog.Logger) (*Renderer, error) {
	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read KaTeX script: %w", err)
	}
	prog, err := goja.Compile(path, string(src), true)
	if err != nil {
		return nil, fmt.Errorf("failed to compile KaTeX: %w", err)
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		prog:       prog,
		pool:       make(chan *instance, workers),
		numWorkers: workers,
		logger:     logger,
	}, nil
}

func (r *Renderer) acquire() (*instance, error) {
	select {
	case inst := <-r.pool:
		return inst, nil
	default:
	}

	r.mu.Lock()
	if r.created < r.numWorkers {
		r.created++
		r.mu.Unlock()
		inst, err := newInstance(r.prog)
		if err != nil {
			r.mu.Lock()
			r.created--
			r.mu.Unlock()
			return nil, err
		}
		r.logger.Debug("KaTeX runtime ready", "workers", r.created)
		return inst, nil
	}
	r.mu.Unlock()
	return <-r.pool, nil
}

func (r *Renderer) release(inst *instance) {
	r.pool <- inst
}

func newInstance(prog *goja.Program) (*instance, error) {
	vm := goja.New()

	console := vm.NewObject()
	noop := func(call goja.FunctionCall) goja.Value { return goja.Undefined() }
	_ = console.Set("log", noop)
	_ = console.Set("warn", noop)
	_ = console.Set("error", noop)
	_ = vm.Set("console", console)

	document := vm.NewObject()
	_ = document.Set("createElement", func(call goja.FunctionCall) goja.Value {
		elem := vm.NewObject()
		_ = elem.Set("setAttribute", noop)
		return elem
	})
	_ = vm.Set("document", document)

	if _, err := vm.RunProgram(prog); err != nil {
		return nil, fmt.Errorf("failed to load KaTeX: %w", err)
	}

	katex := vm.Get("katex")
	if katex == nil || goja.IsUndefined(katex) {
		return nil, fmt.Errorf("katex not defined by script")
	}
	renderFn, ok := goja.AssertFunction(katex.ToObject(vm).Get("renderToString"))
	if !ok {
		return nil, fmt.Errorf("katex.renderToString is not a function")
	}

	return &instance{vm: vm, katex: katex, renderFn: renderFn}, nil
}

// HashContent generates a BLAKE3 hash for cache keys
func HashContent(contentType, content string) string {
	h := blake3.New()
	_, _ = h.WriteString(contentType + ":" + content)
	return hex.EncodeToString(h.Sum(nil))[:16]
}
