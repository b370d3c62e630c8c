package native

import (
	"fmt"
)

// RenderMath renders a single LaTeX expression to HTML. KaTeX runs with
// throwOnError so malformed input is returned as an error.
func (r *Renderer) RenderMath(latex string, displayMode bool) (string, error) {
	inst, err := r.acquire()
	if err != nil {
		return "", err
	}
	defer r.release(inst)

	opts := inst.vm.NewObject()
	_ = opts.Set("displayMode", displayMode)
	_ = opts.Set("throwOnError", true)
	_ = opts.Set("output", "html")

	result, err := inst.renderFn(inst.katex, inst.vm.ToValue(latex), opts)
	if err != nil {
		return "", fmt.Errorf("KaTeX render failed: %w", err)
	}
	return result.String(), nil
}
