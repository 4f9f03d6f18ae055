package pipeline

import (
	"context"
	"fmt"

	"github.com/dop251/goja"
)

// RegisterScript compiles a JavaScript processor and registers it
// under name. The source must evaluate to a function of
// (value, ctx) returning the transformed value, e.g.
//
//	function(value, ctx) { return value.toUpperCase() }
//
// Each invocation runs in a fresh hardened runtime, so an interrupted
// run cannot leak state into the next one.
func (r *Registry) RegisterScript(name, source string) error {
	prog, err := goja.Compile(name, "("+source+")", true)
	if err != nil {
		return fmt.Errorf("compile processor %s: %w", name, err)
	}
	r.Register(name, scriptFunc(name, prog))
	return nil
}

func scriptFunc(name string, prog *goja.Program) Func {
	return func(ctx context.Context, value any, pctx *Context) (any, error) {
		vm := goja.New()
		hardenRuntime(vm)

		// Interrupt the VM when the execution window closes so a
		// runaway script frees its worker slot.
		finished := make(chan struct{})
		defer close(finished)
		go func() {
			select {
			case <-ctx.Done():
				vm.Interrupt("execution timeout exceeded")
			case <-finished:
			}
		}()

		v, err := vm.RunProgram(prog)
		if err != nil {
			return nil, err
		}
		fn, ok := goja.AssertFunction(v)
		if !ok {
			return nil, fmt.Errorf("processor %s does not evaluate to a function", name)
		}

		res, err := fn(goja.Undefined(), vm.ToValue(value), vm.ToValue(scriptContext(pctx)))
		if err != nil {
			return nil, err
		}
		if res == nil || goja.IsUndefined(res) || goja.IsNull(res) {
			return nil, nil
		}
		return res.Export(), nil
	}
}

// hardenRuntime removes module/process entry points and neuters timers.
func hardenRuntime(vm *goja.Runtime) {
	vm.Set("require", goja.Undefined())
	vm.Set("process", goja.Undefined())
	vm.Set("module", goja.Undefined())
	vm.Set("exports", goja.Undefined())
	vm.Set("setTimeout", func(goja.FunctionCall) goja.Value { return goja.Undefined() })
	vm.Set("setInterval", func(goja.FunctionCall) goja.Value { return goja.Undefined() })
}

// scriptContext mirrors the pipeline context into a plain object for
// the script, including the fixed helpers.
func scriptContext(pctx *Context) map[string]any {
	if pctx == nil {
		return map[string]any{}
	}
	return map[string]any{
		"page_url": pctx.PageURL,
		"html":     pctx.HTML,
		"selector_used": map[string]any{
			"css":   pctx.Selector.CSS,
			"xpath": pctx.Selector.XPath,
		},
		"scope":      pctx.Scope,
		"item_index": pctx.ItemIndex,
		"run_id":     pctx.RunID,
		"helpers": map[string]any{
			"parse_price": pctx.Helpers.ParsePrice,
		},
	}
}
