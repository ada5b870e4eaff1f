package flux

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/Shopify/go-lua"
)

const luaEntry = "__flux"

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Lua is a flux defined by a Lua expression over named arguments. Only the
// base, math and string libraries are available, without the loaders, so
// expressions can call math.exp but cannot reach files or the process.
// Evaluation is serialized; one Lua state backs each flux.
type Lua struct {
	mu     sync.Mutex
	expr   string
	params []string
	state  *lua.State
}

var sandboxLibs = []lua.RegistryFunction{
	{Name: "_G", Function: lua.BaseOpen},
	{Name: "math", Function: lua.MathOpen},
	{Name: "string", Function: lua.StringOpen},
}

var sandboxRemoved = []string{"dofile", "loadfile", "load", "loadstring", "require"}

func newSandbox() *lua.State {
	l := lua.NewState()
	for _, lib := range sandboxLibs {
		lua.Require(l, lib.Name, lib.Function, true)
		l.Pop(1)
	}
	for _, name := range sandboxRemoved {
		l.PushNil()
		l.SetGlobal(name)
	}
	return l
}

// NewLua compiles expr as the body of a function taking params in order.
func NewLua(expr string, params []string) (*Lua, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("lua flux: empty expression")
	}
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if !identifier.MatchString(p) {
			return nil, fmt.Errorf("lua flux: %q is not a valid parameter name", p)
		}
		if seen[p] {
			return nil, fmt.Errorf("lua flux: duplicate parameter %q", p)
		}
		seen[p] = true
	}

	l := newSandbox()

	src := fmt.Sprintf("return function(%s) return %s end", strings.Join(params, ", "), expr)
	if err := lua.LoadString(l, src); err != nil {
		return nil, fmt.Errorf("lua flux %q: %w", expr, err)
	}
	if err := l.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("lua flux %q: %w", expr, err)
	}
	if !l.IsFunction(-1) {
		return nil, fmt.Errorf("lua flux %q: did not compile to a function", expr)
	}
	l.SetGlobal(luaEntry)

	return &Lua{expr: expr, params: params, state: l}, nil
}

func (f *Lua) Expr() string { return f.expr }

func (f *Lua) Params() []string {
	out := make([]string, len(f.params))
	copy(out, f.params)
	return out
}

// Eval calls the compiled expression. A non-numeric result is an error.
func (f *Lua) Eval(args []float64) (float64, error) {
	if len(args) != len(f.params) {
		return 0, fmt.Errorf("lua flux %q: expected %d arguments, got %d", f.expr, len(f.params), len(args))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	l := f.state
	defer l.SetTop(0)

	l.Global(luaEntry)
	for _, a := range args {
		l.PushNumber(a)
	}
	if err := l.ProtectedCall(len(args), 1, 0); err != nil {
		return 0, fmt.Errorf("lua flux %q: %w", f.expr, err)
	}

	if l.TypeOf(-1) != lua.TypeNumber {
		return 0, fmt.Errorf("lua flux %q: result is %s, not a number", f.expr, lua.TypeNameOf(l, -1))
	}
	v, _ := l.ToNumber(-1)
	return v, nil
}
