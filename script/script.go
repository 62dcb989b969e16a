// Package script runs tengo macros that edit a tile set through a presenter.
// Every edit a macro makes goes through the presenter's undo history.
package script

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/tilesheet/presenter"
)

// Runner binds macro globals to one presenter.
type Runner struct {
	p       *presenter.Presenter
	gesture *presenter.AssignGroupGesture
}

func NewRunner(p *presenter.Presenter) *Runner {
	return &Runner{p: p}
}

// RunFile loads and runs the macro at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("script: load %s: %w", path, err)
	}
	return r.Run(ctx, path, src)
}

// Run compiles and runs src. A paint stroke the macro leaves open is ended
// when it returns.
func (r *Runner) Run(ctx context.Context, name string, src []byte) error {
	s := tengo.NewScript(src)
	for fn, value := range r.globals() {
		if err := s.Add(fn, value); err != nil {
			return fmt.Errorf("script: %s: bind %s: %w", name, fn, err)
		}
	}
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return fmt.Errorf("script: compile %s: %w", name, err)
	}
	defer r.endGesture()
	if err := compiled.RunContext(ctx); err != nil {
		return fmt.Errorf("script: run %s: %w", name, err)
	}
	return nil
}

func (r *Runner) endGesture() {
	if r.gesture != nil {
		_ = r.gesture.End()
		r.gesture = nil
	}
}

func (r *Runner) globals() map[string]*tengo.UserFunction {
	fns := map[string]tengo.CallableFunc{
		"begin":           r.begin,
		"paint":           r.paint,
		"end":             r.end,
		"add_group":       r.addGroup,
		"select":          r.selectGroups,
		"remove_selected": r.removeSelected,
		"rename_selected": r.renameSelected,
		"undo":            r.undo,
		"redo":            r.redo,
		"tile_count":      r.tileCount,
		"hull_group":      r.hullGroup,
		"groups":          r.groups,
		"dirty":           r.dirty,
		"abort":           r.abort,
	}
	out := make(map[string]*tengo.UserFunction, len(fns))
	for name, fn := range fns {
		out[name] = &tengo.UserFunction{Name: name, Value: fn}
	}
	return out
}

func (r *Runner) begin(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	group, err := stringArg("begin", "first", args[0])
	if err != nil {
		return nil, err
	}
	r.gesture = r.p.BeginAssignGroup(group)
	return tengo.TrueValue, nil
}

func (r *Runner) paint(args ...tengo.Object) (tengo.Object, error) {
	if r.gesture == nil {
		return errorObject("paint outside begin/end"), nil
	}
	painted := 0
	for i, a := range args {
		tile, ok := tengo.ToInt(a)
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: argName(i), Expected: "int", Found: a.TypeName()}
		}
		if r.gesture.Paint(tile) {
			painted++
		}
	}
	return &tengo.Int{Value: int64(painted)}, nil
}

func (r *Runner) end(args ...tengo.Object) (tengo.Object, error) {
	if r.gesture == nil {
		return tengo.FalseValue, nil
	}
	err := r.gesture.End()
	r.gesture = nil
	if err != nil {
		return errorObject(err.Error()), nil
	}
	return tengo.TrueValue, nil
}

func (r *Runner) addGroup(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	name, err := stringArg("add_group", "first", args[0])
	if err != nil {
		return nil, err
	}
	if err := r.p.AddCollisionGroup(name); err != nil {
		return errorObject(err.Error()), nil
	}
	return tengo.TrueValue, nil
}

func (r *Runner) selectGroups(args ...tengo.Object) (tengo.Object, error) {
	names, err := stringArgs("select", args)
	if err != nil {
		return nil, err
	}
	r.p.SelectCollisionGroups(names)
	return tengo.TrueValue, nil
}

func (r *Runner) removeSelected(args ...tengo.Object) (tengo.Object, error) {
	r.p.RemoveSelectedCollisionGroups()
	return tengo.TrueValue, nil
}

func (r *Runner) renameSelected(args ...tengo.Object) (tengo.Object, error) {
	names, err := stringArgs("rename_selected", args)
	if err != nil {
		return nil, err
	}
	if err := r.p.RenameSelectedCollisionGroups(names); err != nil {
		return errorObject(err.Error()), nil
	}
	return tengo.TrueValue, nil
}

func (r *Runner) undo(args ...tengo.Object) (tengo.Object, error) {
	r.gesture = nil
	return boolObject(r.p.Undo()), nil
}

func (r *Runner) redo(args ...tengo.Object) (tengo.Object, error) {
	r.gesture = nil
	return boolObject(r.p.Redo()), nil
}

func (r *Runner) tileCount(args ...tengo.Object) (tengo.Object, error) {
	return &tengo.Int{Value: int64(r.p.Model().HullCount())}, nil
}

func (r *Runner) hullGroup(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	tile, ok := tengo.ToInt(args[0])
	if !ok {
		return nil, tengo.ErrInvalidArgumentType{Name: "first", Expected: "int", Found: args[0].TypeName()}
	}
	h, ok := r.p.Model().Hull(tile)
	if !ok {
		return tengo.UndefinedValue, nil
	}
	return &tengo.String{Value: h.CollisionGroup}, nil
}

func (r *Runner) groups(args ...tengo.Object) (tengo.Object, error) {
	names := r.p.Model().CollisionGroups()
	arr := &tengo.Array{Value: make([]tengo.Object, len(names))}
	for i, n := range names {
		arr.Value[i] = &tengo.String{Value: n}
	}
	return arr, nil
}

func (r *Runner) dirty(args ...tengo.Object) (tengo.Object, error) {
	return boolObject(r.p.Dirty()), nil
}

// abort stops the macro with an error.
func (r *Runner) abort(args ...tengo.Object) (tengo.Object, error) {
	msg := "aborted"
	if len(args) > 0 {
		msg = objectAsString(args[0])
	}
	return nil, fmt.Errorf("abort: %s", msg)
}

func objectAsString(obj tengo.Object) string {
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func stringArg(fn, name string, obj tengo.Object) (string, error) {
	s, ok := obj.(*tengo.String)
	if !ok {
		return "", tengo.ErrInvalidArgumentType{Name: name, Expected: "string", Found: obj.TypeName()}
	}
	if v := strings.TrimSpace(s.Value); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%s: empty %s argument", fn, name)
}

// stringArgs accepts either string arguments or a single array of strings.
func stringArgs(fn string, args []tengo.Object) ([]string, error) {
	if len(args) == 1 {
		if arr, ok := args[0].(*tengo.Array); ok {
			args = arr.Value
		}
	}
	out := make([]string, 0, len(args))
	for i, a := range args {
		s, err := stringArg(fn, argName(i), a)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func argName(i int) string {
	switch i {
	case 0:
		return "first"
	case 1:
		return "second"
	case 2:
		return "third"
	}
	return fmt.Sprintf("#%d", i+1)
}

func errorObject(msg string) tengo.Object {
	return &tengo.Error{Value: &tengo.String{Value: msg}}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}
