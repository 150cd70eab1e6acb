// Package automation drives a parameter surface from Lua scripts.
//
// A script sees these globals:
//
//	set(name, value)  write a parameter; value is a number, a boolean, or
//	                  a choice name for "mode" and "*.kind"
//	get(name)         read a parameter as a number
//	names()           list every parameter name
//
// If the script defines tick(t), Tick calls it with the playback time in
// seconds, which is how scripts automate parameters over time.
package automation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/cwbudde/algo-bandcrush/dsp/distort"
	"github.com/cwbudde/algo-bandcrush/dsp/pipeline"
)

const tickFunc = "tick"

var errClosed = errors.New("automation: script is closed")

// Target is the parameter surface a script writes to.
type Target interface {
	SetByName(name string, value float64) error
	GetByName(name string) (float64, error)
}

// Script is a loaded Lua automation script. It is not safe for
// concurrent use.
type Script struct {
	state  *lua.LState
	target Target
	names  []string
}

// Load runs src once against target and returns the script.
func Load(src string, target Target) (*Script, error) {
	s, err := newScript(target)
	if err != nil {
		return nil, err
	}
	if err := s.state.DoString(src); err != nil {
		s.Close()
		return nil, fmt.Errorf("automation: %w", err)
	}
	return s, nil
}

// LoadFile runs the script at path once against target.
func LoadFile(path string, target Target) (*Script, error) {
	s, err := newScript(target)
	if err != nil {
		return nil, err
	}
	if err := s.state.DoFile(path); err != nil {
		s.Close()
		return nil, fmt.Errorf("automation: %w", err)
	}
	return s, nil
}

func newScript(target Target) (*Script, error) {
	if target == nil {
		return nil, fmt.Errorf("automation: target must not be nil")
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.open), NRet: 0, Protect: true}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("automation: open %s: %w", lib.name, err)
		}
	}

	s := &Script{state: L, target: target, names: pipeline.ParamNames()}
	L.SetGlobal("set", L.NewFunction(s.luaSet))
	L.SetGlobal("get", L.NewFunction(s.luaGet))
	L.SetGlobal("names", L.NewFunction(s.luaNames))
	return s, nil
}

// Close releases the Lua state.
func (s *Script) Close() {
	if s.state != nil {
		s.state.Close()
		s.state = nil
	}
}

func (s *Script) tickFn() (*lua.LFunction, bool) {
	if s.state == nil {
		return nil, false
	}
	fn, ok := s.state.GetGlobal(tickFunc).(*lua.LFunction)
	return fn, ok
}

// HasTick reports whether the script defines tick(t).
func (s *Script) HasTick() bool {
	_, ok := s.tickFn()
	return ok
}

// Tick calls tick(seconds) if the script defines it. After Close it
// returns errClosed.
func (s *Script) Tick(seconds float64) error {
	if s.state == nil {
		return errClosed
	}
	fn, ok := s.tickFn()
	if !ok {
		return nil
	}
	if err := s.state.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, lua.LNumber(seconds)); err != nil {
		return fmt.Errorf("automation: tick(%g): %w", seconds, err)
	}
	return nil
}

func (s *Script) luaSet(L *lua.LState) int {
	name := L.CheckString(1)
	value, err := scalar(name, L.CheckAny(2))
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	if err := s.target.SetByName(name, value); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (s *Script) luaGet(L *lua.LState) int {
	name := L.CheckString(1)
	v, err := s.target.GetByName(name)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (s *Script) luaNames(L *lua.LState) int {
	t := L.NewTable()
	for _, n := range s.names {
		t.Append(lua.LString(n))
	}
	L.Push(t)
	return 1
}

// scalar converts a Lua value into the host scalar SetByName expects.
func scalar(name string, v lua.LValue) (float64, error) {
	switch v := v.(type) {
	case lua.LNumber:
		return float64(v), nil
	case lua.LBool:
		if v {
			return 1, nil
		}
		return 0, nil
	case lua.LString:
		return choice(name, string(v))
	default:
		return 0, fmt.Errorf("parameter %q: unsupported value type %s", name, v.Type())
	}
}

// ParseValue converts the text form of a parameter value: a number, a
// boolean, or a choice name for "mode" and "*.kind".
func ParseValue(name, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}
	if b, err := strconv.ParseBool(s); err == nil {
		if b {
			return 1, nil
		}
		return 0, nil
	}
	return choice(name, s)
}

func choice(name, value string) (float64, error) {
	switch {
	case name == "mode":
		m, err := pipeline.ParseMode(value)
		return float64(m), err
	case strings.HasSuffix(name, ".kind"):
		k, err := distort.ParseKind(value)
		return float64(k), err
	default:
		return 0, fmt.Errorf("parameter %q does not take a name", name)
	}
}
