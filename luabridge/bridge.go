// Package luabridge exposes an AppContext's modules to Lua scripts.
//
// Install publishes two globals:
//
//	modules.Calculator.add(2, 3)   -- call a method
//	modules.Calculator.pi          -- read a constant
//	app.background()               -- fire an app state event
//	app.modules()                  -- list module names
//
// A failing method call raises a Lua error carrying the Go error text, so
// scripts can guard calls with pcall.
package luabridge

import (
	"context"
	"fmt"

	"github.com/Shopify/go-lua"

	"github.com/caaatisgood/expo/core"
)

// Install registers the module and app globals on state. Method calls made
// from Lua use ctx.
func Install(ctx context.Context, state *lua.State, app *core.AppContext) {
	state.NewTable()
	for _, def := range app.Modules() {
		pushModule(ctx, state, app, def)
		state.SetField(-2, def.Name())
	}
	state.SetGlobal("modules")

	state.NewTable()
	lua.SetFunctions(state, appFunctions(app), 0)
	state.SetGlobal("app")
}

func pushModule(ctx context.Context, state *lua.State, app *core.AppContext, def *core.ModuleDefinition) {
	state.NewTable()
	for k, v := range def.Constants() {
		push(state, v)
		state.SetField(-2, k)
	}
	for _, m := range def.Methods() {
		module, method := def.Name(), m.Name()
		state.PushGoFunction(func(l *lua.State) int {
			args := make([]any, l.Top())
			for i := range args {
				args[i] = toGo(l, i+1)
			}

			result, err := app.Call(ctx, module, method, args)
			if err != nil {
				lua.Errorf(l, "%s", fmt.Sprintf("%s.%s: %v", module, method, err))
				return 0
			}
			push(l, result)
			return 1
		})
		state.SetField(-2, method)
	}
}

func appFunctions(app *core.AppContext) []lua.RegistryFunction {
	event := func(fire func()) lua.Function {
		return func(*lua.State) int {
			fire()
			return 0
		}
	}
	return []lua.RegistryFunction{
		{Name: "foreground", Function: event(app.EnterForeground)},
		{Name: "active", Function: event(app.BecomeActive)},
		{Name: "background", Function: event(app.EnterBackground)},
		{Name: "id", Function: func(l *lua.State) int {
			l.PushString(app.ID)
			return 1
		}},
		{Name: "modules", Function: func(l *lua.State) int {
			mods := app.Modules()
			names := make([]any, len(mods))
			for i, m := range mods {
				names[i] = m.Name()
			}
			push(l, names)
			return 1
		}},
	}
}

// NewState returns a state with the standard libraries and the bridge
// globals installed.
func NewState(ctx context.Context, app *core.AppContext) *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)
	Install(ctx, state, app)
	return state
}

// RunFile runs the script at path against app.
func RunFile(ctx context.Context, app *core.AppContext, path string) error {
	if err := lua.DoFile(NewState(ctx, app), path); err != nil {
		return fmt.Errorf("run %s: %w", path, err)
	}
	return nil
}

// RunString runs code against app.
func RunString(ctx context.Context, app *core.AppContext, code string) error {
	if err := lua.DoString(NewState(ctx, app), code); err != nil {
		return fmt.Errorf("run script: %w", err)
	}
	return nil
}
