package luabridge

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/Shopify/go-lua"
)

// toGo reads the value at index. Tables with keys 1..n become []any, other
// tables map[string]any with non-string keys dropped. Integral numbers
// become int.
func toGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		s, _ := state.ToString(index)
		return s
	case lua.TypeNumber:
		n, _ := state.ToNumber(index)
		return normalizeNumber(n)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	case lua.TypeUserData:
		return state.ToUserData(index)
	default:
		return nil
	}
}

func tableToGo(state *lua.State, index int) any {
	index = state.AbsIndex(index)

	isArray := true
	maxIndex, count := 0, 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if i, ok := state.ToInteger(-2); ok && i > 0 {
				count++
				maxIndex = max(maxIndex, i)
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		out := make([]any, 0, count)
		for i := 1; i <= count; i++ {
			state.RawGetInt(index, i)
			out = append(out, toGo(state, -1))
			state.Pop(1)
		}
		return out
	}

	out := map[string]any{}
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			out[key] = toGo(state, -1)
		}
		state.Pop(1)
	}
	return out
}

func normalizeNumber(v float64) any {
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return int(v)
	}
	return v
}

// push places v on the stack. Slices and arrays become sequences, maps with
// string keys become tables, and anything else is pushed as its fmt string.
func push(state *lua.State, v any) {
	switch x := v.(type) {
	case nil:
		state.PushNil()
	case bool:
		state.PushBoolean(x)
	case string:
		state.PushString(x)
	case int:
		state.PushInteger(x)
	case int64:
		state.PushNumber(float64(x))
	case float64:
		state.PushNumber(x)
	case []any:
		state.CreateTable(len(x), 0)
		for i, e := range x {
			push(state, e)
			state.RawSetInt(-2, i+1)
		}
	case map[string]any:
		pushMap(state, reflect.ValueOf(x))
	default:
		pushReflect(state, reflect.ValueOf(v))
	}
}

func pushReflect(state *lua.State, rv reflect.Value) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		state.PushNumber(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		state.PushNumber(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		state.PushNumber(rv.Float())
	case reflect.String:
		state.PushString(rv.String())
	case reflect.Bool:
		state.PushBoolean(rv.Bool())
	case reflect.Slice, reflect.Array:
		state.CreateTable(rv.Len(), 0)
		for i := 0; i < rv.Len(); i++ {
			push(state, rv.Index(i).Interface())
			state.RawSetInt(-2, i+1)
		}
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			pushMap(state, rv)
			return
		}
		state.PushString(fmt.Sprint(rv.Interface()))
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			state.PushNil()
			return
		}
		pushReflect(state, rv.Elem())
	default:
		state.PushString(fmt.Sprint(rv.Interface()))
	}
}

func pushMap(state *lua.State, rv reflect.Value) {
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	state.CreateTable(0, len(keys))
	for _, k := range keys {
		push(state, rv.MapIndex(k).Interface())
		state.SetField(-2, k.String())
	}
}
