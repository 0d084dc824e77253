package main

import (
	"errors"
	"log/slog"
	"math"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/caaatisgood/expo/argument"
	"github.com/caaatisgood/expo/core"
	"github.com/caaatisgood/expo/definition"
)

var errDivideByZero = errors.New("division by zero")

type rounding struct {
	Value  float64 `arg:"value"`
	Places int     `arg:"places" validate:"gte=0,lte=10"`
}

// Calculator is a stateless module. Its heavier methods run on the main
// queue.
func Calculator(main definition.Queue) core.Module {
	return core.ModuleFunc(func() []definition.Element {
		return []definition.Element{
			definition.Name("Calculator"),
			definition.Constants(func() map[string]any {
				return map[string]any{"pi": math.Pi, "e": math.E}
			}),
			definition.Method2("add", func(a, b argument.Float) argument.Float { return a + b }),
			definition.Method2("subtract", func(a, b argument.Float) argument.Float { return a - b }),
			definition.Method2("multiply", func(a, b argument.Float) argument.Float { return a * b }),
			definition.Method2("divide", func(a, b argument.Float) any {
				if b == 0 {
					return errDivideByZero
				}
				return a / b
			}),
			definition.Method1("sum", func(xs argument.List) any {
				var total argument.Float
				for i, x := range xs {
					var f argument.Float
					if err := f.ConvertFrom(x); err != nil {
						return &definition.ArgumentError{Method: "sum", Index: i, Err: err}
					}
					total += f
				}
				return total
			}, definition.OnQueue(main)),
			definition.Method1("round", func(r argument.Record[rounding]) argument.Float {
				p := math.Pow(10, float64(r.Value.Places))
				return argument.Float(math.Round(r.Value.Value*p) / p)
			}, definition.OnQueue(main)),
		}
	})
}

// Device reports on the host process and tracks whether the client app is
// in the foreground.
type Device struct {
	logger *slog.Logger

	mu         sync.Mutex
	name       string
	createdAt  time.Time
	foreground bool
}

func NewDevice(logger *slog.Logger) *Device {
	return &Device{logger: logger}
}

func (d *Device) Definition() []definition.Element {
	return []definition.Element{
		definition.Name("Device"),
		definition.Constants(func() map[string]any {
			return map[string]any{
				"os":        runtime.GOOS,
				"arch":      runtime.GOARCH,
				"goVersion": runtime.Version(),
				"cpus":      runtime.NumCPU(),
			}
		}),
		definition.Method0("hostname", func() any {
			h, err := os.Hostname()
			if err != nil {
				return err
			}
			return argument.String(h)
		}),
		definition.Method0("uptime", func() argument.Duration {
			d.mu.Lock()
			defer d.mu.Unlock()
			return argument.Duration(time.Since(d.createdAt).Round(time.Millisecond))
		}),
		definition.Method1("setName", func(name argument.String) error {
			if name == "" {
				return errors.New("name must not be empty")
			}
			d.mu.Lock()
			defer d.mu.Unlock()
			d.name = string(name)
			return nil
		}),
		definition.Method0("status", func() argument.Dict {
			d.mu.Lock()
			defer d.mu.Unlock()
			return argument.Dict{
				"name":       d.name,
				"foreground": d.foreground,
				"goroutines": runtime.NumGoroutine(),
			}
		}),
		definition.Method1("sleep", func(dur argument.Duration) argument.Bool {
			time.Sleep(time.Duration(dur))
			return true
		}),
		definition.OnCreate(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			d.createdAt = time.Now()
			d.name, _ = os.Hostname()
		}),
		definition.OnClientAppEnterForeground(func() { d.setForeground(true) }),
		definition.OnClientAppBecomeActive(func() { d.setForeground(true) }),
		definition.OnClientAppEnterBackground(func() { d.setForeground(false) }),
		definition.OnAppContextDestroy(func() { d.logger.Info("device released") }),
	}
}

func (d *Device) setForeground(v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.foreground = v
	d.logger.Info("device state changed", "foreground", v)
}
