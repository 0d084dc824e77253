package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caaatisgood/expo/argument"
	"github.com/caaatisgood/expo/config"
	"github.com/caaatisgood/expo/core"
	"github.com/caaatisgood/expo/definition"
)

type stateLog struct {
	mu     sync.Mutex
	states []string
}

func (s *stateLog) add(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = append(s.states, v)
}

func calculator(log *stateLog) core.Module {
	return core.ModuleFunc(func() []definition.Element {
		return []definition.Element{
			definition.Name("Calculator"),
			definition.Constants(func() map[string]any { return map[string]any{"pi": 3.14} }),
			definition.Method2("add", func(a, b argument.Int) argument.Int { return a + b }),
			definition.Method1("sqrt", func(x argument.Float) any {
				if x < 0 {
					return errors.New("negative input")
				}
				return x
			}),
			definition.Method0("explode", func() argument.Bool { panic("boom") }),
			definition.OnClientAppEnterBackground(func() { log.add("background") }),
		}
	})
}

func newTestServer(t *testing.T, opts ...Option) (*gin.Engine, *core.AppContext, *stateLog) {
	t.Helper()

	var cfg config.Root
	require.NoError(t, config.NewBinder().Bind(config.Defaults(), &cfg))
	cfg.Server.Enabled = false
	cfg.Server.BasePath = "/bridge"

	log := &stateLog{}
	app := core.NewAppContext(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, app.Register(calculator(log)))
	require.NoError(t, app.Start(context.Background()))
	core.Put[config.Root](app.Container, cfg)

	svc := Service(opts...)
	require.NoError(t, svc.Configure(app.Container))
	require.NoError(t, svc.Start(context.Background(), app.Container))
	t.Cleanup(func() { _ = svc.Stop(context.Background(), app.Container) })

	return Engine(app.Container), app, log
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestModules_ListAndGet(t *testing.T) {
	engine, _, _ := newTestServer(t)

	w := do(t, engine, http.MethodGet, "/bridge/modules", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []core.Manifest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Calculator", list[0].Name)

	w = do(t, engine, http.MethodGet, "/bridge/modules/Calculator", "")
	require.Equal(t, http.StatusOK, w.Code)
	var m core.Manifest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, 3.14, m.Constants["pi"])
	assert.Len(t, m.Methods, 3)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(t, engine, http.MethodGet, "/bridge/modules/Nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestModules_Call(t *testing.T) {
	engine, _, _ := newTestServer(t)

	w := do(t, engine, http.MethodPost, "/bridge/modules/Calculator/methods/add", `{"args":[2,3]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"result":5}`, w.Body.String())

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"unknown module", "/bridge/modules/Nope/methods/add", `{"args":[]}`, http.StatusNotFound},
		{"unknown method", "/bridge/modules/Calculator/methods/sub", `{"args":[]}`, http.StatusNotFound},
		{"wrong arity", "/bridge/modules/Calculator/methods/add", `{"args":[1]}`, http.StatusBadRequest},
		{"wrong type", "/bridge/modules/Calculator/methods/add", `{"args":[1,"two"]}`, http.StatusBadRequest},
		{"missing body", "/bridge/modules/Calculator/methods/add", "", http.StatusBadRequest},
		{"malformed body", "/bridge/modules/Calculator/methods/add", `{"args":`, http.StatusBadRequest},
		{"method error", "/bridge/modules/Calculator/methods/sqrt", `{"args":[-1]}`, http.StatusUnprocessableEntity},
		{"method panic", "/bridge/modules/Calculator/methods/explode", `{"args":[]}`, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, engine, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			var problem map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
			assert.Equal(t, float64(tt.status), problem["status"])
		})
	}
}

func TestModules_CallAfterDestroy(t *testing.T) {
	engine, app, _ := newTestServer(t)
	require.NoError(t, app.Destroy(context.Background()))

	w := do(t, engine, http.MethodPost, "/bridge/modules/Calculator/methods/add", `{"args":[1,1]}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAppState(t *testing.T) {
	engine, _, log := newTestServer(t)

	w := do(t, engine, http.MethodPost, "/bridge/app/state", `{"state":"background"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"background"}, log.states)

	w = do(t, engine, http.MethodPost, "/bridge/app/state", `{"state":"asleep"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestService_ExtraRoutesAndRecovery(t *testing.T) {
	engine, _, _ := newTestServer(t, WithRoutes(func(r Router) {
		r.GET("/panic", func(c Ctx) { panic("boom") })
	}))

	w := do(t, engine, http.MethodGet, "/bridge/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "unexpected server error")
}
