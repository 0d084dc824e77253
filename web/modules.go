package web

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caaatisgood/expo/core"
	"github.com/caaatisgood/expo/definition"
)

type callRequest struct {
	Args []any `json:"args"`
}

type callResponse struct {
	Result any `json:"result"`
}

type stateRequest struct {
	State string `json:"state" binding:"required,oneof=foreground active background"`
}

// RegisterModuleRoutes mounts the module bridge:
//
//	GET  /modules                          manifests of every module
//	GET  /modules/:module                  manifest of one module
//	POST /modules/:module/methods/:method  {"args": [...]} -> {"result": ...}
//	POST /app/state                        {"state": "foreground|active|background"}
func RegisterModuleRoutes(r Router, app *core.AppContext) {
	h := &moduleHandlers{app: app}
	r.GET("/modules", h.list)
	r.GET("/modules/:module", h.get)
	r.POST("/modules/:module/methods/:method", h.call)
	r.POST("/app/state", h.state)
}

type moduleHandlers struct {
	app *core.AppContext
}

func (h *moduleHandlers) list(c *gin.Context) {
	mods := h.app.Modules()
	out := make([]core.Manifest, 0, len(mods))
	for _, m := range mods {
		out = append(out, m.Manifest())
	}
	c.JSON(http.StatusOK, out)
}

func (h *moduleHandlers) get(c *gin.Context) {
	def, ok := h.app.Module(c.Param("module"))
	if !ok {
		Problem(c, http.StatusNotFound, "module "+c.Param("module")+" is not registered")
		return
	}
	c.JSON(http.StatusOK, def.Manifest())
}

func (h *moduleHandlers) call(c *gin.Context) {
	var req callRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		Problem(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.app.Call(c.Request.Context(), c.Param("module"), c.Param("method"), req.Args)
	if err != nil {
		Problem(c, callStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, callResponse{Result: result})
}

func (h *moduleHandlers) state(c *gin.Context) {
	var req stateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Problem(c, http.StatusBadRequest, err.Error())
		return
	}

	switch req.State {
	case "foreground":
		h.app.EnterForeground()
	case "active":
		h.app.BecomeActive()
	case "background":
		h.app.EnterBackground()
	}
	c.Status(http.StatusNoContent)
}

func callStatus(err error) int {
	var countErr *definition.ArgumentCountError
	var argErr *definition.ArgumentError

	switch {
	case errors.Is(err, core.ErrModuleNotFound), errors.Is(err, core.ErrMethodNotFound):
		return http.StatusNotFound
	case errors.As(err, &countErr), errors.As(err, &argErr):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrAppContextDestroyed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, core.ErrMethodPanicked):
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}
