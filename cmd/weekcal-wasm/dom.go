//go:build js && wasm

package main

import (
	"syscall/js"

	"weekcal/internal/drag"
)

// domViewport is the scrollable grid container element.
type domViewport struct {
	el js.Value
}

func (v *domViewport) Bounds() (drag.Rect, bool) {
	if !v.el.Truthy() || !v.el.Get("isConnected").Truthy() {
		return drag.Rect{}, false
	}
	return rectOf(v.el.Call("getBoundingClientRect")), true
}

func (v *domViewport) ScrollTop() float64 {
	if !v.el.Truthy() {
		return 0
	}
	return v.el.Get("scrollTop").Float()
}

func (v *domViewport) ScrollBy(dy float64) {
	if !v.el.Truthy() {
		return
	}
	v.el.Set("scrollTop", v.el.Get("scrollTop").Float()+dy)
}

func rectOf(r js.Value) drag.Rect {
	if !r.Truthy() {
		return drag.Rect{}
	}
	return drag.Rect{
		Left:   r.Get("left").Float(),
		Top:    r.Get("top").Float(),
		Width:  r.Get("width").Float(),
		Height: r.Get("height").Float(),
	}
}

// windowListener attaches pointermove/pointerup on window for one drag.
type windowListener struct{}

func (windowListener) Listen(h drag.Handler) func() {
	win := js.Global().Get("window")

	move := js.FuncOf(func(_ js.Value, args []js.Value) any {
		e := args[0]
		h.PointerMove(drag.Point{X: e.Get("clientX").Float(), Y: e.Get("clientY").Float()})
		return nil
	})
	up := js.FuncOf(func(js.Value, []js.Value) any {
		h.PointerUp()
		return nil
	})
	win.Call("addEventListener", "pointermove", move)
	win.Call("addEventListener", "pointerup", up)

	released := false
	return func() {
		if released {
			return
		}
		released = true
		win.Call("removeEventListener", "pointermove", move)
		win.Call("removeEventListener", "pointerup", up)
		move.Release()
		up.Release()
	}
}
