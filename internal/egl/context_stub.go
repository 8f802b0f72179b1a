// SPDX-License-Identifier: Unlicense OR MIT

//go:build !windows

package egl

import "errors"

// Context mirrors the Windows implementation's surface on platforms
// where this pack carries no native EGL binding. The real entry points
// (X11/Wayland/Android EGL, Cocoa/CGL on Darwin) are out of scope per
// spec.md §1: the window-system layer is "consumed, not specified".
type Context struct{}

var errNoEGL = errors.New("egl: no platform context implementation for this GOOS")

func NewContext(disp NativeDisplayType) (*Context, error) { return nil, errNoEGL }

func (c *Context) CreateSurface(win NativeWindowType) error { return errNoEGL }
func (c *Context) MakeCurrent() error                       { return errNoEGL }
func (c *Context) ReleaseCurrent()                           {}
func (c *Context) SwapBuffers() error                        { return errNoEGL }
func (c *Context) Release()                                  {}
func (c *Context) SetSwapInterval(interval int) error        { return errNoEGL }
func (c *Context) Extensions() []string                      { return nil }

type (
	NativeDisplayType uintptr
	NativeWindowType  uintptr
)
