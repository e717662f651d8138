// Package gfx wraps the handful of OpenGL and GLFW objects needed to draw a
// point cloud: a window with its context, shader programs, and a vertex
// buffer/array pair that is refilled every frame.
//
// All functions in this package must be called from the thread that owns the
// GL context. Programs using it should call runtime.LockOSThread from an init
// function in package main.
package gfx
