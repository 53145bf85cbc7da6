// Package engine connects an application task to a display backend.
//
// A Session is the application's view of the backend for the current
// frame. Adapters feed it raw input between frames and register
// themselves by name so the backend is chosen once at startup.
package engine
