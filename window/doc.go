// Package window drives an application on a callback-driven pixel surface.
//
// A toolkit host owns the event loop. It forwards key, character, pointer and
// focus callbacks to an Adapter and calls Adapter.OnFrame from a periodic
// timer. The adapter paces whole logical frames, resumes the application once
// per frame and hands finished frames back through the Surface interface with
// colors already resolved and an integer Viewport scale.
//
// Held keys are exact here: the host reports both key-down and key-up.
package window
