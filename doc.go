// Package gterm renders a character-grid terminal with a GPU.
//
// # Overview
//
// gterm is the rendering core that sits between a terminal emulation engine
// and a GPU. The engine writes characters, attributes and palette indices
// into a grid; gterm turns that grid into vertex, index and uniform buffers
// once per frame and uploads them through gogpu/wgpu's HAL.
//
// # Quick Start
//
//	r, err := gterm.New(80, 24, gterm.WithFont(atlas.Builtin("gomono"), 16))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer r.Close()
//
//	d := r.Defaults()
//	r.Grid().PutString(0, 0, "hello", d.FG, d.BG, grid.AttrNone)
//
//	// Once per frame:
//	stats, err := r.Frame(engine.HandleEvent)
//
// # Architecture
//
// The library is organized into:
//   - palette: interns named and RGBA colors into 1024 indexed slots
//   - atlas: bakes fonts into alpha bitmaps with per-glyph metrics
//   - grid: the cell buffer shared with the engine, with dirty rows
//   - frame: compiles a grid into quads and a uniform block
//   - input: the bounded event queue drained once per frame
//   - internal/gpu: GPU buffers, font textures and the render pipeline
//
// A Renderer owns one of each and exposes the hooks the engine calls
// (color resolution, resize, mode changes, bell). Only the event queue is
// safe for concurrent use; everything else belongs to the render goroutine.
//
// # GPU
//
// Frames are compiled without a GPU. AttachGPU takes a hal.Device and
// queue directly; AttachProvider takes the gpucontext.DeviceProvider of a
// host application such as gogpu. After attaching, Frame uploads and Draw
// records the render pass:
//
//	if err := r.AttachProvider(app); err != nil {
//		log.Fatal(err)
//	}
//	if _, err := r.Frame(nil); err != nil {
//		log.Fatal(err)
//	}
//	err = r.Draw(view)
//
// # Logging
//
// gterm is silent by default. See SetLogger.
package gterm
