// audio_backend_headless.go - in-memory backend with no OS audio device,
// used by _test.go files and by any caller that wants to drive the
// engine from a plain []float32 buffer.

package main

// HeadlessBackend drives an EngineContext directly over an in-memory
// input buffer, collecting output into another buffer. It implements
// AudioBackend so it is interchangeable with the real device backends
// in any code that only needs the lifecycle methods.
type HeadlessBackend struct {
	engine  *EngineContext
	started bool
}

// NewHeadlessBackend returns a backend bound to engine.
func NewHeadlessBackend(engine *EngineContext) *HeadlessBackend {
	return &HeadlessBackend{engine: engine}
}

func (h *HeadlessBackend) Start() error {
	h.started = true
	return nil
}

func (h *HeadlessBackend) Stop() error {
	h.started = false
	return nil
}

func (h *HeadlessBackend) Close() error {
	h.started = false
	return nil
}

func (h *HeadlessBackend) IsStarted() bool { return h.started }

// RunBuffer pushes every sample of in through the engine in order and
// returns the corresponding output samples, mirroring the frame-by-frame
// contract the device backends follow.
func (h *HeadlessBackend) RunBuffer(in []float32) []float32 {
	out := make([]float32, len(in))
	for i, s := range in {
		out[i] = h.engine.NextOutputSample(s)
	}
	return out
}
