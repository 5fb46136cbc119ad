// Package audio provides the input capabilities that feed the signal
// processor: a PortAudio microphone source and a beep-based file
// player. Each delivers fixed-size mono int16 blocks to a registered
// callback on its own goroutine; the callback must not retain the
// slice past the call.
package audio

// BlockFunc receives one mono PCM block of exactly the configured
// block size. The slice is reused between calls.
type BlockFunc func(samples []int16)

// Source is a running audio input. Start begins delivery to the
// registered BlockFunc; Stop ends it and releases the device or
// stream. A stopped source is not restartable.
type Source interface {
	Start() error
	Stop() error
}

// framer assembles samples arriving at arbitrary granularity into
// exact fixed-size blocks, emitting each block synchronously on the
// pushing goroutine.
type framer struct {
	emit  BlockFunc
	block []int16
	n     int
}

func newFramer(blockSize int, emit BlockFunc) *framer {
	return &framer{emit: emit, block: make([]int16, blockSize)}
}

func (f *framer) push(s int16) {
	f.block[f.n] = s
	f.n++
	if f.n == len(f.block) {
		f.emit(f.block)
		f.n = 0
	}
}
