package audio

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/pulseviz/internal/config"
)

// constStreamer emits a fixed stereo sample until n runs out.
type constStreamer struct {
	left, right float64
	remaining   int
}

func (c *constStreamer) Stream(samples [][2]float64) (int, bool) {
	if c.remaining <= 0 {
		return 0, false
	}
	n := len(samples)
	if n > c.remaining {
		n = c.remaining
	}
	for i := 0; i < n; i++ {
		samples[i] = [2]float64{c.left, c.right}
	}
	c.remaining -= n
	return n, true
}

func (c *constStreamer) Err() error { return nil }

func TestMonoInt16Downmix(t *testing.T) {
	assert.Equal(t, int16(0), monoInt16([2]float64{0, 0}))
	assert.Equal(t, int16(32767), monoInt16([2]float64{1, 1}))
	assert.Equal(t, int16(-32767), monoInt16([2]float64{-1, -1}))
	assert.Equal(t, int16(16383), monoInt16([2]float64{1, 0}), "channels average")
}

func TestMonoInt16Clamps(t *testing.T) {
	assert.Equal(t, int16(32767), monoInt16([2]float64{2.5, 2.5}))
	assert.Equal(t, int16(-32767), monoInt16([2]float64{-3, -3}))
}

// writeTestWAV writes a minimal PCM16 mono 44100 Hz file.
func writeTestWAV(t *testing.T) string {
	t.Helper()

	samples := []int16{0, 1000, -1000, 32767}
	var data bytes.Buffer
	require.NoError(t, binary.Write(&data, binary.LittleEndian, samples))

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+data.Len()))
	buf.WriteString("WAVEfmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	_ = binary.Write(&buf, binary.LittleEndian, uint32(44100))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(44100*2)) // byte rate
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))       // block align
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))      // bits per sample
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())

	path := filepath.Join(t.TempDir(), "tone.wav")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestOpenFileSharesOutputAndReportsFinished(t *testing.T) {
	out := &Output{}
	p, err := OpenFile(out, writeTestWAV(t), func([]int16) {})
	require.NoError(t, err)

	assert.Same(t, out, p.out, "successive players reuse the caller's output")
	assert.Equal(t, beep.SampleRate(44100), p.format.SampleRate)
	assert.False(t, p.Finished())

	require.NoError(t, p.Stop())
	assert.True(t, p.Finished())

	// Stopping again stays idempotent.
	require.NoError(t, p.Stop())
	assert.True(t, p.Finished())
}

func TestOpenFileRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.ogg")
	require.NoError(t, os.WriteFile(path, []byte("not audio"), 0o644))

	_, err := OpenFile(&Output{}, path, func([]int16) {})
	assert.Error(t, err)
}

func TestTapDeliversBlocksWhileStreaming(t *testing.T) {
	var blocks [][]int16
	src := &constStreamer{left: 0.5, right: 0.5, remaining: 2*config.BlockSize + 100}
	tp := &tap{
		source: src,
		framer: newFramer(config.BlockSize, func(samples []int16) {
			blocks = append(blocks, append([]int16(nil), samples...))
		}),
	}

	buf := make([][2]float64, 512)
	for {
		n, ok := tp.Stream(buf)
		if !ok {
			break
		}
		assert.Positive(t, n)
	}

	require.Len(t, blocks, 2, "the trailing partial block is held back")
	want := int16(16383) // 0.5 * 32767, truncated
	for _, block := range blocks {
		for _, s := range block {
			require.Equal(t, want, s)
		}
	}
	assert.NoError(t, tp.Err())
}
