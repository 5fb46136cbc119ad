package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/sirupsen/logrus"

	"github.com/iburimskiy/pulseviz/internal/config"
)

// Output tracks the sample rate the shared speaker was last
// initialized with, so successive players only re-init on a rate
// change. The caller keeps one Output for the life of the process.
type Output struct {
	rate beep.SampleRate
}

// Player decodes an audio file, plays it through the speaker and taps
// the played samples into fixed-size mono blocks for the registered
// BlockFunc. Blocks arrive on the speaker's mixing goroutine at the
// file's own sample rate.
type Player struct {
	out      *Output
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	emit     BlockFunc

	mu     sync.Mutex
	paused bool
	closed bool
}

// tap converts the played stereo stream to mono int16 and pushes it
// through the block framer as a side effect of streaming.
type tap struct {
	source beep.Streamer
	framer *framer
}

func (t *tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.source.Stream(samples)
	for i := 0; i < n; i++ {
		t.framer.push(monoInt16(samples[i]))
	}
	return n, ok
}

func (t *tap) Err() error { return t.source.Err() }

func monoInt16(s [2]float64) int16 {
	v := (s[0] + s[1]) / 2
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int16(v * 32767)
}

// OpenFile decodes path by extension (.wav, .mp3, .flac). The player
// plays through out's speaker when started.
func OpenFile(out *Output, path string, emit BlockFunc) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch filepath.Ext(path) {
	case ".wav", ".WAV":
		streamer, format, err = wav.Decode(f)
	case ".mp3", ".MP3":
		streamer, format, err = mp3.Decode(f)
	case ".flac", ".FLAC":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, errors.New("unsupported file type: " + filepath.Ext(path))
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	logrus.WithFields(logrus.Fields{
		"path":        filepath.Base(path),
		"sample_rate": format.SampleRate,
	}).Info("audio file loaded")

	return &Player{out: out, file: f, streamer: streamer, format: format, emit: emit}, nil
}

// Start plays the file through the speaker with the visual tap in the
// chain. When the stream drains, resources are closed automatically
// and Finished reports true.
func (p *Player) Start() error {
	t := &tap{source: p.streamer, framer: newFramer(config.BlockSize, p.emit)}
	p.ctrl = &beep.Ctrl{Streamer: t}

	if p.format.SampleRate != p.out.rate {
		bufferSize := p.format.SampleRate.N(time.Second / 20)
		if err := speaker.Init(p.format.SampleRate, bufferSize); err != nil {
			return fmt.Errorf("init speaker: %w", err)
		}
		p.out.rate = p.format.SampleRate
	} else {
		speaker.Lock()
		speaker.Clear()
		speaker.Unlock()
	}

	speaker.Play(beep.Seq(p.ctrl, beep.Callback(func() {
		logrus.Info("playback finished")
		p.close()
	})))
	return nil
}

// TogglePause flips the paused state and reports the new value.
func (p *Player) TogglePause() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = !p.paused
	speaker.Lock()
	p.ctrl.Paused = p.paused
	speaker.Unlock()
	return p.paused
}

// Finished reports whether playback has ended, either by the stream
// draining or by Stop.
func (p *Player) Finished() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Stop clears the speaker and closes the decoder and file.
func (p *Player) Stop() error {
	speaker.Lock()
	speaker.Clear()
	speaker.Unlock()
	p.close()
	return nil
}

func (p *Player) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	_ = p.streamer.Close()
	_ = p.file.Close()
}
