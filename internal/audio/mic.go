package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"

	"github.com/iburimskiy/pulseviz/internal/config"
)

// Mic captures mono int16 blocks from the default input device. The
// capture buffer is sized to one block, so every PortAudio read yields
// exactly one delivery. The caller owns portaudio.Initialize and
// Terminate.
type Mic struct {
	stream *portaudio.Stream
	buf    []int16
	emit   BlockFunc
	done   chan struct{}
	exited chan struct{}
}

// NewMic opens a capture stream on the default input device at the
// configured sample rate and block size.
func NewMic(emit BlockFunc) (*Mic, error) {
	buf := make([]int16, config.BlockSize)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(config.SampleRate), len(buf), buf)
	if err != nil {
		return nil, fmt.Errorf("open default input stream: %w", err)
	}
	return &Mic{
		stream: stream,
		buf:    buf,
		emit:   emit,
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}, nil
}

// Start begins capture and launches the blocking read loop.
func (m *Mic) Start() error {
	if err := m.stream.Start(); err != nil {
		return fmt.Errorf("start input stream: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"sample_rate": config.SampleRate,
		"block_size":  config.BlockSize,
	}).Info("microphone capture started")
	go m.loop()
	return nil
}

func (m *Mic) loop() {
	defer close(m.exited)
	for {
		select {
		case <-m.done:
			return
		default:
		}
		if err := m.stream.Read(); err != nil {
			select {
			case <-m.done: // Stop aborted the read
			default:
				logrus.WithError(err).Error("microphone read failed, capture stopped")
			}
			return
		}
		m.emit(m.buf)
	}
}

// Stop ends capture, waits for the read loop to exit and closes the
// stream.
func (m *Mic) Stop() error {
	close(m.done)
	if err := m.stream.Abort(); err != nil {
		logrus.WithError(err).Warn("aborting input stream")
	}
	<-m.exited
	if err := m.stream.Close(); err != nil {
		return fmt.Errorf("close input stream: %w", err)
	}
	logrus.Info("microphone capture stopped")
	return nil
}
