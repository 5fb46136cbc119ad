package main

import (
	"errors"
	"image/color"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"
	"github.com/sirupsen/logrus"

	"github.com/iburimskiy/pulseviz/internal/audio"
	"github.com/iburimskiy/pulseviz/internal/config"
	"github.com/iburimskiy/pulseviz/internal/dsp"
	"github.com/iburimskiy/pulseviz/internal/viz"
)

// ebitenCanvas adapts the frame image to the renderer's point-drawing
// capability. Colors are non-premultiplied so particle alpha carries
// straight through.
type ebitenCanvas struct {
	img *ebiten.Image
}

func (c ebitenCanvas) Clear(col color.NRGBA) {
	c.img.Fill(col)
}

func (c ebitenCanvas) Point(x, y float64, col color.NRGBA) {
	c.img.Set(int(x), int(y), col)
}

type game struct {
	renderer *viz.Renderer
	proc     *dsp.Processor
	out      *audio.Output

	mic     *audio.Mic
	player  *audio.Player
	paused  bool
	lastErr error
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	// When a file drains, drop the player and go back to the
	// microphone so the status line and Space stop acting on it.
	if g.player != nil && g.player.Finished() {
		g.player = nil
		g.paused = false
		if g.mic == nil {
			if err := g.startMic(); err != nil {
				g.lastErr = err
			}
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) && g.player != nil {
		g.paused = g.player.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		if err := g.openFileDialog(); err != nil {
			g.lastErr = err
		}
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.renderer.Frame(ebitenCanvas{img: screen})
	ebitenutil.DebugPrintAt(screen, g.status(), 12, 12)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.ScreenSize, config.ScreenSize
}

func (g *game) status() string {
	var s string
	switch {
	case g.player != nil && g.paused:
		s = "File (paused) - Space: resume, O: open, Esc/Q: quit"
	case g.player != nil:
		s = "File - Space: pause, O: open, Esc/Q: quit"
	case g.mic != nil:
		s = "Microphone - O: open file, Esc/Q: quit"
	default:
		s = "No input - O: open file, Esc/Q: quit"
	}
	if g.lastErr != nil {
		s += " | Error: " + g.lastErr.Error()
	}
	return s
}

// startMic begins default-device capture feeding the processor.
func (g *game) startMic() error {
	mic, err := audio.NewMic(g.proc.ProcessBlock)
	if err != nil {
		return err
	}
	if err := mic.Start(); err != nil {
		return err
	}
	g.mic = mic
	return nil
}

// openFileDialog picks an audio file and switches the input source to
// its playback. The microphone, if running, is stopped first.
func (g *game) openFileDialog() error {
	path, err := zenity.SelectFile(
		zenity.Title("Open Audio File"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}

	player, err := audio.OpenFile(g.out, path, g.proc.ProcessBlock)
	if err != nil {
		return err
	}

	if g.mic != nil {
		if err := g.mic.Stop(); err != nil {
			logrus.WithError(err).Warn("stopping microphone")
		}
		g.mic = nil
	}
	if g.player != nil {
		_ = g.player.Stop()
	}

	if err := player.Start(); err != nil {
		return err
	}
	g.player = player
	g.paused = false
	g.lastErr = nil
	return nil
}

func main() {
	if err := portaudio.Initialize(); err != nil {
		logrus.WithError(err).Fatal("initializing portaudio")
	}
	defer portaudio.Terminate()

	state := viz.NewState()
	proc := dsp.NewProcessor(state, time.Now, time.Now().UnixNano())

	g := &game{
		renderer: viz.NewRenderer(state, time.Now),
		proc:     proc,
		out:      &audio.Output{},
	}
	if err := g.startMic(); err != nil {
		// No capture device is not fatal: a file can still be opened.
		logrus.WithError(err).Warn("microphone unavailable")
		g.lastErr = err
	}

	ebiten.SetWindowSize(config.ScreenSize, config.ScreenSize)
	ebiten.SetWindowTitle("Audio Visualizer")
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		logrus.WithError(err).Fatal("game loop")
	}
}
