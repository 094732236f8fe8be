//go:build !headless
// +build !headless

package graphics

import (
	"errors"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"nescore/internal/bus"
)

const (
	screenWidth  = 2*patternSize + 240
	screenHeight = 2 * patternSize
)

// MonitorWindow implements ebiten.Game for the machine monitor.
//
//	Space  step one instruction
//	F      run one frame
//	P      run / pause
//	R      reset
//	N      raise NMI
//	I      raise IRQ
//	Esc    close
type MonitorWindow struct {
	controller
	scale int

	patterns [2]*ebiten.Image
}

// NewMonitorWindow creates a window over b. session advances the machine
// one frame per tick while it is running.
func NewMonitorWindow(b *bus.Bus, session Session, scale int) *MonitorWindow {
	if scale <= 0 {
		scale = 1
	}
	return &MonitorWindow{
		controller: controller{bus: b, session: session},
		scale:      scale,
		patterns: [2]*ebiten.Image{
			ebiten.NewImage(patternSize, patternSize),
			ebiten.NewImage(patternSize, patternSize),
		},
	}
}

// Run opens the window and blocks until it is closed
func (w *MonitorWindow) Run(title string) error {
	ebiten.SetWindowSize(screenWidth*w.scale, screenHeight*w.scale)
	ebiten.SetWindowTitle(title)

	err := ebiten.RunGame(w)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// LastError returns the execution error that paused the window, if any
func (w *MonitorWindow) LastError() error {
	return w.lastErr
}

var keyControls = []struct {
	key ebiten.Key
	cmd control
}{
	{ebiten.KeyP, controlToggle},
	{ebiten.KeySpace, controlStep},
	{ebiten.KeyF, controlFrame},
	{ebiten.KeyR, controlReset},
	{ebiten.KeyN, controlNMI},
	{ebiten.KeyI, controlIRQ},
}

// Update implements ebiten.Game.Update
func (w *MonitorWindow) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	for _, kc := range keyControls {
		if inpututil.IsKeyJustPressed(kc.key) {
			w.apply(kc.cmd)
			break
		}
	}

	w.tick()
	return nil
}

// Draw implements ebiten.Game.Draw
func (w *MonitorWindow) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x10, G: 0x10, B: 0x20, A: 0xFF})

	lines := StatusLines(w.bus)
	if w.session.IsRunning() {
		lines = append(lines, "", "RUNNING (P to pause)")
	}
	if w.lastErr != nil {
		lines = append(lines, "", w.lastErr.Error())
	}
	ebitenutil.DebugPrintAt(screen, strings.Join(lines, "\n"), 4, 4)

	cart := w.bus.Cartridge()
	if cart == nil {
		return
	}
	for i, img := range w.patterns {
		img.WritePixels(PatternTable(cart.ReadCHR, i).Pix)

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(screenWidth-2*patternSize+i*patternSize), 0)
		screen.DrawImage(img, op)
	}
}

// Layout implements ebiten.Game.Layout
func (w *MonitorWindow) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}
