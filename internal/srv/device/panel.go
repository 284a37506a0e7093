package device

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/dannybellieveit/skyhat/internal/srv/config"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

type panelKind int

const (
	mainPanelKind panelKind = iota // ST7789VW, 240x240
	sidePanelKind                  // ST7735S, 160x80 landscape
)

const spiChunkSize = 4096

// Panel drives one SPI LCD. show assumes the bitmap matches the native
// resolution exactly; there is no driver-side scaling.
type Panel struct {
	name string
	kind panelKind

	width   int
	height  int
	xOffset int
	yOffset int

	port      spi.PortCloser
	conn      spi.Conn
	dc        gpio.PinOut
	rst       gpio.PinOut
	backlight gpio.PinOut

	lastDuty  int64
	pwmWarned bool
}

func newPanel(name string, kind panelKind, pins config.PanelPinParam) (*Panel, error) {
	p := &Panel{name: name, kind: kind, lastDuty: -1}
	switch kind {
	case mainPanelKind:
		p.width, p.height = 240, 240
	case sidePanelKind:
		p.width, p.height = 160, 80
		p.xOffset, p.yOffset = 1, 26
	}

	if p.dc = gpioreg.ByName(pins.DcPin); p.dc == nil {
		return nil, fmt.Errorf("panel %s: dc pin %s not found", name, pins.DcPin)
	}
	if p.rst = gpioreg.ByName(pins.ResetPin); p.rst == nil {
		return nil, fmt.Errorf("panel %s: reset pin %s not found", name, pins.ResetPin)
	}
	if p.backlight = gpioreg.ByName(pins.BacklightPin); p.backlight == nil {
		return nil, fmt.Errorf("panel %s: backlight pin %s not found", name, pins.BacklightPin)
	}

	var err error
	if p.port, err = spireg.Open(pins.SpiPort); err != nil {
		return nil, fmt.Errorf("panel %s: %w", name, err)
	}
	if p.conn, err = p.port.Connect(10*physic.MegaHertz, spi.Mode0, 8); err != nil {
		p.port.Close()
		return nil, fmt.Errorf("panel %s: %w", name, err)
	}

	return p, nil
}

func (p *Panel) init() error {
	if err := p.reset(); err != nil {
		return err
	}

	steps := []struct {
		cmd   byte
		data  []byte
		delay time.Duration
	}{
		{cmd: 0x01, delay: 150 * time.Millisecond}, // SWRESET
		{cmd: 0x11, delay: 120 * time.Millisecond}, // SLPOUT
		{cmd: 0x3A, data: []byte{0x05}},            // COLMOD 16bit
		{cmd: 0x36, data: []byte{p.madctl()}},      // MADCTL
		{cmd: 0x21},                                // INVON
		{cmd: 0x13},                                // NORON
		{cmd: 0x29, delay: 100 * time.Millisecond}, // DISPON
	}
	for _, step := range steps {
		if err := p.command(step.cmd, step.data...); err != nil {
			return fmt.Errorf("panel %s init: %w", p.name, err)
		}
		if step.delay > 0 {
			time.Sleep(step.delay)
		}
	}
	return nil
}

func (p *Panel) madctl() byte {
	if p.kind == sidePanelKind {
		// landscape, BGR order
		return 0x78
	}
	return 0x00
}

func (p *Panel) reset() error {
	if err := p.rst.Out(gpio.High); err != nil {
		return err
	}
	time.Sleep(10 * time.Millisecond)
	if err := p.rst.Out(gpio.Low); err != nil {
		return err
	}
	time.Sleep(10 * time.Millisecond)
	if err := p.rst.Out(gpio.High); err != nil {
		return err
	}
	time.Sleep(120 * time.Millisecond)
	return nil
}

func (p *Panel) command(cmd byte, data ...byte) error {
	if err := p.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := p.conn.Tx([]byte{cmd}, nil); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := p.dc.Out(gpio.High); err != nil {
		return err
	}
	return p.sendData(data)
}

func (p *Panel) sendData(data []byte) error {
	for len(data) > 0 {
		chunk := data
		if len(chunk) > spiChunkSize {
			chunk = chunk[:spiChunkSize]
		}
		if err := p.conn.Tx(chunk, nil); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}

// Show writes a full frame.
func (p *Panel) Show(img image.Image) error {
	bounds := img.Bounds()
	if bounds.Dx() != p.width || bounds.Dy() != p.height {
		return fmt.Errorf("panel %s: bitmap %dx%d does not match %dx%d", p.name, bounds.Dx(), bounds.Dy(), p.width, p.height)
	}

	if err := p.setWindow(); err != nil {
		return err
	}

	buffer := make([]byte, 0, p.width*p.height*2)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			pixel := uint16(c.R&0xF8)<<8 | uint16(c.G&0xFC)<<3 | uint16(c.B)>>3
			buffer = append(buffer, byte(pixel>>8), byte(pixel))
		}
	}

	if err := p.dc.Out(gpio.High); err != nil {
		return err
	}
	return p.sendData(buffer)
}

func (p *Panel) setWindow() error {
	x0 := p.xOffset
	x1 := p.xOffset + p.width - 1
	y0 := p.yOffset
	y1 := p.yOffset + p.height - 1
	if err := p.command(0x2A, byte(x0>>8), byte(x0), byte(x1>>8), byte(x1)); err != nil { // CASET
		return err
	}
	if err := p.command(0x2B, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1)); err != nil { // RASET
		return err
	}
	return p.command(0x2C) // RAMWR
}

// SetBacklight adjusts the backlight duty cycle (0-100) through PWM. Pins
// without hardware PWM degrade to plain on/off.
func (p *Panel) SetBacklight(percent int64) {
	if percent == p.lastDuty {
		return
	}
	p.lastDuty = percent

	if percent <= 0 {
		if err := p.backlight.Out(gpio.Low); err != nil {
			logrus.Warnf("Panel %s: backlight off failed: %v", p.name, err)
		}
		return
	}

	duty := gpio.Duty(int64(gpio.DutyMax) * percent / 100)
	if err := p.backlight.PWM(duty, 25*physic.KiloHertz); err != nil {
		if !p.pwmWarned {
			logrus.Warnf("Panel %s: no PWM on backlight pin, using on/off: %v", p.name, err)
			p.pwmWarned = true
		}
		if err = p.backlight.Out(gpio.High); err != nil {
			logrus.Warnf("Panel %s: backlight on failed: %v", p.name, err)
		}
	}
}

func (p *Panel) Clear() error {
	return p.Show(image.NewRGBA(image.Rect(0, 0, p.width, p.height)))
}

// Halt puts the controller to sleep and cuts the backlight.
func (p *Panel) Halt() {
	p.SetBacklight(0)
	if err := p.command(0x10); err != nil { // SLPIN
		logrus.Warnf("Panel %s: sleep failed: %v", p.name, err)
	}
}

func (p *Panel) Close() {
	if err := p.port.Close(); err != nil {
		logrus.Warnf("Panel %s: close failed: %v", p.name, err)
	}
}
