package led

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"

	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
	"github.com/coreman2200/funtimes-ledmatrix/internal/render"
)

// spiClock is the only SPI rate nrzled accepts.
const spiClock = 2500 * physic.KiloHertz

// NRZ drives a chain of NRZ (WS281x style) LEDs over SPI, one LED per
// matrix pixel.
type NRZ struct {
	mu     sync.Mutex
	dev    *nrzled.Dev
	port   spi.PortCloser
	wiring layout.Serpentine
	buf    []byte
}

// OpenNRZ opens the named SPI port ("" for the first one). host.Init must
// have run already.
func OpenNRZ(port string, wiring layout.Serpentine) (*NRZ, error) {
	p, err := spireg.Open(port)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", port, err)
	}
	d, err := NewNRZ(p, wiring)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	d.port = p
	return d, nil
}

// NewNRZ wraps an already open port. The caller keeps ownership of p.
func NewNRZ(p spi.Port, wiring layout.Serpentine) (*NRZ, error) {
	opts := nrzled.Opts{
		NumPixels: layout.Count,
		Channels:  3,
		Freq:      spiClock,
	}
	dev, err := nrzled.NewSPI(p, &opts)
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return &NRZ{dev: dev, wiring: wiring, buf: make([]byte, 0, layout.Count*3)}, nil
}

func (d *NRZ) String() string { return d.dev.String() }

func (d *NRZ) Write(g *render.Grid, brightness uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buf = Encode(d.buf[:0], g, brightness, d.wiring)
	if _, err := d.dev.Write(d.buf); err != nil {
		return fmt.Errorf("nrzled write: %w", err)
	}
	return nil
}

func (d *NRZ) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	err := d.dev.Halt()
	if d.port != nil {
		if cerr := d.port.Close(); err == nil {
			err = cerr
		}
		d.port = nil
	}
	return err
}
