// Package sacnout forwards DMX byte buffers produced by the DSP
// pipeline onto the network as sACN (E1.31) packets.
package sacnout

import (
	"log"
	"sync"
)

// DMXSize is the number of data slots in one DMX universe.
const DMXSize = 512

// DefaultBindAddress is the local address the multicast sender binds
// to -- ACN_SDT_MULTICAST_PORT+1, matching the original implementation.
const DefaultBindAddress = "0.0.0.0:5569"

// DefaultUniverse is the universe a freshly opened stream sends on
// until the controller is told otherwise.
const DefaultUniverse = uint16(1)

// DMXSource is the sACN transport black box. Send transmits one DMX
// frame on universe (which must already be registered, typically via
// an initial SetUniverse call); SetUniverse registers a new universe
// and stops announcing the previous one.
type DMXSource interface {
	Send(universe uint16, data []byte) error
	SetUniverse(newUniverse uint16) error
	Close() error
}

// Dispatcher is the background drain loop: it consumes the sACN byte
// channel produced by stream.Sender and forwards each frame to the
// currently active universe, logging but not propagating send errors
// (a stalled or misconfigured sACN receiver must never back up onto
// the audio callback).
type Dispatcher struct {
	mu       sync.Mutex
	source   DMXSource
	universe uint16
}

// NewDispatcher registers universe on source and returns a Dispatcher
// ready to drain a byte channel via Listen.
func NewDispatcher(source DMXSource, universe uint16) (*Dispatcher, error) {
	if err := source.SetUniverse(universe); err != nil {
		return nil, err
	}
	return &Dispatcher{source: source, universe: universe}, nil
}

// Listen spawns the drain goroutine. It blocking-receives byte frames
// from rx and forwards them until rx is closed, at which point the
// goroutine exits.
func (d *Dispatcher) Listen(rx <-chan []byte) {
	go func() {
		for data := range rx {
			universe := d.Universe()
			if err := d.source.Send(universe, data); err != nil {
				log.Printf("sacnout: send on universe %d failed: %v", universe, err)
			}
		}
	}()
}

// SetUniverse switches which universe future frames are sent on.
func (d *Dispatcher) SetUniverse(universe uint16) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if universe == d.universe {
		return nil
	}
	if err := d.source.SetUniverse(universe); err != nil {
		return err
	}
	d.universe = universe
	return nil
}

// Universe returns the universe currently being sent on.
func (d *Dispatcher) Universe() uint16 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.universe
}

// Close releases the underlying transport.
func (d *Dispatcher) Close() error {
	return d.source.Close()
}
