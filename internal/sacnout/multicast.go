package sacnout

import (
	"fmt"
	"sync"

	sacn "github.com/Hundemeier/go-sacn"
)

// multicastSource is the DMXSource backing production use, built on
// github.com/Hundemeier/go-sacn. Activating a universe returns a
// channel frames are pushed onto; the library retransmits the latest
// pushed frame at the sACN keep-alive cadence on its own, so Send only
// needs to push whenever a new frame is available.
type multicastSource struct {
	mu       sync.Mutex
	sender   sacn.Sender
	universe uint16
	frame    chan<- [DMXSize]byte
}

// NewMulticastSource binds a multicast sACN sender to bindAddress
// (DefaultBindAddress in production) and registers DefaultUniverse.
func NewMulticastSource(bindAddress string) (DMXSource, error) {
	sender, err := sacn.NewSender(bindAddress, &sacn.DMXsenderParams{SourceName: "ledwave"})
	if err != nil {
		return nil, fmt.Errorf("sacnout: bind multicast sender to %s: %w", bindAddress, err)
	}

	s := &multicastSource{sender: sender}
	if err := s.SetUniverse(DefaultUniverse); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *multicastSource) Send(universe uint16, data []byte) error {
	s.mu.Lock()
	frame := s.frame
	active := s.universe
	s.mu.Unlock()

	if frame == nil || universe != active {
		return fmt.Errorf("sacnout: universe %d is not registered (call SetUniverse first)", universe)
	}

	var packet [DMXSize]byte
	copy(packet[:], data)

	select {
	case frame <- packet:
		return nil
	default:
		return fmt.Errorf("sacnout: universe %d receiver is behind, dropped a frame", universe)
	}
}

func (s *multicastSource) SetUniverse(newUniverse uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	frame, err := s.sender.Activate(newUniverse)
	if err != nil {
		return fmt.Errorf("sacnout: activate universe %d: %w", newUniverse, err)
	}

	if s.frame != nil {
		s.sender.Deactivate(s.universe)
	}
	s.universe = newUniverse
	s.frame = frame
	return nil
}

func (s *multicastSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frame != nil {
		s.sender.Deactivate(s.universe)
	}
	return nil
}
