package stream

import (
	"testing"

	"github.com/kbrandt/ledwave/internal/effects"
)

func TestSendRoutesDataAndViewIndependently(t *testing.T) {
	sender, receiver := NewChannel()

	sender.Send(effects.Frame{Data: []byte{1, 2, 3}})
	select {
	case got := <-receiver.DMX:
		if len(got) != 3 {
			t.Fatalf("got %v, want 3 bytes", got)
		}
	default:
		t.Fatalf("expected a DMX frame")
	}
	select {
	case <-receiver.View:
		t.Fatalf("did not expect a view frame")
	default:
	}

	sender.Send(effects.Frame{View: &effects.ViewFrame{Effect: []float32{0.5}}})
	select {
	case <-receiver.View:
	default:
		t.Fatalf("expected a view frame")
	}
}

func TestSendViewDropsOldestWhenFull(t *testing.T) {
	sender, receiver := NewChannel()

	for i := 0; i < previewChannelCapacity+3; i++ {
		sender.Send(effects.Frame{View: &effects.ViewFrame{Effect: []float32{float32(i)}}})
	}

	var last effects.ViewFrame
	count := 0
	for {
		select {
		case v := <-receiver.View:
			last = v
			count++
			continue
		default:
		}
		break
	}

	if count == 0 {
		t.Fatalf("expected at least one buffered view frame")
	}
	if last.Effect[0] != float32(previewChannelCapacity+2) {
		t.Fatalf("last buffered frame = %v, want the most recently sent one", last.Effect)
	}
}
