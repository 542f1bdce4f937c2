package stream

import (
	"testing"
	"time"

	"github.com/kbrandt/ledwave/internal/dsp"
	"github.com/kbrandt/ledwave/internal/effects"
)

func TestOpenAndFirstTickEmitsFrame(t *testing.T) {
	core := NewCore()
	settings := dsp.DefaultSettings()
	effect := effects.NewMelbankEffect()

	receiver, tick := core.Open(44100, settings, [3]uint8{255, 255, 255}, effect)

	data := make([]float32, 1024)
	for i := range data {
		data[i] = float32(i%9) * 0.05
	}
	tick(data)

	select {
	case frame := <-receiver.DMX:
		if len(frame) == 0 {
			t.Fatalf("empty DMX frame")
		}
	case <-time.After(time.Second):
		t.Fatalf("no DMX frame emitted for the first tick")
	}
}

func TestTickDroppingOnLengthChange(t *testing.T) {
	core := NewCore()
	settings := dsp.DefaultSettings()
	effect := effects.NewMelbankEffect()

	receiver, tick := core.Open(44100, settings, [3]uint8{255, 255, 255}, effect)

	tick(make([]float32, 1024))
	select {
	case <-receiver.DMX:
	case <-time.After(time.Second):
		t.Fatalf("first tick (1024 zeros) should emit a frame")
	}

	tick(make([]float32, 512))
	select {
	case <-receiver.DMX:
		t.Fatalf("second tick with a different buffer length should not emit a frame")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestUpdateEffectSwapsCleanlyBetweenTicks(t *testing.T) {
	core := NewCore()
	settings := dsp.DefaultSettings()

	receiver, tick := core.Open(44100, settings, [3]uint8{255, 255, 255}, effects.NewFFTEffect())
	tick(make([]float32, 1024))
	select {
	case <-receiver.View:
	case <-time.After(time.Second):
		t.Fatalf("expected a view frame from the FFT effect")
	}
	select {
	case <-receiver.DMX:
		t.Fatalf("FFT effect should never emit DMX data")
	default:
	}

	core.UpdateEffect(effects.NewMelbankEffect())
	tick(make([]float32, 1024))
	select {
	case <-receiver.DMX:
	case <-time.After(time.Second):
		t.Fatalf("expected a DMX frame after swapping to the Melbank effect")
	}
}

func TestUsesExternalColorReflectsCurrentEffect(t *testing.T) {
	core := NewCore()
	if _, ok := core.UsesExternalColor(); ok {
		t.Fatalf("expected ok=false before Open")
	}

	_, _ = core.Open(44100, dsp.DefaultSettings(), [3]uint8{1, 2, 3}, effects.NewMelbankEffect())
	used, ok := core.UsesExternalColor()
	if !ok || !used {
		t.Fatalf("Melbank should use external color: used=%v ok=%v", used, ok)
	}

	core.UpdateEffect(effects.NewShineEffect())
	used, ok = core.UsesExternalColor()
	if !ok || used {
		t.Fatalf("Shine should not use external color: used=%v ok=%v", used, ok)
	}
}
