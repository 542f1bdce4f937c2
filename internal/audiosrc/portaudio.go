package audiosrc

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// PortAudioHost is the Host implementation used in production, backed
// by PortAudio bindings. Multi-channel devices are opened with all of
// their input channels and averaged down to mono per buffer, since
// PortAudio (like the cpal input this was ported from) delivers
// per-channel buffers rather than a pre-mixed mono stream.
type PortAudioHost struct {
	devices map[int]*portaudio.DeviceInfo
}

// NewPortAudioHost initializes the PortAudio library and returns a
// Host over it. Callers must call Close when done to release it.
func NewPortAudioHost() (*PortAudioHost, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audiosrc: initialize portaudio: %w", err)
	}
	return &PortAudioHost{devices: map[int]*portaudio.DeviceInfo{}}, nil
}

// Close terminates the PortAudio library.
func (h *PortAudioHost) Close() error {
	return portaudio.Terminate()
}

func toDeviceInfo(index int, d *portaudio.DeviceInfo) DeviceInfo {
	return DeviceInfo{
		Index:             index,
		Name:              d.Name,
		MaxInputChannels:  d.MaxInputChannels,
		DefaultSampleRate: d.DefaultSampleRate,
	}
}

// Devices returns every device that supports at least one input
// channel.
func (h *PortAudioHost) Devices() ([]DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("audiosrc: enumerate devices: %w", err)
	}

	var out []DeviceInfo
	for index, d := range devices {
		if d.MaxInputChannels <= 0 {
			continue
		}
		h.devices[index] = d
		out = append(out, toDeviceInfo(index, d))
	}
	return out, nil
}

// DefaultInputDevice returns the platform's default capture device.
func (h *PortAudioHost) DefaultInputDevice() (DeviceInfo, error) {
	d, err := portaudio.DefaultInputDevice()
	if err != nil {
		return DeviceInfo{}, fmt.Errorf("audiosrc: no default input device: %w", err)
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return DeviceInfo{}, fmt.Errorf("audiosrc: enumerate devices: %w", err)
	}
	for index, candidate := range devices {
		if candidate == d {
			h.devices[index] = d
			return toDeviceInfo(index, d), nil
		}
	}
	return DeviceInfo{}, fmt.Errorf("audiosrc: default device not found in device list")
}

type portAudioStream struct {
	stream     *portaudio.Stream
	sampleRate int
}

func (s *portAudioStream) Start() error { return s.stream.Start() }
func (s *portAudioStream) Stop() error  { return s.stream.Stop() }
func (s *portAudioStream) Close() error { return s.stream.Close() }
func (s *portAudioStream) SampleRate() int { return s.sampleRate }

// OpenInputStream opens device for capture with the given number of
// channels at the device's default sample rate, framesPerBuffer
// samples per callback, invoking onData once per buffer with
// averaged-to-mono samples. onError is accepted for interface
// symmetry with other Host implementations; PortAudio reports stream
// errors only through the returned Stream's method calls, so it is
// otherwise unused here.
func (h *PortAudioHost) OpenInputStream(device DeviceInfo, channels int, framesPerBuffer int, onData InputCallback, onError ErrorCallback) (Stream, error) {
	native, ok := h.devices[device.Index]
	if !ok {
		return nil, fmt.Errorf("audiosrc: unknown device index %d (call Devices or DefaultInputDevice first)", device.Index)
	}
	if channels <= 0 {
		channels = native.MaxInputChannels
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   native,
			Channels: channels,
			Latency:  native.DefaultLowInputLatency,
		},
		SampleRate:      native.DefaultSampleRate,
		FramesPerBuffer: framesPerBuffer,
	}

	var (
		stream *portaudio.Stream
		err    error
	)
	if channels <= 1 {
		stream, err = portaudio.OpenStream(params, func(in []float32) {
			onData(in)
		})
	} else {
		stream, err = portaudio.OpenStream(params, func(in [][]float32) {
			onData(averageChannels(in))
		})
	}
	if err != nil {
		return nil, fmt.Errorf("audiosrc: open stream: %w", err)
	}

	_ = onError

	return &portAudioStream{stream: stream, sampleRate: int(native.DefaultSampleRate)}, nil
}

// averageChannels mixes a multi-channel buffer down to mono by
// averaging all channels at each sample position.
func averageChannels(in [][]float32) []float32 {
	if len(in) == 0 {
		return nil
	}
	n := len(in[0])
	out := make([]float32, n)
	for _, channel := range in {
		for i, v := range channel {
			out[i] += v
		}
	}
	inv := float32(1) / float32(len(in))
	for i := range out {
		out[i] *= inv
	}
	return out
}
