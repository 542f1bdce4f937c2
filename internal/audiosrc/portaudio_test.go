package audiosrc

import "testing"

func TestAverageChannelsMixesDownToMono(t *testing.T) {
	in := [][]float32{
		{1, 1, 1},
		{-1, 1, 3},
	}
	got := averageChannels(in)
	want := []float32{0, 1, 2}
	for i, v := range got {
		if v != want[i] {
			t.Fatalf("got[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestAverageChannelsSingleChannelIsIdentity(t *testing.T) {
	in := [][]float32{{0.1, 0.2, 0.3}}
	got := averageChannels(in)
	for i, v := range got {
		if v != in[0][i] {
			t.Fatalf("got[%d] = %v, want %v", i, v, in[0][i])
		}
	}
}

func TestAverageChannelsEmptyInput(t *testing.T) {
	if got := averageChannels(nil); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}
