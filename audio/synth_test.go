package audio_test

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/plus3/metris/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func peak(samples []float64) float64 {
	p := 0.0
	for _, s := range samples {
		p = math.Max(p, math.Abs(s))
	}
	return p
}

func TestToneLengthAndDecay(t *testing.T) {
	tone := audio.Tone{Frequency: 440, Duration: 100 * time.Millisecond, Volume: 0.5}
	samples := tone.Render()
	require.Len(t, samples, audio.SampleRate/10)

	head := peak(samples[:len(samples)/10])
	tail := peak(samples[len(samples)*9/10:])
	assert.LessOrEqual(t, head, 0.5+1e-9)
	assert.Greater(t, head, tail*5, "envelope decays")
}

func TestWaveformsStayInRange(t *testing.T) {
	for _, w := range []audio.Waveform{audio.Sine, audio.Square, audio.Saw, audio.Triangle} {
		for i := 0; i < 1000; i++ {
			v := w.At(float64(i) / 97)
			assert.GreaterOrEqual(t, v, -1.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
	assert.Equal(t, 1.0, audio.Square.At(0.25))
	assert.Equal(t, -1.0, audio.Square.At(0.75))
	assert.InDelta(t, 0, audio.Triangle.At(0.25), 1e-9)
}

func TestMelodyTiming(t *testing.T) {
	assert.Equal(t, 120*time.Millisecond, audio.SixteenthDuration(audio.Tempo))
	// 64 sixteenths: four bars of 4/4.
	assert.Equal(t, 64*120*time.Millisecond, audio.MelodyDuration(audio.Theme, audio.Tempo))
}

func TestRenderMelody(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	samples := audio.RenderMelody(audio.Theme, audio.Tempo, 0.2, rng)

	assert.Len(t, samples, int(audio.MelodyDuration(audio.Theme, audio.Tempo).Seconds()*audio.SampleRate))
	assert.LessOrEqual(t, peak(samples), 1.0)
	assert.Greater(t, peak(samples), 0.1)

	again := audio.RenderMelody(audio.Theme, audio.Tempo, 0.2, rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, samples, again, "deterministic for a seed")
}

func TestEncodePCM16(t *testing.T) {
	buf := audio.EncodePCM16([]float64{0, 1, -1, 2})
	require.Len(t, buf, 16)

	left := int16(binary.LittleEndian.Uint16(buf[4:]))
	right := int16(binary.LittleEndian.Uint16(buf[6:]))
	assert.Equal(t, int16(math.MaxInt16), left)
	assert.Equal(t, left, right)
	assert.Equal(t, int16(-math.MaxInt16), int16(binary.LittleEndian.Uint16(buf[8:])))
	assert.Equal(t, int16(math.MaxInt16), int16(binary.LittleEndian.Uint16(buf[12:])), "clipped")
}

func TestMix(t *testing.T) {
	out := audio.Mix([]float64{1, 1}, []float64{0.5, 0.5, 0.5}, 1)
	assert.Equal(t, []float64{1, 1.5, 0.5, 0.5}, out)
}
