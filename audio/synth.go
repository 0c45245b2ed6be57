package audio

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
	"time"
)

// SampleRate of every rendered buffer, in Hz.
const SampleRate = 44100

// Waveform is an oscillator shape.
type Waveform uint8

const (
	Sine Waveform = iota
	Square
	Saw
	Triangle
)

// At returns the oscillator value for a phase measured in cycles.
func (w Waveform) At(phase float64) float64 {
	_, frac := math.Modf(phase)
	switch w {
	case Square:
		if frac < 0.5 {
			return 1
		}
		return -1
	case Saw:
		return 2*frac - 1
	case Triangle:
		return 1 - 4*math.Abs(frac-0.5)
	}
	return math.Sin(2 * math.Pi * frac)
}

// Tone is a single oscillator note with an exponential decay.
type Tone struct {
	Frequency float64
	Duration  time.Duration
	Volume    float64
	Wave      Waveform
}

// decayFloor is the gain an envelope decays to by the end of a tone.
const decayFloor = 0.01

func samplesFor(d time.Duration) int {
	return int(d.Seconds() * SampleRate)
}

// Render returns mono samples in [-1, 1]. The gain falls exponentially from
// Volume to decayFloor over the duration.
func (t Tone) Render() []float64 {
	n := samplesFor(t.Duration)
	out := make([]float64, n)
	if n == 0 || t.Volume <= 0 {
		return out
	}
	ratio := decayFloor / t.Volume
	for i := range out {
		sec := float64(i) / SampleRate
		gain := t.Volume * math.Pow(ratio, float64(i)/float64(n))
		out[i] = t.Wave.At(t.Frequency*sec) * gain
	}
	return out
}

// Kick renders a 150Hz sine that sweeps toward zero while fading out.
func Kick(volume float64) []float64 {
	const length = 500 * time.Millisecond
	n := samplesFor(length)
	out := make([]float64, n)
	if volume <= 0 {
		return out
	}
	ratio := decayFloor / volume
	phase := 0.0
	for i := range out {
		progress := float64(i) / float64(n)
		freq := 150 * math.Pow(0.01/150, progress)
		phase += freq / SampleRate
		out[i] = math.Sin(2*math.Pi*phase) * volume * math.Pow(ratio, progress)
	}
	return out
}

// Note is a melody step measured in sixteenth notes.
type Note struct {
	Frequency  float64
	Sixteenths int
}

// Theme is the looping background melody.
var Theme = []Note{
	{659.25, 4}, {493.88, 2}, {523.25, 2},
	{587.33, 4}, {523.25, 2}, {493.88, 2},
	{440.00, 4}, {440.00, 2}, {523.25, 2},
	{659.25, 4}, {587.33, 2}, {523.25, 2},
	{493.88, 6}, {523.25, 2},
	{587.33, 4}, {659.25, 4},
	{523.25, 4}, {440.00, 4},
	{440.00, 8},
}

// Tempo of the theme in beats per minute.
const Tempo = 125

// SixteenthDuration is the length of one sixteenth note at bpm.
func SixteenthDuration(bpm int) time.Duration {
	return time.Duration(float64(time.Minute) / float64(bpm) / 4)
}

// MelodyDuration is the total length of a melody at bpm.
func MelodyDuration(melody []Note, bpm int) time.Duration {
	total := 0
	for _, n := range melody {
		total += n.Sixteenths
	}
	return time.Duration(total) * SixteenthDuration(bpm)
}

// RenderMelody renders one loop of melody: a sawtooth lead through a one-pole
// low-pass, a square bass an octave down on roughly half the notes, and a kick
// on every beat. The rng decides which notes get bass.
func RenderMelody(melody []Note, bpm int, volume float64, rng *rand.Rand) []float64 {
	total := samplesFor(MelodyDuration(melody, bpm))
	out := make([]float64, total)
	sixteenth := SixteenthDuration(bpm)
	ramp := samplesFor(50 * time.Millisecond)

	pos := 0
	for _, note := range melody {
		n := samplesFor(time.Duration(note.Sixteenths) * sixteenth)
		withBass := rng.Float64() > 0.5

		lowpass := 0.0
		for i := 0; i < n && pos+i < total; i++ {
			sec := float64(i) / SampleRate

			// Linear attack, sustain at 80%, linear release.
			gain := volume
			switch {
			case i < ramp:
				gain *= float64(i) / float64(ramp)
			case i >= n-ramp:
				gain *= 0.8 * float64(n-i) / float64(ramp)
			default:
				gain *= 0.8
			}

			lead := Saw.At(note.Frequency * sec)
			lowpass += 0.25 * (lead - lowpass)
			sample := lowpass * gain

			if withBass {
				sample += Square.At(note.Frequency/2*sec) * volume * 0.3
			}
			out[pos+i] += sample
		}
		pos += n
	}

	kick := Kick(volume * 2)
	beat := samplesFor(time.Minute / time.Duration(bpm))
	for start := 0; start < total; start += beat {
		for i, s := range kick {
			if start+i >= total {
				break
			}
			out[start+i] += s
		}
	}

	for i, s := range out {
		out[i] = max(-1, min(1, s))
	}
	return out
}

// Mix adds b into a copy of a at offset samples, growing the result as
// needed.
func Mix(a, b []float64, offset int) []float64 {
	size := max(len(a), offset+len(b))
	out := make([]float64, size)
	copy(out, a)
	for i, s := range b {
		out[offset+i] += s
	}
	return out
}

// EncodePCM16 converts mono samples to signed 16-bit little-endian stereo.
func EncodePCM16(samples []float64) []byte {
	buf := make([]byte, len(samples)*4)
	for i, s := range samples {
		v := int16(max(-1, min(1, s)) * math.MaxInt16)
		binary.LittleEndian.PutUint16(buf[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(buf[i*4+2:], uint16(v))
	}
	return buf
}
