package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const beepRate = beep.SampleRate(SampleRate)

// sampleStreamer streams a mono buffer to both channels, optionally looping.
type sampleStreamer struct {
	samples []float64
	pos     int
	loop    bool
}

func (s *sampleStreamer) Stream(out [][2]float64) (int, bool) {
	if len(s.samples) == 0 {
		return 0, false
	}
	n := 0
	for n < len(out) {
		if s.pos >= len(s.samples) {
			if !s.loop {
				break
			}
			s.pos = 0
		}
		v := s.samples[s.pos]
		out[n] = [2]float64{v, v}
		s.pos++
		n++
	}
	return n, n > 0
}

func (s *sampleStreamer) Err() error { return nil }

// BeepOutput plays through the gopxl/beep speaker. Effects and music share
// one mixer behind a master volume.
type BeepOutput struct {
	mixer  *beep.Mixer
	master *effects.Volume
	music  *beep.Ctrl
}

// NewBeepOutput initialises the speaker with a 100ms buffer. gain scales
// every sound; zero silences the output.
func NewBeepOutput(gain float64) (*BeepOutput, error) {
	if err := speaker.Init(beepRate, beepRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	o := newBeepOutput(gain)
	speaker.Play(o.master)
	return o, nil
}

func newBeepOutput(gain float64) *BeepOutput {
	mixer := &beep.Mixer{}
	return &BeepOutput{
		mixer: mixer,
		master: &effects.Volume{
			Streamer: mixer,
			Base:     2,
			Volume:   math.Log2(max(gain, 1e-6)),
			Silent:   gain <= 0,
		},
	}
}

func (o *BeepOutput) PlayEffect(samples []float64) {
	speaker.Lock()
	o.mixer.Add(&sampleStreamer{samples: samples})
	speaker.Unlock()
}

func (o *BeepOutput) StartMusic(loop []float64) {
	speaker.Lock()
	defer speaker.Unlock()
	if o.music != nil {
		o.music.Streamer = nil
	}
	o.music = &beep.Ctrl{Streamer: &sampleStreamer{samples: loop, loop: true}}
	o.mixer.Add(o.music)
}

func (o *BeepOutput) StopMusic() {
	speaker.Lock()
	defer speaker.Unlock()
	if o.music != nil {
		o.music.Paused = true
		o.music.Streamer = nil
		o.music = nil
	}
}

func (o *BeepOutput) Close() error {
	speaker.Lock()
	o.mixer.Clear()
	o.music = nil
	speaker.Unlock()
	speaker.Close()
	return nil
}
