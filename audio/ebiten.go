package audio

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/audio"
	log "github.com/sirupsen/logrus"
)

// EbitenOutput plays through ebiten's audio context.
type EbitenOutput struct {
	ctx   *audio.Context
	music *audio.Player
	// musicSource is the loop the current player was built from.
	musicSource []float64
}

// NewEbitenOutput reuses the process-wide ebiten audio context, creating it
// at SampleRate if needed.
func NewEbitenOutput() (*EbitenOutput, error) {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(SampleRate)
	}
	if ctx.SampleRate() != SampleRate {
		return nil, fmt.Errorf("ebiten audio context runs at %d Hz, need %d", ctx.SampleRate(), SampleRate)
	}
	return &EbitenOutput{ctx: ctx}, nil
}

func (o *EbitenOutput) PlayEffect(samples []float64) {
	p := o.ctx.NewPlayerFromBytes(EncodePCM16(samples))
	p.Play()
}

func (o *EbitenOutput) StartMusic(loop []float64) {
	if o.music == nil || !sameSamples(loop, o.musicSource) {
		if o.music != nil {
			o.music.Close()
			o.music = nil
		}
		data := EncodePCM16(loop)
		src := audio.NewInfiniteLoop(bytes.NewReader(data), int64(len(data)))
		p, err := o.ctx.NewPlayer(src)
		if err != nil {
			log.WithError(err).Warn("music player unavailable")
			return
		}
		o.music = p
		o.musicSource = loop
	}
	if err := o.music.Rewind(); err != nil {
		log.WithError(err).Warn("rewind music")
		return
	}
	o.music.Play()
}

// sameSamples reports whether a and b are the same buffer, not merely equal
// contents.
func sameSamples(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

func (o *EbitenOutput) StopMusic() {
	if o.music != nil {
		o.music.Pause()
	}
}

func (o *EbitenOutput) Close() error {
	if o.music == nil {
		return nil
	}
	err := o.music.Close()
	o.music = nil
	return err
}
