package audio

// Output plays rendered mono buffers at SampleRate. Implementations must not
// block the caller.
type Output interface {
	// PlayEffect mixes a one-shot buffer over whatever is playing.
	PlayEffect(samples []float64)
	// StartMusic loops the buffer from its beginning until StopMusic.
	StartMusic(loop []float64)
	StopMusic()
	Close() error
}

// NopOutput discards everything.
type NopOutput struct{}

func (NopOutput) PlayEffect([]float64) {}
func (NopOutput) StartMusic([]float64) {}
func (NopOutput) StopMusic()           {}
func (NopOutput) Close() error         { return nil }
