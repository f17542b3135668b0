//go:build !js

package audio

import (
	"errors"
	"time"

	"github.com/ebitengine/oto/v3"
)

const readyTimeout = 3 * time.Second

func platformInitContext(sampleRate int) (*oto.Context, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	select {
	case <-ready:
	case <-time.After(readyTimeout):
		return nil, errors.New("timed out waiting for audio device")
	}
	return ctx, nil
}
