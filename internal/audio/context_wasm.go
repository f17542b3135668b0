//go:build js && wasm

package audio

import "github.com/ebitengine/oto/v3"

func platformInitContext(sampleRate int) (*oto.Context, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	// Browsers only resume the context after a user gesture; don't block on it.
	go func() { <-ready }()
	_ = ctx.Resume()
	return ctx, nil
}
