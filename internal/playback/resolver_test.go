package playback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCapability struct {
	native  bool
	calls   []string
	loadErr error
	playErr error
}

func (f *fakeCapability) NativeHLS() bool { return f.native }

func (f *fakeCapability) Load(_ context.Context, url string) error {
	f.calls = append(f.calls, "load "+url)
	return f.loadErr
}

func (f *fakeCapability) Play(context.Context) error {
	f.calls = append(f.calls, "play")
	return f.playErr
}

func (f *fakeCapability) Stop(context.Context) error {
	f.calls = append(f.calls, "stop")
	return nil
}

func (f *fakeCapability) ToggleFullscreen(context.Context) error {
	f.calls = append(f.calls, "fullscreen")
	return nil
}

type recordingOpener struct {
	opened []string
	err    error
}

func (r *recordingOpener) Open(u string) error {
	r.opened = append(r.opened, u)
	return r.err
}

func TestResolver_ProgressivePlays(t *testing.T) {
	capability := &fakeCapability{}
	opener := &recordingOpener{}
	r := NewResolver(capability, opener, nil)

	res, err := r.Resolve(context.Background(), "http://cdn/ep1.mp4")
	require.NoError(t, err)

	assert.True(t, res.Playing)
	assert.False(t, res.External)
	assert.Equal(t, "http://cdn/ep1.mp4", res.URL)
	assert.Equal(t, []string{"stop", "load http://cdn/ep1.mp4", "play"}, capability.calls)
	assert.Empty(t, opener.opened)
}

func TestResolver_HLSWithoutNativeSupportOpensExternally(t *testing.T) {
	capability := &fakeCapability{native: false}
	opener := &recordingOpener{}
	r := NewResolver(capability, opener, nil)

	res, err := r.Resolve(context.Background(), "http://cdn/ep1.m3u8?token=abc")
	require.NoError(t, err)

	assert.False(t, res.Playing)
	assert.True(t, res.External)
	assert.Equal(t, WarnHLSExternal, res.Warning)
	assert.Equal(t, []string{"http://cdn/ep1.m3u8?token=abc"}, opener.opened)
	assert.Equal(t, []string{"stop"}, capability.calls, "previous source must still be detached")
}

func TestResolver_HLSWithNativeSupportPlays(t *testing.T) {
	capability := &fakeCapability{native: true}
	opener := &recordingOpener{}
	r := NewResolver(capability, opener, nil)

	res, err := r.Resolve(context.Background(), "http://cdn/master.M3U8")
	require.NoError(t, err)

	assert.True(t, res.Playing)
	assert.Empty(t, opener.opened)
}

func TestResolver_PlayFailureIsIgnored(t *testing.T) {
	capability := &fakeCapability{playErr: errors.New("autoplay blocked")}
	r := NewResolver(capability, &recordingOpener{}, nil)

	res, err := r.Resolve(context.Background(), "http://cdn/ep.mp4")
	require.NoError(t, err)
	assert.True(t, res.Playing)
}

func TestResolver_Errors(t *testing.T) {
	loadErr := errors.New("bad source")
	r := NewResolver(&fakeCapability{loadErr: loadErr}, &recordingOpener{}, nil)
	_, err := r.Resolve(context.Background(), "http://cdn/ep.mp4")
	assert.ErrorIs(t, err, loadErr)

	openErr := errors.New("no browser")
	r = NewResolver(&fakeCapability{}, &recordingOpener{err: openErr}, nil)
	_, err = r.Resolve(context.Background(), "http://cdn/ep.m3u8")
	assert.ErrorIs(t, err, openErr)

	var nilResolver *Resolver
	_, err = nilResolver.Resolve(context.Background(), "x")
	assert.Error(t, err)
	assert.NoError(t, nilResolver.Detach(context.Background()))
}

func TestIsHLS(t *testing.T) {
	tests := map[string]bool{
		"http://a/b.m3u8":          true,
		"http://a/b.m3u8?x=1#t":    true,
		"http://a/B.M3U8":          true,
		"http://a/b.mp4":           false,
		"http://a/b.mp4?f=.m3u8":   false,
		"relative/playlist.m3u8":   true,
		"":                         false,
		"http://a/b.m3u8/download": false,
	}
	for in, want := range tests {
		assert.Equal(t, want, IsHLS(in), "IsHLS(%q)", in)
	}
}
