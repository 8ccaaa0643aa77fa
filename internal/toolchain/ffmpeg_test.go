package toolchain

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// writeLastArg makes a mocked ffmpeg produce the file named by its final argument.
func writeLastArg(args mock.Arguments) {
	argv := args.Get(2).([]string)
	_ = os.WriteFile(argv[len(argv)-1], []byte("video"), 0o644)
}

func newTestMedia(runner CommandRunner) *Media {
	return NewMedia(NewExecutorWithRunner(fakeRegistry(), runner), DefaultProfile(), DefaultTimeouts())
}

func TestCrossfadeOffsets(t *testing.T) {
	offsets := CrossfadeOffsets([]float64{2.0, 3.0, 1.5}, 0.25)
	require.Len(t, offsets, 2)
	assert.InDelta(t, 1.75, offsets[0], 1e-9)
	assert.InDelta(t, 4.5, offsets[1], 1e-9)

	// Clips shorter than the overlap never produce a negative offset.
	offsets = CrossfadeOffsets([]float64{0.1, 0.1, 0.1}, 0.25)
	assert.Equal(t, []float64{0, 0}, offsets)

	assert.Nil(t, CrossfadeOffsets([]float64{2.0}, 0.25))
}

func TestCrossfadeGraph(t *testing.T) {
	graph, final := CrossfadeGraph([]float64{1.75, 4.5}, 0.25)

	assert.Equal(t,
		"[0:v][1:v]xfade=transition=fade:duration=0.250:offset=1.750[vx1];"+
			"[vx1][2:v]xfade=transition=fade:duration=0.250:offset=4.500[vx2]",
		graph)
	assert.Equal(t, "[vx2]", final)
}

func TestConcatList_EscapesQuotes(t *testing.T) {
	list := ConcatList([]string{"/a/hello.mp4", "/b/it's.mp4"})
	assert.Equal(t, "file '/a/hello.mp4'\nfile '/b/it'\\''s.mp4'\n", list)
}

func TestMedia_Probe(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, "/usr/bin/ffprobe", mock.Anything, mock.Anything).
		Return([]byte("2.480000\n"), []byte(nil), nil).Once()
	runner.On("Run", mock.Anything, "/usr/bin/ffprobe", mock.Anything, mock.Anything).
		Return([]byte("N/A\n"), []byte(nil), nil).Once()

	media := newTestMedia(runner)

	d, err := media.Probe(context.Background(), "/videos/hello.mp4")
	require.NoError(t, err)
	assert.InDelta(t, 2.48, d, 1e-9)

	_, err = media.Probe(context.Background(), "/videos/broken.mp4")
	assert.ErrorIs(t, err, ErrBadProbe)
}

func TestMedia_NormalizeArgs(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "norm_000.mp4")
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, "/usr/bin/ffmpeg", mock.Anything, mock.Anything).
		Run(writeLastArg).
		Return([]byte(nil), []byte(nil), nil)

	require.NoError(t, newTestMedia(runner).Normalize(context.Background(), "/videos/hello.mp4", dst))

	args := runner.Calls[0].Arguments.Get(2).([]string)
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "scale=720:720:force_original_aspect_ratio=decrease,pad=720:720:(ow-iw)/2:(oh-ih)/2")
	assert.Contains(t, joined, "-r 30")
	assert.Contains(t, joined, "-preset veryfast -crf 23")
	assert.True(t, slices.Contains(args, "-an"))
	assert.Equal(t, dst, args[len(args)-1])
}

func TestMedia_ConcatRemovesList(t *testing.T) {
	out := filepath.Join(t.TempDir(), "seq.mp4")
	var listPath, listBody string

	runner := runnerFunc(func(_ context.Context, _ string, args []string) ([]byte, []byte, error) {
		i := slices.Index(args, "-i")
		listPath = args[i+1]
		b, _ := os.ReadFile(listPath)
		listBody = string(b)
		return nil, nil, os.WriteFile(out, []byte("video"), 0o644)
	})

	require.NoError(t, newTestMedia(runner).Concat(context.Background(), []string{"/n/a.mp4", "/n/b.mp4"}, out))
	assert.Equal(t, "file '/n/a.mp4'\nfile '/n/b.mp4'\n", listBody)
	_, err := os.Stat(listPath)
	assert.True(t, os.IsNotExist(err))
}

func TestMedia_Crossfade(t *testing.T) {
	out := filepath.Join(t.TempDir(), "seq.mp4")
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, "/usr/bin/ffmpeg", mock.Anything, mock.Anything).
		Run(writeLastArg).
		Return([]byte(nil), []byte(nil), nil)

	media := newTestMedia(runner)
	err := media.Crossfade(context.Background(), []string{"/n/a.mp4", "/n/b.mp4"}, []float64{2, 2}, 0.25, out)
	require.NoError(t, err)

	args := runner.Calls[0].Arguments.Get(2).([]string)
	assert.Contains(t, strings.Join(args, " "), "[0:v][1:v]xfade=transition=fade:duration=0.250:offset=1.750[vx1]")
	assert.Contains(t, strings.Join(args, " "), "-map [vx1]")
	assert.Contains(t, strings.Join(args, " "), "-preset fast")

	err = media.Crossfade(context.Background(), []string{"/n/a.mp4"}, []float64{2}, 0.25, out)
	assert.ErrorIs(t, err, ErrInvalidInvocation)
}

func TestMedia_Available(t *testing.T) {
	media := newTestMedia(new(MockRunner))
	assert.NoError(t, media.Available())
	assert.Equal(t, 720, media.Profile().Width)
	assert.Equal(t, 30*time.Second, DefaultTimeouts().Normalize)
}
