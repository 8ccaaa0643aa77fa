package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/ekisa-team/signbridge/internal/composer"
	"github.com/ekisa-team/signbridge/internal/gesture"
	"github.com/ekisa-team/signbridge/internal/library"
	"github.com/ekisa-team/signbridge/internal/observe"
	"github.com/ekisa-team/signbridge/internal/resolver"
	"github.com/ekisa-team/signbridge/internal/toolchain"
)

// --- Mock types ---

type MockMedia struct {
	mock.Mock
}

func (m *MockMedia) Available() error { return m.Called().Error(0) }

func (m *MockMedia) Probe(ctx context.Context, path string) (float64, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockMedia) Normalize(ctx context.Context, src, dst string) error {
	_ = os.WriteFile(dst, []byte("video"), 0o644)
	return m.Called(ctx, src, dst).Error(0)
}

func (m *MockMedia) Concat(ctx context.Context, inputs []string, out string) error {
	_ = os.WriteFile(out, []byte("video"), 0o644)
	return m.Called(ctx, inputs, out).Error(0)
}

func (m *MockMedia) Crossfade(ctx context.Context, inputs []string, durations []float64, overlap float64, out string) error {
	_ = os.WriteFile(out, []byte("video"), 0o644)
	return m.Called(ctx, inputs, durations, overlap, out).Error(0)
}

// --- Helpers ---

type fixture struct {
	signs  *Signs
	media  *MockMedia
	reader *sdkmetric.ManualReader
	videos string
}

func newFixture(t *testing.T, available error) *fixture {
	t.Helper()
	root := t.TempDir()
	videos := filepath.Join(root, "videos")
	letters := filepath.Join(root, "letters")

	require.NoError(t, os.MkdirAll(videos, 0o755))
	require.NoError(t, os.MkdirAll(letters, 0o755))
	for _, n := range []string{"HELLO.mp4", "GOODBYE.mp4"} {
		require.NoError(t, os.WriteFile(filepath.Join(videos, n), []byte("clip"), 0o644))
	}
	for r := 'A'; r <= 'Z'; r++ {
		require.NoError(t, os.WriteFile(filepath.Join(letters, string(r)+".mp4"), []byte("clip"), 0o644))
	}

	lib, err := library.Open(context.Background(), library.Options{VideoDir: videos, FingerspellDir: letters})
	require.NoError(t, err)

	media := new(MockMedia)
	media.On("Available").Return(available)
	media.On("Probe", mock.Anything, mock.Anything).Return(2.0, nil)
	media.On("Normalize", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	media.On("Concat", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	media.On("Crossfade", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	comp, err := composer.New(media, composer.Config{CacheDir: filepath.Join(root, "sequences")})
	require.NoError(t, err)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := observe.NewMetrics(mp)
	require.NoError(t, err)

	return &fixture{
		signs:  NewSigns(lib, gesture.NewMemoryCodec(gesture.DefaultLexicon()), comp, metrics),
		media:  media,
		reader: reader,
		videos: videos,
	}
}

// --- Tests ---

func TestSequence_AllVideoIsComposed(t *testing.T) {
	f := newFixture(t, nil)

	seq, err := f.signs.Sequence(context.Background(), []string{"hello", "goodbye"}, true, composer.Options{Crossfade: true})
	require.NoError(t, err)

	assert.Equal(t, 2, seq.Total)
	assert.Equal(t, resolver.Summary{Video: 2}, seq.Summary)
	require.NotNil(t, seq.Composition)
	assert.Equal(t, composer.StrategyCrossfade, seq.Composition.Strategy)
	assert.Empty(t, seq.Unavailable)
}

func TestSequence_MixedKindsAreNotComposed(t *testing.T) {
	f := newFixture(t, nil)

	seq, err := f.signs.Sequence(context.Background(), []string{"HELLO", "THANK", "XYZ"}, true, composer.Options{})
	require.NoError(t, err)

	assert.Equal(t, resolver.Summary{Video: 1, Markup: 1, Fingerspell: 1}, seq.Summary)
	assert.Nil(t, seq.Composition)
	assert.NotEmpty(t, seq.Unavailable)
	f.media.AssertNotCalled(t, "Normalize", mock.Anything, mock.Anything, mock.Anything)
}

func TestSequence_ToolchainMissingIsReportedNotFailed(t *testing.T) {
	f := newFixture(t, toolchain.ErrToolUnavailable)

	seq, err := f.signs.Sequence(context.Background(), []string{"HELLO", "GOODBYE"}, true, composer.Options{})
	require.NoError(t, err)
	assert.Nil(t, seq.Composition)
	assert.Contains(t, seq.Unavailable, "not installed")
}

func TestSequence_SingleVideoPassthroughKeepsURL(t *testing.T) {
	f := newFixture(t, nil)

	seq, err := f.signs.Sequence(context.Background(), []string{"HELLO"}, true, composer.Options{})
	require.NoError(t, err)
	require.NotNil(t, seq.Composition)
	assert.Equal(t, composer.StrategyPassthrough, seq.Composition.Strategy)
	assert.Equal(t, "/asl-videos/HELLO.mp4", seq.Composition.URL)
}

func TestResolve_RecordsOutcomes(t *testing.T) {
	f := newFixture(t, nil)

	f.signs.Resolve(context.Background(), []string{"HELLO", "THANK", "QQ"})

	var rm metricdata.ResourceMetrics
	require.NoError(t, f.reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "signbridge.resolve.outcomes" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				total += dp.Value
			}
		}
	}
	assert.Equal(t, int64(3), total)
}

func TestRefresh_PicksUpNewClips(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(f.videos, "THANK.mp4"), []byte("clip"), 0o644))

	cov, err := f.signs.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, cov.TotalSigns)

	d := f.signs.Resolve(context.Background(), []string{"THANK"})
	assert.Equal(t, resolver.KindVideo, d[0].Kind)
}

func TestAddSignAndLexicon(t *testing.T) {
	f := newFixture(t, nil)

	entry, err := f.signs.AddSign(context.Background(), "friend", gesture.NewSign("5", "chest", "wave", "Friend"))
	require.NoError(t, err)
	assert.Equal(t, "FRIEND", entry.Token)

	lex := f.signs.Lexicon()
	assert.Len(t, lex, 32)

	cov := f.signs.Coverage()
	assert.Equal(t, 32, cov.Statistics.LexiconSigns)
	assert.Equal(t, 2, cov.Library.TotalSigns)
}

func TestMarkup(t *testing.T) {
	f := newFixture(t, nil)
	doc := f.signs.Markup([]string{"hello", " ", "zz"})
	assert.Contains(t, doc, `gloss="Hello greeting sign"`)
	assert.Contains(t, doc, `gloss="FINGERSPELL-ZZ"`)
}

func TestCompose_RejectsPathsOutsideLibrary(t *testing.T) {
	f := newFixture(t, nil)

	outside := filepath.Join(t.TempDir(), "elsewhere.mp4")
	require.NoError(t, os.WriteFile(outside, []byte("clip"), 0o644))

	_, err := f.signs.Compose(context.Background(), []string{filepath.Join(f.videos, "HELLO.mp4"), outside}, composer.Options{})
	require.ErrorIs(t, err, ErrOutsideLibrary)

	_, err = f.signs.Compose(context.Background(), []string{filepath.Join(f.videos, "..", "..", "etc", "passwd")}, composer.Options{})
	require.ErrorIs(t, err, ErrOutsideLibrary)

	f.media.AssertNotCalled(t, "Available")
}

func TestSequence_PassthroughUsesSurvivingClip(t *testing.T) {
	f := newFixture(t, nil)
	hello := filepath.Join(f.videos, "HELLO.mp4")

	// HELLO disappears between resolution and composition.
	f.media.ExpectedCalls = nil
	f.media.On("Available").Run(func(mock.Arguments) { _ = os.Remove(hello) }).Return(nil)

	seq, err := f.signs.Sequence(context.Background(), []string{"HELLO", "GOODBYE"}, true, composer.Options{})
	require.NoError(t, err)
	require.NotNil(t, seq.Composition)
	assert.Equal(t, composer.StrategyPassthrough, seq.Composition.Strategy)
	assert.Equal(t, "/asl-videos/GOODBYE.mp4", seq.Composition.URL)
}
