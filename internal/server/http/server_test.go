package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/ekisa-team/signbridge/internal/composer"
	"github.com/ekisa-team/signbridge/internal/gesture"
	"github.com/ekisa-team/signbridge/internal/library"
	"github.com/ekisa-team/signbridge/internal/observe"
	"github.com/ekisa-team/signbridge/internal/service"
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

type testServer struct {
	handler http.Handler
	videos  string
	ready   bool
}

func newTestServer(t *testing.T, available error) *testServer {
	t.Helper()
	root := t.TempDir()
	videos := filepath.Join(root, "videos")
	letters := filepath.Join(root, "letters")
	sequences := filepath.Join(root, "sequences")

	require.NoError(t, os.MkdirAll(videos, 0o755))
	require.NoError(t, os.MkdirAll(letters, 0o755))
	for _, n := range []string{"HELLO.mp4", "GOODBYE.mp4"} {
		require.NoError(t, os.WriteFile(filepath.Join(videos, n), []byte("clip"), 0o644))
	}
	for _, r := range "ABC" {
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

	comp, err := composer.New(media, composer.Config{CacheDir: sequences})
	require.NoError(t, err)

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := observe.NewMetrics(mp)
	require.NoError(t, err)

	svc := service.NewSigns(lib, gesture.NewMemoryCodec(gesture.DefaultLexicon()), comp, metrics)

	ts := &testServer{videos: videos, ready: true}
	srv := NewServer(Config{
		Version: "test",
		Mounts: []Mount{
			{Prefix: "/asl-videos", Dir: videos},
			{Prefix: "/asl-sequences", Dir: sequences},
		},
		EvictMaxAge: time.Hour,
	}, svc, metrics, func() bool { return ts.ready })
	ts.handler = srv.Handler()
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// --- Tests ---

func TestResolveEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodPost, "/v1/signs/resolve", `{"tokens":["hello","thank","cab"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[map[string]any](t, rec)
	assert.EqualValues(t, 3, body["total"])

	signs := body["signs"].([]any)
	require.Len(t, signs, 3)
	assert.Equal(t, "video", signs[0].(map[string]any)["method"])
	assert.Equal(t, "sigml", signs[1].(map[string]any)["method"])
	assert.Equal(t, "fingerspell", signs[2].(map[string]any)["method"])
}

func TestResolveEndpoint_RejectsEmptyTokenList(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodPost, "/v1/signs/resolve", `{"tokens":[]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSequenceEndpoint_Composes(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodPost, "/v1/signs/sequence", `{"tokens":["HELLO","GOODBYE"],"compose":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	seq := decode[service.Sequence](t, rec)
	require.NotNil(t, seq.Composition)
	assert.Equal(t, composer.StrategySimple, seq.Composition.Strategy)
	assert.True(t, strings.HasPrefix(seq.Composition.URL, "/asl-sequences/"))

	// The composed file is served from the sequence mount.
	got := ts.do(t, http.MethodGet, seq.Composition.URL, "")
	assert.Equal(t, http.StatusOK, got.Code)
	assert.Equal(t, "video", got.Body.String())
}

func TestMarkupEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodPost, "/v1/signs/markup", `{"tokens":["HELLO"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<sigml>")
}

func TestCoverageEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/v1/signs/coverage", "")
	require.Equal(t, http.StatusOK, rec.Code)

	cov := decode[service.CoverageReport](t, rec)
	assert.Equal(t, 2, cov.Library.TotalSigns)
	assert.Equal(t, 3, cov.Library.FingerspellLetters)
}

func TestLibraryRefreshEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(ts.videos, "THANK.mp4"), []byte("clip"), 0o644))

	rec := ts.do(t, http.MethodPost, "/v1/library/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 3, decode[library.Coverage](t, rec).TotalSigns)
}

func TestLexiconEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodPost, "/v1/lexicon/signs", `{"token":"friend","handshape":"5","location":"chest","movement":"wave"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	entry := decode[service.LexiconEntry](t, rec)
	assert.Equal(t, "FRIEND", entry.Token)
	assert.Equal(t, gesture.HandshapeFive, entry.Sign.Handshape)

	rec = ts.do(t, http.MethodPost, "/v1/lexicon/signs", `{"token":"   "}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ts.do(t, http.MethodGet, "/v1/lexicon", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]service.LexiconEntry](t, rec), 32)
}

func TestComposeEndpoint_ToolchainMissing(t *testing.T) {
	ts := newTestServer(t, toolchain.ErrToolUnavailable)

	body := `{"paths":["` + filepath.Join(ts.videos, "HELLO.mp4") + `","` + filepath.Join(ts.videos, "GOODBYE.mp4") + `"]}`
	rec := ts.do(t, http.MethodPost, "/v1/sequences", body)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestEvictEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodDelete, "/v1/sequences?max_age=1h", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 0, decode[EvictResponseDTO](t, rec).Removed)

	rec = ts.do(t, http.MethodDelete, "/v1/sequences?max_age=soon", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	ts.ready = false
	rec = ts.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewServer_RegistersEveryOperation(t *testing.T) {
	var ts *testServer
	require.NotPanics(t, func() { ts = newTestServer(t, nil) })

	rec := ts.do(t, http.MethodGet, "/openapi.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	for _, p := range []string{"/v1/signs/resolve", "/v1/signs/coverage", "/v1/library/refresh", "/v1/lexicon", "/v1/sequences", "/healthz"} {
		assert.Contains(t, rec.Body.String(), `"`+p+`"`)
	}
}

func TestComposeEndpoint_RejectsPathsOutsideLibrary(t *testing.T) {
	ts := newTestServer(t, nil)

	outside := filepath.Join(t.TempDir(), "other.mp4")
	require.NoError(t, os.WriteFile(outside, []byte("clip"), 0o644))

	body := `{"paths":["` + filepath.Join(ts.videos, "HELLO.mp4") + `","` + outside + `"]}`
	rec := ts.do(t, http.MethodPost, "/v1/sequences", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ts.do(t, http.MethodPost, "/v1/sequences", `{"paths":["/definitely/missing.mp4"]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestStaticMounts_ServeOnlyClips(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/asl-videos/HELLO.mp4", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, p := range []string{"/asl-videos/video_index.json", "/asl-videos/video_index.json.lock", "/asl-videos/"} {
		rec = ts.do(t, http.MethodGet, p, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, p)
	}
}
