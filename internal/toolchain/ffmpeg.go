package toolchain

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Profile is the common encoding every clip is normalized to before composition.
type Profile struct {
	Width           int
	Height          int
	FPS             int
	CRF             int
	Preset          string
	CrossfadePreset string
}

// DefaultProfile returns the 720x720, 30fps, H.264 profile.
func DefaultProfile() Profile {
	return Profile{
		Width:           720,
		Height:          720,
		FPS:             30,
		CRF:             23,
		Preset:          "veryfast",
		CrossfadePreset: "fast",
	}
}

// Timeouts bound each kind of media operation.
type Timeouts struct {
	Probe       time.Duration
	Normalize   time.Duration
	Concat      time.Duration
	Crossfade   time.Duration
	Placeholder time.Duration
}

// DefaultTimeouts returns the standard per-operation bounds.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Probe:       5 * time.Second,
		Normalize:   30 * time.Second,
		Concat:      60 * time.Second,
		Crossfade:   120 * time.Second,
		Placeholder: 30 * time.Second,
	}
}

// Media exposes the probe, normalize and compose capabilities of ffmpeg/ffprobe.
type Media struct {
	exec     *Executor
	profile  Profile
	timeouts Timeouts
}

// NewMedia creates a Media bound to exec.
func NewMedia(exec *Executor, profile Profile, timeouts Timeouts) *Media {
	return &Media{
		exec:     exec,
		profile:  profile,
		timeouts: timeouts,
	}
}

// Profile returns the normalization profile.
func (m *Media) Profile() Profile {
	return m.profile
}

// Available reports ErrToolUnavailable when ffmpeg cannot be resolved.
func (m *Media) Available() error {
	return m.exec.Registry().Check(ToolFFmpeg)
}

// Probe returns the container duration of path in seconds.
func (m *Media) Probe(ctx context.Context, path string) (float64, error) {
	res, err := m.exec.Execute(ctx, Invocation{
		Tool: ToolFFprobe,
		Args: []string{
			"-v", "error",
			"-show_entries", "format=duration",
			"-of", "default=noprint_wrappers=1:nokey=1",
			path,
		},
		Timeout: m.timeouts.Probe,
	})
	if err != nil {
		return 0, err
	}

	raw := strings.TrimSpace(string(res.Stdout))
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadProbe, raw)
	}
	return d, nil
}

// Normalize re-encodes src into dst with the profile's geometry, frame rate and
// codec. Audio is dropped.
func (m *Media) Normalize(ctx context.Context, src, dst string) error {
	p := m.profile
	_, err := m.exec.Execute(ctx, Invocation{
		Tool: ToolFFmpeg,
		Args: []string{
			"-y", "-i", src,
			"-vf", scaleFilter(p.Width, p.Height),
			"-r", strconv.Itoa(p.FPS),
			"-c:v", "libx264", "-preset", p.Preset, "-crf", strconv.Itoa(p.CRF),
			"-pix_fmt", "yuv420p",
			"-an",
			"-movflags", "+faststart",
			dst,
		},
		Timeout: m.timeouts.Normalize,
		Outputs: []string{dst},
	})
	return err
}

// Concat joins inputs in order with the concat demuxer and stream copy.
func (m *Media) Concat(ctx context.Context, inputs []string, out string) error {
	list, err := os.CreateTemp("", "signbridge-concat-*.txt")
	if err != nil {
		return fmt.Errorf("create concat list: %w", err)
	}
	defer os.Remove(list.Name())

	if _, err := list.WriteString(ConcatList(inputs)); err != nil {
		_ = list.Close()
		return fmt.Errorf("write concat list: %w", err)
	}
	if err := list.Close(); err != nil {
		return fmt.Errorf("close concat list: %w", err)
	}

	_, err = m.exec.Execute(ctx, Invocation{
		Tool: ToolFFmpeg,
		Args: []string{
			"-y",
			"-f", "concat", "-safe", "0",
			"-i", list.Name(),
			"-c", "copy", "-an",
			out,
		},
		Timeout: m.timeouts.Concat,
		Outputs: []string{out},
	})
	return err
}

// Crossfade joins inputs with an xfade transition of overlap seconds between
// each consecutive pair. durations must hold one probed duration per input.
func (m *Media) Crossfade(ctx context.Context, inputs []string, durations []float64, overlap float64, out string) error {
	if len(inputs) < 2 || len(durations) != len(inputs) {
		return fmt.Errorf("%w: crossfade needs >= 2 inputs with durations", ErrInvalidInvocation)
	}

	graph, final := CrossfadeGraph(CrossfadeOffsets(durations, overlap), overlap)

	args := []string{"-y"}
	for _, in := range inputs {
		args = append(args, "-i", in)
	}
	args = append(args,
		"-filter_complex", graph,
		"-map", final,
		"-c:v", "libx264", "-preset", m.profile.CrossfadePreset, "-crf", strconv.Itoa(m.profile.CRF),
		"-pix_fmt", "yuv420p",
		"-an",
		out,
	)

	_, err := m.exec.Execute(ctx, Invocation{
		Tool:    ToolFFmpeg,
		Args:    args,
		Timeout: m.timeouts.Crossfade,
		Outputs: []string{out},
	})
	return err
}

// Placeholder renders a labelled colour card of the given length into out.
func (m *Media) Placeholder(ctx context.Context, label string, seconds float64, out string) error {
	p := m.profile
	source := fmt.Sprintf("color=c=0x1e50c8:s=%dx%d:r=%d:d=%s", p.Width, p.Height, p.FPS, formatSeconds(seconds))
	text := fmt.Sprintf("drawtext=text='%s':fontcolor=white:fontsize=%d:x=(w-text_w)/2:y=(h-text_h)/2",
		escapeDrawtext(label), p.Height/7)

	_, err := m.exec.Execute(ctx, Invocation{
		Tool: ToolFFmpeg,
		Args: []string{
			"-y",
			"-f", "lavfi", "-i", source,
			"-vf", text,
			"-c:v", "libx264", "-preset", "ultrafast",
			"-pix_fmt", "yuv420p", "-an",
			out,
		},
		Timeout: m.timeouts.Placeholder,
		Outputs: []string{out},
	})
	return err
}

// CrossfadeOffsets returns the xfade offset of every transition. The offset of
// transition i is the running sum of the preceding clip durations, each
// shortened by the overlap, clamped at zero.
func CrossfadeOffsets(durations []float64, overlap float64) []float64 {
	if len(durations) < 2 {
		return nil
	}

	offsets := make([]float64, 0, len(durations)-1)
	running := 0.0
	for i := 1; i < len(durations); i++ {
		running += durations[i-1] - overlap
		offsets = append(offsets, max(0, running))
	}
	return offsets
}

// CrossfadeGraph chains one xfade filter per offset and returns the
// filter_complex string together with the label of the final stream.
func CrossfadeGraph(offsets []float64, overlap float64) (graph, final string) {
	parts := make([]string, 0, len(offsets))
	prev := "[0:v]"
	for i, offset := range offsets {
		label := fmt.Sprintf("[vx%d]", i+1)
		parts = append(parts, fmt.Sprintf("%s[%d:v]xfade=transition=fade:duration=%s:offset=%s%s",
			prev, i+1, formatSeconds(overlap), formatSeconds(offset), label))
		prev = label
	}
	return strings.Join(parts, ";"), prev
}

// ConcatList renders the concat demuxer list for paths.
func ConcatList(paths []string) string {
	var sb strings.Builder
	for _, p := range paths {
		sb.WriteString("file '")
		sb.WriteString(strings.ReplaceAll(p, "'", `'\''`))
		sb.WriteString("'\n")
	}
	return sb.String()
}

func scaleFilter(w, h int) string {
	return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1", w, h, w, h)
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}

func escapeDrawtext(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`, `%`, `\%`)
	return r.Replace(s)
}
