package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/richinsley/goframeview/animation"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// videoInfo is the subset of ffprobe's stream report the loader needs.
type videoInfo struct {
	Width     int
	Height    int
	FPS       float64
	NumFrames int
}

type probeReport struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
		RFrameRate   string `json:"r_frame_rate"`
		NbFrames     string `json:"nb_frames"`
	} `json:"streams"`
}

// parseProbe extracts the first video stream from ffprobe JSON output.
func parseProbe(report string) (videoInfo, error) {
	var p probeReport
	if err := json.Unmarshal([]byte(report), &p); err != nil {
		return videoInfo{}, fmt.Errorf("failed to parse probe output: %w", err)
	}
	for _, s := range p.Streams {
		if s.CodecType != "video" {
			continue
		}
		info := videoInfo{Width: s.Width, Height: s.Height}
		info.FPS = parseRate(s.AvgFrameRate)
		if info.FPS == 0 {
			info.FPS = parseRate(s.RFrameRate)
		}
		info.NumFrames, _ = strconv.Atoi(s.NbFrames)
		if info.Width <= 0 || info.Height <= 0 {
			return videoInfo{}, fmt.Errorf("video stream has no size")
		}
		return info, nil
	}
	return videoInfo{}, fmt.Errorf("no video stream found")
}

// parseRate reads ffprobe rationals like "30000/1001"; bad input yields 0.
func parseRate(r string) float64 {
	num, den, ok := strings.Cut(r, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !ok {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

// loadVideo decodes every frame (up to MaxFrames) as 8-bit RGB and returns
// the stream's native frame rate.
func loadVideo(ctx context.Context, path string, opts Options) (*animation.Source, float64, error) {
	report, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to probe %s: %w", path, err)
	}
	info, err := parseProbe(report)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	frameLen := info.Width * info.Height * 3
	if info.NumFrames > 0 {
		if err := checkMemory(uint64(frameLen)*uint64(opts.limit(info.NumFrames)), opts); err != nil {
			return nil, 0, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	outputArgs := ffmpeg.KwArgs{"format": "rawvideo", "pix_fmt": "rgb24"}
	if opts.MaxFrames > 0 {
		outputArgs["frames:v"] = opts.MaxFrames
	}
	var out, stderr bytes.Buffer
	cmd := ffmpeg.Input(path).
		Output("pipe:", outputArgs).
		WithOutput(&out).
		WithErrorOutput(&stderr)
	if opts.FFmpegPath != "" {
		cmd = cmd.SetFfmpegPath(opts.FFmpegPath)
	}
	if err := cmd.Run(); err != nil {
		return nil, 0, fmt.Errorf("failed to decode %s: %w: %s", path, err, lastLine(stderr.String()))
	}

	frames := out.Len() / frameLen
	if frames == 0 {
		return nil, 0, fmt.Errorf("%s: no frames decoded", path)
	}
	data := out.Bytes()[:frames*frameLen]
	src, err := animation.NewUint8Source(stem(path), frames, info.Height, info.Width, 3, data)
	if err != nil {
		return nil, 0, err
	}
	return src, info.FPS, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
