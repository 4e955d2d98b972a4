package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"

	"github.com/richinsley/goframeview/animation"
	"github.com/richinsley/goframeview/export"
	"github.com/richinsley/goframeview/glfwcontext"
	"github.com/richinsley/goframeview/inputs"
	"github.com/richinsley/goframeview/loader"
	"github.com/richinsley/goframeview/options"
	"github.com/richinsley/goframeview/renderer"
	"github.com/richinsley/goframeview/session"
)

func init() {
	runtime.LockOSThread()
}

func parseFlags() *options.ViewerOptions {
	opts := &options.ViewerOptions{
		ConfigFile:      flag.String("config", "", "YAML config file (window, playback, export and key bindings)"),
		KeysFile:        flag.String("keys", "", "YAML key binding file, replaces -modifier and config bindings"),
		Help:            flag.Bool("help", false, "Show help message"),
		Width:           flag.Int("width", 1280, "Initial window width"),
		Height:          flag.Int("height", 720, "Initial window height"),
		FPS:             flag.Float64("fps", 0, "Playback rate (0 uses the video's rate, else 30)"),
		Modifier:        flag.String("modifier", "ctrl", "Modifier for navigation and export keys (ctrl, alt, shift, super)"),
		Exposure:        flag.Float64("exposure", 1, "Initial exposure multiplier"),
		Gamma:           flag.Float64("gamma", 0, "Display gamma (0 uses 1 for 8-bit and 2.2 for float sources)"),
		AutoExposure:    flag.Bool("auto-exposure", false, "Pick the exposure from the first frame's 99th percentile"),
		ExportDir:       flag.String("export-dir", "", "Directory for saved crops (default: working directory)"),
		Preview:         flag.Bool("preview", false, "Write a PNG or HDR preview next to each saved crop"),
		MaxFrames:       flag.Int("max-frames", 0, "Read at most this many frames per input (0 reads all)"),
		FFMPEGPath:      flag.String("ffmpeg", "", "Path to ffmpeg executable"),
		PDFDPI:          flag.Float64("dpi", 96, "Resolution used to rasterise PDF pages"),
		Workers:         flag.Int("workers", runtime.NumCPU(), "Parallel decoders"),
		SkipMemoryCheck: flag.Bool("skip-memory-check", false, "Load even when frames exceed available memory"),
		VSync:           flag.Bool("vsync", true, "Synchronise drawing with the display refresh"),
	}
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] file-or-directory...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	return opts
}

// buildBindings uses the keys file when given, which carries its own
// modifier; otherwise the defaults for -modifier plus config overrides.
func buildBindings(opts *options.ViewerOptions) (inputs.Bindings, error) {
	if *opts.KeysFile != "" {
		return inputs.LoadBindings(*opts.KeysFile)
	}
	mod, err := inputs.ParseMod(*opts.Modifier)
	if err != nil {
		return nil, err
	}
	bindings := inputs.DefaultBindings(mod)
	if err := bindings.Apply(opts.Bindings); err != nil {
		return nil, fmt.Errorf("failed to apply config bindings: %w", err)
	}
	return bindings, nil
}

func main() {
	opts := parseFlags()
	if *opts.Help || flag.NArg() == 0 {
		fmt.Println("goframeview: frame and image stack viewer")
		flag.Usage()
		return
	}

	if *opts.ConfigFile != "" {
		fc, err := options.LoadFile(*opts.ConfigFile)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
		explicit := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		opts.Merge(fc, explicit)
	}

	bindings, err := buildBindings(opts)
	if err != nil {
		log.Fatalf("Error in key bindings: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	sources, nativeFPS, err := loader.LoadAll(ctx, flag.Args(), loader.Options{
		MaxFrames:       *opts.MaxFrames,
		FFmpegPath:      *opts.FFMPEGPath,
		PDFDPI:          *opts.PDFDPI,
		Workers:         *opts.Workers,
		SkipMemoryCheck: *opts.SkipMemoryCheck,
	})
	stop()
	if err != nil {
		log.Fatalf("Error loading inputs: %v", err)
	}

	fps := *opts.FPS
	if fps == 0 {
		fps = nativeFPS
	}
	if fps == 0 {
		fps = animation.DefaultFPS
	}
	anim, err := animation.New(sources, fps)
	if err != nil {
		log.Fatalf("Error creating animation: %v", err)
	}
	if *opts.AutoExposure {
		e := loader.AutoExposure(anim.ActiveSource())
		log.Printf("Auto exposure: %.4g", e)
		anim.SetExposure(e)
	} else {
		anim.SetExposure(*opts.Exposure)
	}
	anim.SetGamma(*opts.Gamma)

	if err := glfwcontext.InitGraphics(); err != nil {
		log.Fatalf("Failed to initialize graphics: %v", err)
	}
	defer glfwcontext.TerminateGraphics()

	win, err := glfwcontext.New(opts)
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	defer win.Shutdown()

	r, err := renderer.NewRenderer(win)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer r.Shutdown()

	fbWidth, fbHeight := win.GetFramebufferSize()
	s := session.New(anim, fbWidth, fbHeight, bindings, export.New(*opts.ExportDir, *opts.Preview))

	log.Println("Starting interactive render loop...")
	r.Run(s)
}
