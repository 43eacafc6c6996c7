package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/df07/go-pathtracer/pkg/storage"
)

// options holds the parsed command line
type options struct {
	sceneName string
	sceneFile string
	out       string // "-" writes PPM to stdout
	width     int    // 0 keeps the scene's value
	spp       int
	depth     int    // -1 keeps the scene's value
	workers   int
	seed      uint64
	thumbnail uint
	iterative bool // Loop-form integrator instead of recursion
	upload    bool
	list      bool
	help      bool
}

// parseFlags reads the command line. PATHTRACER_WORKERS and PATHTRACER_SEED
// supply defaults that flags override.
func parseFlags(args []string, getenv func(string) string, stderr io.Writer) (options, *flag.FlagSet, error) {
	var opts options

	workers, err := envInt(getenv, "PATHTRACER_WORKERS")
	if err != nil {
		return opts, nil, err
	}
	seed, err := envUint(getenv, "PATHTRACER_SEED")
	if err != nil {
		return opts, nil, err
	}

	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.sceneName, "scene", "default", "Built-in scene name (see -list)")
	fs.StringVar(&opts.sceneFile, "scene-file", "", "Load the scene from a JSON file instead of -scene")
	fs.StringVar(&opts.out, "out", "", "Output file (.ppm, .png, .bmp, .tif); '-' writes PPM to stdout; default output/<scene>/render_<timestamp>.ppm")
	fs.IntVar(&opts.width, "width", 0, "Image width in pixels (0 = scene default)")
	fs.IntVar(&opts.spp, "spp", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&opts.depth, "depth", -1, "Maximum bounce depth (-1 = scene default)")
	fs.IntVar(&opts.workers, "workers", workers, "Number of parallel workers (0 = CPU count)")
	fs.Uint64Var(&opts.seed, "seed", seed, "Random seed for a reproducible image (0 = time based)")
	fs.UintVar(&opts.thumbnail, "thumbnail", 0, "Also write a PNG thumbnail fitting NxN pixels")
	fs.BoolVar(&opts.iterative, "iterative", false, "Trace paths with a loop instead of recursion (same image)")
	fs.BoolVar(&opts.upload, "upload", false, "Upload the image to S3 (S3_* environment variables)")
	fs.BoolVar(&opts.list, "list", false, "List built-in scenes and exit")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return opts, fs, err
	}
	if fs.NArg() > 0 {
		return opts, fs, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return opts, fs, nil
}

func envInt(getenv func(string) string, key string) (int, error) {
	v := getenv(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func envUint(getenv func(string) string, key string) (uint64, error) {
	v := getenv(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

// createScene loads the scene file when given, otherwise a built-in scene
func createScene(opts options) (*scene.Scene, error) {
	if opts.sceneFile != "" {
		return loaders.LoadSceneFile(opts.sceneFile)
	}
	return scene.Lookup(opts.sceneName)
}

// buildCamera applies command-line overrides on top of the scene camera
func buildCamera(s *scene.Scene, opts options) *renderer.Camera {
	b := s.CameraBuilder()
	if opts.width > 0 {
		b.ImageWidth(opts.width)
	}
	if opts.spp > 0 {
		b.SamplesPerPixel(opts.spp)
	}
	if opts.depth >= 0 {
		b.MaxDepth(opts.depth)
	}
	return b.Build()
}

// outputPath resolves the destination file
func outputPath(opts options, sceneName string, now time.Time) string {
	if opts.out != "" {
		return opts.out
	}
	return filepath.Join("output", sceneName, fmt.Sprintf("render_%s.ppm", now.Format("20060102_150405")))
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Path Tracer")
	fmt.Fprintln(w, "Usage: pathtracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	printScenes(w)
}

func printScenes(w io.Writer) {
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.List() {
		fmt.Fprintf(w, "  %-10s %s\n", info.Name, info.Description)
	}
}

// run renders one image and writes, thumbnails and uploads it as requested
func run(ctx context.Context, opts options, stdout io.Writer, logger core.Logger) error {
	p := message.NewPrinter(language.English)

	s, err := createScene(opts)
	if err != nil {
		return err
	}
	camera := buildCamera(s, opts)

	logger.Printf("Scene %q: %s primitives\n", s.Name, p.Sprintf("%d", s.GetPrimitiveCount()))

	renderOpts := renderer.RenderOptions{
		Workers:          opts.workers,
		Seed:             opts.seed,
		Logger:           logger,
		ProgressInterval: time.Second,
	}
	if opts.iterative {
		renderOpts.Integrator = integrator.NewIterativePathTracingIntegrator()
	}

	fb, stats, err := renderer.Render(ctx, camera, s.World, renderOpts)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	logger.Printf("%s samples in %v (%s samples/s)\n",
		p.Sprintf("%d", stats.TotalSamples),
		stats.Duration.Round(time.Millisecond),
		p.Sprintf("%.0f", stats.SamplesPerSecond()))

	path := outputPath(opts, s.Name, time.Now())
	format := output.FormatPPM
	if path == "-" {
		if err := output.WritePPM(stdout, fb); err != nil {
			return err
		}
	} else {
		if format, err = output.FormatFromPath(path); err != nil {
			return err
		}
		if err := output.WriteFile(path, fb); err != nil {
			return err
		}
		logger.Printf("Render saved as %s\n", path)

		if opts.thumbnail > 0 {
			thumbPath, err := output.WriteThumbnail(path, fb, opts.thumbnail)
			if err != nil {
				return err
			}
			logger.Printf("Thumbnail saved as %s\n", thumbPath)
		}
	}

	if opts.upload {
		uploader, err := storage.NewS3Uploader(storage.ConfigFromEnv(), logger)
		if err != nil {
			return fmt.Errorf("upload: %w", err)
		}
		data, err := output.EncodeBytes(fb, format)
		if err != nil {
			return err
		}
		key := storage.ObjectKey(s.Name, time.Now(), string(format))
		if err := uploader.Upload(ctx, key, format.ContentType(), data); err != nil {
			return err
		}
		logger.Printf("Uploaded %s bytes\n", p.Sprintf("%d", len(data)))
	}

	return nil
}

func main() {
	// A missing .env file is fine; the environment may already be set
	_ = godotenv.Load()

	opts, fs, err := parseFlags(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if opts.help {
		printHelp(os.Stdout, fs)
		return
	}
	if opts.list {
		printScenes(os.Stdout)
		return
	}

	var logger core.Logger = renderer.NewDefaultLogger()
	if opts.out == "-" {
		// stdout carries the image
		logger = log.New(os.Stderr, "", 0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
