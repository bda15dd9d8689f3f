// Command roomplace builds the placement grids for a scanned room and
// answers a batch of placement requests against them, printing one JSON
// result per request.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/banshee-data/roomsurface/internal/config"
	"github.com/banshee-data/roomsurface/internal/monitoring"
	"github.com/banshee-data/roomsurface/internal/room"
	"github.com/banshee-data/roomsurface/internal/scan"
	"github.com/banshee-data/roomsurface/internal/scene"
	"github.com/banshee-data/roomsurface/internal/version"
)

var (
	scanPath     = flag.String("scan", "", "Room scan file (.json, .yaml or .yml)")
	requestsPath = flag.String("requests", "", "Placement requests file (.json, .yaml or .yml); empty reads JSON from stdin")
	configPath   = flag.String("config", "", "Tuning config file; empty uses the built-in defaults")
	seed         = flag.Uint64("seed", 0, "RNG seed, overrides the config (0 keeps the config value)")
	debugDir     = flag.String("debug-dir", "", "Write per-grid heatmaps and an HTML view under this directory")
	diag         = flag.Bool("diag", false, "Enable diagnostic logging")
	showVersion  = flag.Bool("version", false, "Print the version and exit")
)

// options is the parsed command line.
type options struct {
	ScanPath     string
	RequestsPath string
	ConfigPath   string
	Seed         uint64
	DebugDir     string
	Diagnostics  bool
}

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *scanPath == "" {
		fmt.Fprintln(os.Stderr, "roomplace: -scan is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := options{
		ScanPath:     *scanPath,
		RequestsPath: *requestsPath,
		ConfigPath:   *configPath,
		Seed:         *seed,
		DebugDir:     *debugDir,
		Diagnostics:  *diag,
	}
	if err := run(ctx, opts, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("roomplace: %v", err)
	}
}

func run(ctx context.Context, opts options, stdin io.Reader, stdout io.Writer) error {
	cfg := config.DefaultTuningConfig()
	if opts.ConfigPath != "" {
		loaded, err := config.LoadTuningConfig(opts.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if opts.Seed != 0 {
		cfg.RNGSeed = &opts.Seed
	}
	monitoring.SetDiagnostics(opts.Diagnostics || cfg.GetEnableDiagnostics())

	rm, err := scan.Load(opts.ScanPath)
	if err != nil {
		return err
	}

	var reqs []request
	if opts.RequestsPath != "" {
		reqs, err = loadRequests(opts.RequestsPath)
	} else {
		reqs, err = decodeRequests(stdin)
	}
	if err != nil {
		return err
	}

	reg := room.New(cfg, scene.NewWorld())
	if err := reg.Build(ctx, rm); err != nil {
		return err
	}
	defer reg.CleanUp()

	enc := json.NewEncoder(stdout)
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			return err
		}
		out := execute(reg, req)
		out.Index = i
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("failed to write result %d: %w", i, err)
		}
	}

	if opts.DebugDir != "" {
		files, err := reg.WriteDebugView(opts.DebugDir)
		if err != nil {
			return err
		}
		monitoring.Logf("[roomplace] wrote %d debug files for session %s", len(files), reg.SessionID())
	}
	return nil
}
