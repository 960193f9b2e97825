// Command puzzle computes, compares and stores perceptual image signatures.
//
// Usage:
//
//	puzzle [global flags] <command> [flags] [args]
//
// Commands:
//
//	signature    print the signature of one or more images
//	compare      compare two images
//	compare-sig  compare two packed signatures held in the blob store
//	pack         pack an image signature, to stdout or the blob store
//	unpack       decode a packed signature
//	batch        extract, pack and store signatures for many images
//	version      print the version
//
// Configuration is read from PUZZLE_* environment variables, optionally
// loaded from a .env file.
package main

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hupe1980/puzzle"
	"github.com/hupe1980/puzzle/blobstore"
	"github.com/hupe1980/puzzle/codec"
	"github.com/hupe1980/puzzle/cvec"
	"github.com/hupe1980/puzzle/prommetrics"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// usageError marks errors caused by bad command lines.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

type app struct {
	cfg     Config
	stdout  io.Writer
	stderr  io.Writer
	logger  *puzzle.Logger
	metrics puzzle.MetricsCollector
	codec   codec.Codec

	// openStore is replaced in tests.
	openStore func(ctx context.Context, cfg *Config) (blobstore.BlobStore, error)
	store     blobstore.BlobStore
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return runWith(ctx, args, stdout, stderr, OpenStore)
}

func runWith(ctx context.Context, args []string, stdout, stderr io.Writer, open func(context.Context, *Config) (blobstore.BlobStore, error)) int {
	fs := flag.NewFlagSet("puzzle", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr, fs) }

	envFile := fs.String("env", ".env", "dotenv file to load before reading PUZZLE_* variables")
	metric := fs.String("metric", "", "distance metric: ordinal or normalized-l2")
	store := fs.String("store", "", "blob store: local, memory, s3 or minio")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn or error")
	logFormat := fs.String("log-format", "", "log format: text or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	cfg, err := LoadConfig(*envFile)
	if err != nil {
		fmt.Fprintf(stderr, "puzzle: %v\n", err)
		return exitFailure
	}

	override(&cfg.Metric, *metric)
	override(&cfg.Store, *store)
	override(&cfg.LogLevel, *logLevel)
	override(&cfg.LogFormat, *logFormat)

	if err := ValidateConfig(&cfg); err != nil {
		fmt.Fprintf(stderr, "puzzle: invalid configuration: %v\n", err)
		return exitUsage
	}

	a := &app{
		cfg:       cfg,
		stdout:    stdout,
		stderr:    stderr,
		logger:    BuildLogger(&cfg, stderr),
		metrics:   puzzle.NoopMetricsCollector{},
		codec:     BuildCodec(&cfg),
		openStore: open,
	}

	if cfg.MetricsAddr != "" {
		shutdown, err := a.serveMetrics(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "puzzle: %v\n", err)
			return exitFailure
		}
		defer shutdown()
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]

	if err := a.dispatch(ctx, cmd, rest); err != nil {
		var ue *usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(stderr, "puzzle %s: %v\n", cmd, err)
			return exitUsage
		}

		fmt.Fprintf(stderr, "puzzle %s: %v\n", cmd, err)
		return exitFailure
	}

	return exitOK
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "usage: puzzle [global flags] <command> [flags] [args]")
	fmt.Fprintln(w, "\ncommands: signature, compare, compare-sig, pack, unpack, batch, version")
	fmt.Fprintln(w, "\nglobal flags:")
	fs.PrintDefaults()
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "signature":
		return a.cmdSignature(ctx, args)
	case "compare":
		return a.cmdCompare(ctx, args)
	case "compare-sig":
		return a.cmdCompareSig(ctx, args)
	case "pack":
		return a.cmdPack(ctx, args)
	case "unpack":
		return a.cmdUnpack(ctx, args)
	case "batch":
		return a.cmdBatch(ctx, args)
	case "version":
		fmt.Fprintf(a.stdout, "puzzle %s\n", version)
		return nil
	default:
		return usagef("unknown command %q", cmd)
	}
}

// serveMetrics exposes a private registry on cfg.MetricsAddr.
func (a *app) serveMetrics(ctx context.Context) (func(), error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mc, err := prommetrics.New(reg, "puzzle")
	if err != nil {
		return nil, err
	}

	a.metrics = mc

	lis, err := net.Listen("tcp", a.cfg.MetricsAddr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		a.logger.Info("Starting metrics server", "address", lis.Addr().String())
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Metrics server failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}, nil
}

func (a *app) newPuzzle() (*puzzle.Puzzle, error) {
	opts, err := BuildOptions(&a.cfg)
	if err != nil {
		return nil, err
	}

	opts = append(opts,
		puzzle.WithLogger(a.logger),
		puzzle.WithMetricsCollector(a.metrics),
	)

	return puzzle.New(opts...)
}

// blobs opens the configured store once, rate limited for writes.
func (a *app) blobs(ctx context.Context) (blobstore.BlobStore, error) {
	if a.store != nil {
		return a.store, nil
	}

	s, err := a.openStore(ctx, &a.cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", a.cfg.Store, err)
	}

	a.store = WithLimiter(s, NewUploadLimiter(&a.cfg))

	return a.store, nil
}

func (a *app) writeJSON(v any) error {
	data, err := a.codec.Marshal(v)
	if err != nil {
		return err
	}

	data = append(data, '\n')
	_, err = a.stdout.Write(data)

	return err
}

func (a *app) cmdSignature(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signature", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	asJSON := fs.Bool("json", false, "print JSON records with the packed signature")

	if err := fs.Parse(args); err != nil {
		return usagef("%v", err)
	}

	if fs.NArg() == 0 {
		return usagef("signature needs at least one image")
	}

	p, err := a.newPuzzle()
	if err != nil {
		return err
	}

	for _, path := range fs.Args() {
		sig, err := p.SignatureFromFile(ctx, path)
		if err != nil {
			return err
		}

		if !*asJSON {
			fmt.Fprintf(a.stdout, "%s\t%s\n", path, sig)
			continue
		}

		packed, err := p.Pack(sig)
		if err != nil {
			return err
		}

		if err := a.writeJSON(codec.Record{Source: path, Length: len(sig), Packed: packed}); err != nil {
			return err
		}
	}

	return nil
}

type comparison struct {
	A          string  `json:"a"`
	B          string  `json:"b"`
	Metric     string  `json:"metric"`
	Distance   float64 `json:"distance"`
	Similarity string  `json:"similarity"`
	Similar    bool    `json:"similar"`
}

func (a *app) report(p *puzzle.Puzzle, nameA, nameB string, d float64, asJSON bool) error {
	if asJSON {
		return a.writeJSON(comparison{
			A:          nameA,
			B:          nameB,
			Metric:     p.Metric().String(),
			Distance:   d,
			Similarity: p.Similarity(d).String(),
			Similar:    p.Similar(d),
		})
	}

	_, err := fmt.Fprintf(a.stdout, "%.6f\t%s\n", d, p.Similarity(d))

	return err
}

func (a *app) cmdCompare(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	asJSON := fs.Bool("json", false, "print a JSON result")

	if err := fs.Parse(args); err != nil {
		return usagef("%v", err)
	}

	if fs.NArg() != 2 {
		return usagef("compare needs exactly two images")
	}

	p, err := a.newPuzzle()
	if err != nil {
		return err
	}

	d, err := p.CompareFiles(ctx, fs.Arg(0), fs.Arg(1))
	if err != nil {
		return err
	}

	return a.report(p, fs.Arg(0), fs.Arg(1), d, *asJSON)
}

func (a *app) cmdCompareSig(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("compare-sig", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	asJSON := fs.Bool("json", false, "print a JSON result")

	if err := fs.Parse(args); err != nil {
		return usagef("%v", err)
	}

	if fs.NArg() != 2 {
		return usagef("compare-sig needs exactly two blob keys")
	}

	p, err := a.newPuzzle()
	if err != nil {
		return err
	}

	store, err := a.blobs(ctx)
	if err != nil {
		return err
	}

	sigs := make([]cvec.Signature, 2)
	for i, key := range fs.Args() {
		data, err := store.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}

		sigs[i], err = p.Unpack(data)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	d, err := p.Compare(sigs[0], sigs[1])
	if err != nil {
		return err
	}

	return a.report(p, fs.Arg(0), fs.Arg(1), d, *asJSON)
}

func (a *app) cmdPack(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pack", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	out := fs.String("out", "", "store the packed signature under this blob key instead of printing it")

	if err := fs.Parse(args); err != nil {
		return usagef("%v", err)
	}

	if fs.NArg() != 1 {
		return usagef("pack needs exactly one image")
	}

	p, err := a.newPuzzle()
	if err != nil {
		return err
	}

	sig, err := p.SignatureFromFile(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	packed, err := p.Pack(sig)
	if err != nil {
		return err
	}

	if *out == "" {
		_, err := fmt.Fprintln(a.stdout, base64.StdEncoding.EncodeToString(packed))
		return err
	}

	store, err := a.blobs(ctx)
	if err != nil {
		return err
	}

	err = store.Put(ctx, *out, packed)
	a.logger.LogStore(ctx, *out, len(packed), err)

	if err != nil {
		return fmt.Errorf("put %s: %w", *out, err)
	}

	_, err = fmt.Fprintln(a.stdout, *out)

	return err
}

func (a *app) cmdUnpack(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("unpack", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	in := fs.String("in", "", "read the packed signature from this blob key")

	if err := fs.Parse(args); err != nil {
		return usagef("%v", err)
	}

	var data []byte

	switch {
	case *in != "" && fs.NArg() == 0:
		store, err := a.blobs(ctx)
		if err != nil {
			return err
		}

		data, err = store.Get(ctx, *in)
		if err != nil {
			return fmt.Errorf("get %s: %w", *in, err)
		}
	case *in == "" && fs.NArg() == 1:
		var err error

		data, err = base64.StdEncoding.DecodeString(fs.Arg(0))
		if err != nil {
			return usagef("argument is not base64: %v", err)
		}
	default:
		return usagef("unpack needs either -in KEY or one base64 argument")
	}

	p, err := a.newPuzzle()
	if err != nil {
		return err
	}

	sig, err := p.Unpack(data)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(a.stdout, sig)

	return err
}
