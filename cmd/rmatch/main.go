// Command rmatch converts R omnils completion data into menu entries
// for an autocompletion frontend. It can convert files directly, build
// a persistent index from an omnils cache directory, or serve
// completion queries over stdio.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/rmatch/internal/config"
	"github.com/xonecas/rmatch/internal/library"
	"github.com/xonecas/rmatch/internal/match"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "path to TOML config file")
		pkgDesc = flag.Bool("pkg-desc", false, "convert: input is a pkg_descriptions file")
	)
	flag.Usage = usage
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	setupLogging(cfg.Log.LevelOrDefault())

	builder := match.NewBuilder(match.Columns{
		Col1: cfg.Menu.Col1LenOrDefault(),
		Col2: cfg.Menu.Col2LenOrDefault(),
	})

	switch flag.Arg(0) {
	case "", "convert":
		err = runConvert(builder, flag.Args(), *pkgDesc)
	case "index":
		err = runIndex(cfg, builder)
	case "serve":
		err = runServe(cfg, builder)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Msg("rmatch failed")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: rmatch [flags] <command>

commands:
  convert [file...]   convert omnils lines (files or stdin) to JSON entries
  index               load the configured library dir into the sqlite index
  serve               answer JSON completion requests on stdin from the index

flags:
`)
	flag.PrintDefaults()
}

// setupLogging routes zerolog through a console writer on stderr so
// stdout stays clean for entry output.
func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// runConvert streams entries for the given omnils files (or stdin when
// none) as JSON lines on stdout.
func runConvert(builder *match.Builder, args []string, pkgDesc bool) error {
	files := args
	if len(files) > 0 && files[0] == "convert" {
		files = files[1:]
	}

	var lines []string
	if len(files) == 0 {
		var err error
		lines, err = readLines(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	} else {
		for _, path := range files {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			lines = append(lines, strings.Split(string(data), "\n")...)
		}
	}

	var entries []match.Entry
	if pkgDesc {
		entries = builder.FromPkgDesc(lines)
	} else {
		entries = builder.FromOmnils(lines)
	}

	enc := json.NewEncoder(os.Stdout)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("write entry: %w", err)
		}
	}
	return nil
}

// runIndex loads the configured library directory into the index once.
func runIndex(cfg *config.Config, builder *match.Builder) error {
	if cfg.Library.Dir == "" {
		return fmt.Errorf("library.dir is not configured")
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	lib := library.New(cfg.Library.Dir, builder, store)
	if err := lib.LoadAll(); err != nil {
		return err
	}

	n, err := store.Count()
	if err != nil {
		return err
	}
	log.Info().Int("entries", n).Msg("index built")
	return nil
}

// request is one line of the serve protocol.
type request struct {
	Op     string `json:"op"`
	Prefix string `json:"prefix"`
	Limit  int    `json:"limit"`
}

// response answers one request. Either Entries or Error is set.
type response struct {
	Entries []match.Entry `json:"entries,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// runServe loads the library, keeps it fresh in the background, and
// answers newline-delimited JSON completion requests on stdin.
func runServe(cfg *config.Config, builder *match.Builder) error {
	if cfg.Library.Dir == "" {
		return fmt.Errorf("library.dir is not configured")
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	lib := library.New(cfg.Library.Dir, builder, store)
	if err := lib.LoadAll(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := lib.Watch(ctx); err != nil {
			log.Warn().Err(err).Msg("library watch stopped")
		}
	}()

	enc := json.NewEncoder(os.Stdout)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			writeResponse(enc, response{Error: fmt.Sprintf("bad request: %v", err)})
			continue
		}

		switch req.Op {
		case "complete":
			entries, err := store.Complete(req.Prefix, req.Limit)
			if err != nil {
				writeResponse(enc, response{Error: err.Error()})
				continue
			}
			writeResponse(enc, response{Entries: entries})
		default:
			writeResponse(enc, response{Error: fmt.Sprintf("unknown op %q", req.Op)})
		}
	}
	return scanner.Err()
}

func writeResponse(enc *json.Encoder, resp response) {
	if err := enc.Encode(resp); err != nil {
		log.Error().Err(err).Msg("write response")
	}
}

func openStore(cfg *config.Config) (*library.Store, error) {
	dbPath, err := cfg.Library.DBOrDefault()
	if err != nil {
		return nil, err
	}
	return library.OpenStore(dbPath)
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
