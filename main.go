// agr records terminal sessions to asciicast files and plays them
// back through its own terminal emulator.
//
// Usage:
//
//	agr rec [-output file] [-title t] [-input] [command ...]
//	agr play [-speed n] [-idle-limit n] file
//	agr ls
//	agr export [-raw] [-segments] [-o file] file
//	agr config [show|path|edit]
//	agr copy
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/thiscantbeserious/agr/analyze"
	"github.com/thiscantbeserious/agr/asciicast"
	"github.com/thiscantbeserious/agr/clipboard"
	"github.com/thiscantbeserious/agr/config"
	"github.com/thiscantbeserious/agr/files"
	"github.com/thiscantbeserious/agr/logging"
	"github.com/thiscantbeserious/agr/player"
	"github.com/thiscantbeserious/agr/recorder"
	"github.com/thiscantbeserious/agr/tui"
)

var (
	logfile = flag.String("logfile", "", "If set, logs will be written to this file.")
	debug   = flag.Bool("debug", false, "If set, log at debug level.")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if err := logging.Setup(*logfile, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "agr: %v\n", err)
		os.Exit(1)
	}

	code, err := run(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "agr: %v\n", err)
		if code == 0 {
			code = 1
		}
	}
	os.Exit(code)
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `usage: agr [flags] <command> [args]

Commands:
  rec     record a terminal session
  play    play back a recording
  ls      browse recordings
  export  extract a recording as clean text
  config  show or edit the configuration
  copy    copy the latest recording path to the clipboard

Flags:
`)
	flag.PrintDefaults()
}

func run(args []string) (int, error) {
	if len(args) == 0 {
		usage()
		return 2, nil
	}

	switch args[0] {
	case "rec":
		return cmdRec(args[1:])
	case "play":
		return 0, cmdPlay(args[1:])
	case "ls":
		return 0, cmdLs(args[1:])
	case "export":
		return 0, cmdExport(args[1:])
	case "config":
		return 0, cmdConfig(args[1:])
	case "copy":
		return 0, cmdCopy(args[1:])
	default:
		return 2, fmt.Errorf("unknown command %q", args[0])
	}
}

func cmdRec(args []string) (int, error) {
	fs := flag.NewFlagSet("rec", flag.ExitOnError)
	output := fs.String("output", "", "Write the cast here instead of the recordings directory.")
	title := fs.String("title", "", "Title stored in the cast header.")
	input := fs.Bool("input", false, "Also record keystrokes.")
	fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		return 0, err
	}

	path, err := castPath(cfg, *output, time.Now())
	if err != nil {
		return 0, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, fmt.Errorf("couldn't create %q: %w", path, err)
	}
	defer f.Close()

	fmt.Fprintf(os.Stderr, "agr: recording to %s (Ctrl-] adds a marker)\r\n", path)

	code, err := recorder.Record(recorder.Options{
		Command:      fs.Args(),
		Output:       f,
		Title:        *title,
		CaptureInput: *input || cfg.Recording.CaptureInput,
	})
	if err != nil {
		return code, err
	}

	fmt.Fprintf(os.Stderr, "agr: recording saved to %s\r\n", path)
	return code, nil
}

// castPath resolves where a new recording lands: an explicit -output
// path wins, otherwise the configured directory plus a generated
// filename. The directory is created on demand.
func castPath(cfg config.Config, output string, now time.Time) (string, error) {
	if output != "" {
		return output, nil
	}

	dir, err := cfg.Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("couldn't create %q: %w", dir, err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	name, err := files.Generate(filepath.Base(wd), cfg.Recording.Template, cfg.Recording.DirectoryMaxLength, now)
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, name), nil
}

func cmdPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	speed := fs.Float64("speed", 0, "Playback speed multiplier. 0 uses the configured default.")
	idle := fs.Float64("idle-limit", -1, "Cap on silent gaps, in seconds. -1 uses the configured default.")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("play wants exactly one cast file, got %d args", fs.NArg())
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *speed == 0 {
		*speed = cfg.Playback.Speed
	}
	if *idle < 0 {
		*idle = cfg.Playback.IdleLimit
	}

	return play(fs.Arg(0), player.Options{Speed: *speed, IdleLimit: *idle})
}

func play(path string, opts player.Options) error {
	cast, err := asciicast.Load(path)
	if err != nil {
		return err
	}

	p, err := player.New(cast, opts)
	if err != nil {
		return err
	}

	return p.Run()
}

func cmdLs(args []string) error {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dir, err := cfg.Dir()
	if err != nil {
		return err
	}

	entries, err := files.List(dir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("No recordings in %s\n", dir)
		return nil
	}

	cache, err := tui.OpenPreviewCache(cachePath())
	if err != nil {
		return err
	}
	defer cache.Close()

	b, err := tui.NewBrowser(entries, cache)
	if err != nil {
		return err
	}

	chosen, err := b.Run()
	if err != nil || chosen == "" {
		return err
	}

	return play(chosen, player.Options{Speed: cfg.Playback.Speed, IdleLimit: cfg.Playback.IdleLimit})
}

// cachePath places the preview store under the user cache dir,
// falling back to in-memory when there is none.
func cachePath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ":memory:"
	}

	dir := filepath.Join(base, "agr")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return ":memory:"
	}
	return filepath.Join(dir, "previews.db")
}

func cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	raw := fs.Bool("raw", false, "Skip terminal replay; collapse carriage-return rewrites only.")
	segments := fs.Bool("segments", false, "Annotate each segment with its time span and token estimate.")
	outPath := fs.String("o", "", "Write to this file instead of stdout.")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("export wants exactly one cast file, got %d args", fs.NArg())
	}

	cast, err := asciicast.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	opts := analyze.DefaultOptions()
	opts.Screen = !*raw
	res, err := analyze.Extract(cast, opts)
	if err != nil {
		return err
	}

	w := io.Writer(os.Stdout)
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if !*segments {
		_, err := fmt.Fprintln(w, res.Text())
		return err
	}

	for _, s := range res.Segments {
		label := s.Label
		if label == "" {
			label = "segment"
		}
		fmt.Fprintf(w, "## %s [%.1fs - %.1fs, ~%d tokens]\n%s\n", label, s.Start, s.End, s.Tokens, strings.TrimRight(s.Text, "\n"))
	}
	return nil
}

func cmdConfig(args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "show":
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		fmt.Print(cfg.String())
		return nil
	case "path":
		p, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Println(p)
		return nil
	case "edit":
		return editConfig()
	default:
		return fmt.Errorf("unknown config subcommand %q", sub)
	}
}

func editConfig() error {
	p, err := config.Path()
	if err != nil {
		return err
	}

	// Seed the file so the editor opens something complete.
	if _, err := os.Stat(p); err != nil {
		if err := config.Default().Save(); err != nil {
			return err
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	cmd := exec.Command(editor, p)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func cmdCopy(args []string) error {
	fs := flag.NewFlagSet("copy", flag.ExitOnError)
	fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dir, err := cfg.Dir()
	if err != nil {
		return err
	}

	latest, err := files.Latest(dir)
	if err != nil {
		return err
	}

	method, err := clipboard.New().Copy(latest.Path)
	if err != nil {
		return err
	}

	fmt.Printf("Copied %s via %s\n", latest.Path, method)
	return nil
}
