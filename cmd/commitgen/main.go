// Command commitgen generates a commit message for the staged changes with an
// AI backend and drives an accept/edit/regenerate loop before committing.
//
// Usage:
//
//	commitgen [flags]              analyze the staged changes of the current repo
//	git diff --cached | commitgen  analyze a piped diff (no commit step)
//	commitgen file.patch           analyze a diff read from a file
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fwojciec/commitgen"
	"github.com/fwojciec/commitgen/claude"
	"github.com/fwojciec/commitgen/config"
	"github.com/fwojciec/commitgen/fs"
	"github.com/fwojciec/commitgen/gemini"
	"github.com/fwojciec/commitgen/git"
	"github.com/fwojciec/commitgen/gitdiff"
	"github.com/fwojciec/commitgen/ollama"
)

// ErrNoInput is returned when there is nothing to describe.
var ErrNoInput = errors.New("no staged changes: stage files with git add, or pipe a diff")

// App encapsulates the application logic for testing. When RawDiff is set the
// input could not be parsed into per-file changes and is analyzed as one
// undifferentiated diff instead.
type App struct {
	Lister    commitgen.ChangeLister
	Generator *commitgen.Generator
	RawDiff   string
}

// Run lists the staged files and generates a commit message for them.
func (a *App) Run(ctx context.Context) (string, error) {
	if a.RawDiff != "" {
		return a.Generator.GenerateFromDiff(ctx, a.RawDiff)
	}

	files, err := a.Lister.StagedFiles(ctx)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", ErrNoInput
	}
	return a.Generator.Generate(ctx, files)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, diagnose(err))
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// A .env in the working directory may carry GEMINI_API_KEY etc.
	_ = godotenv.Load()

	var (
		configPath  = flag.String("config", config.DefaultPath(), "config file path")
		backendName = flag.String("backend", "", "backend to use: claude, ollama or gemini")
		stageAll    = flag.Bool("a", false, "stage all changes before generating")
		push        = flag.Bool("p", false, "push after committing")
		yes         = flag.Bool("y", false, "accept the first generated message without prompting")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *backendName != "" {
		cfg.Backend = *backendName
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if *push {
		cfg.Push = true
	}

	backend, err := buildBackend(ctx, cfg)
	if err != nil {
		return err
	}

	ui := newUI(os.Stderr)

	// Per-file analyses are cached on disk so regenerating a message only
	// re-runs the final synthesis call.
	analysisBackend := fs.NewCache(backend, fs.DefaultCacheDir())

	diffSource, cleanup, err := resolveDiffSource(flag.Arg(0))
	if err != nil {
		return err
	}
	defer cleanup()

	repo := git.NewRepo(".")
	var lister commitgen.ChangeLister
	var retriever commitgen.DiffRetriever
	rawDiff := ""
	commitEnabled := false

	if diffSource != nil {
		data, err := io.ReadAll(diffSource)
		if err != nil {
			return fmt.Errorf("read diff: %w", err)
		}
		src, err := gitdiff.NewSource(bytes.NewReader(data))
		if err == nil {
			lister, retriever = src, src
		} else {
			// Input that does not parse into per-file changes is still
			// worth analyzing as a single opaque diff.
			rawDiff = string(data)
		}
	} else {
		if !repo.IsRepo(ctx) {
			return errors.New("not a git repository (and no diff piped on stdin)")
		}
		if *stageAll {
			if err := repo.StageAll(ctx); err != nil {
				return err
			}
		}
		lister, retriever = repo, repo
		commitEnabled = true
	}

	analyzer := commitgen.NewAnalyzer(analysisBackend, cfg.Models.Analysis, retriever,
		commitgen.WithAnalyzerTimeout(cfg.Timeout()),
		commitgen.WithMaxDiffChars(cfg.MaxDiffChars),
		commitgen.WithAnalyzerLogger(ui),
	)
	synthesizer := commitgen.NewSynthesizer(backend, cfg.Models.Synthesis,
		commitgen.WithSynthesizerTimeout(cfg.Timeout()),
	)
	generator := commitgen.NewGenerator(analyzer, synthesizer,
		commitgen.WithProgress(ui.Progress),
	)

	app := &App{Lister: lister, Generator: generator, RawDiff: rawDiff}

	message, err := app.Run(ctx)
	if err != nil {
		return err
	}

	for {
		ui.Preview(message)

		if *yes || !isInteractive() {
			break
		}

		choice, err := promptChoice()
		if err != nil {
			return err
		}
		switch choice {
		case choiceAccept:
			// fall through to commit
		case choiceEdit:
			message, err = promptEdit(message)
			if err != nil {
				return err
			}
			continue
		case choiceRegenerate:
			message, err = app.Run(ctx)
			if err != nil {
				return err
			}
			continue
		case choiceCancel:
			ui.Info("cancelled, nothing committed")
			return nil
		}
		break
	}

	if !commitEnabled {
		fmt.Println(message)
		return nil
	}

	if err := repo.Commit(ctx, message); err != nil {
		return err
	}
	ui.Info("committed")

	if cfg.Push {
		if err := repo.Push(ctx); err != nil {
			return err
		}
		ui.Info("pushed")
	}
	return nil
}

// buildBackend constructs the configured text completion backend.
func buildBackend(ctx context.Context, cfg *config.Config) (commitgen.Backend, error) {
	switch cfg.Backend {
	case config.BackendClaude:
		if cfg.Claude.Command != "" {
			return claude.New(claude.WithCommand(cfg.Claude.Command)), nil
		}
		return claude.New(), nil
	case config.BackendOllama:
		return ollama.New(cfg.Ollama.Host), nil
	case config.BackendGemini:
		if cfg.Gemini.APIKey == "" {
			return nil, errors.New("gemini backend requires GEMINI_API_KEY")
		}
		client, err := gemini.NewClient(ctx, cfg.Gemini.APIKey)
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		return gemini.NewBackend(client), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// resolveDiffSource returns a reader for a diff given as a file argument or
// on a piped stdin, or nil when the current repository should be used.
func resolveDiffSource(arg string) (io.Reader, func(), error) {
	if arg != "" {
		f, err := os.Open(arg)
		if err != nil {
			return nil, func() {}, err
		}
		return f, func() { f.Close() }, nil
	}

	stat, err := os.Stdin.Stat()
	if err != nil {
		return nil, func() {}, fmt.Errorf("check stdin: %w", err)
	}
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		return os.Stdin, func() {}, nil
	}
	return nil, func() {}, nil
}

// isInteractive reports whether stdin is a terminal, i.e. whether the
// accept/edit/regenerate prompt can run at all.
func isInteractive() bool {
	stat, err := os.Stdin.Stat()
	return err == nil && (stat.Mode()&os.ModeCharDevice) != 0
}

// diagnose maps pipeline errors onto one clear line with a remediation.
func diagnose(err error) string {
	switch {
	case errors.Is(err, commitgen.ErrBackendUnavailable):
		return fmt.Sprintf("commitgen: %v\nstart or install the configured backend, or switch backends with -backend", err)
	case errors.Is(err, commitgen.ErrAuthRequired):
		return fmt.Sprintf("commitgen: %v\nre-authenticate with the backend and try again", err)
	case errors.Is(err, commitgen.ErrMalformedResponse):
		return "commitgen: failed to generate commit message"
	case errors.Is(err, commitgen.ErrNoChanges), errors.Is(err, ErrNoInput):
		return "commitgen: " + ErrNoInput.Error()
	default:
		return "commitgen: " + err.Error()
	}
}
