package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/jd-matcher/internal/config"
	"github.com/jonathan/jd-matcher/internal/embedding"
	"github.com/jonathan/jd-matcher/internal/fetch"
	"github.com/jonathan/jd-matcher/internal/ingestion"
	"github.com/jonathan/jd-matcher/internal/observability"
	"github.com/jonathan/jd-matcher/internal/pipeline"
	"github.com/jonathan/jd-matcher/internal/rewriting"
	"github.com/jonathan/jd-matcher/internal/types"
)

// app bundles what every command needs.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	embedder *embedding.Service
	closers  []func()
}

// newApp loads the configuration and builds the logger. The embedder is
// created lazily, so commands that never score do not touch a provider.
func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger, err := observability.NewLogger(cfg.Environment, level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	store, err := a.store()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.embedder = embedding.NewService(embedding.NewLoader(embedding.ProviderConfig{
		Provider:   cfg.Embedding.Provider,
		Model:      cfg.Embedding.Model,
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Dimensions: cfg.Embedding.Dimensions,
	}, store, logger), logger)
	return a, nil
}

func (a *app) store() (embedding.Store, error) {
	switch a.cfg.Cache.Driver {
	case config.CacheRedis:
		rs, err := embedding.NewRedisStore(embedding.RedisConfig{
			Addrs:    a.cfg.Cache.Addrs,
			Password: a.cfg.Cache.Password,
			TTL:      a.cfg.Cache.TTL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, rs.Close)
		return rs, nil
	case config.CacheMemory:
		return embedding.NewMemoryStore(a.cfg.Cache.MaxItems), nil
	default:
		return nil, nil
	}
}

// Close releases the app's resources in reverse order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *app) analyzer() (*pipeline.Analyzer, error) {
	planner, err := a.cfg.BuildPlanner()
	if err != nil {
		return nil, fmt.Errorf("failed to create planner: %w", err)
	}
	return pipeline.NewAnalyzer(a.embedder, planner, a.logger), nil
}

func (a *app) grader() (*rewriting.Grader, error) {
	return rewriting.NewGrader(a.cfg.Rubric)
}

func (a *app) target(flag int) int {
	if flag > 0 {
		return flag
	}
	return a.cfg.Planner.TargetScore
}

// progress prints analysis steps to w in verbose mode.
func progress(w io.Writer) pipeline.ProgressCallback {
	if !verbose {
		return nil
	}
	p := observability.NewPrinter(w)
	return func(e pipeline.ProgressEvent) {
		p.PrintProgress(e.Step, e.Message)
	}
}

// editFlags are the keyword edit flags shared by analyze and report.
type editFlags struct {
	selectKeywords string
	apply          string
	bucket         string
	summary        string
	bullets        string
}

func (f *editFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.selectKeywords, "select", "", "Missing keywords to select (comma-separated)")
	cmd.Flags().StringVar(&f.apply, "apply", "", "Apply the selected keywords: summary or bullets")
	cmd.Flags().StringVar(&f.bucket, "bucket", "", "Only apply selected keywords of this bucket")
	cmd.Flags().StringVar(&f.summary, "summary", "", "File with an edited summary")
	cmd.Flags().StringVar(&f.bullets, "bullets", "", "File with the bullets to grade instead of the extracted ones")
}

func (f *editFlags) edits() (types.Edits, error) {
	e := types.Edits{
		Select: splitCSV(f.selectKeywords),
		Apply:  f.apply,
		Bucket: types.Bucket(f.bucket),
	}
	if f.summary != "" {
		text, err := readDocument(f.summary)
		if err != nil {
			return e, err
		}
		e.Summary = strings.TrimSpace(text)
	}
	if f.bullets != "" {
		bullets, err := readBullets(f.bullets)
		if err != nil {
			return e, err
		}
		e.Bullets = bullets
	}
	if err := e.Validate(); err != nil {
		return e, fmt.Errorf("invalid edits: %w", err)
	}
	if e.Apply != "" && len(e.Select) == 0 {
		return e, fmt.Errorf("--apply needs keywords from --select")
	}
	return e, nil
}

// readDocument returns the text of a .txt, .pdf or .docx file. "-" reads stdin.
func readDocument(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	text, _, err := ingestion.ReadFile(path)
	return text, err
}

// readJD returns the job description from a file or, when url is set, the
// fetched job posting.
func (a *app) readJD(ctx context.Context, path, url string) (string, error) {
	if url != "" {
		text, meta, err := ingestion.FetchJobText(ctx, url, fetch.DefaultOptions(), a.logger)
		if err != nil {
			return "", fmt.Errorf("failed to fetch job posting: %w", err)
		}
		if meta != nil {
			a.logger.Debug("Fetched job posting", zap.String("platform", meta.Platform), zap.Int("words", meta.Words))
		}
		return text, nil
	}
	if path == "" {
		return "", fmt.Errorf("either --jd or --jd-url is required")
	}
	return readDocument(path)
}

// readBullets returns one bullet per non-blank line of a file, with leading
// list markers removed.
func readBullets(path string) ([]string, error) {
	text, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	var bullets []string
	for _, l := range rewriting.SplitLines(text) {
		if l = strings.TrimSpace(strings.TrimLeft(l, "-*•· ")); l != "" {
			bullets = append(bullets, l)
		}
	}
	return bullets, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
