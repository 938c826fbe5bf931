package lint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/gnolang/ternlint/internal"
	tt "github.com/gnolang/ternlint/internal/types"
)

type LintEngine interface {
	Run(filePath string) ([]tt.Issue, error)
	RunContext(ctx context.Context, filePath string) ([]tt.Issue, error)
	RunSource(source []byte) ([]tt.Issue, error)
	IgnoreRule(rule string)
	IgnorePath(path string)
}

// Processor lints a single file.
type Processor func(ctx context.Context, engine LintEngine, path string) ([]tt.Issue, error)

// progress is drawn here while a directory is processed.
var progressOutput io.Writer = os.Stderr

// New builds an engine from the configuration at configurationPath. An empty
// path selects the defaults.
func New(rootDir string, configurationPath string, opts ...internal.EngineOption) (*internal.Engine, error) {
	config := DefaultConfig()
	if configurationPath != "" {
		var err error
		config, err = ParseConfigurationFile(configurationPath)
		if err != nil {
			return nil, err
		}
	}
	return NewFromConfig(rootDir, config, opts...)
}

// NewFromConfig builds an engine from an already loaded configuration.
func NewFromConfig(rootDir string, config Config, opts ...internal.EngineOption) (*internal.Engine, error) {
	var engineOpts []internal.EngineOption
	if config.LanguageVersion != "" {
		engineOpts = append(engineOpts, internal.WithLanguageVersion(config.LanguageVersion))
	}
	for _, c := range config.Conversions {
		engineOpts = append(engineOpts, internal.WithConversion(c.From, c.To))
	}
	engineOpts = append(engineOpts, opts...)

	engine, err := internal.NewEngine(rootDir, config.Rules, engineOpts...)
	if err != nil {
		return nil, err
	}
	for _, path := range config.Ignore {
		engine.IgnorePath(path)
	}
	return engine, nil
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	sources [][]byte,
	processor func(LintEngine, []byte) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return allIssues, err
		}
		issues, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	paths []string,
	processor Processor,
) ([]tt.Issue, error) {
	allIssues := []tt.Issue{}
	var errs []error
	for _, path := range paths {
		issues, err := ProcessPath(ctx, logger, engine, path, processor)
		allIssues = append(allIssues, issues...)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			if ctx.Err() != nil {
				return allIssues, err
			}
			errs = append(errs, err)
		}
	}

	return allIssues, errors.Join(errs...)
}

// ProcessPath lints a file, or every source file below a directory. A file
// that fails does not stop the others; the issues found are returned
// together with the joined errors. On cancellation the issues collected so
// far are returned with the context error.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	path string,
	processor Processor,
) ([]tt.Issue, error) {
	info, err := os.Stat(path)
	if err != nil {
		return []tt.Issue{}, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !hasDesiredExtension(path) {
			return []tt.Issue{}, nil
		}
		fileIssues, err := processor(ctx, engine, path)
		if err != nil {
			return []tt.Issue{}, err
		}
		return append([]tt.Issue{}, fileIssues...), nil
	}

	files, err := collectFiles(path)
	if err != nil {
		return []tt.Issue{}, fmt.Errorf("error walking directory %s: %w", path, err)
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(progressOutput),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	// results are kept in file order
	results := make([][]tt.Issue, len(files))
	errs := make([]error, len(files))

	// limit the number of workers
	maxWorkers := runtime.NumCPU()
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	canceled := false
	for i, filePath := range files {
		select {
		case <-ctx.Done():
			canceled = true
		case sem <- struct{}{}:
		}
		if canceled {
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			fileIssues, err := processor(ctx, engine, filePath)
			if err != nil {
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", filePath), zap.Error(err))
				}
				errs[i] = fmt.Errorf("%s: %w", filePath, err)
			} else {
				results[i] = fileIssues
			}
			_ = bar.Add(1)
		}()
	}
	wg.Wait()
	_ = bar.Finish()

	issues := []tt.Issue{}
	for _, r := range results {
		issues = append(issues, r...)
	}
	if err := ctx.Err(); err != nil {
		return issues, err
	}
	return issues, errors.Join(errs...)
}

// collectFiles lists the source files below root, skipping hidden
// directories.
func collectFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if hasDesiredExtension(path) {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

func ProcessFile(ctx context.Context, engine LintEngine, filePath string) ([]tt.Issue, error) {
	return engine.RunContext(ctx, filePath)
}

func ProcessSource(engine LintEngine, source []byte) ([]tt.Issue, error) {
	return engine.RunSource(source)
}

var desiredExtensions = map[string]bool{
	internal.SourceExt: true,
}

func hasDesiredExtension(path string) bool {
	return desiredExtensions[filepath.Ext(path)]
}
