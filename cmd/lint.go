package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/ternlint/formatter"
	"github.com/gnolang/ternlint/internal"
	tt "github.com/gnolang/ternlint/internal/types"
	"github.com/gnolang/ternlint/lint"
)

var (
	ignoreRules    string
	ignorePaths    string
	lintJsonOutput bool
	outPath        string
	cacheDir       string
)

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Run the normal lint process",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, err := newEngine(cmd)
		if err != nil {
			logger.Fatal("Failed to initialize lint engine", zap.Error(err))
		}

		runNormalLintProcess(ctx, logger, engine, args, lintJsonOutput, outPath)
	},
}

func init() {
	for _, c := range []*cobra.Command{lintCmd, fixCmd, watchCmd} {
		c.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of lint rules to ignore")
		c.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
	}
	lintCmd.Flags().BoolVar(&lintJsonOutput, "json", false, "Output issues in JSON format")
	lintCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	lintCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Directory for cached results (disabled when empty)")
}

// newEngine builds the engine shared by the subcommands from the
// configuration file and the --ignore/--ignore-paths flags.
func newEngine(cmd *cobra.Command) (*internal.Engine, error) {
	opts := []internal.EngineOption{internal.WithLogger(logger)}
	if cacheDir != "" {
		cache, err := internal.NewCache(cacheDir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, internal.WithCache(cache))
	}

	engine, err := lint.New(".", configPath(cmd), opts...)
	if err != nil {
		return nil, err
	}

	for _, rule := range splitList(ignoreRules) {
		engine.IgnoreRule(rule)
	}
	for _, path := range splitList(ignorePaths) {
		engine.IgnorePath(path)
	}
	return engine, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func runNormalLintProcess(ctx context.Context, logger *zap.Logger, engine lint.LintEngine, paths []string, isJson bool, jsonOutput string) {
	issues, err := lint.ProcessFiles(ctx, logger, engine, paths, lint.ProcessFile)
	if err != nil {
		logger.Error("Error processing files", zap.Error(err))
	}

	if perr := printIssues(os.Stdout, logger, issues, isJson, jsonOutput); perr != nil {
		logger.Error("Error printing issues", zap.Error(perr))
		os.Exit(1)
	}

	if err != nil || hasBlockingIssue(issues) {
		os.Exit(1)
	}
}

// hasBlockingIssue reports whether any issue is an error or a warning.
func hasBlockingIssue(issues []tt.Issue) bool {
	for _, issue := range issues {
		if issue.Severity == tt.SeverityError || issue.Severity == tt.SeverityWarning {
			return true
		}
	}
	return false
}

func printIssues(w io.Writer, logger *zap.Logger, issues []tt.Issue, isJson bool, jsonOutput string) error {
	issuesByFile := make(map[string][]tt.Issue)
	for _, issue := range issues {
		issuesByFile[issue.Filename] = append(issuesByFile[issue.Filename], issue)
	}

	sortedFiles := make([]string, 0, len(issuesByFile))
	for filename := range issuesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	if !isJson {
		// text output
		for _, filename := range sortedFiles {
			fileIssues := issuesByFile[filename]
			sourceCode, err := internal.ReadSourceCode(filename)
			if err != nil {
				logger.Error("Error reading source file", zap.String("file", filename), zap.Error(err))
				continue
			}
			output := formatter.GenerateFormattedIssue(fileIssues, sourceCode)
			fmt.Fprintln(w, output)
		}
		return nil
	}

	// JSON output
	d, err := json.Marshal(issuesByFile)
	if err != nil {
		return fmt.Errorf("error marshalling issues to JSON: %w", err)
	}
	if jsonOutput == "" {
		_, err = fmt.Fprintln(w, string(d))
		return err
	}
	return os.WriteFile(jsonOutput, d, 0o644)
}
