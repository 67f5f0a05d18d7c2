// Command analyze runs the keyword pipeline over a CSV file and prints the
// dashboard JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/sentimentiq/backend/internal/ingestion"
	"github.com/sentimentiq/backend/internal/sentiment"
	appLogger "github.com/sentimentiq/backend/pkg/logger"
)

func main() {
	file := flag.String("file", "", "CSV file to analyse (- for stdin)")
	pretty := flag.Bool("pretty", false, "indent the JSON output")
	logLevel := flag.String("log-level", "warn", "log level written to stderr")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -file reviews.csv [-pretty]")
		os.Exit(2)
	}

	if err := appLogger.Init(*logLevel, "console", "stderr"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	if err := run(context.Background(), *file, *pretty, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string, pretty bool, out io.Writer) error {
	text, err := readInput(path)
	if err != nil {
		return err
	}

	lexicon := sentiment.DefaultLexicon()
	processor := ingestion.NewProcessor(sentiment.NewKeywordClassifier(lexicon), lexicon)

	result, err := processor.Process(ctx, text)
	if errors.Is(err, ingestion.ErrNoValidRows) {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err != nil {
		return fmt.Errorf("failed to analyse %s: %w", path, err)
	}

	appLogger.Debug("Analysis complete",
		zap.Int("reviews", len(result.Reviews)),
		zap.Int("dropped", result.Stats.Dropped),
	)

	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result.Dashboard); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
