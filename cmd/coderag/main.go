// coderag indexes a directory of source files into content-addressed,
// syntax-aware chunks and searches them by vector similarity.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/spetr/coderag/internal/config"
	"github.com/spetr/coderag/internal/embedder"
	"github.com/spetr/coderag/internal/grammar"
	"github.com/spetr/coderag/internal/indexer"
	"github.com/spetr/coderag/internal/search"
	"github.com/spetr/coderag/internal/vectorindex"
	"github.com/spetr/coderag/pkg/types"
)

var (
	version   = "0.1.0"
	cfgFile   string
	logLevel  string
	logFormat string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "coderag",
	Short: "Syntax-aware code chunking and vector similarity search",
	Long: `coderag walks a directory of source files, splits each file into
semantically meaningful chunks using tree-sitter grammars (with a
paragraph-splitting fallback), and serves top-k cosine-similarity
search over the chunk embeddings.

Chunk and document identities are content-addressed: indexing the
same tree twice always produces the same set of IDs.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("coderag %s\n", version)
		fmt.Printf("Go version: %s\n", runtime.Version())
		fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List file extensions with a registered grammar",
	Run: func(cmd *cobra.Command, args []string) {
		for _, ext := range grammar.Extensions() {
			fmt.Println(ext)
		}
	},
}

var indexCmd = &cobra.Command{
	Use:   "index <root>",
	Short: "Index a directory and print chunk statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		idx, stats, err := runPipeline(cmd, args[0], cfg)
		if err != nil {
			return err
		}

		byType := make(map[string]int)
		for i := 0; i < idx.Len(); i++ {
			chunk, err := idx.Retrieve(i)
			if err != nil {
				return err
			}
			byType[chunk.ChunkType]++
		}

		fmt.Printf("documents: %d\n", stats.Documents)
		fmt.Printf("chunks:    %d\n", stats.Chunks)
		fmt.Printf("duration:  %s\n", stats.Duration.Round(time.Millisecond))

		kinds := make([]string, 0, len(byType))
		for kind := range byType {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			fmt.Printf("  %-24s %d\n", kind, byType[kind])
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <root> <query>",
	Short: "Index a directory and search it with a text query",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		idx, _, err := runPipeline(cmd, args[0], cfg)
		if err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			limit = cfg.Search.DefaultLimit
		}

		engine := search.New(idx, buildProvider(cfg))
		results, err := engine.Search(cmd.Context(), args[1], limit)
		if err != nil {
			return err
		}

		for i, res := range results {
			fmt.Printf("%2d. [%.4f] %s %s\n", i+1, res.Score, res.Chunk.ChunkType, res.Chunk.ID)
			fmt.Println(indent(res.Chunk.Text, "    "))
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default coderag.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	for _, cmd := range []*cobra.Command{indexCmd, searchCmd} {
		cmd.Flags().Int("workers", 0, "parallel workers (0 = NumCPU)")
		cmd.Flags().String("provider", "", "embedding provider (openai, hash)")
	}
	searchCmd.Flags().Int("limit", 0, "maximum results")

	rootCmd.AddCommand(versionCmd, languagesCmd, indexCmd, searchCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		for _, e := range errs {
			slog.Error("config error", "error", e)
		}
		return nil, fmt.Errorf("%w: %d problem(s)", types.ErrInvalidConfig, len(errs))
	}
	return cfg, nil
}

func runPipeline(cmd *cobra.Command, root string, cfg *config.Config) (*vectorindex.Index, indexer.Stats, error) {
	workers, _ := cmd.Flags().GetInt("workers")
	if workers == 0 {
		workers = cfg.Collector.Workers
	}
	if provider, _ := cmd.Flags().GetString("provider"); provider != "" {
		cfg.Embedding.Provider = provider
	}

	maxSize, err := config.ParseSize(cfg.Collector.MaxFileSize)
	if err != nil {
		return nil, indexer.Stats{}, err
	}

	return indexer.Run(cmd.Context(), indexer.Config{
		Root:        root,
		Workers:     workers,
		MaxFileSize: maxSize,
		Embedding:   buildProvider(cfg),
	})
}

// buildProvider creates the embedding provider selected by config.
func buildProvider(cfg *config.Config) embedder.Provider {
	switch cfg.Embedding.Provider {
	case "hash":
		return embedder.NewHash(cfg.Embedding.Dimensions)
	default:
		return embedder.NewOpenAI(embedder.OpenAIConfig{
			Model:      cfg.Embedding.Model,
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.Endpoint,
			BatchSize:  cfg.Embedding.BatchSize,
			Dimensions: cfg.Embedding.Dimensions,
		})
	}
}

func setupLogging() {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if logFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}
