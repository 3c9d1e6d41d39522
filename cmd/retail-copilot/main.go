// Command retail-copilot answers a batch of retail analytics questions
// using the local document corpus and the relational store.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kataras/golog"
	"github.com/spf13/cobra"

	"github.com/smallnest/retailcopilot/agent"
	"github.com/smallnest/retailcopilot/batch"
	"github.com/smallnest/retailcopilot/log"
	"github.com/smallnest/retailcopilot/rag/loader"
	"github.com/smallnest/retailcopilot/store"
	"github.com/smallnest/retailcopilot/store/postgres"
	"github.com/smallnest/retailcopilot/store/sqlite"
)

var (
	batchPath string
	outPath   string
	docsPath  string
	storeKind string
	dbPath    string
	connStr   string
	topK      int
	workers   int
	verbose   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "retail-copilot",
		Short: "Answer retail analytics questions from documents and SQL",
		Long: `retail-copilot reads a JSONL batch of natural-language questions,
routes each one to document retrieval, SQL aggregation or both, and writes
one typed, citation-bearing answer record per question.`,
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.Flags()
	flags.StringVar(&batchPath, "batch", "", "input JSONL batch file (required)")
	flags.StringVar(&outPath, "out", "", "output JSONL file path (required)")
	flags.StringVar(&docsPath, "docs", "docs", "directory of markdown policy/marketing documents")
	flags.StringVar(&storeKind, "store", "sqlite", "relational store backend: sqlite or postgres")
	flags.StringVar(&dbPath, "db", "data/northwind.sqlite", "SQLite database path")
	flags.StringVar(&connStr, "conn", "", "Postgres connection string (store=postgres)")
	flags.IntVar(&topK, "top-k", agent.DefaultTopK, "chunks retrieved per question")
	flags.IntVar(&workers, "workers", 1, "concurrent question workers")
	flags.BoolVar(&verbose, "verbose", false, "enable debug logging")

	rootCmd.MarkFlagRequired("batch")
	rootCmd.MarkFlagRequired("out")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	logger := golog.New()
	logger.SetPrefix("[copilot] ")
	glog := log.NewGologLogger(logger)
	if verbose {
		glog.SetLevel(log.LogLevelDebug)
	}
	log.SetDefaultLogger(glog)

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	corpus, err := loader.NewMarkdownDirLoader(docsPath).Load(ctx)
	if err != nil {
		return err
	}

	copilot, err := agent.New(ctx, st, corpus, agent.WithTopK(topK))
	if err != nil {
		return err
	}

	in, err := os.Open(batchPath)
	if err != nil {
		return fmt.Errorf("failed to open batch file: %w", err)
	}
	defer in.Close()

	questions, err := batch.ReadQuestions(in)
	if err != nil {
		return err
	}

	runner := batch.NewRunner(copilot, batch.WithWorkers(workers))
	results := runner.Run(ctx, questions)

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	if err := batch.WriteResults(out, results); err != nil {
		return err
	}

	fmt.Printf("wrote %d outputs to %s\n", len(results), outPath)
	return nil
}

// openStore opens the configured relational store backend
func openStore(ctx context.Context) (store.Store, error) {
	switch storeKind {
	case "sqlite":
		return sqlite.Open(dbPath)
	case "postgres":
		return postgres.New(ctx, postgres.Options{ConnString: connStr})
	default:
		return nil, fmt.Errorf("unknown store backend %q", storeKind)
	}
}
