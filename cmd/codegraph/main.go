package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/codegraph-ir/codegraph/internal/mcpserver"
	"github.com/codegraph-ir/codegraph/internal/pipeline"
	"github.com/codegraph-ir/codegraph/internal/query"
	"github.com/codegraph-ir/codegraph/internal/snapshotstore"
	"github.com/codegraph-ir/codegraph/internal/version"
)

func main() {
	app := &cli.App{
		Name:    "codegraph",
		Usage:   "Multi-language static code analysis engine",
		Version: version.Version,
		Commands: []*cli.Command{
			{
				Name:   "plan",
				Usage:  "Print the pipeline's stage execution plan",
				Action: planCommand,
			},
			{
				Name:  "query",
				Usage: "Filter IR nodes in a msgpack-encoded IR document",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "ir-file", Required: true, Usage: "Path to a msgpack-encoded {nodes,edges} document"},
					&cli.StringFlag{Name: "kind", Usage: "PascalCase NodeKind filter, e.g. Function"},
					&cli.StringFlag{Name: "name-prefix", Usage: "Node name prefix filter"},
					&cli.StringFlag{Name: "file-path", Usage: "File path filter"},
					&cli.IntFlag{Name: "limit", Usage: "Max results (0 = no cap)"},
				},
				Action: queryCommand,
			},
			{
				Name:   "serve",
				Usage:  "Run the MCP query server over stdio",
				Action: serveCommand,
			},
			{
				Name:  "watch",
				Usage: "Watch directories and print debounced batches of changed files",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "dir", Required: true, Usage: "Directory to watch (repeatable)"},
				},
				Action: watchCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "codegraph:", err)
		os.Exit(1)
	}
}

func planCommand(c *cli.Context) error {
	dag := pipeline.DefaultDAG()
	plan, err := dag.ExecutionPlan()
	if err != nil {
		return err
	}
	fmt.Print(plan)
	return nil
}

func queryCommand(c *cli.Context) error {
	data, err := os.ReadFile(c.String("ir-file"))
	if err != nil {
		return fmt.Errorf("read ir-file: %w", err)
	}

	graph, err := query.FromIRBytes(data)
	if err != nil {
		return fmt.Errorf("decode ir-file: %w", err)
	}

	result := graph.QueryNodes(query.Filter{
		Kind:       c.String("kind"),
		NamePrefix: c.String("name-prefix"),
		FilePath:   c.String("file-path"),
		Limit:      c.Int("limit"),
	})

	for _, n := range result.Nodes {
		fmt.Printf("%s\t%s\t%s\t%s\n", n.Kind, n.FQN, n.Name, n.FilePath)
	}
	fmt.Fprintf(os.Stderr, "%d nodes (%.2fms)\n", result.Count, result.QueryTimeMS)
	return nil
}

func watchCommand(c *cli.Context) error {
	w, err := pipeline.NewWatcher(c.StringSlice("dir"), 0)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	for batch := range w.Changes(ctx) {
		fmt.Printf("changed: %v\n", batch)
	}
	return nil
}

func serveCommand(c *cli.Context) error {
	store := snapshotstore.New()
	srv := mcpserver.New("codegraph-mcp-server", version.Version, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return srv.Run(ctx)
}
