// Package cli defines the swatchmatch command tree.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/maax3v3/swatchmatch/internal/config"
	"github.com/maax3v3/swatchmatch/internal/deltae"
	"github.com/maax3v3/swatchmatch/internal/library"
	"github.com/maax3v3/swatchmatch/internal/match"
	"github.com/maax3v3/swatchmatch/internal/pipeline"
	"github.com/maax3v3/swatchmatch/internal/server"
)

// Execute runs the root command with os.Args.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "swatchmatch",
		Short:         "Find the closest reference colors to a hex color or image",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	metric := deltae.CIEDE2000
	pf := root.PersistentFlags()
	pf.String(config.KeyLibrary, "", "Library file or URL (default: first of "+fmt.Sprint(library.DefaultPaths)+")")
	pf.Var(&metric, config.KeyMetric, "Distance metric: ciede2000 or deltae76")
	pf.Float64(config.KeyMaxDistance, 0, "Drop matches farther than this (0 = unbounded)")
	pf.Int(config.KeyLimit, match.DefaultLimit, "Maximum number of matches shown")
	pf.Int(config.KeyWorkers, 1, "Goroutines scoring the library")

	root.AddCommand(newMatchCmd(), newServeCmd(), newMergeCmd())
	return root
}

func newMatchCmd() *cobra.Command {
	var req pipeline.Request
	cmd := &cobra.Command{
		Use:   "match [HEX]",
		Short: "Rank the library against a color",
		Example: "  swatchmatch match '#1E90FF' --metric=deltae76 --max-distance=10\n" +
			"  swatchmatch match --image=photo.jpg --png=sheet.png --csv=matches.csv",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				req.Hex = args[0]
			}
			return pipeline.Run(cmd.Context(), cfg, req, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&req.ImagePath, "image", "", "Use the average color of this image (PNG, JPEG, WEBP) as the query")
	cmd.Flags().StringVar(&req.CSVPath, "csv", "", "Also write the matches to this CSV file")
	cmd.Flags().StringVar(&req.PNGPath, "png", "", "Also render a swatch sheet to this .png file")
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the matcher over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			entries, err := pipeline.LoadLibrary(cmd.Context(), cfg.Library, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return server.New(cfg, match.NewLibrary(entries)).ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().String(config.KeyListen, ":8080", "Listen address")
	cmd.Flags().Int64(config.KeyMaxUploadBytes, 8*1024*1024, "Maximum request body size")
	return cmd
}

func newMergeCmd() *cobra.Command {
	var (
		outPath     string
		logPath     string
		sourcesPath string
	)
	cmd := &cobra.Command{
		Use:   "merge [SRC...]",
		Short: "Merge library sources into one normalised JSON library",
		Long: "Merge reads every source (file path or http(s) URL), keeps entries with a\n" +
			"valid color, normalises it to #RRGGBB, drops duplicate colors and writes\n" +
			"the result sorted by hex, plus a markdown log of what each source added.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := append([]string(nil), args...)
			if sourcesPath != "" {
				f, err := os.Open(sourcesPath)
				if err != nil {
					return fmt.Errorf("opening sources list: %w", err)
				}
				listed, err := library.ReadSources(f)
				f.Close()
				if err != nil {
					return fmt.Errorf("reading sources list: %w", err)
				}
				sources = append(sources, listed...)
			}
			if len(sources) == 0 {
				return fmt.Errorf("no sources given")
			}
			return runMerge(cmd, sources, outPath, logPath)
		},
	}
	cmd.Flags().StringVar(&outPath, "out", library.DefaultPaths[0], "Merged library output")
	cmd.Flags().StringVar(&logPath, "log", "sources-log.md", "Markdown log output (empty to skip)")
	cmd.Flags().StringVar(&sourcesPath, "sources", "", "File listing one source per line")
	return cmd
}

func runMerge(cmd *cobra.Command, sources []string, outPath, logPath string) error {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Merging %d sources...\n", len(sources))
	entries, logs := library.Merge(cmd.Context(), &http.Client{}, sources)
	for _, l := range logs {
		if l.Err != nil {
			fmt.Fprintf(w, "  %s: failed: %v\n", l.Source, l.Err)
			continue
		}
		fmt.Fprintf(w, "  %s: read %d, added %d\n", l.Source, l.Read, l.Added)
	}
	if len(entries) == 0 {
		return fmt.Errorf("merge: %w", library.ErrEmpty)
	}

	fmt.Fprintf(w, "Saving library: %s (%d colors)\n", outPath, len(entries))
	if err := writeFile(outPath, func(f *os.File) error { return library.WriteJSON(f, entries) }); err != nil {
		return fmt.Errorf("saving library: %w", err)
	}
	if logPath != "" {
		fmt.Fprintf(w, "Saving log: %s\n", logPath)
		if err := writeFile(logPath, func(f *os.File) error { return library.WriteLog(f, logs, len(entries)) }); err != nil {
			return fmt.Errorf("saving log: %w", err)
		}
	}
	fmt.Fprintln(w, "Done!")
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
