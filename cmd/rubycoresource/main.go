package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/frederic-klein/rubycoresource/internal/catalog"
	"github.com/frederic-klein/rubycoresource/internal/config"
	"github.com/frederic-klein/rubycoresource/internal/resolver"
	"github.com/frederic-klein/rubycoresource/internal/srcdir"
)

var (
	configPath  string
	rubyVersion string
	patchlevel  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "rubycoresource",
		Short:         "Locate the packaged Ruby VM headers matching an interpreter version",
		Long:          "rubycoresource picks, among packaged ruby-X.Y.Z-pN source directories, the one a native extension should compile against, falling back to the closest older compatible version when no exact match was packaged.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ./rubycoresource.yaml)")
	rootCmd.PersistentFlags().StringP("root", "r", "", "Packaged-sources root directory")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", config.OutputText, "Output format: text or yaml")

	resolveCmd := &cobra.Command{
		Use:   "resolve [NAME]",
		Short: "Print the packaged source directory to use for a version",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runResolve,
	}
	resolveCmd.Flags().StringVar(&rubyVersion, "ruby-version", "", "Interpreter RUBY_VERSION, e.g. 3.4.1")
	resolveCmd.Flags().IntVar(&patchlevel, "patchlevel", 0, "Interpreter RUBY_PATCHLEVEL (-1 for preview builds resolves against the -p0 package)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List packaged source directories in version order",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}

	rootCmd.AddCommand(resolveCmd, listCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: configPath,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.RequireRoot(); err != nil {
		return nil, nil, err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "rubycoresource"})
	if cfg.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return cfg, logger, nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	var requested string
	switch {
	case len(args) == 1 && rubyVersion != "":
		return fmt.Errorf("pass either NAME or --ruby-version, not both")
	case len(args) == 1:
		requested = args[0]
	case rubyVersion != "":
		requested, err = srcdir.FromRuntime(rubyVersion, patchlevel)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("missing version: pass NAME or --ruby-version")
	}

	res := resolver.NewResolver(cfg.Root, resolver.LogWarner{Logger: logger}, logger)
	result, err := res.ResolveDir(requested)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", requested, err)
	}

	return printResult(cmd.OutOrStdout(), cfg.Output, result)
}

type resultDoc struct {
	Requested string `yaml:"requested"`
	Chosen    string `yaml:"chosen"`
	Path      string `yaml:"path"`
	Exact     bool   `yaml:"exact"`
}

func printResult(w io.Writer, format string, r resolver.Result) error {
	if format == config.OutputYAML {
		return encodeYAML(w, resultDoc{
			Requested: r.Requested,
			Chosen:    r.Name,
			Path:      r.Path,
			Exact:     r.Exact,
		})
	}
	_, err := fmt.Fprintln(w, r.Path)
	return err
}

type entryDoc struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Track   string `yaml:"track"`
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	cat, err := catalog.Scan(cfg.Root)
	if err != nil {
		return err
	}
	entries, skipped := cat.Versions()
	logger.Debug("scanned catalog", "root", cfg.Root, "entries", cat.Len(), "versions", len(entries))
	for _, name := range skipped {
		logger.Debug("skipping unparseable catalog entry", "name", name)
	}

	w := cmd.OutOrStdout()
	if cfg.Output == config.OutputYAML {
		docs := make([]entryDoc, 0, len(entries))
		for _, e := range entries {
			docs = append(docs, entryDoc{
				Name:    e.Name,
				Version: e.Version.GemString(),
				Track:   e.Version.Track.String(),
			})
		}
		return encodeYAML(w, docs)
	}

	for _, e := range entries {
		if _, err := fmt.Fprintln(w, e.Name); err != nil {
			return err
		}
	}
	return nil
}

func encodeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writing yaml: %w", err)
	}
	return enc.Close()
}
