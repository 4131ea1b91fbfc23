// trlens — translation lens: live locale annotations for ctx.Tr call sites.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/minios-linux/trlens/annotate"
	"github.com/minios-linux/trlens/config"
	"github.com/minios-linux/trlens/i18n"
	"github.com/minios-linux/trlens/langmeta"
	"github.com/minios-linux/trlens/localeindex"
	"github.com/minios-linux/trlens/scanner"
	"github.com/minios-linux/trlens/settings"
	"github.com/spf13/cobra"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

// useColor mirrors the user's color setting; set before commands run.
var useColor = true

func paint(color, tag string) string {
	if !useColor {
		return tag
	}
	return color + tag + colorReset
}

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, paint(colorBlue, "[INFO]")+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, paint(colorGreen, "[OK]")+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, paint(colorYellow, "[WARN]")+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, paint(colorRed, "[ERROR]")+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

var userSettings = settings.Default()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "trlens",
		Short: "Live locale annotations for ctx.Tr call sites",
		Long: `trlens — translation lens.

Scans project text for ctx.Tr("<key>") translation lookups, matches each key
against the project's locale tree, and produces hover and inline annotations
for a host editor. Projects opt in with a .trlens.json descriptor at their
root:

    {"locale_path": "options/locale", "display_language": "ru-RU"}

The serve command runs the live engine over a stdio JSON event protocol; the
scan, index, and annotate commands are one-shot equivalents for inspection
and scripting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newScanCmd())
	root.AddCommand(newIndexCmd())
	root.AddCommand(newAnnotateCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("trlens version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// scan (one-shot reference listing)
// ---------------------------------------------------------------------------

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan FILE",
		Short: "List translation-key references found in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			logInfo(i18n.T("Scanning %s"), args[0])
			refs := scanner.Scan(string(data))
			for _, ref := range refs {
				fmt.Printf("%d:%d\t%s\n", ref.Start, ref.End, ref.Key)
			}
			logSuccess(i18n.N("Found %d reference", "Found %d references", len(refs)), len(refs))
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// index (one-shot locale tree inspection)
// ---------------------------------------------------------------------------

func newIndexCmd() *cobra.Command {
	var rootDir string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build and summarize the project's translation index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, _, err := loadProject(rootDir)
			if err != nil {
				return err
			}

			for _, code := range ix.Locales() {
				fmt.Printf("%-24s %d keys\n", langmeta.Label(code), len(ix[code]))
			}
			logSuccess(i18n.N("Indexed %d locale", "Indexed %d locales", len(ix)), len(ix))
			return nil
		},
	}

	cmd.Flags().StringVarP(&rootDir, "root", "r", ".", "project root directory")
	return cmd
}

// loadProject reads a root's descriptor and builds its translation index.
func loadProject(rootDir string) (localeindex.Index, *config.Descriptor, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(abs)
	if err != nil {
		if errors.Is(err, config.ErrNoDescriptor) {
			return nil, nil, fmt.Errorf("no %s found in %s", config.DescriptorName, abs)
		}
		return nil, nil, err
	}

	b := &localeindex.Builder{Warn: logWarning}
	ix, err := b.Build(cfg.AbsLocalePath(abs))
	if err != nil {
		return nil, nil, err
	}
	return ix, cfg, nil
}

// ---------------------------------------------------------------------------
// annotate (one-shot plan for a single document)
// ---------------------------------------------------------------------------

func newAnnotateCmd() *cobra.Command {
	var rootDir string
	var sel string

	cmd := &cobra.Command{
		Use:   "annotate FILE",
		Short: "Compute the annotation sets for one document",
		Long: `Compute hover and inline annotation sets for a single document and print
them as JSON, exactly as the serve command would emit them. The --sel flag
supplies the cursor/selection as byte offsets, e.g. --sel 120:134.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selection, err := parseSelection(sel)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			ix, cfg, err := loadProject(rootDir)
			if err != nil {
				return err
			}

			p := &annotate.Planner{
				PreferredLocale: cfg.DisplayLanguage,
				ShowFlags:       userSettings.ShowFlags,
			}
			res := p.Plan(scanner.Scan(string(data)), ix, selection)
			return writeAnnotations(os.Stdout, args[0], res)
		},
	}

	cmd.Flags().StringVarP(&rootDir, "root", "r", ".", "project root directory")
	cmd.Flags().StringVar(&sel, "sel", "0:0", "selection byte range START:END")
	return cmd
}

func parseSelection(s string) (annotate.Selection, error) {
	startStr, endStr, found := strings.Cut(s, ":")
	if !found {
		return annotate.Selection{}, fmt.Errorf("invalid selection %q, want START:END", s)
	}
	start, err := strconv.Atoi(startStr)
	if err != nil {
		return annotate.Selection{}, fmt.Errorf("invalid selection start %q", startStr)
	}
	end, err := strconv.Atoi(endStr)
	if err != nil {
		return annotate.Selection{}, fmt.Errorf("invalid selection end %q", endStr)
	}
	if end < start {
		start, end = end, start
	}
	return annotate.Selection{Start: start, End: end}, nil
}

func main() {
	i18n.Init("")

	if s, err := settings.Load(); err != nil {
		logWarning("user settings: %v", err)
	} else {
		userSettings = s
	}
	useColor = userSettings.Color

	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}
