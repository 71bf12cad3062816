// dexlate — builds multilingual dictionaries from PokeAPI and applies them
// to PokeMMO string-table archives.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pokemmo-tools/dexlate/apply"
	"github.com/pokemmo-tools/dexlate/cache"
	"github.com/pokemmo-tools/dexlate/config"
	"github.com/pokemmo-tools/dexlate/dictionary"
	"github.com/pokemmo-tools/dexlate/i18n"
	"github.com/pokemmo-tools/dexlate/langmeta"
	"github.com/pokemmo-tools/dexlate/lockfile"
	"github.com/pokemmo-tools/dexlate/manifest"
	"github.com/pokemmo-tools/dexlate/pokeapi"
	"github.com/pokemmo-tools/dexlate/strtable"
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

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dexlate",
		Short: "PokeAPI dictionary builder and string-table translator",
		Long: `dexlate — builds key→text dictionaries from PokeAPI and applies them
to PokeMMO string-table archives.

Dictionaries are flat, hand-editable JSON files, one per language and
category. API responses are cached on disk with no expiry; a stale cached
record is always preferred over a failing network. Translation is literal:
an entry either matches a dictionary key verbatim or stays untouched and is
reported, control tokens like {COLOR:1} pass through unchanged, and
everything outside translated text is re-emitted byte-for-byte.

Commands:
  status      Show project configuration, languages and dictionary coverage
  build       Build or refresh dictionaries from the resource API
  apply       Translate the input archive into output/{LANG}/
  cache       Inspect or clear the API response cache`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flag — inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")

	root.AddCommand(
		newStatusCmd(),
		newBuildCmd(),
		newApplyCmd(),
		newCacheCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// signalContext returns a context cancelled on the first SIGINT.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		logWarning(i18n.T("Interrupted, finishing current step..."))
		cancel()
	}()

	return ctx, cancel
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveLanguages picks the run's target languages: the --lang flag when
// given, otherwise the configured or auto-detected list.
func resolveLanguages(cfg *config.Config, flagLangs []string) ([]string, error) {
	langs := flagLangs
	if len(langs) == 0 {
		langs = cfg.TargetLanguages()
	}
	if len(langs) == 0 {
		return nil, fmt.Errorf("no target languages: pass --lang or add dictionaries under %s", cfg.TranslationsDir)
	}
	return langs, nil
}

// ---------------------------------------------------------------------------
// version command
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dexlate version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// status command
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show project configuration and dictionary coverage",
		Long: `Show the resolved configuration, detected target languages and
per-category dictionary coverage. Does not modify any files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}

	return cmd
}

func runStatus() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n%sProject%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	absRoot, _ := filepath.Abs(rootDir)
	fmt.Fprintf(os.Stderr, "  Root:         %s\n", absRoot)
	fmt.Fprintf(os.Stderr, "  Source lang:  %s\n", cfg.SourceLang)
	fmt.Fprintf(os.Stderr, "  API:          %s\n", cfg.APIBaseURL)
	fmt.Fprintf(os.Stderr, "  Categories:   %s\n", strings.Join(cfg.Categories, ", "))
	fmt.Fprintf(os.Stderr, "  Input:        %s\n", cfg.AbsInputDir())
	fmt.Fprintf(os.Stderr, "  Translations: %s\n", cfg.AbsTranslationsDir())

	store := cache.NewDir(cfg.AbsCacheDir())
	keys, err := store.Keys()
	if err == nil {
		fmt.Fprintf(os.Stderr, "  Cache:        %s (%d entries)\n", cfg.AbsCacheDir(), len(keys))
	} else {
		fmt.Fprintf(os.Stderr, "  Cache:        %s (empty)\n", cfg.AbsCacheDir())
	}

	if lock, err := lockfile.Load(cfg.AbsTranslationsDir()); err == nil {
		fmt.Fprintf(os.Stderr, "  Lock:         %s\n", lock.Summary())
	}

	langs := cfg.TargetLanguages()
	fmt.Fprintf(os.Stderr, "\n%sLanguages%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	if len(langs) == 0 {
		fmt.Fprintln(os.Stderr, "  (none detected)")
	}
	for _, lang := range langs {
		meta := langmeta.Resolve(lang)
		label := meta.Name
		if meta.Flag != "" {
			label = meta.Flag + " " + label
		}

		var have, entries int
		for _, cat := range cfg.Categories {
			d, err := dictionary.Load(dictionary.Path(cfg.AbsTranslationsDir(), lang, cat))
			if err != nil || d.Len() == 0 {
				continue
			}
			have++
			entries += d.Len()
		}
		fmt.Fprintf(os.Stderr, "  %-8s %-24s %d/%d categories, %d entries\n",
			lang, label, have, len(cfg.Categories), entries)
	}
	fmt.Fprintln(os.Stderr)
	return nil
}

// ---------------------------------------------------------------------------
// build command
// ---------------------------------------------------------------------------

type buildArgs struct {
	langs      []string
	categories []string
	timeout    time.Duration
	proxy      string
}

func newBuildCmd() *cobra.Command {
	var a buildArgs

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build or refresh dictionaries from the resource API",
		Long: `Build key→text dictionaries from the resource API, one file per
language and category.

Every record is fetched through the on-disk cache, so a repeated build
against a warm cache issues no network calls. Existing dictionary files are
merged in: freshly fetched entries win, but values edited by hand since the
last build (tracked in dexlate.lock) are kept, as are keys the API does not
know. Records with no target-language text are reported to a
missing-translations CSV for hand completion, never written as empty
entries. A fetch failure aborts only the affected category.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(&a)
		},
	}

	cmd.Flags().StringSliceVarP(&a.langs, "lang", "l", nil, "Target language(s) (default: configured or auto-detected)")
	cmd.Flags().StringSliceVarP(&a.categories, "category", "c", nil, "Categories to build (default: configured)")
	cmd.Flags().DurationVar(&a.timeout, "timeout", 60*time.Second, "HTTP timeout per request")
	cmd.Flags().StringVar(&a.proxy, "proxy", "", "HTTP proxy URL (default: environment)")

	return cmd
}

func runBuild(a *buildArgs) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	langs, err := resolveLanguages(cfg, a.langs)
	if err != nil {
		return err
	}
	categories := a.categories
	if len(categories) == 0 {
		categories = cfg.Categories
	}

	ctx, cancel := signalContext()
	defer cancel()

	client := pokeapi.NewClient(pokeapi.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: a.timeout,
		Proxy:   a.proxy,
	})
	src := pokeapi.NewCached(client, cache.NewDir(cfg.AbsCacheDir()))

	lock, err := lockfile.Load(cfg.AbsTranslationsDir())
	if err != nil {
		return err
	}

	var failed int
	for _, lang := range langs {
		logInfo(i18n.T("Building dictionaries for %s"), lang)

		builder, err := dictionary.NewBuilder(ctx, src, lang)
		if err != nil {
			return err
		}

		for _, cat := range categories {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err := buildCategory(ctx, cfg, builder, lock, lang, cat); err != nil {
				var fe *pokeapi.FetchError
				if errors.As(err, &fe) {
					logError(i18n.T("%s/%s: fetch failed, category skipped: %v"), lang, cat, err)
					failed++
					continue
				}
				return err
			}
		}
	}

	if err := lock.Save(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d categories failed", failed)
	}
	logSuccess(i18n.T("Build complete"))
	return nil
}

func buildCategory(ctx context.Context, cfg *config.Config, b *dictionary.Builder, lock *lockfile.LockFile, lang, cat string) error {
	built, missing, err := b.Build(ctx, cat)
	if err != nil {
		return err
	}

	path := dictionary.Path(cfg.AbsTranslationsDir(), lang, cat)
	existing, err := dictionary.Load(path)
	if err != nil {
		return err
	}

	// Fresh API entries win; hand-added keys the API does not know survive.
	merged := dictionary.Merge(existing, built)

	// A value edited by hand since the last build is kept over the refreshed
	// API text. Its lock hash keeps the old build value, so the edit stays
	// sticky across future builds.
	target := lockfile.TargetKey(lang, cat)
	fresh := make(map[string]string, built.Len())
	for _, k := range built.Keys() {
		bv, _ := built.Get(k)
		if ev, ok := existing.Get(k); ok && ev != bv && lock.Modified(target, k, ev) {
			merged.Set(k, ev)
			continue
		}
		fresh[k] = bv
	}
	lock.UpdateBatch(target, fresh)
	lock.Clean(target, merged.Keys())

	if err := merged.WriteFile(path); err != nil {
		return err
	}

	missingPath := filepath.Join(cfg.AbsTranslationsDir(), lang, "missing",
		dictionary.MissingFileName(cat, lang))
	if err := dictionary.WriteMissing(missingPath, missing); err != nil {
		return err
	}

	if len(missing) > 0 {
		logWarning(i18n.T("  %s: %d entries, %d without %s text"), cat, merged.Len(), len(missing), lang)
	} else {
		logInfo("  %s: %d entries", cat, merged.Len())
	}
	return nil
}

// ---------------------------------------------------------------------------
// apply command
// ---------------------------------------------------------------------------

type applyArgs struct {
	langs      []string
	showMisses bool
}

func newApplyCmd() *cobra.Command {
	var a applyArgs

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Translate the input archive into output/{LANG}/",
		Long: `Translate the string-table files listed in the input archive's
info.xml, writing one archive per target language under the output
directory.

Per-file actions come from the configuration: translated files get every
dictionary entry substituted by exact match (misses stay verbatim and are
reported), copied files pass through unchanged, skipped files are dropped
from the output manifest. The output manifest is stamped with the mod
version and credits; a zip_name.txt with the release archive name is
written next to it. A file that fails to parse is skipped whole — no
partially translated output is ever written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(&a)
		},
	}

	cmd.Flags().StringSliceVarP(&a.langs, "lang", "l", nil, "Target language(s) (default: configured or auto-detected)")
	cmd.Flags().BoolVar(&a.showMisses, "show-misses", false, "List every unmatched text segment")

	return cmd
}

func runApply(a *applyArgs) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	langs, err := resolveLanguages(cfg, a.langs)
	if err != nil {
		return err
	}

	manifestPath := filepath.Join(cfg.AbsInputDir(), manifest.FileName)
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}
	files := m.Files()
	if len(files) == 0 {
		return fmt.Errorf("%s lists no string-table files", manifestPath)
	}

	var failed int
	for _, lang := range langs {
		if err := applyLanguage(cfg, lang, files, a.showMisses); err != nil {
			logError("%s: %v", lang, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d languages failed", failed)
	}
	return nil
}

func applyLanguage(cfg *config.Config, lang string, files []string, showMisses bool) error {
	logInfo(i18n.T("Translating archive for %s"), lang)

	merged, err := loadDictionaries(cfg, lang)
	if err != nil {
		return err
	}
	if merged.Len() == 0 {
		logWarning(i18n.T("  no dictionary entries for %s, output will be a plain copy"), lang)
	}

	special, err := apply.LoadSpecialCases(
		filepath.Join(cfg.AbsTranslationsDir(), lang, apply.SpecialFileName(lang)))
	if err != nil {
		return err
	}
	applier := apply.NewApplier(merged, special)

	outDir := cfg.AbsOutputDir(lang)
	total := &apply.Report{}
	var processed []string
	var unmatched []string

	for _, rel := range files {
		src := filepath.Join(cfg.AbsInputDir(), filepath.FromSlash(rel))
		dst := filepath.Join(outDir, filepath.FromSlash(rel))

		switch cfg.ActionFor(rel) {
		case config.ActionSkip:
			logInfo("  %s: skipped", rel)

		case config.ActionCopy:
			if err := copyFile(src, dst); err != nil {
				return err
			}
			processed = append(processed, rel)
			logInfo("  %s: copied", rel)

		case config.ActionTranslate:
			f, err := strtable.ParseFile(src)
			if err != nil {
				var pe *strtable.ParseError
				if errors.As(err, &pe) {
					logError(i18n.T("  %s: malformed, file skipped: %v"), rel, err)
					continue
				}
				return err
			}
			r := applier.File(f)
			if content, ok := special.Block(rel); ok {
				if err := f.AppendBlock(content); err != nil {
					logWarning("  %s: %v", rel, err)
				} else {
					logInfo("  %s: block appended", rel)
				}
			}
			if err := f.WriteFile(dst); err != nil {
				return err
			}
			processed = append(processed, rel)
			unmatched = append(unmatched, r.UnmatchedKeys...)

			total.Matched += r.Matched
			total.Unmatched += r.Unmatched
			total.Skipped += r.Skipped
			logInfo("  %s: %d translated, %d unmatched, %d skipped",
				rel, r.Matched, r.Unmatched, r.Skipped)
		}
	}

	// The mod icon ships alongside info.xml when the input carries one.
	icon := filepath.Join(cfg.AbsInputDir(), "icon.png")
	if _, err := os.Stat(icon); err == nil {
		if err := copyFile(icon, filepath.Join(outDir, "icon.png")); err != nil {
			return err
		}
	}

	if err := writeOutputManifest(cfg, lang, processed, outDir); err != nil {
		return err
	}

	logSuccess(i18n.T("%s: %d entries translated, %d unmatched, %d skipped"),
		lang, total.Matched, total.Unmatched, total.Skipped)
	if showMisses && len(unmatched) > 0 {
		sort.Strings(unmatched)
		for _, key := range dedup(unmatched) {
			logWarning("  unmatched: %q", key)
		}
	}
	return nil
}

// loadDictionaries merges every category dictionary for a language, in the
// configured category order (later categories win key collisions).
func loadDictionaries(cfg *config.Config, lang string) (*dictionary.Dictionary, error) {
	dicts := make([]*dictionary.Dictionary, 0, len(cfg.Categories))
	for _, cat := range cfg.Categories {
		d, err := dictionary.Load(dictionary.Path(cfg.AbsTranslationsDir(), lang, cat))
		if err != nil {
			return nil, err
		}
		dicts = append(dicts, d)
	}
	return dictionary.Merge(dicts...), nil
}

// writeOutputManifest stamps a fresh copy of the input manifest for the
// language and drops files that are not part of the output.
func writeOutputManifest(cfg *config.Config, lang string, processed []string, outDir string) error {
	m, err := manifest.Load(filepath.Join(cfg.AbsInputDir(), manifest.FileName))
	if err != nil {
		return err
	}
	origVersion := m.Version()

	m.Stamp(manifest.StampOptions{
		NameSuffix: strings.ToUpper(lang) + "(ClientENG)",
		ModVersion: cfg.ModVersion,
		EditedBy:   cfg.EditedBy,
		SourceURL:  cfg.SourceURL,
	})
	m.RemoveFiles(processed)
	if err := m.WriteFile(filepath.Join(outDir, manifest.FileName)); err != nil {
		return err
	}

	zipName := manifest.ZipName(cfg.ZipPrefix, lang, origVersion, cfg.ModVersion)
	if err := os.WriteFile(filepath.Join(outDir, "zip_name.txt"), []byte(zipName), 0o644); err != nil {
		return fmt.Errorf("writing zip name: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func dedup(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	var out []string
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// cache command
// ---------------------------------------------------------------------------

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the API response cache",
		Long: `Manage the on-disk API response cache.

Cached records never expire; invalidation is manual via "cache clear".`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List cached categories and record counts",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCacheList()
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				fmt.Println(cfg.AbsCacheDir())
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every cached record",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				if err := cache.NewDir(cfg.AbsCacheDir()).Clear(); err != nil {
					return err
				}
				logSuccess(i18n.T("Cache cleared"))
				return nil
			},
		},
	)

	return cmd
}

func runCacheList() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	keys, err := cache.NewDir(cfg.AbsCacheDir()).Keys()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		logInfo(i18n.T("Cache is empty"))
		return nil
	}

	counts := make(map[string]int)
	for _, key := range keys {
		category, _, _ := strings.Cut(key, "/")
		counts[category]++
	}
	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, c := range categories {
		fmt.Printf("%-12s %d\n", c, counts[c])
	}
	fmt.Printf("%-12s %d\n", "total", len(keys))
	return nil
}
