// locsync: incremental synchronization of localized JSON datasets.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/faustlauncher/locsync/config"
	"github.com/faustlauncher/locsync/discovery"
	"github.com/faustlauncher/locsync/i18n"
	"github.com/faustlauncher/locsync/lockfile"
	"github.com/faustlauncher/locsync/merge"
	"github.com/faustlauncher/locsync/settings"
	"github.com/faustlauncher/locsync/translator"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// maxShownErrors is the number of errors printed after a run.
const maxShownErrors = 10

// ---------------------------------------------------------------------------
// Logging
// ---------------------------------------------------------------------------

var (
	infoTag    = color.New(color.FgBlue).SprintFunc()
	successTag = color.New(color.FgGreen).SprintFunc()
	warningTag = color.New(color.FgYellow, color.Bold).SprintFunc()
	errorTag   = color.New(color.FgRed).SprintFunc()
	debugTag   = color.New(color.FgHiBlack).SprintFunc()
)

var verbose bool

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, infoTag("[INFO]")+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, successTag("[OK]")+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, warningTag("[WARN]")+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, errorTag("[ERROR]")+" "+format+"\n", args...)
}

func logDebug(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, debugTag("[DEBUG]")+" "+format+"\n", args...)
	}
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
		Use:   "locsync",
		Short: i18n.T("Incremental synchronization of localized JSON datasets"),
		Long: `locsync keeps a localized JSON dataset in step with its source-language
dataset. New records are copied and their text fields translated through a
signed translation service; existing translations are never overwritten.

Commands:
  sync        Merge source datasets into their localized counterparts
  status      Show what a sync would do, without calling the service
  translate   Translate a single text
  auth        Manage translation service credentials

Datasets are declared in .locsync.yaml in the project root, or given
directly with --source and --target.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flags, inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", i18n.T("Project root directory (holds .locsync.yaml and locsync.lock)"))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, i18n.T("Enable debug output"))

	root.AddCommand(
		newSyncCmd(),
		newStatusCmd(),
		newTranslateCmd(),
		newAuthCmd(),
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

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: i18n.T("Show version information"),
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("locsync version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// Dataset selection (shared by sync and status)
// ---------------------------------------------------------------------------

// datasetArgs holds the flags that select and override datasets.
type datasetArgs struct {
	source    string
	target    string
	blacklist string
	dataset   string
	fields    string
}

func (a *datasetArgs) register(fs *pflag.FlagSet) {
	fs.StringVar(&a.source, "source", "", i18n.T("Source dataset root (overrides .locsync.yaml)"))
	fs.StringVar(&a.target, "target", "", i18n.T("Target dataset root (overrides .locsync.yaml)"))
	fs.StringVar(&a.blacklist, "blacklist", "", i18n.T("Comma-separated target filenames to skip"))
	fs.StringVar(&a.dataset, "dataset", "", i18n.T("Only process the named dataset from .locsync.yaml"))
	fs.StringVar(&a.fields, "fields", "", i18n.T("Comma-separated translatable fields (overrides .locsync.yaml)"))
}

// loadConfig reads .locsync.yaml from the project root, falling back to
// defaults when the file does not exist.
func loadConfig() (*config.File, error) {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		logDebug("no %s in %s, using defaults", config.FileName, rootDir)
		cfg = config.Default()
	}
	return cfg, nil
}

// resolveDatasets applies the command-line overrides to the configuration
// and returns the datasets to process.
func resolveDatasets(cfg *config.File, a datasetArgs) ([]config.ResolvedDataset, error) {
	if (a.source == "") != (a.target == "") {
		return nil, errors.New(i18n.T("--source and --target must be given together"))
	}

	file := *cfg
	file.Datasets = append([]config.Dataset(nil), cfg.Datasets...)
	if a.source != "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		file.Datasets = []config.Dataset{{
			Name:         "default",
			SourceRoot:   absFrom(cwd, a.source),
			TargetRoot:   absFrom(cwd, a.target),
			Ext:          discovery.DefaultExt,
			SourcePrefix: discovery.DefaultPrefix,
			Fields:       cfg.Fields,
		}}
	} else if a.dataset != "" {
		ds, ok := cfg.Find(a.dataset)
		if !ok {
			return nil, fmt.Errorf(i18n.T("dataset %q is not declared in %s"), a.dataset, config.FileName)
		}
		file.Datasets = []config.Dataset{*ds}
	}

	if len(file.Datasets) == 0 {
		return nil, fmt.Errorf(i18n.T("no datasets configured: add %s or pass --source and --target"), config.FileName)
	}

	extraBlacklist := splitList(a.blacklist)
	fields := splitList(a.fields)
	for i := range file.Datasets {
		ds := &file.Datasets[i]
		ds.Blacklist = append(append([]string(nil), ds.Blacklist...), extraBlacklist...)
		if len(fields) > 0 {
			ds.Fields = fields
		}
	}

	return file.Resolve(rootDir)
}

func absFrom(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// splitList splits a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// collectPairs enumerates the documents of a dataset. Walk errors are
// reported as warnings; the pairs that could be resolved are returned.
func collectPairs(rd config.ResolvedDataset) ([]discovery.Pair, error) {
	pairs, err := rd.Discovery().Collect()
	if errors.Is(err, discovery.ErrSourceRootMissing) {
		return nil, err
	}
	if err != nil {
		logWarning("%s: %v", rd.Dataset.Name, err)
	}
	return pairs, nil
}

// interruptContext returns a context cancelled on the first interrupt.
func interruptContext(onInterrupt string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		select {
		case <-sigCh:
			if onInterrupt != "" {
				logWarning("%s", onInterrupt)
			}
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// ---------------------------------------------------------------------------
// Credentials
// ---------------------------------------------------------------------------

// buildClient resolves credentials and creates the paced service client.
func buildClient(cfg *config.File, appKey, appSecret string, delay time.Duration) (*translator.Paced, error) {
	info, source := settings.Lookup(settings.DefaultServiceID, appKey, appSecret)
	if !info.Complete() {
		return nil, fmt.Errorf(i18n.T("no credentials for the translation service: run 'locsync auth login', set %s and %s, or pass --app-key and --app-secret"),
			settings.EnvAppKey, settings.EnvAppSecret)
	}
	logDebug("credentials from %s (key: %s)", source, settings.MaskKey(info.AppKey))

	svc := cfg.ServiceConfig()
	svc.AppKey = info.AppKey
	svc.AppSecret = info.AppSecret
	if info.BaseURL != "" {
		svc.BaseURL = info.BaseURL
	}

	client := translator.NewSignedClient(svc)
	client.OnLog = logDebug
	return translator.NewPaced(client, delay), nil
}

// ---------------------------------------------------------------------------
// sync
// ---------------------------------------------------------------------------

type syncArgs struct {
	datasetArgs
	delay     time.Duration
	force     bool
	dryRun    bool
	noLock    bool
	appKey    string
	appSecret string
}

func newSyncCmd() *cobra.Command {
	var a syncArgs

	cmd := &cobra.Command{
		Use:   "sync",
		Short: i18n.T("Merge source datasets into their localized counterparts"),
		Long: `Merge every source document into its target document.

Records whose id is missing from the target are copied and their
translatable fields translated. Records present in both keep their target
text unless a field still needs translation. Target records are never
removed, values containing the sentinel ("??") are never overwritten, and
text that already contains Chinese characters is never translated again.

Documents merged without errors are recorded in locsync.lock and skipped
on later runs until the source, the target or the field list changes.

Examples:
  locsync sync
  locsync sync --dataset story
  locsync sync --source Localize/en --target LLC_zh-CN --blacklist ProjectGSLessonName.json
  locsync sync --force --delay 500ms`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig()
			if err != nil {
				logError("%v", err)
				os.Exit(1)
			}
			if !cmd.Flags().Changed("delay") {
				a.delay = cfg.Pacing
			}
			if !runSync(cfg, a) {
				os.Exit(1)
			}
		},
	}

	a.datasetArgs.register(cmd.Flags())
	cmd.Flags().DurationVar(&a.delay, "delay", translator.DefaultDelay, i18n.T("Minimum delay between service calls"))
	cmd.Flags().BoolVar(&a.force, "force", false, i18n.T("Ignore locsync.lock and re-check every document"))
	cmd.Flags().BoolVar(&a.dryRun, "dry-run", false, i18n.T("Compute the merge without calling the service or writing files"))
	cmd.Flags().BoolVar(&a.noLock, "no-lock", false, i18n.T("Do not read or write locsync.lock"))
	cmd.Flags().StringVar(&a.appKey, "app-key", "", i18n.T("Translation service app key"))
	cmd.Flags().StringVar(&a.appSecret, "app-secret", "", i18n.T("Translation service app secret"))

	return cmd
}

// runSync merges every selected dataset. It reports false when a dataset
// could not be processed or a document failed.
func runSync(cfg *config.File, a syncArgs) bool {
	datasets, err := resolveDatasets(cfg, a.datasetArgs)
	if err != nil {
		logError("%v", err)
		return false
	}

	var client translator.Client
	var paced *translator.Paced
	if a.dryRun {
		client = dryRunClient()
	} else {
		paced, err = buildClient(cfg, a.appKey, a.appSecret, a.delay)
		if err != nil {
			logError("%v", err)
			return false
		}
		client = paced
	}

	var lock *lockfile.LockFile
	if cfg.LockEnabled() && !a.noLock {
		lock, err = lockfile.Load(rootDir)
		if err != nil {
			logWarning(i18n.T("Ignoring unreadable lock file: %v"), err)
			lock = nil
		}
	}

	ctx, cancel := interruptContext(i18n.T("Interrupted, finishing the current document..."))
	defer cancel()

	ok := true
	var lockKeys []string
	for _, rd := range datasets {
		res, keys, err := syncDataset(ctx, client, lock, rd, a)
		if err != nil {
			logError("%s: %v", rd.Dataset.Name, err)
			ok = false
			continue
		}
		lockKeys = append(lockKeys, keys...)
		printRunSummary(rd.Dataset.Name, res)
		if !res.OK() || res.NotProcessed > 0 {
			ok = false
		}
		if ctx.Err() != nil {
			break
		}
	}

	if paced != nil {
		logDebug("%d service calls", paced.Calls())
	}

	if lock != nil && !a.dryRun {
		if ctx.Err() == nil && ok && a.dataset == "" && a.source == "" {
			lock.Clean(lockKeys)
		}
		if err := lock.Save(); err != nil {
			logWarning(i18n.T("Could not save lock file: %v"), err)
		} else {
			logDebug("lock %s: %s", lock.Path(), lock.Summary())
		}
	}

	return ok
}

func syncDataset(ctx context.Context, client translator.Client, lock *lockfile.LockFile, rd config.ResolvedDataset, a syncArgs) (*merge.RunResult, []string, error) {
	pairs, err := collectPairs(rd)
	if err != nil {
		return nil, nil, err
	}
	if !a.dryRun {
		if err := rd.Discovery().MirrorDirs(); err != nil {
			return nil, nil, fmt.Errorf("mirroring directories: %w", err)
		}
	}

	logInfo(i18n.N("%s: %d document", "%s: %d documents", len(pairs)), rd.Dataset.Name, len(pairs))
	logDebug("source: %s", rd.AbsSource)
	logDebug("target: %s", rd.AbsTarget)

	bar := newProgressBar(len(pairs), rd.Dataset.Name)
	eng := merge.New(client, rd.Policy(), merge.Options{
		Lock:    lock,
		Dataset: rd.Dataset.Name,
		Force:   a.force,
		DryRun:  a.dryRun,
		Progress: func(done, total int, msg string) {
			_ = bar.Set(done)
			logDebug("%s", msg)
		},
		OnLog:   logDebug,
		OnError: logWarning,
	})
	res := eng.Run(ctx, pairs)
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	keys := make([]string, 0, len(pairs))
	for _, p := range pairs {
		keys = append(keys, eng.LockKey(p))
	}
	return res, keys, nil
}

func newProgressBar(total int, name string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", name)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

// dryRunClient never reaches the service; the engine does not call it in
// dry-run mode.
func dryRunClient() translator.Client {
	return translator.Func(func(ctx context.Context, text string, dir translator.Direction) translator.Result {
		return translator.Fail(errors.New("dry run"))
	})
}

func printRunSummary(name string, res *merge.RunResult) {
	for _, line := range summaryLines(res) {
		logInfo("%s: %s", name, line)
	}
	if err := res.Err(); err != nil {
		counts := countErrors(err)
		logWarning(i18n.N("%d error:", "%d errors:", counts.total()), counts.total())
		logWarning(i18n.T("%d unreadable documents, %d failed translations, %d failed writes, %d other"),
			counts.decode, counts.translation, counts.persistence, counts.other)
		for _, line := range res.Summary(maxShownErrors) {
			fmt.Fprintf(os.Stderr, "  %s\n", line)
		}
	}
	if res.OK() && res.NotProcessed == 0 {
		logSuccess(i18n.T("%s: sync complete"), name)
	}
}

// errorCounts classifies the errors of a run.
type errorCounts struct {
	decode, translation, persistence, other int
}

func (c errorCounts) total() int {
	return c.decode + c.translation + c.persistence + c.other
}

func countErrors(err error) errorCounts {
	var c errorCounts
	if err == nil {
		return c
	}
	errs := []error{err}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		errs = merr.WrappedErrors()
	}

	for _, e := range errs {
		var decodeErr *merge.DecodeError
		var failure *merge.TranslationFailure
		var persistErr *merge.PersistenceError
		switch {
		case errors.As(e, &decodeErr):
			c.decode++
		case errors.As(e, &failure):
			c.translation++
		case errors.As(e, &persistErr):
			c.persistence++
		default:
			c.other++
		}
	}
	return c
}

// summaryLines formats the counters of a run.
func summaryLines(res *merge.RunResult) []string {
	lines := []string{
		fmt.Sprintf(i18n.T("%d merged, %d unchanged, %d skipped, %d failed (of %d)"),
			res.Processed, res.Unchanged, res.Skipped, res.Failed, res.Total),
		fmt.Sprintf(i18n.T("%d new records, %d fields translated, %d service calls"),
			res.NewRecords, res.TranslatedFields, res.Calls),
	}
	if res.PendingFields > 0 {
		lines = append(lines, fmt.Sprintf(i18n.T("%d fields need translation"), res.PendingFields))
	}
	if res.NotProcessed > 0 {
		lines = append(lines, fmt.Sprintf(i18n.T("%d documents not processed"), res.NotProcessed))
	}
	return lines
}

// ---------------------------------------------------------------------------
// status (read-only: what a sync would do)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	var a datasetArgs
	var all bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: i18n.T("Show what a sync would do, without calling the service"),
		Long: `Compare every source document with its target and report, per document,
the number of records that would be added and the number of fields that
would be translated. Does not modify any files and never calls the
translation service.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig()
			if err != nil {
				logError("%v", err)
				os.Exit(1)
			}
			if !runStatus(cfg, a, all) {
				os.Exit(1)
			}
		},
	}

	a.register(cmd.Flags())
	cmd.Flags().BoolVar(&all, "all", false, i18n.T("Also list documents that are up to date"))
	return cmd
}

func runStatus(cfg *config.File, a datasetArgs, all bool) bool {
	datasets, err := resolveDatasets(cfg, a)
	if err != nil {
		logError("%v", err)
		return false
	}

	var lock *lockfile.LockFile
	if cfg.LockEnabled() {
		if lock, err = lockfile.Load(rootDir); err != nil {
			lock = nil
		}
	}

	ok := true
	for _, rd := range datasets {
		pairs, err := collectPairs(rd)
		if err != nil {
			logError("%s: %v", rd.Dataset.Name, err)
			ok = false
			continue
		}

		eng := merge.New(dryRunClient(), rd.Policy(), merge.Options{
			Lock:    lock,
			Dataset: rd.Dataset.Name,
			DryRun:  true,
		})
		res := eng.Run(context.Background(), pairs)

		fmt.Printf("\n%s  %s → %s\n", color.New(color.Bold).Sprint(rd.Dataset.Name), rd.AbsSource, rd.AbsTarget)
		fmt.Println(strings.Repeat("─", 60))
		for _, doc := range res.Docs {
			if line, show := statusLine(doc, all); show {
				fmt.Println(line)
			}
		}
		for _, line := range summaryLines(res) {
			fmt.Printf("  %s\n", line)
		}
		for _, line := range res.Summary(maxShownErrors) {
			fmt.Printf("  %s\n", color.RedString(line))
		}
		if !res.OK() {
			ok = false
		}
	}
	fmt.Println()
	return ok
}

// statusLine formats one document row. Documents with nothing to do are
// shown only when all is set.
func statusLine(doc *merge.DocResult, all bool) (string, bool) {
	name := doc.Pair.TargetRel
	switch doc.Status {
	case merge.StatusSkipped:
		return fmt.Sprintf("  %-40s %s", name, color.HiBlackString(i18n.T("blacklisted"))), all
	case merge.StatusUnchanged:
		return fmt.Sprintf("  %-40s %s", name, color.GreenString(i18n.T("in sync (lock)"))), all
	case merge.StatusFailed:
		return fmt.Sprintf("  %-40s %s", name, color.RedString(i18n.T("error"))), true
	}
	if doc.NewRecords == 0 && doc.Pending == 0 {
		return fmt.Sprintf("  %-40s %s", name, color.GreenString(i18n.T("up to date"))), all
	}
	return fmt.Sprintf("  %-40s %s %s", name,
		color.YellowString("+%d", doc.NewRecords),
		color.YellowString(i18n.N("%d field", "%d fields", doc.Pending), doc.Pending)), true
}

// ---------------------------------------------------------------------------
// translate (one-off translation)
// ---------------------------------------------------------------------------

func newTranslateCmd() *cobra.Command {
	var direction, appKey, appSecret string

	cmd := &cobra.Command{
		Use:   "translate TEXT",
		Short: i18n.T("Translate a single text"),
		Long: `Translate TEXT with the configured translation service and print the result.

Directions:
  auto_to_zh   Detect the input language, translate into Chinese (default)
  zh_to_en     Chinese to English
  en_to_zh     English to Chinese`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			dir, err := translator.ParseDirection(direction)
			if err != nil {
				logError("%v", err)
				os.Exit(1)
			}
			cfg, err := loadConfig()
			if err != nil {
				logError("%v", err)
				os.Exit(1)
			}
			client, err := buildClient(cfg, appKey, appSecret, 0)
			if err != nil {
				logError("%v", err)
				os.Exit(1)
			}

			ctx, cancel := interruptContext("")
			defer cancel()

			res := client.Translate(ctx, strings.Join(args, " "), dir)
			if !res.OK() {
				logError(i18n.T("Translation failed: %v"), res.Err)
				os.Exit(1)
			}
			fmt.Println(res.Text)
		},
	}

	cmd.Flags().StringVarP(&direction, "direction", "d", translator.AutoToTarget.String(), i18n.T("Translation direction: auto_to_zh, zh_to_en, en_to_zh"))
	cmd.Flags().StringVar(&appKey, "app-key", "", i18n.T("Translation service app key"))
	cmd.Flags().StringVar(&appSecret, "app-secret", "", i18n.T("Translation service app secret"))
	_ = cmd.RegisterFlagCompletionFunc("direction", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{
			translator.AutoToTarget.String(),
			translator.TargetToSource.String(),
			translator.SourceToTarget.String(),
		}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// ---------------------------------------------------------------------------
// auth (credential management)
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: i18n.T("Manage translation service credentials"),
		Long: `Manage the app key and app secret used to sign translation requests.

Credentials are stored in ` + "`$XDG_DATA_HOME/locsync/auth.json`" + ` with 0600
permissions. Lookup order: --app-key/--app-secret flags, then the
LOCSYNC_APP_KEY/LOCSYNC_APP_SECRET environment variables, then the store.`,
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthLogoutCmd(),
		newAuthListCmd(),
	)
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var service, appKey, appSecret, baseURL string

	cmd := &cobra.Command{
		Use:   "login",
		Short: i18n.T("Store app key and secret"),
		Long: `Store the app key and app secret of the translation service.

Values not given as flags are prompted for. Press Enter at a prompt to keep
the stored value.

Examples:
  locsync auth login
  locsync auth login --app-key KEY --app-secret SECRET
  locsync auth login --service staging --base-url http://localhost:8080/api`,
		Run: func(cmd *cobra.Command, args []string) {
			existing := settings.Get(service)
			if existing == nil {
				existing = &settings.Info{}
			}

			fmt.Fprintf(os.Stderr, "\n%s\n", color.BlueString(i18n.T("Translation Service Credentials")))
			fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

			scanner := bufio.NewScanner(os.Stdin)
			var err error
			if appKey == "" {
				appKey, err = prompt(scanner, i18n.T("App key"), existing.AppKey)
				if err != nil {
					logError("%v", err)
					os.Exit(1)
				}
			}
			if appSecret == "" {
				appSecret, err = prompt(scanner, i18n.T("App secret"), existing.AppSecret)
				if err != nil {
					logError("%v", err)
					os.Exit(1)
				}
			}
			if baseURL == "" {
				baseURL = existing.BaseURL
			}

			if err := settings.Set(service, &settings.Info{AppKey: appKey, AppSecret: appSecret, BaseURL: baseURL}); err != nil {
				logError(i18n.T("Failed to save credentials: %v"), err)
				os.Exit(1)
			}
			logSuccess(i18n.T("Credentials saved to %s"), settings.FilePath())
		},
	}

	cmd.Flags().StringVar(&service, "service", settings.DefaultServiceID, i18n.T("Service ID"))
	cmd.Flags().StringVar(&appKey, "app-key", "", i18n.T("Translation service app key"))
	cmd.Flags().StringVar(&appSecret, "app-secret", "", i18n.T("Translation service app secret"))
	cmd.Flags().StringVar(&baseURL, "base-url", "", i18n.T("Endpoint override for this service"))
	return cmd
}

// prompt reads one line. An empty answer keeps current; an empty answer
// with no current value is an error.
func prompt(scanner *bufio.Scanner, label, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(os.Stderr, "  %s [%s]: ", label, color.YellowString(settings.MaskKey(current)))
	} else {
		fmt.Fprintf(os.Stderr, "  %s: ", label)
	}
	if !scanner.Scan() {
		return "", errors.New(i18n.T("No input received"))
	}
	answer := strings.TrimSpace(scanner.Text())
	if answer == "" {
		if current == "" {
			return "", fmt.Errorf(i18n.T("%s is required"), label)
		}
		return current, nil
	}
	return answer, nil
}

func newAuthLogoutCmd() *cobra.Command {
	var service string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: i18n.T("Remove stored credentials"),
		Long: `Remove stored credentials for one or all services.

If --service is not specified, all stored credentials are removed.`,
		Run: func(cmd *cobra.Command, args []string) {
			if service != "" {
				if err := settings.Remove(service); err != nil {
					logError(i18n.T("Failed to remove %s credentials: %v"), service, err)
					os.Exit(1)
				}
				logSuccess(i18n.T("%s credentials removed"), service)
				return
			}
			if err := settings.RemoveAll(); err != nil {
				logError("%v", err)
				os.Exit(1)
			}
			logSuccess(i18n.T("All stored credentials removed"))
		},
	}

	cmd.Flags().StringVar(&service, "service", "", i18n.T("Service to logout (default: all)"))
	return cmd
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   i18n.T("Show stored credentials"),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stderr, "\n%s\n", color.BlueString(i18n.T("Stored Credentials")))
			fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

			store := settings.Load()
			if len(store) == 0 {
				fmt.Fprintf(os.Stderr, "  %s\n", color.RedString(i18n.T("none")))
			}
			for _, id := range sortedKeys(store) {
				entry := store[id]
				status := fmt.Sprintf("%s (key: %s)", color.GreenString(i18n.T("configured")), settings.MaskKey(entry.AppKey))
				if !entry.Complete() {
					status = color.RedString(i18n.T("incomplete"))
				}
				fmt.Fprintf(os.Stderr, "  %-14s %s\n", id, status)
				if entry.BaseURL != "" {
					fmt.Fprintf(os.Stderr, "  %14s endpoint: %s\n", "", entry.BaseURL)
				}
			}

			fmt.Fprintf(os.Stderr, "\n  %s\n", color.YellowString(i18n.T("Environment Variables")))
			for _, name := range []string{settings.EnvAppKey, settings.EnvAppSecret} {
				if v := os.Getenv(name); v != "" {
					fmt.Fprintf(os.Stderr, "  %s: %s\n", name, color.GreenString(settings.MaskKey(v)))
				} else {
					fmt.Fprintf(os.Stderr, "  %s: %s\n", name, color.RedString(i18n.T("not set")))
				}
			}
			fmt.Fprintln(os.Stderr)
		},
	}
}

func sortedKeys(store settings.Store) []string {
	keys := make([]string, 0, len(store))
	for k := range store {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
