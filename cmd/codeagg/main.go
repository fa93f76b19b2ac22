// Command codeagg scans a directory tree and concatenates matching source
// files into a single markdown or plain-text artifact, prefixed with a
// rendered file tree.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	pflag "github.com/spf13/pflag"

	"github.com/smartmita/Code-Aggregation/internal/aggregate"
	"github.com/smartmita/Code-Aggregation/internal/config"
	"github.com/smartmita/Code-Aggregation/internal/report"
	"github.com/smartmita/Code-Aggregation/internal/scan"
	"github.com/smartmita/Code-Aggregation/internal/tree"
)

const Version = "0.1.0"

var (
	targetDirFlagValue string
	extensions         []string
	ignoreItems        []string
	manualFiles        []string
	outputFile         string
	outputFormat       string
	noAutoRename       bool
	treeOnly           bool
	useGitignore       bool
	logLevelStr        string
	configFileFlag     string
	settingsFileFlag   string
	quietFlag          bool
	versionFlag        bool
)

func init() {
	pflag.StringVarP(&targetDirFlagValue, "directory", "d", ".", "Target directory to scan.")
	pflag.StringSliceVarP(&extensions, "extensions", "e", []string{}, "Comma-separated file extensions (overrides config).")
	pflag.StringSliceVarP(&ignoreItems, "ignore", "i", []string{}, "Comma-separated names or paths to ignore (adds to config).")
	pflag.StringSliceVarP(&manualFiles, "files", "f", []string{}, "Comma-separated specific file paths to include.")
	pflag.StringVarP(&outputFile, "output", "o", "", "Output file path (default: ./code_summary<format>).")
	pflag.StringVar(&outputFormat, "format", "", "Output format: .md or .txt (overrides config).")
	pflag.BoolVar(&noAutoRename, "no-auto-rename", false, "Overwrite an existing output file instead of renaming.")
	pflag.BoolVar(&treeOnly, "tree-only", false, "Only print the file structure tree, do not aggregate.")
	pflag.BoolVar(&useGitignore, "gitignore", false, "Also honor .gitignore/.ignore files during discovery.")
	pflag.StringVar(&logLevelStr, "loglevel", "warn", "Set logging verbosity (debug, info, warn, error).")
	pflag.StringVarP(&configFileFlag, "config", "c", "", "Path to a custom configuration file.")
	pflag.StringVarP(&settingsFileFlag, "settings", "s", "", "Path to a JSON settings document to load and update.")
	pflag.BoolVarP(&quietFlag, "quiet", "q", false, "Suppress progress and log output.")
	pflag.BoolVarP(&versionFlag, "version", "v", false, "Print version and exit.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: %s [target_directory]
   or: %s [flags]

Aggregate source code files into a single document.

Flags:
`, os.Args[0], os.Args[0])
		pflag.PrintDefaults()
	}
}

func main() {
	pflag.Parse()

	if versionFlag {
		fmt.Printf("codeagg version %s\n", Version)
		os.Exit(0)
	}

	// Setup Logging
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(logLevelStr)); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level %q, defaulting to 'warn'.\n", logLevelStr)
		logLevel = slog.LevelWarn
	}
	logOpts := &slog.HandlerOptions{Level: logLevel, AddSource: logLevel <= slog.LevelDebug}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, logOpts)))

	// Load Configuration
	appConfig, loadErr := config.Load(configFileFlag)
	if loadErr != nil {
		slog.Error("Failed to load configuration, using defaults.", "error", loadErr)
		appConfig = config.Default()
	}

	// Overlay remembered settings, if a settings document was requested.
	var settings *config.Settings
	if settingsFileFlag != "" {
		var settingsErr error
		settings, settingsErr = config.LoadSettings(settingsFileFlag)
		if settingsErr != nil {
			slog.Warn("Failed to load settings document, ignoring.", "path", settingsFileFlag, "error", settingsErr)
		}
		applySettings(settings, &appConfig)
	}

	// Argument Mode Validation: either one positional target directory, or
	// flags, never both.
	positionalArgs := pflag.Args()
	finalTargetDirectory := ""
	conflictingFlagSet := false
	firstConflict := ""
	metaFlags := map[string]struct{}{"help": {}, "loglevel": {}, "version": {}, "config": {}, "settings": {}, "quiet": {}}
	pflag.Visit(func(f *pflag.Flag) {
		if _, isMeta := metaFlags[f.Name]; !isMeta {
			conflictingFlagSet = true
			if firstConflict == "" {
				firstConflict = f.Name
			}
		}
	})
	if len(positionalArgs) > 1 {
		fmt.Fprintf(os.Stderr, "Refusing execution: Multiple positional arguments provided: %v.\n", positionalArgs)
		os.Exit(1)
	} else if len(positionalArgs) == 1 {
		if conflictingFlagSet {
			fmt.Fprintf(os.Stderr, "Refusing execution: Cannot mix positional argument '%s' with flag '--%s'.\n", positionalArgs[0], firstConflict)
			os.Exit(1)
		}
		finalTargetDirectory = positionalArgs[0]
		if finalTargetDirectory == "" {
			finalTargetDirectory = "."
		}
	} else {
		finalTargetDirectory = targetDirFlagValue
		if !pflag.CommandLine.Changed("directory") && settings != nil && settings.Directory != "" {
			finalTargetDirectory = settings.Directory
		}
	}

	// Validate Target Directory
	absTargetDir, err := filepath.Abs(finalTargetDirectory)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Invalid target directory path '%s': %v\n", finalTargetDirectory, err)
		os.Exit(1)
	}
	dirInfo, err := os.Stat(absTargetDir)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error: Target directory '%s' not found.\n", absTargetDir)
		} else {
			fmt.Fprintf(os.Stderr, "Error accessing target directory '%s': %v\n", absTargetDir, err)
		}
		os.Exit(1)
	}
	if !dirInfo.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: Specified target path '%s' is not a directory.\n", absTargetDir)
		os.Exit(1)
	}

	// Determine final settings: extensions flag overrides config, ignore
	// flag adds to config.
	finalExtensions := appConfig.IncludeExtensions
	if pflag.CommandLine.Changed("extensions") {
		finalExtensions = extensions
	}
	finalExtensions = scan.NormalizeExtensions(finalExtensions)

	finalIgnoreItems := append([]string{}, appConfig.IgnoreItems...)
	if pflag.CommandLine.Changed("ignore") {
		finalIgnoreItems = append(finalIgnoreItems, ignoreItems...)
	}

	finalUseGitignore := *appConfig.UseGitignore
	if pflag.CommandLine.Changed("gitignore") {
		finalUseGitignore = useGitignore
	}

	finalFormat := *appConfig.OutputFormat
	if pflag.CommandLine.Changed("format") {
		finalFormat = outputFormat
	}
	finalFormat = strings.ToLower(strings.TrimSpace(finalFormat))
	if !strings.HasPrefix(finalFormat, ".") {
		finalFormat = "." + finalFormat
	}
	if finalFormat != string(aggregate.Markdown) && finalFormat != string(aggregate.PlainText) {
		fmt.Fprintf(os.Stderr, "Error: Unsupported output format '%s' (use .md or .txt).\n", finalFormat)
		os.Exit(1)
	}

	finalAutoRename := *appConfig.AutoRename
	if noAutoRename {
		finalAutoRename = false
	}

	// Input Validation
	if len(finalExtensions) == 0 && len(manualFiles) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No file extensions specified (use -e or config) and no manual files given (-f).")
		os.Exit(1)
	}

	var rep report.Reporter = report.NewStream(os.Stdout)
	if quietFlag {
		rep = report.Discard
	}

	// Discover
	files, err := scan.Discover(absTargetDir, scan.Options{
		Extensions:   finalExtensions,
		IgnoreItems:  finalIgnoreItems,
		UseGitignore: finalUseGitignore,
	}, rep)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error during file discovery: %v\n", err)
		os.Exit(1)
	}

	if treeOnly {
		if len(files) == 0 {
			fmt.Fprintln(os.Stderr, "生成文件结构树失败")
			os.Exit(1)
		}
		fmt.Println(tree.Render(absTargetDir, files))
		os.Exit(0)
	}

	files = mergeManualFiles(files, manualFiles)

	if len(files) == 0 {
		if !quietFlag {
			fmt.Println("未找到符合条件的文件")
		}
		os.Exit(1)
	}

	// Determine Output Target
	outputPath := outputFile
	if outputPath == "" {
		outputDir := ""
		if settings != nil && settings.OutputDirectory != "" {
			outputDir = settings.OutputDirectory
		} else {
			cwd, errCwd := os.Getwd()
			if errCwd != nil {
				fmt.Fprintf(os.Stderr, "Error: Could not determine working directory: %v\n", errCwd)
				os.Exit(1)
			}
			outputDir = cwd
		}
		outputPath = filepath.Join(outputDir, *appConfig.OutputName+finalFormat)
	}
	absOutputPath, err := filepath.Abs(outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Invalid output path '%s': %v\n", outputPath, err)
		os.Exit(1)
	}

	finalOutputPath := absOutputPath
	if finalAutoRename {
		outDir := filepath.Dir(absOutputPath)
		ext := filepath.Ext(absOutputPath)
		if ext == "" {
			ext = finalFormat
		}
		name := strings.TrimSuffix(filepath.Base(absOutputPath), ext)
		finalOutputPath = aggregate.ResolveOutputPath(outDir, name, ext, rep)
	}

	// Aggregate
	if err := aggregate.Run(absTargetDir, files, finalOutputPath, aggregate.Format(finalFormat), rep); err != nil {
		fmt.Fprintf(os.Stderr, "Error during aggregation: %v\n", err)
		os.Exit(1)
	}

	// Persist the run parameters for the next invocation.
	if settingsFileFlag != "" {
		remembered := rememberRun(absTargetDir, finalOutputPath, finalExtensions, finalIgnoreItems, finalFormat)
		if saveErr := remembered.Save(settingsFileFlag); saveErr != nil {
			slog.Warn("Failed to save settings document.", "path", settingsFileFlag, "error", saveErr)
		}
	}

	if !quietFlag {
		fmt.Printf("\n✨ 聚合完成！文件已保存到: %s\n", finalOutputPath)
	}
}
