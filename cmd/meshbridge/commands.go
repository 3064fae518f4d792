package meshbridge

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/meshbridge/meshbridge/internal/version"
	"github.com/meshbridge/meshbridge/pkg/cobrax/topics"
	"github.com/meshbridge/meshbridge/pkg/commands/export"
	"github.com/meshbridge/meshbridge/pkg/commands/importer"
	"github.com/meshbridge/meshbridge/pkg/commands/status"
	"github.com/meshbridge/meshbridge/pkg/commands/watch"
	"github.com/meshbridge/meshbridge/pkg/config"
	"github.com/meshbridge/meshbridge/pkg/host/dirhost"
	"github.com/meshbridge/meshbridge/pkg/logging"
	"github.com/meshbridge/meshbridge/pkg/style"
)

//go:embed topics
var topicsFiles embed.FS

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "meshbridge",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// If we get here, no subcommand was provided
			// Show help but return an error to indicate incorrect usage
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().Bool("dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().String("bridge-root", "", MsgFlagBridgeRoot)
	rootCmd.PersistentFlags().String("content-dir", "", MsgFlagContentDir)

	// Disable automatic help command (we'll use our custom one from topics)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	// Add all commands
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	// Initialize topic-based help system from the embedded docs
	if sub, err := fs.Sub(topicsFiles, "topics"); err == nil {
		opts := topics.Options{
			Extensions: []string{".txt", ".md"},
			// Always use Glamour renderer for markdown files
			Renderer: topics.NewGlamourRenderer(),
		}
		_ = topics.InitializeWithOptions(rootCmd, sub, opts)
	}

	return rootCmd
}

// loadSettings builds the effective settings: configuration layered under
// any per-invocation flag overrides.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}

	if root, _ := cmd.Root().PersistentFlags().GetString("bridge-root"); root != "" {
		settings.BridgeRoot = root
	}
	if dir, _ := cmd.Root().PersistentFlags().GetString("content-dir"); dir != "" {
		settings.ContentDir = dir
	}
	return settings, nil
}

// newContentHost wires the built-in directory host over the configured
// content directory.
func newContentHost(settings *config.Settings) (*dirhost.Host, error) {
	if settings.ContentDir == "" {
		return nil, fmt.Errorf(MsgErrNoContentDir)
	}
	return dirhost.New(settings.ContentDir, nil), nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "export <asset-path>...",
		Short:   MsgExportShort,
		Long:    MsgExportLong,
		Example: MsgExportExample,
		Args:    cobra.MinimumNArgs(1),
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			host, err := newContentHost(settings)
			if err != nil {
				return err
			}
			if err := host.SetLibrarySelection(args); err != nil {
				return fmt.Errorf(MsgErrExport, err)
			}

			operation, _ := cmd.Flags().GetString("operation")

			log.Info().
				Str("bridge_root", settings.BridgeRoot).
				Strs("assets", args).
				Msg("Exporting selection")

			result, err := export.Run(export.Options{
				BridgeRoot: settings.BridgeRoot,
				Host:       host.Bundle(),
				Operation:  operation,
			})
			if err != nil {
				return fmt.Errorf(MsgErrExport, err)
			}

			for _, obj := range result.Objects {
				fmt.Printf(MsgObjectItem, fmt.Sprintf("%s (%s) → %s", obj.Name, obj.Kind, obj.File))
			}
			fmt.Printf(MsgExportedFormat, len(result.Objects), result.ManifestPath)
			return nil
		},
	}

	cmd.Flags().String("operation", "", MsgFlagOperation)

	return cmd
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "import",
		Short:   MsgImportShort,
		Long:    MsgImportLong,
		Example: MsgImportExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			host, err := newContentHost(settings)
			if err != nil {
				return err
			}

			dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")
			deleteGenerated := settings.DeleteGeneratedAssets
			if cmd.Flags().Changed("delete-generated") {
				deleteGenerated, _ = cmd.Flags().GetBool("delete-generated")
			}

			log.Info().
				Str("bridge_root", settings.BridgeRoot).
				Bool("dry_run", dryRun).
				Msg("Importing inbound manifest")

			result, err := importer.Run(importer.Options{
				BridgeRoot:            settings.BridgeRoot,
				Host:                  host.Bundle(),
				DeleteGeneratedAssets: deleteGenerated,
				DryRun:                dryRun,
			})
			if err != nil {
				return fmt.Errorf(MsgErrImport, err)
			}

			if dryRun {
				fmt.Println(MsgDryRunNotice)
			}
			for _, obj := range result.Objects {
				fmt.Println(style.RenderObjectLine(objectLine(obj)))
			}
			if dryRun {
				fmt.Printf(MsgPlannedFormat, len(result.Objects), result.ManifestPath)
			} else {
				fmt.Printf(MsgImportedFormat, len(result.Objects), result.ManifestPath)
			}
			return nil
		},
	}

	cmd.Flags().Bool("delete-generated", false, MsgFlagDeleteGen)

	return cmd
}

// objectLine converts an import report entry into a renderable row
func objectLine(obj importer.ObjectReport) style.ObjectLine {
	line := style.ObjectLine{
		Kind:   string(obj.Kind),
		Name:   obj.Name,
		Status: style.StatusSuccess,
		Target: obj.PackagePath,
	}
	if obj.Planned {
		line.Status = style.StatusQueue
	}
	switch {
	case obj.Replaced:
		line.Detail = "replaced"
	case obj.SkeletonConflict && obj.Retarget != nil:
		line.Detail = "skeleton retargeted"
	case obj.SkeletonConflict:
		line.Detail = "skeleton conflict"
	}
	return line
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		Example: MsgStatusExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			log.Info().Str("bridge_root", settings.BridgeRoot).Msg("Inspecting bridge directory")

			result, err := status.Run(status.Options{
				BridgeRoot: settings.BridgeRoot,
			})
			if err != nil {
				return fmt.Errorf(MsgErrStatus, err)
			}

			renderer := style.NewTerminalRenderer()
			fmt.Println(renderer.RenderDirections([]style.DirectionStatus{
				directionStatus("inbound", result.Inbound),
				directionStatus("outbound", result.Outbound),
			}))
			return nil
		},
	}
}

// directionStatus converts one manifest report into a renderable block
func directionStatus(label string, ms status.ManifestStatus) style.DirectionStatus {
	ds := style.DirectionStatus{
		Label:     label,
		Present:   ms.Present,
		Path:      ms.Path,
		Legacy:    ms.Legacy,
		Operation: ms.Operation,
		Problem:   ms.Error,
	}
	for _, obj := range ms.Objects {
		line := style.ObjectLine{
			Kind:   string(obj.Kind),
			Name:   obj.Name,
			Status: style.StatusQueue,
			Target: obj.File,
		}
		if !obj.FileExists {
			line.Status = style.StatusMissing
		}
		if obj.Placed {
			line.Detail = "placed"
		}
		ds.Objects = append(ds.Objects, line)
	}
	return ds
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watch",
		Short:   MsgWatchShort,
		Long:    MsgWatchLong,
		Example: MsgWatchExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			host, err := newContentHost(settings)
			if err != nil {
				return err
			}

			dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")
			debounce, _ := cmd.Flags().GetDuration("debounce")

			watcher, err := watch.New(watch.Options{
				BridgeRoot: settings.BridgeRoot,
				Debounce:   debounce,
				OnManifest: func(path string) {
					result, err := importer.Run(importer.Options{
						BridgeRoot:            settings.BridgeRoot,
						Host:                  host.Bundle(),
						DeleteGeneratedAssets: settings.DeleteGeneratedAssets,
						DryRun:                dryRun,
					})
					if err != nil {
						renderer := style.NewTerminalRenderer()
						fmt.Println(renderer.RenderError(err))
						return
					}
					fmt.Printf(MsgImportedFormat, len(result.Objects), result.ManifestPath)
				},
			})
			if err != nil {
				return fmt.Errorf(MsgErrWatch, err)
			}

			// Ctrl-C stops the watcher cleanly
			signals := make(chan os.Signal, 1)
			signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-signals
				_ = watcher.Close()
			}()

			fmt.Printf(MsgWatchingFormat, settings.BridgeRoot)
			return watcher.Run()
		},
	}

	cmd.Flags().Duration("debounce", 500*time.Millisecond, MsgFlagDebounce)

	return cmd
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: MsgConfigShowShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			fmt.Printf("# %s\n", config.Path())
			fmt.Printf("bridge_root = %q\n", settings.BridgeRoot)
			fmt.Printf("content_dir = %q\n", settings.ContentDir)
			fmt.Printf("delete_generated_assets = %v\n", settings.DeleteGeneratedAssets)
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:     "set <key> <value>",
		Short:   MsgConfigSetShort,
		Example: MsgConfigSetExample,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load()
			if err != nil {
				return fmt.Errorf(MsgErrLoadConfig, err)
			}

			key, value := args[0], args[1]
			switch key {
			case "bridge_root":
				settings.BridgeRoot = value
			case "content_dir":
				settings.ContentDir = value
			case "delete_generated_assets":
				parsed, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("delete_generated_assets wants a boolean, got %q", value)
				}
				settings.DeleteGeneratedAssets = parsed
			default:
				return fmt.Errorf(MsgErrUnknownKey, key)
			}

			if err := config.Save(settings); err != nil {
				return fmt.Errorf(MsgErrSaveConfig, err)
			}
			fmt.Printf(MsgSettingSaved, key, config.Path())
			return nil
		},
	})

	return configCmd
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Find the help command and execute it with "topics" argument
			if helpCmd, _, err := cmd.Root().Find([]string{"help"}); err == nil {
				if helpCmd.RunE != nil {
					return helpCmd.RunE(helpCmd, []string{"topics"})
				} else if helpCmd.Run != nil {
					helpCmd.Run(helpCmd, []string{"topics"})
					return nil
				}
			}
			return fmt.Errorf("help command not found")
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}

func newManCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			header := &doc.GenManHeader{
				Title:   "MESHBRIDGE",
				Section: "1",
			}
			return doc.GenManTree(cmd.Root(), header, dir)
		},
	}

	cmd.Flags().String("dir", "/tmp", "Directory to write man pages into")

	return cmd
}
