package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mediabridge/internal/config"
	"mediabridge/internal/ffmpeg"
)

// flag names shared by serve, exec and version
const (
	flagConfig         = "config"
	flagLogLevel       = "log-level"
	flagLogFormat      = "log-format"
	flagEngine         = "engine"
	flagFFmpeg         = "ffmpeg"
	flagLibrary        = "library"
	flagEngineLogLevel = "engine-log-level"
	flagNoRedirection  = "no-redirection"
)

func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mediabridge",
		Short:         "Run the media engine and bridge its logs and statistics to the host",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String(flagConfig, envStr("MEDIABRIDGE_CONFIG", ""), "Config file (.yaml, .json or .toml)")
	root.PersistentFlags().String(flagLogLevel, "", "Process log level: trace|debug|info|warn|error (defaults MEDIABRIDGE_LOG_LEVEL or info)")
	root.PersistentFlags().String(flagLogFormat, "", "Process log format: console|json")

	root.AddCommand(serveCmd(), execCmd(), versionCmd())

	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(cmd.OutOrStdout(), true) }})
	root.AddCommand(completionCmd)
	return root
}

func addEngineFlags(fs *pflag.FlagSet) {
	fs.String(flagEngine, "", "Engine kind: exec|native")
	fs.String(flagFFmpeg, "", "ffmpeg binary used by the exec engine")
	fs.String(flagLibrary, "", "Shim library used by the native engine")
	fs.String(flagEngineLogLevel, "", "Engine log level by name or value")
	fs.Bool(flagNoRedirection, false, "Leave engine output on its default sink")
}

// commandConfig loads the layered config for cmd. Only flags the user set
// override file and environment values.
func commandConfig(cmd *cobra.Command, extra func(fs *pflag.FlagSet, cfg *config.Config)) (config.Config, error) {
	fs := cmd.Flags()
	path, _ := fs.GetString(flagConfig)
	return loadConfig(path, func(cfg *config.Config) {
		str := func(name string, dst *string) {
			if fs.Lookup(name) != nil && fs.Changed(name) {
				*dst, _ = fs.GetString(name)
			}
		}
		str(flagLogLevel, &cfg.ServerLogLevel)
		str(flagLogFormat, &cfg.LogFormat)
		str(flagEngine, &cfg.Engine)
		str(flagFFmpeg, &cfg.FFmpegPath)
		str(flagLibrary, &cfg.LibraryPath)
		str(flagEngineLogLevel, &cfg.LogLevel)
		if fs.Lookup(flagNoRedirection) != nil && fs.Changed(flagNoRedirection) {
			off, _ := fs.GetBool(flagNoRedirection)
			on := !off
			cfg.Redirection = &on
		}
		if extra != nil {
			extra(fs, cfg)
		}
	})
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve the HTTP API",
		Example: "  mediabridge serve --addr :8080 --engine exec --ffmpeg /usr/bin/ffmpeg",
		Args:    cobra.NoArgs,
	}
	fs := cmd.Flags()
	addEngineFlags(fs)
	fs.String("addr", "", "HTTP listen address, e.g. :8080")
	fs.Int("max-concurrent", 0, "Executions running at once")
	fs.Int("max-queue-depth", 0, "Executions waiting for a run slot")
	fs.Int("max-wait-ms", 0, "Longest admission wait before 429")
	fs.String("font-dir", "", "Font directory registered with fontconfig")
	fs.String("font-cache-dir", "", "Directory for the generated fonts.conf")
	fs.String("cors-origins", "", "Comma-separated allowed CORS origins; enables CORS")
	fs.Duration("execute-timeout", 0, "Timeout for POST /execute (0 disables)")
	fs.Int64("max-body-bytes", 0, "Maximum JSON request body size")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := commandConfig(cmd, func(fs *pflag.FlagSet, cfg *config.Config) {
			if fs.Changed("addr") {
				cfg.Addr, _ = fs.GetString("addr")
			}
			if fs.Changed("max-concurrent") {
				cfg.MaxConcurrent, _ = fs.GetInt("max-concurrent")
			}
			if fs.Changed("max-queue-depth") {
				cfg.MaxQueueDepth, _ = fs.GetInt("max-queue-depth")
			}
			if fs.Changed("max-wait-ms") {
				cfg.MaxWaitMS, _ = fs.GetInt("max-wait-ms")
			}
			if fs.Changed("font-dir") {
				cfg.FontDir, _ = fs.GetString("font-dir")
			}
			if fs.Changed("font-cache-dir") {
				cfg.FontCacheDir, _ = fs.GetString("font-cache-dir")
			}
			if fs.Changed("cors-origins") {
				v, _ := fs.GetString("cors-origins")
				cfg.CORSOrigins = splitCSV(v)
				cfg.CORSEnabled = len(cfg.CORSOrigins) > 0
			}
		})
		if err != nil {
			return err
		}
		timeout, _ := cmd.Flags().GetDuration("execute-timeout")
		maxBody, _ := cmd.Flags().GetInt64("max-body-bytes")
		return fnServe(cmd.Context(), cfg, serveOptions{
			ExecuteTimeout: timeout,
			MaxBodyBytes:   maxBody,
			Stderr:         cmd.ErrOrStderr(),
		})
	}
	return cmd
}

func execCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec -- <ffmpeg arguments>",
		Short: "Run one engine execution and print its redirected output",
		Example: "  mediabridge exec -- -i in.mp4 -c:v libx264 out.mp4\n" +
			"  mediabridge exec --stats --engine-log-level debug -- -i in.mp4 out.mkv",
		Args: cobra.MinimumNArgs(1),
	}
	fs := cmd.Flags()
	addEngineFlags(fs)
	fs.Bool("stats", false, "Print statistics as they are delivered")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := commandConfig(cmd, nil)
		if err != nil {
			return err
		}
		stats, _ := cmd.Flags().GetBool("stats")
		rc, err := runExec(cmd.Context(), cfg, args, stats, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if rc != ffmpeg.ReturnCodeSuccess {
			return exitError{code: rc}
		}
		return nil
	}
	return cmd
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the mediabridge and engine versions",
		Args:  cobra.NoArgs,
	}
	addEngineFlags(cmd.Flags())
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := commandConfig(cmd, nil)
		if err != nil {
			return err
		}
		engineVersion := "unavailable"
		if eng, err := fnOpenEngine(cfg); err == nil {
			engineVersion = eng.Version()
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "engine: %v\n", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "mediabridge %s\nengine %s\n", ffmpeg.Version, engineVersion)
		return nil
	}
	return cmd
}

// serveOptions carries serve settings that are not part of config.Config.
type serveOptions struct {
	ExecuteTimeout time.Duration
	MaxBodyBytes   int64
	Stderr         io.Writer
	// ShutdownTimeout bounds graceful shutdown; zero means five seconds.
	ShutdownTimeout time.Duration
}
