package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chazu/planar"
	"github.com/chazu/planar/pkg/config"
	"github.com/chazu/planar/pkg/export"
	"github.com/chazu/planar/pkg/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Version is the planar release.
const Version = "0.1.0"

// errFindings is returned when evaluation reports errors. The findings
// themselves have already been printed.
var errFindings = errors.New("drawing has errors")

// app holds what the persistent flags configure.
type app struct {
	configFile string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

// startup reads the configuration file, if any, and builds the logger.
func (a *app) startup() error {
	cfg := config.Default()
	if a.configFile != "" {
		var err error
		cfg, err = config.LoadFile(a.configFile)
		if err != nil {
			return err
		}
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) evaluate(path string) (*planar.Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := planar.NewSession(a.cfg, a.logger)
	result := s.Evaluate(string(source))
	a.logger.Info("evaluated",
		zap.String("file", path),
		zap.Int("shapes", len(result.Shapes)),
		zap.Int("errors", len(result.Errors)),
		zap.Int("warnings", len(result.Warnings)))
	return result, nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "planar",
		Short: "A 2D geometry drawing evaluator.",
		Long: `planar runs drawing programs written in a small Lisp, checks the
shapes they define for interference and clearance, and exports their
outlines to SVG or DXF.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.startup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "configuration file location")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newEvalCmd(a), newExportCmd(a), newConfigCmd(a), newVersionCmd())
	return root
}

func newEvalCmd(a *app) *cobra.Command {
	var pretty bool
	cmd := &cobra.Command{
		Use:   "eval FILE",
		Short: "Evaluate a drawing and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.evaluate(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(result); err != nil {
				return err
			}
			if !result.OK() {
				return errFindings
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		out    string
		format string
		opts   export.SVGOptions
	)
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Evaluate a drawing and write its outlines to SVG or DXF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("--out is required")
			}
			if format == "" {
				format = filepath.Ext(out)
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			result, err := a.evaluate(args[0])
			if err != nil {
				return err
			}
			for _, w := range result.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: line %d: %s\n", w.Line, w.Message)
			}
			if !result.OK() {
				for _, e := range result.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "error: line %d: %s\n", e.Line, e.Message)
				}
				return errFindings
			}

			switch f {
			case export.FormatSVG:
				w, err := os.Create(out)
				if err != nil {
					return err
				}
				if err := export.WriteSVG(w, result.Outlines(), opts); err != nil {
					w.Close()
					return err
				}
				if err := w.Close(); err != nil {
					return err
				}
			case export.FormatDXF:
				if err := export.WriteDXF(out, result.Outlines()); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d outlines to %s\n", len(result.Outlines()), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	cmd.Flags().StringVar(&format, "format", "", "svg or dxf (default: from the output extension)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", export.DefaultSVGScale, "SVG pixels per drawing unit")
	cmd.Flags().IntVar(&opts.Margin, "margin", export.DefaultSVGMargin, "SVG margin in pixels")
	cmd.Flags().StringVar(&opts.Stroke, "stroke", export.DefaultSVGStroke, "SVG stroke colour")
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(a.cfg)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of planar",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "planar v%s\n", Version)
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
}
