package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)
	opts := &runOptions{}

	rootCmd := &cobra.Command{
		Use:           "heiconv",
		Short:         "Batch image converter for HEIC and JPEG",
		Long: `heiconv converts batches of images between HEIC and JPEG using an
external ImageMagick-compatible codec. Inputs may be files or directories;
directory arguments contribute their immediate files. Conversions run on a
fixed worker pool and results stream to the terminal as they complete.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.inputs) == 0 && len(args) == 0 {
				return cmd.Help()
			}
			if opts.outputDir == "" {
				return errors.New("an output directory is required (-o)")
			}
			opts.inputs = append(opts.inputs, args...)
			opts.qualitySet = cmd.Flags().Changed("quality")
			return runConvert(cmd, ctx, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	flags := rootCmd.Flags()
	flags.StringArrayVarP(&opts.inputs, "input", "i", nil, "Input file or directory (repeatable)")
	flags.StringVarP(&opts.outputDir, "output", "o", "", "Output directory")
	flags.StringVar(&opts.format, "to", "", "Target format: heic or jpeg")
	flags.Float64VarP(&opts.quality, "quality", "q", 0, "Encode quality, 0-100")
	flags.IntVar(&opts.workers, "workers", 0, "Worker count (default: one per logical CPU)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Diagnostic log level")

	rootCmd.AddCommand(newFormatsCommand())
	rootCmd.AddCommand(newConfigCommand(&configFlag))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newDepsCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
