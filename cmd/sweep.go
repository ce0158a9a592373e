package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-zerofree/internal/services"
	"github.com/deploymenttheory/go-zerofree/internal/sweep"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep <image>",
	Short: "Fill all free blocks of an ext2 image with the configured byte",
	Long: `sweep walks every block from the first data block to the end of the
volume. Blocks the allocation bitmap marks as free are read, and any that
do not already consist of the fill byte are overwritten with it. In-use
blocks are never read or written.`,
	Args: cobra.ExactArgs(1),
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().BoolP("dry-run", "n", false, "report what would be rewritten without modifying the image")
	sweepCmd.Flags().StringP("fill", "f", "", "fill byte value, 0-255 (0x prefix accepted)")
	sweepCmd.Flags().IntP("workers", "t", 0, fmt.Sprintf("number of concurrent workers, 1-%d", sweep.MaxWorkerLimit))
}

func runSweep(cmd *cobra.Command, args []string) error {
	path := args[0]

	config, err := LoadSweepConfig()
	if err != nil {
		return err
	}

	fillArg := config.Fill
	if cmd.Flags().Changed("fill") {
		fillArg, _ = cmd.Flags().GetString("fill")
	}
	fill, err := parseFillValue(fillArg)
	if err != nil {
		return err
	}

	workers := config.Workers
	if cmd.Flags().Changed("workers") {
		workers, _ = cmd.Flags().GetInt("workers")
	}

	dryRun := config.DryRun
	if cmd.Flags().Changed("dry-run") {
		dryRun, _ = cmd.Flags().GetBool("dry-run")
	}

	mounted, err := services.IsMountedWritable(path)
	if err != nil {
		return fmt.Errorf("failed to determine mount state of %s: %w", path, err)
	}
	if mounted {
		return fmt.Errorf("%s is mounted writable, refusing to modify it", path)
	}

	logger := newLogger()

	vol, err := services.OpenVolume(path, dryRun, logger)
	if err != nil {
		return err
	}

	opts := sweep.Options{
		Fill:       fill,
		MaxWorkers: workers,
		DryRun:     dryRun,
		Logger:     logger,
	}
	if verbose && !quiet {
		opts.OnProgress = func(percent float64) {
			fmt.Fprintf(os.Stderr, "\r%4.1f%%", percent)
		}
	}

	coord, err := sweep.New(vol, opts)
	if err != nil {
		vol.Close()
		return err
	}

	result, runErr := coord.Run()

	if err := vol.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}

	if verbose && !quiet {
		fmt.Printf("\r%d/%d/%d\n", result.Rewritten, result.FreeSeen, vol.BlockCount())
	}
	return nil
}
