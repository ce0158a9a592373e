package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-zerofree/internal/services"
)

var infoCmd = &cobra.Command{
	Use:   "info <image>",
	Short: "Show volume geometry and free-space counters",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]

	vol, err := services.OpenVolume(path, true, newLogger())
	if err != nil {
		return err
	}
	defer vol.Close()

	used := vol.BlockCount() - vol.FreeBlockCount()
	fmt.Printf("Volume:           %s\n", path)
	fmt.Printf("Block size:       %d bytes\n", vol.BlockSize())
	fmt.Printf("Total blocks:     %d\n", vol.BlockCount())
	fmt.Printf("First data block: %d\n", vol.FirstDataBlock())
	fmt.Printf("Free blocks:      %d\n", vol.FreeBlockCount())
	fmt.Printf("Used blocks:      %d\n", used)
	return nil
}
