package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/coresim/coresim/go/loader"
	"github.com/coresim/coresim/go/mem"
	"github.com/coresim/coresim/go/models"
)

var loadCmd = &cobra.Command{
	Use:   "load <image>",
	Short: "Load an image into simulated memory",
	Long: `Load recognizes the image, maps simulated memory for each segment at
its transformed address, writes the segments through the memory-write
capability and reports what a simulator would see.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoad(args[0])
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func runLoad(path string) error {
	obj, err := loader.CreateObjectFile(path, viper.GetBool("raw"))
	if err != nil {
		return err
	}
	offset, mask, err := addrTransform()
	if err != nil {
		return err
	}
	obj.SetLoadOffset(offset)
	obj.SetLoadMask(mask)

	registry := loader.NewRegistry(loader.DefaultLoaders()...)
	params := &models.ProcessParams{Executable: path}
	proc, err := registry.TryLoaders(params, obj)
	if err != nil {
		return err
	}

	m := &mem.MemSim{}
	for _, seg := range obj.Segments() {
		if seg.Size == 0 {
			continue
		}
		dest := (seg.Base + offset) & mask
		if err := m.Map(dest, seg.Size); err != nil {
			return err
		}
	}
	if err := obj.LoadSegments(m); err != nil {
		return err
	}

	var total uint64
	for _, r := range m.Regions() {
		total += r.Size
	}
	fmt.Printf("loaded %s: %s/%s, %d segments, %d bytes mapped, entry %#x\n",
		path, proc.Arch, proc.OpSys, len(obj.Segments()), total, uint64(obj.EntryPoint()))
	return nil
}
