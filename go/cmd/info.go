package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/zeebo/blake3"

	"github.com/coresim/coresim/go/loader"
	"github.com/coresim/coresim/go/models"
)

var infoCmd = &cobra.Command{
	Use:   "info <image>",
	Short: "Identify an image and describe its segments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(args[0])
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func formatName(obj models.ObjectFile) string {
	switch obj.(type) {
	case *loader.ElfObject:
		return "elf"
	case *loader.EcoffObject:
		return "ecoff"
	case *loader.AoutObject:
		return "aout"
	case *loader.DtbObject:
		return "dtb"
	case *loader.RawObject:
		return "raw"
	}
	return "unknown"
}

func runInfo(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	obj, err := loader.NewObjectFile(path, raw, viper.GetBool("raw"))
	if err != nil {
		return err
	}

	sum := blake3.Sum256(raw)
	fmt.Printf("file:        %s\n", obj.Filename())
	fmt.Printf("fingerprint: %x\n", sum)
	fmt.Printf("format:      %s\n", formatName(obj))
	fmt.Printf("arch:        %s\n", obj.Arch())
	fmt.Printf("os:          %s\n", obj.OpSys())
	fmt.Printf("entry:       %#x\n", uint64(obj.EntryPoint()))
	fmt.Printf("relocatable: %v\n", obj.Relocatable())
	if obj.Relocatable() {
		fmt.Printf("map size:    %#x\n", uint64(obj.MapSize()))
	}
	if e, ok := obj.(*loader.ElfObject); ok && e.InterpPath() != "" {
		fmt.Printf("interp:      %s\n", e.InterpPath())
	}

	segs := obj.Segments()
	if len(segs) == 0 {
		fmt.Println("no segments")
		return nil
	}
	fmt.Printf("segments (%d), span [%#x, %#x):\n",
		len(segs), uint64(obj.MinSegmentAddr()), uint64(obj.MaxSegmentAddr()))
	for _, seg := range segs {
		fmt.Printf("  %-8s %#10x %8d bytes (%d on file)\n",
			seg.Name, uint64(seg.Base), seg.Size, len(seg.Data))
	}
	return nil
}
