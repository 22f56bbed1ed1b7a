package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/coresim/coresim/go/loader"
	"github.com/coresim/coresim/go/symtab"
)

var symBinding string

var symbolsCmd = &cobra.Command{
	Use:   "symbols <image>",
	Short: "Drain an image's symbols into a table and print them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSymbols(args[0])
	},
}

func init() {
	rootCmd.AddCommand(symbolsCmd)
	symbolsCmd.Flags().StringVar(&symBinding, "binding", "all", "which binding class to load (all, global, local, weak)")
}

func runSymbols(path string) error {
	obj, err := loader.CreateObjectFile(path, viper.GetBool("raw"))
	if err != nil {
		return err
	}
	offset, mask, err := addrTransform()
	if err != nil {
		return err
	}

	tab := symtab.New()
	switch symBinding {
	case "all":
		err = obj.LoadAllSymbols(tab, 0, offset, mask)
	case "global":
		err = obj.LoadGlobalSymbols(tab, 0, offset, mask)
	case "local":
		err = obj.LoadLocalSymbols(tab, 0, offset, mask)
	case "weak":
		err = obj.LoadWeakSymbols(tab, 0, offset, mask)
	default:
		return fmt.Errorf("unknown binding class %q", symBinding)
	}
	if err != nil {
		return err
	}

	for _, sym := range tab.Symbols() {
		fmt.Printf("%#16x %-6s %s\n", uint64(sym.Addr), sym.Binding, sym.Name)
	}
	fmt.Printf("%d symbols\n", tab.Len())
	return nil
}
