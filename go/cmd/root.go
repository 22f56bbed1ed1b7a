package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/coresim/coresim/go/models"
)

var (
	cfgFile string

	rawImage   bool
	loadOffset string
	loadMask   string
)

var rootCmd = &cobra.Command{
	Use:   "coresim",
	Short: "Inspect and load executable images for simulation",
	Long: `coresim ingests executable images of unknown format (ELF, ECOFF,
a.out, device trees, raw blobs, optionally gzip-compressed), identifies
their target architecture and OS ABI, and loads their segments into
simulated memory.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default .coresim.yaml)")
	rootCmd.PersistentFlags().BoolVar(&rawImage, "raw", false, "skip format recognition, treat the image as a flat blob")
	rootCmd.PersistentFlags().StringVar(&loadOffset, "load-offset", "0", "additive offset applied to segment addresses")
	rootCmd.PersistentFlags().StringVar(&loadMask, "load-mask", "", "bitwise mask applied to segment addresses (default all bits)")

	viper.BindPFlag("raw", rootCmd.PersistentFlags().Lookup("raw"))
	viper.BindPFlag("load-offset", rootCmd.PersistentFlags().Lookup("load-offset"))
	viper.BindPFlag("load-mask", rootCmd.PersistentFlags().Lookup("load-mask"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".coresim")
	}
	viper.SetEnvPrefix("CORESIM")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "using config file:", viper.ConfigFileUsed())
	}
}

func parseAddr(s string) (models.Addr, error) {
	if s == "" {
		return models.MaxAddr, nil
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, err
	}
	return models.Addr(v), nil
}

func addrTransform() (offset, mask models.Addr, err error) {
	if offset, err = parseAddr(viper.GetString("load-offset")); err != nil {
		return 0, 0, fmt.Errorf("bad load-offset: %w", err)
	}
	if mask, err = parseAddr(viper.GetString("load-mask")); err != nil {
		return 0, 0, fmt.Errorf("bad load-mask: %w", err)
	}
	return offset, mask, nil
}
