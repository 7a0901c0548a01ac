package main

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm/hxbind"
	"github.com/pthm/hxbind/lib/dom"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "hxbind",
	Short:         "Declarative attribute actions for HTML pages",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "hxbind.toml", "configuration file (ignored when missing)")
}

// loadConfig reads the config file. A missing default file yields an empty
// config; a missing file named explicitly is an error.
func loadConfig(cmd *cobra.Command) (*hxbind.Config, error) {
	c, err := hxbind.LoadConfig(configPath)
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		return hxbind.ParseConfig("")
	}
	return c, err
}

// readPage parses the page at path, or stdin for "-".
func readPage(cmd *cobra.Command, path string) (*dom.Document, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return dom.Parse(r)
}
