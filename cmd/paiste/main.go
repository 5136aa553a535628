// paiste: clipboard history in the background.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "paiste",
		Short: "Clipboard history in the background",
		Long: `paiste watches the system clipboard and keeps a deduplicated,
bounded history of everything you copy, persisted across restarts.

Run "paiste daemon" once (it refuses to run twice). The other verbs talk
to the running daemon over a local socket:

  paiste list            show the history
  paiste paste 2         put the third entry back on the clipboard
  paiste copy "text"     add an entry by hand
  paiste watch           stream history changes as they happen

Config file search order (first found wins):
  /etc/paiste/paiste.toml
  $HOME/.config/paiste/paiste.toml
  path supplied via --config

All flags can be set via PAISTE_<FLAG> env vars or config-file keys.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newDaemonCmd(),
		newListCmd(),
		newCopyCmd(),
		newPasteCmd(),
		newPromoteCmd(),
		newRemoveCmd(),
		newClearCmd(),
		newStatusCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("paiste %s\n", Version)
		},
	}
}
