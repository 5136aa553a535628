package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davisday9394/Paiste/internal/content"
	"github.com/davisday9394/Paiste/internal/message"
)

func newPasteCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "paste [index|id]",
		Short: "Put a history entry back on the clipboard (like pbpaste)",
		Long: `Puts a history entry back on the system clipboard. With no
argument the newest entry is used; an integer selects by position as
shown by "paiste list"; anything else is treated as an entry id.

  paiste paste             restore the newest entry
  paiste paste 2           restore the third entry
  paiste paste --stdout    also print the entry to stdout

Image entries print raw bytes with --stdout; redirect them:

  paiste paste 3 --stdout > screenshot.png`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, args []string) error { return runPaste(v, args) },
	}

	f := cmd.Flags()
	f.Bool("stdout", false, "also write the entry's content to stdout")
	addConfigFlag(cmd)

	return cmd
}

func runPaste(v *viper.Viper, args []string) error {
	req := &message.Message{Type: message.TypePaste}
	if len(args) == 1 {
		applySelector(req, args[0])
	}

	resp, err := roundTrip(req)
	if err != nil {
		return err
	}
	entry, err := oneEntry(resp)
	if err != nil {
		return err
	}

	if !v.GetBool("stdout") {
		return nil
	}
	c, err := entry.Content()
	if err != nil {
		return fmt.Errorf("decode entry: %w", err)
	}
	switch c := c.(type) {
	case content.Text:
		_, err = fmt.Print(string(c))
	case content.Image:
		_, err = os.Stdout.Write(c.Bytes())
	case content.File:
		_, err = fmt.Println(c.Path())
	}
	return err
}
