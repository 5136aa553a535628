package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davisday9394/Paiste/internal/content"
	"github.com/davisday9394/Paiste/internal/message"
)

func newCopyCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "copy [text...]",
		Short: "Add an entry to the history (like pbcopy)",
		Long: `Adds an entry to the history and puts it on the system clipboard.

With arguments, the arguments joined by spaces become a text entry.
Without arguments, stdin is read as text:

  echo "hello" | paiste copy
  paiste copy "hello there"
  paiste copy --image screenshot.png
  paiste copy --file ~/notes/todo.md`,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, args []string) error { return runCopy(v, args) },
	}

	f := cmd.Flags()
	f.String("image", "", "copy the named file's bytes as an image entry")
	f.String("file", "", "copy a reference to the named file (the path, not the bytes)")
	addConfigFlag(cmd)

	return cmd
}

func runCopy(v *viper.Viper, args []string) error {
	c, err := gatherContent(v, args)
	if err != nil {
		return err
	}
	if c == nil || c.Empty() {
		// pbcopy of nothing is a no-op, not an error.
		return nil
	}

	p := content.Encode(c)
	_, err = roundTrip(&message.Message{Type: message.TypeCopy, Payload: &p})
	return err
}

func gatherContent(v *viper.Viper, args []string) (content.Content, error) {
	imagePath := v.GetString("image")
	filePath := v.GetString("file")
	if imagePath != "" && filePath != "" {
		return nil, fmt.Errorf("--image and --file are mutually exclusive")
	}

	switch {
	case imagePath != "":
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		return content.NewImage(data), nil
	case filePath != "":
		return content.NewFile(filePath), nil
	case len(args) > 0:
		return content.NewText(strings.Join(args, " ")), nil
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return content.NewText(string(data)), nil
	}
}
