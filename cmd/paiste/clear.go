package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davisday9394/Paiste/internal/message"
)

func newClearCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "clear",
		Short:   "Delete the entire history",
		Long:    `Deletes every history entry. Asks for confirmation unless --yes is given.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(_ *cobra.Command, _ []string) error {
			if !v.GetBool("yes") && !confirm("Delete the entire clipboard history?") {
				fmt.Println("Aborted.")
				return nil
			}
			if _, err := roundTrip(&message.Message{Type: message.TypeClear}); err != nil {
				return err
			}
			fmt.Println("History cleared.")
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	addConfigFlag(cmd)

	return cmd
}

// confirm prompts on stdout and reads one line from stdin. Anything but an
// explicit yes declines.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
