package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davisday9394/Paiste/internal/message"
)

func newPromoteCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "promote <index|id>",
		Short: "Move a history entry to the top",
		Long: `Moves an entry to the top of the history without touching the
system clipboard. The entry keeps its original timestamp.`,
		Args:    cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(_ *cobra.Command, args []string) error {
			req := applySelector(&message.Message{Type: message.TypePromote}, args[0])
			_, err := roundTrip(req)
			return err
		},
	}
	addConfigFlag(cmd)

	return cmd
}
