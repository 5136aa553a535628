package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davisday9394/Paiste/internal/message"
)

func newRemoveCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "remove <index|id>",
		Aliases: []string{"rm"},
		Short:   "Delete a history entry",
		Args:    cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(_ *cobra.Command, args []string) error {
			req := applySelector(&message.Message{Type: message.TypeRemove}, args[0])
			_, err := roundTrip(req)
			return err
		},
	}
	addConfigFlag(cmd)

	return cmd
}
