package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davisday9394/Paiste/internal/ipc"
	"github.com/davisday9394/Paiste/internal/message"
	"github.com/davisday9394/Paiste/internal/wire"
)

func newWatchCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream history changes as they happen",
		Long: `Subscribes to the daemon and prints one line per history change
until interrupted. Useful for shell integrations and for watching a
busy clipboard:

  paiste watch
  paiste watch --json | jq .op`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runWatch(v) },
	}

	f := cmd.Flags()
	f.Bool("json", false, "output one JSON object per line")
	addConfigFlag(cmd)

	return cmd
}

func runWatch(v *viper.Viper) error {
	if !ipc.IsRunning() {
		return errNotRunning
	}
	conn, err := ipc.Dial()
	if err != nil {
		return fmt.Errorf("dial daemon: %w", err)
	}
	defer conn.Close()

	wc := wire.New(conn)
	if err := wc.WriteMsg(&message.Message{Type: message.TypeWatch}); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	jsonOut := v.GetBool("json")
	for {
		ev, err := wc.ReadMsg()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				fmt.Println("daemon closed the connection.")
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}
		if ev.Type != message.TypeEvent {
			continue
		}

		if jsonOut {
			enc, err := json.Marshal(ev)
			if err != nil {
				return err
			}
			fmt.Println(string(enc))
			continue
		}
		printEvent(ev)
	}
}

func printEvent(ev *message.Message) {
	if ev.Entry == nil {
		fmt.Println(ev.Op)
		return
	}
	fmt.Printf("%-7s %-5s %s\n", ev.Op, ev.Entry.Kind, ev.Entry.Preview)
}
