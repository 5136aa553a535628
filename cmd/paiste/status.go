package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davisday9394/Paiste/internal/ipc"
	"github.com/davisday9394/Paiste/internal/message"
)

func newStatusCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show whether the daemon is running and what it holds",
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runStatus(v) },
	}

	f := cmd.Flags()
	f.Bool("json", false, "output raw JSON")
	addConfigFlag(cmd)

	return cmd
}

func runStatus(v *viper.Viper) error {
	resp, err := roundTrip(&message.Message{Type: message.TypeStatus})
	if errors.Is(err, errNotRunning) {
		// An absent daemon is a state, not a failure.
		fmt.Println("paiste daemon is not running.")
		return nil
	}
	if err != nil {
		return err
	}
	if resp.Type != message.TypeStatusResponse || resp.Status == nil {
		return fmt.Errorf("unexpected reply %q", resp.Type)
	}
	st := resp.Status

	if v.GetBool("json") {
		enc, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(enc))
		return nil
	}

	sealed := "no"
	if st.Sealed {
		sealed = "yes"
	}

	w := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
	fmt.Fprintf(w, "PID:\t%d\n", st.PID)
	fmt.Fprintf(w, "Version:\t%s\n", st.Version)
	fmt.Fprintf(w, "Started:\t%s (%s)\n", st.StartedAt.Format(time.RFC3339), fmtAge(st.StartedAt))
	fmt.Fprintf(w, "Backend:\t%s\n", st.Backend)
	fmt.Fprintf(w, "Entries:\t%d of %d\n", st.Entries, st.Capacity)
	fmt.Fprintf(w, "History:\t%s\n", st.HistoryPath)
	fmt.Fprintf(w, "Sealed:\t%s\n", sealed)
	fmt.Fprintf(w, "Socket:\t%s\n", ipc.SocketPath())
	fmt.Fprintf(w, "Lock:\t%s\n", st.LockPath)
	return w.Flush()
}
