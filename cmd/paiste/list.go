package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davisday9394/Paiste/internal/message"
)

func newListCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the clipboard history",
		Long: `Lists the history, newest first. The index column is the selector
the other verbs take:

  paiste list -q token        substring match on text and paths
  paiste list -q tkn --fuzzy  fuzzy match, best first
  paiste list --kind image    one content kind only
  paiste list -n 5            newest five`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runList(v) },
	}

	f := cmd.Flags()
	f.String("kind", "", "filter by content kind: text|image|file")
	f.StringP("query", "q", "", "filter by case-insensitive substring")
	f.Bool("fuzzy", false, "fuzzy-match --query instead of substring match")
	f.IntP("limit", "n", 0, "show at most this many entries (0 = all)")
	f.Bool("json", false, "output raw JSON")
	addConfigFlag(cmd)

	return cmd
}

func runList(v *viper.Viper) error {
	resp, err := roundTrip(&message.Message{
		Type:  message.TypeList,
		Kind:  v.GetString("kind"),
		Query: v.GetString("query"),
		Fuzzy: v.GetBool("fuzzy"),
		Limit: v.GetInt("limit"),
	})
	if err != nil {
		return err
	}
	if resp.Type != message.TypeEntries {
		return fmt.Errorf("unexpected reply %q", resp.Type)
	}

	if v.GetBool("json") {
		enc, err := json.MarshalIndent(resp.Entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(enc))
		return nil
	}

	if len(resp.Entries) == 0 {
		fmt.Println("History is empty.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "#\tKIND\tAGE\tPREVIEW\n")
	_, _ = fmt.Fprintf(tw, "-\t----\t---\t-------\n")
	for _, e := range resp.Entries {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.Index, e.Kind, fmtAge(e.CreatedAt), e.Preview)
	}
	return tw.Flush()
}
