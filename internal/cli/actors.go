package cli

import (
	"fmt"

	"github.com/bndr/gotabulate"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(actorsCmd)
}

var actorsCmd = &cobra.Command{
	Use:   "actors",
	Short: "List the actors visible to your API token",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := terminalSource()
		if err != nil {
			return err
		}
		actors, err := src.ListActors(cmd.Context())
		if err != nil {
			return err
		}
		if len(actors) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No actors are linked to this API token.")
			return nil
		}

		rows := make([][]string, 0, len(actors))
		for _, actor := range actors {
			title := actor.Title
			if title == "" {
				title = actor.Name
			}
			rows = append(rows, []string{
				title,
				actor.Username + "/" + actor.Name,
				actor.ID,
				actor.CreatedAt,
			})
		}

		t := gotabulate.Create(rows)
		t.SetHeaders([]string{"Title", "Actor", "ID", "Created"})
		t.SetAlign("left")
		t.SetWrapStrings(true)
		t.SetMaxCellSize(60)
		fmt.Fprintln(cmd.OutOrStdout(), t.Render("grid"))
		return nil
	},
}
