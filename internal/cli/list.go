package cli

import (
	"strconv"

	"github.com/ksyq12/makesite/internal/output"
	"github.com/ksyq12/makesite/internal/site"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List sites in sites-available",
	Long: `List every site config in sites-available together with the state of
its link, web root, log directory and TLS listener.

Examples:
  makesite list
  makesite list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p := newProvisioner(cfg)
	names, err := p.List()
	if err != nil {
		return err
	}

	statuses := make([]*site.Status, 0, len(names))
	for _, name := range names {
		st, err := p.Inspect(name)
		if err != nil {
			return err
		}
		statuses = append(statuses, st)
	}

	if jsonOutput {
		return output.JSON(statuses)
	}

	if len(statuses) == 0 {
		output.Info("No sites in %s", cfg.Paths.Available)
		return nil
	}

	headers := []string{"NAME", "ENABLED", "TLS", "WEB ROOT", "LOG DIR", "BACKUPS"}
	rows := make([][]string, 0, len(statuses))
	for _, st := range statuses {
		rows = append(rows, []string{
			st.Name,
			yesNo(st.Enabled),
			yesNo(st.TLS),
			yesNo(st.WebRoot),
			yesNo(st.LogDir),
			strconv.Itoa(st.BackupBlocks),
		})
	}
	output.Table(headers, rows)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
