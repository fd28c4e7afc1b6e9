// Package app implements the robotctl command tree.
package app

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/devghori1264/aerophoenix/robot-service/internal/client"
	"github.com/devghori1264/aerophoenix/robot-service/internal/models"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

type globalOptions struct {
	server  string
	timeout time.Duration
	output  string
	verbose bool
}

// NewRootCommand builds robotctl. All command output goes to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	g := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "robotctl",
		Short:         "Command line client for the robot registry",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if g.output != outputTable && g.output != outputJSON {
				return fmt.Errorf("--output must be %q or %q", outputTable, outputJSON)
			}
			return nil
		},
	}
	cmd.SetOut(out)

	fs := cmd.PersistentFlags()
	fs.StringVarP(&g.server, "server", "s", "http://localhost:8000", "Base URL of the robotd HTTP API.")
	fs.DurationVar(&g.timeout, "timeout", 10*time.Second, "Request timeout.")
	fs.StringVarP(&g.output, "output", "o", outputTable, "Output format: table or json.")
	fs.BoolVarP(&g.verbose, "verbose", "v", false, "Log API calls to stderr.")

	cmd.AddCommand(
		newListCommand(g),
		newGetCommand(g),
		newAddCommand(g),
		newUpdateCommand(g),
		newExportCommand(g),
	)
	return cmd
}

func (g *globalOptions) client() *client.Client {
	logger := zap.NewNop()
	if g.verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}
	return client.New(g.server, g.timeout, logger)
}

func (g *globalOptions) printRobot(out io.Writer, r models.Robot) error {
	if g.output == outputJSON {
		return printJSON(out, r)
	}
	return printTable(out, []models.Robot{r})
}

func (g *globalOptions) printRobots(out io.Writer, robots []models.Robot) error {
	if g.output == outputJSON {
		if robots == nil {
			robots = []models.Robot{}
		}
		return printJSON(out, robots)
	}
	return printTable(out, robots)
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTable(out io.Writer, robots []models.Robot) error {
	table := uitable.New()
	table.MaxColWidth = 50
	table.AddRow("ID", "NAME", "TYPE", "STATUS")
	for _, r := range robots {
		table.AddRow(r.ID, r.Name, r.Type, r.Status)
	}
	_, err := fmt.Fprintln(out, table)
	return err
}
