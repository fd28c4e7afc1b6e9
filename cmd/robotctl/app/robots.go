package app

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/devghori1264/aerophoenix/robot-service/internal/models"
)

func newListCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all robots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			robots, err := g.client().ListRobots(cmd.Context())
			if err != nil {
				return err
			}
			return g.printRobots(cmd.OutOrStdout(), robots)
		},
	}
}

func newGetCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one robot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.client().GetRobot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return g.printRobot(cmd.OutOrStdout(), r)
		},
	}
}

func newAddCommand(g *globalOptions) *cobra.Command {
	var in models.RobotCreate

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a robot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := g.client().CreateRobot(cmd.Context(), in)
			if err != nil {
				return err
			}
			return g.printRobot(cmd.OutOrStdout(), r)
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "Robot name.")
	cmd.Flags().StringVar(&in.Type, "type", "", "Robot type.")
	cmd.Flags().StringVar(&in.Status, "status", "", "Initial status (server default: idle).")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newUpdateCommand(g *globalOptions) *cobra.Command {
	var name, typ, status string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change some fields of a robot",
		Long:  "Change some fields of a robot. Only the flags given on the command line are sent.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p models.RobotPatch
			if cmd.Flags().Changed("name") {
				p.Name = &name
			}
			if cmd.Flags().Changed("type") {
				p.Type = &typ
			}
			if cmd.Flags().Changed("status") {
				p.Status = &status
			}
			if p.Empty() {
				return errors.New("nothing to update: set at least one of --name, --type, --status")
			}

			r, err := g.client().PatchRobot(cmd.Context(), args[0], p)
			if err != nil {
				return err
			}
			return g.printRobot(cmd.OutOrStdout(), r)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name.")
	cmd.Flags().StringVar(&typ, "type", "", "New type.")
	cmd.Flags().StringVar(&status, "status", "", "New status.")

	return cmd
}
