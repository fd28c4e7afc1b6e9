package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/devghori1264/aerophoenix/robot-service/internal/models"
)

const exportSheet = "Robots"

var exportHeader = []string{"ID", "Name", "Type", "Status"}

func newExportCommand(g *globalOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all robots to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			robots, err := g.client().ListRobots(cmd.Context())
			if err != nil {
				return err
			}
			if err := writeWorkbook(path, robots); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "exported %d robots to %s\n", len(robots), path)
			return err
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "robots.xlsx", "Output .xlsx path.")

	return cmd
}

// writeWorkbook saves robots as one sheet with a bold header row.
func writeWorkbook(path string, robots []models.Robot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "A1", "D1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(exportSheet, "A", "A", 40); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(exportSheet, "B", "D", 20); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	for i, r := range robots {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		row := []any{r.ID, r.Name, r.Type, r.Status}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %s: %w", cell, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
