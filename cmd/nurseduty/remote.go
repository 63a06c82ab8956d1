package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cuemby/nurseduty/pkg/export"
	"github.com/cuemby/nurseduty/pkg/types"
	"github.com/spf13/cobra"
)

// Nurse commands
var nursesCmd = &cobra.Command{
	Use:   "nurses",
	Short: "Inspect and update nurses on a running server",
}

var nursesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List nurses",
	RunE: func(cmd *cobra.Command, args []string) error {
		roster, err := newClient(cmd).GetRoster()
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(roster)
		}

		w := newTable()
		fmt.Fprintln(w, header("ID\tNAME\tROLE\tGROUP\tSTATE"))
		for _, n := range roster.Nurses {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				stringField(n["id"]), stringField(n["name"]), stringField(n["role"]), n.Group(), activeLabel(n.Active()))
		}
		return w.Flush()
	},
}

var nursesUpdateCmd = &cobra.Command{
	Use:   "update ID --group N",
	Short: "Set a nurse's group and active flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid nurse id %q", args[0])
		}
		group, _ := cmd.Flags().GetInt("group")

		var active *bool
		if cmd.Flags().Changed("active") {
			v, _ := cmd.Flags().GetBool("active")
			active = &v
		}

		msg, err := newClient(cmd).UpdateNurse(id, group, active)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", success("✓"), msg)
		return nil
	},
}

var nursesResetCmd = &cobra.Command{
	Use:   "reset-groups",
	Short: "Set every nurse's group to 0",
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := newClient(cmd).ResetGroups()
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", success("✓"), msg)
		return nil
	},
}

func init() {
	nursesCmd.AddCommand(nursesListCmd)
	nursesCmd.AddCommand(nursesUpdateCmd)
	nursesCmd.AddCommand(nursesResetCmd)

	nursesListCmd.Flags().Bool("json", false, "Print the raw roster")
	nursesUpdateCmd.Flags().Int("group", 0, "Group number (required)")
	nursesUpdateCmd.Flags().Bool("active", true, "Whether the nurse is on duty")
	_ = nursesUpdateCmd.MarkFlagRequired("group")
}

// Formula commands
var formulasCmd = &cobra.Command{
	Use:   "formulas",
	Short: "Inspect formula schedules on a running server",
}

var formulasGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print all formula schedules as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		schedules, err := newClient(cmd).GetFormulas()
		if err != nil {
			return err
		}
		return printJSON(schedules)
	},
}

func init() {
	formulasCmd.AddCommand(formulasGetCmd)
}

// Settings commands
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read and write scheduling settings on a running server",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the group counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := newClient(cmd).GetSettings()
		if err != nil {
			return err
		}

		w := newTable()
		fmt.Fprintf(w, "Regular groups:\t%d\n", settings.RegularGroupCount)
		fmt.Fprintf(w, "POR groups:\t%d\n", settings.PORGroupCount)
		fmt.Fprintf(w, "Leader groups:\t%d\n", settings.LeaderGroupCount)
		fmt.Fprintf(w, "Secretary groups:\t%d\n", settings.SecretaryGroupCount)
		return w.Flush()
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace the group counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		var settings types.Settings
		settings.RegularGroupCount, _ = cmd.Flags().GetInt("regular")
		settings.PORGroupCount, _ = cmd.Flags().GetInt("por")
		settings.LeaderGroupCount, _ = cmd.Flags().GetInt("leader")
		settings.SecretaryGroupCount, _ = cmd.Flags().GetInt("secretary")

		msg, err := newClient(cmd).SaveSettings(settings)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", success("✓"), msg)
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)

	for _, name := range []string{"regular", "por", "leader", "secretary"} {
		settingsSetCmd.Flags().Int(name, 0, "Number of "+name+" groups")
		_ = settingsSetCmd.MarkFlagRequired(name)
	}
}

// Schedule commands
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Read published monthly schedules from a running server",
}

var scheduleGetCmd = &cobra.Command{
	Use:   "get YEAR MONTH",
	Short: "Show a month's schedule",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, month, err := parseYearMonth(args)
		if err != nil {
			return err
		}
		schedule, err := newClient(cmd).GetMonthlySchedule(year, month)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(schedule)
		}

		fmt.Println(header(export.SheetName(year, month)))
		w := newTable()
		fmt.Fprintln(w, header("NAME\tROLE\tGROUP\tSHIFTS\tVACATION\tLEAVE"))
		for _, item := range schedule.Schedule {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%d\n",
				item.Name, item.Role, item.Group, strings.Join(item.Shifts, " "), item.VacationDays, item.AccumulatedLeave)
		}
		return w.Flush()
	},
}

var scheduleExportCmd = &cobra.Command{
	Use:   "export YEAR MONTH",
	Short: "Download a month's schedule as an xlsx workbook",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, month, err := parseYearMonth(args)
		if err != nil {
			return err
		}
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = export.FileName(year, month)
		}

		data, err := newClient(cmd).ExportMonthlySchedule(year, month)
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		fmt.Printf("%s Wrote %s (%d bytes)\n", success("✓"), output, len(data))
		return nil
	},
}

func init() {
	scheduleCmd.AddCommand(scheduleGetCmd)
	scheduleCmd.AddCommand(scheduleExportCmd)

	scheduleGetCmd.Flags().Bool("json", false, "Print the raw schedule")
	scheduleExportCmd.Flags().StringP("output", "o", "", "Output file (default schedule-YYYY-MM.xlsx)")
}

func parseYearMonth(args []string) (int, int, error) {
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year %q", args[0])
	}
	month, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q", args[1])
	}
	return year, month, nil
}
