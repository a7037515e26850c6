// Command attendancectl issues tokens and exports the attendance sheet from a shell.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/cmlabs-hris/sheet-attendance/internal/config"
	"github.com/cmlabs-hris/sheet-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/sheet-attendance/internal/domain/report"
	"github.com/cmlabs-hris/sheet-attendance/internal/domain/user"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/gviz"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/sheet-attendance/internal/repository/sheets"
	attendanceService "github.com/cmlabs-hris/sheet-attendance/internal/service/attendance"
	reportService "github.com/cmlabs-hris/sheet-attendance/internal/service/report"
)

var (
	tokenName string
	tokenRole string

	exportName   string
	exportStatus string
	exportMonth  string
	exportFormat string
	outputPath   string

	pretty bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "attendancectl",
		Short:        "Operate the sheet-backed attendance service",
		SilenceUsage: true,
	}

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Print an access token for a sales person",
		Args:  cobra.NoArgs,
		RunE:  runToken,
	}
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "Sales person name as written in the sheet")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(user.RoleUser), "Role: user or admin")
	_ = tokenCmd.MarkFlagRequired("name")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Download the attendance history as a spreadsheet",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	exportCmd.Flags().StringVar(&exportName, "name", "", "Filter by sales person name (substring, case-insensitive)")
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "Filter by status: IN, OUT or Leave")
	exportCmd.Flags().StringVar(&exportMonth, "month", "", `Filter by month label, e.g. "December 2024"`)
	exportCmd.Flags().StringVar(&exportFormat, "format", report.FormatXLS, "Output format: xls or xlsx")
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: Attendance_History_<date>.<format>)")

	optionsCmd := &cobra.Command{
		Use:   "options",
		Short: "Print the name and month filter options of the current sheet",
		Args:  cobra.NoArgs,
		RunE:  runOptions,
	}
	optionsCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	rootCmd.AddCommand(tokenCmd, exportCmd, optionsCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	role := user.Role(tokenRole)
	if role != user.RoleUser && role != user.RoleAdmin {
		return fmt.Errorf("invalid role: %s (must be user or admin)", tokenRole)
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).GenerateAccessToken(tokenName, role)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	req := report.ExportRequest{Format: exportFormat}
	if err := req.Validate(); err != nil {
		return err
	}

	filters := attendance.FilterState{Name: exportName, Status: exportStatus, Month: exportMonth}
	update := attendance.FilterUpdate{Status: &filters.Status}
	if err := update.Validate(); err != nil {
		return err
	}

	records, err := loadRecords(cmd.Context())
	if err != nil {
		return err
	}

	file, err := reportService.Render(reportService.Apply(records, filters), req.Format, time.Now())
	if err != nil {
		return err
	}

	path := outputPath
	if path == "" {
		path = file.FileName
	}
	if err := os.WriteFile(path, file.Content, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func runOptions(cmd *cobra.Command, args []string) error {
	records, err := loadRecords(cmd.Context())
	if err != nil {
		return err
	}

	options := report.FilterOptions{
		Names:    reportService.NameOptions(records),
		Months:   reportService.MonthOptions(records),
		Statuses: []string{attendance.StatusIn, attendance.StatusOut, attendance.StatusLeave},
	}

	var data []byte
	if pretty {
		data, err = json.MarshalIndent(options, "", "  ")
	} else {
		data, err = json.Marshal(options)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// loadRecords reads the whole sheet as an admin would see it, newest first.
func loadRecords(ctx context.Context) ([]attendance.Record, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	client := gviz.NewClient(cfg.Sheet.QueryBaseURL, cfg.Sheet.SpreadsheetID, cfg.Sheet.UserAgent, cfg.Sheet.HTTPTimeout)
	repo := sheets.NewAttendanceRepository(client, cfg.Sheet.Name, cfg.Sheet.ScriptURL, cfg.Sheet.UserAgent, cfg.Sheet.HTTPTimeout)

	rows, err := repo.FetchRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sheet: %w", err)
	}

	return attendanceService.SortNewestFirst(attendanceService.Normalize(rows, loc)), nil
}
