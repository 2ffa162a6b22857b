// AngelaMos | 2026
// cmd_stats.go

package main

import (
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/agrourbano/farmdash/internal/alert"
	"github.com/agrourbano/farmdash/internal/dashboard"
)

func newStatsCmd(env *rootEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the dashboard summary and sensor status as tables.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			db, err := env.database(ctx)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck // process exits next

			svc := dashboard.NewService(
				dashboard.NewRepository(db.DB),
				alert.NewService(alert.NewRepository(db.DB)),
			)

			sum, err := svc.Summary(ctx)
			if err != nil {
				return err
			}
			byType, err := svc.SensorStatus(ctx)
			if err != nil {
				return err
			}

			renderSummary(cmd.OutOrStdout(), sum)
			renderSensorStatus(cmd.OutOrStdout(), byType)
			return nil
		},
	}
}

func renderSummary(w io.Writer, sum *dashboard.Summary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Total"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	rows := []struct {
		label string
		value int
	}{
		{"Usuarios", sum.TotalUsers},
		{"Parcelas", sum.TotalPlots},
		{"Sensores", sum.TotalSensors},
		{"Sensores activos", sum.ActiveSensors},
		{"Alertas", sum.TotalAlerts},
		{"Alertas pendientes", sum.PendingAlerts},
		{"Alertas criticas", sum.CriticalAlerts},
	}
	for _, row := range rows {
		table.Append([]string{row.label, strconv.Itoa(row.value)})
	}

	table.Render()
}

func renderSensorStatus(w io.Writer, byType map[string]dashboard.TypeStatus) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Tipo", "Total", "Activo", "Inactivo", "Mantenimiento"})

	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)

	for _, t := range types {
		s := byType[t]
		table.Append([]string{
			t,
			strconv.Itoa(s.Total),
			strconv.Itoa(s.Active),
			strconv.Itoa(s.Inactive),
			strconv.Itoa(s.Maintenance),
		})
	}

	table.Render()
}
