package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/innocentmk82/efecosall-sub001/internal/domain"
)

type statusView struct {
	ProfileID       string   `json:"profileId"`
	MonthlyUsage    string   `json:"monthlyUsage"`
	Limit           string   `json:"limit"`
	UsagePercentage string   `json:"usagePercentage"`
	RemainingBudget string   `json:"remainingBudget"`
	IsOverBudget    bool     `json:"isOverBudget"`
	Alerts          []string `json:"alerts"`
}

func newStatusView(id domain.ProfileID, st domain.BudgetStatus) statusView {
	alerts := st.Alerts
	if alerts == nil {
		alerts = []string{}
	}
	return statusView{
		ProfileID:       string(id),
		MonthlyUsage:    st.MonthlyUsage.StringFixed(2),
		Limit:           st.Limit.StringFixed(2),
		UsagePercentage: st.UsagePercentage.StringFixed(2),
		RemainingBudget: st.RemainingBudget.StringFixed(2),
		IsOverBudget:    st.IsOverBudget,
		Alerts:          alerts,
	}
}

func newSeedCommand(env *runtimeEnv) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a YAML fixture set into the configured stores",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := env.seedFile(cmd.Context(), file)
			if err != nil {
				return err
			}
			if env.json {
				return env.printJSON(res)
			}
			fmt.Fprintf(env.out, "seeded %d profiles, %d groups, %d trips (%d skipped)\n", res.Profiles, res.Groups, res.Trips, res.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Fixture file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newUsageCommand(env *runtimeEnv) *cobra.Command {
	var profile, asOf string
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Print a profile's fuel spend for the month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			at, err := env.asOf(asOf)
			if err != nil {
				return err
			}
			usage, err := env.svcs.Budget.GetMonthlyUsage(cmd.Context(), domain.ProfileID(profile), at)
			if err != nil {
				return err
			}
			if env.json {
				return env.printJSON(map[string]string{"profileId": profile, "monthlyUsage": usage.StringFixed(2)})
			}
			fmt.Fprintln(env.out, usage.StringFixed(2))
			return nil
		},
	}
	profileFlag(cmd, &profile)
	cmd.Flags().StringVar(&asOf, "as-of", "", "Date inside the month to report (YYYY-MM-DD)")
	return cmd
}

func newStatusCommand(env *runtimeEnv) *cobra.Command {
	var profile, asOf string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print a profile's budget status for the month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			at, err := env.asOf(asOf)
			if err != nil {
				return err
			}
			id := domain.ProfileID(profile)
			st, err := env.svcs.Budget.GetBudgetStatus(cmd.Context(), id, at)
			if err != nil {
				return err
			}
			v := newStatusView(id, st)
			if env.json {
				return env.printJSON(v)
			}
			tw := tabwriter.NewWriter(env.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "usage\t%s\n", v.MonthlyUsage)
			fmt.Fprintf(tw, "limit\t%s\n", v.Limit)
			fmt.Fprintf(tw, "used\t%s%%\n", v.UsagePercentage)
			fmt.Fprintf(tw, "remaining\t%s\n", v.RemainingBudget)
			fmt.Fprintf(tw, "over budget\t%t\n", v.IsOverBudget)
			for _, a := range v.Alerts {
				fmt.Fprintf(tw, "alert\t%s\n", a)
			}
			return tw.Flush()
		},
	}
	profileFlag(cmd, &profile)
	cmd.Flags().StringVar(&asOf, "as-of", "", "Date inside the month to report (YYYY-MM-DD)")
	return cmd
}

func newAlertsCommand(env *runtimeEnv) *cobra.Command {
	var profile string
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Print the current month's budget alerts for a profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			alerts, err := env.svcs.Budget.GetBudgetAlerts(cmd.Context(), domain.ProfileID(profile))
			if err != nil {
				return err
			}
			if env.json {
				if alerts == nil {
					alerts = []string{}
				}
				return env.printJSON(map[string]any{"profileId": profile, "alerts": alerts})
			}
			if len(alerts) == 0 {
				fmt.Fprintln(env.out, "no alerts")
				return nil
			}
			for _, a := range alerts {
				fmt.Fprintln(env.out, a)
			}
			return nil
		},
	}
	profileFlag(cmd, &profile)
	return cmd
}

func newCheckCommand(env *runtimeEnv) *cobra.Command {
	var profile, cost string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Classify a prospective expense as allow, warn or block",
		RunE: func(cmd *cobra.Command, _ []string) error {
			est, err := decimal.NewFromString(cost)
			if err != nil {
				return fmt.Errorf("--cost must be a decimal amount: %w", err)
			}
			d, err := env.svcs.Budget.CheckBudgetBeforeAction(cmd.Context(), domain.ProfileID(profile), est)
			if err != nil {
				return err
			}
			out := map[string]string{
				"decision": string(d.Kind),
				"newTotal": d.NewTotal.StringFixed(2),
			}
			line := fmt.Sprintf("%s: new total %s", d.Kind, d.NewTotal.StringFixed(2))
			switch d.Kind {
			case domain.DecisionWarn:
				out["percentage"] = d.Percentage.StringFixed(2)
				line += fmt.Sprintf(" (%s%% of limit)", d.Percentage.StringFixed(2))
			case domain.DecisionBlock:
				out["overage"] = d.Overage.StringFixed(2)
				line += fmt.Sprintf(" (over by %s)", d.Overage.StringFixed(2))
			}
			if env.json {
				return env.printJSON(out)
			}
			fmt.Fprintln(env.out, line)
			return nil
		},
	}
	profileFlag(cmd, &profile)
	cmd.Flags().StringVar(&cost, "cost", "", "Estimated cost of the expense")
	_ = cmd.MarkFlagRequired("cost")
	return cmd
}

func newOverviewCommand(env *runtimeEnv) *cobra.Command {
	var group, owner, asOf string
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Print a business group's month: group total and per-driver status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			at, err := env.asOf(asOf)
			if err != nil {
				return err
			}
			o, err := env.svcs.Budget.GetGroupOverview(cmd.Context(), domain.ProfileID(owner), domain.GroupID(group), at)
			if err != nil {
				return err
			}
			drivers := make([]statusView, 0, len(o.Drivers))
			for _, d := range o.Drivers {
				drivers = append(drivers, newStatusView(d.Driver.ID, d.Status))
			}
			if env.json {
				return env.printJSON(map[string]any{
					"groupId":    string(o.Group.ID),
					"groupName":  o.Group.Name,
					"month":      o.Window.Start.Format("2006-01"),
					"groupUsage": o.GroupUsage.StringFixed(2),
					"drivers":    drivers,
				})
			}
			fmt.Fprintf(env.out, "%s %s total %s\n", o.Group.Name, o.Window.Start.Format("2006-01"), o.GroupUsage.StringFixed(2))
			tw := tabwriter.NewWriter(env.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DRIVER\tNAME\tUSAGE\tLIMIT\tUSED%\tOVER")
			for i, d := range o.Drivers {
				v := drivers[i]
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\n", d.Driver.ID, d.Driver.DisplayName, v.MonthlyUsage, v.Limit, v.UsagePercentage, v.IsOverBudget)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "Business group id")
	cmd.Flags().StringVar(&owner, "owner", "", "Profile id of the group owner")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Date inside the month to report (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("group")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func profileFlag(cmd *cobra.Command, dst *string) {
	cmd.Flags().StringVar(dst, "profile", "", "Profile id")
	_ = cmd.MarkFlagRequired("profile")
}
