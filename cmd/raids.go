package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/lapinstance/pkg/lapinstance"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// raidFields are the editable fields of a raid, as given on the command line.
type raidFields struct {
	RaidType string
	Date     string
	Comment  string
	RaidLog  string
}

func (f *raidFields) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.RaidType, "type", "t", "", "Raid type ("+strings.Join(lo.Map(lapinstance.RaidTypes(), func(t lapinstance.RaidType, _ int) string { return string(t) }), ", ")+")")
	cmd.Flags().StringVarP(&f.Date, "date", "d", "", "Raid start, e.g. 2024-03-20 19:30 (local time) or RFC3339")
	cmd.Flags().StringVar(&f.Comment, "comment", "", "Free text comment")
	cmd.Flags().StringVar(&f.RaidLog, "log", "", "Link to the raid log")
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD [HH:MM] or RFC3339", s)
}

// applyRaidFields overlays the fields reported as changed onto raid.
// The id of raid is kept as is, server computed fields are dropped.
func applyRaidFields(raid lapinstance.Raid, f raidFields, changed func(name string) bool, loc *time.Location) (lapinstance.Raid, error) {
	raid.FormattedDate = ""
	if changed("type") {
		rt, err := lapinstance.ParseRaidType(f.RaidType)
		if err != nil {
			return raid, err
		}
		raid.RaidType = rt
	}
	if changed("date") {
		t, err := parseDate(f.Date, loc)
		if err != nil {
			return raid, err
		}
		raid.Date = lapinstance.EpochMillis(t)
	}
	if changed("comment") {
		raid.Comment = f.Comment
	}
	if changed("log") {
		raid.RaidLog = f.RaidLog
	}
	return raid, nil
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		log.Fatalf("invalid id %q", s)
	}
	return id
}

var (
	raidSaveFlags raidFields
	raidEditFlags raidFields

	raidSubscribeFlags struct {
		Response  string
		Character int64
		User      int64
	}
)

var raidsCmd = &cobra.Command{
	Use:   "raids",
	Short: "Manage raids and their subscriptions",
}

var raidsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all raids",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg, client := setup()
		resp, err := client.Raids.FindAll(cmd.Context())
		if err != nil {
			log.Fatalf("failed to list raids: %v", err)
		}
		if err := render(os.Stdout, cfg.Output, resp.Data, func(w io.Writer) error {
			return writeRaids(w, resp.Data)
		}); err != nil {
			log.Fatalf("failed to print raids: %v", err)
		}
	},
}

var raidsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a raid",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, client := setup()
		resp, err := client.Raids.Get(cmd.Context(), parseID(args[0]))
		if err != nil {
			log.Fatalf("failed to get raid: %v", err)
		}
		if err := render(os.Stdout, cfg.Output, resp.Data, func(w io.Writer) error {
			return writeRaid(w, resp.Data)
		}); err != nil {
			log.Fatalf("failed to print raid: %v", err)
		}
	},
}

type raidOverview struct {
	Raid          lapinstance.Raid               `json:"raid"`
	Subscriptions []lapinstance.RaidSubscription `json:"subscriptions"`
	Missing       []lapinstance.User             `json:"missing"`
}

var raidsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a raid with its subscriptions and the users that did not answer yet",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, client := setup()
		id := parseID(args[0])

		var overview raidOverview
		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			resp, err := client.Raids.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get raid: %w", err)
			}
			overview.Raid = resp.Data
			return nil
		})
		g.Go(func() error {
			resp, err := client.Raids.FindSubscriptions(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get subscriptions: %w", err)
			}
			overview.Subscriptions = resp.Data
			return nil
		})
		g.Go(func() error {
			resp, err := client.Raids.FindMissingSubscriptions(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get missing subscriptions: %w", err)
			}
			overview.Missing = resp.Data
			return nil
		})
		if err := g.Wait(); err != nil {
			log.Fatal(err)
		}

		if err := render(os.Stdout, cfg.Output, overview, func(w io.Writer) error {
			return writeRaidOverview(w, overview)
		}); err != nil {
			log.Fatalf("failed to print raid: %v", err)
		}
	},
}

func writeRaidOverview(w io.Writer, o raidOverview) error {
	if err := writeRaid(w, o.Raid); err != nil {
		return err
	}

	responses := lo.CountValuesBy(o.Subscriptions, func(s lapinstance.RaidSubscription) lapinstance.RaidSubscriptionResponse {
		return s.Response
	})
	fmt.Fprintln(w)
	for _, r := range lapinstance.RaidSubscriptionResponses() {
		fmt.Fprintf(w, "%-8s %d\n", r, responses[r])
	}

	roles := lo.CountValues(lo.FilterMap(o.Subscriptions, func(s lapinstance.RaidSubscription, _ int) (lapinstance.CharacterRole, bool) {
		if s.Character == nil || s.Response != lapinstance.RaidSubscriptionResponsePresent {
			return "", false
		}
		return s.Character.Spec.Role(), true
	}))
	if len(roles) > 0 {
		parts := lo.Map(lapinstance.CharacterRoles(), func(r lapinstance.CharacterRole, _ int) string {
			return fmt.Sprintf("%s %d", strings.ToLower(string(r)), roles[r])
		})
		fmt.Fprintf(w, "present roles: %s\n", strings.Join(parts, ", "))
	}

	fmt.Fprintln(w)
	if err := writeSubscriptions(w, o.Subscriptions); err != nil {
		return err
	}
	if len(o.Missing) > 0 {
		names := lo.Map(o.Missing, func(u lapinstance.User, _ int) string { return u.Name })
		_, err := fmt.Fprintf(w, "\nno answer yet: %s\n", strings.Join(names, ", "))
		return err
	}
	return nil
}

var raidsSaveCmd = &cobra.Command{
	Use:     "save",
	Short:   "Create a raid",
	Example: `lapinstance raids save --type MOLTEN_CORE --date "2024-03-20 19:30" --comment "fire resist"`,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg, client := setup()
		raid, err := applyRaidFields(lapinstance.Raid{}, raidSaveFlags, cmd.Flags().Changed, time.Local)
		if err != nil {
			log.Fatalf("invalid raid: %v", err)
		}
		resp, err := client.Raids.Save(cmd.Context(), raid)
		if err != nil {
			log.Fatalf("failed to save raid: %v", err)
		}
		log.Info("raid saved", "id", resp.Data.ID)
		if err := render(os.Stdout, cfg.Output, resp.Data, func(w io.Writer) error {
			return writeRaid(w, resp.Data)
		}); err != nil {
			log.Fatalf("failed to print raid: %v", err)
		}
	},
}

// raidsEditCmd loads the raid, overlays the given flags and saves it back once.
var raidsEditCmd = &cobra.Command{
	Use:     "edit <id>",
	Short:   "Edit a raid",
	Example: `lapinstance raids edit 12 --comment "moved one hour later" --date "2024-03-20 20:30"`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, client := setup()
		current, err := client.Raids.Get(cmd.Context(), parseID(args[0]))
		if err != nil {
			log.Fatalf("failed to get raid: %v", err)
		}
		raid, err := applyRaidFields(current.Data, raidEditFlags, cmd.Flags().Changed, time.Local)
		if err != nil {
			log.Fatalf("invalid raid: %v", err)
		}
		resp, err := client.Raids.Save(cmd.Context(), raid)
		if err != nil {
			log.Fatalf("failed to save raid: %v", err)
		}
		if err := render(os.Stdout, cfg.Output, resp.Data, func(w io.Writer) error {
			return writeRaid(w, resp.Data)
		}); err != nil {
			log.Fatalf("failed to print raid: %v", err)
		}
	},
}

var raidsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a raid",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, client := setup()
		id := parseID(args[0])
		if err := client.Raids.Delete(cmd.Context(), id); err != nil {
			log.Fatalf("failed to delete raid: %v", err)
		}
		log.Info("raid deleted", "id", id)
	},
}

var raidsMissingCmd = &cobra.Command{
	Use:   "missing <id>",
	Short: "List the users that did not answer a raid",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, client := setup()
		resp, err := client.Raids.FindMissingSubscriptions(cmd.Context(), parseID(args[0]))
		if err != nil {
			log.Fatalf("failed to get missing subscriptions: %v", err)
		}
		if err := render(os.Stdout, cfg.Output, resp.Data, func(w io.Writer) error {
			return writeUsers(w, resp.Data)
		}); err != nil {
			log.Fatalf("failed to print users: %v", err)
		}
	},
}

var raidsNotifyCmd = &cobra.Command{
	Use:   "notify <id>",
	Short: "Remind the users that did not answer a raid",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, client := setup()
		id := parseID(args[0])
		missing, err := client.Raids.FindMissingSubscriptions(cmd.Context(), id)
		if err != nil {
			log.Fatalf("failed to get missing subscriptions: %v", err)
		}
		if err := client.Raids.NotifyMissingSubscriptions(cmd.Context(), id, missing.Data); err != nil {
			log.Fatalf("failed to notify users: %v", err)
		}
		log.Info("reminder sent", "raid", id, "users", len(missing.Data))
	},
}

var raidsSubscriptionsCmd = &cobra.Command{
	Use:   "subscriptions <id>",
	Short: "List the subscriptions of a raid",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, client := setup()
		resp, err := client.Raids.FindSubscriptions(cmd.Context(), parseID(args[0]))
		if err != nil {
			log.Fatalf("failed to get subscriptions: %v", err)
		}
		if err := render(os.Stdout, cfg.Output, resp.Data, func(w io.Writer) error {
			return writeSubscriptions(w, resp.Data)
		}); err != nil {
			log.Fatalf("failed to print subscriptions: %v", err)
		}
	},
}

var raidsSubscribeCmd = &cobra.Command{
	Use:     "subscribe <id>",
	Short:   "Answer a raid",
	Example: `lapinstance raids subscribe 12 --response PRESENT --character 3`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, client := setup()
		response, err := lapinstance.ParseRaidSubscriptionResponse(raidSubscribeFlags.Response)
		if err != nil {
			log.Fatalf("invalid response: %v", err)
		}
		sub := lapinstance.RaidSubscription{
			Response: response,
			User:     lapinstance.User{ID: raidSubscribeFlags.User},
		}
		if raidSubscribeFlags.Character != 0 {
			sub.Character = &lapinstance.UserCharacter{ID: raidSubscribeFlags.Character}
		}
		resp, err := client.Raids.SaveSubscription(cmd.Context(), parseID(args[0]), sub)
		if err != nil {
			log.Fatalf("failed to save subscription: %v", err)
		}
		if err := render(os.Stdout, cfg.Output, resp.Data, func(w io.Writer) error {
			return writeSubscriptions(w, []lapinstance.RaidSubscription{resp.Data})
		}); err != nil {
			log.Fatalf("failed to print subscription: %v", err)
		}
	},
}

func init() {
	raidSaveFlags.register(raidsSaveCmd)
	_ = raidsSaveCmd.MarkFlagRequired("type")
	_ = raidsSaveCmd.MarkFlagRequired("date")
	raidEditFlags.register(raidsEditCmd)

	raidsSubscribeCmd.Flags().StringVarP(&raidSubscribeFlags.Response, "response", "r", "", "Answer (PRESENT, LATE, BENCH, ABSENT)")
	raidsSubscribeCmd.Flags().Int64Var(&raidSubscribeFlags.Character, "character", 0, "Character id to bring")
	raidsSubscribeCmd.Flags().Int64Var(&raidSubscribeFlags.User, "user", 0, "User id to answer for (default: the logged in user)")
	_ = raidsSubscribeCmd.MarkFlagRequired("response")

	raidsCmd.AddCommand(
		raidsListCmd,
		raidsGetCmd,
		raidsShowCmd,
		raidsSaveCmd,
		raidsEditCmd,
		raidsDeleteCmd,
		raidsMissingCmd,
		raidsNotifyCmd,
		raidsSubscriptionsCmd,
		raidsSubscribeCmd,
	)
	rootCmd.AddCommand(raidsCmd)
}
