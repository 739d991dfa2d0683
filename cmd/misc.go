package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/lapinstance/pkg/lapinstance"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var charactersCmd = &cobra.Command{
	Use:   "characters",
	Short: "Inspect all characters of the guild",
}

var charactersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all characters",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg, client := setup()
		resp, err := client.UserCharacters.FindAll(cmd.Context())
		if err != nil {
			log.Fatalf("failed to list characters: %v", err)
		}
		if err := render(os.Stdout, cfg.Output, resp.Data, func(w io.Writer) error {
			return writeCharacters(w, resp.Data)
		}); err != nil {
			log.Fatalf("failed to print characters: %v", err)
		}
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the application settings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg, client := setup()
		resp, err := client.ApplicationSettings.Get(cmd.Context())
		if err != nil {
			log.Fatalf("failed to get settings: %v", err)
		}
		if err := render(os.Stdout, cfg.Output, resp.Data, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "roster enabled: %t\n", resp.Data.RoasterEnabled)
			return err
		}); err != nil {
			log.Fatalf("failed to print settings: %v", err)
		}
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show the logged in user",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg, client := setup()
		resp, err := client.Session.CurrentUser(cmd.Context())
		if err != nil {
			log.Fatalf("failed to get session: %v", err)
		}
		if err := render(os.Stdout, cfg.Output, resp.Data, func(w io.Writer) error {
			roles := lo.Map(resp.Data.Roles, func(r lapinstance.UserRole, _ int) string { return string(r) })
			_, err := fmt.Fprintf(w, "%s (id %d) roles: %s\n", resp.Data.User.Name, resp.Data.User.ID, strings.Join(roles, ", "))
			return err
		}); err != nil {
			log.Fatalf("failed to print session: %v", err)
		}
	},
}

var raidTypesCmd = &cobra.Command{
	Use:   "raid-types",
	Short: "Inspect raid types and their resets",
}

type raidTypeReset struct {
	RaidType  lapinstance.RaidType `json:"raidType"`
	Label     string               `json:"label"`
	NextReset time.Time            `json:"nextReset"`
}

func writeResets(w io.Writer, resets []raidTypeReset) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "RAID\tTYPE\tNEXT RESET")
	for _, r := range resets {
		fmt.Fprintf(tw, "%s\t%s\t%s (%s)\n", r.Label, r.RaidType, r.NextReset.Local().Format("Mon 2006-01-02 15:04"), relative(r.NextReset))
	}
	return tw.Flush()
}

var raidTypesNextResetCmd = &cobra.Command{
	Use:   "next-reset <type>",
	Short: "Show the next reset of a raid type",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, client := setup()
		rt, err := lapinstance.ParseRaidType(args[0])
		if err != nil {
			log.Fatalf("invalid raid type: %v", err)
		}
		next, err := client.RaidTypes.NextResetTime(cmd.Context(), rt)
		if err != nil {
			log.Fatalf("failed to get next reset: %v", err)
		}
		reset := raidTypeReset{RaidType: rt, Label: rt.Label(), NextReset: next}
		if err := render(os.Stdout, cfg.Output, reset, func(w io.Writer) error {
			return writeResets(w, []raidTypeReset{reset})
		}); err != nil {
			log.Fatalf("failed to print reset: %v", err)
		}
	},
}

var raidTypesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all raid types with their next reset",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg, client := setup()
		types := lapinstance.RaidTypes()
		resets := make([]raidTypeReset, len(types))

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(4)
		for i, rt := range types {
			g.Go(func() error {
				next, err := client.RaidTypes.NextResetTime(ctx, rt)
				if err != nil {
					return fmt.Errorf("failed to get next reset of %s: %w", rt, err)
				}
				resets[i] = raidTypeReset{RaidType: rt, Label: rt.Label(), NextReset: next}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			log.Fatal(err)
		}

		if err := render(os.Stdout, cfg.Output, resets, func(w io.Writer) error {
			return writeResets(w, resets)
		}); err != nil {
			log.Fatalf("failed to print resets: %v", err)
		}
	},
}

// endpointsCmd works offline, it only prints the operation catalogue.
var endpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "List the API operations known to the client",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg := loadConfig()
		endpoints := lapinstance.Endpoints()
		if err := render(os.Stdout, cfg.Output, endpoints, func(w io.Writer) error {
			return writeEndpoints(w, endpoints)
		}); err != nil {
			log.Fatalf("failed to print endpoints: %v", err)
		}
	},
}

func init() {
	charactersCmd.AddCommand(charactersListCmd)
	raidTypesCmd.AddCommand(raidTypesNextResetCmd, raidTypesListCmd)
	rootCmd.AddCommand(charactersCmd, settingsCmd, sessionCmd, raidTypesCmd, endpointsCmd)
}
