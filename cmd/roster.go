package cmd

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/lapinstance/pkg/lapinstance"
	"github.com/spf13/cobra"
)

var rosterFlags struct {
	ID        int64
	RaidType  string
	Character int64
}

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Manage the raid roster",
}

var rosterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all roster members",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg, client := setup()
		resp, err := client.Roster.FindAll(cmd.Context())
		if err != nil {
			log.Fatalf("failed to list roster: %v", err)
		}
		if err := render(os.Stdout, cfg.Output, resp.Data, func(w io.Writer) error {
			return writeRoster(w, resp.Data)
		}); err != nil {
			log.Fatalf("failed to print roster: %v", err)
		}
	},
}

func rosterMemberFromFlags() lapinstance.RosterMember {
	rt, err := lapinstance.ParseRaidType(rosterFlags.RaidType)
	if err != nil {
		log.Fatalf("invalid raid type: %v", err)
	}
	return lapinstance.RosterMember{
		ID:            rosterFlags.ID,
		RaidType:      rt,
		UserCharacter: lapinstance.UserCharacter{ID: rosterFlags.Character},
	}
}

var rosterAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Add a character to the roster of a raid",
	Example: `lapinstance roster add --type NAXXRAMAS --character 3`,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg, client := setup()
		resp, err := client.Roster.Add(cmd.Context(), rosterMemberFromFlags())
		if err != nil {
			log.Fatalf("failed to add roster member: %v", err)
		}
		if err := render(os.Stdout, cfg.Output, resp.Data, func(w io.Writer) error {
			return writeRoster(w, []lapinstance.RosterMember{resp.Data})
		}); err != nil {
			log.Fatalf("failed to print roster member: %v", err)
		}
	},
}

var rosterRemoveCmd = &cobra.Command{
	Use:     "remove",
	Short:   "Remove a character from the roster of a raid",
	Example: `lapinstance roster remove --type NAXXRAMAS --character 3`,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		_, client := setup()
		member := rosterMemberFromFlags()
		if err := client.Roster.Remove(cmd.Context(), member); err != nil {
			log.Fatalf("failed to remove roster member: %v", err)
		}
		log.Info("roster member removed", "raid", member.RaidType, "character", member.UserCharacter.ID)
	},
}

func init() {
	for _, c := range []*cobra.Command{rosterAddCmd, rosterRemoveCmd} {
		c.Flags().StringVarP(&rosterFlags.RaidType, "type", "t", "", "Raid type, e.g. NAXXRAMAS")
		c.Flags().Int64Var(&rosterFlags.Character, "character", 0, "Character id")
		_ = c.MarkFlagRequired("type")
		_ = c.MarkFlagRequired("character")
	}
	rosterRemoveCmd.Flags().Int64Var(&rosterFlags.ID, "id", 0, "Roster member id, when known")

	rosterCmd.AddCommand(rosterListCmd, rosterAddCmd, rosterRemoveCmd)
	rootCmd.AddCommand(rosterCmd)
}
