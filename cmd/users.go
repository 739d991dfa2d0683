package cmd

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/lapinstance/pkg/lapinstance"
	"github.com/spf13/cobra"
)

var addCharacterFlags struct {
	ID   int64
	Name string
	Spec string
	Main bool
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Inspect guild members and manage their characters",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg, client := setup()
		resp, err := client.Users.FindAll(cmd.Context())
		if err != nil {
			log.Fatalf("failed to list users: %v", err)
		}
		if err := render(os.Stdout, cfg.Output, resp.Data, func(w io.Writer) error {
			return writeUsers(w, resp.Data)
		}); err != nil {
			log.Fatalf("failed to print users: %v", err)
		}
	},
}

var usersCharactersCmd = &cobra.Command{
	Use:   "characters <userID>",
	Short: "List the characters of a user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, client := setup()
		resp, err := client.Users.FindCharacters(cmd.Context(), parseID(args[0]))
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

var usersAddCharacterCmd = &cobra.Command{
	Use:     "add-character <userID>",
	Short:   "Create or update a character of a user",
	Example: `lapinstance users add-character 3 --name Grom --spec WARRIOR_TANK --main`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, client := setup()
		spec, err := lapinstance.ParseCharacterSpec(addCharacterFlags.Spec)
		if err != nil {
			log.Fatalf("invalid spec: %v", err)
		}
		resp, err := client.Users.SaveCharacter(cmd.Context(), parseID(args[0]), lapinstance.UserCharacter{
			ID:   addCharacterFlags.ID,
			Name: addCharacterFlags.Name,
			Spec: spec,
			Main: addCharacterFlags.Main,
		})
		if err != nil {
			log.Fatalf("failed to save character: %v", err)
		}
		if err := render(os.Stdout, cfg.Output, resp.Data, func(w io.Writer) error {
			return writeCharacters(w, []lapinstance.UserCharacter{resp.Data})
		}); err != nil {
			log.Fatalf("failed to print character: %v", err)
		}
	},
}

var usersRosterCmd = &cobra.Command{
	Use:   "roster <userID>",
	Short: "List the roster memberships of a user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, client := setup()
		resp, err := client.Users.FindRosterMemberships(cmd.Context(), parseID(args[0]))
		if err != nil {
			log.Fatalf("failed to list roster memberships: %v", err)
		}
		if err := render(os.Stdout, cfg.Output, resp.Data, func(w io.Writer) error {
			return writeRoster(w, resp.Data)
		}); err != nil {
			log.Fatalf("failed to print roster: %v", err)
		}
	},
}

var usersSubscriptionsCmd = &cobra.Command{
	Use:   "subscriptions <userID>",
	Short: "List the raid subscriptions of a user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, client := setup()
		resp, err := client.Users.FindSubscriptions(cmd.Context(), parseID(args[0]))
		if err != nil {
			log.Fatalf("failed to list subscriptions: %v", err)
		}
		if err := render(os.Stdout, cfg.Output, resp.Data, func(w io.Writer) error {
			return writeSubscriptions(w, resp.Data)
		}); err != nil {
			log.Fatalf("failed to print subscriptions: %v", err)
		}
	},
}

func init() {
	usersAddCharacterCmd.Flags().Int64Var(&addCharacterFlags.ID, "id", 0, "Id of an existing character to update")
	usersAddCharacterCmd.Flags().StringVarP(&addCharacterFlags.Name, "name", "n", "", "Character name")
	usersAddCharacterCmd.Flags().StringVarP(&addCharacterFlags.Spec, "spec", "s", "", "Character spec, e.g. WARRIOR_TANK")
	usersAddCharacterCmd.Flags().BoolVar(&addCharacterFlags.Main, "main", false, "Make this the main character of the user")
	_ = usersAddCharacterCmd.MarkFlagRequired("name")
	_ = usersAddCharacterCmd.MarkFlagRequired("spec")

	usersCmd.AddCommand(
		usersListCmd,
		usersCharactersCmd,
		usersAddCharacterCmd,
		usersRosterCmd,
		usersSubscriptionsCmd,
	)
	rootCmd.AddCommand(usersCmd)
}
