package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Look up people in the address book",
	Long: `Look up people in the address book.

People come from two places: the personal contacts folder and the
owners of calendars shared with you. The same query logic backs
recipient names in 'mail send', so a name that resolves here works
there too.

Examples:
  # Everyone known
  o365 contacts list

  # Find a person
  o365 contacts search quinn

  # Just the email address, for scripts
  o365 contacts search quinn --resolve`,
}

var contactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all known people",
	RunE:  runContactsList,
}

var contactsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find people by name or email",
	Args:  cobra.ExactArgs(1),
	RunE:  runContactsSearch,
}

// Flags for the contacts commands.
var (
	contactsListJSON      bool
	contactsSearchResolve bool
	contactsSearchJSON    bool
)

func init() {
	contactsListCmd.Flags().BoolVar(
		&contactsListJSON, "json", false, "Output as JSON")

	contactsSearchCmd.Flags().BoolVar(
		&contactsSearchResolve, "resolve", false, "Print only the single matching email address")
	contactsSearchCmd.Flags().BoolVar(
		&contactsSearchJSON, "json", false, "Output as JSON")

	contactsCmd.AddCommand(contactsListCmd)
	contactsCmd.AddCommand(contactsSearchCmd)
	rootCmd.AddCommand(contactsCmd)
}

func runContactsList(cmd *cobra.Command, _ []string) error {
	if contactsService == nil {
		return errors.New("contacts service not configured")
	}

	people, err := contactsService.People(cmd.Context())
	if err != nil {
		return err
	}
	sort.Slice(people, func(i, j int) bool {
		return strings.ToLower(people[i].Name) < strings.ToLower(people[j].Name)
	})

	if contactsListJSON {
		return outputJSON(cmd, people)
	}

	cmd.Printf("%-30s %-40s %s\n", "Name", "Email", "Source")
	for _, p := range people {
		cmd.Printf("%-30s %-40s %s\n", truncate(p.Name, 28), truncate(p.Email, 38), p.Source)
	}
	cmd.Printf("\nTotal: %d people\n", len(people))
	return nil
}

func runContactsSearch(cmd *cobra.Command, args []string) error {
	if contactsService == nil {
		return errors.New("contacts service not configured")
	}
	ctx := cmd.Context()

	if contactsSearchResolve {
		person, err := contactsService.Resolve(ctx, args[0])
		if err != nil {
			return err
		}
		cmd.Println(person.Email)
		return nil
	}

	matches, err := contactsService.Search(ctx, args[0])
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no people matching %q", args[0])
	}

	if contactsSearchJSON {
		return outputJSON(cmd, matches)
	}

	for _, p := range matches {
		cmd.Printf("%-30s %-40s %s\n", truncate(p.Name, 28), truncate(p.Email, 38), p.Source)
	}
	return nil
}
