package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "View and manage calendar events",
	Long: `View and manage calendar events.

Without --from/--to the listing covers today through seven days out.
--calendar accepts a calendar name, or the name or email address of a
person who has shared their calendar with you.

Examples:
  # This week's agenda
  o365 calendar list

  # A colleague's shared calendar, next month
  o365 calendar list --calendar quinn --from today --to "+1 month"

  # Book a meeting
  o365 calendar create --subject "Planning" --start "2026-09-01 10:00" \
      --end "2026-09-01 11:00" --attendee bob@example.com --online`,
}

var calendarListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events in a time window",
	RunE:  runCalendarList,
}

var calendarCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an event",
	RunE:  runCalendarCreate,
}

var calendarRespondCmd = &cobra.Command{
	Use:   "respond <id> <accept|tentative|decline>",
	Short: "Answer a meeting invitation",
	Args:  cobra.ExactArgs(2),
	RunE:  runCalendarRespond,
}

var calendarDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Cancel and remove an event",
	Args:  cobra.ExactArgs(1),
	RunE:  runCalendarDelete,
}

var calendarCalendarsCmd = &cobra.Command{
	Use:   "calendars",
	Short: "List calendars, owned and shared",
	RunE:  runCalendarCalendars,
}

// Flags for the calendar commands.
var (
	calendarListFrom     string
	calendarListTo       string
	calendarListCalendar string
	calendarListMax      int
	calendarListJSON     bool

	calendarCreateSubject   string
	calendarCreateStart     string
	calendarCreateEnd       string
	calendarCreateLocation  string
	calendarCreateAttendees []string
	calendarCreateOptional  []string
	calendarCreateBody      string
	calendarCreateOnline    bool

	calendarRespondComment string
)

func init() {
	calendarListCmd.Flags().StringVar(
		&calendarListFrom, "from", "", "Window start (e.g. today, '3 days ago')")
	calendarListCmd.Flags().StringVar(
		&calendarListTo, "to", "", "Window end (e.g. '+2 weeks')")
	calendarListCmd.Flags().StringVar(
		&calendarListCalendar, "calendar", "", "Calendar name or sharing owner")
	calendarListCmd.Flags().IntVar(
		&calendarListMax, "max", 0, "Maximum events to return (default 50)")
	calendarListCmd.Flags().BoolVar(
		&calendarListJSON, "json", false, "Output as JSON")

	calendarCreateCmd.Flags().StringVar(
		&calendarCreateSubject, "subject", "", "Event subject")
	calendarCreateCmd.Flags().StringVar(
		&calendarCreateStart, "start", "", "Start time (e.g. '2026-09-01 10:00')")
	calendarCreateCmd.Flags().StringVar(
		&calendarCreateEnd, "end", "", "End time (default: one hour after start)")
	calendarCreateCmd.Flags().StringVar(
		&calendarCreateLocation, "location", "", "Event location")
	calendarCreateCmd.Flags().StringArrayVar(
		&calendarCreateAttendees, "attendee", nil, "Required attendee (repeatable)")
	calendarCreateCmd.Flags().StringArrayVar(
		&calendarCreateOptional, "optional-attendee", nil, "Optional attendee (repeatable)")
	calendarCreateCmd.Flags().StringVar(
		&calendarCreateBody, "body", "", "Event description")
	calendarCreateCmd.Flags().BoolVar(
		&calendarCreateOnline, "online", false, "Attach a Teams meeting link")
	_ = calendarCreateCmd.MarkFlagRequired("subject")
	_ = calendarCreateCmd.MarkFlagRequired("start")

	calendarRespondCmd.Flags().StringVar(
		&calendarRespondComment, "comment", "", "Message to send with the response")

	calendarCmd.AddCommand(calendarListCmd)
	calendarCmd.AddCommand(calendarCreateCmd)
	calendarCmd.AddCommand(calendarRespondCmd)
	calendarCmd.AddCommand(calendarDeleteCmd)
	calendarCmd.AddCommand(calendarCalendarsCmd)
	rootCmd.AddCommand(calendarCmd)
}

func runCalendarList(cmd *cobra.Command, _ []string) error {
	if calendarService == nil {
		return errors.New("calendar service not configured")
	}
	ctx := cmd.Context()

	from, err := parseTimeFlag(calendarListFrom)
	if err != nil {
		return err
	}
	to, err := parseTimeFlag(calendarListTo)
	if err != nil {
		return err
	}

	calendarID, err := resolveCalendarRef(ctx, calendarListCalendar)
	if err != nil {
		return err
	}

	events, err := calendarService.Agenda(ctx, domain.AgendaOptions{
		From:       from,
		To:         to,
		CalendarID: calendarID,
		Limit:      calendarListMax,
	})
	if err != nil {
		return err
	}

	if calendarListJSON {
		return outputJSON(cmd, events)
	}

	if len(events) == 0 {
		cmd.Println("No events found")
		return nil
	}

	for _, e := range events {
		start := e.Start.Time()
		times := "all day"
		if !e.IsAllDay {
			times = fmt.Sprintf("%s-%s",
				start.Local().Format("15:04"), e.End.Time().Local().Format("15:04"))
		}
		location := ""
		if e.Location != nil {
			location = e.Location.DisplayName
		}
		cmd.Printf("%-11s %-12s %-40s %s\n",
			start.Local().Format("2006-01-02"), times, truncate(e.Subject, 38), location)
		cmd.Printf("    id: %s\n", e.ID)
	}
	cmd.Printf("\nTotal: %d event(s)\n", len(events))
	return nil
}

func runCalendarCreate(cmd *cobra.Command, _ []string) error {
	if calendarService == nil {
		return errors.New("calendar service not configured")
	}

	start, err := parseTimeFlag(calendarCreateStart)
	if err != nil {
		return err
	}
	end, err := parseTimeFlag(calendarCreateEnd)
	if err != nil {
		return err
	}

	created, err := calendarService.Create(cmd.Context(), domain.CreateEventInput{
		Subject:           calendarCreateSubject,
		Start:             start,
		End:               end,
		Location:          calendarCreateLocation,
		Attendees:         calendarCreateAttendees,
		OptionalAttendees: calendarCreateOptional,
		Body:              calendarCreateBody,
		Online:            calendarCreateOnline,
	})
	if err != nil {
		return err
	}

	cmd.Printf("Created %q\n", created.Subject)
	cmd.Printf("  %s to %s\n",
		created.Start.Time().Local().Format("2006-01-02 15:04"),
		created.End.Time().Local().Format("2006-01-02 15:04"))
	if url := created.JoinURL(); url != "" {
		cmd.Printf("  Join: %s\n", url)
	}
	cmd.Printf("  id: %s\n", created.ID)
	return nil
}

func runCalendarRespond(cmd *cobra.Command, args []string) error {
	if calendarService == nil {
		return errors.New("calendar service not configured")
	}

	response, err := domain.ParseEventResponse(args[1])
	if err != nil {
		return err
	}
	if err := calendarService.Respond(cmd.Context(), args[0], response, calendarRespondComment); err != nil {
		return err
	}
	cmd.Printf("Response sent: %s\n", args[1])
	return nil
}

func runCalendarDelete(cmd *cobra.Command, args []string) error {
	if calendarService == nil {
		return errors.New("calendar service not configured")
	}

	if err := calendarService.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Deleted %s\n", args[0])
	return nil
}

func runCalendarCalendars(cmd *cobra.Command, _ []string) error {
	if calendarService == nil {
		return errors.New("calendar service not configured")
	}

	calendars, err := calendarService.Calendars(cmd.Context())
	if err != nil {
		return err
	}

	for _, c := range calendars {
		owner := ""
		if c.Owner != nil && c.Owner.Address != "" {
			owner = "  (" + c.Owner.Address + ")"
		}
		cmd.Printf("%-32s%s\n", c.Name, owner)
		cmd.Printf("    id: %s\n", c.ID)
	}
	return nil
}

// resolveCalendarRef turns a --calendar value into a calendar ID. It
// tries calendar names first, then treats the value as the owner of a
// shared calendar, resolving non-address values through the address
// book the way recipients are.
func resolveCalendarRef(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}

	calendars, err := calendarService.Calendars(ctx)
	if err != nil {
		return "", err
	}
	for _, c := range calendars {
		if c.ID == ref || strings.EqualFold(c.Name, ref) {
			return c.ID, nil
		}
	}

	email := ref
	if !strings.Contains(ref, "@") {
		if contactsService == nil {
			return "", fmt.Errorf("no calendar named %q", ref)
		}
		person, err := contactsService.Resolve(ctx, ref)
		if err != nil {
			return "", fmt.Errorf("no calendar or person matching %q: %w", ref, err)
		}
		email = person.Email
	}

	cal, err := calendarService.FindCalendarByOwner(ctx, email)
	if err != nil {
		return "", err
	}
	return cal.ID, nil
}
