package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Read and send Teams chat messages",
	Long: `Read and send Teams chat messages.

Chats are referenced by ID, topic, or the name of another member.
A name must match exactly one chat; the error for an ambiguous name
lists the candidates.

Examples:
  # Recent chats with Quinn anywhere in the topic or members
  o365 chat list --filter quinn

  # The last 20 messages of a one-on-one
  o365 chat messages quinn --max 20

  # Send without looking up an ID
  o365 chat send quinn Running five minutes late

  # Find where the budget was discussed this week
  o365 chat search budget --since "1 week ago"`,
}

var chatListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chats, most recently active first",
	RunE:  runChatList,
}

var chatMessagesCmd = &cobra.Command{
	Use:   "messages <chat>",
	Short: "Show a chat's messages, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runChatMessages,
}

var chatSendCmd = &cobra.Command{
	Use:   "send <chat> <message>...",
	Short: "Send a message to a chat",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runChatSend,
}

var chatSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search messages across chats",
	Args:  cobra.ExactArgs(1),
	RunE:  runChatSearch,
}

// Flags for the chat commands.
var (
	chatListMax    int
	chatListFilter string
	chatListJSON   bool

	chatMessagesMax   int
	chatMessagesSince string
	chatMessagesJSON  bool

	chatSearchChat  string
	chatSearchSince string
	chatSearchLimit int
	chatSearchJSON  bool
)

func init() {
	chatListCmd.Flags().IntVar(
		&chatListMax, "max", 0, "Maximum chats to return (default 50)")
	chatListCmd.Flags().StringVar(
		&chatListFilter, "filter", "", "Only chats whose topic or members match")
	chatListCmd.Flags().BoolVar(
		&chatListJSON, "json", false, "Output as JSON")

	chatMessagesCmd.Flags().IntVar(
		&chatMessagesMax, "max", 0, "Maximum messages to return (default 50)")
	chatMessagesCmd.Flags().StringVar(
		&chatMessagesSince, "since", "", "Only messages since this time")
	chatMessagesCmd.Flags().BoolVar(
		&chatMessagesJSON, "json", false, "Output as JSON")

	chatSearchCmd.Flags().StringVar(
		&chatSearchChat, "chat", "", "Restrict the search to one chat")
	chatSearchCmd.Flags().StringVar(
		&chatSearchSince, "since", "", "Only messages since this time")
	chatSearchCmd.Flags().IntVar(
		&chatSearchLimit, "limit", 0, "Maximum matches to return (default 25)")
	chatSearchCmd.Flags().BoolVar(
		&chatSearchJSON, "json", false, "Output as JSON")

	chatCmd.AddCommand(chatListCmd)
	chatCmd.AddCommand(chatMessagesCmd)
	chatCmd.AddCommand(chatSendCmd)
	chatCmd.AddCommand(chatSearchCmd)
	rootCmd.AddCommand(chatCmd)
}

func runChatList(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	chats, err := chatService.List(cmd.Context(), chatListFilter, chatListMax)
	if err != nil {
		return err
	}

	if chatListJSON {
		return outputJSON(cmd, chats)
	}

	if len(chats) == 0 {
		cmd.Println("No chats found")
		return nil
	}

	for _, c := range chats {
		cmd.Printf("%-9s %-44s %s\n",
			c.ChatType, truncate(c.DisplayName(""), 44), formatTime(c.LastUpdatedTime))
		cmd.Printf("    id: %s\n", c.ID)
	}
	cmd.Printf("\n%d chat(s)\n", len(chats))
	return nil
}

func runChatMessages(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	since, err := parseTimeFlag(chatMessagesSince)
	if err != nil {
		return err
	}

	messages, err := chatService.History(cmd.Context(), args[0], chatMessagesMax, since)
	if err != nil {
		return err
	}

	if chatMessagesJSON {
		return outputJSON(cmd, messages)
	}

	if len(messages) == 0 {
		cmd.Println("No messages found")
		return nil
	}

	for _, m := range messages {
		cmd.Printf("[%s] %s\n", formatTime(m.CreatedDateTime), m.SenderName())
		cmd.Printf("  %s\n\n", m.Preview(0))
	}
	return nil
}

func runChatSend(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	text := strings.Join(args[1:], " ")
	if _, err := chatService.Send(cmd.Context(), args[0], text); err != nil {
		return err
	}
	cmd.Println("Message sent.")
	return nil
}

func runChatSearch(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}
	ctx := cmd.Context()

	since, err := parseTimeFlag(chatSearchSince)
	if err != nil {
		return err
	}

	opts := domain.SearchOptions{Since: since, Limit: chatSearchLimit}
	if chatSearchChat != "" {
		chat, err := chatService.Resolve(ctx, chatSearchChat)
		if err != nil {
			return err
		}
		opts.ChatID = chat.ID
	}

	matches, err := chatService.Search(ctx, args[0], opts)
	if err != nil {
		return err
	}

	if chatSearchJSON {
		return outputJSON(cmd, matches)
	}

	if len(matches) == 0 {
		cmd.Println("No matches found")
		return nil
	}

	for _, m := range matches {
		cmd.Printf("[%s] %s in %s\n",
			formatTime(m.Sent()), m.Sender(), truncate(m.ChatTopic(), 40))
		cmd.Printf("  %s\n\n", m.Message.Preview(200))
	}
	cmd.Printf("%d match(es)\n", len(matches))
	return nil
}
