package commands

import (
	"context"

	"github.com/dyluth/dogroom/internal/printer"
	"github.com/dyluth/dogroom/internal/render"
	"github.com/spf13/cobra"
)

var (
	chatsCursor string
	chatsLimit  int
	chatUser    string
)

var chatsCmd = &cobra.Command{
	Use:   "chats",
	Short: "Read and post to chat boards",
}

var chatsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chat boards page by page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			page, err := a.store.Chats.List(ctx, chatsCursor, a.cfg.Listing.Limit(chatsLimit, cmd.Flags().Changed("limit")))
			if err != nil {
				return storeError(err, "dogroom chats list")
			}
			return writePage(page, func() error {
				_, err := render.Chats(printer.Out(), page.Items)
				return err
			})
		})
	},
}

var chatsCreateCmd = &cobra.Command{
	Use:   "create TITLE",
	Short: "Open a new chat board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			chat, err := a.store.CreateChat(ctx, args[0])
			if err != nil {
				return storeError(err, "dogroom chats list")
			}
			if outputFormat == formatTable {
				printer.Success("Chat %q created (%s)\n", chat.Title, chat.ID)
				return nil
			}
			return writeOne(chat)
		})
	},
}

var chatsMessagesCmd = &cobra.Command{
	Use:   "messages CHAT_ID",
	Short: "Show the messages of a chat board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			id, err := a.store.Chats.Resolve(ctx, args[0])
			if err != nil {
				return storeError(err, "dogroom chats list")
			}
			msgs, err := a.store.ListMessages(ctx, id)
			if err != nil {
				return storeError(err, "dogroom chats list")
			}
			return writeList(msgs, func() error {
				render.Messages(printer.Out(), msgs)
				return nil
			})
		})
	},
}

var chatsSendCmd = &cobra.Command{
	Use:   "send CHAT_ID TEXT",
	Short: "Post a message to a chat board",
	Long: `Post a message to an existing chat board.

Example:
  dogroom chats send c1 "Is anyone free next weekend?" --user u1`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			id, err := a.store.Chats.Resolve(ctx, args[0])
			if err != nil {
				return storeError(err, "dogroom chats list")
			}
			msg, err := a.store.SendMessage(ctx, id, chatUser, args[1])
			if err != nil {
				return storeError(err, "dogroom chats list")
			}
			if outputFormat == formatTable {
				printer.Success("Message %s sent\n", msg.ID)
				return nil
			}
			return writeOne(msg)
		})
	},
}

func init() {
	chatsListCmd.Flags().StringVar(&chatsCursor, "cursor", "", "Cursor returned by the previous page")
	chatsListCmd.Flags().IntVarP(&chatsLimit, "limit", "l", 0, "Page size, clamped to [1, listing.max_limit] (default from config)")

	chatsSendCmd.Flags().StringVarP(&chatUser, "user", "u", "", "Sending user ID (required)")
	chatsSendCmd.MarkFlagRequired("user")

	chatsCmd.AddCommand(chatsListCmd, chatsCreateCmd, chatsMessagesCmd, chatsSendCmd)
	rootCmd.AddCommand(chatsCmd)
}
