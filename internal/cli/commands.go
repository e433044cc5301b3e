package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/Sanjaykumaar123/sentinelnet/internal/auth"
	"github.com/Sanjaykumaar123/sentinelnet/internal/scanner"
	"github.com/Sanjaykumaar123/sentinelnet/internal/session"
	"github.com/Sanjaykumaar123/sentinelnet/internal/store"
)

const (
	viewMessageLimit = 20
	purgeBatchSize   = 200
)

type runtimeFunc func() *runtime

func newResetDBCmd(get runtimeFunc) *cobra.Command {
	var (
		yes      bool
		email    string
		password string
		name     string
	)
	cmd := &cobra.Command{
		Use:   "reset-db",
		Short: "Drop all tables, recreate the schema and seed the admin account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("reset-db destroys all data; pass --yes to confirm")
			}
			rt := get()
			ctx := cmd.Context()
			if err := rt.repo.Reset(ctx); err != nil {
				return err
			}

			tokens, err := session.NewStore(rt.cfg, rt.logger)
			if err != nil {
				return fmt.Errorf("token store: %w", err)
			}
			defer tokens.Close()
			authService, err := auth.NewService(rt.cfg, rt.repo, tokens, rt.metrics, rt.logger)
			if err != nil {
				return err
			}
			admin, _, err := authService.SeedAdmin(ctx, email, password, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "database reset; admin %s (id %d)\n", admin.Email, admin.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm destroying all data")
	cmd.Flags().StringVar(&email, "admin-email", auth.DefaultAdminEmail, "seeded admin email")
	cmd.Flags().StringVar(&password, "admin-password", auth.DefaultAdminPassword, "seeded admin password")
	cmd.Flags().StringVar(&name, "admin-name", auth.DefaultAdminName, "seeded admin full name")
	return cmd
}

type messageRow struct {
	ID         uint    `json:"id"`
	SenderID   uint    `json:"sender_id"`
	ChannelID  string  `json:"channel_id"`
	ReceiverID *uint   `json:"receiver_id"`
	Text       string  `json:"text"`
	OpsecRisk  string  `json:"opsec_risk"`
	VulgarRisk string  `json:"vulgar_risk"`
	IsBlocked  bool    `json:"is_blocked"`
	Timestamp  string  `json:"timestamp"`
	AIScore    float64 `json:"ai_score"`
}

type dbView struct {
	Users    []store.User `json:"users"`
	Messages []messageRow `json:"messages"`
}

func newViewDBCmd(get runtimeFunc) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "view-db",
		Short: "Print users and the most recent messages as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt := get()
			ctx := cmd.Context()
			users, err := rt.repo.ListUsers(ctx)
			if err != nil {
				return err
			}
			latest, err := rt.repo.LatestMessages(ctx, limit)
			if err != nil {
				return err
			}

			view := dbView{Users: users, Messages: make([]messageRow, 0, len(latest))}
			for _, msg := range latest {
				row := messageRow{
					ID:         msg.ID,
					SenderID:   msg.SenderID,
					ChannelID:  msg.ChannelID,
					ReceiverID: msg.ReceiverID,
					Text:       msg.ContentEncrypted,
					OpsecRisk:  msg.OpsecRisk,
					VulgarRisk: msg.VulgarRisk,
					IsBlocked:  msg.IsBlocked,
					Timestamp:  msg.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
				}
				if msg.AIScore != nil {
					row.AIScore = *msg.AIScore
				}
				view.Messages = append(view.Messages, row)
			}
			return writeJSON(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", viewMessageLimit, "number of recent messages to show")
	return cmd
}

func newFixChannelsCmd(get runtimeFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "fix-channels",
		Short: "Move messages without a channel to the general channel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			updated, err := get().repo.FixChannels(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %d messages\n", updated)
			return nil
		},
	}
}

func newFixDMReceiversCmd(get runtimeFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "fix-dm-receivers",
		Short: "Backfill receiver ids of direct-message channels",
		RunE: func(cmd *cobra.Command, _ []string) error {
			updated, err := get().repo.BackfillReceivers(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %d messages\n", updated)
			return nil
		},
	}
}

func newPurgeMessagesCmd(get runtimeFunc) *cobra.Command {
	var last int
	cmd := &cobra.Command{
		Use:   "purge-messages",
		Short: "Delete the most recent N messages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if last <= 0 {
				return errors.New("--last must be positive")
			}
			deleted, err := get().repo.DeleteLatestMessages(cmd.Context(), last)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d messages\n", deleted)
			return nil
		},
	}
	cmd.Flags().IntVar(&last, "last", 0, "number of most recent messages to delete")
	return cmd
}

func newPurgeVulgarCmd(get runtimeFunc) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "purge-vulgar",
		Short: "Re-scan stored messages and delete the vulgar ones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt := get()
			ctx := cmd.Context()

			var ids []uint
			err := rt.repo.EachMessage(ctx, purgeBatchSize, func(batch []store.Message) error {
				for _, msg := range batch {
					if rt.scanner.Scan(msg.ContentEncrypted).VulgarRisk == scanner.VulgarVulgar {
						ids = append(ids, msg.ID)
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(out, "found %d vulgar messages\n", len(ids))
				return nil
			}
			deleted, err := rt.repo.DeleteMessages(ctx, ids)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "deleted %d vulgar messages\n", deleted)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only count matching messages")
	return cmd
}

func newScanCmd(get runtimeFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <text>",
		Short: "Print the risk verdict for a text as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := get().scanner.Scan(strings.Join(args, " "))
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
