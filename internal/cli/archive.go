package cli

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/samvad-hq/packagist-api/pkg/packagist"
	"github.com/spf13/cobra"
)

func newArchiveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Inspect package snapshots saved with show --save",
	}
	cmd.AddCommand(newArchiveListCmd(a))
	cmd.AddCommand(newArchiveGetCmd(a))
	cmd.AddCommand(newArchiveDeleteCmd(a))
	return cmd
}

func newArchiveListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := a.openArchive()
			if err != nil {
				return err
			}
			defer a.closeArchive(store)

			snaps, err := store.List()
			if err != nil {
				return fmt.Errorf("list snapshots: %w", err)
			}
			rows := make([]map[string]any, 0, len(snaps))
			for _, s := range snaps {
				rows = append(rows, map[string]any{
					"name":       s.Name,
					"fetched_at": s.FetchedAt.UTC().Format(time.RFC3339),
				})
			}
			return a.printer(a.out, rows)
		},
	}
}

func newArchiveGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <vendor/package>",
		Short: "Print a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := a.openArchive()
			if err != nil {
				return err
			}
			defer a.closeArchive(store)

			snap, found, err := store.Load(args[0])
			if err != nil {
				return fmt.Errorf("load snapshot: %w", err)
			}
			if !found {
				return fmt.Errorf("no snapshot stored for %s", args[0])
			}
			tree, err := packagist.Decode(snap.Payload)
			if err != nil {
				return fmt.Errorf("snapshot %s: %w", args[0], err)
			}
			return a.printer(a.out, tree)
		},
	}
}

func newArchiveDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <vendor/package>",
		Short: "Remove a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := a.openArchive()
			if err != nil {
				return err
			}
			defer a.closeArchive(store)

			if err := store.Delete(args[0]); err != nil {
				return fmt.Errorf("delete snapshot: %w", err)
			}
			a.log.InfoObj("snapshot deleted", "package", args[0])
			return nil
		},
	}
}

func (a *app) saveSnapshot(name string, tree any) error {
	payload, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(tree)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	store, err := a.openArchive()
	if err != nil {
		return err
	}
	defer a.closeArchive(store)

	if err := store.Save(name, payload); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	a.log.InfoObj("snapshot saved", "snapshot", map[string]any{
		"package": name,
		"bytes":   len(payload),
	})
	return nil
}
