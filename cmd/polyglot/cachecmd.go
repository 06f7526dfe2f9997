package main

import (
	"errors"
	"fmt"

	"github.com/ZaguanLabs/polyglot"
	"github.com/ZaguanLabs/polyglot/cache"
	"github.com/spf13/cobra"
)

func newCacheCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Export or import the translation cache",
	}
	cmd.AddCommand(newCacheExportCmd(global), newCacheImportCmd(global))
	return cmd
}

func newCacheExportCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write every cached translation to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(global)
			if err != nil {
				return err
			}
			logger, err := newLogger(settings, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			store, closeStore := openCache(settings, logger)
			defer closeStore()
			if store == nil {
				return errors.New("translation cache is disabled or unavailable")
			}
			enumerable, ok := store.(cache.Enumerable)
			if !ok {
				return fmt.Errorf("%s cache cannot be enumerated", settings.Cache.Backend)
			}

			metadata := map[string]string{
				"source_language": settings.Core.SourceLang,
				"cache_backend":   settings.Cache.Backend,
				"version":         polyglot.Version,
			}
			if err := cache.NewExporter(enumerable).ExportToFile(args[0], metadata); err != nil {
				return fmt.Errorf("exporting cache: %w", err)
			}

			entries, _ := enumerable.Entries()
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", len(entries), args[0])
			return nil
		},
	}
}

func newCacheImportCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load cached translations from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(global)
			if err != nil {
				return err
			}
			logger, err := newLogger(settings, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			store, closeStore := openCache(settings, logger)
			defer closeStore()
			if store == nil {
				return errors.New("translation cache is disabled or unavailable")
			}

			result, err := cache.NewImporter(store).ImportFromFile(args[0])
			if err != nil {
				return fmt.Errorf("importing cache: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries from %s", result.Imported, args[0])
			if result.Failed > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), " (%d failed)", result.Failed)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			if result.Failed > 0 {
				return fmt.Errorf("%d entries could not be stored", result.Failed)
			}
			return nil
		},
	}
}
