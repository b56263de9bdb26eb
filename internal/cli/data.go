package cli

import (
	"context"
	"errors"
	"fmt"

	"funko-catalog-api/internal/backup"
	"funko-catalog-api/internal/importer"
	"funko-catalog-api/internal/logging"

	"github.com/spf13/cobra"
)

const defaultBackupPath = "data/backup.json"

// NewImportCmd creates the import command
func NewImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import funkos from a CSV file",
		Long: `Import funkos from a CSV file with the columns
  COD,NOMBRE,MODELO,PRECIO,FECHA_LANZAMIENTO
Rows that fail to parse or validate are logged and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a)

			res, err := importCSV(ctx, a.Service, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d funkos (%d failed)\n", res.Saved, res.Failed)
			return nil
		},
	}
}

// NewBackupCmd creates the backup command
func NewBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup [file.json]",
		Short: "Write every funko to a JSON backup",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a)

			path := pathArg(args)
			n, err := backup.Export(ctx, a.Service, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d funkos to %s\n", n, path)
			return nil
		},
	}
}

// NewRestoreCmd creates the restore command
func NewRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore [file.json]",
		Short: "Restore funkos from a JSON backup",
		Long:  `Restore funkos from a JSON backup. Funkos whose id already exists are skipped.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a)

			res, err := backup.Restore(ctx, a.Service, pathArg(args))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d funkos (%d skipped)\n", res.Saved, res.Failed)
			return nil
		},
	}
}

func pathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultBackupPath
}

// importCSV reads path and saves what parsed. Unparseable rows are logged, not fatal.
func importCSV(ctx context.Context, s importer.Saver, path string) (importer.Result, error) {
	funkos, err := importer.ReadFile(path)
	var rowErr *importer.RowError
	if err != nil && !errors.As(err, &rowErr) {
		return importer.Result{}, err
	}
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("path", path).Msg("some csv rows were skipped")
	}

	res := importer.Import(ctx, s, funkos)
	res.Failed += countRowErrors(err)
	return res, nil
}

func countRowErrors(err error) int {
	if err == nil {
		return 0
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return len(joined.Unwrap())
	}
	return 1
}
