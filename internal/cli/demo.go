package cli

import (
	"context"
	"fmt"
	"time"

	"funko-catalog-api/internal/backup"
	"funko-catalog-api/internal/logging"
	"funko-catalog-api/internal/models"
	"funko-catalog-api/internal/service"
	"funko-catalog-api/internal/stats"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	demoKnownID     = "3b6c6f58-7c6b-434b-82ab-01b2d6e4434a"
	demoUnknownID   = "569689dd-b76b-465b-aa32-a6c46acd38fd"
	demoKnownName   = "Doctor Who Tardis"
	demoUnknownName = "NoExiste"
	demoQueryYear   = 2023
	demoQueryPrefix = "Stitch"
)

// NewDemoCmd creates the demo command
func NewDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Exercise the catalog end to end",
		Long: `Load a CSV file, then run the failing cases, the successful CRUD and backup
cases and the catalog queries concurrently, logging every outcome.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a)

			csvPath, _ := cmd.Flags().GetString("csv")
			backupPath, _ := cmd.Flags().GetString("backup")
			return runDemo(ctx, a.Service, csvPath, backupPath)
		},
	}
	cmd.Flags().String("csv", "data/funkos.csv", "CSV file loaded before the demo runs")
	cmd.Flags().String("backup", defaultBackupPath, "Backup file written and restored by the demo")
	return cmd
}

type demo struct {
	svc        *service.FunkoService
	backupPath string
}

func runDemo(ctx context.Context, svc *service.FunkoService, csvPath, backupPath string) error {
	ctx = logging.WithComponent(ctx, "demo")
	log := logging.FromContext(ctx)
	log.Info().Msg("funko demo started")

	if csvPath != "" {
		res, err := importCSV(ctx, svc, csvPath)
		if err != nil {
			log.Error().Err(err).Str("path", csvPath).Msg("csv not loaded")
		} else {
			log.Info().Int("saved", res.Saved).Int("failed", res.Failed).Msg("csv loaded")
		}
	}

	d := &demo{svc: svc, backupPath: backupPath}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return d.failureCases(gctx) })
	g.Go(func() error { return d.successCases(gctx) })
	g.Go(func() error { return d.queries(gctx) })
	err := g.Wait()

	log.Info().Msg("funko demo finished")
	return err
}

// failureCases runs operations that are expected to be rejected.
func (d *demo) failureCases(ctx context.Context) error {
	log := logging.FromContext(ctx).With().Str("group", "failure").Logger()

	_, err := d.findByID(ctx, demoUnknownID)
	if err := report(log, "find by unknown id", err); err != nil {
		return err
	}

	_, err = d.findOneByName(ctx, demoUnknownName)
	if err := report(log, "find by unknown name", err); err != nil {
		return err
	}

	_, err = d.svc.Save(ctx, models.Funko{
		Name:        "MadiFunko2",
		Model:       models.ModelOtros,
		Price:       -42,
		ReleaseDate: today(),
	})
	if err := report(log, "save with negative price", err); err != nil {
		return err
	}

	_, err = d.renameByName(ctx, "One Piece Luffy", "")
	if err := report(log, "update unknown funko", err); err != nil {
		return err
	}

	_, err = d.deleteByName(ctx, demoUnknownName)
	return report(log, "delete unknown funko", err)
}

// successCases runs the CRUD round trip followed by a backup and restore.
func (d *demo) successCases(ctx context.Context) error {
	log := logging.FromContext(ctx).With().Str("group", "success").Logger()

	all, err := d.svc.FindAll(ctx)
	if err := report(log, "find all", err); err != nil {
		return err
	}
	log.Info().Int("count", len(all)).Msg("catalog listed")

	found, err := d.findByID(ctx, demoKnownID)
	if err := report(log, "find by id", err); err != nil {
		return err
	}
	if found != nil {
		log.Info().Stringer("funko", found).Msg("found by id")
	}

	named, err := d.findOneByName(ctx, demoKnownName)
	if err := report(log, "find by name", err); err != nil {
		return err
	}
	if named != nil {
		log.Info().Stringer("funko", named).Msg("found by name")
	}

	saved, err := d.svc.Save(ctx, models.Funko{
		Name:        "MadiFunko",
		Model:       models.ModelOtros,
		Price:       42,
		ReleaseDate: today(),
	})
	if err := report(log, "save", err); err != nil {
		return err
	}
	if saved == nil {
		return nil
	}

	updated, err := d.svc.Update(ctx, saved.ID, models.Funko{
		Name:        "MadiFunkoModified",
		Model:       models.ModelDisney,
		Price:       42.42,
		ReleaseDate: saved.ReleaseDate,
	})
	if err := report(log, "update", err); err != nil {
		return err
	}
	if updated != nil {
		log.Info().Stringer("funko", updated).Msg("updated")
	}

	_, err = d.svc.Delete(ctx, saved.ID)
	if err := report(log, "delete", err); err != nil {
		return err
	}

	n, err := backup.Export(ctx, d.svc, d.backupPath)
	if err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	log.Info().Int("count", n).Str("path", d.backupPath).Msg("backup written")

	res, err := backup.Restore(ctx, d.svc, d.backupPath)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	log.Info().Int("restored", res.Saved).Int("skipped", res.Failed).Msg("backup restored")
	return nil
}

// queries logs the catalog aggregates.
func (d *demo) queries(ctx context.Context) error {
	log := logging.FromContext(ctx).With().Str("group", "queries").Logger()

	funkos, err := d.svc.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("queries: %w", err)
	}

	if top := stats.MostExpensive(funkos); top != nil {
		log.Info().Stringer("funko", top).Msg("most expensive funko")
	}
	log.Info().Str("average", fmt.Sprintf("%.2f", stats.AveragePrice(funkos))).Msg("average price")

	byModel := stats.GroupByModel(funkos)
	for _, m := range models.Models() {
		group := byModel[m]
		names := make([]string, 0, len(group))
		for _, f := range group {
			names = append(names, f.Name)
		}
		log.Info().Str("model", string(m)).Strs("funkos", names).Msg("funkos by model")
	}
	for m, n := range stats.CountByModel(funkos) {
		log.Info().Str("model", string(m)).Int("count", n).Msg("funkos per model")
	}

	for _, f := range stats.ReleasedIn(funkos, demoQueryYear) {
		log.Info().Int("year", demoQueryYear).Stringer("funko", f).Msg("released in year")
	}

	prefixed := stats.WithNamePrefix(funkos, demoQueryPrefix)
	log.Info().Str("prefix", demoQueryPrefix).Int("count", len(prefixed)).Msg("funkos with prefix")
	for _, f := range prefixed {
		log.Info().Str("prefix", demoQueryPrefix).Stringer("funko", f).Msg("funko with prefix")
	}
	return nil
}

func (d *demo) findByID(ctx context.Context, id string) (*models.Funko, error) {
	f, err := d.svc.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, service.NotFound("find by id", id)
	}
	return f, nil
}

func (d *demo) findOneByName(ctx context.Context, name string) (*models.Funko, error) {
	funkos, err := d.svc.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(funkos) == 0 {
		return nil, service.NotFound("find by name", name)
	}
	return &funkos[0], nil
}

func (d *demo) renameByName(ctx context.Context, name, newName string) (*models.Funko, error) {
	f, err := d.findOneByName(ctx, name)
	if err != nil {
		return nil, err
	}
	f.Name = newName
	return d.svc.Update(ctx, f.ID, *f)
}

func (d *demo) deleteByName(ctx context.Context, name string) (*models.Funko, error) {
	f, err := d.findOneByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return d.svc.Delete(ctx, f.ID)
}

// report logs the outcome of one case. Only storage failures abort the demo.
func report(log zerolog.Logger, name string, err error) error {
	switch {
	case err == nil:
		log.Info().Str("case", name).Msg("case succeeded")
	case service.KindOf(err) == service.KindStorage:
		return fmt.Errorf("%s: %w", name, err)
	default:
		log.Warn().Str("case", name).Stringer("kind", service.KindOf(err)).Err(err).Msg("case rejected")
	}
	return nil
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
