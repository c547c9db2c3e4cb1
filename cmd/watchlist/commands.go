package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/watchlist/internal/database"
	"github.com/jask/watchlist/internal/database/repository"
	"github.com/jask/watchlist/internal/service"
	"github.com/jask/watchlist/internal/testdata"
)

var (
	listKind   string
	listTag    string
	addKind    string
	addNotes   string
	addTags    []string
	sightAt    string
	sightCam   string
	resetForce bool
)

func init() {
	listCmd.Flags().StringVar(&listKind, "kind", "", "only show person or vehicle")
	listCmd.Flags().StringVar(&listTag, "tag", "", "only show entities with this tag")

	addCmd.Flags().StringVar(&addKind, "kind", repository.KindPerson, "person or vehicle")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "free-form notes (markdown)")
	addCmd.Flags().StringSliceVar(&addTags, "tag", nil, "tag to attach (repeatable)")

	sightingCmd.Flags().StringVar(&sightAt, "at", "", "RFC3339 time of the sighting (default now)")
	sightingCmd.Flags().StringVar(&sightCam, "camera", "", "camera that saw the entity")

	resetCmd.Flags().BoolVar(&resetForce, "yes", false, "confirm wiping all data")

	rootCmd.AddCommand(listCmd, addCmd, showCmd, deleteCmd, sightingCmd, importCmd, seedCmd, resetCmd, migrateCmd)
}

var listCmd = &cobra.Command{
	Use:   "list [search]",
	Short: "List entities, optionally fuzzy-matching a name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		q := service.Query{Kind: listKind, Tag: listTag}
		if len(args) == 1 {
			q.Search = args[0]
		}
		list, err := (&service.Catalog{Entities: e.entities}).List(cmd.Context(), q)
		if err != nil {
			return err
		}
		loc, _ := e.cfg.Location()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKIND\tNAME\tLAST SEEN\tSIGHTINGS\tTAGS")
		for _, ent := range list {
			seen := "never"
			if ent.LastSeen != nil {
				seen = ent.LastSeen.In(loc).Format(e.cfg.UI.DateFormat)
			}
			var tags []string
			for _, t := range ent.Tags {
				tags = append(tags, t.Name)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", ent.ID, ent.Kind, ent.Name, seen, ent.SightingCount, strings.Join(tags, ","))
		}
		return w.Flush()
	},
}

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an entity to the catalogue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := strings.ToLower(strings.TrimSpace(addKind))
		if !repository.ValidKind(kind) {
			return fmt.Errorf("unknown kind %q (want person or vehicle)", addKind)
		}
		name := strings.TrimSpace(args[0])
		if name == "" {
			return fmt.Errorf("name must not be empty")
		}
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		ent := repository.Entity{ID: service.EntityID(kind, name), Kind: kind, Name: name, Notes: addNotes}
		if err := e.entities.Upsert(ctx, ent); err != nil {
			return fmt.Errorf("add entity: %w", err)
		}
		for _, t := range addTags {
			tag, err := e.tags.Ensure(ctx, t)
			if err != nil {
				return fmt.Errorf("tag %q: %w", t, err)
			}
			if err := e.entities.AttachTag(ctx, ent.ID, tag.ID); err != nil {
				return fmt.Errorf("attach tag %q: %w", t, err)
			}
		}
		e.log.Info().Str("entity", ent.ID).Str("kind", kind).Msg("entity added")
		fmt.Fprintln(cmd.OutOrStdout(), ent.ID)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an entity with its sightings and tags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		ent, err := (&service.Catalog{Entities: e.entities}).Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if ent == nil {
			return fmt.Errorf("no entity with id %s", args[0])
		}
		if err := (&service.Remover{Entities: e.entities}).Delete(cmd.Context(), ent.ID); err != nil {
			return err
		}
		e.log.Info().Str("entity", ent.ID).Msg("entity deleted")
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s (%s)\n", ent.Name, ent.ID)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an entity with its recent sightings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		ent, err := (&service.Catalog{Entities: e.entities}).Get(ctx, args[0])
		if err != nil {
			return err
		}
		if ent == nil {
			return fmt.Errorf("no entity with id %s", args[0])
		}
		recent, err := e.entities.RecentSightings(ctx, ent.ID, 5)
		if err != nil {
			return err
		}

		loc, _ := e.cfg.Location()
		seen := func(t *time.Time) string {
			if t == nil {
				return "never"
			}
			return t.In(loc).Format(e.cfg.UI.DateFormat)
		}
		var tags []string
		for _, t := range ent.Tags {
			tags = append(tags, t.Name)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "name\t%s\n", ent.Name)
		fmt.Fprintf(w, "kind\t%s\n", ent.Kind)
		fmt.Fprintf(w, "id\t%s\n", ent.ID)
		fmt.Fprintf(w, "first seen\t%s\n", seen(ent.FirstSeen))
		fmt.Fprintf(w, "last seen\t%s\n", seen(ent.LastSeen))
		fmt.Fprintf(w, "sightings\t%d\n", ent.SightingCount)
		fmt.Fprintf(w, "tags\t%s\n", strings.Join(tags, ","))
		if ent.Notes != "" {
			fmt.Fprintf(w, "notes\t%s\n", ent.Notes)
		}
		for _, sg := range recent {
			fmt.Fprintf(w, "  %s\t%s\n", sg.SeenAt.In(loc).Format(e.cfg.UI.DateFormat), sg.Camera)
		}
		return w.Flush()
	},
}

var sightingCmd = &cobra.Command{
	Use:   "sighting <id>",
	Short: "Record a sighting of an entity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var at time.Time
		if sightAt != "" {
			parsed, err := time.Parse(time.RFC3339, sightAt)
			if err != nil {
				return fmt.Errorf("--at: %w", err)
			}
			at = parsed
		}
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		return (&service.Recorder{Entities: e.entities}).Record(cmd.Context(), args[0], sightCam, at)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import entities from a YAML list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()

		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := (&service.Importer{Entities: e.entities, Tags: e.tags}).ImportYAML(cmd.Context(), f)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "imported %d, skipped %d, errors %d\n", res.Imported, res.Skipped, len(res.Errors))
		for _, ierr := range res.Errors {
			fmt.Fprintf(out, "  %v\n", ierr)
		}
		e.log.Info().Int("imported", res.Imported).Int("skipped", res.Skipped).Int("errors", len(res.Errors)).Msg("import finished")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo entities and sightings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		seeded, err := testdata.Seed(cmd.Context(), testdata.Repos{Entities: e.entities, Tags: e.tags}, nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d entities\n", len(seeded))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every entity, tag and sighting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !resetForce {
			return fmt.Errorf("refusing to reset without --yes")
		}
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		removed, err := (&service.MaintenanceService{DB: e.db}).Reset(cmd.Context())
		if err != nil {
			return err
		}
		e.log.Warn().Int64("entities", removed).Msg("catalogue reset")
		fmt.Fprintf(cmd.OutOrStdout(), "catalogue reset (%d entities removed)\n", removed)
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations and print the schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		v, dirty, err := database.SchemaVersion(e.cfg.Database.Path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%t)\n", v, dirty)
		return nil
	},
}
