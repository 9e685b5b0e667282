package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/ttakano/climblog/internal/client/api"
	"github.com/ttakano/climblog/internal/flagx"
)

func (a *App) mountainsCmd(ctx context.Context, words, args []string) error {
	if len(words) == 0 {
		return fmt.Errorf("%w: missing mountains subcommand", errUsage)
	}

	switch words[0] {
	case "list":
		return a.mountainList(ctx, args)
	case "get":
		id, err := positionalID(words[1:])
		if err != nil {
			return err
		}
		return a.mountainGet(ctx, id)
	case "create":
		return a.mountainCreate(ctx, args)
	case "update":
		id, err := positionalID(words[1:])
		if err != nil {
			return err
		}
		return a.mountainUpdate(ctx, id, args)
	case "delete":
		id, err := positionalID(words[1:])
		if err != nil {
			return err
		}
		return a.mountainDelete(ctx, id)
	default:
		return fmt.Errorf("%w: unknown mountains subcommand %q", errUsage, words[0])
	}
}

func (a *App) mountainList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mountains list", flag.ContinueOnError)
	q := fs.String("q", "", "filter by name substring")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-q"})); err != nil {
		return err
	}

	ms, err := a.api.ListMountains(ctx, *q)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "--- Mountains ---")
	for _, m := range ms {
		fmt.Fprintf(a.out, "- ID: %d, Name: %s, Prefecture: %s, Elevation: %dm\n",
			m.ID, m.Name, m.Prefecture, m.Elevation)
	}
	return nil
}

func (a *App) mountainGet(ctx context.Context, id int64) error {
	m, err := a.api.GetMountain(ctx, id)
	if err != nil {
		return err
	}
	return a.printJSON(m)
}

func (a *App) mountainCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mountains create", flag.ContinueOnError)
	name := fs.String("name", "", "mountain name")
	prefecture := fs.String("prefecture", "", "prefecture")
	elevation := fs.Int("elevation", 0, "elevation in meters")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-name", "-prefecture", "-elevation"})); err != nil {
		return err
	}

	creds, err := a.promptCredentials()
	if err != nil {
		return err
	}

	m, err := a.api.CreateMountain(ctx, creds, *name, *prefecture, *elevation)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Created mountain with ID %d.\n", m.ID)
	return nil
}

func (a *App) mountainUpdate(ctx context.Context, id int64, args []string) error {
	fs := flag.NewFlagSet("mountains update", flag.ContinueOnError)
	name := fs.String("name", "", "mountain name")
	prefecture := fs.String("prefecture", "", "prefecture")
	elevation := fs.Int("elevation", 0, "elevation in meters")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-name", "-prefecture", "-elevation"})); err != nil {
		return err
	}

	var patch api.MountainPatch
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			patch.Name = name
		case "prefecture":
			patch.Prefecture = prefecture
		case "elevation":
			patch.Elevation = elevation
		}
	})
	if patch == (api.MountainPatch{}) {
		return fmt.Errorf("%w: nothing to update", errUsage)
	}

	creds, err := a.promptCredentials()
	if err != nil {
		return err
	}

	m, err := a.api.UpdateMountain(ctx, creds, id, patch)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Updated mountain %d.\n", id)
	return a.printJSON(m)
}

func (a *App) mountainDelete(ctx context.Context, id int64) error {
	ok, err := Confirm(a.reader, fmt.Sprintf("Really delete mountain %d and all its records?", id), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Aborted.")
		return nil
	}

	creds, err := a.promptCredentials()
	if err != nil {
		return err
	}

	if err := a.api.DeleteMountain(ctx, creds, id); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Deleted mountain %d.\n", id)
	return nil
}

func (a *App) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, string(data))
	return nil
}
