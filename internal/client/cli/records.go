package cli

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/ttakano/climblog/internal/client/api"
	"github.com/ttakano/climblog/internal/flagx"
	"github.com/ttakano/climblog/internal/netx"
)

func (a *App) recordsCmd(ctx context.Context, words, args []string) error {
	if len(words) == 0 {
		return fmt.Errorf("%w: missing records subcommand", errUsage)
	}

	switch words[0] {
	case "list":
		return a.recordList(ctx, args)
	case "get":
		id, err := positionalID(words[1:])
		if err != nil {
			return err
		}
		return a.recordGet(ctx, id)
	case "create":
		return a.recordCreate(ctx, args)
	case "update":
		id, err := positionalID(words[1:])
		if err != nil {
			return err
		}
		return a.recordUpdate(ctx, id, args)
	case "delete":
		id, err := positionalID(words[1:])
		if err != nil {
			return err
		}
		return a.recordDelete(ctx, id)
	case "attach":
		id, err := positionalID(words[1:])
		if err != nil {
			return err
		}
		return a.recordAttach(ctx, id, args)
	default:
		return fmt.Errorf("%w: unknown records subcommand %q", errUsage, words[0])
	}
}

func (a *App) recordList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("records list", flag.ContinueOnError)
	mountainID := fs.Int64("mountain", 0, "filter by mountain id")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-mountain"})); err != nil {
		return err
	}

	recs, err := a.api.ListRecords(ctx, *mountainID)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "--- Climb records ---")
	for _, r := range recs {
		fmt.Fprintf(a.out, "- ID: %d, User: %s, Mountain: %d, Date: %s, Comment: %s\n",
			r.ID, r.User, r.Mountain, r.ClimbDate, r.Comment)
	}
	return nil
}

func (a *App) recordGet(ctx context.Context, id int64) error {
	r, err := a.api.GetRecord(ctx, id)
	if err != nil {
		return err
	}
	return a.printJSON(r)
}

func (a *App) recordCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("records create", flag.ContinueOnError)
	mountainID := fs.Int64("mountain", 0, "mountain id")
	date := fs.String("date", "", "climb date (YYYY-MM-DD)")
	comment := fs.String("comment", "", "comment")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-mountain", "-date", "-comment"})); err != nil {
		return err
	}

	creds, err := a.promptCredentials()
	if err != nil {
		return err
	}

	r, err := a.api.CreateRecord(ctx, creds, *mountainID, *date, *comment)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Created climb record with ID %d.\n", r.ID)
	return nil
}

func (a *App) recordUpdate(ctx context.Context, id int64, args []string) error {
	fs := flag.NewFlagSet("records update", flag.ContinueOnError)
	mountainID := fs.Int64("mountain", 0, "mountain id")
	date := fs.String("date", "", "climb date (YYYY-MM-DD)")
	comment := fs.String("comment", "", "comment")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-mountain", "-date", "-comment"})); err != nil {
		return err
	}

	var patch api.RecordPatch
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mountain":
			patch.Mountain = mountainID
		case "date":
			patch.ClimbDate = date
		case "comment":
			patch.Comment = comment
		}
	})
	if patch == (api.RecordPatch{}) {
		return fmt.Errorf("%w: nothing to update", errUsage)
	}

	creds, err := a.promptCredentials()
	if err != nil {
		return err
	}

	r, err := a.api.UpdateRecord(ctx, creds, id, patch)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Updated climb record %d.\n", id)
	return a.printJSON(r)
}

func (a *App) recordDelete(ctx context.Context, id int64) error {
	ok, err := Confirm(a.reader, fmt.Sprintf("Really delete climb record %d?", id), a.out)
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

	if err := a.api.DeleteRecord(ctx, creds, id); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Deleted climb record %d.\n", id)
	return nil
}

// recordAttach reserves a photo slot on the record, then uploads the file
// straight to the presigned URL the server handed back.
func (a *App) recordAttach(ctx context.Context, id int64, args []string) error {
	fs := flag.NewFlagSet("records attach", flag.ContinueOnError)
	file := fs.String("file", "", "path to the photo file")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-file"})); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("%w: -file is required", errUsage)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return err
	}

	creds, err := a.promptCredentials()
	if err != nil {
		return err
	}

	uploadURL, err := a.api.AttachPhoto(ctx, creds, id)
	if err != nil {
		return err
	}

	if err := netx.UploadToPresignedURL(uploadURL, http.DetectContentType(data), data); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Uploaded photo for climb record %d.\n", id)
	return nil
}
