package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ttakano/climblog/internal/common"
)

const usage = `Usage: climblog <command> [arguments]

Commands:
  ping                                     check server availability
  mountains list [-q name]                 list mountains
  mountains get <id>                       show one mountain
  mountains create -name N -prefecture P -elevation E
  mountains update <id> [-name N] [-prefecture P] [-elevation E]
  mountains delete <id>
  records list [-mountain id]              list climb records
  records get <id>                         show one record
  records create -mountain id -date YYYY-MM-DD [-comment text]
  records update <id> [-date YYYY-MM-DD] [-comment text] [-mountain id]
  records delete <id>
  records attach <id> -file photo.jpg      upload a photo for a record
  users list                               list accounts (staff only)
  register -username U [-email E]          create an account

Global flags: -a server base URL, -t timeout seconds, -c config file`

var errUsage = errors.New("usage error")

// Root parses the command words and dispatches. Flags belonging to the
// launcher (-a, -t, -c) may appear anywhere; each command picks out only
// the flags it owns.
func (a *App) Root(ctx context.Context, args []string) error {

	words := commandWords(args)
	if len(words) == 0 {
		fmt.Fprintln(a.errOut, usage)
		return errUsage
	}

	var err error
	switch words[0] {
	case "ping":
		err = a.ping(ctx)
	case "mountains":
		err = a.mountainsCmd(ctx, words[1:], args)
	case "records":
		err = a.recordsCmd(ctx, words[1:], args)
	case "users":
		err = a.usersCmd(ctx, words[1:])
	case "register":
		err = a.registerCmd(ctx, args)
	case "help":
		fmt.Fprintln(a.out, usage)
		return nil
	default:
		fmt.Fprintf(a.errOut, "Unknown command: %s\n\n%s\n", words[0], usage)
		return errUsage
	}

	if err != nil {
		a.reportError(err)
	}
	return err
}

// commandWords returns the leading arguments that are not flags or flag
// values, i.e. the command, subcommand and a possible positional id.
func commandWords(args []string) []string {
	var words []string
	for _, arg := range args {
		if len(arg) > 0 && arg[0] == '-' {
			break
		}
		words = append(words, arg)
	}
	return words
}

// positionalID parses the required <id> word of a subcommand.
func positionalID(words []string) (int64, error) {
	if len(words) == 0 {
		return 0, fmt.Errorf("%w: missing id", errUsage)
	}
	id, err := strconv.ParseInt(words[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id must be a number", errUsage)
	}
	return id, nil
}

func (a *App) ping(ctx context.Context) error {
	if err := a.api.Ping(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "OK")
	return nil
}

// reportError translates the shared error taxonomy into messages for a
// person at a terminal.
func (a *App) reportError(err error) {

	var ve *common.ValidationError
	if errors.As(err, &ve) {
		fmt.Fprintln(a.errOut, "Error: the server rejected the input:")
		for field, messages := range ve.Fields {
			for _, msg := range messages {
				fmt.Fprintf(a.errOut, "- %s: %s\n", field, msg)
			}
		}
		return
	}

	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
	case errors.Is(err, common.ErrorUnauthenticated), errors.Is(err, common.ErrorForbidden):
		fmt.Fprintln(a.errOut, "Error: authentication failed or you do not have permission for this operation.")
	case errors.Is(err, common.ErrorNotFound):
		fmt.Fprintln(a.errOut, "Error: the requested resource was not found. Check the id.")
	case errors.Is(err, common.ErrorTransport):
		fmt.Fprintln(a.errOut, "Error: could not reach the server. Is it running?")
	default:
		fmt.Fprintf(a.errOut, "Unexpected error: %v\n", err)
	}
}
