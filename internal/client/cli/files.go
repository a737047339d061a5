package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/storeit/internal/api"
	"github.com/dmitrijs2005/storeit/internal/client/client"
	"github.com/dmitrijs2005/storeit/internal/details"
	"github.com/dmitrijs2005/storeit/internal/netx"
)

// revalidatePath is the view path the server invalidates after a mutation.
const revalidatePath = "/"

var errUsage = errors.New("wrong arguments")

// readFile and download are test seams.
var (
	readFile = os.ReadFile
	download = netx.Download
)

// Upload sends a local file: upload <path>
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: upload <path>")
		return errUsage
	}

	content, err := readFile(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	f, err := a.client.Upload(ctx, filepath.Base(args[0]), content, revalidatePath)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Uploaded %s (%s, %s)\n", f.Name, f.ID, details.FormatSize(f.Size))
	return nil
}

// List prints the files visible to the current user as a table.
func (a *App) List(ctx context.Context, _ []string) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	files, err := a.client.List(ctx)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		fmt.Fprintln(a.out, "No files")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSIZE\tOWNER\tUPDATED")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			f.ID, f.Name, f.Type, details.FormatSize(f.Size), f.Owner.FullName, details.FormatTime(f.UpdatedAt))
	}
	return tw.Flush()
}

// Details prints the details panel of one file: details <id>
func (a *App) Details(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: details <id>")
		return errUsage
	}

	f, err := a.findFile(ctx, args[0])
	if err != nil {
		return err
	}
	return details.Render(a.out, f)
}

// Rename changes the base name and keeps the extension: rename <id> <name>
func (a *App) Rename(ctx context.Context, args []string) error {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "Usage: rename <id> <name>")
		return errUsage
	}

	f, err := a.findFile(ctx, args[0])
	if err != nil {
		return err
	}

	name := strings.Join(args[1:], " ")
	if f.Extension != "" {
		name = strings.TrimSuffix(name, "."+f.Extension)
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	updated, err := a.client.Rename(ctx, f.ID, name, f.Extension, revalidatePath)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Renamed to", updated.Name)
	return nil
}

// Share replaces the list of users a file is shared with:
// share <id> [email...]. Without emails they are read one per line.
func (a *App) Share(ctx context.Context, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(a.out, "Usage: share <id> [email...]")
		return errUsage
	}

	emails := args[1:]
	if len(emails) == 0 {
		var err error
		emails, err = getLines(a.reader, "Enter emails to share with", a.out)
		if err != nil {
			return err
		}
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	f, err := a.client.Share(ctx, args[0], emails, revalidatePath)
	if err != nil {
		return err
	}

	if len(f.Users) == 0 {
		fmt.Fprintln(a.out, "Not shared with anyone")
		return nil
	}
	fmt.Fprintln(a.out, "Shared with", strings.Join(f.Users, ", "))
	return nil
}

// Delete removes a file and its stored object: delete <id>
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: delete <id>")
		return errUsage
	}

	f, err := a.findFile(ctx, args[0])
	if err != nil {
		return err
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.client.Delete(ctx, f.ID, f.BucketFileID, revalidatePath); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Deleted", f.Name)
	return nil
}

// Download saves a file's content locally: download <id> [dest]
// The destination defaults to the file name in the current directory.
func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(a.out, "Usage: download <id> [dest]")
		return errUsage
	}

	f, err := a.findFile(ctx, args[0])
	if err != nil {
		return err
	}
	if f.URL == "" {
		return fmt.Errorf("file %s has no download URL", f.ID)
	}

	var dest string
	if len(args) == 2 {
		dest = args[1]
	} else if dest, err = localName(f.Name); err != nil {
		return err
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	n, err := download(ctx, f.URL, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return err
	}

	fmt.Fprintf(a.out, "Saved %s (%s)\n", dest, details.FormatSize(n))
	return nil
}

// localName reduces a stored file name to a bare name in the current
// directory. Names are chosen by whoever renamed the file last.
func localName(name string) (string, error) {
	base := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(name, "\\", "/")))
	switch base {
	case "", ".", "..", "/":
		return "", fmt.Errorf("file name %q cannot be used as a local path, pass a destination", name)
	}
	return base, nil
}

func (a *App) findFile(ctx context.Context, id string) (*api.File, error) {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	files, err := a.client.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, client.ErrNotFound
}
