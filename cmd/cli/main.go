package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"filedesk/internal/client"
	"filedesk/internal/config"
	models "filedesk/internal/domain/models/docsystem"
	docsysSvc "filedesk/internal/domain/services/docsystem"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
)

const helpText = `commands:
  list                  refresh the current page
  next | prev           move one page
  page N                jump to page N
  rows N                set rows per page
  search [text]         filter by name (blank clears)
  select KEY|all        toggle a row, e.g. document-3 or folder-1
  selected              show the selection
  clear                 clear the selection
  delete                delete every selected row
  mkdir NAME            create a folder holding the selected documents
  upload [-f ID] PATH.. record local files, optionally into folder ID
  help | quit`

// terminal serializes output; debounced searches render from another goroutine
type terminal struct {
	mu  sync.Mutex
	out io.Writer
}

func (t *terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

func (t *terminal) render(s client.State) {
	t.mu.Lock()
	defer t.mu.Unlock()

	selected := make(map[string]bool, len(s.Selected))
	for _, k := range s.Selected {
		selected[k] = true
	}

	if s.Query != "" {
		fmt.Fprintf(t.out, "search: %q\n", s.Query)
	}
	tw := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tKEY\tNAME\tSIZE\tCREATED")
	for _, e := range s.Entries {
		mark := " "
		if selected[e.Key()] {
			mark = "*"
		}
		size := "-"
		if e.Kind == models.EntryKindDocument {
			size = e.Document.FileSize
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", mark, e.Key(), e.Name(), size, humanize.Time(e.CreatedAt()))
	}
	tw.Flush()
	fmt.Fprintf(t.out, "page %d of %d (%d items, %d selected)\n", s.Page, s.TotalPages, s.Total, len(s.Selected))
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	userID := flag.Int64("user", 1, "ID of the user whose files are listed")
	apiURL := flag.String("api", cfg.APIURL, "Base URL of the filedesk API")
	rows := flag.Int("rows", config.DefaultListLimit, "Rows per page")
	flag.Parse()

	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	term := &terminal{out: os.Stdout}
	api := client.New(*apiURL, client.WithTimeout(15*time.Second))
	browser := client.NewBrowser(api, *userID,
		client.WithRowsPerPage(*rows),
		client.WithLogger(logger),
		client.WithContext(ctx),
		client.WithOnChange(term.render),
		client.WithOnError(func(err error) { term.printf("error: %v\n", err) }),
	)

	if err := browser.Refresh(ctx); err != nil {
		log.Fatalf("Failed to load listing: %v", err)
	}

	app := &app{api: api, browser: browser, term: term, userID: *userID}
	scanner := bufio.NewScanner(os.Stdin)
	for {
		term.printf("> ")
		if !scanner.Scan() {
			return
		}
		quit, err := app.run(ctx, scanner.Text())
		if err != nil {
			term.printf("error: %v\n", err)
		}
		if quit {
			return
		}
	}
}

type app struct {
	api     *client.Client
	browser *client.Browser
	term    *terminal
	userID  int64
}

// run executes one command line. Successful refreshes render through the
// browser's change callback.
func (a *app) run(ctx context.Context, line string) (bool, error) {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		a.term.printf("%s\n", helpText)
	case "list":
		return false, a.browser.Refresh(ctx)
	case "next":
		return false, a.browser.NextPage(ctx)
	case "prev":
		return false, a.browser.PrevPage(ctx)
	case "page", "rows":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return false, fmt.Errorf("%s needs a number", cmd)
		}
		if cmd == "page" {
			return false, a.browser.GoToPage(ctx, n)
		}
		return false, a.browser.SetRowsPerPage(ctx, n)
	case "search":
		a.browser.TypeSearch(rest)
	case "select":
		if rest == "all" {
			a.browser.SelectPage()
		} else {
			for _, key := range strings.Fields(rest) {
				if err := a.browser.Toggle(key); err != nil {
					return false, err
				}
			}
		}
		a.term.render(a.browser.State())
	case "selected":
		a.term.printf("%s\n", strings.Join(a.browser.Selected(), " "))
	case "clear":
		a.browser.ClearSelection()
		a.term.render(a.browser.State())
	case "delete":
		res, err := a.browser.DeleteSelected(ctx)
		a.term.printf("deleted %d documents, %d folders\n", res.Documents, res.Folders)
		return false, err
	case "mkdir":
		return false, a.mkdir(ctx, rest)
	case "upload":
		return false, a.upload(ctx, strings.Fields(rest))
	default:
		return false, fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return false, nil
}

func (a *app) mkdir(ctx context.Context, name string) error {
	documentIDs, _ := client.PartitionSelection(a.browser.Selected())
	folder, err := a.api.CreateFolder(ctx, &docsysSvc.CreateFolderRequest{
		UserID:      a.userID,
		Name:        name,
		DocumentIDs: documentIDs,
	})
	if err != nil {
		return err
	}
	a.term.printf("created folder %s with %d documents\n", folder.Name, len(documentIDs))
	a.browser.ClearSelection()
	return a.browser.Refresh(ctx)
}

func (a *app) upload(ctx context.Context, args []string) error {
	var folderID *int64
	if len(args) >= 2 && args[0] == "-f" {
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid folder id %q", args[1])
		}
		folderID = &id
		args = args[2:]
	}
	if len(args) == 0 {
		return fmt.Errorf("upload needs at least one path")
	}

	files := make([]client.UploadCandidate, 0, len(args))
	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		files = append(files, client.UploadCandidate{Name: filepath.Base(path), Size: info.Size()})
	}

	res := client.UploadAll(ctx, a.api, a.userID, folderID, files)
	for _, doc := range res.Uploaded {
		a.term.printf("uploaded %s (%s)\n", doc.Name, doc.FileSize)
	}
	for _, e := range res.Errors {
		a.term.printf("  %s: %s\n", e.Name, e.Reason)
	}
	if len(res.Uploaded) == 0 {
		return nil
	}
	return a.browser.Refresh(ctx)
}
