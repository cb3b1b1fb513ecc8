package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mangareader/internal/client/catalog"
)

const (
	feedAll      = "all"
	feedNew      = "new"
	feedTrending = "trending"
)

// Browse prints one page of a catalog feed: "all", "new" or "trending".
func (a *App) Browse(ctx context.Context, feed string, args []string) error {
	page, err := pageArg(args, 0)
	if err != nil {
		return a.report(err)
	}

	var r catalog.Result
	switch feed {
	case feedNew:
		r = a.catalog.NewReleases(ctx, page)
	case feedTrending:
		r = a.catalog.Trending(ctx, page)
	default:
		r = a.catalog.List(ctx, page)
	}
	printResult(a.out, r, page)
	return nil
}

// Search runs a one-shot search: search <query...> [page]. A trailing
// number is taken as the page.
func (a *App) Search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("search <query> [page]")
	}

	page := 1
	if len(args) > 1 {
		if p, err := pageArg(args, len(args)-1); err == nil {
			page = p
			args = args[:len(args)-1]
		}
	}

	q := strings.Join(args, " ")
	printResult(a.out, a.catalog.Search(ctx, q, page), page)
	return nil
}

// Find is the live search: every line typed replaces the query, and a
// request goes out only once typing pauses. An empty line leaves.
func (a *App) Find(ctx context.Context) error {
	fmt.Fprintln(a.out, "Type to search, empty line to finish")

	s := catalog.NewSearcher(a.catalog, a.searchDelay, func(query string, r catalog.Result) {
		fmt.Fprintf(a.out, "Results for %q:\n", query)
		printResult(a.out, r, 1)
	})
	defer s.Close()

	for {
		line, err := a.reader.ReadString('\n')
		q := strings.TrimSpace(line)
		if q == "" || err != nil {
			if q != "" {
				s.Submit(ctx, q)
			}
			s.Flush()
			return nil
		}
		s.Submit(ctx, q)
	}
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("show <id>")
	}
	e := a.catalog.Get(ctx, args[0])
	if e == nil {
		fmt.Fprintln(a.out, "Title not found")
		return nil
	}
	printEntry(a.out, e)
	return nil
}

// Chapters lists a title's chapters and remembers them for read's
// previous/next hints.
func (a *App) Chapters(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("chapters <id> [page]")
	}
	page, err := pageArg(args, 1)
	if err != nil {
		return a.report(err)
	}

	chapters := a.catalog.Chapters(ctx, args[0], page)

	a.mu.Lock()
	a.lastChapters = chapters
	a.mu.Unlock()

	if len(chapters) == 0 {
		fmt.Fprintln(a.out, "No chapters")
		return nil
	}
	for _, ch := range chapters {
		fmt.Fprintf(a.out, "%-26s %-10s %s\n", ch.ID, ch.Label(), ch.Title)
	}
	return nil
}

// Read prints the page images of a chapter in order.
func (a *App) Read(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("read <chapterId>")
	}

	c := a.catalog.ChapterContent(ctx, args[0])
	if c == nil {
		fmt.Fprintln(a.out, "Chapter not found")
		return nil
	}

	fmt.Fprintf(a.out, "%s (%d pages, %s)\n", c.Title, len(c.Images), c.Source)
	for i, img := range c.Images {
		fmt.Fprintf(a.out, "%3d  %s\n", i+1, img)
	}

	a.mu.Lock()
	prev, next := catalog.Neighbors(a.lastChapters, args[0])
	a.mu.Unlock()
	if prev != nil {
		fmt.Fprintf(a.out, "previous: read %s (%s)\n", prev.ID, prev.Label())
	}
	if next != nil {
		fmt.Fprintf(a.out, "next:     read %s (%s)\n", next.ID, next.Label())
	}
	return nil
}
