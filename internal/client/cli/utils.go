package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/mangareader/internal/client/catalog"
	"github.com/dmitrijs2005/mangareader/internal/client/client"
	"github.com/dmitrijs2005/mangareader/internal/common"
)

// report prints a user-facing message for err and returns it unchanged.
func (a *App) report(err error) error {
	fmt.Fprintln(a.out, "Error:", userMessage(err))
	return err
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrNotAuthenticated):
		return "please log in first"
	case errors.Is(err, common.ErrForbidden):
		return "admin role required"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later"
	}
	return err.Error()
}

// usage reports a missing or malformed argument.
func (a *App) usage(text string) error {
	fmt.Fprintln(a.out, "Usage:", text)
	return common.ErrInvalidInput
}

// pageArg parses args[i] as a 1-based page number, defaulting to 1.
func pageArg(args []string, i int) (int, error) {
	if len(args) <= i {
		return 1, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: bad page %q", common.ErrInvalidInput, args[i])
	}
	return n, nil
}

func idArg(args []string, i int) (int64, error) {
	if len(args) <= i {
		return 0, common.ErrInvalidInput
	}
	n, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: bad id %q", common.ErrInvalidInput, args[i])
	}
	return n, nil
}

func printResult(w io.Writer, r catalog.Result, page int) {
	if len(r.Items) == 0 {
		fmt.Fprintln(w, "No titles found")
		return
	}
	for _, e := range r.Items {
		fmt.Fprintf(w, "%-26s %s [%s, %s] %s\n", e.ID, e.Title, e.Kind, e.Status, e.CurrentEpisodeLabel)
	}
	fmt.Fprintf(w, "page %d of %d (%d titles)\n", page, max(r.TotalPages, 1), r.TotalItems)
}

func printEntry(w io.Writer, e *catalog.Entry) {
	fmt.Fprintf(w, "%s\n", e.Title)
	fmt.Fprintf(w, "  id:       %s\n", e.ID)
	fmt.Fprintf(w, "  type:     %s / %s / %s\n", e.Kind, e.Status, e.Category)
	fmt.Fprintf(w, "  episodes: %s of %d\n", e.CurrentEpisodeLabel, e.EpisodeCount)
	fmt.Fprintf(w, "  rating:   %.1f  views: %d\n", e.Rating, e.ViewCount)
	if e.ImageURL != "" {
		fmt.Fprintf(w, "  image:    %s\n", e.ImageURL)
	}
	if d := strings.TrimSpace(e.Description); d != "" {
		fmt.Fprintf(w, "\n%s\n", d)
	}
}
