package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/mangareader/internal/client/services"
	"github.com/dmitrijs2005/mangareader/internal/client/session"
	"github.com/dmitrijs2005/mangareader/internal/common"
)

func (a *App) Users(ctx context.Context) error {
	users, err := a.adminService.Users(ctx)
	if err != nil {
		return a.report(err)
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tROLE\tACTIVE")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n", u.ID, u.Username, u.Email, u.Role, u.IsActive)
	}
	return tw.Flush()
}

// SetRole handles: role <userId> <admin|user>.
func (a *App) SetRole(ctx context.Context, args []string) error {
	id, err := idArg(args, 0)
	if err != nil || len(args) < 2 {
		return a.usage("role <userId> <admin|user>")
	}

	u, err := a.adminService.SetUserRole(ctx, id, session.Role(args[1]))
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "%s is now %s\n", u.Username, u.Role)
	return nil
}

func (a *App) SetActive(ctx context.Context, args []string, active bool) error {
	id, err := idArg(args, 0)
	if err != nil {
		if active {
			return a.usage("activate <userId>")
		}
		return a.usage("deactivate <userId>")
	}

	u, err := a.adminService.SetUserActive(ctx, id, active)
	if err != nil {
		return a.report(err)
	}
	state := "deactivated"
	if u.IsActive {
		state = "activated"
	}
	fmt.Fprintf(a.out, "%s %s\n", u.Username, state)
	return nil
}

// Mine lists the titles owned by the current admin.
func (a *App) Mine(ctx context.Context) error {
	stories, err := a.adminService.MyAnimes(ctx)
	if err != nil {
		return a.report(err)
	}
	if len(stories) == 0 {
		fmt.Fprintln(a.out, "You have not published any titles yet")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tSTATUS")
	for _, s := range stories {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Title, s.Type, s.Status)
	}
	return tw.Flush()
}

// Create walks through the new-title form. Blank answers keep the defaults.
func (a *App) Create(ctx context.Context) error {
	if !a.isAdmin() {
		return a.report(requireAdminErr(a.isLoggedIn()))
	}

	form := services.NewAnimeForm()

	var err error
	if form.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if form.Description, err = GetMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}

	image, err := getSimpleText(a.reader, "Cover image (URL or local file, blank for none)", a.out)
	if err != nil {
		return err
	}
	if form.Image, err = a.resolveImage(ctx, image); err != nil {
		return a.report(err)
	}

	if form.Type, err = a.askDefault("Type (TV, Movie, OVA)", form.Type); err != nil {
		return err
	}
	if form.Status, err = a.askDefault("Status (Ongoing, Completed)", form.Status); err != nil {
		return err
	}
	if form.Category, err = a.askDefault("Category", form.Category); err != nil {
		return err
	}

	rating, err := a.askDefault("Rating 0-10", "0")
	if err != nil {
		return err
	}
	if form.Rating, err = strconv.ParseFloat(rating, 64); err != nil {
		return a.report(fmt.Errorf("%w: bad rating %q", common.ErrInvalidInput, rating))
	}

	episodes, err := a.askDefault("Episode count", "0")
	if err != nil {
		return err
	}
	if form.EpisodeCount, err = strconv.Atoi(episodes); err != nil {
		return a.report(fmt.Errorf("%w: bad episode count %q", common.ErrInvalidInput, episodes))
	}

	id, err := a.adminService.CreateAnime(ctx, form)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Created %q with id %s\n", form.Title, id)
	return nil
}

// Edit handles: edit <id>. Blank answers keep the current value.
func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("edit <id>")
	}

	stories, err := a.adminService.MyAnimes(ctx)
	if err != nil {
		return a.report(err)
	}
	var cur *services.Story
	for i := range stories {
		if string(stories[i].ID) == args[0] {
			cur = &stories[i]
			break
		}
	}
	if cur == nil {
		fmt.Fprintln(a.out, "Title not found among your titles")
		return common.ErrInvalidInput
	}

	upd := services.AnimeUpdate{}
	if upd.Title, err = a.askDefault("Title", cur.Title); err != nil {
		return err
	}
	desc, err := GetMultiline(a.reader, "Description (blank keeps the current one)", a.out)
	if err != nil {
		return err
	}
	upd.Description = common.FirstNonEmpty(desc, cur.Description)

	image, err := getSimpleText(a.reader, "New cover image (URL or local file, blank keeps the current one)", a.out)
	if err != nil {
		return err
	}
	if image != "" {
		u, err := a.resolveImage(ctx, image)
		if err != nil {
			return a.report(err)
		}
		upd.Image = &u
	}

	if err := a.adminService.UpdateAnime(ctx, string(cur.ID), upd); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Updated")
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("delete <id>")
	}

	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete %s and all its chapters? (yes/no)", args[0]), a.out)
	if err != nil {
		return err
	}
	if answer != "yes" && answer != "y" {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.adminService.DeleteAnime(ctx, args[0]); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}

// UploadImage handles: upload-image <path>.
func (a *App) UploadImage(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("upload-image <path>")
	}
	u, err := a.uploadImageFile(ctx, args[0])
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Uploaded:", u)
	return nil
}

// UploadZip handles: upload-zip <animeId> <source>, where source is a .zip
// file, a directory of chapter folders or an s3://bucket/key URI.
func (a *App) UploadZip(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return a.usage("upload-zip <animeId> <file.zip|dir|s3://bucket/key>")
	}
	if !a.isAdmin() {
		return a.report(requireAdminErr(a.isLoggedIn()))
	}

	arc, err := a.archives.Load(ctx, args[1])
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Uploading %s: %d images in %d chapter folders\n", arc.Name, arc.Summary.Images, len(arc.Summary.Chapters))

	res, err := a.adminService.UploadChaptersZip(ctx, args[0], arc.Name, arc.Reader())
	if res != nil {
		for _, ch := range res.ChaptersCreated {
			fmt.Fprintf(a.out, "  chapter %g: %s (%d pages)\n", ch.Chapter, ch.Title, ch.Pages)
		}
		for _, e := range res.Errors {
			fmt.Fprintf(a.out, "  error: %s\n", e)
		}
	}
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "%s (%d chapters)\n", common.FirstNonEmpty(res.Message, "Upload complete"), res.TotalChapters)
	return nil
}

// resolveImage turns the answer to an image prompt into a URL: blank stays
// blank, an existing local file is uploaded first, anything else is used
// as given.
func (a *App) resolveImage(ctx context.Context, answer string) (string, error) {
	if answer == "" {
		return "", nil
	}
	if st, err := os.Stat(answer); err == nil && !st.IsDir() {
		return a.uploadImageFile(ctx, answer)
	}
	return answer, nil
}

func (a *App) uploadImageFile(ctx context.Context, p string) (string, error) {
	name := filepath.Base(p)
	if !services.IsImageFile(name) {
		return "", fmt.Errorf("%w: %s is not an image (jpg, jpeg, png, gif, webp)", common.ErrInvalidInput, name)
	}

	f, err := os.Open(p)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return a.adminService.UploadImage(ctx, name, f)
}

func (a *App) askDefault(prompt, def string) (string, error) {
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, def)
	}
	v, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	return common.FirstNonEmpty(v, def), nil
}

func requireAdminErr(loggedIn bool) error {
	if !loggedIn {
		return common.ErrNotAuthenticated
	}
	return common.ErrForbidden
}
