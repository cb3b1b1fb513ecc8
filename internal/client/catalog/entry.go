package catalog

import "strings"

const (
	defaultKind     = "Manga"
	defaultStatus   = "Ongoing"
	defaultCategory = "Manga"
	noEpisodeLabel  = "N/A"
)

// Entry is the normalized catalog record.
type Entry struct {
	ID                  string  `json:"id"`
	Title               string  `json:"title"`
	ImageURL            string  `json:"imageUrl"`
	Description         string  `json:"description"`
	EpisodeCount        int     `json:"episodeCount"`
	CurrentEpisodeLabel string  `json:"currentEpisode"`
	Rating              float64 `json:"rating"`
	ViewCount           int64   `json:"viewCount"`
	Kind                string  `json:"type"`
	Status              string  `json:"status"`
	Category            string  `json:"category"`
	Slug                string  `json:"slug,omitempty"`
}

// Normalize maps a raw backend record onto Entry. For every field the
// primary key ("_id", "name", "thumb_url", "content") wins over its fallback
// ("id", "title", "image", "description"). Absent, empty or zero values fall
// through to the next candidate and finally to a fixed default.
func Normalize(raw map[string]any) Entry {
	latest := list(raw["chaptersLatest"])

	e := Entry{
		ID:          firstText(raw, "_id", "id"),
		Title:       firstText(raw, "name", "title"),
		ImageURL:    firstText(raw, "thumb_url", "image"),
		Description: firstText(raw, "content", "description"),
		Rating:      number(raw["rating"]),
		ViewCount:   int64(number(raw["view_count"])),
		Kind:        firstText(raw, "type"),
		Status:      firstText(raw, "status"),
		Category:    category(raw["category"]),
		Slug:        firstText(raw, "slug"),
	}

	e.EpisodeCount = int(number(raw["episode_count"]))
	if e.EpisodeCount == 0 {
		e.EpisodeCount = len(latest)
	}

	e.CurrentEpisodeLabel = firstText(raw, "current_episode")
	if e.CurrentEpisodeLabel == "" && len(latest) > 0 {
		e.CurrentEpisodeLabel = text(object(latest[0])["chapter_name"])
	}
	if e.CurrentEpisodeLabel == "" {
		e.CurrentEpisodeLabel = noEpisodeLabel
	}

	if e.Kind == "" {
		e.Kind = defaultKind
	}
	if e.Status == "" {
		e.Status = defaultStatus
	}
	if e.Category == "" {
		e.Category = defaultCategory
	}
	return e
}

// category accepts a plain string, a list of strings or a list of {name} objects.
func category(v any) string {
	if s := text(v); s != "" {
		return s
	}
	var names []string
	for _, item := range list(v) {
		name := text(item)
		if name == "" {
			name = text(object(item)["name"])
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}
