package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/mangareader/internal/common"
	"github.com/dmitrijs2005/mangareader/internal/logging"
)

const (
	sourceDatabase = "database"
	sourceDefault  = "otruyen"
)

// Result is one page of catalog entries.
type Result struct {
	Items      []Entry `json:"items"`
	TotalItems int     `json:"totalItems"`
	TotalPages int     `json:"totalPages"`
}

func emptyResult() Result {
	return Result{Items: []Entry{}}
}

// Backend is the part of the HTTP transport the catalog needs.
type Backend interface {
	GetJSON(ctx context.Context, path string, query url.Values, out any) error
	Origin() string
}

type Service struct {
	backend Backend
	logger  logging.Logger
}

func NewService(b Backend, logger logging.Logger) *Service {
	return &Service{backend: b, logger: logger}
}

type listEnvelope struct {
	Data *struct {
		Items  []map[string]any `json:"items"`
		Params struct {
			Pagination struct {
				TotalItems        flexInt `json:"totalItems"`
				TotalItemsPerPage flexInt `json:"totalItemsPerPage"`
			} `json:"pagination"`
		} `json:"params"`
	} `json:"data"`
}

// List returns one page of the full catalog.
func (s *Service) List(ctx context.Context, page int) Result {
	return s.fetchList(ctx, "danh-sach", pageQuery(page), "list")
}

// Trending reads the same listing as List; the backend has no separate
// ranking endpoint.
func (s *Service) Trending(ctx context.Context, page int) Result {
	return s.fetchList(ctx, "danh-sach", pageQuery(page), "trending")
}

func (s *Service) NewReleases(ctx context.Context, page int) Result {
	return s.fetchList(ctx, "danh-sach/truyen-moi", pageQuery(page), "new releases")
}

// Search returns the empty result without a request for a blank query.
func (s *Service) Search(ctx context.Context, query string, page int) Result {
	if strings.TrimSpace(query) == "" {
		return emptyResult()
	}
	q := pageQuery(page)
	q.Set("keyword", query)
	return s.fetchList(ctx, "danh-sach", q, "search")
}

func (s *Service) fetchList(ctx context.Context, path string, query url.Values, op string) Result {
	var env listEnvelope
	if err := s.backend.GetJSON(ctx, path, query, &env); err != nil {
		s.logger.Warn(ctx, "catalog request failed", "op", op, "error", err)
		return emptyResult()
	}
	if env.Data == nil {
		s.logger.Warn(ctx, "catalog response without data", "op", op)
		return emptyResult()
	}

	items := make([]Entry, 0, len(env.Data.Items))
	for _, raw := range env.Data.Items {
		items = append(items, Normalize(raw))
	}

	p := env.Data.Params.Pagination
	total := int(p.TotalItems)
	if total == 0 {
		total = len(items)
	}
	perPage := int(p.TotalItemsPerPage)
	if perPage <= 0 {
		perPage = common.DefaultPageSize
	}

	return Result{
		Items:      items,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(perPage))),
	}
}

// Get returns the detail record for id, or nil when it cannot be loaded.
func (s *Service) Get(ctx context.Context, id string) *Entry {
	if strings.TrimSpace(id) == "" {
		return nil
	}

	var env struct {
		Data map[string]any `json:"data"`
	}
	if err := s.backend.GetJSON(ctx, "truyen-tranh/"+url.PathEscape(id), nil, &env); err != nil {
		s.logger.Warn(ctx, "catalog request failed", "op", "get", "id", id, "error", err)
		return nil
	}

	record := object(env.Data["item"])
	if record == nil {
		record = env.Data
	}
	if record == nil {
		return nil
	}
	e := Normalize(record)
	return &e
}

// Chapters returns one page of a title's chapter list; empty on failure.
func (s *Service) Chapters(ctx context.Context, animeID string, page int) []Chapter {
	var env struct {
		Data struct {
			Items []map[string]any `json:"items"`
		} `json:"data"`
	}
	path := "comic/" + url.PathEscape(animeID) + "/chapters"
	if err := s.backend.GetJSON(ctx, path, pageQuery(page), &env); err != nil {
		s.logger.Warn(ctx, "catalog request failed", "op", "chapters", "id", animeID, "error", err)
		return []Chapter{}
	}

	chapters := make([]Chapter, 0, len(env.Data.Items))
	for _, raw := range env.Data.Items {
		chapters = append(chapters, NormalizeChapter(raw))
	}
	return chapters
}

var errChapterStatus = errors.New("chapter request not successful")

// ChapterContent loads the page images of a chapter, or nil on failure.
func (s *Service) ChapterContent(ctx context.Context, chapterID string) *ChapterContent {
	content, err := s.chapterContent(ctx, chapterID)
	if err != nil {
		s.logger.Warn(ctx, "catalog request failed", "op", "chapter", "id", chapterID, "error", err)
		return nil
	}
	return content
}

func (s *Service) chapterContent(ctx context.Context, chapterID string) (*ChapterContent, error) {
	var env struct {
		Status string `json:"status"`
		Data   struct {
			Item   map[string]any `json:"item"`
			Source string         `json:"source"`
		} `json:"data"`
	}
	if err := s.backend.GetJSON(ctx, "chapter", url.Values{"id": {chapterID}}, &env); err != nil {
		return nil, err
	}
	if env.Status != "success" {
		return nil, fmt.Errorf("%w: status %q", errChapterStatus, env.Status)
	}
	item := env.Data.Item
	if item == nil {
		return nil, common.ErrMalformedResponse
	}

	source := common.FirstNonEmpty(env.Data.Source, sourceDefault)
	content := &ChapterContent{
		ID:     text(item["id"]),
		Number: firstNumber(item, "chapterNumber", "chapter_number"),
		Title:  text(item["title"]),
		Source: source,
	}

	if source == sourceDatabase {
		content.Images = s.databasePages(list(item["pages"]))
	} else {
		content.Images = externalImages(list(item["images"]))
	}
	return content, nil
}

// databasePages orders uploaded pages by pageNumber and makes relative
// upload paths absolute against the backend origin.
func (s *Service) databasePages(pages []any) []string {
	type page struct {
		n   float64
		url string
	}
	ordered := make([]page, 0, len(pages))
	for _, p := range pages {
		m := object(p)
		ordered = append(ordered, page{
			n:   number(m["pageNumber"]),
			url: firstText(m, "imageUrl", "image_url", "url"),
		})
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].n < ordered[j].n })

	images := make([]string, 0, len(ordered))
	for _, p := range ordered {
		if p.url == "" {
			continue
		}
		images = append(images, s.ResolveAsset(p.url))
	}
	return images
}

func externalImages(items []any) []string {
	images := make([]string, 0, len(items))
	for _, it := range items {
		u := text(it)
		if u == "" {
			u = firstText(object(it), "image_url", "imageUrl", "url", "src")
		}
		if u != "" {
			images = append(images, u)
		}
	}
	return images
}

// ResolveAsset prefixes root-relative paths such as /uploads/x.jpg with the
// backend origin. Absolute URLs are returned unchanged.
func (s *Service) ResolveAsset(u string) string {
	if strings.HasPrefix(u, "/") && !strings.HasPrefix(u, "//") {
		return s.backend.Origin() + u
	}
	return u
}

func pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}
