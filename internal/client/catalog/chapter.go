package catalog

import (
	"fmt"
	"strconv"
)

// Chapter is one row of a title's chapter list.
type Chapter struct {
	ID          string  `json:"id"`
	Number      float64 `json:"chapterNumber"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	PageCount   int     `json:"pageCount,omitempty"`
}

// Label is the short form used in listings, e.g. "Chap 12.5".
func (c Chapter) Label() string {
	return "Chap " + strconv.FormatFloat(c.Number, 'f', -1, 64)
}

// NormalizeChapter maps either chapter shape (uploaded chapters carry
// chapterNumber/pages, external ones chapter_name/chapter_api_data).
func NormalizeChapter(raw map[string]any) Chapter {
	ch := Chapter{
		ID:          firstText(raw, "id", "chapter_id", "chapter_api_data"),
		Number:      firstNumber(raw, "chapterNumber", "chapter_number", "chapter_name"),
		Description: firstText(raw, "description"),
		PageCount:   int(number(raw["pageCount"])),
	}
	if ch.PageCount == 0 {
		ch.PageCount = len(list(raw["pages"]))
	}

	ch.Title = firstText(raw, "title", "chapter_title", "filename")
	if ch.Title == "" {
		ch.Title = fmt.Sprintf("Chapter %s", strconv.FormatFloat(ch.Number, 'f', -1, 64))
	}
	return ch
}

// Neighbors returns the chapters before and after id in list order.
func Neighbors(chapters []Chapter, id string) (prev, next *Chapter) {
	for i := range chapters {
		if chapters[i].ID != id {
			continue
		}
		if i > 0 {
			prev = &chapters[i-1]
		}
		if i+1 < len(chapters) {
			next = &chapters[i+1]
		}
		return prev, next
	}
	return nil, nil
}

// ChapterContent is the page list of one chapter, ready to display.
type ChapterContent struct {
	ID     string   `json:"id"`
	Number float64  `json:"chapterNumber"`
	Title  string   `json:"title"`
	Source string   `json:"source"`
	Images []string `json:"images"`
}
