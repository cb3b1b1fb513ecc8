package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/mangareader/internal/client/client"
	"github.com/dmitrijs2005/mangareader/internal/client/session"
	"github.com/dmitrijs2005/mangareader/internal/common"
	"github.com/dmitrijs2005/mangareader/internal/logging"
)

// AdminService covers the admin dashboard: user management, title
// publishing and bulk chapter import. Every call checks the local session
// first and fails with common.ErrNotAuthenticated or common.ErrForbidden
// without contacting the backend.
type AdminService interface {
	Users(ctx context.Context) ([]session.Profile, error)
	SetUserRole(ctx context.Context, userID int64, role session.Role) (*session.Profile, error)
	SetUserActive(ctx context.Context, userID int64, active bool) (*session.Profile, error)
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
	CreateAnime(ctx context.Context, form AnimeForm) (string, error)
	MyAnimes(ctx context.Context) ([]Story, error)
	UpdateAnime(ctx context.Context, id string, upd AnimeUpdate) error
	DeleteAnime(ctx context.Context, id string) error
	UploadChaptersZip(ctx context.Context, animeID, filename string, r io.Reader) (*ChapterUploadResult, error)
}

// sessionReader is the read side of the session store.
type sessionReader interface {
	Credential() (string, bool)
	Profile() (*session.Profile, bool)
}

type adminService struct {
	client client.Client
	store  sessionReader
	logger logging.Logger
}

func NewAdminService(c client.Client, store sessionReader, logger logging.Logger) AdminService {
	return &adminService{client: c, store: store, logger: logger}
}

// ID is an identifier the backend sends either as a number or as a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*id = ""
	case string:
		*id = ID(t)
	case float64:
		*id = ID(strconv.FormatFloat(t, 'f', -1, 64))
	default:
		return fmt.Errorf("id: unexpected %T", v)
	}
	return nil
}

// AnimeForm is the payload of a new title.
type AnimeForm struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Image          string  `json:"image"`
	Type           string  `json:"type"`
	Status         string  `json:"status"`
	Category       string  `json:"category"`
	Rating         float64 `json:"rating"`
	EpisodeCount   int     `json:"episodeCount"`
	CurrentEpisode int     `json:"currentEpisode"`
	IsPublished    bool    `json:"isPublished"`
}

// NewAnimeForm returns a form with the dashboard's defaults.
func NewAnimeForm() AnimeForm {
	return AnimeForm{Type: "TV", Status: "Ongoing", IsPublished: true}
}

var (
	animeTypes    = []string{"TV", "Movie", "OVA"}
	animeStatuses = []string{"Ongoing", "Completed"}
)

func (f AnimeForm) validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrInvalidInput)
	}
	if !slices.Contains(animeTypes, f.Type) {
		return fmt.Errorf("%w: type must be one of %s", common.ErrInvalidInput, strings.Join(animeTypes, ", "))
	}
	if !slices.Contains(animeStatuses, f.Status) {
		return fmt.Errorf("%w: status must be one of %s", common.ErrInvalidInput, strings.Join(animeStatuses, ", "))
	}
	if f.Rating < 0 || f.Rating > 10 {
		return fmt.Errorf("%w: rating must be between 0 and 10", common.ErrInvalidInput)
	}
	return nil
}

// AnimeUpdate edits a title. Image is sent only when set.
type AnimeUpdate struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       *string `json:"image,omitempty"`
}

// Story is a title owned by the current admin.
type Story struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Category    string `json:"category"`
}

type CreatedChapter struct {
	Chapter float64 `json:"chapter"`
	Title   string  `json:"title"`
	Pages   int     `json:"pages"`
}

// ChapterUploadResult is the backend's report on a ZIP import. It is
// returned alongside the error on failure since it may list per-chapter
// errors.
type ChapterUploadResult struct {
	Success         bool             `json:"success"`
	Message         string           `json:"message,omitempty"`
	Error           string           `json:"error,omitempty"`
	ChaptersCreated []CreatedChapter `json:"chapters_created,omitempty"`
	TotalChapters   int              `json:"total_chapters,omitempty"`
	Errors          []string         `json:"errors,omitempty"`
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// IsImageFile reports whether name has an extension the backend accepts for images.
func IsImageFile(name string) bool {
	return slices.Contains(imageExtensions, strings.ToLower(path.Ext(name)))
}

func (a *adminService) requireAdmin() error {
	if _, ok := a.store.Credential(); !ok {
		return common.ErrNotAuthenticated
	}
	p, ok := a.store.Profile()
	if !ok {
		return common.ErrNotAuthenticated
	}
	if !p.IsAdmin() {
		return common.ErrForbidden
	}
	return nil
}

func userPath(id int64, leaf string) string {
	return "auth/admin/users/" + strconv.FormatInt(id, 10) + "/" + leaf
}

func animePath(id string) string {
	return "admin/anime/" + url.PathEscape(id)
}

func (a *adminService) Users(ctx context.Context) ([]session.Profile, error) {
	if err := a.requireAdmin(); err != nil {
		return nil, err
	}

	var resp struct {
		envelope
		Data struct {
			Users []session.Profile `json:"users"`
		} `json:"data"`
	}
	if err := a.client.GetJSON(ctx, "auth/admin/users", nil, &resp); err != nil {
		return nil, requestError(err, "Failed to load users")
	}
	if err := resp.check("Failed to load users"); err != nil {
		return nil, err
	}
	if resp.Data.Users == nil {
		return []session.Profile{}, nil
	}
	return resp.Data.Users, nil
}

type userResponse struct {
	envelope
	User *session.Profile `json:"user"`
}

func (a *adminService) SetUserRole(ctx context.Context, userID int64, role session.Role) (*session.Profile, error) {
	if err := a.requireAdmin(); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role must be admin or user", common.ErrInvalidInput)
	}

	var resp userResponse
	if err := a.client.PutJSON(ctx, userPath(userID, "role"), map[string]session.Role{"role": role}, &resp); err != nil {
		return nil, requestError(err, "Failed to update role")
	}
	if err := resp.check("Failed to update role"); err != nil {
		return nil, err
	}

	a.logger.Info(ctx, "user role changed", "user_id", userID, "role", role)
	return resp.User, nil
}

func (a *adminService) SetUserActive(ctx context.Context, userID int64, active bool) (*session.Profile, error) {
	if err := a.requireAdmin(); err != nil {
		return nil, err
	}

	var resp userResponse
	if err := a.client.PutJSON(ctx, userPath(userID, "status"), map[string]bool{"is_active": active}, &resp); err != nil {
		return nil, requestError(err, "Failed to update status")
	}
	if err := resp.check("Failed to update status"); err != nil {
		return nil, err
	}

	a.logger.Info(ctx, "user status changed", "user_id", userID, "is_active", active)
	return resp.User, nil
}

// UploadImage stores a cover image and returns its URL as the backend
// reports it (usually a /uploads/ path).
func (a *adminService) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := a.requireAdmin(); err != nil {
		return "", err
	}
	if !IsImageFile(filename) {
		return "", fmt.Errorf("%w: %s is not a jpg, png, gif or webp image", common.ErrInvalidInput, filename)
	}

	var resp struct {
		envelope
		ImageURL string `json:"image_url"`
	}
	if err := a.client.Upload(ctx, "admin/upload-image", "file", path.Base(filename), r, &resp); err != nil {
		return "", requestError(err, "Failed to upload image")
	}
	if err := resp.check("Failed to upload image"); err != nil {
		return "", err
	}
	if resp.ImageURL == "" {
		return "", &RequestError{Message: "Invalid response from server", Err: common.ErrMalformedResponse}
	}
	return resp.ImageURL, nil
}

// CreateAnime publishes a new title and returns its id, which may be empty
// if the backend does not report one.
func (a *adminService) CreateAnime(ctx context.Context, form AnimeForm) (string, error) {
	if err := a.requireAdmin(); err != nil {
		return "", err
	}
	if err := form.validate(); err != nil {
		return "", err
	}

	var resp struct {
		envelope
		ID   ID `json:"id"`
		Data struct {
			ID ID `json:"id"`
		} `json:"data"`
	}
	if err := a.client.PostJSON(ctx, "admin/anime", form, &resp); err != nil {
		return "", requestError(err, "Failed to create title")
	}
	if err := resp.check("Failed to create title"); err != nil {
		return "", err
	}

	id := common.FirstNonEmpty(string(resp.Data.ID), string(resp.ID))
	a.logger.Info(ctx, "title created", "id", id, "title", form.Title)
	return id, nil
}

// MyAnimes lists titles created by the current admin. Upload paths are
// made absolute against the backend origin.
func (a *adminService) MyAnimes(ctx context.Context) ([]Story, error) {
	if err := a.requireAdmin(); err != nil {
		return nil, err
	}

	var resp struct {
		envelope
		Data struct {
			Animes []Story `json:"animes"`
		} `json:"data"`
	}
	if err := a.client.GetJSON(ctx, "admin/animes/mine", nil, &resp); err != nil {
		return nil, requestError(err, "Failed to load stories")
	}
	if err := resp.check("Failed to load stories"); err != nil {
		return nil, err
	}

	stories := make([]Story, 0, len(resp.Data.Animes))
	for _, s := range resp.Data.Animes {
		if strings.HasPrefix(s.Image, "/uploads/") {
			s.Image = a.client.Origin() + s.Image
		}
		stories = append(stories, s)
	}
	return stories, nil
}

func (a *adminService) UpdateAnime(ctx context.Context, id string, upd AnimeUpdate) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: title id is required", common.ErrInvalidInput)
	}
	if strings.TrimSpace(upd.Title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrInvalidInput)
	}

	var resp envelope
	if err := a.client.PutJSON(ctx, animePath(id), upd, &resp); err != nil {
		return requestError(err, "Failed to update title")
	}
	return resp.check("Failed to update title")
}

func (a *adminService) DeleteAnime(ctx context.Context, id string) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: title id is required", common.ErrInvalidInput)
	}

	var resp envelope
	if err := a.client.Delete(ctx, animePath(id), &resp); err != nil {
		return requestError(err, "Failed to delete title")
	}
	if err := resp.check("Failed to delete title"); err != nil {
		return err
	}

	a.logger.Info(ctx, "title deleted", "id", id)
	return nil
}

// UploadChaptersZip imports a ZIP of chapter folders into title animeID.
// The backend's report is returned even when the import failed.
func (a *adminService) UploadChaptersZip(ctx context.Context, animeID, filename string, r io.Reader) (*ChapterUploadResult, error) {
	if err := a.requireAdmin(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(animeID) == "" {
		return nil, fmt.Errorf("%w: title id is required", common.ErrInvalidInput)
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".zip") {
		return nil, fmt.Errorf("%w: please select a valid ZIP file", common.ErrInvalidInput)
	}

	const fallback = "Error uploading chapters"

	var result ChapterUploadResult
	err := a.client.Upload(ctx, animePath(animeID)+"/upload-chapters-zip", "file", path.Base(filename), r, &result)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && json.Unmarshal(apiErr.Body, &result) == nil {
			return &result, &RequestError{Message: common.FirstNonEmpty(result.Error, result.Message, apiErr.Message, fallback), Err: err}
		}
		return nil, requestError(err, fallback)
	}
	if !result.Success {
		return &result, &RequestError{Message: common.FirstNonEmpty(result.Error, result.Message, fallback)}
	}

	a.logger.Info(ctx, "chapters imported", "id", animeID, "total", result.TotalChapters, "errors", len(result.Errors))
	return &result, nil
}
