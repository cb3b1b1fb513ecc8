package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/mangareader/internal/client/archive"
	"github.com/dmitrijs2005/mangareader/internal/client/catalog"
	"github.com/dmitrijs2005/mangareader/internal/client/services"
	"github.com/dmitrijs2005/mangareader/internal/client/session"
	"github.com/dmitrijs2005/mangareader/internal/logging"
)

type fakeSession struct {
	mu        sync.Mutex
	snap      session.Snapshot
	observers []func()
}

func (f *fakeSession) Snapshot() session.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeSession) Subscribe(observer func()) func() {
	f.mu.Lock()
	f.observers = append(f.observers, observer)
	f.mu.Unlock()
	return func() {}
}

func (f *fakeSession) set(credential string, p *session.Profile) {
	f.mu.Lock()
	f.snap = session.Snapshot{Credential: credential, Profile: p}
	obs := append([]func(){}, f.observers...)
	f.mu.Unlock()
	for _, o := range obs {
		o()
	}
}

func loggedIn(username string, role session.Role) *fakeSession {
	s := &fakeSession{}
	s.set("tok", &session.Profile{ID: 1, Username: username, Email: username + "@example.org", Role: role, IsActive: true})
	return s
}

type fakeAuth struct {
	store *fakeSession

	loginUser, loginPass string
	loginProfile         *session.Profile
	loginErr             error

	regUser, regEmail, regPass string
	regErr                     error

	logoutCalled bool

	pwCurrent, pwNext string
	pwMsg             string
	pwErr             error
}

func (f *fakeAuth) Login(_ context.Context, u, p string) (session.Snapshot, error) {
	f.loginUser, f.loginPass = u, p
	if f.loginErr != nil {
		return session.Snapshot{}, f.loginErr
	}
	if f.store != nil {
		f.store.set("tok", f.loginProfile)
	}
	return session.Snapshot{Credential: "tok", Profile: f.loginProfile}, nil
}

func (f *fakeAuth) Register(_ context.Context, u, e, p string) (services.RegistrationResult, error) {
	f.regUser, f.regEmail, f.regPass = u, e, p
	return services.RegistrationResult{Message: "User registered successfully"}, f.regErr
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled = true
	if f.store != nil {
		f.store.set("", nil)
	}
	return nil
}

func (f *fakeAuth) ChangePassword(_ context.Context, cur, next string) (string, error) {
	f.pwCurrent, f.pwNext = cur, next
	return f.pwMsg, f.pwErr
}

type fakeCatalog struct {
	mu sync.Mutex

	results  map[string]catalog.Result
	entries  map[string]*catalog.Entry
	chapters []catalog.Chapter
	content  map[string]*catalog.ChapterContent

	// when set, Search reports on searching and waits for release
	searching chan string
	release   chan struct{}

	calls []string
}

func (f *fakeCatalog) record(s string) {
	f.mu.Lock()
	f.calls = append(f.calls, s)
	f.mu.Unlock()
}

func (f *fakeCatalog) List(_ context.Context, page int) catalog.Result {
	f.record("list")
	return f.results["list"]
}

func (f *fakeCatalog) Trending(_ context.Context, page int) catalog.Result {
	f.record("trending")
	return f.results["trending"]
}

func (f *fakeCatalog) NewReleases(_ context.Context, page int) catalog.Result {
	f.record("new")
	return f.results["new"]
}

func (f *fakeCatalog) Search(_ context.Context, q string, page int) catalog.Result {
	f.record("search:" + q)
	if f.release != nil {
		f.searching <- q
		<-f.release
	}
	return f.results[q]
}

func (f *fakeCatalog) Get(_ context.Context, id string) *catalog.Entry {
	f.record("get:" + id)
	return f.entries[id]
}

func (f *fakeCatalog) Chapters(_ context.Context, id string, page int) []catalog.Chapter {
	f.record("chapters:" + id)
	return f.chapters
}

func (f *fakeCatalog) ChapterContent(_ context.Context, id string) *catalog.ChapterContent {
	f.record("content:" + id)
	return f.content[id]
}

type fakeAdmin struct {
	users   []session.Profile
	stories []services.Story
	err     error

	roleID   int64
	role     session.Role
	activeID int64
	active   bool

	created services.AnimeForm
	updated services.AnimeUpdate
	updID   string
	deleted string

	imageName, imageData string

	zipAnime, zipName string
	zipData           []byte
	zipResult         *services.ChapterUploadResult
}

func (f *fakeAdmin) Users(context.Context) ([]session.Profile, error) { return f.users, f.err }

func (f *fakeAdmin) SetUserRole(_ context.Context, id int64, role session.Role) (*session.Profile, error) {
	f.roleID, f.role = id, role
	if f.err != nil {
		return nil, f.err
	}
	return &session.Profile{ID: id, Username: "bob", Role: role}, nil
}

func (f *fakeAdmin) SetUserActive(_ context.Context, id int64, active bool) (*session.Profile, error) {
	f.activeID, f.active = id, active
	if f.err != nil {
		return nil, f.err
	}
	return &session.Profile{ID: id, Username: "bob", IsActive: active}, nil
}

func (f *fakeAdmin) UploadImage(_ context.Context, name string, r io.Reader) (string, error) {
	b, _ := io.ReadAll(r)
	f.imageName, f.imageData = name, string(b)
	return "/uploads/" + name, f.err
}

func (f *fakeAdmin) CreateAnime(_ context.Context, form services.AnimeForm) (string, error) {
	f.created = form
	return "42", f.err
}

func (f *fakeAdmin) MyAnimes(context.Context) ([]services.Story, error) { return f.stories, f.err }

func (f *fakeAdmin) UpdateAnime(_ context.Context, id string, upd services.AnimeUpdate) error {
	f.updID, f.updated = id, upd
	return f.err
}

func (f *fakeAdmin) DeleteAnime(_ context.Context, id string) error {
	f.deleted = id
	return f.err
}

func (f *fakeAdmin) UploadChaptersZip(_ context.Context, animeID, name string, r io.Reader) (*services.ChapterUploadResult, error) {
	b, _ := io.ReadAll(r)
	f.zipAnime, f.zipName, f.zipData = animeID, name, b
	return f.zipResult, f.err
}

type fakeLoader struct {
	src string
	arc *archive.Archive
	err error
}

func (f *fakeLoader) Load(_ context.Context, src string) (*archive.Archive, error) {
	f.src = src
	return f.arc, f.err
}

// newTestApp builds an App around fakes, reading user input from lines.
func newTestApp(store *fakeSession, lines ...string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	input := ""
	for _, l := range lines {
		input += l + "\n"
	}
	a := &App{
		logger:      logging.Discard(),
		store:       store,
		reader:      bufio.NewReader(bytes.NewBufferString(input)),
		out:         &out,
		searchDelay: 10 * time.Millisecond,
	}
	a.watchSession()
	return a, &out
}

// stubInputs makes every simple prompt return the next of texts and every
// password prompt the next of passwords.
func stubInputs(t *testing.T, texts []string, passwords []string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(texts) == 0 {
			return "", io.EOF
		}
		v := texts[0]
		texts = texts[1:]
		return v, nil
	}
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, io.EOF
		}
		v := passwords[0]
		passwords = passwords[1:]
		return []byte(v), nil
	}
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}
