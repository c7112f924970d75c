package bot

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/UnknownOlympus/equipbot/internal/metrics"
	"github.com/UnknownOlympus/equipbot/internal/models"
	"github.com/UnknownOlympus/equipbot/internal/models/modeltest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v4"
)

type sentMessage struct {
	text   string
	markup *telebot.ReplyMarkup
}

// fakeContext implements the parts of telebot.Context the handlers use.
type fakeContext struct {
	telebot.Context

	sender    *telebot.User
	data      string
	text      string
	callback  *telebot.Callback
	responses []*telebot.CallbackResponse
	sent      []sentMessage
}

func newFakeContext(userID int64, lang string) *fakeContext {
	return &fakeContext{sender: &telebot.User{ID: userID, FirstName: "Ivan", Username: "ivan", LanguageCode: lang}}
}

func (f *fakeContext) Sender() *telebot.User       { return f.sender }
func (f *fakeContext) Data() string                { return f.data }
func (f *fakeContext) Text() string                { return f.text }
func (f *fakeContext) Callback() *telebot.Callback { return f.callback }

func (f *fakeContext) Respond(resp ...*telebot.CallbackResponse) error {
	f.responses = append(f.responses, resp...)
	return nil
}

func (f *fakeContext) Send(what any, opts ...any) error {
	msg := sentMessage{text: what.(string)}
	for _, opt := range opts {
		if markup, ok := opt.(*telebot.ReplyMarkup); ok {
			msg.markup = markup
		}
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeContext) last(t *testing.T) sentMessage {
	t.Helper()
	require.NotEmpty(t, f.sent, "nothing was sent")
	return f.sent[len(f.sent)-1]
}

// fakeCatalog serves a fixed record list, filtered in memory.
type fakeCatalog struct {
	items      []models.Equipment
	categories []string
	pageSize   int
	stats      models.CatalogStats
	err        error
	searches   []models.SearchFilter
}

func (f *fakeCatalog) Get(_ context.Context, id int64) (*models.Equipment, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, item := range f.items {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) Search(
	_ context.Context,
	filter models.SearchFilter,
	offset, limit int,
) ([]models.Equipment, error) {
	f.searches = append(f.searches, filter)
	if f.err != nil {
		return nil, f.err
	}

	matched := []models.Equipment{}
	for _, item := range f.items {
		if modeltest.Matches(filter, item) {
			matched = append(matched, item)
		}
	}
	if offset >= len(matched) {
		return []models.Equipment{}, nil
	}
	return matched[offset:min(offset+limit, len(matched))], nil
}

func (f *fakeCatalog) Stats(context.Context) (models.CatalogStats, error) {
	return f.stats, f.err
}

func (f *fakeCatalog) RecommendedCategories() []string { return f.categories }

func (f *fakeCatalog) PageSize() int { return f.pageSize }

type fakeDirectory struct {
	mu     sync.Mutex
	users  map[int64]models.User
	admins map[int64]bool
	err    error
}

func (f *fakeDirectory) GetOrCreate(
	_ context.Context,
	telegramID int64,
	profile models.UserProfile,
) (*models.User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, false, f.err
	}
	if user, ok := f.users[telegramID]; ok {
		return &user, false, nil
	}
	user := models.User{ID: int64(len(f.users) + 1), TelegramID: telegramID, FirstName: profile.FirstName}
	f.users[telegramID] = user
	return &user, true, nil
}

func (f *fakeDirectory) IsAdmin(_ context.Context, telegramID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.admins[telegramID], nil
}

func strPtr(s string) *string { return &s }

func item(id int64, name, category string, price float64) models.Equipment {
	return models.Equipment{
		ID:           id,
		Name:         name,
		Category:     category,
		Price:        price,
		Currency:     "RUB",
		Availability: true,
	}
}

func newTestBot(t *testing.T, catalog *fakeCatalog) (*Bot, *fakeDirectory, *metrics.Metrics) {
	t.Helper()

	if catalog.pageSize == 0 {
		catalog.pageSize = 3
	}
	directory := &fakeDirectory{users: map[int64]models.User{}, admins: map[int64]bool{}}
	m := metrics.NewMetrics(prometheus.NewRegistry())

	b, err := newBot(slog.New(slog.DiscardHandler), catalog, directory, m)
	require.NoError(t, err)

	return b, directory, m
}
