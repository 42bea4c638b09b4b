package worker

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-deflection/internal/config"
	"github.com/spec-kit/ticket-deflection/internal/events"
	"github.com/spec-kit/ticket-deflection/internal/service"
)

type recordingImporter struct {
	mu     sync.Mutex
	titles []string
}

func (r *recordingImporter) ImportArticle(_ context.Context, input service.KnowledgeCreateInput) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, input.Title)
	return true, nil
}

func (r *recordingImporter) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.titles...)
}

type chanSource struct {
	ch chan string
}

func (c chanSource) Watch(context.Context, string) (<-chan string, error) {
	return c.ch, nil
}

func TestReloadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.yaml")
	require.NoError(t, os.WriteFile(path, []byte("articles:\n  - title: Extra\n    category: Other\n    content: body\n"), 0o644))

	importer := &recordingImporter{}
	report := ReloadSeedFile(context.Background(), path, importer, zap.NewNop())
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, []string{"Extra"}, importer.Titles())

	missing := ReloadSeedFile(context.Background(), path+".gone", importer, zap.NewNop())
	assert.Zero(t, missing.Created)
}

func TestStartSeedWorker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.yaml")
	require.NoError(t, os.WriteFile(path, []byte("articles:\n  - title: Watched\n    category: HowTo\n    content: body\n"), 0o644))

	src := chanSource{ch: make(chan string, 1)}
	importer := &recordingImporter{}
	require.NoError(t, StartSeedWorker(context.Background(), src, filepath.Dir(path), importer, zap.NewNop()))

	src.ch <- path
	close(src.ch)

	require.Eventually(t, func() bool {
		return len(importer.Titles()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"Watched"}, importer.Titles())
}

func TestStart_NotificationsOnly(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{WebhookURL: "http://hooks.local"})

	require.NoError(t, Start(context.Background(), Options{Notifications: notifications}, zap.NewNop()))
	assert.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventTicketEscalated, TicketID: "t-1"}))
}

func TestStart_WithSeedSource(t *testing.T) {
	src := chanSource{ch: make(chan string)}
	importer := &recordingImporter{}

	require.NoError(t, Start(context.Background(), Options{SeedSource: src, SeedDir: t.TempDir(), Importer: importer}, zap.NewNop()))
	close(src.ch)
	assert.Empty(t, importer.Titles())
}
