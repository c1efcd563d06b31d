package archive

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"playlist-archiver/core/index"
	"playlist-archiver/core/records"
	"playlist-archiver/core/reconcile"
	"playlist-archiver/core/store"
	"playlist-archiver/core/youtube"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type fakeSource struct {
	playlists []youtube.Playlist
	items     map[string][]youtube.PlaylistItem
	liked     []youtube.PlaylistItem
}

func (f *fakeSource) ListPlaylists(ctx context.Context) ([]youtube.Playlist, error) {
	return f.playlists, nil
}

func (f *fakeSource) ListPlaylistItems(ctx context.Context, playlistID string) ([]youtube.PlaylistItem, error) {
	return f.items[playlistID], nil
}

func (f *fakeSource) ListLikedVideos(ctx context.Context) ([]youtube.PlaylistItem, error) {
	return f.liked, nil
}

type fakeRemote struct {
	sources  map[string]*fakeSource
	statuses map[string]string
	err      error
}

func (f *fakeRemote) Source(ctx context.Context, account string) (index.Source, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sources[account], nil
}

func (f *fakeRemote) VideoStatus(ctx context.Context, account, videoID string) (string, bool, error) {
	status, ok := f.statuses[videoID]
	return status, ok, nil
}

func item(id, status string) youtube.PlaylistItem {
	return youtube.PlaylistItem{
		Position:    "0",
		Title:       "Title " + id,
		VideoID:     id,
		Status:      status,
		Uploader:    "bob",
		UploaderID:  "UCbob",
		PublishedAt: "2020-01-01T00:00:00Z",
	}
}

func aliceRemote() *fakeRemote {
	return &fakeRemote{
		sources: map[string]*fakeSource{
			"alice": {
				playlists: []youtube.Playlist{{ID: "PL1", Title: "Music", VideoCount: 1, Owner: "alice"}},
				items:     map[string][]youtube.PlaylistItem{"PL1": {item("v1", records.StatusPublic)}},
				liked:     []youtube.PlaylistItem{item("v2", records.StatusPublic)},
			},
		},
		statuses: map[string]string{},
	}
}

func newTestService(t *testing.T, remote Remote) (*Service, store.Store) {
	t.Helper()
	st := store.NewFileStore(t.TempDir())
	return NewService(st, remote, zap.NewNop()), st
}

func TestService_FirstRunAndRerun(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t, aliceRemote())

	plan, err := svc.Plan(ctx, []string{"alice"})
	require.NoError(t, err)
	assert.True(t, plan.FirstRun)
	assert.Len(t, plan.Index, 2)

	result, err := svc.Apply(ctx, plan, reconcile.ApplyOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.IndexRows)

	rows, err := st.LoadIndex(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = svc.Plan(ctx, []string{"alice"})
	assert.ErrorIs(t, err, reconcile.ErrNoChanges)
}

func TestService_DetectsPrivatedVideo(t *testing.T) {
	ctx := context.Background()
	remote := aliceRemote()
	svc, _ := newTestService(t, remote)

	plan, err := svc.Plan(ctx, []string{"alice"})
	require.NoError(t, err)
	_, err = svc.Apply(ctx, plan, reconcile.ApplyOptions{})
	require.NoError(t, err)

	hidden := item("v1", records.StatusPrivate)
	hidden.Title = "Private video"
	remote.sources["alice"].items["PL1"] = []youtube.PlaylistItem{hidden}

	plan, err = svc.Plan(ctx, []string{"alice"})
	require.NoError(t, err)
	require.Len(t, plan.Recovered, 1)
	assert.Equal(t, "public -> private", plan.Recovered[0].Status)
	assert.Equal(t, "Title v1", plan.Recovered[0].Title)
}

func TestService_Plan_Errors(t *testing.T) {
	ctx := context.Background()

	svc, _ := newTestService(t, nil)
	_, err := svc.Plan(ctx, []string{"alice"})
	assert.Error(t, err)

	svc, _ = newTestService(t, aliceRemote())
	_, err = svc.Plan(ctx, nil)
	assert.ErrorIs(t, err, youtube.ErrNoAccounts)

	broken := aliceRemote()
	broken.err = errors.New("token revoked")
	svc, _ = newTestService(t, broken)
	_, err = svc.Plan(ctx, []string{"alice"})
	assert.EqualError(t, err, "connect alice: token revoked")
}

func TestService_Accounts(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t, nil)

	require.NoError(t, st.SaveIndex(ctx, []records.VideoRecord{
		{Account: "alice", PlaylistID: "PL1", VideoID: "v1"},
		{Account: "alice", PlaylistID: "PL1", VideoID: "v2"},
		{Account: "alice", PlaylistID: "PL2", VideoID: "v1"},
		{Account: "alice", PlaylistID: records.LikedPlaylistID("alice"), VideoID: "v3"},
		{Account: "bob", PlaylistID: "PL9", VideoID: "v4"},
	}))

	accounts, err := svc.Accounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []AccountSummary{
		{Account: "alice", Playlists: 2, Videos: 3, Liked: 1},
		{Account: "bob", Playlists: 1, Videos: 1},
	}, accounts)
}

func TestService_Index(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t, nil)
	require.NoError(t, st.SaveIndex(ctx, []records.VideoRecord{
		{Account: "alice", PlaylistID: "PL1", VideoID: "v1"},
		{Account: "bob", PlaylistID: "PL9", VideoID: "v4"},
	}))

	all, err := svc.Index(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bob, err := svc.Index(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bob, 1)
	assert.Equal(t, "v4", bob[0].VideoID)
}

func TestService_Ledger(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t, nil)
	require.NoError(t, st.SaveLedger(ctx, records.LedgerDeleted, []records.LedgerEntry{
		{VideoRecord: records.VideoRecord{Account: "alice", PlaylistID: "PL1", VideoID: "v1"}, DateArchived: "20240101_000000"},
	}))

	ledger, entries, err := svc.Ledger(ctx, "deleted")
	require.NoError(t, err)
	assert.Equal(t, records.LedgerDeleted, ledger)
	assert.Len(t, entries, 1)

	_, _, err = svc.Ledger(ctx, "nope")
	var unknown *records.UnknownLedgerError
	assert.ErrorAs(t, err, &unknown)
}

func TestService_Export(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t, nil)
	require.NoError(t, st.SaveIndex(ctx, []records.VideoRecord{{Account: "alice", PlaylistID: "PL1", VideoID: "v1"}}))

	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), records.TableIndex)
}
