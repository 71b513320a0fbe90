package spotify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_ExpiredWithoutAutoRefresh_NoCall(t *testing.T) {
	var apiCalls int32
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&apiCalls, 1)
	}))
	t.Cleanup(apiSrv.Close)

	tokenSrv, tokenCalls := newTokenStub(t, map[string]any{"access_token": "AT2"})

	client := newTestClient(apiSrv.URL, tokenSrv.URL, expiredToken("RT1"), false, flowAuthCode)

	_, err := client.GetAlbum(context.Background(), "x")
	require.ErrorIs(t, err, ErrExpiredToken)
	assert.Equal(t, int32(0), atomic.LoadInt32(&apiCalls), "an expired token must not be sent")
	assert.Equal(t, int32(0), atomic.LoadInt32(tokenCalls))
}

func TestRequest_Unauthenticated(t *testing.T) {
	client := newTestClient("http://unused", "http://unused", nil, false, flowAuthCode)

	_, err := client.GetAlbum(context.Background(), "x")
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestRequest_BearerAndQueryEncoding(t *testing.T) {
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer AT1", r.Header.Get("Authorization"))
		assert.Equal(t, "/albums/4aawyAB9vmqN3uQ7FjRGTy/tracks", r.URL.Path)
		assert.Equal(t, "SE", r.URL.Query().Get("market"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"href":"h","limit":10,"offset":0,"total":0,"next":null,"previous":null,"items":[]}`))
	}))
	t.Cleanup(apiSrv.Close)

	client := newTestClient(apiSrv.URL, "http://unused", freshToken(""), false, flowAuthCode)

	page, err := client.GetAlbumTracks(context.Background(), "4aawyAB9vmqN3uQ7FjRGTy", Market("SE"), Limit(10))
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestRequest_CommaJoinedIDs(t *testing.T) {
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/albums", r.URL.Path)
		assert.Equal(t, "id1,id2,id3", r.URL.Query().Get("ids"),
			"ID lists go out as one comma-separated value, not repeated keys")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"albums":[{"id":"id1"},{"id":"id2"},{"id":"id3"}]}`))
	}))
	t.Cleanup(apiSrv.Close)

	client := newTestClient(apiSrv.URL, "http://unused", freshToken(""), false, flowAuthCode)

	albums, err := client.GetAlbums(context.Background(), []string{"id1", "id2", "id3"})
	require.NoError(t, err)
	require.Len(t, albums, 3)
	assert.Equal(t, "id2", albums[1].ID)
}

func TestRequest_EmptySuccessBody(t *testing.T) {
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(apiSrv.Close)

	client := newTestClient(apiSrv.URL, "http://unused", freshToken(""), false, flowAuthCode)

	// An empty 200 body decodes as "no content" rather than a JSON error.
	require.NoError(t, client.SaveTracks(context.Background(), []string{"t1"}))
}

func TestRequest_BodylessPutSendsContentLength(t *testing.T) {
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/me/audiobooks", r.URL.Path)
		assert.Equal(t, "ab1,ab2", r.URL.Query().Get("ids"))
		assert.Equal(t, "0", r.Header.Get("Content-Length"),
			"bodyless writes must carry an explicit Content-Length: 0")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(apiSrv.Close)

	client := newTestClient(apiSrv.URL, "http://unused", freshToken(""), false, flowAuthCode)

	require.NoError(t, client.SaveAudiobooks(context.Background(), []string{"ab1", "ab2"}))
}

func TestRequest_ErrorEnvelope(t *testing.T) {
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"status":429,"message":"API rate limit exceeded"}}`))
	}))
	t.Cleanup(apiSrv.Close)

	client := newTestClient(apiSrv.URL, "http://unused", freshToken(""), false, flowAuthCode)

	_, err := client.GetAlbum(context.Background(), "x")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 429, apiErr.Status)
	assert.Equal(t, "API rate limit exceeded", apiErr.Message)
}

func TestRequest_ErrorEnvelopeUnparsable(t *testing.T) {
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>Bad Gateway</html>"))
	}))
	t.Cleanup(apiSrv.Close)

	client := newTestClient(apiSrv.URL, "http://unused", freshToken(""), false, flowAuthCode)

	_, err := client.GetAlbum(context.Background(), "x")

	var desErr *DeserializationError
	require.ErrorAs(t, err, &desErr)
	assert.Equal(t, "<html>Bad Gateway</html>", desErr.Body)
}

func TestRequest_ErrorEnvelopeStatusFallback(t *testing.T) {
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"message":"try later"}}`))
	}))
	t.Cleanup(apiSrv.Close)

	client := newTestClient(apiSrv.URL, "http://unused", freshToken(""), false, flowAuthCode)

	_, err := client.GetAlbum(context.Background(), "x")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status,
		"a missing status in the envelope falls back to the HTTP status")
}

func TestRequest_MalformedSuccessBody(t *testing.T) {
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "x", "name":`))
	}))
	t.Cleanup(apiSrv.Close)

	client := newTestClient(apiSrv.URL, "http://unused", freshToken(""), false, flowAuthCode)

	_, err := client.GetAlbum(context.Background(), "x")

	var desErr *DeserializationError
	require.ErrorAs(t, err, &desErr)
	assert.Equal(t, `{"id": "x", "name":`, desErr.Body)
}

func TestRequest_NonUTF8SuccessBody(t *testing.T) {
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{0xff, 0xfe, 0xfd})
	}))
	t.Cleanup(apiSrv.Close)

	client := newTestClient(apiSrv.URL, "http://unused", freshToken(""), false, flowAuthCode)

	_, err := client.GetAlbum(context.Background(), "x")
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestUploadPlaylistCoverImage_RawBody(t *testing.T) {
	image := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10} // JPEG magic
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/playlists/pl1/images", r.URL.Path)
		got, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, image, got, "the image must be sent byte-for-byte, not JSON-wrapped")
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(apiSrv.Close)

	client := newTestClient(apiSrv.URL, "http://unused", freshToken(""), false, flowAuthCode)

	require.NoError(t, client.UploadPlaylistCoverImage(context.Background(), "pl1", image))
}

func TestPagination_FollowsServerURLs(t *testing.T) {
	var apiSrv *httptest.Server
	apiSrv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("offset") {
		case "", "0":
			fmt.Fprintf(w, `{"href":"%s/me/tracks","limit":1,"offset":0,"total":2,"next":"%s/me/tracks?offset=1&limit=1","previous":null,"items":[{"track":{"id":"t1"}}]}`,
				apiSrv.URL, apiSrv.URL)
		case "1":
			fmt.Fprintf(w, `{"href":"%s/me/tracks","limit":1,"offset":1,"total":2,"next":null,"previous":"%s/me/tracks?offset=0&limit=1","items":[{"track":{"id":"t2"}}]}`,
				apiSrv.URL, apiSrv.URL)
		default:
			t.Errorf("unexpected offset %q", r.URL.Query().Get("offset"))
		}
	}))
	t.Cleanup(apiSrv.Close)

	client := newTestClient(apiSrv.URL, "http://unused", freshToken(""), false, flowAuthCode)
	ctx := context.Background()

	first, err := client.GetSavedTracks(ctx, Limit(1))
	require.NoError(t, err)
	require.Len(t, first.Items, 1)
	assert.Equal(t, "t1", first.Items[0].Track.ID)

	second, err := NextPage(ctx, client, first)
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "t2", second.Items[0].Track.ID)

	_, err = NextPage(ctx, client, second)
	require.ErrorIs(t, err, ErrNoRemainingPages)

	back, err := PreviousPage(ctx, client, second)
	require.NoError(t, err)
	assert.Equal(t, "t1", back.Items[0].Track.ID)

	_, err = PreviousPage(ctx, client, first)
	require.ErrorIs(t, err, ErrNoRemainingPages)
}

func TestGetPlaybackState_NoActiveDevice(t *testing.T) {
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(apiSrv.Close)

	client := newTestClient(apiSrv.URL, "http://unused", freshToken(""), false, flowAuthCode)

	state, err := client.GetPlaybackState(context.Background())
	require.NoError(t, err)
	assert.Nil(t, state, "no active device comes back as a nil state, not an error")
}

func TestSearch_TypesAndQuery(t *testing.T) {
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "avicii", r.URL.Query().Get("q"))
		assert.Equal(t, "album,track", r.URL.Query().Get("type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tracks":{"href":"h","limit":20,"offset":0,"total":1,"next":null,"previous":null,"items":[{"id":"t1","name":"Wake Me Up"}]}}`))
	}))
	t.Cleanup(apiSrv.Close)

	client := newTestClient(apiSrv.URL, "http://unused", freshToken(""), false, flowAuthCode)

	results, err := client.Search(context.Background(), "avicii", []SearchType{SearchAlbum, SearchTrack})
	require.NoError(t, err)
	require.NotNil(t, results.Tracks)
	assert.Equal(t, "Wake Me Up", results.Tracks.Items[0].Name)
	assert.Nil(t, results.Albums)
}

func TestCheckSavedAlbums_DecodesBareArray(t *testing.T) {
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/albums/contains", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[true,false]`))
	}))
	t.Cleanup(apiSrv.Close)

	client := newTestClient(apiSrv.URL, "http://unused", freshToken(""), false, flowAuthCode)

	saved, err := client.CheckSavedAlbums(context.Background(), []string{"a1", "a2"})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, saved)
}
