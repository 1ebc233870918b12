package ics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekcal/internal/model"
)

func feedServer(t *testing.T, body []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetchUsesETag(t *testing.T) {
	srv, hits := feedServer(t, sampleFeed)
	f := NewFetcher(t.TempDir(), time.Second)
	src := Source{ID: "work", URL: srv.URL + "/private/feed.ics"}

	first, err := f.Fetch(context.Background(), src)
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, sampleFeed, first.Body)

	second, err := f.Fetch(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, sampleFeed, second.Body)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchFallsBackToCache(t *testing.T) {
	srv, _ := feedServer(t, sampleFeed)
	f := NewFetcher(t.TempDir(), time.Second)
	src := Source{ID: "work", URL: srv.URL + "/feed.ics"}

	_, err := f.Fetch(context.Background(), src)
	require.NoError(t, err)

	srv.Close()
	feed, err := f.Fetch(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, feed.FromCache)
}

func TestFetchErrorWithoutCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir(), time.Second)
	_, err := f.Fetch(context.Background(), Source{ID: "x", URL: srv.URL})
	assert.Error(t, err)

	_, err = f.Fetch(context.Background(), Source{ID: "x"})
	assert.Error(t, err)
}

func TestLoadAppliesSourceColor(t *testing.T) {
	srv, _ := feedServer(t, sampleFeed)
	f := NewFetcher(t.TempDir(), time.Second)

	events, errs := f.Load(context.Background(), []Source{
		{ID: "work", URL: srv.URL, Color: model.ColorBlue},
		{ID: "broken", URL: "http://127.0.0.1:1/feed.ics"},
	}, kst)
	require.Len(t, errs, 1)
	require.Len(t, events, 3)

	got := byID(events)
	assert.Equal(t, model.ColorBlue, got["standup-1"].Color)
	assert.Equal(t, model.ColorPurple, got["offsite"].Color)
	assert.Equal(t, "work", got["vendor"].CalendarID)
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "https://cal.example.com/...(redacted)", redactURL("https://cal.example.com/secret/token.ics?k=1"))
	assert.Equal(t, "ics://...(redacted)", redactURL("not a url"))
}
