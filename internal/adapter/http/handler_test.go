package httpadapter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubemetrics/internal/core/domain"
	"tubemetrics/internal/core/port"
)

// stubUseCase implements port.LinkUseCase with per-method hooks, so each
// test wires only what it touches.
type stubUseCase struct {
	createLink       func(context.Context, port.CreateLinkReq) (*domain.UTMLink, error)
	listLinks        func(context.Context, port.LinkFilter) ([]domain.UTMLink, error)
	deleteLink       func(context.Context, int64) error
	deleteAllLinks   func(context.Context) (port.BulkDeleteResult, error)
	resolveRedirect  func(context.Context, port.LinkRef, port.ClickMeta) (string, error)
	recordTestClick  func(context.Context, int64, port.ClickMeta) (*domain.UTMLink, error)
	bulkGenerate     func(context.Context, port.BulkGenerateReq) (*port.BulkGenerateResult, error)
	linkAnalytics    func(context.Context, int64, int) (*port.LinkAnalytics, error)
	videoPerformance func(context.Context, string) (*port.VideoPerformance, error)
}

func (s *stubUseCase) CreateLink(ctx context.Context, req port.CreateLinkReq) (*domain.UTMLink, error) {
	return s.createLink(ctx, req)
}

func (s *stubUseCase) ListLinks(ctx context.Context, f port.LinkFilter) ([]domain.UTMLink, error) {
	return s.listLinks(ctx, f)
}

func (s *stubUseCase) DeleteLink(ctx context.Context, id int64) error {
	return s.deleteLink(ctx, id)
}

func (s *stubUseCase) DeleteAllLinks(ctx context.Context) (port.BulkDeleteResult, error) {
	return s.deleteAllLinks(ctx)
}

func (s *stubUseCase) ResolveRedirect(ctx context.Context, ref port.LinkRef, meta port.ClickMeta) (string, error) {
	return s.resolveRedirect(ctx, ref, meta)
}

func (s *stubUseCase) RecordTestClick(ctx context.Context, id int64, meta port.ClickMeta) (*domain.UTMLink, error) {
	return s.recordTestClick(ctx, id, meta)
}

func (s *stubUseCase) BulkGenerate(ctx context.Context, req port.BulkGenerateReq) (*port.BulkGenerateResult, error) {
	return s.bulkGenerate(ctx, req)
}

func (s *stubUseCase) LinkAnalytics(ctx context.Context, id int64, daysBack int) (*port.LinkAnalytics, error) {
	return s.linkAnalytics(ctx, id, daysBack)
}

func (s *stubUseCase) VideoLinkPerformance(ctx context.Context, videoID string) (*port.VideoPerformance, error) {
	return s.videoPerformance(ctx, videoID)
}

func newTestHandler(svc *stubUseCase) *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(svc, logger, "http://localhost:8080")
}

func sampleLink() *domain.UTMLink {
	slug := "skool-the-blueprint-dqw4w9"
	return &domain.UTMLink{
		ID:             1,
		VideoID:        "dQw4w9WgXcQ",
		DestinationURL: "https://www.skool.com/the-blueprint",
		UTMSource:      "youtube",
		UTMMedium:      "video",
		UTMCampaign:    "dQw4w9WgXcQ",
		TrackingType:   domain.TrackingServerRedirect,
		TrackingURL:    "https://www.skool.com/the-blueprint?utm_campaign=dQw4w9WgXcQ&utm_medium=video&utm_source=youtube",
		PrettySlug:     &slug,
		IsActive:       true,
		CreatedAt:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateLinkHandler(t *testing.T) {
	svc := &stubUseCase{
		createLink: func(_ context.Context, req port.CreateLinkReq) (*domain.UTMLink, error) {
			assert.Equal(t, "dQw4w9WgXcQ", req.VideoID)
			assert.Equal(t, domain.TrackingServerRedirect, req.TrackingType)
			return sampleLink(), nil
		},
	}
	h := newTestHandler(svc)

	body := `{"video_id":"dQw4w9WgXcQ","destination_url":"https://www.skool.com/the-blueprint","tracking_type":"server_redirect"}`
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/utm-links/", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	got := decodeBody(t, rec)
	assert.Equal(t, "skool-the-blueprint-dqw4w9", got["pretty_slug"])
	assert.Equal(t, "http://localhost:8080/api/v1/go/skool-the-blueprint-dqw4w9", got["shareable_url"])
}

func TestCreateLinkHandlerValidation(t *testing.T) {
	h := newTestHandler(&stubUseCase{})

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"video_id":`},
		{"missing video id", `{"destination_url":"https://example.com"}`},
		{"bad destination", `{"video_id":"v1","destination_url":"not a url"}`},
		{"unknown tracking type", `{"video_id":"v1","destination_url":"https://example.com","tracking_type":"pixel"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/utm-links/", strings.NewReader(tc.body)))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			got := decodeBody(t, rec)
			assert.Equal(t, "error", got["status"])
		})
	}
}

func TestListLinksHandler(t *testing.T) {
	svc := &stubUseCase{
		listLinks: func(_ context.Context, f port.LinkFilter) ([]domain.UTMLink, error) {
			assert.Equal(t, "dQw4w9WgXcQ", f.VideoID)
			assert.False(t, f.ActiveOnly)
			assert.Equal(t, 10, f.Limit)
			return []domain.UTMLink{*sampleLink()}, nil
		},
	}
	h := newTestHandler(svc)

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/utm-links/?video_id=dQw4w9WgXcQ&active_only=false&limit=10", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody(t, rec)
	assert.Equal(t, "success", got["status"])
	assert.EqualValues(t, 1, got["total_links"])
}

func TestDeleteLinkHandler(t *testing.T) {
	svc := &stubUseCase{
		deleteLink: func(_ context.Context, id int64) error {
			assert.Equal(t, int64(7), id)
			return nil
		},
	}
	h := newTestHandler(svc)

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/utm-links/7", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteLinkHandlerNotFound(t *testing.T) {
	svc := &stubUseCase{
		deleteLink: func(context.Context, int64) error { return port.ErrLinkNotFound },
	}
	h := newTestHandler(svc)

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/utm-links/7", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	got := decodeBody(t, rec)
	assert.Equal(t, "not_found", got["error_code"])
}

func TestRedirectBySlug(t *testing.T) {
	svc := &stubUseCase{
		resolveRedirect: func(_ context.Context, ref port.LinkRef, meta port.ClickMeta) (string, error) {
			assert.Equal(t, "skool-the-blueprint-dqw4w9", ref.Slug)
			assert.Equal(t, "203.0.113.7", meta.IPAddress)
			assert.Equal(t, "https://youtube.com/watch?v=dQw4w9WgXcQ", meta.Referrer)
			return "https://www.skool.com/the-blueprint?utm_source=youtube", nil
		},
	}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/go/skool-the-blueprint-dqw4w9", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 198.51.100.1")
	req.Header.Set("Referer", "https://youtube.com/watch?v=dQw4w9WgXcQ")
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://www.skool.com/the-blueprint?utm_source=youtube", rec.Header().Get("Location"))
}

func TestRedirectByID(t *testing.T) {
	svc := &stubUseCase{
		resolveRedirect: func(_ context.Context, ref port.LinkRef, _ port.ClickMeta) (string, error) {
			assert.Equal(t, int64(42), ref.ID)
			return "https://example.com?utm_source=youtube", nil
		},
	}
	h := newTestHandler(svc)

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/r/42", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://example.com?utm_source=youtube", rec.Header().Get("Location"))
}

func TestRedirectUnknownSlug(t *testing.T) {
	svc := &stubUseCase{
		resolveRedirect: func(context.Context, port.LinkRef, port.ClickMeta) (string, error) {
			return "", port.ErrLinkNotFound
		},
	}
	h := newTestHandler(svc)

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/go/ghost", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRedirectInactiveLink(t *testing.T) {
	svc := &stubUseCase{
		resolveRedirect: func(context.Context, port.LinkRef, port.ClickMeta) (string, error) {
			return "", port.ErrLinkInactive
		},
	}
	h := newTestHandler(svc)

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/go/retired", nil))

	require.Equal(t, http.StatusGone, rec.Code)
	got := decodeBody(t, rec)
	assert.Equal(t, "link_inactive", got["error_code"])
}

func TestTestClickHandler(t *testing.T) {
	svc := &stubUseCase{
		recordTestClick: func(_ context.Context, id int64, meta port.ClickMeta) (*domain.UTMLink, error) {
			assert.Equal(t, int64(1), id)
			assert.Equal(t, "curl/8", meta.UserAgent, "body user agent wins over the header")
			link := sampleLink()
			link.ClickCount = 5
			return link, nil
		},
	}
	h := newTestHandler(svc)

	body := `{"utm_link_id":1,"user_agent":"curl/8"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/utm-links/1/click", strings.NewReader(body))
	req.Header.Set("User-Agent", "Mozilla/5.0")
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody(t, rec)
	assert.EqualValues(t, 5, got["click_count"])
}

func TestLinkAnalyticsHandler(t *testing.T) {
	svc := &stubUseCase{
		linkAnalytics: func(_ context.Context, id int64, daysBack int) (*port.LinkAnalytics, error) {
			assert.Equal(t, int64(1), id)
			assert.Equal(t, 7, daysBack)
			return &port.LinkAnalytics{
				UTMLinkID:    1,
				VideoID:      "dQw4w9WgXcQ",
				TotalClicks:  12,
				RecentClicks: 3,
				Daily:        []port.DailyClicks{{Date: "2026-08-30", Clicks: 3}},
				IsActive:     true,
			}, nil
		},
	}
	h := newTestHandler(svc)

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/utm-links/1/analytics?days_back=7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody(t, rec)
	assert.EqualValues(t, 12, got["total_clicks"])
	assert.EqualValues(t, 3, got["recent_clicks"])
}

func TestLinkAnalyticsHandlerBadDaysBack(t *testing.T) {
	h := newTestHandler(&stubUseCase{})

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/utm-links/1/analytics?days_back=0", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBulkGenerateHandler(t *testing.T) {
	svc := &stubUseCase{
		bulkGenerate: func(_ context.Context, req port.BulkGenerateReq) (*port.BulkGenerateResult, error) {
			assert.Equal(t, "https://example.com/offer", req.DestinationURL)
			assert.Equal(t, "summer-launch", req.UTMCampaign)
			return &port.BulkGenerateResult{
				TotalVideosProcessed: 3,
				TotalLinksGenerated:  2,
				Failures:             []port.BulkFailure{{VideoID: "bad", Error: "insert failed"}},
			}, nil
		},
	}
	h := newTestHandler(svc)

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		"/api/v1/utm/bulk-generate?destination_url=https%3A%2F%2Fexample.com%2Foffer&utm_campaign=summer-launch", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody(t, rec)
	assert.EqualValues(t, 3, got["total_videos_processed"])
	assert.EqualValues(t, 2, got["total_links_generated"])
	assert.Len(t, got["failures"], 1)
}

func TestBulkDeleteRequiresConfirmation(t *testing.T) {
	called := false
	svc := &stubUseCase{
		deleteAllLinks: func(context.Context) (port.BulkDeleteResult, error) {
			called = true
			return port.BulkDeleteResult{}, nil
		},
	}
	h := newTestHandler(svc)

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/utm/bulk-delete", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called, "the wipe must not run without confirm=true")

	rec = httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/utm/bulk-delete?confirm=yes", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)
}

func TestBulkDeleteHandler(t *testing.T) {
	svc := &stubUseCase{
		deleteAllLinks: func(context.Context) (port.BulkDeleteResult, error) {
			return port.BulkDeleteResult{DeletedLinks: 4, DeletedClicks: 17}, nil
		},
	}
	h := newTestHandler(svc)

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/utm/bulk-delete?confirm=true", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody(t, rec)
	assert.EqualValues(t, 4, got["deleted_links"])
	assert.EqualValues(t, 17, got["deleted_clicks"])
}

func TestVideoPerformanceHandler(t *testing.T) {
	svc := &stubUseCase{
		videoPerformance: func(_ context.Context, videoID string) (*port.VideoPerformance, error) {
			assert.Equal(t, "dQw4w9WgXcQ", videoID)
			return &port.VideoPerformance{
				VideoID:          "dQw4w9WgXcQ",
				VideoTitle:       "Launch video",
				VideoViews:       10000,
				TotalLinks:       1,
				TotalClicks:      25,
				ClickThroughRate: 0.25,
				Links:            []domain.UTMLink{*sampleLink()},
			}, nil
		},
	}
	h := newTestHandler(svc)

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/videos/dQw4w9WgXcQ/link-performance", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody(t, rec)
	assert.EqualValues(t, 0.25, got["click_through_rate"])
	assert.Len(t, got["links"], 1)
}

func TestVideoPerformanceHandlerUnknownVideo(t *testing.T) {
	svc := &stubUseCase{
		videoPerformance: func(context.Context, string) (*port.VideoPerformance, error) {
			return nil, port.ErrVideoNotFound
		},
	}
	h := newTestHandler(svc)

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/videos/ghost/link-performance", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
