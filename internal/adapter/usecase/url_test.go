package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubemetrics/internal/core/domain"
)

func TestBuildTrackingURL(t *testing.T) {
	content := "description"
	term := "go tutorial"
	empty := ""

	cases := []struct {
		name string
		link domain.UTMLink
		want string
	}{
		{
			name: "plain destination",
			link: domain.UTMLink{
				DestinationURL: "https://example.com/page",
				UTMSource:      "youtube",
				UTMMedium:      "video",
				UTMCampaign:    "abc123",
			},
			want: "https://example.com/page?utm_campaign=abc123&utm_medium=video&utm_source=youtube",
		},
		{
			name: "existing query preserved",
			link: domain.UTMLink{
				DestinationURL: "https://example.com/page?ref=yt&x=1",
				UTMSource:      "youtube",
				UTMMedium:      "video",
				UTMCampaign:    "abc123",
			},
			want: "https://example.com/page?ref=yt&utm_campaign=abc123&utm_medium=video&utm_source=youtube&x=1",
		},
		{
			name: "existing utm parameter replaced",
			link: domain.UTMLink{
				DestinationURL: "https://example.com/page?utm_source=newsletter",
				UTMSource:      "youtube",
				UTMMedium:      "video",
				UTMCampaign:    "abc123",
			},
			want: "https://example.com/page?utm_campaign=abc123&utm_medium=video&utm_source=youtube",
		},
		{
			name: "optional dimensions emitted when set",
			link: domain.UTMLink{
				DestinationURL: "https://example.com",
				UTMSource:      "youtube",
				UTMMedium:      "video",
				UTMCampaign:    "abc123",
				UTMContent:     &content,
				UTMTerm:        &term,
			},
			want: "https://example.com?utm_campaign=abc123&utm_content=description&utm_medium=video&utm_source=youtube&utm_term=go+tutorial",
		},
		{
			name: "empty optional dimensions omitted",
			link: domain.UTMLink{
				DestinationURL: "https://example.com",
				UTMSource:      "youtube",
				UTMMedium:      "video",
				UTMCampaign:    "abc123",
				UTMContent:     &empty,
			},
			want: "https://example.com?utm_campaign=abc123&utm_medium=video&utm_source=youtube",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := buildTrackingURL(&tc.link)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
