package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sepehrdad/Hydra-Marketing/config"
	"github.com/sepehrdad/Hydra-Marketing/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkedInPublishCapsImages(t *testing.T) {
	var registerCalls, uploadCalls int
	var shareMediaCount int

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/assets", func(w http.ResponseWriter, _ *http.Request) {
		registerCalls++
		resp := map[string]any{
			"value": map[string]any{
				"asset": fmt.Sprintf("urn:li:digitalmediaAsset:%d", registerCalls),
				"uploadMechanism": map[string]any{
					"com.linkedin.digitalmedia.uploading.MediaUploadHttpRequest": map[string]any{
						"uploadUrl": server.URL + "/upload",
					},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/upload", func(w http.ResponseWriter, _ *http.Request) {
		uploadCalls++
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/img/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("fake-image-bytes"))
	})
	mux.HandleFunc("/ugcPosts", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			SpecificContent struct {
				ShareContent struct {
					Media []any `json:"media"`
				} `json:"com.linkedin.ugc.ShareContent"`
			} `json:"specificContent"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		shareMediaCount = len(body.SpecificContent.ShareContent.Media)

		w.Header().Set("X-RestLi-Created-Entity-Id", "urn:li:share:42")
		w.WriteHeader(http.StatusCreated)
	})

	p := NewLinkedInPublisher(config.LinkedInConfig{
		APIBaseURL: server.URL,
		Timeout:    5 * time.Second,
	})

	// 12 source images, only the platform cap survives
	mediaURLs := make([]string, 12)
	for i := range mediaURLs {
		mediaURLs[i] = fmt.Sprintf("%s/img/%d", server.URL, i)
	}

	result := p.Publish(context.Background(), Credential{AccountID: "mem-1", AccessToken: "tok-1"},
		PostContent{Caption: "gallery", MediaURLs: mediaURLs})

	require.True(t, result.Success, "reason: %s", result.Reason)
	assert.Equal(t, "urn:li:share:42", result.ExternalID)
	assert.Equal(t, utils.LinkedInMaxImages, registerCalls)
	assert.Equal(t, utils.LinkedInMaxImages, uploadCalls)
	assert.Equal(t, utils.LinkedInMaxImages, shareMediaCount)
}

func TestLinkedInPublishTextOnly(t *testing.T) {
	var category string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ugcPosts", r.URL.Path)
		require.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))

		var body struct {
			Author          string `json:"author"`
			SpecificContent struct {
				ShareContent struct {
					ShareMediaCategory string `json:"shareMediaCategory"`
				} `json:"com.linkedin.ugc.ShareContent"`
			} `json:"specificContent"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "urn:li:person:mem-1", body.Author)
		category = body.SpecificContent.ShareContent.ShareMediaCategory

		_, _ = w.Write([]byte(`{"id":"urn:li:share:7"}`))
	}))
	defer server.Close()

	p := NewLinkedInPublisher(config.LinkedInConfig{APIBaseURL: server.URL, Timeout: 5 * time.Second})
	result := p.Publish(context.Background(), Credential{AccountID: "mem-1", AccessToken: "tok-1"},
		PostContent{Caption: "plain text"})

	require.True(t, result.Success, "reason: %s", result.Reason)
	assert.Equal(t, "urn:li:share:7", result.ExternalID)
	assert.Equal(t, "NONE", category)
}

func TestLinkedInPublishUploadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/assets") {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid access token"}`))
			return
		}
		t.Fatalf("unexpected request to %s", r.URL.Path)
	}))
	defer server.Close()

	p := NewLinkedInPublisher(config.LinkedInConfig{APIBaseURL: server.URL, Timeout: 5 * time.Second})
	result := p.Publish(context.Background(), Credential{AccountID: "mem-1", AccessToken: "expired"},
		PostContent{Caption: "x", MediaURLs: []string{server.URL + "/img/0"}})

	assert.False(t, result.Success)
	assert.Contains(t, result.Reason, "register upload")
	assert.Contains(t, result.Reason, "Invalid access token")
}
