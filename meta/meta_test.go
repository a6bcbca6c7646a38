package meta

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixtureTransport struct {
	body   string
	status int
	urls   []string
}

func (t *fixtureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.urls = append(t.urls, req.URL.String())
	return &http.Response{
		StatusCode: t.status,
		Body:       io.NopCloser(bytes.NewBufferString(t.body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Request:    req,
	}, nil
}

const loaderListBody = `[
	{"loader": {"separator": ".", "build": 2, "maven": "net.fabricmc:fabric-loader:0.17.2", "version": "0.17.2", "stable": true}},
	{"loader": {"separator": ".", "build": 1, "maven": "net.fabricmc:fabric-loader:0.17.1", "version": "0.17.1", "stable": true}}
]`

func TestResolveFabricManifestUrl(t *testing.T) {
	transport := &fixtureTransport{body: loaderListBody, status: http.StatusOK}
	client := NewClient(resty.New().SetTransport(transport))

	resolved, err := client.Resolve(Fabric, "1.19.3")
	require.NoError(t, err)

	assert.Equal(t, "0.17.2", resolved.Id)
	assert.True(t, resolved.Stable)
	assert.Equal(t, "https://meta.fabricmc.net/v2/versions/loader/1.19.3/0.17.2/profile/json", resolved.ManifestUrl)
	require.Len(t, transport.urls, 1)
	assert.Equal(t, "https://meta.fabricmc.net/v2/versions/loader/1.19.3", transport.urls[0])
}

func TestResolveQuiltManifestUrl(t *testing.T) {
	transport := &fixtureTransport{body: loaderListBody, status: http.StatusOK}
	client := NewClient(resty.New().SetTransport(transport))

	resolved, err := client.Resolve(Quilt, "1.19.3")
	require.NoError(t, err)

	assert.Equal(t, "0.17.2", resolved.Id)
	assert.Equal(t, "https://meta.quiltmc.org/v3/versions/loader/1.19.3/0.17.2/profile/json", resolved.ManifestUrl)
}

func TestResolvePicksNewestFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(loaderListBody))
	}))
	defer srv.Close()

	client := NewClient(resty.New())
	client.FabricUrl = srv.URL

	resolved, err := client.Resolve(Fabric, "1.19.3")
	require.NoError(t, err)
	assert.Equal(t, "0.17.2", resolved.Id, "index 0 of the host-ordered list must win")
}

func TestResolveEmptyListIsMetaError(t *testing.T) {
	for _, loader := range []Loader{Fabric, Quilt} {
		t.Run(string(loader), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`[]`))
			}))
			defer srv.Close()

			client := NewClient(resty.New())
			client.FabricUrl = srv.URL
			client.QuiltUrl = srv.URL

			_, err := client.Resolve(loader, "1.19.3")
			var metaErr *MetaError
			require.ErrorAs(t, err, &metaErr)
			assert.Equal(t, string(loader), metaErr.Backend)
			assert.Equal(t, string(loader)+" version not found", metaErr.Error())
		})
	}
}

func TestResolveUnsupportedLoader(t *testing.T) {
	client := NewClient(resty.New())
	_, err := client.Resolve(Loader("forge"), "1.19.3")
	require.Error(t, err)
}

func TestParseLoader(t *testing.T) {
	var tests = []struct {
		input string
		want  Loader
		ok    bool
	}{
		{"fabric", Fabric, true},
		{"Fabric", Fabric, true},
		{"QUILT", Quilt, true},
		{"quilt", Quilt, true},
		{"forge", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseLoader(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMojangClientDownload(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/manifest", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"latest": {"release": "1.19.3"}, "versions": [
			{"id": "1.19.4", "type": "release", "url": "` + srv.URL + `/version/1.19.4"},
			{"id": "1.19.3", "type": "release", "url": "` + srv.URL + `/version/1.19.3"}
		]}`))
	})
	mux.HandleFunc("/version/1.19.3", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "1.19.3", "downloads": {"client": {"sha1": "abc", "size": 42, "url": "https://example.invalid/client.jar"}}}`))
	})

	mojang := NewMojang(resty.New())
	mojang.ManifestUrl = srv.URL + "/manifest"

	download, err := mojang.ClientDownload("1.19.3")
	require.NoError(t, err)
	assert.Equal(t, "https://example.invalid/client.jar", download.Url)
	assert.Equal(t, int64(42), download.Size)

	_, err = mojang.ClientDownload("1.2.5")
	var metaErr *MetaError
	require.ErrorAs(t, err, &metaErr)
}
