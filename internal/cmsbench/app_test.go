package cmsbench

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadaproject/cmsbench/internal/common/cmserrors"
	"github.com/armadaproject/cmsbench/internal/common/util"
	"github.com/armadaproject/cmsbench/internal/corpus"
	"github.com/armadaproject/cmsbench/internal/loadtest"
	"github.com/armadaproject/cmsbench/pkg/client"
)

// fakeCms is a minimal stand-in for the content backend.
type fakeCms struct {
	mu        sync.Mutex
	created   map[string]int
	rejectPut bool
	badLogin  bool
}

func (f *fakeCms) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/_health", func(w http.ResponseWriter, r *http.Request) {}).Methods(http.MethodGet)
	r.HandleFunc("/admin/init", func(w http.ResponseWriter, r *http.Request) {}).Methods(http.MethodGet)
	r.HandleFunc("/admin/login", func(w http.ResponseWriter, r *http.Request) {
		if f.badLogin {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = fmt.Fprint(w, `{"error":{"message":"Invalid credentials"}}`)
			return
		}
		_, _ = fmt.Fprint(w, `{"data":{"token":"jwt"}}`)
	}).Methods(http.MethodPost)
	r.HandleFunc("/{collection:authors|tags|articles}", func(w http.ResponseWriter, r *http.Request) {
		collection := mux.Vars(r)["collection"]
		f.mu.Lock()
		f.created[collection]++
		id := f.created[collection]
		f.mu.Unlock()
		_, _ = fmt.Fprintf(w, `{"data":{"id":%d}}`, id)
	}).Methods(http.MethodPost)
	r.HandleFunc("/content-type-builder/content-types", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}).Methods(http.MethodPost)
	r.HandleFunc("/content-type-builder/content-types/{uid}", func(w http.ResponseWriter, r *http.Request) {
		if f.rejectPut {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = fmt.Fprint(w, `{"message":"relation target missing"}`)
		}
	}).Methods(http.MethodPut)
	r.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"data":{"articles":[{"title":"Hello","tags":[{"name":"AI"}]}]}}`)
	}).Methods(http.MethodPost)
	return r
}

func newTestApp(t *testing.T, cms *fakeCms) (*App, *bytes.Buffer) {
	cms.created = map[string]int{}
	server := httptest.NewServer(cms.router())
	t.Cleanup(server.Close)

	out := &bytes.Buffer{}
	app := New()
	app.Out = out
	app.Clock = &util.DummyClock{T: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	app.Params.ApiConnectionDetails = &client.ApiConnectionDetails{
		BaseUrl:  server.URL,
		Email:    client.DefaultEmail,
		Password: client.DefaultPassword,
		Timeout:  5 * time.Second,
	}
	app.Params.Seed = 1
	return app, out
}

func TestVersion(t *testing.T) {
	app, out := newTestApp(t, &fakeCms{})
	require.NoError(t, app.Version())
	for _, s := range []string{"Version", "Commit", "Go version", "Built"} {
		assert.Contains(t, out.String(), s)
	}
}

func TestSeed(t *testing.T) {
	cms := &fakeCms{}
	app, out := newTestApp(t, cms)
	app.Params.Seeding.Authors = 3
	app.Params.Seeding.TagNames = []string{"Go", "Rust"}
	app.Params.Seeding.Articles = 5

	require.NoError(t, app.Seed(context.Background()))

	assert.Equal(t, map[string]int{"authors": 3, "tags": 2, "articles": 5}, cms.created)
	assert.Regexp(t, `authors:\s+3 created\s+0 failed`, out.String())
	assert.Regexp(t, `articles:\s+5 created\s+0 failed`, out.String())
}

func TestSeed_LoginFailureIsFatal(t *testing.T) {
	cms := &fakeCms{badLogin: true}
	app, _ := newTestApp(t, cms)

	err := app.Seed(context.Background())

	var authErr *cmserrors.ErrAuthentication
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, http.StatusBadRequest, authErr.Status)
	assert.Empty(t, cms.created)
}

func TestInstallSchemas(t *testing.T) {
	app, out := newTestApp(t, &fakeCms{})
	app.Params.SchemaDir = t.TempDir()

	require.NoError(t, app.InstallSchemas())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, filepath.Join(app.Params.SchemaDir, "api", "author", "content-types", "author", "schema.json"), lines[0])
}

func TestBootstrapSchemas(t *testing.T) {
	tests := map[string]struct {
		rejectPut        bool
		includeBaseTypes bool
		expectedLines    int
		expectedFailures int
	}{
		"all steps succeed": {expectedLines: 3},
		"with base types":   {includeBaseTypes: true, expectedLines: 5},
		"updates rejected":  {rejectPut: true, expectedLines: 3, expectedFailures: 2},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			app, out := newTestApp(t, &fakeCms{rejectPut: tc.rejectPut})
			app.Params.IncludeBaseTypes = tc.includeBaseTypes

			require.NoError(t, app.BootstrapSchemas(context.Background()))

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			assert.Len(t, lines, tc.expectedLines)
			assert.Equal(t, tc.expectedFailures, strings.Count(out.String(), ": failed: "))
		})
	}
}

func TestCreateTests_IsReproducible(t *testing.T) {
	app, out := newTestApp(t, &fakeCms{})
	app.Params.CorpusCount = 25

	var runs [][]string
	for i := 0; i < 2; i++ {
		app.Params.CorpusFile = filepath.Join(t.TempDir(), "cases.json")
		require.NoError(t, app.CreateTests())
		cases, err := corpus.Read(app.Params.CorpusFile)
		require.NoError(t, err)
		runs = append(runs, cases)
	}

	assert.Len(t, runs[0], 25)
	assert.Equal(t, runs[0], runs[1])
	assert.Contains(t, out.String(), "Generated 25 test cases")
}

func TestRunQueryCase(t *testing.T) {
	app, out := newTestApp(t, &fakeCms{})

	require.NoError(t, app.RunQueryCase(context.Background()))

	assert.Contains(t, out.String(), "articles (")
	assert.Contains(t, out.String(), `"title":"Hello"`)
}

func TestLoadTest(t *testing.T) {
	app, out := newTestApp(t, &fakeCms{})
	app.Params.LoadTest.Stages = []loadtest.Stage{{Duration: 150 * time.Millisecond, Target: 3}}
	app.Params.LoadTest.RampInterval = 5 * time.Millisecond
	app.Params.LoadTest.MaxThinkTime = 0

	require.NoError(t, app.LoadTest(context.Background()))

	assert.Contains(t, out.String(), loadtest.StartResultsMarker)
	assert.Contains(t, out.String(), loadtest.EndResultsMarker)
	assert.NotContains(t, out.String(), "FAILED")
}

func TestLoadTest_InvalidConfig(t *testing.T) {
	app, _ := newTestApp(t, &fakeCms{})
	app.Params.LoadTest.Stages = nil

	err := app.LoadTest(context.Background())

	var invalid *cmserrors.ErrInvalidArgument
	assert.True(t, errors.As(err, &invalid))
}

func writeCorpus(t *testing.T, app *App, queries ...string) {
	app.Params.CorpusFile = filepath.Join(t.TempDir(), "cases.json")
	require.NoError(t, corpus.Write(app.Params.CorpusFile, queries))
}

func TestReplayCorpus(t *testing.T) {
	tests := map[string]struct {
		body          string
		separateLogin bool
		expectedErr   error
		expectedOut   string
	}{
		"same data in another order": {
			body:        `{"data":{"articles":[{"id":"9","title":"Hello","tags":[{"id":"3","name":"AI"}]}]}}`,
			expectedOut: "Replayed 2 queries: 2 matched, 0 differed, 0 failed",
		},
		"separate login": {
			body:          `{"data":{"articles":[{"title":"Hello","tags":[{"name":"AI"}]}]}}`,
			separateLogin: true,
			expectedOut:   "Replayed 2 queries: 2 matched, 0 differed, 0 failed",
		},
		"different data": {
			body:        `{"data":{"articles":[{"title":"Goodbye","tags":[{"name":"AI"}]}]}}`,
			expectedErr: ErrResponsesDiffer,
			expectedOut: "Replayed 2 queries: 0 matched, 2 differed, 0 failed",
		},
		"graphql errors": {
			body:        `{"errors":[{"message":"Cannot query field"}]}`,
			expectedErr: ErrResponsesDiffer,
			expectedOut: "Replayed 2 queries: 0 matched, 0 differed, 2 failed",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			app, out := newTestApp(t, &fakeCms{})
			writeCorpus(t, app, "query { articles { title } }", "query { tags { name } }")

			var logins atomic.Int32
			compared := mux.NewRouter()
			compared.HandleFunc("/admin/login", func(w http.ResponseWriter, r *http.Request) {
				logins.Add(1)
				_, _ = fmt.Fprint(w, `{"data":{"token":"other"}}`)
			}).Methods(http.MethodPost)
			compared.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
				expectedAuth := "Bearer jwt"
				if tc.separateLogin {
					expectedAuth = "Bearer other"
				}
				if r.Header.Get("Authorization") != expectedAuth {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				_, _ = fmt.Fprint(w, tc.body)
			}).Methods(http.MethodPost)
			server := httptest.NewServer(compared)
			t.Cleanup(server.Close)

			app.Params.Replay.CompareEndpoint = server.URL + "/graphql"
			if tc.separateLogin {
				app.Params.Replay.CompareBaseUrl = server.URL
			}

			err := app.ReplayCorpus(context.Background())

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, out.String(), tc.expectedOut)
			if tc.separateLogin {
				assert.Equal(t, int32(1), logins.Load())
			} else {
				assert.Zero(t, logins.Load())
			}
		})
	}
}

func TestReplayCorpus_RequiresCompareEndpoint(t *testing.T) {
	app, _ := newTestApp(t, &fakeCms{})
	writeCorpus(t, app, "query { articles { title } }")

	err := app.ReplayCorpus(context.Background())

	var invalid *cmserrors.ErrInvalidArgument
	assert.True(t, errors.As(err, &invalid))
	assert.Equal(t, "compareEndpoint", invalid.Name)
}

func TestNew_Defaults(t *testing.T) {
	app := New()
	assert.Equal(t, corpus.DefaultFileName, app.Params.CorpusFile)
	assert.Equal(t, corpus.DefaultCount, app.Params.CorpusCount)
	assert.Equal(t, 50, app.Params.Seeding.Authors)
	assert.Equal(t, corpus.DefaultIgnoredKeys, app.Params.Replay.IgnoredKeys)
	_, err := json.Marshal(app.Params.QuerySpace)
	assert.NoError(t, err)
}
