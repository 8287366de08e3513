package workload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/avast/retry-go"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/armadaproject/cmsbench/internal/common/util"
	"github.com/armadaproject/cmsbench/internal/query"
	"github.com/armadaproject/cmsbench/pkg/client"
)

type fakeAuthenticator struct {
	mu       sync.Mutex
	calls    int
	failures int
}

func (f *fakeAuthenticator) Login(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return "", errors.New("connection refused")
	}
	return "token", nil
}

func TestSetup(t *testing.T) {
	tests := map[string]struct {
		failures      int
		expectedCalls int
		expectError   bool
	}{
		"first attempt":       {failures: 0, expectedCalls: 1},
		"after three retries": {failures: 3, expectedCalls: 4},
		"last attempt":        {failures: SetupAttempts - 1, expectedCalls: SetupAttempts},
		"never":               {failures: 100, expectedCalls: SetupAttempts, expectError: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			auth := &fakeAuthenticator{failures: tc.failures}
			token, err := Setup(context.Background(), auth, retry.Delay(time.Millisecond))
			assert.Equal(t, tc.expectedCalls, auth.calls)
			if tc.expectError {
				assert.Error(t, err)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "token", token)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	tests := map[string]struct {
		resp     *client.Response
		expected map[string]bool
	}{
		"good response": {
			resp:     &client.Response{StatusCode: 200, Body: []byte(`{"data":{"articles":[{"title":"a"}]}}`)},
			expected: map[string]bool{CheckStatus: true, CheckNoErrors: true, CheckHasData: true},
		},
		"null errors": {
			resp:     &client.Response{StatusCode: 200, Body: []byte(`{"errors":null,"data":{"articles":[{"title":"a"}]}}`)},
			expected: map[string]bool{CheckStatus: true, CheckNoErrors: true, CheckHasData: true},
		},
		"no matching articles": {
			resp:     &client.Response{StatusCode: 200, Body: []byte(`{"data":{"articles":[]}}`)},
			expected: map[string]bool{CheckStatus: true, CheckNoErrors: true, CheckHasData: false},
		},
		"graphql errors": {
			resp:     &client.Response{StatusCode: 200, Body: []byte(`{"errors":[{"message":"bad"}],"data":null}`)},
			expected: map[string]bool{CheckStatus: true, CheckNoErrors: false, CheckHasData: false},
		},
		"server error": {
			resp:     &client.Response{StatusCode: 500, Body: []byte(`oops`)},
			expected: map[string]bool{CheckStatus: false, CheckNoErrors: false, CheckHasData: false},
		},
		"no response": {
			resp:     nil,
			expected: map[string]bool{CheckStatus: false, CheckNoErrors: false, CheckHasData: false},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			results := Evaluate(tc.resp)
			require.Len(t, results, len(CheckNames))
			for i, r := range results {
				assert.Equal(t, CheckNames[i], r.Name)
				assert.Equal(t, tc.expected[r.Name], r.Passed, r.Name)
			}
		})
	}
}

type fakePoster struct {
	payloads [][]byte
	resp     *client.Response
	err      error
}

func (f *fakePoster) PostGraphQL(_ context.Context, payload []byte) (*client.Response, error) {
	f.payloads = append(f.payloads, payload)
	return f.resp, f.err
}

func TestIteration_Run(t *testing.T) {
	poster := &fakePoster{resp: &client.Response{
		StatusCode: 200,
		Body:       []byte(`{"data":{"articles":[{"title":"a"}]}}`),
		Duration:   20 * time.Millisecond,
	}}
	clock := &util.DummyClock{}
	it := NewIteration(poster, query.DefaultParameterSpace(), rand.New(rand.NewSource(1)), clock)

	result := it.Run(context.Background())

	assert.False(t, result.Failed())
	assert.True(t, result.ChecksPassed())
	assert.NotEmpty(t, result.RequestId)
	assert.Equal(t, 20*time.Millisecond, result.Duration)
	require.Len(t, poster.payloads, 1)

	var sent map[string]string
	require.NoError(t, json.Unmarshal(poster.payloads[0], &sent))
	assert.Equal(t, query.Build(result.Case).Query, sent["query"])
	assert.Equal(t, result.Query, sent["query"])

	assert.Empty(t, clock.Sleeps())
}

func TestIteration_Think(t *testing.T) {
	clock := &util.DummyClock{}
	it := NewIteration(&fakePoster{}, query.DefaultParameterSpace(), rand.New(rand.NewSource(1)), clock)

	for i := 0; i < 20; i++ {
		require.NoError(t, it.Think(context.Background()))
	}

	sleeps := clock.Sleeps()
	require.Len(t, sleeps, 20)
	for _, d := range sleeps {
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.Less(t, d, DefaultMaxThinkTime)
	}
}

func TestIteration_ThinkWithoutThinkTime(t *testing.T) {
	clock := &util.DummyClock{}
	it := NewIteration(&fakePoster{}, query.DefaultParameterSpace(), rand.New(rand.NewSource(1)), clock)
	it.MaxThinkTime = 0

	require.NoError(t, it.Think(context.Background()))
	assert.Empty(t, clock.Sleeps())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, it.Think(ctx), context.Canceled)
}

func TestIteration_RunTransportError(t *testing.T) {
	poster := &fakePoster{err: errors.New("connection reset")}
	clock := &util.DummyClock{}
	it := NewIteration(poster, query.DefaultParameterSpace(), rand.New(rand.NewSource(1)), clock)
	it.MaxThinkTime = 0

	result := it.Run(context.Background())

	assert.True(t, result.Failed())
	assert.False(t, result.ChecksPassed())
	assert.Empty(t, clock.Sleeps())
}

func TestRunOnce(t *testing.T) {
	var authorization string
	router := mux.NewRouter()
	router.HandleFunc("/admin/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"data":{"token":"secret"}}`)
	}).Methods(http.MethodPost)
	router.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		authorization = r.Header.Get("Authorization")
		var body bytes.Buffer
		_, _ = body.ReadFrom(r.Body)
		if !gjson.GetBytes(body.Bytes(), "query").Exists() {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = fmt.Fprint(w, `{"data":{"articles":[{"title":"Hello"}]}}`)
	}).Methods(http.MethodPost)
	server := httptest.NewServer(router)
	defer server.Close()

	c := client.NewClient(&client.ApiConnectionDetails{BaseUrl: server.URL, Timeout: 5 * time.Second})
	var out bytes.Buffer

	result, err := RunOnce(context.Background(), c, query.DefaultParameterSpace(), rand.New(rand.NewSource(3)), &out)
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", authorization)
	assert.True(t, result.ChecksPassed())
	assert.Contains(t, out.String(), result.Query)
	assert.Contains(t, out.String(), `"title":"Hello"`)
}
