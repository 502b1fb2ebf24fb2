package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jaswdr/faker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/weegigs/wee-visitors-go/metrics"
	"github.com/weegigs/wee-visitors-go/page"
	"github.com/weegigs/wee-visitors-go/visits"
)

const site = `<html><body><p>Visitors: <span id="count">-</span></p></body></html>`

type fixture struct {
	server *httptest.Server
	hits   int64
	logs   *bytes.Buffer
	doc    *page.HTMLDocument
}

func newFixture(t *testing.T, status int, body string) *fixture {
	f := &fixture{logs: &bytes.Buffer{}}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.hits, 1)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(f.server.Close)

	doc, err := page.ParseHTML(strings.NewReader(site))
	if err != nil {
		t.Fatalf("failed to parse page: %+v", err)
	}
	f.doc = doc

	return f
}

func (f *fixture) fetcher(options ...Option) *Fetcher {
	logger := zerolog.New(f.logs)
	return New(f.server.URL, append([]Option{Logger(&logger), Client(f.server.Client())}, options...)...)
}

func (f *fixture) count() string {
	element, _ := f.doc.ElementByID(page.CountElementID)
	return element.Text()
}

func (f *fixture) entries(level string) int {
	marker := fmt.Sprintf(`"level":"%s"`, level)
	entries := 0
	for _, line := range strings.Split(f.logs.String(), "\n") {
		if strings.Contains(line, marker) {
			entries++
		}
	}

	return entries
}

func rendersNumericCount(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{"count": 42}`)

	result := f.fetcher().Run(context.Background(), f.doc)

	assert.True(t, result.Ok())
	assert.Equal(t, "42", f.count())
	assert.Equal(t, 0, f.entries("error"))
	assert.Equal(t, 1, f.entries("info"))
	assert.Contains(t, f.logs.String(), `"payload":{"count": 42}`)
}

func rendersTextCount(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{"count": "N/A"}`)

	result := f.fetcher().Run(context.Background(), f.doc)

	assert.True(t, result.Ok())
	assert.Equal(t, "N/A", f.count())
}

func rendersGeneratedCounts(t *testing.T) {
	fake := faker.New()

	for i := 0; i < 5; i++ {
		value := fake.IntBetween(1, 1000000)
		f := newFixture(t, http.StatusOK, fmt.Sprintf(`{"count": %d}`, value))

		f.fetcher().Run(context.Background(), f.doc)

		assert.Equal(t, fmt.Sprint(value), f.count())
	}

	word := fake.Lorem().Word()
	f := newFixture(t, http.StatusOK, fmt.Sprintf(`{"count": %q}`, word))
	f.fetcher().Run(context.Background(), f.doc)
	assert.Equal(t, word, f.count())
}

func leavesPageOnConnectionFailure(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{"count": 42}`)
	fetcher := f.fetcher()
	f.server.Close()

	result := fetcher.Run(context.Background(), f.doc)

	var transport *visits.TransportError
	assert.True(t, errors.As(result.Err, &transport))
	assert.Equal(t, visits.TransportFailed, result.Outcome())
	assert.Equal(t, "-", f.count())
	assert.Equal(t, 1, f.entries("error"))
	assert.Equal(t, 0, f.entries("info"))
}

func leavesPageOnInvalidJson(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{"count": 42`)

	result := f.fetcher().Run(context.Background(), f.doc)

	var parse *visits.ParseError
	assert.True(t, errors.As(result.Err, &parse))
	assert.Equal(t, "-", f.count())
	assert.Equal(t, 1, f.entries("error"))
}

func leavesPageOnInvalidNumbers(t *testing.T) {
	for _, body := range []string{`{"count": -}`, `{"count": 01}`} {
		f := newFixture(t, http.StatusOK, body)

		result := f.fetcher().Run(context.Background(), f.doc)

		var parse *visits.ParseError
		assert.True(t, errors.As(result.Err, &parse), body)
		assert.Equal(t, visits.ParseFailed, result.Outcome(), body)
		assert.Equal(t, "-", f.count(), body)
		assert.Equal(t, 1, f.entries("error"), body)
		assert.Equal(t, 0, f.entries("info"), body)
		assert.NotContains(t, f.logs.String(), "payload", body)
	}
}

func countsFetchOutcomes(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{"count": 42}`)
	succeeded := metrics.Fetches.WithLabelValues(string(visits.Succeeded))
	before := testutil.ToFloat64(succeeded)

	f.fetcher().Fetch(context.Background())

	assert.Equal(t, before+1, testutil.ToFloat64(succeeded))
}

func leavesPageOnMissingCount(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{"visitors": 42}`)

	result := f.fetcher().Run(context.Background(), f.doc)

	var validation *visits.ValidationError
	assert.True(t, errors.As(result.Err, &validation))
	assert.Equal(t, "-", f.count())
	assert.NotContains(t, f.count(), "undefined")
	assert.Equal(t, 1, f.entries("error"))
}

func ignoresResponseStatus(t *testing.T) {
	f := newFixture(t, http.StatusBadGateway, `{"count": 7}`)

	result := f.fetcher().Run(context.Background(), f.doc)

	assert.True(t, result.Ok())
	assert.Equal(t, http.StatusBadGateway, result.Status)
	assert.Equal(t, "7", f.count())
}

func skipsMissingElement(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{"count": 42}`)

	result := f.fetcher(Target("visitor-count")).Run(context.Background(), f.doc)

	assert.True(t, result.Ok())
	assert.Equal(t, "-", f.count())
	assert.Equal(t, 0, f.entries("error"))
}

func requestsOnEveryInvocation(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{"count": 42}`)
	fetcher := f.fetcher()

	first := fetcher.Run(context.Background(), f.doc)
	second := fetcher.Run(context.Background(), f.doc)

	assert.Equal(t, int64(2), atomic.LoadInt64(&f.hits))
	assert.NotEqual(t, first.Invocation, second.Invocation)
}

func fetchDoesNotRender(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{"count": 42}`)

	result := f.fetcher().Fetch(context.Background())

	assert.True(t, result.Ok())
	assert.Equal(t, "42", result.Response.Count.String())
	assert.Equal(t, "-", f.count())
	assert.Empty(t, f.logs.String())
}

func rejectsInvalidEndpoint(t *testing.T) {
	logs := &bytes.Buffer{}
	logger := zerolog.New(logs)
	doc, _ := page.ParseHTML(strings.NewReader(site))

	result := New("://not-a-url", Logger(&logger)).Run(context.Background(), doc)

	assert.Equal(t, visits.TransportFailed, result.Outcome())
	assert.Equal(t, 1, strings.Count(logs.String(), `"level":"error"`))
}

func TestFetcher(t *testing.T) {
	t.Run("renders a numeric count", rendersNumericCount)
	t.Run("renders a text count", rendersTextCount)
	t.Run("renders generated counts", rendersGeneratedCounts)
	t.Run("leaves the page on connection failure", leavesPageOnConnectionFailure)
	t.Run("leaves the page on invalid json", leavesPageOnInvalidJson)
	t.Run("leaves the page on invalid numbers", leavesPageOnInvalidNumbers)
	t.Run("leaves the page on a missing count", leavesPageOnMissingCount)
	t.Run("ignores the response status", ignoresResponseStatus)
	t.Run("skips a missing element", skipsMissingElement)
	t.Run("requests on every invocation", requestsOnEveryInvocation)
	t.Run("fetch does not render", fetchDoesNotRender)
	t.Run("rejects an invalid endpoint", rejectsInvalidEndpoint)
	t.Run("counts fetch outcomes", countsFetchOutcomes)
}
