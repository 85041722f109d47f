package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/igusev/cfl/internal/dataset"
	"github.com/igusev/cfl/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const document = `{
  "updateTime": "2025/06/01",
  "data": [
    {"code": "138A", "name": "株式会社ソラコム", "furigana": "ソラコム", "decisionMonth": 3},
    {"code": "1380", "name": "秋川牧園株式会社", "furigana": "アキカワボクエン", "decisionMonth": 3},
    {"code": "7203", "name": "トヨタ自動車株式会社", "furigana": "トヨタジドウシャ", "decisionMonth": 3},
    {"code": "6758", "name": "ソニーグループ株式会社", "furigana": "ソニーグループ", "decisionMonth": 3}
  ]
}`

// flakySource fails until succeedAfter fetches have been made
type flakySource struct {
	calls        atomic.Int32
	succeedAfter int32
	data         string
}

func (f *flakySource) Fetch(ctx context.Context) ([]byte, error) {
	if f.calls.Add(1) <= f.succeedAfter {
		return nil, fmt.Errorf("%w: connection refused", dataset.ErrTransport)
	}
	return []byte(f.data), nil
}

func newLoaded(t *testing.T, opts Options) *Session {
	t.Helper()
	s := New(&dataset.StaticSource{Data: []byte(document)}, opts)
	_, err := s.Load(context.Background())
	require.NoError(t, err)
	return s
}

func TestLoad(t *testing.T) {
	s := newLoaded(t, DefaultOptions())

	assert.Equal(t, "2025/06/01", s.UpdateTime())
	assert.Len(t, s.Companies(), 4)
	assert.Equal(t, "", s.Err())
	assert.False(t, s.CanRetry())

	stats := s.Stats()
	assert.Equal(t, 4, stats.TotalCompanies)
	assert.True(t, stats.HasData)
	assert.Equal(t, 0, stats.CacheSize)
}

func TestSearch_BlankInput(t *testing.T) {
	s := newLoaded(t, DefaultOptions())

	for _, input := range []string{"", "   ", "\n\t"} {
		result, err := s.Search(context.Background(), input, true)
		require.NoError(t, err)
		assert.False(t, result.Searched)
		assert.Equal(t, 0, result.TermCount)
		assert.Empty(t, result.Companies)
	}

	assert.Equal(t, 0, s.Stats().CacheSize)
	assert.Equal(t, int64(0), s.Stats().Computations)
}

func TestSearch_SeparatorsOnly(t *testing.T) {
	s := newLoaded(t, DefaultOptions())

	result, err := s.Search(context.Background(), ", ,\n", true)
	require.NoError(t, err)
	assert.True(t, result.Searched)
	assert.Equal(t, 0, result.TermCount)
	assert.NotNil(t, result.Companies)
	assert.Empty(t, result.Companies)
}

func TestSearch_FuzzyAndExact(t *testing.T) {
	s := newLoaded(t, DefaultOptions())
	ctx := context.Background()

	fuzzy, err := s.Search(ctx, "138", true)
	require.NoError(t, err)
	assert.Equal(t, 1, fuzzy.TermCount)
	require.Len(t, fuzzy.Companies, 2)
	assert.Equal(t, "138A", fuzzy.Companies[0].Code)
	assert.Equal(t, "1380", fuzzy.Companies[1].Code)

	exact, err := s.Search(ctx, "138", false)
	require.NoError(t, err)
	assert.Empty(t, exact.Companies)

	multi, err := s.Search(ctx, "ソラコム, トヨタ自動車\n6758", false)
	require.NoError(t, err)
	assert.Equal(t, 3, multi.TermCount)
	codes := make([]string, 0, len(multi.Companies))
	for _, c := range multi.Companies {
		codes = append(codes, c.Code)
	}
	assert.Equal(t, []string{"138A", "7203", "6758"}, codes)
}

func TestSearch_CachesResults(t *testing.T) {
	s := newLoaded(t, DefaultOptions())
	ctx := context.Background()

	first, err := s.Search(ctx, "ソニー", true)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, int64(1), s.Stats().Computations)
	assert.Equal(t, 1, s.Stats().CacheSize)

	// Same normalized input hits the cache
	second, err := s.Search(ctx, "  ソニー ", true)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Companies, second.Companies)
	assert.Equal(t, int64(1), s.Stats().Computations)

	// Mode is part of the key
	_, err = s.Search(ctx, "ソニー", false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.Stats().Computations)
	assert.Equal(t, 2, s.Stats().CacheSize)
}

func TestSearch_Idempotent(t *testing.T) {
	s := newLoaded(t, DefaultOptions())
	ctx := context.Background()

	a, err := s.Search(ctx, "株式会社", true)
	require.NoError(t, err)
	s.ClearCache()
	b, err := s.Search(ctx, "株式会社", true)
	require.NoError(t, err)

	assert.Equal(t, a.Companies, b.Companies)
	assert.Len(t, a.Companies, 4)
}

func TestClearCache_Recomputes(t *testing.T) {
	s := newLoaded(t, DefaultOptions())
	ctx := context.Background()

	_, err := s.Search(ctx, "トヨタ", true)
	require.NoError(t, err)
	require.Equal(t, 1, s.Stats().CacheSize)

	s.ClearCache()
	assert.Equal(t, 0, s.Stats().CacheSize)

	result, err := s.Search(ctx, "トヨタ", true)
	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Equal(t, int64(2), s.Stats().Computations)
}

func TestSearch_CanceledContext(t *testing.T) {
	s := newLoaded(t, DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Search(ctx, "ソラコム", true)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, s.Stats().CacheSize)
}

func TestSearch_BeforeLoad(t *testing.T) {
	s := New(&dataset.StaticSource{Data: []byte(document)}, DefaultOptions())

	result, err := s.Search(context.Background(), "ソラコム", true)
	require.NoError(t, err)
	assert.True(t, result.Searched)
	assert.Empty(t, result.Companies)
}

func TestLoad_ClearsCache(t *testing.T) {
	s := newLoaded(t, DefaultOptions())
	ctx := context.Background()

	_, err := s.Search(ctx, "ソラコム", true)
	require.NoError(t, err)
	require.Equal(t, 1, s.Stats().CacheSize)

	_, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Stats().CacheSize)
}

func TestLoad_Failure(t *testing.T) {
	tests := []struct {
		name    string
		source  dataset.Source
		wantErr error
	}{
		{"transport", &flakySource{succeedAfter: 100}, dataset.ErrTransport},
		{"empty", &dataset.StaticSource{Data: []byte("  ")}, dataset.ErrEmptyDocument},
		{"malformed", &dataset.StaticSource{Data: []byte(`{"data": [`)}, dataset.ErrMalformedDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.source, DefaultOptions())

			list, err := s.Load(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, list.Empty())
			assert.NotEmpty(t, s.Err())
			assert.True(t, s.CanRetry())
			assert.False(t, s.Stats().HasData)

			// Searching without data is not an error
			result, err := s.Search(context.Background(), "ソラコム", true)
			require.NoError(t, err)
			assert.Empty(t, result.Companies)
		})
	}
}

func TestLoad_FailureDropsPreviousData(t *testing.T) {
	src := &flakySource{data: document}
	s := New(src, DefaultOptions())
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	src.succeedAfter = 100
	_, err = s.Load(context.Background())
	require.Error(t, err)

	assert.Empty(t, s.Companies())
	assert.Contains(t, s.Err(), "connection refused")
}

func TestRetry_Bounded(t *testing.T) {
	s := New(&flakySource{succeedAfter: 100}, Options{MaxRetries: 3})
	ctx := context.Background()

	_, err := s.Load(ctx)
	require.Error(t, err)

	for i := 1; i <= 3; i++ {
		require.True(t, s.CanRetry(), "attempt %d should be allowed", i)
		err := s.Retry(ctx)
		assert.ErrorIs(t, err, dataset.ErrTransport)
		assert.Equal(t, i, s.Stats().RetryCount)
	}

	assert.False(t, s.CanRetry())
	assert.ErrorIs(t, s.Retry(ctx), ErrRetryExhausted)
	assert.Equal(t, 3, s.Stats().RetryCount)
}

func TestRetry_SuccessResetsCounter(t *testing.T) {
	src := &flakySource{succeedAfter: 2, data: document}
	s := New(src, DefaultOptions())
	ctx := context.Background()

	_, err := s.Load(ctx)
	require.Error(t, err)
	require.Error(t, s.Retry(ctx))
	assert.Equal(t, 1, s.Stats().RetryCount)

	require.NoError(t, s.Retry(ctx))
	assert.Equal(t, 0, s.Stats().RetryCount)
	assert.Equal(t, "", s.Err())
	assert.False(t, s.CanRetry())
	assert.Len(t, s.Companies(), 4)
}

func TestRetry_ZeroAllowed(t *testing.T) {
	s := New(&flakySource{succeedAfter: 100}, Options{MaxRetries: 0})

	_, err := s.Load(context.Background())
	require.Error(t, err)
	assert.False(t, s.CanRetry())
	assert.True(t, errors.Is(s.Retry(context.Background()), ErrRetryExhausted))
}

func TestSearch_IndexPathMatchesScan(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"updateTime": "x", "data": [`)
	for i := 0; i < 150; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"code": "%04d", "name": "株式会社テスト%03d", "furigana": "テスト%03d"}`, 1000+i, i, i)
	}
	b.WriteString("]}")
	doc := []byte(b.String())

	scanned := New(&dataset.StaticSource{Data: doc}, Options{IndexThreshold: 1000, MaxRetries: 3})
	indexed := New(&dataset.StaticSource{Data: doc}, Options{IndexThreshold: 100, MaxRetries: 3})
	ctx := context.Background()
	_, err := scanned.Load(ctx)
	require.NoError(t, err)
	_, err = indexed.Load(ctx)
	require.NoError(t, err)

	for _, input := range []string{"テスト01", "1100, 1149", "テスト042"} {
		for _, fuzzy := range []bool{true, false} {
			a, err := scanned.Search(ctx, input, fuzzy)
			require.NoError(t, err)
			b, err := indexed.Search(ctx, input, fuzzy)
			require.NoError(t, err)
			assert.ElementsMatch(t, a.Companies, b.Companies, "input %q fuzzy=%v", input, fuzzy)
		}
	}

	assert.Equal(t, search.PathScan, scanned.EngineStats().LastPath)
	assert.Equal(t, search.PathIndex, indexed.EngineStats().LastPath)
	assert.Equal(t, 1, indexed.EngineStats().IndexBuilds)
}

func TestSearch_Concurrent(t *testing.T) {
	s := newLoaded(t, Options{MaxCacheEntries: 2, MaxRetries: 3})
	ctx := context.Background()
	inputs := []string{"ソラコム", "トヨタ", "138", "ソニー"}

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			result, err := s.Search(ctx, inputs[n%len(inputs)], n%2 == 0)
			assert.NoError(t, err)
			assert.True(t, result.Searched)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, s.Stats().CacheSize, 2)
}
