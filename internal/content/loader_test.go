package content_test

import (
	"context"
	"github.com/homecrimes/caseroom/internal/content"
	"github.com/homecrimes/caseroom/internal/errors"
	"github.com/homecrimes/caseroom/internal/models"
	"github.com/homecrimes/caseroom/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// scriptedSource answers each call with the next version. A call whose release channel is set blocks until
// the channel is closed.
type scriptedSource struct {
	calls   atomic.Int64
	release map[int64]chan struct{}
	err     error
}

func (s *scriptedSource) Load(_ context.Context, slug string) (models.Content, error) {
	n := s.calls.Add(1)
	if ch, ok := s.release[n]; ok {
		<-ch
	}
	if s.err != nil {
		return models.Content{}, s.err //nolint:exhaustruct // error path
	}
	c := models.Content{} //nolint:exhaustruct // only the case matters
	c.Case.Slug = slug
	c.Case.Version = "v" + string(rune('0'+n))
	return c, nil
}

func TestLoader_Load_caches(t *testing.T) {
	source := &scriptedSource{} //nolint:exhaustruct // zero values are fine
	loader := content.NewLoader(source, 8, time.Minute, testhelpers.NewLogger(io.Discard))
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	first, err := loader.Load(context.Background(), "caso")
	require.NoError(t, err)
	second, err := loader.Load(context.Background(), "caso")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), source.calls.Load())

	_, err = loader.Load(context.Background(), "otro")
	require.NoError(t, err)
	assert.Equal(t, int64(2), source.calls.Load())

	loader.Invalidate("caso")
	third, err := loader.Load(context.Background(), "caso")
	require.NoError(t, err)
	assert.Equal(t, "v3", third.Case.Version)
}

func TestLoader_Refresh_discardsStaleResponse(t *testing.T) {
	release := make(chan struct{})
	source := &scriptedSource{release: map[int64]chan struct{}{1: release}} //nolint:exhaustruct // no error
	loader := content.NewLoader(source, 8, time.Minute, testhelpers.NewLogger(io.Discard))
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var (
		wg    sync.WaitGroup
		stale models.Content
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		stale, _ = loader.Refresh(context.Background(), "caso")
	}()
	require.Eventually(t, func() bool { return source.calls.Load() == 1 }, time.Second, time.Millisecond)

	fresh, err := loader.Refresh(context.Background(), "caso")
	require.NoError(t, err)
	assert.Equal(t, "v2", fresh.Case.Version)

	close(release)
	wg.Wait()
	assert.Equal(t, "v2", stale.Case.Version, "the older request observes the newer content")

	cached, err := loader.Load(context.Background(), "caso")
	require.NoError(t, err)
	assert.Equal(t, "v2", cached.Case.Version)
	assert.Equal(t, int64(2), source.calls.Load())
}

func TestLoader_Load_error(t *testing.T) {
	errDown := errors.NewSentinel("cms down")
	source := &scriptedSource{err: errDown} //nolint:exhaustruct // no release
	loader := content.NewLoader(source, 8, time.Minute, testhelpers.NewLogger(io.Discard))

	_, err := loader.Load(context.Background(), "caso")
	require.ErrorIs(t, err, errDown)
	_, err = loader.Load(context.Background(), "caso")
	require.ErrorIs(t, err, errDown)
	assert.Equal(t, int64(2), source.calls.Load(), "errors are not cached")
}
