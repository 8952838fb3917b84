package worker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
	"github.com/osse101/ChocoboBot_Go/internal/ffxivcollect"
)

type countingJob struct {
	executed atomic.Int32
	done     chan struct{}
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Process(ctx context.Context) error {
	j.executed.Add(1)
	j.done <- struct{}{}
	return nil
}

type blockingJob struct {
	started chan struct{}
}

func (j *blockingJob) Name() string { return "blocking" }

func (j *blockingJob) Process(ctx context.Context) error {
	close(j.started)
	<-ctx.Done()
	return ctx.Err()
}

func TestPool(t *testing.T) {
	pool := NewPool(2, 4, time.Second)
	pool.Start()

	job := &countingJob{done: make(chan struct{}, 2)}
	require.True(t, pool.Enqueue(job))
	require.True(t, pool.Enqueue(job))

	for i := 0; i < 2; i++ {
		select {
		case <-job.done:
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for job")
		}
	}

	pool.Stop()
	assert.Equal(t, int32(2), job.executed.Load())
	assert.False(t, pool.Enqueue(job), "stopped pool rejects jobs")
}

func TestPool_QueueFull(t *testing.T) {
	pool := NewPool(1, 1, time.Second)

	job := &countingJob{done: make(chan struct{}, 2)}
	assert.True(t, pool.Enqueue(job))
	assert.False(t, pool.Enqueue(job), "second job overflows the unstarted queue")

	pool.Stop()
}

func TestPool_StopCancelsRunningJob(t *testing.T) {
	pool := NewPool(1, 1, time.Minute)
	pool.Start()

	job := &blockingJob{started: make(chan struct{})}
	require.True(t, pool.Enqueue(job))
	<-job.started

	stopped := make(chan struct{})
	go func() {
		pool.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not cancel the running job")
	}
}

type fakeCatalog struct {
	calls []domain.CollectibleKind
	fail  domain.CollectibleKind
}

func (f *fakeCatalog) RefreshCatalog(_ context.Context, kind domain.CollectibleKind) ([]domain.Collectible, error) {
	f.calls = append(f.calls, kind)
	if kind == f.fail {
		return nil, domain.ErrUpstreamUnavailable
	}
	return []domain.Collectible{{ID: 1, Kind: kind}}, nil
}

func TestCatalogWarmJob(t *testing.T) {
	t.Run("warms every kind", func(t *testing.T) {
		catalog := &fakeCatalog{}
		err := NewCatalogWarmJob(catalog).Process(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []domain.CollectibleKind{domain.KindMount, domain.KindMinion}, catalog.calls)
	})

	t.Run("continues past a failing kind", func(t *testing.T) {
		catalog := &fakeCatalog{fail: domain.KindMount}
		err := NewCatalogWarmJob(catalog).Process(context.Background())

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
		assert.Contains(t, err.Error(), "mounts")
		assert.Len(t, catalog.calls, 2)
	})

	t.Run("refreshes a catalog that is still cached", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			_, _ = w.Write([]byte(`{"count": 1, "results": [{"id": 7, "name": "Gullfaxi"}]}`))
		}))
		defer server.Close()

		client := ffxivcollect.NewClient(ffxivcollect.Config{BaseURL: server.URL, CatalogTTL: time.Hour})
		job := &CatalogWarmJob{Catalog: client, Kinds: []domain.CollectibleKind{domain.KindMount}}

		require.NoError(t, job.Process(context.Background()))
		require.NoError(t, job.Process(context.Background()))

		assert.Equal(t, int32(2), calls.Load())
		items, err := client.FetchAllCollectibles(context.Background(), domain.KindMount)
		require.NoError(t, err)
		assert.Equal(t, int32(2), calls.Load(), "user request served from the warmed cache")
		assert.Len(t, items, 1)
	})
}
