package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	worker "github.com/okian/wcag/internal/adapters/mq/worker"
	"github.com/okian/wcag/internal/domain/audit"
	"github.com/okian/wcag/internal/domain/model"
	logging "github.com/okian/wcag/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	jobs      chan worker.Job
	closeOnce sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan worker.Job, 16)}
}

func (mq *mockQueue) Dequeue(_ context.Context) <-chan worker.Job {
	return mq.jobs
}

func (mq *mockQueue) Close() error {
	mq.closeOnce.Do(func() { close(mq.jobs) })
	return nil
}

func (mq *mockQueue) add(job worker.Job) { //nolint:gocritic // hugeParam: Job must be passed by value for channel semantics
	mq.jobs <- job
}

type mockStore struct {
	mu      sync.Mutex
	reports map[string]model.Report
	err     error
}

func newMockStore() *mockStore {
	return &mockStore{reports: make(map[string]model.Report)}
}

func (ms *mockStore) Save(_ context.Context, r model.Report) error { //nolint:gocritic // hugeParam: reports are values end to end
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.err != nil {
		return ms.err
	}
	ms.reports[r.ID] = r
	return nil
}

func (ms *mockStore) get(id string) (model.Report, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	r, ok := ms.reports[id]
	return r, ok
}

func (ms *mockStore) count() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.reports)
}

// waitFor polls cond until it holds or a second passes.
func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a new InMemoryWorker", t, func() {
		_ = logging.Init()

		queue := newMockQueue()
		store := newMockStore()
		evaluator := audit.NewInMemoryEvaluator()

		convey.Convey("When creating a worker with custom options", func() {
			w := worker.NewInMemoryWorker(
				queue, evaluator, store,
				worker.WithName("test-worker"),
				worker.WithLogger(logging.Get()),
			)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(w, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When running a worker", func() {
			w := worker.NewInMemoryWorker(queue, evaluator, store)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go w.Run(ctx)

			convey.Convey("And processing a valid audit", func() {
				submitted := time.Now().Add(-time.Millisecond)
				queue.add(model.Audit{
					ID:          "audit-1",
					SubmittedAt: submitted,
					Pairs: []model.Pair{
						{Foreground: "#9CA3AF", Background: "#FFFFFF"},
						{Foreground: "#6f7682", Background: "#FFFFFF"},
					},
				})
				convey.So(waitFor(func() bool { _, ok := store.get("audit-1"); return ok }), convey.ShouldBeTrue)

				convey.Convey("Then a completed report should be stored", func() {
					r, _ := store.get("audit-1")
					convey.So(r.Status, convey.ShouldEqual, model.StatusCompleted)
					convey.So(r.Results, convey.ShouldHaveLength, 2)
					convey.So(r.Summary.Total, convey.ShouldEqual, 2)
					convey.So(r.Summary.FailedAA, convey.ShouldEqual, 1)
					convey.So(r.Summary.PassRate, convey.ShouldEqual, 50.0)
					convey.So(r.SubmittedAt, convey.ShouldEqual, submitted)
					convey.So(r.CompletedAt.After(submitted), convey.ShouldBeTrue)
				})
			})

			convey.Convey("And evaluation fails", func() {
				queue.add(model.Audit{ID: "audit-2", Pairs: []model.Pair{{Foreground: "not-a-color"}}})
				convey.So(waitFor(func() bool { _, ok := store.get("audit-2"); return ok }), convey.ShouldBeTrue)

				convey.Convey("Then a failed report should carry the cause", func() {
					r, _ := store.get("audit-2")
					convey.So(r.Status, convey.ShouldEqual, model.StatusFailed)
					convey.So(r.Error, convey.ShouldContainSubstring, "invalid color format")
					convey.So(r.Results, convey.ShouldBeEmpty)
				})
			})

			convey.Convey("And shutting down", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
				defer shutdownCancel()

				err := w.Shutdown(shutdownCtx)

				convey.Convey("Then it should stop gracefully and tolerate a second call", func() {
					convey.So(err, convey.ShouldBeNil)
					convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
				})
			})
		})

		convey.Convey("When the context is cancelled", func() {
			w := worker.NewInMemoryWorker(queue, evaluator, store)
			ctx, cancel := context.WithCancel(context.Background())
			go w.Run(ctx)
			cancel()

			convey.Convey("Then the worker should stop", func() {
				select {
				case <-w.Done():
					convey.So(true, convey.ShouldBeTrue)
				case <-time.After(time.Second):
					convey.So("worker still running", convey.ShouldBeEmpty)
				}
			})
		})
	})
}

func TestWorkerStoreError(t *testing.T) {
	convey.Convey("Given a store that rejects writes", t, func() {
		_ = logging.Init()
		queue := newMockQueue()
		store := newMockStore()
		store.err = errors.New("disk full")

		w := worker.NewInMemoryWorker(queue, audit.NewInMemoryEvaluator(), store)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		queue.add(model.Audit{ID: "audit-x", Pairs: []model.Pair{{Foreground: "#000"}}})
		_ = queue.Close()

		convey.Convey("Then the worker should keep running until the queue drains", func() {
			select {
			case <-w.Done():
				convey.So(store.count(), convey.ShouldEqual, 0)
			case <-time.After(time.Second):
				convey.So("worker did not drain", convey.ShouldBeEmpty)
			}
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a new worker pool", t, func() {
		_ = logging.Init()

		queue := newMockQueue()
		store := newMockStore()
		evaluator := audit.NewInMemoryEvaluator()

		convey.Convey("When creating a pool with default count", func() {
			pool := worker.NewPool(0, queue, evaluator, store)

			convey.Convey("Then it should have at least one worker", func() {
				convey.So(pool.Size(), convey.ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		convey.Convey("When a started pool drains the queue", func() {
			pool := worker.NewPool(3, queue, evaluator, store)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			pool.Start(ctx)

			for i := 0; i < 10; i++ {
				queue.add(model.Audit{
					ID:    fmt.Sprintf("audit-%d", i),
					Pairs: []model.Pair{{Foreground: "#374151", Background: "#F9FAFB"}},
				})
			}

			err := pool.Shutdown(context.Background())

			convey.Convey("Then every audit should have a report", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(store.count(), convey.ShouldEqual, 10)
				convey.So(pool.Processed(), convey.ShouldEqual, 10)
				r, _ := store.get("audit-7")
				convey.So(r.Results[0].Ratio, convey.ShouldAlmostEqual, 9.86, 0.005)
			})
		})
	})
}
