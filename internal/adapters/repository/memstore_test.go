package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/domain/filter"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func swimming() filter.Selection {
	sel, _ := filter.NewSelection([]string{"Swimming"}, nil, nil)
	return sel
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a session store with a 10 minute TTL", t, func() {
		ctx := context.Background()
		clock := &fakeClock{now: time.Date(2024, 7, 26, 12, 0, 0, 0, time.UTC)}
		store := repository.NewMemoryStore(ctx,
			repository.WithTTL(10*time.Minute),
			repository.WithSweepInterval(time.Hour),
			repository.WithClock(clock.Now),
		)
		defer func() { _ = store.Close() }()

		Convey("When a session is created", func() {
			sess, err := store.Create(ctx, swimming())
			So(err, ShouldBeNil)

			Convey("Then it gets a unique id and can be read back", func() {
				So(sess.ID, ShouldNotBeEmpty)
				got, err := store.Get(ctx, sess.ID)
				So(err, ShouldBeNil)
				So(got.Selection.SportList(), ShouldResemble, []string{"Swimming"})
				So(store.Count(ctx), ShouldEqual, 1)

				other, err := store.Create(ctx, filter.Selection{})
				So(err, ShouldBeNil)
				So(other.ID, ShouldNotEqual, sess.ID)
			})

			Convey("Then its selection can be replaced", func() {
				judo, _ := filter.NewSelection([]string{"Judo"}, []string{"Japan"}, nil)
				clock.Advance(time.Minute)
				updated, err := store.Update(ctx, sess.ID, judo)
				So(err, ShouldBeNil)
				So(updated.Selection.SportList(), ShouldResemble, []string{"Judo"})
				So(updated.LastAccess.After(sess.LastAccess), ShouldBeTrue)
			})

			Convey("Then it can be deleted once", func() {
				So(store.Delete(ctx, sess.ID), ShouldBeNil)
				So(errors.Is(store.Delete(ctx, sess.ID), repository.ErrSessionNotFound), ShouldBeTrue)
				_, err := store.Get(ctx, sess.ID)
				So(errors.Is(err, repository.ErrSessionNotFound), ShouldBeTrue)
			})

			Convey("Then it expires after being idle past the TTL", func() {
				clock.Advance(11 * time.Minute)
				_, err := store.Get(ctx, sess.ID)
				So(errors.Is(err, repository.ErrSessionNotFound), ShouldBeTrue)
				So(store.Sweep(), ShouldEqual, 1)
				So(store.Count(ctx), ShouldEqual, 0)
			})

			Convey("Then reading it keeps it alive", func() {
				clock.Advance(8 * time.Minute)
				_, err := store.Get(ctx, sess.ID)
				So(err, ShouldBeNil)
				clock.Advance(8 * time.Minute)
				So(store.Sweep(), ShouldEqual, 0)
				_, err = store.Get(ctx, sess.ID)
				So(err, ShouldBeNil)
			})
		})

		Convey("When updating an unknown session", func() {
			_, err := store.Update(ctx, "missing", filter.Selection{})

			Convey("Then ErrSessionNotFound is returned", func() {
				So(errors.Is(err, repository.ErrSessionNotFound), ShouldBeTrue)
			})
		})

		Convey("When the store is closed", func() {
			So(store.Close(), ShouldBeNil)
			_, err := store.Create(ctx, filter.Selection{})

			Convey("Then writes are refused and Close stays safe", func() {
				So(errors.Is(err, repository.ErrStoreClosed), ShouldBeTrue)
				So(store.Close(), ShouldBeNil)
			})
		})
	})
}

func TestMemoryStore_SweepLoop(t *testing.T) {
	Convey("Given a store with a fast sweep loop", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		clock := &fakeClock{now: time.Now()}
		store := repository.NewMemoryStore(ctx,
			repository.WithTTL(time.Second),
			repository.WithSweepInterval(5*time.Millisecond),
			repository.WithClock(clock.Now),
		)
		defer func() { _ = store.Close() }()

		_, err := store.Create(ctx, filter.Selection{})
		So(err, ShouldBeNil)

		Convey("When sessions go idle", func() {
			clock.Advance(2 * time.Second)

			Convey("Then the loop evicts them", func() {
				deadline := time.Now().Add(2 * time.Second)
				for store.Count(ctx) > 0 && time.Now().Before(deadline) {
					time.Sleep(5 * time.Millisecond)
				}
				So(store.Count(ctx), ShouldEqual, 0)
			})
		})
	})
}

func TestMemoryStore_Concurrent(t *testing.T) {
	Convey("Given concurrent sessions", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(ctx)
		defer func() { _ = store.Close() }()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				sess, err := store.Create(ctx, swimming())
				if err != nil {
					return
				}
				_, _ = store.Get(ctx, sess.ID)
				_, _ = store.Update(ctx, sess.ID, filter.Selection{})
			}()
		}
		wg.Wait()

		Convey("Then every session is stored", func() {
			So(store.Count(ctx), ShouldEqual, 50)
		})
	})
}
