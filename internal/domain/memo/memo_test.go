package memo_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/okian/podium/internal/domain/memo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCache(t *testing.T) {
	Convey("Given a new Cache", t, func() {
		Convey("When creating a cache with default options", func() {
			c := memo.New[int]()

			Convey("Then it should be empty", func() {
				So(c.Size(), ShouldEqual, 0)
				_, ok := c.Get("a")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When storing values", func() {
			c := memo.New[int](memo.WithMaxSize(3))
			c.Put("a", 1)
			c.Put("b", 2)

			Convey("Then they can be read back", func() {
				v, ok := c.Get("a")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 1)
				So(c.Size(), ShouldEqual, 2)
			})

			Convey("Then overwriting keeps the size", func() {
				c.Put("a", 10)
				v, _ := c.Get("a")
				So(v, ShouldEqual, 10)
				So(c.Size(), ShouldEqual, 2)
			})

			Convey("Then hits and misses are counted", func() {
				c.Get("a")
				c.Get("zz")
				hits, misses := c.Stats()
				So(hits, ShouldEqual, 1)
				So(misses, ShouldEqual, 1)
			})
		})

		Convey("When the cache is full", func() {
			c := memo.New[string](memo.WithMaxSize(2))
			c.Put("a", "1")
			c.Put("b", "2")
			c.Put("c", "3")

			Convey("Then the oldest entry is evicted", func() {
				_, ok := c.Get("a")
				So(ok, ShouldBeFalse)
				v, ok := c.Get("c")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "3")
				So(c.Size(), ShouldEqual, 2)
			})

			Convey("Then eviction keeps going in insertion order", func() {
				c.Put("d", "4")
				_, ok := c.Get("b")
				So(ok, ShouldBeFalse)
				_, ok = c.Get("c")
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When the cache is reset", func() {
			c := memo.New[int](memo.WithMaxSize(2))
			c.Put("a", 1)
			c.Put("b", 2)
			c.Reset()

			Convey("Then it is empty and usable again", func() {
				So(c.Size(), ShouldEqual, 0)
				_, ok := c.Get("a")
				So(ok, ShouldBeFalse)
				c.Put("c", 3)
				c.Put("d", 4)
				c.Put("e", 5)
				So(c.Size(), ShouldEqual, 2)
			})
		})

		Convey("When the cache is disabled", func() {
			c := memo.New[int](memo.WithMaxSize(0))
			c.Put("a", 1)

			Convey("Then nothing is stored", func() {
				_, ok := c.Get("a")
				So(ok, ShouldBeFalse)
				So(c.Size(), ShouldEqual, 0)
			})
		})
	})
}

func TestCacheConcurrency(t *testing.T) {
	Convey("Given a bounded cache under concurrent use", t, func() {
		c := memo.New[int](memo.WithMaxSize(50))

		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < 200; i++ {
					key := fmt.Sprintf("k%d", (g*200+i)%120)
					c.Put(key, i)
					c.Get(key)
				}
			}(g)
		}
		wg.Wait()

		Convey("Then the bound is respected", func() {
			So(c.Size(), ShouldBeLessThanOrEqualTo, 50)
			So(c.Size(), ShouldBeGreaterThan, 0)
		})
	})
}
