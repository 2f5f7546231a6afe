package service_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	service "github.com/okian/podium/internal/app"
	"github.com/okian/podium/internal/domain/dataset"
	"github.com/okian/podium/internal/domain/filter"
	. "github.com/smartystreets/goconvey/convey"
)

func writeFile(dir, name, body string) string {
	p := filepath.Join(dir, name)
	So(os.WriteFile(p, []byte(body), 0o600), ShouldBeNil)
	return p
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service reading CSV files from disk", t, func() {
		dir := t.TempDir()
		a1 := writeFile(dir, "athlete_performance_1.csv", athletes1)
		a2 := writeFile(dir, "athlete_performance_2.csv", athletes2)
		r := writeFile(dir, "noc_regions.csv", regions)

		svc := service.New(
			service.WithSources(dataset.Files(a1, a2, r)),
			service.WithSweepInterval(10*time.Millisecond),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)

		oneRow := header +
			"5,Eve Ng,F,26,168,58,Canada,CAN,2012 Summer,2012,Summer,London,Rowing,Rowing Women's Eights,Bronze\n"

		Convey("When the files change without a reload", func() {
			writeFile(dir, "athlete_performance_2.csv", oneRow)

			Convey("Then the cached table is still served", func() {
				sum, err := svc.Summary(ctx, filter.Selection{})
				So(err, ShouldBeNil)
				So(sum.Rows, ShouldEqual, 5)
			})
		})

		Convey("When the files change and the service reloads", func() {
			writeFile(dir, "athlete_performance_2.csv", oneRow)
			info, err := svc.Reload(ctx)

			Convey("Then the new data is served", func() {
				So(err, ShouldBeNil)
				So(info.Rows, ShouldEqual, 4)
				sum, err := svc.Summary(ctx, filter.Selection{})
				So(err, ShouldBeNil)
				So(sum.Rows, ShouldEqual, 4)
				c, err := svc.Choices(ctx)
				So(err, ShouldBeNil)
				So(c.Sports, ShouldContain, "Rowing")
			})
		})

		Convey("When a reload fails", func() {
			So(os.Remove(a2), ShouldBeNil)
			_, err := svc.Reload(ctx)

			Convey("Then the previous table keeps being served", func() {
				So(err, ShouldNotBeNil)
				info, err := svc.Info()
				So(err, ShouldBeNil)
				So(info.Rows, ShouldEqual, 5)
			})
		})

		Convey("When many viewers recompute at once", func() {
			sels := []filter.Selection{
				selection([]string{"Swimming"}, nil, nil),
				selection([]string{"Judo"}, nil, nil),
				selection(nil, []string{"UK"}, nil),
				{},
			}
			want := []int{2, 2, 1, 5}

			var wg sync.WaitGroup
			got := make([][]int, len(sels))
			for i, sel := range sels {
				got[i] = make([]int, 20)
				for j := 0; j < 20; j++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						sum, err := svc.Summary(ctx, sel)
						if err == nil {
							got[i][j] = sum.Rows
						}
					}()
				}
			}
			wg.Wait()

			Convey("Then each recomputation sees only its own selection", func() {
				for i := range sels {
					for _, rows := range got[i] {
						So(rows, ShouldEqual, want[i])
					}
				}
			})
		})
	})
}

func TestServiceSharedCache(t *testing.T) {
	Convey("Given two services sharing one dataset cache", t, func() {
		cache := dataset.NewCache()
		src := sources(athletes1, athletes2, regions)
		first := service.New(service.WithSources(src), service.WithCache(cache))
		second := service.New(service.WithSources(src), service.WithCache(cache))
		defer first.Stop()
		defer second.Stop()

		So(first.Start(context.Background()), ShouldBeNil)
		So(second.Start(context.Background()), ShouldBeNil)

		Convey("Then the dataset is held once", func() {
			So(cache.Len(), ShouldEqual, 1)
			So(second.GetStats()["cachedDatasets"], ShouldEqual, 1)
		})
	})
}
