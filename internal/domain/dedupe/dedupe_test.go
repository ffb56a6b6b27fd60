package dedupe_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	dedupe "github.com/benklinger/kamaole/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should start empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When creating a deduper with custom options", func() {
			d := dedupe.NewInMemoryDeduper(
				dedupe.WithMaxSize(100),
			)

			Convey("Then it should start empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording fingerprints", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the fingerprint is new", func() {
				seen := d.SeenAndRecord(context.Background(), "01/01/2026|product|1|500")

				Convey("Then it should return false and record it", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the fingerprint was already seen", func() {
				d.SeenAndRecord(context.Background(), "01/01/2026|product|1|500")

				seen := d.SeenAndRecord(context.Background(), "01/01/2026|product|1|500")

				Convey("Then it should return true", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And multiple fingerprints are recorded", func() {
				prints := []string{"fp-1", "fp-2", "fp-3", "fp-4", "fp-5"}

				for _, fp := range prints {
					seen := d.SeenAndRecord(context.Background(), fp)
					So(seen, ShouldBeFalse)
				}

				Convey("Then all fingerprints should be recorded", func() {
					So(d.Size(), ShouldEqual, int64(len(prints)))

					for _, fp := range prints {
						seen := d.SeenAndRecord(context.Background(), fp)
						So(seen, ShouldBeTrue)
					}
				})
			})
		})

		Convey("When unrecording fingerprints", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the fingerprint exists", func() {
				d.SeenAndRecord(context.Background(), "fp-1")
				So(d.Size(), ShouldEqual, 1)

				d.Unrecord(context.Background(), "fp-1")

				Convey("Then it should be removed", func() {
					So(d.Size(), ShouldEqual, 0)

					seen := d.SeenAndRecord(context.Background(), "fp-1")
					So(seen, ShouldBeFalse)
				})
			})

			Convey("And the fingerprint doesn't exist", func() {
				d.Unrecord(context.Background(), "nonexistent")

				Convey("Then it should not affect the size", func() {
					So(d.Size(), ShouldEqual, 0)
				})
			})

			Convey("And multiple fingerprints are unrecorded", func() {
				prints := []string{"fp-1", "fp-2", "fp-3"}

				for _, fp := range prints {
					d.SeenAndRecord(context.Background(), fp)
				}
				So(d.Size(), ShouldEqual, int64(len(prints)))

				for _, fp := range prints {
					d.Unrecord(context.Background(), fp)
				}

				Convey("Then all fingerprints should be removed", func() {
					So(d.Size(), ShouldEqual, 0)

					for _, fp := range prints {
						seen := d.SeenAndRecord(context.Background(), fp)
						So(seen, ShouldBeFalse)
					}
				})
			})
		})

		Convey("When using bounded mode with eviction", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

			Convey("And the deduper is at capacity", func() {
				prints := []string{"fp-1", "fp-2", "fp-3"}
				for _, fp := range prints {
					seen := d.SeenAndRecord(context.Background(), fp)
					So(seen, ShouldBeFalse)
				}
				So(d.Size(), ShouldEqual, 3)

				seen := d.SeenAndRecord(context.Background(), "fp-4")

				Convey("Then it should evict the oldest and add the new one", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 3)

					// fp-1 was the oldest, so it gets evicted and re-adding
					// it does not grow the set
					originalSize := d.Size()
					seen1 := d.SeenAndRecord(context.Background(), "fp-1")
					So(seen1, ShouldBeFalse)
					So(d.Size(), ShouldEqual, originalSize)
				})
			})
		})

		Convey("When using unbounded mode", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))

			Convey("And many fingerprints are recorded", func() {
				const numPrints = 1000
				for i := 0; i < numPrints; i++ {
					fp := fmt.Sprintf("fp-%d", i)
					seen := d.SeenAndRecord(context.Background(), fp)
					So(seen, ShouldBeFalse)
				}

				Convey("Then all fingerprints should be recorded without eviction", func() {
					So(d.Size(), ShouldEqual, int64(numPrints))

					for i := 0; i < numPrints; i++ {
						fp := fmt.Sprintf("fp-%d", i)
						seen := d.SeenAndRecord(context.Background(), fp)
						So(seen, ShouldBeTrue)
					}
				})
			})
		})
	})
}

func TestDedupeConcurrency(t *testing.T) {
	Convey("Given a deduper with concurrent access", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(1000))
		const numGoroutines = 10
		const printsPerGoroutine = 100

		Convey("When multiple goroutines record fingerprints concurrently", func() {
			var wg sync.WaitGroup

			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(goroutineID int) {
					defer wg.Done()
					for j := 0; j < printsPerGoroutine; j++ {
						fp := fmt.Sprintf("fp-%d-%d", goroutineID, j)
						d.SeenAndRecord(context.Background(), fp)
					}
				}(i)
			}

			wg.Wait()

			Convey("Then all fingerprints should be recorded successfully", func() {
				So(d.Size(), ShouldEqual, int64(numGoroutines*printsPerGoroutine))
			})
		})

		Convey("When multiple goroutines unrecord fingerprints concurrently", func() {
			const numPrints = 500
			for i := 0; i < numPrints; i++ {
				fp := fmt.Sprintf("fp-%d", i)
				d.SeenAndRecord(context.Background(), fp)
			}

			So(d.Size(), ShouldEqual, int64(numPrints))

			var wg sync.WaitGroup
			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(goroutineID int) {
					defer wg.Done()
					for j := 0; j < numPrints/numGoroutines; j++ {
						fp := fmt.Sprintf("fp-%d", goroutineID*(numPrints/numGoroutines)+j)
						d.Unrecord(context.Background(), fp)
					}
				}(i)
			}

			wg.Wait()

			Convey("Then all fingerprints should be unrecorded successfully", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})
	})
}

func TestDedupeEdgeCases(t *testing.T) {
	Convey("Given a deduper with edge cases", t, func() {
		Convey("When recording empty string", func() {
			d := dedupe.NewInMemoryDeduper()

			seen := d.SeenAndRecord(context.Background(), "")

			Convey("Then it should handle empty string", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)

				seen2 := d.SeenAndRecord(context.Background(), "")
				So(seen2, ShouldBeTrue)
			})
		})

		Convey("When recording very long strings", func() {
			d := dedupe.NewInMemoryDeduper()

			longString := strings.Repeat("a", 10000)
			seen := d.SeenAndRecord(context.Background(), longString)

			Convey("Then it should handle long strings", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)

				seen2 := d.SeenAndRecord(context.Background(), longString)
				So(seen2, ShouldBeTrue)
			})
		})

		Convey("When using nil context", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should not panic", func() {
				So(func() { d.SeenAndRecord(nil, "fp-1") }, ShouldNotPanic)
				So(func() { d.Unrecord(nil, "fp-1") }, ShouldNotPanic)
			})
		})

		Convey("When using very small max size", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(1))

			Convey("And adding multiple fingerprints", func() {
				seen1 := d.SeenAndRecord(context.Background(), "fp-1")
				So(seen1, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)

				// The second fingerprint evicts the first
				seen2 := d.SeenAndRecord(context.Background(), "fp-2")
				So(seen2, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)

				seen1Again := d.SeenAndRecord(context.Background(), "fp-1")
				So(seen1Again, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When using negative max size", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(-1))

			Convey("Then it should be unbounded", func() {
				const numPrints = 1000
				for i := 0; i < numPrints; i++ {
					fp := fmt.Sprintf("fp-%d", i)
					seen := d.SeenAndRecord(context.Background(), fp)
					So(seen, ShouldBeFalse)
				}

				So(d.Size(), ShouldEqual, int64(numPrints))
			})
		})
	})
}
