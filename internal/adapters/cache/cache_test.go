package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/birdhunt/internal/domain/model"
	"github.com/okian/birdhunt/internal/domain/types"
)

func TestKey(t *testing.T) {
	Convey("Given a view key", t, func() {
		k := Key{View: "weekly", Week: model.WeekKey{Year: 2026, Week: 1}, User: "alice"}

		Convey("It renders view, week and user", func() {
			So(k.String(), ShouldEqual, "weekly:2026-W01:alice")
		})

		Convey("Keys differing only by week are distinct", func() {
			other := k
			other.Week.Week = 2
			So(other.String(), ShouldNotEqual, k.String())
		})
	})
}

func TestNop(t *testing.T) {
	Convey("Given a nop cache", t, func() {
		var c Views = Nop{}
		ctx := context.Background()
		c.Put(ctx, 0, Key{View: "weekly"}, []int{1})

		var got []int
		gen, hit := c.Get(ctx, Key{View: "weekly"}, &got)
		So(hit, ShouldBeFalse)
		So(gen, ShouldEqual, NoGen)
		So(got, ShouldBeNil)
		So(c.Close(), ShouldBeNil)
	})
}

func TestMemory(t *testing.T) {
	Convey("Given a memory cache", t, func() {
		ctx := context.Background()
		c, err := NewMemory(4)
		So(err, ShouldBeNil)
		key := Key{View: "weekly", Week: model.WeekKey{Year: 2026, Week: 1}}
		want := []types.Entry{{Rank: 1, User: "alice", Points: 25, Medal: "🥇"}}

		Convey("A stored view is returned as a copy", func() {
			gen, _ := c.Get(ctx, key, &[]types.Entry{})
			c.Put(ctx, gen, key, want)

			var got []types.Entry
			_, hit := c.Get(ctx, key, &got)
			So(hit, ShouldBeTrue)
			So(got, ShouldResemble, want)

			got[0].Points = 0
			var again []types.Entry
			_, hit = c.Get(ctx, key, &again)
			So(hit, ShouldBeTrue)
			So(again[0].Points, ShouldEqual, 25)
		})

		Convey("Invalidate drops everything", func() {
			c.Put(ctx, 0, key, want)
			c.Put(ctx, 0, Key{View: "lifetime"}, want)
			c.Invalidate(ctx)

			var got []types.Entry
			_, hit := c.Get(ctx, key, &got)
			So(hit, ShouldBeFalse)
			So(c.Len(), ShouldEqual, 0)
		})

		Convey("A view computed before an invalidation is not stored", func() {
			var got []types.Entry
			gen, hit := c.Get(ctx, key, &got)
			So(hit, ShouldBeFalse)

			c.Invalidate(ctx)
			c.Put(ctx, gen, key, want)

			So(c.Len(), ShouldEqual, 0)
			_, hit = c.Get(ctx, key, &got)
			So(hit, ShouldBeFalse)
		})

		Convey("A decode mismatch counts as a miss", func() {
			c.Put(ctx, 0, key, "not a list")

			var got []types.Entry
			_, hit := c.Get(ctx, key, &got)
			So(hit, ShouldBeFalse)
			So(c.Len(), ShouldEqual, 0)
		})

		Convey("The oldest view is evicted past capacity", func() {
			for i := 0; i < 5; i++ {
				c.Put(ctx, 0, Key{View: "v", User: string(rune('a' + i))}, i)
			}
			var got int
			_, hit := c.Get(ctx, Key{View: "v", User: "a"}, &got)
			So(hit, ShouldBeFalse)
			_, hit = c.Get(ctx, Key{View: "v", User: "e"}, &got)
			So(hit, ShouldBeTrue)
			So(got, ShouldEqual, 4)
		})
	})

	Convey("A non-positive size is rejected", t, func() {
		_, err := NewMemory(0)
		So(err, ShouldNotBeNil)
	})
}

func newRedis(t *testing.T, addr string) *Redis {
	t.Helper()
	c, err := NewRedis(context.Background(), addr)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedis(t *testing.T) {
	Convey("Given a redis cache", t, func() {
		ctx := context.Background()
		srv := miniredis.RunT(t)
		c := newRedis(t, srv.Addr())

		key := Key{View: "weekly", Week: model.WeekKey{Year: 2026, Week: 1}}
		var got map[string]int
		gen, hit := c.Get(ctx, key, &got)
		So(hit, ShouldBeFalse)
		So(gen, ShouldEqual, Gen(0))
		c.Put(ctx, gen, key, map[string]int{"alice": 25})

		_, hit = c.Get(ctx, key, &got)
		So(hit, ShouldBeTrue)
		So(got["alice"], ShouldEqual, 25)

		Convey("Invalidate moves to a fresh generation", func() {
			c.Invalidate(ctx)
			var after map[string]int
			gen, hit := c.Get(ctx, key, &after)
			So(hit, ShouldBeFalse)
			So(gen, ShouldEqual, Gen(1))
		})

		Convey("A view computed before another process appends is never served", func() {
			other := newRedis(t, srv.Addr())
			c.Invalidate(ctx)

			var stale map[string]int
			gen, hit := c.Get(ctx, key, &stale)
			So(hit, ShouldBeFalse)

			other.Invalidate(ctx)
			c.Put(ctx, gen, key, map[string]int{"alice": 25})

			_, hit = c.Get(ctx, key, &stale)
			So(hit, ShouldBeFalse)
			_, hit = other.Get(ctx, key, &stale)
			So(hit, ShouldBeFalse)
		})

		Convey("A failed invalidation bypasses the cache until it succeeds", func() {
			srv.Close()
			c.Invalidate(ctx)
			So(c.Healthy(), ShouldBeFalse)

			var during map[string]int
			gen, hit := c.Get(ctx, key, &during)
			So(hit, ShouldBeFalse)
			So(gen, ShouldEqual, NoGen)

			So(srv.Restart(), ShouldBeNil)
			var after map[string]int
			gen, hit = c.Get(ctx, key, &after)
			So(hit, ShouldBeFalse)
			So(gen, ShouldEqual, Gen(1))
			So(c.Healthy(), ShouldBeTrue)

			c.Put(ctx, gen, key, map[string]int{"alice": 35})
			_, hit = c.Get(ctx, key, &after)
			So(hit, ShouldBeTrue)
			So(after["alice"], ShouldEqual, 35)
		})
	})

	Convey("An unreachable address fails to connect", t, func() {
		_, err := NewRedis(context.Background(), "127.0.0.1:1")
		So(err, ShouldNotBeNil)
	})
}
