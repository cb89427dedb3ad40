package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/birdhunt/internal/domain/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTierFor(t *testing.T) {
	Convey("Given the fixed tier table", t, func() {
		cases := map[int]catalog.Tier{
			5:  catalog.Abundant,
			10: catalog.Common,
			15: catalog.Uncommon,
			20: catalog.Occasional,
			25: catalog.Rare,
		}
		for pts, want := range cases {
			got, ok := catalog.TierFor(pts)
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, want)
			So(got.Points(), ShouldEqual, pts)
		}

		Convey("Then off-table values have no tier", func() {
			for _, pts := range []int{0, 1, 7, 30, -5} {
				_, ok := catalog.TierFor(pts)
				So(ok, ShouldBeFalse)
			}
		})
	})
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()

	Convey("Given the default catalog", t, func() {
		c, err := catalog.Default()
		So(err, ShouldBeNil)

		Convey("Then every species maps to a tier", func() {
			So(c.Len(), ShouldEqual, 37)
			for _, s := range c.Species() {
				tier, ok := catalog.TierFor(s.Points)
				So(ok, ShouldBeTrue)
				So(s.Tier, ShouldEqual, tier)
			}
		})

		Convey("Then known species return their points", func() {
			So(c.PointsFor(ctx, "Blue Jay"), ShouldEqual, 10)
			So(c.PointsFor(ctx, "Great Horned Owl"), ShouldEqual, 25)
			So(c.PointsFor(ctx, "Nashville Warbler"), ShouldEqual, 20)
		})

		Convey("Then unknown species earn one point", func() {
			So(c.PointsFor(ctx, "Dodo"), ShouldEqual, catalog.UnknownPoints)
			So(c.PointsFor(ctx, "blue jay"), ShouldEqual, catalog.UnknownPoints)
		})

		Convey("Then lookup ignores case and padding", func() {
			s, ok := c.Lookup("  blue JAY ")
			So(ok, ShouldBeTrue)
			So(s.Name, ShouldEqual, "Blue Jay")
		})

		Convey("Then resolve falls back to fuzzy matching", func() {
			s, ok := c.Resolve("grt hrnd owl")
			So(ok, ShouldBeTrue)
			So(s.Name, ShouldEqual, "Great Horned Owl")

			_, ok = c.Resolve("zzzzqqq")
			So(ok, ShouldBeFalse)
		})

		Convey("Then search narrows the list", func() {
			res := c.Search("kinglet")
			So(len(res), ShouldBeGreaterThanOrEqualTo, 2)
			for _, s := range res[:2] {
				So(s.Family, ShouldEqual, "kinglet")
			}
			So(len(c.Search("")), ShouldEqual, c.Len())
		})

		Convey("Then only the three gulls are in the gull family", func() {
			So(c.IsGull("Ring-billed Gull"), ShouldBeTrue)
			So(c.IsGull("Herring Gull"), ShouldBeTrue)
			So(c.IsGull("Great Black-backed Gull"), ShouldBeTrue)
			So(c.IsGull("American Robin"), ShouldBeFalse)
			So(c.IsGull("Laughing Gull"), ShouldBeFalse)
		})
	})

	Convey("Given point overrides", t, func() {
		Convey("When a valid override is applied", func() {
			c, err := catalog.Default(catalog.WithPointOverrides(map[string]int{"blue jay": 25}))

			Convey("Then the species is re-pointed and re-tiered", func() {
				So(err, ShouldBeNil)
				s, _ := c.Lookup("Blue Jay")
				So(s.Points, ShouldEqual, 25)
				So(s.Tier, ShouldEqual, catalog.Rare)
			})
		})

		Convey("When an override is not a tier value", func() {
			_, err := catalog.Default(catalog.WithPointOverrides(map[string]int{"Blue Jay": 12}))

			Convey("Then construction fails", func() {
				So(errors.Is(err, catalog.ErrInvalidPoints), ShouldBeTrue)
			})
		})

		Convey("When an override names an unknown species", func() {
			_, err := catalog.Default(catalog.WithPointOverrides(map[string]int{"Dodo": 25}))

			Convey("Then construction fails", func() {
				So(errors.Is(err, catalog.ErrUnknownSpecies), ShouldBeTrue)
			})
		})
	})

	Convey("Given a species list with a duplicate name", t, func() {
		_, err := catalog.New([]catalog.Species{
			{Name: "Mallard", Points: 5},
			{Name: "mallard", Points: 5},
		})
		So(errors.Is(err, catalog.ErrDuplicateSpecies), ShouldBeTrue)
	})
}

func TestImageURL(t *testing.T) {
	Convey("Given a species name with spaces and an apostrophe", t, func() {
		So(catalog.ImageURL("Blue Jay"), ShouldEqual, "https://commons.wikimedia.org/wiki/Special:FilePath/Blue_Jay.jpg")
		So(catalog.ImageURL("Cooper's Hawk"), ShouldEqual, "https://commons.wikimedia.org/wiki/Special:FilePath/Cooper%27s_Hawk.jpg")
	})
}
