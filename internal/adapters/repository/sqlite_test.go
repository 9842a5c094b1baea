package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/trialworks/lemonaid/internal/adapters/repository"
	"github.com/trialworks/lemonaid/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()
	store, err := repository.NewSQLiteStore(context.Background(), repository.WithPath(":memory:"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func rate(v float64) *float64 { return &v }

func TestSQLiteStore_Cases(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		store := newTestStore(t)

		Convey("When creating a case without an id", func() {
			created, err := store.CreateCase(ctx, model.Case{
				ClientName:   "Dana Whitfield",
				VehicleYear:  2023,
				VehicleMake:  "Aurora",
				VehicleModel: "GT",
				VIN:          "1A2B3C4D5E6F78901",
			})

			Convey("Then an id and open status are minted", func() {
				So(err, ShouldBeNil)
				So(created.ID, ShouldNotBeEmpty)
				So(created.Status, ShouldEqual, model.CaseOpen)
				So(created.CreatedAt.IsZero(), ShouldBeFalse)
			})

			Convey("And the case can be fetched back", func() {
				So(err, ShouldBeNil)
				got, err := store.GetCase(ctx, created.ID)
				So(err, ShouldBeNil)
				So(got.ClientName, ShouldEqual, "Dana Whitfield")
				So(got.VIN, ShouldEqual, "1A2B3C4D5E6F78901")
			})

			Convey("And updating it changes status and bumps updated_at", func() {
				So(err, ShouldBeNil)
				created.Status = model.CaseFiled
				updated, err := store.UpdateCase(ctx, created)
				So(err, ShouldBeNil)
				So(updated.Status, ShouldEqual, model.CaseFiled)
				So(updated.UpdatedAt.Before(created.CreatedAt), ShouldBeFalse)
			})

			Convey("And deleting it removes it", func() {
				So(err, ShouldBeNil)
				So(store.DeleteCase(ctx, created.ID), ShouldBeNil)
				_, err := store.GetCase(ctx, created.ID)
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When fetching an unknown case", func() {
			_, err := store.GetCase(ctx, "missing")

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When listing with an invalid limit", func() {
			_, err := store.ListCases(ctx, 0)

			Convey("Then ErrInvalidLimit is returned", func() {
				So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
			})
		})
	})
}

func TestSQLiteStore_EntriesAndDocuments(t *testing.T) {
	Convey("Given a store with one case", t, func() {
		ctx := context.Background()
		store := newTestStore(t)
		c, err := store.CreateCase(ctx, model.Case{ClientName: "Dana Whitfield"})
		So(err, ShouldBeNil)

		Convey("When adding time entries", func() {
			nine := 9
			entries, err := store.AddTimeEntries(ctx, []model.TimeEntry{
				{CaseID: c.ID, AttorneyName: "Vance", Hours: 10, BilledRate: 500, YearsExperience: &nine},
				{CaseID: c.ID, AttorneyName: "Okafor", Hours: 5, BilledRate: 700},
			})

			Convey("Then ids are minted and insertion order is preserved on read", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 2)
				So(entries[0].ID, ShouldNotBeEmpty)

				got, err := store.ListTimeEntries(ctx, c.ID)
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].AttorneyName, ShouldEqual, "Vance")
				So(*got[0].YearsExperience, ShouldEqual, 9)
				So(got[1].YearsExperience, ShouldBeNil)
			})
		})

		Convey("When adding a document and advancing its status", func() {
			doc, err := store.AddDocument(ctx, model.Document{
				CaseID:   c.ID,
				Kind:     model.DocumentBilling,
				Filename: "invoice-march.txt",
				Text:     "3/2 V. Vance 2.5h @ $500 draft demand letter",
			})
			So(err, ShouldBeNil)
			So(doc.Status, ShouldEqual, model.DocumentPending)

			Convey("Then marking it extracted sticks and clears any error", func() {
				So(store.SetDocumentStatus(ctx, doc.ID, model.DocumentExtracted, "stale"), ShouldBeNil)
				docs, err := store.ListDocuments(ctx, c.ID)
				So(err, ShouldBeNil)
				So(docs[0].Status, ShouldEqual, model.DocumentExtracted)
				So(docs[0].Error, ShouldBeEmpty)
			})

			Convey("Then marking it failed records the error", func() {
				So(store.SetDocumentStatus(ctx, doc.ID, model.DocumentFailed, "model returned no rows"), ShouldBeNil)
				docs, err := store.ListDocuments(ctx, c.ID)
				So(err, ShouldBeNil)
				So(docs[0].Status, ShouldEqual, model.DocumentFailed)
				So(docs[0].Error, ShouldEqual, "model returned no rows")
			})
		})

		Convey("When deleting the case", func() {
			_, err := store.AddTimeEntries(ctx, []model.TimeEntry{
				{CaseID: c.ID, AttorneyName: "Vance", Hours: 1, BilledRate: 500},
			})
			So(err, ShouldBeNil)
			So(store.DeleteCase(ctx, c.ID), ShouldBeNil)

			Convey("Then its time entries cascade away", func() {
				got, err := store.ListTimeEntries(ctx, c.ID)
				So(err, ShouldBeNil)
				So(got, ShouldBeEmpty)
			})
		})
	})
}

func TestSQLiteStore_ScheduleAndRoster(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		store := newTestStore(t)

		Convey("When no schedule has been stored", func() {
			_, err := store.GetRateSchedule(ctx)

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When storing a schedule with a missing tier", func() {
			err := store.PutRateSchedule(ctx, model.RateSchedule{
				Tier1to3Rate:   rate(381),
				Tier8to10Rate:  rate(585),
				Tier20PlusRate: rate(919),
				ParalegalRate:  rate(208),
			})

			Convey("Then the missing tiers read back as nil, not zero", func() {
				So(err, ShouldBeNil)
				got, err := store.GetRateSchedule(ctx)
				So(err, ShouldBeNil)
				So(*got.Tier1to3Rate, ShouldEqual, 381)
				So(got.Tier4to7Rate, ShouldBeNil)
				So(got.Tier11to19Rate, ShouldBeNil)
				So(*got.ParalegalRate, ShouldEqual, 208)
			})

			Convey("And a second put replaces the single row", func() {
				So(err, ShouldBeNil)
				So(store.PutRateSchedule(ctx, model.RateSchedule{Tier1to3Rate: rate(400)}), ShouldBeNil)
				got, err := store.GetRateSchedule(ctx)
				So(err, ShouldBeNil)
				So(*got.Tier1to3Rate, ShouldEqual, 400)
				So(got.Tier8to10Rate, ShouldBeNil)
			})
		})

		Convey("When replacing the roster", func() {
			err := store.ReplaceRoster(ctx, []model.Attorney{
				{Name: "Vance", YearsExperience: 9},
				{Name: "Reyes", YearsExperience: 2, IsParalegal: true},
			})

			Convey("Then it reads back ordered by name with flags intact", func() {
				So(err, ShouldBeNil)
				roster, err := store.ListRoster(ctx)
				So(err, ShouldBeNil)
				So(roster, ShouldHaveLength, 2)
				So(roster[0].Name, ShouldEqual, "Reyes")
				So(roster[0].IsParalegal, ShouldBeTrue)
				So(roster[1].Name, ShouldEqual, "Vance")
			})

			Convey("And a later replace swaps it wholesale", func() {
				So(err, ShouldBeNil)
				So(store.ReplaceRoster(ctx, []model.Attorney{{Name: "Okafor", YearsExperience: 12}}), ShouldBeNil)
				roster, err := store.ListRoster(ctx)
				So(err, ShouldBeNil)
				So(roster, ShouldHaveLength, 1)
				So(roster[0].Name, ShouldEqual, "Okafor")
			})
		})
	})
}
