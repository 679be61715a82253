package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	repository "github.com/mergington/activities/internal/adapters/repository"
	service "github.com/mergington/activities/internal/app"
	"github.com/mergington/activities/internal/domain/types"
	"github.com/mergington/activities/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const chess = "Chess Club"

func roster(ctx context.Context, svc *service.Service, name string) []string {
	return svc.ListActivities(ctx)[name].Participants
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		ctx := context.Background()
		svc := service.New()

		Convey("When starting it twice and stopping it twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.GetStats()["started"], ShouldBeTrue)
			svc.Stop()
			svc.Stop()

			Convey("Then it reports stopped", func() {
				So(svc.GetStats()["started"], ShouldBeFalse)
			})
		})

		Convey("When used without Start", func() {
			d := svc.ListActivities(ctx)

			Convey("Then it serves the built-in seed", func() {
				So(len(d), ShouldEqual, 9)
			})
		})
	})
}

func TestService_ChessClubScenario(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := service.New()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		So(len(roster(ctx, svc, chess)), ShouldEqual, 2)

		res, err := svc.Signup(ctx, chess, "new@mergington.edu")
		So(err, ShouldBeNil)
		So(res.Message, ShouldEqual, "Signed up new@mergington.edu for Chess Club")
		So(len(roster(ctx, svc, chess)), ShouldEqual, 3)

		_, err = svc.Signup(ctx, chess, "new@mergington.edu")
		So(types.KindOf(err), ShouldEqual, types.KindConflict)
		So(err.(*types.Error).Message, ShouldEqual, service.MsgAlreadySignedUp)
		So(len(roster(ctx, svc, chess)), ShouldEqual, 3)

		res, err = svc.Unregister(ctx, chess, "new@mergington.edu")
		So(err, ShouldBeNil)
		So(res.Message, ShouldEqual, "Unregistered new@mergington.edu from Chess Club")
		So(len(roster(ctx, svc, chess)), ShouldEqual, 2)

		_, err = svc.Unregister(ctx, chess, "new@mergington.edu")
		So(types.KindOf(err), ShouldEqual, types.KindBadRequest)
		So(err.(*types.Error).Message, ShouldEqual, service.MsgNotRegistered)
	})
}

func TestService_Errors(t *testing.T) {
	Convey("Given a service over an injected store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(ctx, types.Directory{
			"Robotics": {Description: "Build robots", MaxParticipants: 1, Participants: []string{"r@mergington.edu"}},
		})
		svc := service.New(service.WithStore(store), service.WithSeed(types.Directory{"ignored": {}}))

		Convey("When the activity is unknown", func() {
			_, err1 := svc.Signup(ctx, "NonexistentClub", "x@mergington.edu")
			_, err2 := svc.Unregister(ctx, "NonexistentClub", "x@mergington.edu")

			Convey("Then both fail with NotFound wrapping the store sentinel", func() {
				So(types.KindOf(err1), ShouldEqual, types.KindNotFound)
				So(types.KindOf(err2), ShouldEqual, types.KindNotFound)
				So(errors.Is(err1, repository.ErrNotFound), ShouldBeTrue)
				So(err1.(*types.Error).Message, ShouldEqual, service.MsgActivityNotFound)
			})
		})

		Convey("When the roster is already at capacity", func() {
			_, err := svc.Signup(ctx, "Robotics", "second@mergington.edu")

			Convey("Then capacity is not enforced", func() {
				So(err, ShouldBeNil)
				So(roster(ctx, svc, "Robotics"), ShouldResemble, []string{"r@mergington.edu", "second@mergington.edu"})
			})
		})

		Convey("Then the injected store wins over the seed", func() {
			d := svc.ListActivities(ctx)
			_, ok := d["ignored"]
			So(ok, ShouldBeFalse)
			So(len(d), ShouldEqual, 1)
		})
	})
}

func TestService_ListIsSnapshot(t *testing.T) {
	Convey("Given a service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithSeed(types.Directory{chess: {Participants: []string{"a@x"}}}))

		d := svc.ListActivities(ctx)
		a := d[chess]
		a.Participants[0] = "mallory@x"

		Convey("Then mutating the result does not reach the store", func() {
			So(roster(ctx, svc, chess), ShouldResemble, []string{"a@x"})
		})
	})
}

func TestService_ConcurrentSignup(t *testing.T) {
	Convey("Given concurrent duplicate signups through the service", t, func() {
		ctx := context.Background()
		svc := service.New()

		var mu sync.Mutex
		succeeded := 0
		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := svc.Signup(ctx, chess, "race@mergington.edu"); err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		Convey("Then exactly one is accepted", func() {
			So(succeeded, ShouldEqual, 1)
			So(len(roster(ctx, svc, chess)), ShouldEqual, 3)
		})
	})
}

func TestService_Tracing(t *testing.T) {
	Convey("Given a service with a recording tracer", t, func() {
		ctx := context.Background()
		rec := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
		svc := service.New(service.WithTracer(tp.Tracer("test")))

		_, _ = svc.Signup(ctx, chess, "traced@mergington.edu")
		_, _ = svc.Unregister(ctx, "NonexistentClub", "traced@mergington.edu")
		_ = svc.ListActivities(ctx)

		Convey("Then every operation produced a span", func() {
			spans := rec.Ended()
			So(len(spans), ShouldEqual, 3)
			So(spans[0].Name(), ShouldEqual, "activities.signup")
			So(spans[1].Name(), ShouldEqual, "activities.unregister")
			So(spans[1].Status().Description, ShouldEqual, service.MsgActivityNotFound)
			So(spans[2].Name(), ShouldEqual, "activities.list")
		})
	})
}

func TestService_Stats(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := service.New()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()
		_, _ = svc.Signup(ctx, chess, "stats@mergington.edu")

		stats := svc.GetStats()

		Convey("Then totals reflect the seed plus the signup", func() {
			So(stats["totalActivities"], ShouldEqual, 9)
			So(stats["totalParticipants"], ShouldEqual, 19)
			So(stats["rosterSizes"].(map[string]int)[chess], ShouldEqual, 3)
		})
	})
}
