package loadtest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mergington/activities/internal/adapters/http/api"
	service "github.com/mergington/activities/internal/app"
	"github.com/mergington/activities/internal/domain/types"
	"github.com/mergington/activities/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.InitWithWriter(io.Discard, "text")
}

func newServer() *httptest.Server {
	svc := service.New()
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

// leakyServer accepts every signup, duplicates included.
func leakyServer() *httptest.Server {
	var mu sync.Mutex
	d := types.Directory{"Chess Club": {Description: "chess", Schedule: "Fridays", MaxParticipants: 12}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {})
	mux.HandleFunc("GET /activities", func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		_ = json.NewEncoder(w).Encode(d)
	})
	mux.HandleFunc("POST /activities/{name}/signup", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		a := d[r.PathValue("name")]
		a.Participants = append(a.Participants, r.URL.Query().Get("email"))
		d[r.PathValue("name")] = a
	})
	mux.HandleFunc("POST /activities/{name}/unregister", func(w http.ResponseWriter, _ *http.Request) {})
	return httptest.NewServer(mux)
}

func testConfig(url string) *Config {
	return &Config{
		BaseURL:  url,
		Students: 40,
		Workers:  8,
		Timeout:  5 * time.Second,
	}
}

func TestRun(t *testing.T) {
	Convey("Given a running activities server", t, func() {
		srv := newServer()
		defer srv.Close()
		ctx := context.Background()

		Convey("When the load test runs against every activity", func() {
			stats, err := Run(ctx, testConfig(srv.URL))

			Convey("Then every invariant holds", func() {
				So(err, ShouldBeNil)
				So(stats.Signups.OK, ShouldEqual, 40)
				So(stats.Signups.Rejected, ShouldEqual, 40)
				So(stats.Unregister.OK, ShouldEqual, 20)
				So(participants(stats.After)-participants(stats.Before), ShouldEqual, 20)
			})
		})

		Convey("When the load test targets a single activity", func() {
			cfg := testConfig(srv.URL)
			cfg.Activities = []string{"Chess Club"}
			stats, err := Run(ctx, cfg)

			Convey("Then only that roster grows", func() {
				So(err, ShouldBeNil)
				So(len(stats.After["Chess Club"].Participants), ShouldEqual, 2+20)
				So(len(stats.After["Math Club"].Participants), ShouldEqual, 2)
			})
		})

		Convey("When the load test targets an unknown activity", func() {
			cfg := testConfig(srv.URL)
			cfg.Activities = []string{"Underwater Basket Weaving"}
			_, err := Run(ctx, cfg)

			Convey("Then it fails before sending traffic", func() {
				So(errors.Is(err, ErrUnknownActivity), ShouldBeTrue)
			})
		})
	})

	Convey("Given a server that never rejects duplicates", t, func() {
		srv := leakyServer()
		defer srv.Close()

		_, err := Run(context.Background(), testConfig(srv.URL))

		Convey("Then verification fails", func() {
			So(errors.Is(err, ErrVerification), ShouldBeTrue)
		})
	})

	Convey("Given a server that is down", t, func() {
		srv := newServer()
		srv.Close()

		_, err := Run(context.Background(), testConfig(srv.URL))

		Convey("Then the health check fails", func() {
			So(errors.Is(err, ErrUnhealthy), ShouldBeTrue)
		})
	})
}

func TestConfigValidate(t *testing.T) {
	Convey("Given load test configs", t, func() {
		valid := testConfig("http://localhost:8000")
		So(valid.Validate(), ShouldBeNil)

		for _, mutate := range []func(*Config){
			func(c *Config) { c.BaseURL = "" },
			func(c *Config) { c.Students = 0 },
			func(c *Config) { c.Workers = 0 },
			func(c *Config) { c.Timeout = 0 },
		} {
			cfg := testConfig("http://localhost:8000")
			mutate(cfg)
			So(errors.Is(cfg.Validate(), ErrInvalidConfig), ShouldBeTrue)
		}
	})
}

func TestGenerator(t *testing.T) {
	Convey("Given three activities and seven students", t, func() {
		names := []string{"A", "B", "C"}
		assignments := generateAssignments(7, names)

		Convey("Then students are spread round-robin with unique emails", func() {
			So(len(assignments), ShouldEqual, 7)
			So(assignments[0].Activity, ShouldEqual, "A")
			So(assignments[4].Activity, ShouldEqual, "B")

			seen := map[string]bool{}
			for _, a := range assignments {
				So(seen[a.Email], ShouldBeFalse)
				So(a.Email, ShouldEndWith, "@"+EmailDomain)
				seen[a.Email] = true
			}
		})

		Convey("Then each student is signed up twice", func() {
			counts := map[string]int{}
			for _, j := range signupJobs(assignments) {
				So(j.Op, ShouldEqual, OpSignup)
				counts[j.Email]++
			}
			So(len(counts), ShouldEqual, 7)
			for _, n := range counts {
				So(n, ShouldEqual, 2)
			}
		})

		Convey("Then the first half is unregistered", func() {
			jobs := unregisterJobs(assignments)
			So(len(jobs), ShouldEqual, 3)
			So(jobs[0].Email, ShouldEqual, assignments[0].Email)
			So(jobs[2].Op, ShouldEqual, OpUnregister)
		})
	})

	Convey("Given a directory", t, func() {
		d := types.Directory{"B": {}, "A": {}}

		Convey("Then no selection means every activity in name order", func() {
			names, err := targets(d, nil)
			So(err, ShouldBeNil)
			So(names, ShouldResemble, []string{"A", "B"})
		})
	})
}

func TestVerifyRosters(t *testing.T) {
	Convey("Given a final directory", t, func() {
		kept := []Assignment{{Activity: "A", Email: "k@x"}}
		removed := []Assignment{{Activity: "A", Email: "r@x"}}

		Convey("When it matches expectations", func() {
			after := types.Directory{"A": {Participants: []string{"seed@x", "k@x"}}}

			Convey("Then verification passes", func() {
				So(verifyRosters(after, kept, removed), ShouldBeNil)
			})
		})

		Convey("When a kept student is missing", func() {
			after := types.Directory{"A": {Participants: []string{"seed@x"}}}

			Convey("Then verification fails", func() {
				So(errors.Is(verifyRosters(after, kept, removed), ErrVerification), ShouldBeTrue)
			})
		})

		Convey("When a removed student remains", func() {
			after := types.Directory{"A": {Participants: []string{"k@x", "r@x"}}}

			Convey("Then verification fails", func() {
				So(verifyRosters(after, kept, removed), ShouldNotBeNil)
			})
		})

		Convey("When a roster holds a duplicate", func() {
			after := types.Directory{"A": {Participants: []string{"k@x", "k@x"}}}

			Convey("Then verification fails", func() {
				So(verifyRosters(after, kept, removed), ShouldNotBeNil)
			})
		})
	})
}
