package loadtest

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"github.com/mergington/activities/internal/domain/types"
)

// targets resolves the activities to exercise. An empty selection means
// every activity in d, in name order.
func targets(d types.Directory, selected []string) ([]string, error) {
	if len(selected) == 0 {
		names := make([]string, 0, len(d))
		for name := range d {
			names = append(names, name)
		}
		slices.Sort(names)
		return names, nil
	}
	for _, name := range selected {
		if _, ok := d[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownActivity, name)
		}
	}
	return selected, nil
}

// generateAssignments gives each synthetic student a unique email and spreads
// them round-robin across activities.
func generateAssignments(students int, activities []string) []Assignment {
	out := make([]Assignment, students)
	for i := range out {
		out[i] = Assignment{
			Activity: activities[i%len(activities)],
			Email:    fmt.Sprintf("student-%s@%s", uuid.NewString(), EmailDomain),
		}
	}
	return out
}

// signupJobs submits every assignment twice in shuffled order so that the
// second request of each pair races the first.
func signupJobs(assignments []Assignment) []Job {
	jobs := make([]Job, 0, len(assignments)*2)
	for _, a := range assignments {
		job := Job{Op: OpSignup, Activity: a.Activity, Email: a.Email}
		jobs = append(jobs, job, job)
	}
	rand.Shuffle(len(jobs), func(i, j int) { jobs[i], jobs[j] = jobs[j], jobs[i] })
	return jobs
}

// unregisterJobs removes the first half of the assignments.
func unregisterJobs(assignments []Assignment) []Job {
	half := assignments[:len(assignments)/2]
	jobs := make([]Job, len(half))
	for i, a := range half {
		jobs[i] = Job{Op: OpUnregister, Activity: a.Activity, Email: a.Email}
	}
	return jobs
}
