// Package assign deals the built pools out to agents, producing the initial
// world state of a trial.
package assign

import (
	"fmt"
	"math/rand"

	"github.com/collabsim/netform/internal/model"
	"github.com/collabsim/netform/internal/pool"
)

// Deal permutes both pools with the trial RNG and deals, without
// replacement, one resource and objsPerAgent objective instances to each
// agent. Both pools are consumed exactly; every agent starts in its own
// singleton network.
//
// The RNG draw order is fixed: resource shuffle first, then objective
// shuffle. Changing it would silently break seed reproducibility.
func Deal(p *pool.Pools, objsPerAgent int, rng *rand.Rand) (*model.World, error) {
	population := len(p.Resources)
	if want := population * objsPerAgent; len(p.Objectives) != want {
		return nil, fmt.Errorf("assign: objective pool has %d units, want %d for %d agents x %d objectives", len(p.Objectives), want, population, objsPerAgent)
	}

	resources := append([]model.Resource(nil), p.Resources...)
	objectives := append([]model.Objective(nil), p.Objectives...)

	rng.Shuffle(len(resources), func(i, j int) {
		resources[i], resources[j] = resources[j], resources[i]
	})
	rng.Shuffle(len(objectives), func(i, j int) {
		objectives[i], objectives[j] = objectives[j], objectives[i]
	})

	agents := make([]*model.Agent, population)
	for i := 0; i < population; i++ {
		held := make([]model.Objective, objsPerAgent)
		copy(held, objectives[i*objsPerAgent:(i+1)*objsPerAgent])
		agents[i] = &model.Agent{
			ID:         i,
			Resource:   resources[i],
			Objectives: held,
		}
	}

	return model.NewWorld(agents), nil
}
