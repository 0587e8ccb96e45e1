package tracker

import (
	"sort"

	"github.com/meltforce/liftlog/internal/models"
)

// Block is one exercise and its sets, ordered by OrderInExercise.
type Block struct {
	ExerciseID string
	Sets       []models.WorkoutSet
}

// Group folds a flat set list into blocks. Block order is the order in which
// each exercise first appears in sets. Ids in manual that have no sets get
// an empty block at the end, in the order given.
func Group(sets []models.WorkoutSet, manual []string) []Block {
	var blocks []Block
	index := make(map[string]int)

	for _, s := range sets {
		i, ok := index[s.ExerciseID]
		if !ok {
			i = len(blocks)
			index[s.ExerciseID] = i
			blocks = append(blocks, Block{ExerciseID: s.ExerciseID})
		}
		blocks[i].Sets = append(blocks[i].Sets, s)
	}

	for i := range blocks {
		sets := blocks[i].Sets
		sort.SliceStable(sets, func(a, b int) bool {
			return sets[a].OrderInExercise < sets[b].OrderInExercise
		})
	}

	for _, id := range manual {
		if _, ok := index[id]; ok {
			continue
		}
		index[id] = len(blocks)
		blocks = append(blocks, Block{ExerciseID: id, Sets: []models.WorkoutSet{}})
	}
	return blocks
}
