package digest

import "github.com/starford/herald/internal/models"

// QuestIndex resolves quest ids to quest records. It is built once per
// run; the renderer consults it for every quest group across all
// owners.
type QuestIndex map[int]models.Quest

// NewQuestIndex builds an index over the quest snapshot.
func NewQuestIndex(quests []models.Quest) QuestIndex {
	idx := make(QuestIndex, len(quests))
	for _, q := range quests {
		idx[q.ID] = q
	}
	return idx
}

// Find returns the quest with the given id. A miss is not an error: it
// is the expected outcome for models.NoQuestID and for dangling
// references, both rendered under the fallback header.
func (idx QuestIndex) Find(id int) (models.Quest, bool) {
	q, ok := idx[id]
	return q, ok
}
