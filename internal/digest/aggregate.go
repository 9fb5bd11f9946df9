// Package digest turns a snapshot of open quests and labors, plus
// resolved host metadata, into one rendered notification per owner.
package digest

import (
	"sort"

	"github.com/starford/herald/internal/apperr"
	"github.com/starford/herald/internal/models"
)

// OwnerDigest maps an owner to their grouped outstanding work. It
// never contains an owner with an empty group.
type OwnerDigest map[string]QuestGroup

// QuestGroup maps a quest id to the set of hostnames with outstanding
// required labors under that quest. models.NoQuestID groups labors
// that were opened outside any quest.
type QuestGroup map[int]map[string]struct{}

// Aggregate filters labors to the required state, resolves each
// labor's host to an owner, and groups hostnames by owner and quest.
// Labors whose hostname is absent from ownerByHost are skipped and
// reported in the second return value; they are never attributed to a
// default owner.
func Aggregate(labors []models.Labor, ownerByHost map[string]string) (OwnerDigest, []apperr.MissingOwnerError) {
	grouped := make(OwnerDigest)
	var missing []apperr.MissingOwnerError

	for _, l := range labors {
		if !l.Required() {
			continue
		}
		owner, ok := ownerByHost[l.Hostname]
		if !ok {
			missing = append(missing, apperr.MissingOwnerError{LaborID: l.ID, Hostname: l.Hostname})
			continue
		}
		group, ok := grouped[owner]
		if !ok {
			group = make(QuestGroup)
			grouped[owner] = group
		}
		hosts, ok := group[l.QuestID]
		if !ok {
			hosts = make(map[string]struct{})
			group[l.QuestID] = hosts
		}
		hosts[l.Hostname] = struct{}{}
	}

	return grouped, missing
}

// QuestIDs returns the group's quest ids in ascending order, so a
// render pass over the group is deterministic. The sentinel id sorts
// first when present.
func (g QuestGroup) QuestIDs() []int {
	ids := make([]int, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Hosts returns the hostnames grouped under questID in lexicographic
// order.
func (g QuestGroup) Hosts(questID int) []string {
	hosts := make([]string, 0, len(g[questID]))
	for h := range g[questID] {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}

// Owners returns the digest's owners in lexicographic order.
func (d OwnerDigest) Owners() []string {
	owners := make([]string, 0, len(d))
	for o := range d {
		owners = append(owners, o)
	}
	sort.Strings(owners)
	return owners
}
