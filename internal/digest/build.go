package digest

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/starford/herald/internal/apperr"
	"github.com/starford/herald/internal/models"
)

// Resolver is the host metadata service as the digest consumes it.
// Implementations must fail with *apperr.FetchError rather than return
// a partial map.
type Resolver interface {
	ResolveOwners(ctx context.Context, hostnames []string) (map[string]string, error)
	ResolveTags(ctx context.Context, hostnames []string) (map[string][]string, error)
}

// Options carries the rendering and addressing parameters for a run.
type Options struct {
	// Domain is appended to the owner to form the recipient address.
	Domain string
	// FrontendBaseURL is where quest links and the footer point.
	FrontendBaseURL string
	// Subject is used verbatim for every delivery.
	Subject string
}

// Delivery is one owner's rendered digest, ready for the notifier.
type Delivery struct {
	Address string
	Subject string
	Body    string
}

// Build is the digest entry point: it resolves metadata for every host
// referenced by a required labor, aggregates the labors per owner and
// quest, and renders one delivery per owner with outstanding work.
// Deliveries are returned in ascending address order. The returned
// errors are the labors skipped because no owner resolved for their
// host; a failed metadata call aborts the build with zero deliveries.
func Build(ctx context.Context, quests []models.Quest, labors []models.Labor, resolver Resolver, opts Options) ([]Delivery, []apperr.MissingOwnerError, error) {
	hostnames := requiredHostnames(labors)
	if len(hostnames) == 0 {
		return nil, nil, nil
	}

	// The two resolutions are independent; run them concurrently.
	var (
		owners map[string]string
		tags   map[string][]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		owners, err = resolver.ResolveOwners(gctx, hostnames)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = resolver.ResolveTags(gctx, hostnames)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	grouped, skipped := Aggregate(labors, owners)
	index := NewQuestIndex(quests)

	deliveries := make([]Delivery, 0, len(grouped))
	for _, owner := range grouped.Owners() {
		deliveries = append(deliveries, Delivery{
			Address: owner + "@" + opts.Domain,
			Subject: opts.Subject,
			Body:    Render(owner, grouped[owner], index, tags, opts.FrontendBaseURL),
		})
	}
	return deliveries, skipped, nil
}

// requiredHostnames returns the deduplicated, sorted hostnames
// referenced by required labors. Sorting keeps the metadata request
// payloads stable across runs.
func requiredHostnames(labors []models.Labor) []string {
	seen := make(map[string]struct{})
	for _, l := range labors {
		if l.Required() {
			seen[l.Hostname] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for h := range seen {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}
