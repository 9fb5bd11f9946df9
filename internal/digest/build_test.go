package digest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/starford/herald/internal/apperr"
	"github.com/starford/herald/internal/models"
)

// fakeResolver serves canned metadata and counts resolution calls.
type fakeResolver struct {
	owners    map[string]string
	tags      map[string][]string
	ownersErr error
	tagsErr   error
	calls     int
}

func (f *fakeResolver) ResolveOwners(context.Context, []string) (map[string]string, error) {
	f.calls++
	if f.ownersErr != nil {
		return nil, f.ownersErr
	}
	return f.owners, nil
}

func (f *fakeResolver) ResolveTags(context.Context, []string) (map[string][]string, error) {
	f.calls++
	if f.tagsErr != nil {
		return nil, f.tagsErr
	}
	return f.tags, nil
}

func testOptions() Options {
	return Options{
		Domain:          "example.com",
		FrontendBaseURL: "https://hermes.example",
		Subject:         "Hosts with outstanding required labors",
	}
}

func TestBuild_EndToEnd(t *testing.T) {
	quests := []models.Quest{{ID: 5, Creator: "bob", Description: "rotate creds"}}
	labors := []models.Labor{
		requiredLabor(1, 5, "h2.example"),
		requiredLabor(2, 5, "h1.example"),
	}
	resolver := &fakeResolver{
		owners: map[string]string{"h1.example": "alice", "h2.example": "alice"},
		tags:   map[string][]string{"h1.example": {"prod"}, "h2.example": {"prod", "db"}},
	}

	deliveries, skipped, err := Build(context.Background(), quests, labors, resolver, testOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("skipped = %v, want none", skipped)
	}
	if len(deliveries) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(deliveries))
	}

	d := deliveries[0]
	if d.Address != "alice@example.com" {
		t.Errorf("address = %q, want alice@example.com", d.Address)
	}
	if d.Subject != "Hosts with outstanding required labors" {
		t.Errorf("subject = %q", d.Subject)
	}
	if !strings.Contains(d.Body, "Quest 5, created by bob:") {
		t.Errorf("body missing quest header:\n%s", d.Body)
	}
	if !strings.Contains(d.Body, "https://hermes.example/v1/quests/5") {
		t.Errorf("body missing quest link:\n%s", d.Body)
	}
	h1 := strings.Index(d.Body, "h1.example (prod)\n")
	h2 := strings.Index(d.Body, "h2.example (prod, db)\n")
	if h1 < 0 || h2 < 0 || h1 > h2 {
		t.Errorf("host lines missing or out of order (h1 at %d, h2 at %d):\n%s", h1, h2, d.Body)
	}
}

func TestBuild_OwnersFetchFailureAbortsRun(t *testing.T) {
	fetchErr := &apperr.FetchError{Operation: "owners", Err: errors.New("timeout")}
	resolver := &fakeResolver{
		ownersErr: fetchErr,
		tags:      map[string][]string{},
	}
	labors := []models.Labor{requiredLabor(1, 5, "h1.example")}

	deliveries, _, err := Build(context.Background(), nil, labors, resolver, testOptions())
	if len(deliveries) != 0 {
		t.Fatalf("deliveries = %d, want 0 on fetch failure", len(deliveries))
	}
	var fe *apperr.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want *apperr.FetchError", err)
	}
	if fe.Operation != "owners" {
		t.Errorf("operation = %q, want owners", fe.Operation)
	}
}

func TestBuild_TagsFetchFailureAbortsRun(t *testing.T) {
	resolver := &fakeResolver{
		owners:  map[string]string{"h1.example": "alice"},
		tagsErr: &apperr.FetchError{Operation: "tags", Err: errors.New("boom")},
	}
	labors := []models.Labor{requiredLabor(1, 5, "h1.example")}

	deliveries, _, err := Build(context.Background(), nil, labors, resolver, testOptions())
	if len(deliveries) != 0 {
		t.Fatalf("deliveries = %d, want 0 on fetch failure", len(deliveries))
	}
	var fe *apperr.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want *apperr.FetchError", err)
	}
}

func TestBuild_NoRequiredLaborsSkipsResolution(t *testing.T) {
	resolver := &fakeResolver{}
	labors := []models.Labor{laborInState(1, 5, "h1.example", "acknowledged")}

	deliveries, skipped, err := Build(context.Background(), nil, labors, resolver, testOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(deliveries) != 0 || len(skipped) != 0 {
		t.Errorf("deliveries = %d, skipped = %d, want 0/0", len(deliveries), len(skipped))
	}
	if resolver.calls != 0 {
		t.Errorf("resolver called %d times for an empty scope", resolver.calls)
	}
}

func TestBuild_MissingOwnerReportedAndExcluded(t *testing.T) {
	resolver := &fakeResolver{
		owners: map[string]string{"h1.example": "alice"},
		tags:   map[string][]string{"h1.example": {"prod"}},
	}
	labors := []models.Labor{
		requiredLabor(1, 5, "h1.example"),
		requiredLabor(2, 5, "h9.example"),
	}
	quests := []models.Quest{{ID: 5, Creator: "bob", Description: "rotate creds"}}

	deliveries, skipped, err := Build(context.Background(), quests, labors, resolver, testOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(skipped) != 1 || skipped[0].Hostname != "h9.example" {
		t.Fatalf("skipped = %v, want h9.example", skipped)
	}
	if len(deliveries) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(deliveries))
	}
	if strings.Contains(deliveries[0].Body, "h9.example") {
		t.Errorf("unresolved host leaked into digest:\n%s", deliveries[0].Body)
	}
	if !strings.Contains(deliveries[0].Body, "h1.example (prod)") {
		t.Errorf("unrelated labor missing from digest:\n%s", deliveries[0].Body)
	}
}

func TestBuild_DeterministicAcrossRuns(t *testing.T) {
	quests := []models.Quest{
		{ID: 5, Creator: "bob", Description: "rotate creds"},
		{ID: 7, Creator: "carol", Description: "kernel upgrades"},
	}
	labors := []models.Labor{
		requiredLabor(1, 5, "h2.example"),
		requiredLabor(2, 7, "h1.example"),
		requiredLabor(3, models.NoQuestID, "h3.example"),
		requiredLabor(4, 5, "h1.example"),
	}
	resolver := &fakeResolver{
		owners: map[string]string{"h1.example": "alice", "h2.example": "dave", "h3.example": "alice"},
		tags:   map[string][]string{"h1.example": {"prod"}, "h2.example": {"db"}, "h3.example": nil},
	}

	first, _, err := Build(context.Background(), quests, labors, resolver, testOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("deliveries = %d, want 2", len(first))
	}
	if first[0].Address != "alice@example.com" || first[1].Address != "dave@example.com" {
		t.Errorf("deliveries not in address order: %q, %q", first[0].Address, first[1].Address)
	}

	for i := 0; i < 3; i++ {
		again, _, err := Build(context.Background(), quests, labors, resolver, testOptions())
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d delivery %d differs from first run", i, j)
			}
		}
	}
}
