package screening

import (
	"context"
	"testing"
	"time"

	"github.com/acme/call-screening/internal/carrier"
	"github.com/acme/call-screening/internal/config"
	"github.com/acme/call-screening/internal/domain"
	"github.com/acme/call-screening/internal/queue"
	"github.com/acme/call-screening/internal/repository"
	"github.com/acme/call-screening/internal/reputation"
	corescreening "github.com/acme/call-screening/internal/screening"
	"github.com/acme/call-screening/internal/screening/race"
	"github.com/acme/call-screening/pkg/logger"
)

type fakeLists struct {
	whitelist map[string]bool
	blocklist map[string]bool
	patterns  []string

	added   []string
	removed []string
}

func newFakeLists() *fakeLists {
	return &fakeLists{whitelist: map[string]bool{}, blocklist: map[string]bool{}}
}

func (f *fakeLists) IsWhitelisted(_ context.Context, number string) (bool, error) {
	return f.whitelist[number], nil
}
func (f *fakeLists) AddWhitelisted(_ context.Context, number string) error {
	f.whitelist[number] = true
	return nil
}
func (f *fakeLists) RemoveWhitelisted(_ context.Context, number string) error {
	delete(f.whitelist, number)
	return nil
}
func (f *fakeLists) Whitelist(context.Context) ([]string, error) { return nil, nil }

func (f *fakeLists) IsBlocked(_ context.Context, number string) (bool, error) {
	return f.blocklist[number], nil
}
func (f *fakeLists) AddBlocked(_ context.Context, number string) error {
	f.blocklist[number] = true
	f.added = append(f.added, number)
	return nil
}
func (f *fakeLists) RemoveBlocked(_ context.Context, number string) error {
	delete(f.blocklist, number)
	f.removed = append(f.removed, number)
	return nil
}
func (f *fakeLists) Blocklist(context.Context) ([]string, error)     { return nil, nil }
func (f *fakeLists) Patterns(context.Context) ([]string, error)      { return f.patterns, nil }
func (f *fakeLists) AddPattern(_ context.Context, p string) error    { f.patterns = append(f.patterns, p); return nil }
func (f *fakeLists) RemovePattern(_ context.Context, _ string) error { return nil }

type fakeContacts struct{}

func (fakeContacts) IsContact(context.Context, string) (bool, error)             { return false, nil }
func (fakeContacts) ReplaceAll(context.Context, []repository.ContactRecord) error { return nil }
func (fakeContacts) Count(context.Context) (int64, error)                        { return 0, nil }

type fakeSink struct{}

func (fakeSink) Notify(context.Context, domain.Verdict) {}
func (fakeSink) Disabled(context.Context)               {}

type fakePublisher struct {
	published []queue.VerdictMessage
}

func (f *fakePublisher) PublishVerdict(_ context.Context, msg queue.VerdictMessage) error {
	f.published = append(f.published, msg)
	return nil
}

type fixedChecker struct {
	name string
	spam bool
}

func (c fixedChecker) Name() string { return c.name }
func (c fixedChecker) Check(context.Context, string) (bool, error) {
	return c.spam, nil
}

type fixedRegistry struct {
	checkers []reputation.Checker
}

func (r fixedRegistry) ActiveSet() []reputation.Checker { return r.checkers }

func newService(lists *fakeLists, pub *fakePublisher, policy config.PolicyConfig, checkers ...reputation.Checker) *Service {
	log := logger.Nop()
	source := NewRaceSource(race.New(log), nil, false, log)
	pipeline := corescreening.NewPipeline(lists, fakeContacts{}, carrier.NewStaticInfo("FR"), source, fakeSink{}, log)
	return NewService(pipeline, lists, fixedRegistry{checkers: checkers}, pub, policy, log)
}

func basePolicy() config.PolicyConfig {
	return config.PolicyConfig{
		BlockingEnabled:      true,
		ContactsPermission:   true,
		PhoneStatePermission: true,
		RaceTimeout:          time.Second,
	}
}

func TestScreenProviderMatchPersistsAndPublishes(t *testing.T) {
	lists := newFakeLists()
	pub := &fakePublisher{}
	svc := newService(lists, pub, basePolicy(), fixedChecker{name: "a", spam: true})

	verdict, err := svc.Screen(context.Background(), domain.CallDetails{DirectNumber: "+15551234567"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verdict.IsSpam || verdict.Reason != domain.ReasonProviderMatch {
		t.Fatalf("expected provider-match verdict, got %+v", verdict)
	}
	if len(lists.added) != 1 || lists.added[0] != "15551234567" {
		t.Fatalf("expected normalized number persisted to blocklist, got %v", lists.added)
	}
	if len(pub.published) != 1 || pub.published[0].VerdictID != verdict.ID {
		t.Fatalf("expected one published verdict event, got %v", pub.published)
	}
}

func TestScreenCleanRaceRehabilitates(t *testing.T) {
	lists := newFakeLists()
	lists.blocklist["x"] = true // unrelated entry survives
	pub := &fakePublisher{}
	policy := basePolicy()
	policy.RehabilitateOnClean = true
	svc := newService(lists, pub, policy, fixedChecker{name: "a", spam: false})

	verdict, err := svc.Screen(context.Background(), domain.CallDetails{DirectNumber: "+15551234567"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.IsSpam {
		t.Fatalf("expected clean verdict, got %+v", verdict)
	}
	if len(lists.removed) != 1 || lists.removed[0] != "15551234567" {
		t.Fatalf("expected rehabilitation removal, got %v", lists.removed)
	}
	if !lists.blocklist["x"] {
		t.Fatalf("unrelated blocklist entries must survive rehabilitation")
	}
}

func TestScreenDisabledPerformsNoSideEffects(t *testing.T) {
	lists := newFakeLists()
	pub := &fakePublisher{}
	policy := basePolicy()
	policy.BlockingEnabled = false
	svc := newService(lists, pub, policy, fixedChecker{name: "a", spam: true})

	verdict, err := svc.Screen(context.Background(), domain.CallDetails{DirectNumber: "+15551234567"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.IsSpam {
		t.Fatalf("expected allow while disabled, got %+v", verdict)
	}
	if len(lists.added) != 0 || len(lists.removed) != 0 {
		t.Fatalf("expected no list writes while disabled")
	}
	if len(pub.published) != 0 {
		t.Fatalf("expected no published events while disabled")
	}
}

func TestRaceSourceEmptyCheckerSet(t *testing.T) {
	log := logger.Nop()
	source := NewRaceSource(race.New(log), nil, false, log)
	if source.IsSpam(context.Background(), "15551234567", nil, time.Second) {
		t.Fatalf("expected empty checker set to resolve false")
	}
}
