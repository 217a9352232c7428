package screening

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/acme/call-screening/internal/config"
	"github.com/acme/call-screening/internal/domain"
	"github.com/acme/call-screening/internal/repository"
	"github.com/acme/call-screening/internal/reputation"
	"github.com/acme/call-screening/pkg/logger"
)

type fakeLists struct {
	whitelist map[string]bool
	blocklist map[string]bool
	patterns  []string
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
	return nil
}
func (f *fakeLists) RemoveBlocked(_ context.Context, number string) error {
	delete(f.blocklist, number)
	return nil
}
func (f *fakeLists) Blocklist(context.Context) ([]string, error) { return nil, nil }

func (f *fakeLists) Patterns(context.Context) ([]string, error)      { return f.patterns, nil }
func (f *fakeLists) AddPattern(_ context.Context, p string) error    { f.patterns = append(f.patterns, p); return nil }
func (f *fakeLists) RemovePattern(_ context.Context, _ string) error { return nil }

type fakeContacts struct {
	known map[string]bool
	err   error
}

func (f *fakeContacts) IsContact(_ context.Context, normalized string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.known[normalized], nil
}
func (f *fakeContacts) ReplaceAll(context.Context, []repository.ContactRecord) error { return nil }
func (f *fakeContacts) Count(context.Context) (int64, error)                         { return 0, nil }

type fakeCarrier struct {
	country string
	err     error
}

func (f *fakeCarrier) HomeCountry(context.Context) (string, error) {
	return f.country, f.err
}

type fakeSource struct {
	spam  bool
	calls int
}

func (f *fakeSource) IsSpam(context.Context, string, []reputation.Checker, time.Duration) bool {
	f.calls++
	return f.spam
}

type fakeSink struct {
	notified []domain.Verdict
	disabled int
}

func (f *fakeSink) Notify(_ context.Context, v domain.Verdict) { f.notified = append(f.notified, v) }
func (f *fakeSink) Disabled(context.Context)                   { f.disabled++ }

type harness struct {
	lists    *fakeLists
	contacts *fakeContacts
	carrier  *fakeCarrier
	source   *fakeSource
	sink     *fakeSink
	pipeline *Pipeline
}

func newHarness() *harness {
	h := &harness{
		lists:    newFakeLists(),
		contacts: &fakeContacts{known: map[string]bool{}},
		carrier:  &fakeCarrier{country: "FR"},
		source:   &fakeSource{},
		sink:     &fakeSink{},
	}
	h.pipeline = NewPipeline(h.lists, h.contacts, h.carrier, h.source, h.sink, logger.Nop())
	return h
}

func basePolicy() config.PolicyConfig {
	return config.PolicyConfig{
		BlockingEnabled:      true,
		ContactsPermission:   true,
		PhoneStatePermission: true,
		RaceTimeout:          time.Second,
	}
}

func TestProviderMatchBlocks(t *testing.T) {
	h := newHarness()
	h.source.spam = true

	verdict, effects := h.pipeline.Evaluate(context.Background(), basePolicy(),
		domain.CallDetails{DirectNumber: "+15551234567"}, nil)

	if !verdict.IsSpam || verdict.Reason != domain.ReasonProviderMatch {
		t.Fatalf("expected provider match verdict, got %+v", verdict)
	}
	if verdict.Action != domain.ActionReject {
		t.Fatalf("expected reject action, got %s", verdict.Action)
	}
	if !effects.SaveBlocked {
		t.Fatalf("expected provider match to persist the block")
	}
	if len(h.sink.notified) != 1 {
		t.Fatalf("expected exactly one verdict notification, got %d", len(h.sink.notified))
	}
}

func TestHiddenNumberPolicy(t *testing.T) {
	h := newHarness()
	policy := basePolicy()
	policy.BlockHiddenNumbers = true

	verdict, effects := h.pipeline.Evaluate(context.Background(), policy, domain.CallDetails{}, nil)
	if !verdict.IsSpam || verdict.Reason != domain.ReasonHiddenNumber {
		t.Fatalf("expected hidden-number verdict, got %+v", verdict)
	}
	if !effects.SaveBlocked {
		t.Fatalf("expected hidden-number block to persist")
	}

	// the policy off leaves hidden callers alone
	h2 := newHarness()
	verdict, _ = h2.pipeline.Evaluate(context.Background(), basePolicy(), domain.CallDetails{}, nil)
	if verdict.IsSpam {
		t.Fatalf("expected hidden caller to be allowed with the policy off")
	}
	if h2.source.calls != 0 {
		t.Fatalf("hidden caller must not reach the provider race")
	}
}

func TestPatternMatchSkipsRace(t *testing.T) {
	h := newHarness()
	h.lists.patterns = []string{"+3316*"}
	h.source.spam = true // must never be consulted
	policy := basePolicy()
	policy.PatternBlocking = true

	verdict, effects := h.pipeline.Evaluate(context.Background(), policy,
		domain.CallDetails{DirectNumber: "+33164445566"}, nil)

	if !verdict.IsSpam || verdict.Reason != domain.ReasonPatternMatch {
		t.Fatalf("expected pattern-match verdict, got %+v", verdict)
	}
	if !effects.SaveBlocked {
		t.Fatalf("expected pattern match to persist the block")
	}
	if h.source.calls != 0 {
		t.Fatalf("pattern match must short-circuit the provider race")
	}
}

func TestBlockingDisabledHasNoSideEffects(t *testing.T) {
	h := newHarness()
	h.source.spam = true
	policy := basePolicy()
	policy.BlockingEnabled = false
	policy.BlockHiddenNumbers = true
	policy.BlockNonContacts = true

	verdict, effects := h.pipeline.Evaluate(context.Background(), policy,
		domain.CallDetails{DirectNumber: "+15551234567"}, nil)

	if verdict.IsSpam {
		t.Fatalf("expected disabled screening to allow the call")
	}
	if effects.SaveBlocked || effects.Unblock || effects.Audit {
		t.Fatalf("expected no side effects while disabled, got %+v", effects)
	}
	if h.sink.disabled != 1 {
		t.Fatalf("expected the disabled-state notification")
	}
	if h.source.calls != 0 {
		t.Fatalf("disabled screening must not invoke providers")
	}
}

func TestWhitelistShortCircuits(t *testing.T) {
	h := newHarness()
	h.lists.whitelist["15551234567"] = true
	h.lists.patterns = []string{"*"}
	h.source.spam = true
	policy := basePolicy()
	policy.PatternBlocking = true
	policy.BlockNonContacts = true

	verdict, effects := h.pipeline.Evaluate(context.Background(), policy,
		domain.CallDetails{DirectNumber: "+15551234567"}, nil)

	if verdict.IsSpam {
		t.Fatalf("whitelisted number must never be spam, got %+v", verdict)
	}
	if effects.SaveBlocked || effects.Unblock {
		t.Fatalf("whitelisted number must not trigger storage writes")
	}
	if h.source.calls != 0 {
		t.Fatalf("whitelisted number must not reach the provider race")
	}
}

func TestContactAllowedAndNonContactPolicy(t *testing.T) {
	h := newHarness()
	h.contacts.known["15551234567"] = true
	policy := basePolicy()
	policy.BlockNonContacts = true

	verdict, _ := h.pipeline.Evaluate(context.Background(), policy,
		domain.CallDetails{DirectNumber: "+15551234567"}, nil)
	if verdict.IsSpam {
		t.Fatalf("known contact must be allowed, got %+v", verdict)
	}

	verdict, effects := h.pipeline.Evaluate(context.Background(), policy,
		domain.CallDetails{DirectNumber: "+15557654321"}, nil)
	if !verdict.IsSpam || verdict.Reason != domain.ReasonNonContactPolicy {
		t.Fatalf("expected non-contact verdict, got %+v", verdict)
	}
	if !effects.SaveBlocked {
		t.Fatalf("expected non-contact block to persist")
	}
}

func TestContactsFailureDisablesBothContactSteps(t *testing.T) {
	h := newHarness()
	h.contacts.err = errors.New("directory offline")
	policy := basePolicy()
	policy.BlockNonContacts = true

	verdict, _ := h.pipeline.Evaluate(context.Background(), policy,
		domain.CallDetails{DirectNumber: "+15551234567"}, nil)
	if verdict.IsSpam {
		t.Fatalf("directory outage must not block callers, got %+v", verdict)
	}
}

func TestAlreadyBlockedDoesNotRePersist(t *testing.T) {
	h := newHarness()
	h.lists.blocklist["15551234567"] = true

	verdict, effects := h.pipeline.Evaluate(context.Background(), basePolicy(),
		domain.CallDetails{DirectNumber: "+15551234567"}, nil)

	if !verdict.IsSpam || verdict.Reason != domain.ReasonAlreadyBlocked {
		t.Fatalf("expected already-blocked verdict, got %+v", verdict)
	}
	if effects.SaveBlocked {
		t.Fatalf("already-blocked number must not be re-persisted")
	}
	if h.source.calls != 0 {
		t.Fatalf("blocked number must not reach the provider race")
	}
}

func TestCarrierRiskSignal(t *testing.T) {
	h := newHarness()
	policy := basePolicy()
	policy.CarrierRiskFilter = true

	verdict, effects := h.pipeline.Evaluate(context.Background(), policy,
		domain.CallDetails{DirectNumber: "+15551234567", VerificationFailed: true}, nil)

	if !verdict.IsSpam || verdict.Reason != domain.ReasonCarrierRiskSignal {
		t.Fatalf("expected carrier-risk verdict, got %+v", verdict)
	}
	if !effects.SaveBlocked {
		t.Fatalf("expected carrier-risk block to persist")
	}
}

func TestInternationalPolicy(t *testing.T) {
	h := newHarness()
	h.carrier.country = "US"
	policy := basePolicy()
	policy.BlockInternational = true

	verdict, effects := h.pipeline.Evaluate(context.Background(), policy,
		domain.CallDetails{DirectNumber: "+33162123456"}, nil)
	if !verdict.IsSpam || verdict.Reason != domain.ReasonInternational {
		t.Fatalf("expected international verdict, got %+v", verdict)
	}
	if !effects.SaveBlocked {
		t.Fatalf("expected international block to persist")
	}

	// domestic numbers pass
	verdict, _ = h.pipeline.Evaluate(context.Background(), policy,
		domain.CallDetails{DirectNumber: "+15551234567"}, nil)
	if verdict.IsSpam {
		t.Fatalf("expected domestic number to pass, got %+v", verdict)
	}
}

func TestInternationalParseFailureFailsOpen(t *testing.T) {
	h := newHarness()
	h.carrier.country = "US"
	policy := basePolicy()
	policy.BlockInternational = true

	verdict, _ := h.pipeline.Evaluate(context.Background(), policy,
		domain.CallDetails{DirectNumber: "++"}, nil)
	if verdict.IsSpam {
		t.Fatalf("unparseable number must not be treated as international, got %+v", verdict)
	}
}

func TestInternationalRequiresPermission(t *testing.T) {
	h := newHarness()
	h.carrier.country = "US"
	policy := basePolicy()
	policy.BlockInternational = true
	policy.PhoneStatePermission = false

	verdict, _ := h.pipeline.Evaluate(context.Background(), policy,
		domain.CallDetails{DirectNumber: "+33162123456"}, nil)
	if verdict.IsSpam {
		t.Fatalf("missing permission must disable the international check, got %+v", verdict)
	}
}

func TestCleanRaceRehabilitates(t *testing.T) {
	h := newHarness()
	policy := basePolicy()
	policy.RehabilitateOnClean = true

	verdict, effects := h.pipeline.Evaluate(context.Background(), policy,
		domain.CallDetails{DirectNumber: "+15551234567"}, nil)
	if verdict.IsSpam {
		t.Fatalf("expected clean race to allow, got %+v", verdict)
	}
	if !effects.Unblock {
		t.Fatalf("expected rehabilitation effect with the flag on")
	}

	policy.RehabilitateOnClean = false
	_, effects = h.pipeline.Evaluate(context.Background(), policy,
		domain.CallDetails{DirectNumber: "+15551234567"}, nil)
	if effects.Unblock {
		t.Fatalf("expected no rehabilitation with the flag off")
	}
}

func TestMutePolicyChangesAction(t *testing.T) {
	h := newHarness()
	h.source.spam = true
	policy := basePolicy()
	policy.MuteInsteadOfBlock = true

	verdict, _ := h.pipeline.Evaluate(context.Background(), policy,
		domain.CallDetails{DirectNumber: "+15551234567"}, nil)
	if verdict.Action != domain.ActionMute {
		t.Fatalf("expected mute action, got %s", verdict.Action)
	}
}

func TestEvaluationIsIdempotent(t *testing.T) {
	h := newHarness()
	h.lists.patterns = []string{"+3316*"}
	policy := basePolicy()
	policy.PatternBlocking = true
	details := domain.CallDetails{DirectNumber: "+33164445566"}

	first, firstEffects := h.pipeline.Evaluate(context.Background(), policy, details, nil)
	second, secondEffects := h.pipeline.Evaluate(context.Background(), policy, details, nil)

	if first.IsSpam != second.IsSpam || first.Reason != second.Reason || first.Action != second.Action {
		t.Fatalf("expected identical verdicts, got %+v then %+v", first, second)
	}
	if firstEffects != secondEffects {
		t.Fatalf("expected identical effects, got %+v then %+v", firstEffects, secondEffects)
	}
}
