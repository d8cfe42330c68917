package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/athena/pkg/executor"
	"github.com/codeready-toolchain/athena/pkg/inventory"
	"github.com/codeready-toolchain/athena/pkg/models"
	"github.com/codeready-toolchain/athena/pkg/testutil"
)

func strPtr(s string) *string { return &s }

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	return &Dispatcher{
		Inventory: inventory.NewStore(testutil.NewMemoryClient(t)),
		Executor:  executor.New(),
	}
}

type fakeWebClient struct {
	searchResult string
	fetchResult  string
}

func (f *fakeWebClient) Search(ctx context.Context, query string) (string, error) {
	return f.searchResult, nil
}

func (f *fakeWebClient) Fetch(ctx context.Context, url string) (string, error) {
	return f.fetchResult, nil
}

type fakeUserPrompter struct {
	response string
}

func (f *fakeUserPrompter) Prompt(ctx context.Context, message string) (string, error) {
	return f.response, nil
}

type fakeKnowledgeStore struct {
	skills    map[string]Skill
	incidents []Incident
}

func newFakeKnowledgeStore() *fakeKnowledgeStore {
	return &fakeKnowledgeStore{skills: map[string]Skill{}}
}

func (f *fakeKnowledgeStore) RememberSkill(ctx context.Context, skill Skill) error {
	f.skills[skill.Name] = skill
	return nil
}

func (f *fakeKnowledgeStore) RecallSkill(ctx context.Context, name string) (Skill, bool, error) {
	skill, ok := f.skills[name]
	return skill, ok, nil
}

func (f *fakeKnowledgeStore) RecordIncident(ctx context.Context, incident Incident) error {
	f.incidents = append(f.incidents, incident)
	return nil
}

func (f *fakeKnowledgeStore) SearchKnowledge(ctx context.Context, query, service string, limit int) ([]string, error) {
	var out []string
	for _, inc := range f.incidents {
		out = append(out, inc.Title)
	}
	return out, nil
}

func (f *fakeKnowledgeStore) SuggestSolution(ctx context.Context, symptoms, service, environment string) (string, error) {
	return "check " + service + " logs", nil
}

func (f *fakeKnowledgeStore) Stats(ctx context.Context) (int, int, error) {
	return len(f.incidents), len(f.skills), nil
}

func TestDispatch_UnknownToolReturnsObservationNotError(t *testing.T) {
	d := newTestDispatcher(t)
	out := d.Dispatch(context.Background(), "not_a_real_tool", nil)
	assert.Contains(t, out, "unknown tool")
}

func TestHandleListHosts_ReturnsAddedHost(t *testing.T) {
	d := newTestDispatcher(t)
	ctx := context.Background()

	_, err := d.Inventory.AddHost(ctx, models.HostPatch{
		Hostname:    "web-01",
		Environment: strPtr("production"),
		ChangedBy:   "test",
	})
	require.NoError(t, err)

	out := d.Dispatch(ctx, "list_hosts", map[string]any{"pattern": "web"})
	assert.Contains(t, out, "web-01")
}

func TestHandleListHosts_NoMatches(t *testing.T) {
	d := newTestDispatcher(t)
	out := d.Dispatch(context.Background(), "list_hosts", map[string]any{"pattern": "nonexistent"})
	assert.Contains(t, out, "no hosts matched")
}

func TestHandleExecuteCommand_LocalSuccess(t *testing.T) {
	d := newTestDispatcher(t)
	out := d.Dispatch(context.Background(), "execute_command", map[string]any{
		"target":  "local",
		"command": "echo hello-athena",
		"reason":  "smoke test",
	})
	assert.Contains(t, out, "hello-athena")
}

func TestHandleDiskInfo_MissingHandlerArgsStillRunsLocally(t *testing.T) {
	d := newTestDispatcher(t)
	out := d.Dispatch(context.Background(), "disk_info", map[string]any{})
	assert.NotEmpty(t, out)
}

func TestHandleWebSearch_WithoutClientConfiguredReturnsError(t *testing.T) {
	d := newTestDispatcher(t)
	out := d.Dispatch(context.Background(), "web_search", map[string]any{"query": "nginx 502"})
	assert.Contains(t, out, "failed")
}

func TestHandleWebSearch_WithClientConfigured(t *testing.T) {
	d := newTestDispatcher(t)
	d.WebClient = &fakeWebClient{searchResult: "found: nginx 502 usually means upstream down"}
	out := d.Dispatch(context.Background(), "web_search", map[string]any{"query": "nginx 502"})
	assert.Contains(t, out, "upstream down")
}

func TestHandleAskUser_WithPrompterConfigured(t *testing.T) {
	d := newTestDispatcher(t)
	d.UserPrompt = &fakeUserPrompter{response: "yes, proceed"}
	out := d.Dispatch(context.Background(), "ask_user", map[string]any{"prompt": "confirm restart?"})
	assert.Equal(t, "yes, proceed", out)
}

func TestHandleRememberAndRecallSkill(t *testing.T) {
	d := newTestDispatcher(t)
	d.Knowledge = newFakeKnowledgeStore()
	ctx := context.Background()

	out := d.Dispatch(ctx, "remember_skill", map[string]any{
		"name":        "restart-nginx",
		"description": "restart nginx safely",
		"commands":    "systemctl restart nginx",
	})
	assert.Contains(t, out, "restart-nginx")

	out = d.Dispatch(ctx, "recall_skill", map[string]any{"name": "restart-nginx"})
	assert.Contains(t, out, "restart nginx safely")
}

func TestHandleRecordIncidentAndGraphStats(t *testing.T) {
	d := newTestDispatcher(t)
	d.Knowledge = newFakeKnowledgeStore()
	ctx := context.Background()

	out := d.Dispatch(ctx, "record_incident", map[string]any{
		"title":    "mongodb down",
		"priority": "P0",
		"service":  "mongodb",
		"symptoms": "connection refused",
	})
	assert.Contains(t, out, "recorded")

	out = d.Dispatch(ctx, "graph_stats", nil)
	assert.Contains(t, out, "1 incidents recorded")
}

func TestShellQuote_EscapesSingleQuotes(t *testing.T) {
	quoted := shellQuote("it's a test")
	assert.Equal(t, `'it'\''s a test'`, quoted)
}
