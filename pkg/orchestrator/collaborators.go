package orchestrator

import "context"

// WebClient is the caller-supplied collaborator backing web_search and
// web_fetch. No concrete HTTP/search-API client ships in this module:
// network egress policy and provider choice belong to the deployment,
// not the orchestrator.
type WebClient interface {
	Search(ctx context.Context, query string) (string, error)
	Fetch(ctx context.Context, url string) (string, error)
}

// UserPrompter is the caller-supplied collaborator backing ask_user: the
// orchestrator never owns a terminal or a chat transport directly.
type UserPrompter interface {
	Prompt(ctx context.Context, message string) (string, error)
}

// Skill is a remembered reusable operational procedure.
type Skill struct {
	Name        string
	Description string
	Commands    []string
}

// Incident is a recorded operational incident, kept for future pattern
// matching against similar symptoms.
type Incident struct {
	Title       string
	Priority    string
	Service     string
	Environment string
	Host        string
	Symptoms    string
	Description string
	Resolution  string
}

// KnowledgeStore is the caller-supplied collaborator backing the
// remember_skill/recall_skill/record_incident/search_knowledge/
// get_solution_suggestion/graph_stats tools. The original implementation
// backs these with a FalkorDB graph; no graph database ships in this
// module, so the orchestrator depends only on this narrow interface and
// a caller wires in whatever store it has.
type KnowledgeStore interface {
	RememberSkill(ctx context.Context, skill Skill) error
	RecallSkill(ctx context.Context, name string) (Skill, bool, error)
	RecordIncident(ctx context.Context, incident Incident) error
	SearchKnowledge(ctx context.Context, query, service string, limit int) ([]string, error)
	SuggestSolution(ctx context.Context, symptoms, service, environment string) (string, error)
	Stats(ctx context.Context) (incidents int, skills int, err error)
}
