// Package orchestrator is Athena's L10 component: the per-request
// control flow tying the conversation, triage, tool-dispatch, executor,
// and auto-corrector layers together (spec.md §4.10).
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/codeready-toolchain/athena/pkg/corrector"
	"github.com/codeready-toolchain/athena/pkg/erroranalyzer"
	"github.com/codeready-toolchain/athena/pkg/executor"
	"github.com/codeready-toolchain/athena/pkg/inventory"
)

// ToolSpec describes one callable surfaced to the LLM, named and shaped
// per spec.md §6's tool schema.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  []string
}

// ToolSchema is the full set of tools the orchestrator exposes, grouped
// the way spec.md §6 groups them. Names and parameter ordering are part
// of the external contract: the LLM prompt is built from this list
// verbatim.
var ToolSchema = []ToolSpec{
	{"list_hosts", "List known inventory hosts, optionally filtered", []string{"pattern?", "environment?", "group?"}},
	{"scan_host", "Collect disk, memory, and process info for a host", []string{"hostname"}},
	{"get_infrastructure_context", "Summarize the whole known inventory", nil},
	{"audit_host", "Run a permission and configuration audit against a target", []string{"target"}},
	{"check_permissions", "Check the current user's effective permissions on a target", []string{"target"}},

	{"execute_command", "Run a shell command on a target host", []string{"target", "command", "reason"}},
	{"service_control", "Start, stop, restart, or check a systemd service", []string{"host", "service", "action"}},
	{"docker_exec", "Run a command inside a docker container", []string{"container", "command", "host?"}},
	{"kubectl_exec", "Run a command inside a Kubernetes pod", []string{"namespace", "pod", "command"}},

	{"read_remote_file", "Read a file from a target host", []string{"host", "path", "lines?"}},
	{"write_remote_file", "Write a file to a target host, backing up the original by default", []string{"host", "path", "content", "backup?"}},
	{"tail_logs", "Tail a log file, optionally filtered by a grep pattern", []string{"host", "path", "lines?", "grep?"}},
	{"glob_files", "List files under a path matching a glob pattern", []string{"host", "path", "pattern"}},
	{"grep_files", "Search files under a path for a pattern", []string{"host", "path", "pattern"}},
	{"find_file", "Locate a file by name under a path", []string{"host", "path", "name"}},

	{"disk_info", "Report disk usage for a host", []string{"host"}},
	{"memory_info", "Report memory usage for a host", []string{"host"}},
	{"process_list", "List running processes on a host", []string{"host", "filter?", "sort_by?"}},
	{"network_connections", "List network connections on a host", []string{"host", "port?", "state?"}},

	{"web_search", "Search the web for information", []string{"query"}},
	{"web_fetch", "Fetch the contents of a URL", []string{"url"}},
	{"ask_user", "Ask the human operator a clarifying question", []string{"prompt"}},
	{"remember_skill", "Persist a reusable operational skill for later recall", []string{"name", "description", "commands"}},
	{"recall_skill", "Recall a previously remembered skill by name", []string{"name"}},
	{"record_incident", "Record an incident for future pattern matching", []string{"title", "priority", "service", "symptoms", "description?", "environment?", "host?"}},
	{"search_knowledge", "Search recorded incidents and skills for similar past problems", []string{"query", "service?", "limit?"}},
	{"get_solution_suggestion", "Get a suggested solution for a set of symptoms", []string{"symptoms", "service", "environment?"}},
	{"graph_stats", "Report counts of recorded incidents and skills", nil},

	{"add_route", "Add a network route on a host", []string{"host", "destination", "gateway"}},
	{"analyze_security_logs", "Scan a log file on a host for suspicious authentication activity", []string{"host", "path", "lines?"}},
}

// defaultTailLines bounds tail_logs/read_remote_file when the caller
// omits an explicit line count.
const defaultTailLines = 200

// defaultExecTimeout bounds every tool-dispatched command that doesn't
// carry its own timeout.
const defaultExecTimeout = 30 * time.Second

// Dispatcher wires the tool schema to concrete implementations. Every
// tool in ToolSchema has an entry here; tools with no in-scope network
// collaborator (web_search, web_fetch) delegate to a caller-supplied
// WebClient and return a configuration error if none is set.
type Dispatcher struct {
	Inventory  *inventory.Store
	Executor   *executor.Executor
	Corrector  *corrector.Corrector
	Analyzer   *erroranalyzer.Analyzer
	Knowledge  KnowledgeStore
	WebClient  WebClient
	UserPrompt UserPrompter
}

// Dispatch runs one tool call by name, returning the string fed back to
// the LLM as an observation. An unknown tool name is itself an
// observation, not an error, so the loop can keep going.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) string {
	handler, ok := handlers[name]
	if !ok {
		return fmt.Sprintf("unknown tool %q", name)
	}
	result, err := handler(ctx, d, args)
	if err != nil {
		return fmt.Sprintf("tool %q failed: %v", name, err)
	}
	return result
}

type toolHandler func(ctx context.Context, d *Dispatcher, args map[string]any) (string, error)

var handlers map[string]toolHandler

func init() {
	handlers = map[string]toolHandler{
		"list_hosts":                 handleListHosts,
		"scan_host":                  handleScanHost,
		"get_infrastructure_context": handleInfraContext,
		"audit_host":                 handleAuditHost,
		"check_permissions":          handleCheckPermissions,

		"execute_command":  handleExecuteCommand,
		"service_control":  handleServiceControl,
		"docker_exec":      handleDockerExec,
		"kubectl_exec":     handleKubectlExec,

		"read_remote_file":  handleReadRemoteFile,
		"write_remote_file": handleWriteRemoteFile,
		"tail_logs":         handleTailLogs,
		"glob_files":        handleGlobFiles,
		"grep_files":        handleGrepFiles,
		"find_file":         handleFindFile,

		"disk_info":           handleDiskInfo,
		"memory_info":         handleMemoryInfo,
		"process_list":        handleProcessList,
		"network_connections": handleNetworkConnections,

		"web_search":              handleWebSearch,
		"web_fetch":               handleWebFetch,
		"ask_user":                handleAskUser,
		"remember_skill":          handleRememberSkill,
		"recall_skill":            handleRecallSkill,
		"record_incident":         handleRecordIncident,
		"search_knowledge":        handleSearchKnowledge,
		"get_solution_suggestion": handleGetSolutionSuggestion,
		"graph_stats":             handleGraphStats,

		"add_route":             handleAddRoute,
		"analyze_security_logs": handleAnalyzeSecurityLogs,
	}
}

func argString(args map[string]any, key string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func argInt(args map[string]any, key string, fallback int) int {
	if v, ok := args[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		}
	}
	return fallback
}

func argBool(args map[string]any, key string, fallback bool) bool {
	if v, ok := args[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}

func runOn(ctx context.Context, d *Dispatcher, host, command string) (string, error) {
	target := host
	if target == "" {
		target = "local"
	}
	result := d.Executor.Execute(ctx, target, command, true, defaultExecTimeout, nil)
	return formatExecResult(result.Stdout, result.Stderr, result.Success, result.Error), nil
}

func formatExecResult(stdout, stderr string, success bool, errMsg string) string {
	var b strings.Builder
	if stdout != "" {
		b.WriteString(stdout)
	}
	if stderr != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("STDERR:\n")
		b.WriteString(stderr)
	}
	if !success && errMsg != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("ERROR: ")
		b.WriteString(errMsg)
	}
	if b.Len() == 0 {
		b.WriteString("(no output)")
	}
	return b.String()
}
