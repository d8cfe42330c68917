package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/codeready-toolchain/athena/pkg/corrector"
	"github.com/codeready-toolchain/athena/pkg/inventory"
	"github.com/codeready-toolchain/athena/pkg/models"
)

// --- Inventory tools ---

func handleListHosts(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	in := inventory.SearchHostsInput{
		Pattern:     argString(args, "pattern"),
		Environment: argString(args, "environment"),
		Group:       argString(args, "group"),
	}
	hosts, err := d.Inventory.SearchHosts(ctx, in)
	if err != nil {
		return "", err
	}
	if len(hosts) == 0 {
		return "no hosts matched", nil
	}
	var b strings.Builder
	for _, h := range hosts {
		fmt.Fprintf(&b, "%s (%s) env=%s role=%s status=%s\n", h.Hostname, h.IP, h.Environment, h.Role, h.Status)
	}
	return b.String(), nil
}

func handleScanHost(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	hostname := argString(args, "hostname")
	if hostname == "" {
		return "", fmt.Errorf("hostname is required")
	}
	if cached, err := d.Inventory.GetScanCache(ctx, hostname, "full"); err == nil && cached != nil {
		return fmt.Sprintf("cached scan for %s: %v", hostname, cached.Data), nil
	}

	disk, _ := runOn(ctx, d, hostname, "df -h")
	mem, _ := runOn(ctx, d, hostname, "free -m")
	procs, _ := runOn(ctx, d, hostname, "ps aux --sort=-%cpu | head -n 15")

	data := map[string]any{"disk": disk, "memory": mem, "processes": procs}
	if err := d.Inventory.SaveScanCache(ctx, hostname, "full", data, 3600); err != nil {
		return "", err
	}
	return fmt.Sprintf("disk:\n%s\nmemory:\n%s\nprocesses:\n%s", disk, mem, procs), nil
}

func handleInfraContext(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	stats, err := d.Inventory.GetStats(ctx)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "total hosts: %d\n", stats.TotalHosts)
	for env, count := range stats.ByEnvironment {
		fmt.Fprintf(&b, "  %s: %d\n", env, count)
	}
	fmt.Fprintf(&b, "relations: %d (%d validated)\n", stats.TotalRelations, stats.ValidatedRelations)
	fmt.Fprintf(&b, "cached scans: %d\n", stats.CachedScans)
	return b.String(), nil
}

func handleAuditHost(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	target := argString(args, "target")
	if target == "" {
		return "", fmt.Errorf("target is required")
	}
	return runOn(ctx, d, target, "sudo -n -l; echo '---'; cat /etc/passwd | wc -l; echo '---'; uname -a")
}

func handleCheckPermissions(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	target := argString(args, "target")
	if target == "" {
		return "", fmt.Errorf("target is required")
	}
	return runOn(ctx, d, target, "id; sudo -n -l 2>&1")
}

// --- Execution tools ---

func handleExecuteCommand(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	target := argString(args, "target")
	command := argString(args, "command")
	if target == "" || command == "" {
		return "", fmt.Errorf("target and command are required")
	}
	result := d.Executor.Execute(ctx, target, command, true, defaultExecTimeout, nil)
	if !result.Success && d.Corrector != nil && d.Analyzer != nil {
		if result.ErrorAnalysis != nil && shouldRetry(result.ErrorAnalysis.Kind) {
			retried, retryInfo := d.Corrector.ExecuteWithRetry(ctx, target, command, retryContextFor(args), 0, defaultExecTimeout)
			out := formatExecResult(retried.Stdout, retried.Stderr, retried.Success, retried.Error)
			if retryInfo != nil && len(retryInfo.Corrections) > 0 {
				out = fmt.Sprintf("corrected to %q after %d attempt(s)\n%s", retried.Command, retryInfo.Attempts, out)
			}
			return out, nil
		}
	}
	return formatExecResult(result.Stdout, result.Stderr, result.Success, result.Error), nil
}

func retryContextFor(args map[string]any) corrector.RetryContext {
	return corrector.RetryContext{
		Goal:   argString(args, "reason"),
		Target: argString(args, "target"),
	}
}

func shouldRetry(kind models.ErrorKind) bool {
	switch kind {
	case models.ErrorKindPermission, models.ErrorKindCredential:
		return false
	default:
		return true
	}
}

func handleServiceControl(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	host := argString(args, "host")
	service := argString(args, "service")
	action := argString(args, "action")
	if service == "" || action == "" {
		return "", fmt.Errorf("service and action are required")
	}
	switch action {
	case "start", "stop", "restart", "status", "reload":
	default:
		return "", fmt.Errorf("unsupported service action %q", action)
	}
	return runOn(ctx, d, host, fmt.Sprintf("systemctl %s %s", action, service))
}

func handleDockerExec(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	container := argString(args, "container")
	command := argString(args, "command")
	if container == "" || command == "" {
		return "", fmt.Errorf("container and command are required")
	}
	host := argString(args, "host")
	return runOn(ctx, d, host, fmt.Sprintf("docker exec %s sh -c %s", container, shellQuote(command)))
}

func handleKubectlExec(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	namespace := argString(args, "namespace")
	pod := argString(args, "pod")
	command := argString(args, "command")
	if namespace == "" || pod == "" || command == "" {
		return "", fmt.Errorf("namespace, pod, and command are required")
	}
	return runOn(ctx, d, "", fmt.Sprintf("kubectl exec -n %s %s -- sh -c %s", namespace, pod, shellQuote(command)))
}

// --- File tools ---

func handleReadRemoteFile(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	host := argString(args, "host")
	path := argString(args, "path")
	if path == "" {
		return "", fmt.Errorf("path is required")
	}
	lines := argInt(args, "lines", defaultTailLines)
	return runOn(ctx, d, host, fmt.Sprintf("tail -n %d %s", lines, shellQuote(path)))
}

func handleWriteRemoteFile(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	host := argString(args, "host")
	path := argString(args, "path")
	content := argString(args, "content")
	if path == "" {
		return "", fmt.Errorf("path is required")
	}
	backup := argBool(args, "backup", true)
	var cmd strings.Builder
	if backup {
		fmt.Fprintf(&cmd, "cp %s %s.bak 2>/dev/null; ", shellQuote(path), shellQuote(path))
	}
	fmt.Fprintf(&cmd, "cat > %s << 'ATHENA_EOF'\n%s\nATHENA_EOF", shellQuote(path), content)
	return runOn(ctx, d, host, cmd.String())
}

func handleTailLogs(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	host := argString(args, "host")
	path := argString(args, "path")
	if path == "" {
		return "", fmt.Errorf("path is required")
	}
	lines := argInt(args, "lines", defaultTailLines)
	command := fmt.Sprintf("tail -n %d %s", lines, shellQuote(path))
	if grep := argString(args, "grep"); grep != "" {
		command += fmt.Sprintf(" | grep %s", shellQuote(grep))
	}
	return runOn(ctx, d, host, command)
}

func handleGlobFiles(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	host := argString(args, "host")
	path := argString(args, "path")
	pattern := argString(args, "pattern")
	if path == "" || pattern == "" {
		return "", fmt.Errorf("path and pattern are required")
	}
	return runOn(ctx, d, host, fmt.Sprintf("find %s -maxdepth 5 -iname %s", shellQuote(path), shellQuote(pattern)))
}

func handleGrepFiles(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	host := argString(args, "host")
	path := argString(args, "path")
	pattern := argString(args, "pattern")
	if path == "" || pattern == "" {
		return "", fmt.Errorf("path and pattern are required")
	}
	return runOn(ctx, d, host, fmt.Sprintf("grep -rn %s %s", shellQuote(pattern), shellQuote(path)))
}

func handleFindFile(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	host := argString(args, "host")
	path := argString(args, "path")
	name := argString(args, "name")
	if path == "" || name == "" {
		return "", fmt.Errorf("path and name are required")
	}
	return runOn(ctx, d, host, fmt.Sprintf("find %s -iname %s", shellQuote(path), shellQuote(name)))
}

// --- System info tools ---

func handleDiskInfo(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	return runOn(ctx, d, argString(args, "host"), "df -h")
}

func handleMemoryInfo(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	return runOn(ctx, d, argString(args, "host"), "free -m")
}

func handleProcessList(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	host := argString(args, "host")
	sortBy := argString(args, "sort_by")
	if sortBy == "" {
		sortBy = "-%cpu"
	}
	command := fmt.Sprintf("ps aux --sort=%s", shellQuote(sortBy))
	if filter := argString(args, "filter"); filter != "" {
		command += fmt.Sprintf(" | grep -i %s", shellQuote(filter))
	}
	return runOn(ctx, d, host, command)
}

func handleNetworkConnections(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	host := argString(args, "host")
	command := "ss -tunap"
	if port := argString(args, "port"); port != "" {
		command += fmt.Sprintf(" | grep %s", shellQuote(port))
	}
	if state := argString(args, "state"); state != "" {
		command += fmt.Sprintf(" | grep -i %s", shellQuote(state))
	}
	return runOn(ctx, d, host, command)
}

// --- Web / knowledge / interaction tools ---

func handleWebSearch(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	if d.WebClient == nil {
		return "", fmt.Errorf("web search is not configured")
	}
	return d.WebClient.Search(ctx, argString(args, "query"))
}

func handleWebFetch(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	if d.WebClient == nil {
		return "", fmt.Errorf("web fetch is not configured")
	}
	return d.WebClient.Fetch(ctx, argString(args, "url"))
}

func handleAskUser(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	if d.UserPrompt == nil {
		return "", fmt.Errorf("interactive prompting is not configured")
	}
	return d.UserPrompt.Prompt(ctx, argString(args, "prompt"))
}

func handleRememberSkill(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	if d.Knowledge == nil {
		return "", fmt.Errorf("knowledge store is not configured")
	}
	name := argString(args, "name")
	commandsRaw := argString(args, "commands")
	skill := Skill{
		Name:        name,
		Description: argString(args, "description"),
		Commands:    strings.Split(commandsRaw, "\n"),
	}
	if err := d.Knowledge.RememberSkill(ctx, skill); err != nil {
		return "", err
	}
	return fmt.Sprintf("remembered skill %q", name), nil
}

func handleRecallSkill(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	if d.Knowledge == nil {
		return "", fmt.Errorf("knowledge store is not configured")
	}
	skill, found, err := d.Knowledge.RecallSkill(ctx, argString(args, "name"))
	if err != nil {
		return "", err
	}
	if !found {
		return "no skill recorded under that name", nil
	}
	return fmt.Sprintf("%s: %s\n%s", skill.Name, skill.Description, strings.Join(skill.Commands, "\n")), nil
}

func handleRecordIncident(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	if d.Knowledge == nil {
		return "", fmt.Errorf("knowledge store is not configured")
	}
	incident := Incident{
		Title:       argString(args, "title"),
		Priority:    argString(args, "priority"),
		Service:     argString(args, "service"),
		Environment: argString(args, "environment"),
		Host:        argString(args, "host"),
		Symptoms:    argString(args, "symptoms"),
		Description: argString(args, "description"),
	}
	if err := d.Knowledge.RecordIncident(ctx, incident); err != nil {
		return "", err
	}
	return "incident recorded", nil
}

func handleSearchKnowledge(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	if d.Knowledge == nil {
		return "", fmt.Errorf("knowledge store is not configured")
	}
	results, err := d.Knowledge.SearchKnowledge(ctx, argString(args, "query"), argString(args, "service"), argInt(args, "limit", 5))
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "no matching incidents or skills found", nil
	}
	return strings.Join(results, "\n---\n"), nil
}

func handleGetSolutionSuggestion(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	if d.Knowledge == nil {
		return "", fmt.Errorf("knowledge store is not configured")
	}
	return d.Knowledge.SuggestSolution(ctx, argString(args, "symptoms"), argString(args, "service"), argString(args, "environment"))
}

func handleGraphStats(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	if d.Knowledge == nil {
		return "", fmt.Errorf("knowledge store is not configured")
	}
	incidents, skills, err := d.Knowledge.Stats(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d incidents recorded, %d skills remembered", incidents, skills), nil
}

// --- Network maintenance tools ---

func handleAddRoute(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	host := argString(args, "host")
	destination := argString(args, "destination")
	gateway := argString(args, "gateway")
	if destination == "" || gateway == "" {
		return "", fmt.Errorf("destination and gateway are required")
	}
	return runOn(ctx, d, host, fmt.Sprintf("ip route add %s via %s", shellQuote(destination), shellQuote(gateway)))
}

func handleAnalyzeSecurityLogs(ctx context.Context, d *Dispatcher, args map[string]any) (string, error) {
	host := argString(args, "host")
	path := argString(args, "path")
	if path == "" {
		path = "/var/log/auth.log"
	}
	lines := argInt(args, "lines", defaultTailLines)
	command := fmt.Sprintf("tail -n %d %s | grep -iE 'fail|invalid|refused|denied' | tail -n 50", lines, shellQuote(path))
	return runOn(ctx, d, host, command)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
