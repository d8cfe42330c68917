package masking

import "regexp"

// CompiledPattern holds a pre-compiled regex pattern with its replacement.
type CompiledPattern struct {
	Name        string
	Regex       *regexp.Regexp
	Replacement string
	Description string
}

// patternDef is the uncompiled form built-in patterns are declared in.
type patternDef struct {
	Pattern     string
	Replacement string
	Description string
}

// secretPatterns are the credential/secret-shaped patterns reused verbatim
// from the PII/secret sweep the teacher's MCP masking runs against tool
// output: Athena runs the same sweep over parsed inventory text and
// executor command logs.
var secretPatterns = map[string]patternDef{
	"api_key": {
		Pattern:     `(?i)(?:api[_-]?key|apikey|key)["']?\s*[:=]\s*["']?([A-Za-z0-9_\-]{20,})["']?`,
		Replacement: `"api_key": "[MASKED_API_KEY]"`,
		Description: "API keys",
	},
	"password": {
		Pattern:     `(?i)(?:password|pwd|pass)["']?\s*[:=]\s*["']?([^"'\s\n]{6,})["']?`,
		Replacement: `"password": "[MASKED_PASSWORD]"`,
		Description: "Passwords",
	},
	"certificate": {
		Pattern:     `(?s)-----BEGIN [A-Z ]+-----.*?-----END [A-Z ]+-----`,
		Replacement: `[MASKED_CERTIFICATE]`,
		Description: "SSL/TLS certificates",
	},
	"token": {
		Pattern:     `(?i)(?:token|bearer|jwt)["']?\s*[:=]\s*["']?([A-Za-z0-9_\-.]{20,})["']?`,
		Replacement: `"token": "[MASKED_TOKEN]"`,
		Description: "Access tokens",
	},
	"ssh_key": {
		Pattern:     `ssh-(?:rsa|dss|ed25519|ecdsa)\s+[A-Za-z0-9+/=]+`,
		Replacement: `[MASKED_SSH_KEY]`,
		Description: "SSH public keys",
	},
	"private_key": {
		Pattern:     `(?i)(?:private[_-]?key)["']?\s*[:=]\s*["']?([A-Za-z0-9_\-.]{20,})["']?`,
		Replacement: `"private_key": "[MASKED_PRIVATE_KEY]"`,
		Description: "Private keys",
	},
	"secret": {
		Pattern:     `(?i)(?:secret[_-]?key|secret)["']?\s*[:=]\s*["']?([A-Za-z0-9_\-.]{20,})["']?`,
		Replacement: `"secret": "[MASKED_SECRET]"`,
		Description: "Generic secrets",
	},
}

// infraPatterns redact the infrastructure identifiers spec.md §4.2 requires
// stripped before any inventory text reaches an LLM.
var infraPatterns = map[string]patternDef{
	"mac_address": {
		Pattern:     `(?i)\b([0-9A-F]{2}:){5}[0-9A-F]{2}\b`,
		Replacement: `[MAC_REDACTED]`,
		Description: "MAC addresses",
	},
	"ipv4": {
		Pattern:     `\b(?:(?:25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)\.){3}(?:25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)\b`,
		Replacement: `[IP_REDACTED]`,
		Description: "IPv4 addresses",
	},
	"ipv6": {
		Pattern:     `\b(?:[0-9A-Fa-f]{1,4}:){2,7}(?:[0-9A-Fa-f]{1,4}|:)\b`,
		Replacement: `[IP_REDACTED]`,
		Description: "IPv6 addresses (full/compressed)",
	},
	"domain_suffix": {
		Pattern:     `\b[A-Za-z0-9][A-Za-z0-9\-]*\.(?:internal|corp|local|prod|staging|lan)\b`,
		Replacement: `[DOMAIN_REDACTED]`,
		Description: "Internal domain suffixes",
	},
	"ec2_instance_id": {
		Pattern:     `\bi-[0-9a-f]{8,17}\b`,
		Replacement: `[EC2_ID_REDACTED]`,
		Description: "EC2 instance IDs",
	},
	"aws_account_id": {
		Pattern:     `(?i)(?:account[_-]?id)["']?\s*[:=]\s*["']?(\d{12})["']?`,
		Replacement: `"account_id": "[AWS_ACCOUNT_REDACTED]"`,
		Description: "AWS account IDs in AWS-keyed contexts",
	},
	"aws_arn": {
		Pattern:     `arn:aws:[A-Za-z0-9\-]+:[A-Za-z0-9\-]*:\d{12}:[^\s"']+`,
		Replacement: `[ARN_REDACTED]`,
		Description: "AWS ARNs",
	},
	"gcp_project_id": {
		Pattern:     `(?i)(?:project[_-]?id)["']?\s*[:=]\s*["']?([a-z][a-z0-9\-]{4,28}[a-z0-9])["']?`,
		Replacement: `"project_id": "[GCP_PROJECT_REDACTED]"`,
		Description: "GCP project IDs",
	},
	"uuid": {
		Pattern:     `\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`,
		Replacement: `[UUID_REDACTED]`,
		Description: "UUIDs / Azure subscription IDs",
	},
	"email": {
		Pattern:     `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9]+(?:[.-][A-Za-z0-9]+)*\.[A-Za-z]{2,63}\b`,
		Replacement: `[MASKED_EMAIL]`,
		Description: "Email addresses",
	},
	"sensitive_metadata_value": {
		Pattern:     `(?i)(?:ansible_user|ansible_password|ssh_key|ssh_user|password|secret|token|api_key)["']?\s*[:=]\s*["']?([^"'\s\n,}]{3,})["']?`,
		Replacement: `$0_REDACTED_VALUE`,
		Description: "Known sensitive metadata keys",
	},
}

// injectionPatterns neutralize known prompt-injection shapes before any
// inventory text is embedded in an LLM prompt. Each replacement carries
// its own type tag so warnings can be aggregated without echoing raw
// content, per spec.md §4.2.
var injectionPatterns = map[string]patternDef{
	"ignore_instructions": {
		Pattern:     `(?i)ignore\s+(?:all\s+|any\s+)?(?:previous|above|prior)\s+instructions?`,
		Replacement: `[INJECTION_BLOCKED:ignore_instructions]`,
		Description: "Attempt to discard prior instructions",
	},
	"new_instructions": {
		Pattern:     `(?i)new\s+instructions?\s*:`,
		Replacement: `[INJECTION_BLOCKED:new_instructions]`,
		Description: "Injected instruction header",
	},
	"role_manipulation": {
		Pattern:     `(?i)system\s*:\s*you\s+are\b`,
		Replacement: `[INJECTION_BLOCKED:role_manipulation]`,
		Description: "Attempt to reassign the system role",
	},
	"output_manipulation": {
		Pattern:     `(?i)(?:respond|output|reply)\s+only\s+with\b`,
		Replacement: `[INJECTION_BLOCKED:output_manipulation]`,
		Description: "Attempt to constrain model output format maliciously",
	},
	"delimiter_escape": {
		Pattern:     "(?:```|<\\|.*?\\|>|\\{\\{.*?system.*?\\}\\})",
		Replacement: `[INJECTION_BLOCKED:delimiter_escape]`,
		Description: "Attempt to break out of the sanitization delimiters",
	},
	"json_role_injection": {
		Pattern:     `(?i)"role"\s*:\s*"(?:system|assistant)"`,
		Replacement: `[INJECTION_BLOCKED:json_role_injection]`,
		Description: "Injected JSON chat-role object",
	},
}

// patternGroups names the sets of built-in patterns Athena's call sites
// select by name, mirroring the teacher's pattern-group indirection.
var patternGroups = map[string][]string{
	"secrets":   keysOf(secretPatterns),
	"infra":     keysOf(infraPatterns),
	"injection": keysOf(injectionPatterns),
	"all":       append(append(keysOf(secretPatterns), keysOf(infraPatterns)...), keysOf(injectionPatterns)...),
}

func keysOf(m map[string]patternDef) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
