package erroranalyzer

import "github.com/codeready-toolchain/athena/pkg/models"

// keywordPatterns are lowercase substrings checked against a lowercased
// error string. Longer matches win ties, same as the scoring formula.
var keywordPatterns = map[models.ErrorKind][]string{
	models.ErrorKindCredential: {
		"authentication failed", "access denied", "invalid password", "login failed",
		"unauthorized", "permission denied (publickey", "password authentication failed",
		"invalid credentials", "invalid api key", "token expired",
	},
	models.ErrorKindConnection: {
		"connection refused", "connection timed out", "no route to host",
		"network is unreachable", "could not resolve", "unable to connect",
		"econnrefused", "ehostunreach",
	},
	models.ErrorKindPermission: {
		"permission denied", "operation not permitted", "insufficient privileges",
		"403 forbidden", "eacces", "eperm",
	},
	models.ErrorKindNotFound: {
		"no such file", "file not found", "command not found", "404 not found",
		"enoent", "does not exist",
	},
	models.ErrorKindTimeout: {
		"timed out", "timeout", "deadline exceeded",
	},
	models.ErrorKindResource: {
		"no space left", "out of memory", "cannot allocate", "too many open files", "disk full",
	},
	models.ErrorKindConfiguration: {
		"syntax error", "invalid configuration", "parse error", "invalid value",
	},
}

// referencePhrases are the fixed per-kind phrase sets the semantic tier
// embeds once and caches; each phrase is a realistic error message the
// corresponding kind would actually produce.
var referencePhrases = map[models.ErrorKind][]string{
	models.ErrorKindCredential: {
		"Permission denied (publickey,password)", "Authentication failed", "Invalid password",
		"Access denied", "Login incorrect", "Bad password", "Incorrect username or password",
		"Authentication required", "Credentials are invalid", "Password authentication failed",
		"Could not authenticate", "Auth failure", "Login failed", "Invalid credentials",
		"Unauthorized access", "Access denied for user", "Login failed for user",
		"Invalid username/password", "Authentication error", "FATAL: password authentication failed",
		"Invalid API key", "Token expired", "Invalid token", "Unauthorized", "401 Unauthorized",
		"Invalid bearer token",
	},
	models.ErrorKindConnection: {
		"Connection refused", "Connection timed out", "No route to host", "Network is unreachable",
		"Host unreachable", "Connection reset by peer", "Could not resolve hostname",
		"Name or service not known", "Unable to connect", "Connection failed", "Socket error",
		"ECONNREFUSED", "ETIMEDOUT", "EHOSTUNREACH", "Network error", "Cannot connect to",
		"Failed to establish connection", "Connection closed", "Remote host closed connection",
		"SSH connection failed",
	},
	models.ErrorKindPermission: {
		"Permission denied", "Operation not permitted", "Access is denied", "Insufficient privileges",
		"You don't have permission", "EACCES", "EPERM", "Forbidden", "403 Forbidden",
		"sudo required", "must be root", "requires elevated privileges", "insufficient permissions",
		"read-only file system", "cannot write to",
	},
	models.ErrorKindNotFound: {
		"No such file or directory", "File not found", "Directory not found", "Command not found",
		"Module not found", "Package not found", "Resource not found", "404 Not Found", "ENOENT",
		"does not exist", "not found", "cannot find", "missing file", "No such host", "Unknown host",
	},
	models.ErrorKindTimeout: {
		"Timed out", "Timeout exceeded", "Operation timed out", "Connection timed out",
		"Read timed out", "Request timeout", "408 Request Timeout", "504 Gateway Timeout",
		"Deadline exceeded", "Took too long", "Execution expired",
	},
	models.ErrorKindResource: {
		"No space left on device", "Disk full", "Out of memory", "Cannot allocate memory",
		"Memory allocation failed", "Too many open files", "ENOMEM", "ENOSPC",
		"Resource temporarily unavailable", "Process limit exceeded", "Quota exceeded", "Storage full",
	},
	models.ErrorKindConfiguration: {
		"Syntax error", "Invalid configuration", "Parse error", "Configuration error",
		"Invalid value", "Missing required", "Unknown option", "Invalid option", "Malformed",
		"Expected", "Unexpected token", "Invalid format",
	},
}

var suggestedActions = map[models.ErrorKind]string{
	models.ErrorKindCredential:    "Verify credentials or provide authentication",
	models.ErrorKindConnection:    "Check network connectivity and host availability",
	models.ErrorKindPermission:    "Check user permissions or run with elevated privileges",
	models.ErrorKindNotFound:      "Verify the resource path or name exists",
	models.ErrorKindTimeout:       "Increase timeout or check service responsiveness",
	models.ErrorKindResource:      "Free up system resources (disk, memory)",
	models.ErrorKindConfiguration: "Review configuration syntax and values",
	models.ErrorKindUnknown:       "Review the error message for more details",
}
