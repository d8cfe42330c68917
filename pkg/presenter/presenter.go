// Package presenter renders a failed ExecutionResult into a human-facing
// block: the failed command, its target, exit code, a truncated stderr
// excerpt, and a handful of suggested next steps. Locale selects which
// language's templates are used.
package presenter

import (
	"fmt"
	"strings"

	"github.com/codeready-toolchain/athena/pkg/models"
)

// Locale is a supported rendering language.
type Locale string

// Supported locales. English is the default used whenever an unknown
// or empty Locale is requested.
const (
	LocaleEnglish Locale = "en"
	LocaleSpanish Locale = "es"
)

// maxStderrExcerpt bounds how much of a failure's stderr is shown,
// per spec.md §7's "first 150-200 chars of stderr".
const maxStderrExcerpt = 200

var labels = map[Locale]struct {
	Failed      string
	Target      string
	ExitCode    string
	Output      string
	Suggestions string
}{
	LocaleEnglish: {
		Failed:      "Command failed",
		Target:      "Target",
		ExitCode:    "Exit code",
		Output:      "Output",
		Suggestions: "Suggestions",
	},
	LocaleSpanish: {
		Failed:      "El comando falló",
		Target:      "Objetivo",
		ExitCode:    "Código de salida",
		Output:      "Salida",
		Suggestions: "Sugerencias",
	},
}

// suggestions gives 3-5 bullet remediation hints per error kind, in
// each supported locale. Unknown kinds fall back to a generic hint.
var suggestions = map[Locale]map[models.ErrorKind][]string{
	LocaleEnglish: {
		models.ErrorKindCredential: {
			"The credential used to reach this target may be expired or invalid.",
			"Re-check stored credentials with /variables.",
			"Confirm the account has access to this host or service.",
		},
		models.ErrorKindPermission: {
			"The system tried this command without elevated privileges.",
			"Verify the account is listed in sudoers for this command.",
			"Re-run with explicit confirmation if elevation is actually required.",
		},
		models.ErrorKindConnection: {
			"The target host may be unreachable or refusing connections.",
			"Check that the host is online and the port is open.",
			"Verify DNS/hostname resolution for this target.",
		},
		models.ErrorKindNotFound: {
			"The command, binary, or path referenced does not exist on the target.",
			"Check for a typo in the command or file path.",
			"Confirm the expected package or file is installed on this host.",
		},
		models.ErrorKindTimeout: {
			"The command did not finish within its allotted time.",
			"Consider whether this operation needs a longer timeout.",
			"Check whether the target is under heavy load.",
		},
		models.ErrorKindResource: {
			"The target may be out of disk space, memory, or file handles.",
			"Check disk_info/memory_info for this host before retrying.",
		},
		models.ErrorKindConfiguration: {
			"The command references a setting or file that is missing or misconfigured.",
			"Check the target's configuration files for this service.",
		},
		models.ErrorKindUnknown: {
			"The failure did not match a known pattern.",
			"Review the output above for the underlying cause.",
			"Try running the command manually for more detail.",
		},
	},
	LocaleSpanish: {
		models.ErrorKindCredential: {
			"La credencial usada para acceder a este objetivo puede haber expirado o ser inválida.",
			"Revisa las credenciales guardadas con /variables.",
			"Confirma que la cuenta tiene acceso a este host o servicio.",
		},
		models.ErrorKindPermission: {
			"El sistema intentó este comando sin privilegios elevados.",
			"Verifica que la cuenta esté en sudoers para este comando.",
			"Vuelve a ejecutarlo con confirmación explícita si realmente se necesita elevación.",
		},
		models.ErrorKindConnection: {
			"El host objetivo puede estar inaccesible o rechazando conexiones.",
			"Verifica que el host esté en línea y el puerto abierto.",
			"Confirma la resolución de DNS/hostname para este objetivo.",
		},
		models.ErrorKindNotFound: {
			"El comando, binario o ruta referenciada no existe en el objetivo.",
			"Revisa si hay un error de tipeo en el comando o la ruta.",
			"Confirma que el paquete o archivo esperado esté instalado en este host.",
		},
		models.ErrorKindTimeout: {
			"El comando no terminó dentro del tiempo asignado.",
			"Considera si esta operación necesita un tiempo de espera mayor.",
			"Revisa si el objetivo está bajo carga alta.",
		},
		models.ErrorKindResource: {
			"El objetivo puede estar sin espacio en disco, memoria o descriptores de archivo.",
			"Revisa disk_info/memory_info de este host antes de reintentar.",
		},
		models.ErrorKindConfiguration: {
			"El comando hace referencia a una configuración o archivo faltante o mal configurado.",
			"Revisa los archivos de configuración del servicio en el objetivo.",
		},
		models.ErrorKindUnknown: {
			"El fallo no coincidió con un patrón conocido.",
			"Revisa la salida anterior para encontrar la causa.",
			"Intenta ejecutar el comando manualmente para más detalle.",
		},
	},
}

// Render produces the full human-facing block for a failed execution
// result. Calling Render on a successful result still produces a block
// (callers are expected to check Success themselves before rendering).
func Render(result models.ExecutionResult, locale Locale) string {
	l, ok := labels[locale]
	if !ok {
		l = labels[LocaleEnglish]
		locale = LocaleEnglish
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", l.Failed, result.Command)
	fmt.Fprintf(&b, "%s: %s\n", l.Target, result.Target)
	fmt.Fprintf(&b, "%s: %d\n", l.ExitCode, result.ExitCode)

	if excerpt := truncateExcerpt(result.Stderr); excerpt != "" {
		fmt.Fprintf(&b, "%s:\n%s\n", l.Output, excerpt)
	}

	kind := models.ErrorKindUnknown
	if result.ErrorAnalysis != nil {
		kind = result.ErrorAnalysis.Kind
	}
	hints := suggestions[locale][kind]
	if len(hints) == 0 {
		hints = suggestions[locale][models.ErrorKindUnknown]
	}
	fmt.Fprintf(&b, "%s:\n", l.Suggestions)
	for _, hint := range hints {
		fmt.Fprintf(&b, "  - %s\n", hint)
	}

	return b.String()
}

func truncateExcerpt(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if len(stderr) <= maxStderrExcerpt {
		return stderr
	}
	return stderr[:maxStderrExcerpt] + "..."
}
