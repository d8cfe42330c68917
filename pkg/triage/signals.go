package triage

import (
	"regexp"
	"strings"

	"github.com/codeready-toolchain/athena/pkg/models"
)

// knownServices is checked against whitespace-split tokens (after
// stripping punctuation) to populate PriorityResult.ServiceDetected.
var knownServices = []string{
	"nginx", "apache", "mysql", "postgres", "postgresql", "mongodb", "redis",
	"rabbitmq", "kafka", "elasticsearch", "docker", "kubernetes", "api", "web",
}

// hostnamePattern matches a plausible hostname token: letters/digits/
// hyphens with at least one hyphen-separated segment, e.g. "web-01",
// "db-master-02.internal".
var hostnamePattern = regexp.MustCompile(`\b[a-z][a-z0-9]*(?:-[a-z0-9]+)+(?:\.[a-z0-9.]+)?\b`)

// impactPhrases raise confidence and, at or above 1.5, escalate
// priority by one level.
var impactPhrases = map[string]float64{
	"all servers":      1.5,
	"entire cluster":    1.5,
	"every host":        1.5,
	"all customers":     1.5,
	"multiple services": 1.3,
	"several hosts":      1.3,
	"widespread":         1.4,
}

// signals is the intermediate detection result classify() builds on,
// mirroring the original Python signal detector's detect_all() output.
type signals struct {
	keywordPriority   models.Priority
	keywordSignals    []string
	keywordConfidence float64
	intent            models.Intent
	environment       string
	envMinPriority    *models.Priority
	impactMultiplier  float64
	service           string
	host              string
}

// detectAll runs the keyword/intent/environment/impact/service/host
// detectors over query and packages them for classify() to combine.
func detectAll(query string) signals {
	lower := strings.ToLower(query)

	priority, prioritySignals, confidence := detectPriority(lower)
	intent := detectIntent(lower)
	env, envMin := detectEnvironment(lower)
	impact := detectImpact(lower)
	service := detectService(lower)
	host := detectHost(query)

	return signals{
		keywordPriority:   priority,
		keywordSignals:    prioritySignals,
		keywordConfidence: confidence,
		intent:            intent,
		environment:       env,
		envMinPriority:    envMin,
		impactMultiplier:  impact,
		service:           service,
		host:              host,
	}
}

func detectPriority(lower string) (models.Priority, []string, float64) {
	for _, tier := range []models.Priority{models.PriorityP0, models.PriorityP1, models.PriorityP2} {
		var matched []string
		for _, kw := range priorityKeywords[tier] {
			if strings.Contains(lower, kw) {
				matched = append(matched, string(tier)+":"+kw)
			}
		}
		if len(matched) > 0 {
			confidence := 0.6 + 0.1*float64(len(matched)-1)
			if confidence > 0.95 {
				confidence = 0.95
			}
			return tier, matched, confidence
		}
	}
	return models.PriorityP3, nil, 0.5
}

func detectIntent(lower string) models.Intent {
	for _, intent := range []models.Intent{models.IntentAnalysis, models.IntentAction, models.IntentQuery} {
		for _, kw := range intentKeywords[intent] {
			if strings.Contains(lower, kw) {
				return intent
			}
		}
	}
	return models.IntentAction
}

func detectEnvironment(lower string) (string, *models.Priority) {
	for substr, env := range environmentKeywords {
		if !strings.Contains(lower, substr) {
			continue
		}
		if env == "prod" {
			p1 := models.PriorityP1
			return env, &p1
		}
		return env, nil
	}
	return "", nil
}

func detectImpact(lower string) float64 {
	best := 1.0
	for phrase, multiplier := range impactPhrases {
		if strings.Contains(lower, phrase) && multiplier > best {
			best = multiplier
		}
	}
	return best
}

func detectService(lower string) string {
	for _, svc := range knownServices {
		if strings.Contains(lower, svc) {
			return svc
		}
	}
	return ""
}

func detectHost(query string) string {
	return hostnamePattern.FindString(strings.ToLower(query))
}
