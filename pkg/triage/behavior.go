package triage

import "github.com/codeready-toolchain/athena/pkg/models"

// behaviorProfiles is spec.md §4.6's behavior-profile table, implemented
// exactly: each priority's analysis depth, execution style, and
// confirmation policy.
var behaviorProfiles = map[models.Priority]models.BehaviorProfile{
	models.PriorityP0: {
		Priority:               models.PriorityP0,
		MaxAnalysisTimeSeconds: 5,
		UseChainOfThought:      false,
		ShowThinking:           false,
		ParallelExecution:      true,
		AutoConfirmReads:       true,
		AutoConfirmWrites:      false,
		MaxCommandsBeforePause: 10,
		ConfirmationMode:       models.ConfirmationCriticalOnly,
		ResponseFormat:         models.ResponseTerse,
		IncludeNextSteps:       true,
		IncludeExplanations:    false,
	},
	models.PriorityP1: {
		Priority:               models.PriorityP1,
		MaxAnalysisTimeSeconds: 30,
		UseChainOfThought:      true,
		ShowThinking:           false,
		ParallelExecution:      true,
		AutoConfirmReads:       true,
		AutoConfirmWrites:      false,
		MaxCommandsBeforePause: 8,
		ConfirmationMode:       models.ConfirmationCriticalOnly,
		ResponseFormat:         models.ResponseStandard,
		IncludeNextSteps:       true,
		IncludeExplanations:    false,
	},
	models.PriorityP2: {
		Priority:               models.PriorityP2,
		MaxAnalysisTimeSeconds: 120,
		UseChainOfThought:      true,
		ShowThinking:           true,
		ParallelExecution:      false,
		AutoConfirmReads:       true,
		AutoConfirmWrites:      false,
		MaxCommandsBeforePause: 5,
		ConfirmationMode:       models.ConfirmationWritesOnly,
		ResponseFormat:         models.ResponseDetailed,
		IncludeNextSteps:       true,
		IncludeExplanations:    true,
	},
	models.PriorityP3: {
		Priority:               models.PriorityP3,
		MaxAnalysisTimeSeconds: 300,
		UseChainOfThought:      true,
		ShowThinking:           true,
		ParallelExecution:      false,
		AutoConfirmReads:       false,
		AutoConfirmWrites:      false,
		MaxCommandsBeforePause: 3,
		ConfirmationMode:       models.ConfirmationAll,
		ResponseFormat:         models.ResponseDetailed,
		IncludeNextSteps:       false,
		IncludeExplanations:    true,
	},
}

// Behavior returns the execution profile for priority, defaulting to
// P3's careful-mode profile if priority is somehow unrecognized.
func Behavior(priority models.Priority) models.BehaviorProfile {
	if b, ok := behaviorProfiles[priority]; ok {
		return b
	}
	return behaviorProfiles[models.PriorityP3]
}
