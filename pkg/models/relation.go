package models

import "time"

// RelationType enumerates the relation kinds the relation classifier and
// inventory store recognize.
type RelationType string

// Relation type values.
const (
	RelationClusterMember   RelationType = "cluster_member"
	RelationDatabaseReplica RelationType = "database_replica"
	RelationDependsOn       RelationType = "depends_on"
	RelationBackupOf        RelationType = "backup_of"
	RelationLoadBalanced    RelationType = "load_balanced"
	RelationRelatedService  RelationType = "related_service"
)

// Symmetric reports whether (a, b, t) and (b, a, t) denote the same
// relation for deduplication and existing-relation filtering purposes.
func (t RelationType) Symmetric() bool {
	return t == RelationClusterMember || t == RelationLoadBalanced
}

// HostRelation is a directed (for asymmetric types) or unordered-pair
// (for symmetric types) edge between two hosts.
type HostRelation struct {
	ID              string
	SourceHostID    string
	TargetHostID    string
	RelationType    RelationType
	Confidence      float64
	ValidatedByUser bool
	Metadata        map[string]any
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RelationSuggestion is a candidate relation produced by the classifier
// before it has been persisted, keyed by hostname rather than host ID
// since the classifier may run over hosts that were never persisted.
type RelationSuggestion struct {
	Source     string
	Target     string
	Type       RelationType
	Confidence float64
	Reason     string
}

// RelationSkip records a relation suggestion or batch entry that could not
// be resolved to known hosts.
type RelationSkip struct {
	Source string
	Target string
	Type   RelationType
	Reason string
}
