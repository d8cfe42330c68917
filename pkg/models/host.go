// Package models defines the value types persisted and exchanged across
// Athena's core subsystems (inventory, triage, conversation, execution).
package models

import "time"

// HostStatus is the last-observed reachability of a host.
type HostStatus string

// Host status values.
const (
	HostStatusOnline  HostStatus = "online"
	HostStatusOffline HostStatus = "offline"
	HostStatusUnknown HostStatus = "unknown"
)

// DefaultSSHPort is used whenever a host record omits an explicit port.
const DefaultSSHPort = 22

// Host is a single inventory entry. Hostname is the only identity; it is
// always stored lower-cased. Aliases form an ordered set, Groups an
// unordered one — both are stored as JSON arrays in the backing store.
type Host struct {
	ID        string
	Hostname  string
	IP        string
	Aliases   []string
	Environment string
	Groups    []string
	Role      string
	Service   string
	SSHPort   int
	Status    HostStatus
	SourceID  string
	Metadata  map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HostPatch carries optional field updates for add_host's upsert semantics.
// A nil pointer means "leave the current value unchanged" (or, on first
// insert, "use the field's documented default").
type HostPatch struct {
	Hostname    string
	IP          *string
	Aliases     *[]string
	Environment *string
	Groups      *[]string
	Role        *string
	Service     *string
	SSHPort     *int
	Status      *HostStatus
	SourceID    *string
	Metadata    map[string]any
	ChangedBy   string
}

// HostVersion is an append-only audit row for a single field-level mutation
// of a host. Version numbers are dense and monotonic starting at 1.
type HostVersion struct {
	ID        string
	HostID    string
	Version   int
	Changes   map[string]FieldDiff
	ChangedBy string
	CreatedAt time.Time
}

// FieldDiff captures a single field's before/after value in a HostVersion.
type FieldDiff struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// HostDeletion is the audit row written immediately before a host is
// physically removed. It is never foreign-key bound to hosts_v2 and
// survives the deletion it records.
type HostDeletion struct {
	ID              string
	HostID          string
	Hostname        string
	IP              string
	Aliases         []string
	Environment     string
	Groups          []string
	Role            string
	Service         string
	SSHPort         int
	Status          HostStatus
	SourceID        string
	Metadata        map[string]any
	DeletedBy       string
	DeletionReason  string
	DeletedAt       time.Time
}

// InventorySource describes where a batch of hosts originated.
type InventorySource struct {
	ID           string
	Name         string
	SourceType   string
	FilePath     string
	ImportMethod string
	HostCount    int
	Metadata     map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Stats summarizes the inventory store's current contents.
type Stats struct {
	TotalHosts        int
	ByEnvironment     map[string]int
	BySource          map[string]int
	TotalRelations    int
	ValidatedRelations int
	CachedScans       int
}
