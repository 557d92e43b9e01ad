package model

import "fmt"

// ProfileStatus is the free-text state label stored for a profile and shown in
// the status column of the profile table.
type ProfileStatus string

const (
	// StatusUpdated means the last profile sweep completed
	StatusUpdated ProfileStatus = "Updated"

	// StatusBeingUpdated means the profile is the in-flight job
	StatusBeingUpdated ProfileStatus = "Being Updated..."

	// StatusDownloaded means a single item of the profile was downloaded ad hoc
	StatusDownloaded ProfileStatus = "Downloaded"

	// StatusUpdateFailed means the profile listing itself could not be fetched
	StatusUpdateFailed ProfileStatus = "Update failed"

	// StatusStalled means the in-flight job exceeded the stall timeout
	StatusStalled ProfileStatus = "Stalled"
)

// Trigger button labels
const (
	UpdateButtonLabel  = "Update"
	queueLabelTemplate = "In queue (%d)"
)

// String returns the string representation of ProfileStatus
func (ps ProfileStatus) String() string {
	return string(ps)
}

// IsTerminal returns true if the status ends a queued job (the trigger can be re-enabled)
func (ps ProfileStatus) IsTerminal() bool {
	return ps == StatusUpdated || ps == StatusUpdateFailed || ps == StatusStalled || ps == StatusDownloaded
}

// IsFailure returns true for statuses that report an unsuccessful update
func (ps ProfileStatus) IsFailure() bool {
	return ps == StatusUpdateFailed || ps == StatusStalled
}

// QueueLabel returns the trigger label shown while a profile waits in the queue.
func QueueLabel(position int) string {
	return fmt.Sprintf(queueLabelTemplate, position)
}
