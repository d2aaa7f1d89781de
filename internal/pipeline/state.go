package pipeline

import "time"

// State is a node of the pipeline state machine.
type State string

const (
	StateStart              State = "start"
	StateValidating         State = "validating"
	StateRejected           State = "rejected"
	StateValidated          State = "validated"
	StateAnalyzing          State = "analyzing"
	StateAnalyzed           State = "analyzed"
	StateExtractingEntities State = "extracting_entities"
	StateExtractionFailed   State = "extraction_failed"
	StateExtracted          State = "extracted"
	StateSearching          State = "searching"
	StateSynthesizing       State = "synthesizing"
	StateDone               State = "done"
	StateFailed             State = "failed"
)

// Step records one state entered during a run.
type Step struct {
	State   State         `json:"state"`
	Elapsed time.Duration `json:"elapsed"`
}
