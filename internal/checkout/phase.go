package checkout

// Phase adalah state satu attempt checkout. Disimpan sebagai satu nilai
// terstruktur, bukan kumpulan boolean, supaya "confirm setelah cancel" dan
// "double confirm" mustahil secara struktural.
type Phase string

const (
	PhaseIdle        Phase = "IDLE"
	PhaseAwaiting    Phase = "AWAITING_CONFIRMATION"
	PhaseConfirming  Phase = "CONFIRMING"
	PhaseSucceeded   Phase = "SUCCEEDED"
	PhasePartialFail Phase = "PARTIALLY_FAILED"
	PhaseCancelled   Phase = "CANCELLED"
)

var validNext = map[Phase]map[Phase]bool{
	PhaseIdle:        {PhaseAwaiting: true},
	PhaseAwaiting:    {PhaseConfirming: true, PhaseCancelled: true},
	PhaseConfirming:  {PhaseSucceeded: true, PhasePartialFail: true},
	PhaseSucceeded:   {},
	PhasePartialFail: {},
	PhaseCancelled:   {},
}

func CanTransition(from, to Phase) bool {
	return validNext[from][to]
}

func (p Phase) IsTerminal() bool {
	return p == PhaseSucceeded || p == PhasePartialFail || p == PhaseCancelled
}
