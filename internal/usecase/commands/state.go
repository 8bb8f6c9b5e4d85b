package commands

import "fmt"

type AdmissionState string

const (
	StateValidating    AdmissionState = "validating"
	StateRejected      AdmissionState = "rejected"
	StateReserving     AdmissionState = "reserving"
	StateReserved      AdmissionState = "reserved"
	StateConflicted    AdmissionState = "conflicted"
	StateStorageFailed AdmissionState = "storage_failed"
)

var admissionTransitions = map[AdmissionState][]AdmissionState{
	StateValidating: {StateRejected, StateReserving},
	// Rejected from Reserving covers an idempotency key reused with another payload.
	StateReserving: {StateReserved, StateConflicted, StateStorageFailed, StateRejected},
}

func (s AdmissionState) CanTransitionTo(next AdmissionState) bool {
	for _, allowed := range admissionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s AdmissionState) IsTerminal() bool {
	return len(admissionTransitions[s]) == 0
}

type admissionMachine struct {
	state AdmissionState
}

func newAdmissionMachine() *admissionMachine {
	return &admissionMachine{state: StateValidating}
}

func (m *admissionMachine) to(next AdmissionState) {
	if !m.state.CanTransitionTo(next) {
		panic(fmt.Sprintf("invalid admission transition %s -> %s", m.state, next))
	}
	m.state = next
}
