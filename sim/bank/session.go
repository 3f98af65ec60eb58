package bank

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Session owns the banks of one simulation run. Independent sessions share nothing, so several
// runs may proceed in the same process.
type Session struct {
	source  SourceBank
	fission FissionBank
	progeny ProgenyCounter

	workPerRank int
	errMsg      string
}

// NewSession returns an empty session. workPerRank is the number of source particles owned
// locally, used to size the progeny counts on each InitFissionBank.
func NewSession(workPerRank int) *Session {
	return &Session{workPerRank: workPerRank}
}

// SetWorkPerRank updates the number of locally owned source particles.
func (s *Session) SetWorkPerRank(n int) {
	s.workPerRank = n
}

// WorkPerRank returns the number of locally owned source particles.
func (s *Session) WorkPerRank() int {
	return s.workPerRank
}

// InitSession allocates the fission bank, sizes the progeny counts and clears the source bank.
func (s *Session) InitSession(maxFissionCapacity int64, localSourceCount int) error {
	s.workPerRank = localSourceCount
	if err := s.InitFissionBank(maxFissionCapacity); err != nil {
		return err
	}
	s.source.Clear()
	return nil
}

// InitFissionBank prepares the fission bank and progeny counts for a generation.
// Called by the driver before transport begins.
func (s *Session) InitFissionBank(maxCapacity int64) error {
	if err := s.fission.Allocate(maxCapacity); err != nil {
		s.errMsg = err.Error()
		return fmt.Errorf("init fission bank: %w", err)
	}
	s.progeny.Resize(s.workPerRank)
	logrus.Debugf("fission bank allocated: capacity=%d, source particles=%d", maxCapacity, s.workPerRank)
	return nil
}

// SortFissionBank puts the fission bank in canonical order. Must run after the transport barrier
// and at most once per InitFissionBank; a second call returns ErrCountsConsumed.
func (s *Session) SortFissionBank() error {
	if s.progeny.consumed {
		s.errMsg = ErrCountsConsumed.Error()
		return ErrCountsConsumed
	}
	if s.progeny.Len() == 0 {
		return nil
	}
	s.progeny.consumed = true
	if err := SortSites(s.fission.Sites(), s.progeny.counts); err != nil {
		s.errMsg = err.Error()
		return err
	}
	logrus.Debugf("fission bank sorted: %d sites from %d source particles", s.fission.Len(), s.progeny.Len())
	return nil
}

// FreeMemoryBank releases both banks and the progeny counts. Safe to call repeatedly.
func (s *Session) FreeMemoryBank() {
	s.source.Release()
	s.fission.Release()
	s.progeny.Reset()
}

// TeardownSession ends the session. Idempotent.
func (s *Session) TeardownSession() {
	s.FreeMemoryBank()
	s.errMsg = ""
}

// SourceBank returns the live source bank contents.
// On an empty bank it returns a *BankError with ErrCodeAllocate and records the message.
func (s *Session) SourceBank() ([]Site, error) {
	if s.source.Len() == 0 {
		return nil, s.fail(newBankError(ErrCodeAllocate, ErrNotAllocated, "Source bank has not been allocated."))
	}
	return s.source.Sites(), nil
}

// FissionBank returns the live fission bank contents up to its current length.
// On an empty bank it returns a *BankError with ErrCodeAllocate and records the message.
func (s *Session) FissionBank() ([]Site, error) {
	if s.fission.Len() == 0 {
		return nil, s.fail(newBankError(ErrCodeAllocate, ErrNotAllocated, "Fission bank has not been allocated."))
	}
	return s.fission.Sites(), nil
}

// ErrMsg returns the message of the most recent failed call.
func (s *Session) ErrMsg() string {
	return s.errMsg
}

// Source gives the driver write access to the source bank between generations.
func (s *Session) Source() *SourceBank {
	return &s.source
}

// Fission is the append interface used by transport workers.
func (s *Session) Fission() *FissionBank {
	return &s.fission
}

// Progeny is the counter interface used by transport workers.
func (s *Session) Progeny() *ProgenyCounter {
	return &s.progeny
}

func (s *Session) fail(err *BankError) error {
	s.errMsg = err.Msg
	return err
}
