package testkit

import (
	"errors"
	"fmt"
	"sync"

	"github.com/stretchr/testify/mock"
)

// Mocker stands in for a side effect, such as charging a card, that
// scenarios switch between success and failure.
type Mocker struct {
	name string

	mu    sync.Mutex
	m     mock.Mock
	calls int
}

// NewMocker returns a mocker whose calls succeed until a step says otherwise.
func NewMocker(name string) *Mocker {
	mk := &Mocker{name: name}
	mk.m.On("Call", mock.Anything).Return(nil)
	return mk
}

func (mk *Mocker) Name() string { return mk.name }

// Call records arg and returns the error configured by the current step.
// Fakes installed in place of the real dependency call it.
func (mk *Mocker) Call(arg any) error {
	mk.mu.Lock()
	mk.calls++
	mk.mu.Unlock()
	return mk.m.Called(arg).Error(0)
}

// Calls reports how many times Call ran since the last reset.
func (mk *Mocker) Calls() int {
	mk.mu.Lock()
	defer mk.mu.Unlock()
	return mk.calls
}

// Mock exposes the testify mock for extra expectations.
func (mk *Mocker) Mock() *mock.Mock { return &mk.m }

func (mk *Mocker) prepare(step MockStep) {
	mk.mu.Lock()
	defer mk.mu.Unlock()
	mk.m.ExpectedCalls = nil
	var err error
	if step.Error != "" {
		err = errors.New(step.Error)
	}
	mk.m.On("Call", mock.Anything).Return(err)
}

func (mk *Mocker) reset() {
	mk.mu.Lock()
	defer mk.mu.Unlock()
	mk.calls = 0
	mk.m.Calls = nil
	mk.m.ExpectedCalls = nil
	mk.m.On("Call", mock.Anything).Return(nil)
}

var (
	mockersMu sync.RWMutex
	mockers   = map[string]*Mocker{}
)

// Register makes mk addressable from scenario mock steps by its name.
func Register(mk *Mocker) {
	mockersMu.Lock()
	defer mockersMu.Unlock()
	mockers[mk.name] = mk
}

func lookup(name string) (*Mocker, error) {
	mockersMu.RLock()
	defer mockersMu.RUnlock()
	mk, ok := mockers[name]
	if !ok {
		return nil, fmt.Errorf("testkit: no mocker registered for %q", name)
	}
	return mk, nil
}

func resetMockers() {
	mockersMu.RLock()
	defer mockersMu.RUnlock()
	for _, mk := range mockers {
		mk.reset()
	}
}
