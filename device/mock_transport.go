package device

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/opencec/go-cec/cec"
)

// MockTransport is a testify mock of the Transport interface for tests
// that exercise the session layer without adapter hardware.
type MockTransport struct {
	mock.Mock
}

var _ Transport = (*MockTransport)(nil)

func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

func (m *MockTransport) Caps() (cec.Caps, error) {
	args := m.Called()
	return args.Get(0).(cec.Caps), args.Error(1)
}

func (m *MockTransport) Mode() (cec.Mode, error) {
	args := m.Called()
	return args.Get(0).(cec.Mode), args.Error(1)
}

func (m *MockTransport) SetMode(mode cec.Mode) error {
	args := m.Called(mode)
	return args.Error(0)
}

func (m *MockTransport) PhysAddr() (cec.PhysicalAddress, error) {
	args := m.Called()
	return args.Get(0).(cec.PhysicalAddress), args.Error(1)
}

func (m *MockTransport) SetPhysAddr(addr cec.PhysicalAddress) error {
	args := m.Called(addr)
	return args.Error(0)
}

func (m *MockTransport) LogAddrs() (cec.LogAddrs, error) {
	args := m.Called()
	return args.Get(0).(cec.LogAddrs), args.Error(1)
}

func (m *MockTransport) SetLogAddrs(req *cec.LogAddrsRequest) (cec.LogAddrs, error) {
	args := m.Called(req)
	return args.Get(0).(cec.LogAddrs), args.Error(1)
}

func (m *MockTransport) Transmit(msg *cec.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockTransport) Receive(timeout time.Duration) (*cec.Message, error) {
	args := m.Called(timeout)
	if msg := args.Get(0); msg != nil {
		return msg.(*cec.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransport) DequeueEvent() (cec.Event, error) {
	args := m.Called()
	return args.Get(0).(cec.Event), args.Error(1)
}

func (m *MockTransport) Close() error {
	args := m.Called()
	return args.Error(0)
}
