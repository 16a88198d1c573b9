package efblink

import (
	"net"
	"sync"
	"time"
)

// ---------------------------------------------------------------------------
// mockTimeProvider is a deterministic time provider for testing.
// ---------------------------------------------------------------------------

// mockTimeProvider allows tests to control time deterministically.
type mockTimeProvider struct {
	mu          sync.Mutex
	currentTime time.Time
}

func newMockTimeProvider() *mockTimeProvider {
	return &mockTimeProvider{currentTime: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

// Now returns the mock time.
func (m *mockTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTime
}

// Advance moves the mock time forward by the given duration.
func (m *mockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}

// ---------------------------------------------------------------------------
// Addresses used across session tests.
// ---------------------------------------------------------------------------

var (
	hostAddr = &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 49100}
	tabletA  = &net.UDPAddr{IP: net.IPv4(192, 168, 1, 20), Port: 50000}
	tabletB  = &net.UDPAddr{IP: net.IPv4(192, 168, 1, 21), Port: 50001}
)
