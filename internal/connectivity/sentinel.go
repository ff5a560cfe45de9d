// Package connectivity tracks whether the DTE gateway was reachable on
// the most recent attempt. The console polls it to decide between the
// online and offline banners.
package connectivity

import (
	"sync"
	"time"

	"go.uber.org/fx"

	"github.com/abogados-sv/facturacion/internal/clock"
)

type Status struct {
	Online      bool      `json:"online"`
	LastChecked time.Time `json:"last_checked"`
	Detail      string    `json:"detail,omitempty"`
}

type Sentinel struct {
	mu      sync.Mutex
	clock   clock.Clock
	checked bool
	online  bool
	at      time.Time
	detail  string
}

func NewSentinel(clk clock.Clock) *Sentinel {
	return &Sentinel{clock: clk}
}

func (s *Sentinel) ReportSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checked = true
	s.online = true
	s.at = s.clock.Now()
	s.detail = ""
}

func (s *Sentinel) ReportFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checked = true
	s.online = false
	s.at = s.clock.Now()
	if err != nil {
		s.detail = err.Error()
	}
}

// Online is optimistic before the first attempt so a fresh boot does not
// suppress the initial send.
func (s *Sentinel) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.checked || s.online
}

func (s *Sentinel) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Online:      !s.checked || s.online,
		LastChecked: s.at,
		Detail:      s.detail,
	}
}

var Module = fx.Module("connectivity",
	fx.Provide(NewSentinel),
)
