package poller

import (
	"sync"
	"time"
)

// Poller calls a function on a fixed interval until stopped. The grid uses it
// to pick up approvals and entries changed by other sessions.
type Poller struct {
	mu       sync.RWMutex
	ticks    int
	running  bool
	interval time.Duration
	stopChan chan struct{}
}

func New(interval time.Duration) *Poller {
	if interval <= 0 {
		interval = time.Second
	}
	return &Poller{
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (p *Poller) Start(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}

	p.running = true
	p.stopChan = make(chan struct{})
	stop := p.stopChan

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				p.mu.Lock()
				if !p.running {
					p.mu.Unlock()
					return
				}
				p.ticks++
				p.mu.Unlock()
				fn()
			}
		}
	}()
}

func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	p.running = false
	close(p.stopChan)
	p.stopChan = make(chan struct{})
}

func (p *Poller) Interval() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.interval
}

func (p *Poller) Ticks() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ticks
}
