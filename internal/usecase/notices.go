package usecase

import (
	"sync"

	"github.com/eliteGoblin/devclean/internal/domain"
)

// NoticeCollector is a domain.NoticeSink that keeps every notice in arrival order.
type NoticeCollector struct {
	mu      sync.Mutex
	notices []domain.Notice
}

// Notice records n.
func (c *NoticeCollector) Notice(n domain.Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, n)
}

// Notices returns a copy of everything recorded so far.
func (c *NoticeCollector) Notices() []domain.Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]domain.Notice, len(c.notices))
	copy(result, c.notices)
	return result
}

type discardSink struct{}

func (discardSink) Notice(domain.Notice) {}

func sinkOrDiscard(sink domain.NoticeSink) domain.NoticeSink {
	if sink == nil {
		return discardSink{}
	}
	return sink
}
