package natsgath

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/programme-lv/grader/internal/gatherer"
)

// Publisher is the part of *nats.Conn the gatherer needs.
type Publisher interface {
	Publish(subj string, data []byte) error
}

// New creates a NATS gatherer that streams run events to the given subject.
func New(pub Publisher, runUuid string, subject string) *natsGatherer {
	g := &natsGatherer{
		pub:     pub,
		subject: subject,
	}
	g.Stream = gatherer.Stream{RunUuid: runUuid, Send: g.send}
	return g
}

// Connect dials the NATS server at url.
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("grader"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	return nc, nil
}
