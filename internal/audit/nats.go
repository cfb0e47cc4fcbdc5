package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

const subjectPrefix = "admin.audit."

// Publisher emits entries on admin.audit.<resource> so other services can
// react to panel changes.
type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(url string) (*Publisher, error) {
	nc, err := nats.Connect(url, nats.Name("newtonbotics-admin"))
	if err != nil {
		return nil, fmt.Errorf("nats connect failed: %w", err)
	}
	return &Publisher{conn: nc}, nil
}

func (p *Publisher) Record(_ context.Context, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.conn.Publish(Subject(e.Resource), data)
}

func (p *Publisher) Close() {
	p.conn.Close()
}

func Subject(resource string) string {
	out := []byte(subjectPrefix)
	for _, r := range []byte(resource) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+'a'-'A')
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
