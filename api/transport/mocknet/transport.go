package mocknet

import (
	"container/list"
	"context"
	"errors"
	"sync"

	"github.com/zkident/zkid-go/api/transport"
)

// Messenger is an in-memory implementation of transport.Messenger. Each
// role owns one Messenger; messages are delivered through per-sender
// queues guarded by a condition variable, so a receive blocks exactly the
// way the protocol expects (prover waits for the challenge, verifier
// waits for commitment and response).
type Messenger struct {
	roleIndex int
	peers     []*Messenger
	mutex     sync.Mutex
	cond      *sync.Cond
	queues    []list.List
	aborted   bool
}

var _ transport.Messenger = (*Messenger)(nil)

// NewNetwork wires up an in-process network of n roles and returns one
// Messenger per role. For an identification session n is 2: index 0 is
// conventionally the prover, index 1 the verifier.
func NewNetwork(n int) []*Messenger {
	ms := make([]*Messenger, n)
	for i := 0; i < n; i++ {
		m := &Messenger{roleIndex: i}
		m.cond = sync.NewCond(&m.mutex)
		ms[i] = m
	}
	for _, m := range ms {
		m.peers = ms
		m.queues = make([]list.List, n)
	}
	return ms
}

// MessageSend appends the buffer to the receiver's queue for this sender.
func (m *Messenger) MessageSend(_ context.Context, receiver int, buffer []byte) error {
	if receiver == m.roleIndex {
		return errors.New("mocknet: cannot send to self")
	}
	peer := m.peers[receiver]
	peer.mutex.Lock()
	peer.queues[m.roleIndex].PushBack(buffer)
	peer.mutex.Unlock()
	peer.cond.Broadcast()
	return nil
}

// MessageReceive blocks until a message from the sender arrives or the
// network is aborted.
func (m *Messenger) MessageReceive(_ context.Context, sender int) ([]byte, error) {
	if sender == m.roleIndex {
		return nil, errors.New("mocknet: cannot receive from self")
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	queue := &m.queues[sender]
	for queue.Len() == 0 {
		if m.aborted {
			return nil, errors.New("mocknet: session aborted")
		}
		m.cond.Wait()
	}
	front := queue.Front()
	queue.Remove(front)
	return front.Value.([]byte), nil
}

// MessagesReceive collects one message from each listed sender, in order.
func (m *Messenger) MessagesReceive(ctx context.Context, senders []int) ([][]byte, error) {
	msgs := make([][]byte, len(senders))
	for i, sender := range senders {
		msg, err := m.MessageReceive(ctx, sender)
		if err != nil {
			return nil, err
		}
		msgs[i] = msg
	}
	return msgs, nil
}

// abort wakes every blocked receiver on the network so a failed role does
// not leave its peer waiting forever.
func (m *Messenger) abort() {
	for _, peer := range m.peers {
		peer.mutex.Lock()
		peer.aborted = true
		peer.mutex.Unlock()
		peer.cond.Broadcast()
	}
}
