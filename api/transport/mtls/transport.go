// Package mtls implements the Messenger interface over TCP with mutual
// TLS, so an identification session can run between machines with both
// roles authenticated by certificate.
package mtls

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zkident/zkid-go/api/transport"
)

// maxMessageSize bounds a single protocol message. Identification
// messages are a few hundred bytes; anything near this limit is garbage.
const maxMessageSize = 1 << 20

// dial retry schedule for the connecting side.
const (
	dialAttempts = 20
	dialBackoff  = 250 * time.Millisecond
)

// Messenger implements transport.Messenger using one mutually
// authenticated TLS connection per peer.
type Messenger struct {
	connections map[int]*tls.Conn
	nameToIndex map[string]int
	listener    net.Listener
	mu          sync.Mutex
	selfIndex   int
}

var _ transport.Messenger = (*Messenger)(nil)

// PartyConfig describes one party of the session.
type PartyConfig struct {
	// Address is the host:port the party listens on.
	Address string
	Cert    *x509.Certificate
}

// Config describes the whole session for one local party. Parties must
// include the local party; the map key is the party index.
type Config struct {
	Parties   map[int]PartyConfig
	CertPool  *x509.CertPool
	TLSCert   tls.Certificate
	SelfIndex int
}

// PartyNameFromCertificate derives a stable party name from a certificate
// by hashing its public key.
func PartyNameFromCertificate(cert *x509.Certificate) (string, error) {
	pubKeyBytes, err := x509.MarshalPKIXPublicKey(cert.PublicKey)
	if err != nil {
		return "", fmt.Errorf("marshaling public key: %v", err)
	}
	hash := sha256.Sum256(pubKeyBytes)
	return hex.EncodeToString(hash[:]), nil
}

// New establishes the full mesh of TLS connections for the local party.
// Connection direction is deterministic: a party dials every lower index
// and accepts from every higher index, so exactly one connection exists
// per pair.
func New(config Config) (*Messenger, error) {
	nameToIndex := make(map[string]int, len(config.Parties))
	for i, party := range config.Parties {
		name, err := PartyNameFromCertificate(party.Cert)
		if err != nil {
			return nil, fmt.Errorf("hashing certificate of party %d: %v", i, err)
		}
		nameToIndex[name] = i
	}

	m := &Messenger{
		connections: make(map[int]*tls.Conn),
		nameToIndex: nameToIndex,
		selfIndex:   config.SelfIndex,
	}

	tlsConfig := &tls.Config{
		MinVersion:   tls.VersionTLS13,
		Certificates: []tls.Certificate{config.TLSCert},
		RootCAs:      config.CertPool,
		ClientCAs:    config.CertPool,
		ClientAuth:   tls.RequireAndVerifyClientCert,
		VerifyPeerCertificate: func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
			if len(rawCerts) == 0 {
				return fmt.Errorf("no peer certificate provided")
			}
			peerCert, err := x509.ParseCertificate(rawCerts[0])
			if err != nil {
				return fmt.Errorf("parsing peer certificate: %v", err)
			}
			peerName, err := PartyNameFromCertificate(peerCert)
			if err != nil {
				return err
			}
			peerIndex, ok := nameToIndex[peerName]
			if !ok {
				return fmt.Errorf("peer certificate does not belong to a configured party")
			}
			if !peerCert.Equal(config.Parties[peerIndex].Cert) {
				return fmt.Errorf("peer certificate does not match the expected certificate for party %d", peerIndex)
			}
			return nil
		},
	}

	expectedIncoming := 0
	for i := range config.Parties {
		if i > config.SelfIndex {
			expectedIncoming++
		}
	}

	var accepts errgroup.Group
	if expectedIncoming > 0 {
		ln, err := tls.Listen("tcp", config.Parties[config.SelfIndex].Address, tlsConfig)
		if err != nil {
			return nil, fmt.Errorf("listening on %s: %v", config.Parties[config.SelfIndex].Address, err)
		}
		m.listener = ln
		for i := 0; i < expectedIncoming; i++ {
			accepts.Go(func() error { return m.acceptPeer(ln) })
		}
	}

	for i, party := range config.Parties {
		if i >= config.SelfIndex {
			continue
		}
		conn, err := dialWithRetry(party.Address, tlsConfig)
		if err != nil {
			m.Close()
			return nil, err
		}
		m.mu.Lock()
		m.connections[i] = conn
		m.mu.Unlock()
	}

	if err := accepts.Wait(); err != nil {
		m.Close()
		return nil, err
	}
	return m, nil
}

func (m *Messenger) acceptPeer(ln net.Listener) error {
	conn, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("accepting connection: %v", err)
	}
	c := conn.(*tls.Conn)

	// Complete the handshake eagerly so peer certificates are available.
	if err := c.Handshake(); err != nil {
		c.Close()
		return fmt.Errorf("TLS handshake: %v", err)
	}
	peerCerts := c.ConnectionState().PeerCertificates
	if len(peerCerts) == 0 {
		c.Close()
		return fmt.Errorf("no peer certificates after handshake")
	}
	peerName, err := PartyNameFromCertificate(peerCerts[0])
	if err != nil {
		c.Close()
		return err
	}
	peerIndex, ok := m.nameToIndex[peerName]
	if !ok {
		c.Close()
		return fmt.Errorf("unknown peer connected")
	}

	m.mu.Lock()
	m.connections[peerIndex] = c
	m.mu.Unlock()
	return nil
}

func dialWithRetry(address string, tlsConfig *tls.Config) (*tls.Conn, error) {
	var lastErr error
	for attempt := 0; attempt < dialAttempts; attempt++ {
		conn, err := tls.Dial("tcp", address, tlsConfig)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		time.Sleep(dialBackoff)
	}
	return nil, fmt.Errorf("connecting to %s: %v", address, lastErr)
}

func (m *Messenger) conn(index int) (*tls.Conn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conn, ok := m.connections[index]
	if !ok {
		return nil, fmt.Errorf("no connection for party %d", index)
	}
	return conn, nil
}

// MessageSend writes a length-prefixed frame to the receiver.
func (m *Messenger) MessageSend(_ context.Context, receiver int, buffer []byte) error {
	conn, err := m.conn(receiver)
	if err != nil {
		return err
	}

	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(buffer)))
	if _, err := conn.Write(length[:]); err != nil {
		return fmt.Errorf("writing message length: %v", err)
	}
	if _, err := conn.Write(buffer); err != nil {
		return fmt.Errorf("writing message data: %v", err)
	}
	return nil
}

// MessageReceive reads one length-prefixed frame from the sender.
func (m *Messenger) MessageReceive(_ context.Context, sender int) ([]byte, error) {
	conn, err := m.conn(sender)
	if err != nil {
		return nil, err
	}

	var length [4]byte
	if _, err := io.ReadFull(conn, length[:]); err != nil {
		return nil, fmt.Errorf("reading message length: %v", err)
	}
	messageLength := binary.BigEndian.Uint32(length[:])
	if messageLength > maxMessageSize {
		return nil, fmt.Errorf("message too large: %d bytes", messageLength)
	}
	buffer := make([]byte, messageLength)
	if _, err := io.ReadFull(conn, buffer); err != nil {
		return nil, fmt.Errorf("reading message data: %v", err)
	}
	return buffer, nil
}

// MessagesReceive receives one message from each sender concurrently.
func (m *Messenger) MessagesReceive(ctx context.Context, senders []int) ([][]byte, error) {
	msgs := make([][]byte, len(senders))
	var g errgroup.Group
	for i, sender := range senders {
		i, sender := i, sender
		g.Go(func() error {
			msg, err := m.MessageReceive(ctx, sender)
			if err != nil {
				return fmt.Errorf("receiving message from %d: %v", sender, err)
			}
			msgs[i] = msg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Close tears down all connections and the listener.
func (m *Messenger) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, conn := range m.connections {
		if conn != nil {
			conn.Close()
		}
	}
	m.connections = make(map[int]*tls.Conn)

	if m.listener != nil {
		err := m.listener.Close()
		m.listener = nil
		return err
	}
	return nil
}
