package executor

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/crypto/ssh"
)

// sshPort is used when a target carries no explicit port suffix.
const sshPort = 22

// runSSH dials, authenticates, runs one command, and tears the
// connection down — spec.md §4.7 requires no shared mutable SSH session,
// so every call here owns its own *ssh.Client end to end rather than
// pooling or reusing one across commands.
func runSSH(ctx context.Context, target, command string, timeout time.Duration, creds Credentials, hostKeyCallback ssh.HostKeyCallback) (exitCode int, stdout, stderr string, timedOut bool, err error) {
	if hostKeyCallback == nil {
		hostKeyCallback = ssh.InsecureIgnoreHostKey()
	}

	config := &ssh.ClientConfig{
		User:            creds.Username,
		Auth:            authMethods(creds),
		HostKeyCallback: hostKeyCallback,
		Timeout:         timeout,
	}

	addr := target
	if _, _, splitErr := net.SplitHostPort(target); splitErr != nil {
		addr = fmt.Sprintf("%s:%d", target, sshPort)
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, dialErr := dialer.DialContext(ctx, "tcp", addr)
	if dialErr != nil {
		return -1, "", "", false, fmt.Errorf("dial %s: %w", addr, dialErr)
	}

	sshConn, chans, reqs, handshakeErr := ssh.NewClientConn(conn, addr, config)
	if handshakeErr != nil {
		conn.Close()
		return -1, "", "", false, fmt.Errorf("ssh handshake with %s: %w", addr, handshakeErr)
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	session, sessErr := client.NewSession()
	if sessErr != nil {
		return -1, "", "", false, fmt.Errorf("ssh session on %s: %w", addr, sessErr)
	}
	defer session.Close()

	var outBuf, errBuf bytes.Buffer
	session.Stdout = &outBuf
	session.Stderr = &errBuf

	done := make(chan error, 1)
	go func() { done <- session.Run(command) }()

	select {
	case <-ctx.Done():
		session.Signal(ssh.SIGKILL)
		return -1, outBuf.String(), errBuf.String(), true, nil
	case runErr := <-done:
		stdout, stderr = outBuf.String(), errBuf.String()
		if runErr == nil {
			return 0, stdout, stderr, false, nil
		}
		if exitErr, ok := runErr.(*ssh.ExitError); ok {
			return exitErr.ExitStatus(), stdout, stderr, false, nil
		}
		return -1, stdout, stderr, false, fmt.Errorf("ssh run on %s: %w", addr, runErr)
	}
}

func authMethods(creds Credentials) []ssh.AuthMethod {
	var methods []ssh.AuthMethod

	if len(creds.PrivateKey) > 0 {
		var signer ssh.Signer
		var err error
		if creds.Passphrase != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(creds.PrivateKey, []byte(creds.Passphrase))
		} else {
			signer, err = ssh.ParsePrivateKey(creds.PrivateKey)
		}
		if err == nil {
			methods = append(methods, ssh.PublicKeys(signer))
		}
	}

	if creds.Password != "" {
		methods = append(methods, ssh.Password(creds.Password))
	}

	return methods
}
