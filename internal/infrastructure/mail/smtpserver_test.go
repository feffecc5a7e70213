package mail

import (
	"bufio"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// testRelay is a minimal implicit-TLS SMTP server that accepts AUTH PLAIN
// for one username/password pair and records what it receives.
type testRelay struct {
	addr      string
	clientTLS *tls.Config

	username string
	password string

	mu    sync.Mutex
	auths []string
	rcpts []string
	data  []string
}

func newTestRelay(t *testing.T, username, password string) *testRelay {
	t.Helper()

	// httptest ships a certificate valid for 127.0.0.1.
	certSrv := httptest.NewTLSServer(http.NotFoundHandler())
	t.Cleanup(certSrv.Close)

	pool := x509.NewCertPool()
	pool.AddCert(certSrv.Certificate())

	ln, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{
		Certificates: certSrv.TLS.Certificates,
		MinVersion:   tls.VersionTLS12,
	})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	r := &testRelay{
		addr:      ln.Addr().String(),
		clientTLS: &tls.Config{RootCAs: pool, ServerName: "127.0.0.1", MinVersion: tls.VersionTLS12},
		username:  username,
		password:  password,
	}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go r.serve(conn)
		}
	}()
	return r
}

func (r *testRelay) port(t *testing.T) int {
	t.Helper()
	_, p, err := net.SplitHostPort(r.addr)
	if err != nil {
		t.Fatalf("split addr: %v", err)
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}
	return port
}

func (r *testRelay) serve(conn net.Conn) {
	defer conn.Close()

	rd := bufio.NewReader(conn)
	reply := func(line string) { _, _ = conn.Write([]byte(line + "\r\n")) }

	reply("220 127.0.0.1 ESMTP test relay")
	for {
		line, err := rd.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])

		switch verb {
		case "EHLO":
			reply("250-127.0.0.1")
			reply("250-AUTH PLAIN LOGIN")
			reply("250 8BITMIME")
		case "HELO":
			reply("250 127.0.0.1")
		case "AUTH":
			fields := strings.Fields(line)
			if len(fields) < 3 || !strings.EqualFold(fields[1], "PLAIN") {
				reply("504 5.5.4 unsupported mechanism")
				continue
			}
			raw, _ := base64.StdEncoding.DecodeString(fields[2])
			parts := strings.Split(string(raw), "\x00")
			r.record(&r.auths, string(raw))
			if len(parts) == 3 && parts[1] == r.username && parts[2] == r.password {
				reply("235 2.7.0 Authentication successful")
			} else {
				reply("535 5.7.8 Username and Password not accepted")
			}
		case "RCPT":
			r.record(&r.rcpts, line)
			reply("250 2.1.5 OK")
		case "DATA":
			reply("354 Go ahead")
			var body strings.Builder
			for {
				l, err := rd.ReadString('\n')
				if err != nil {
					return
				}
				if strings.TrimRight(l, "\r\n") == "." {
					break
				}
				body.WriteString(l)
			}
			r.record(&r.data, body.String())
			reply("250 2.0.0 OK queued")
		case "QUIT":
			reply("221 2.0.0 closing connection")
			return
		default:
			// MAIL, RSET, NOOP
			reply("250 OK")
		}
	}
}

func (r *testRelay) record(dst *[]string, v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*dst = append(*dst, v)
}

func (r *testRelay) snapshot() (auths, rcpts, data []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.auths...), append([]string(nil), r.rcpts...), append([]string(nil), r.data...)
}
