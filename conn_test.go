/*
 * Copyright (c) 2014, Yawning Angel <yawning at torproject dot org>
 * All rights reserved.
 *
 * Redistribution and use in source and binary forms, with or without
 * modification, are permitted provided that the following conditions are met:
 *
 *  * Redistributions of source code must retain the above copyright notice,
 *    this list of conditions and the following disclaimer.
 *
 *  * Redistributions in binary form must reproduce the above copyright notice,
 *    this list of conditions and the following disclaimer in the documentation
 *    and/or other materials provided with the distribution.
 *
 * THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
 * AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
 * IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
 * ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
 * LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
 * CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
 * SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
 * INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
 * CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
 * ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
 * POSSIBILITY OF SUCH DAMAGE.
 */

package boxstream

import (
	"bytes"
	"io"
	"net"
	"testing"

	"github.com/yawningfox/box-stream-go/framing"
)

// TestConnDuplexRoundTrip wires up a client and server Conn over an
// in-memory net.Pipe, each direction under its own key/nonce pair (as
// client-write/server-read and server-write/client-read must be, since
// they are two independent box-stream sessions sharing one transport),
// and checks that a message sent in each direction survives intact.
func TestConnDuplexRoundTrip(t *testing.T) {
	clientTransport, serverTransport := net.Pipe()

	var c2sKey, s2cKey framing.Key
	for i := range c2sKey {
		c2sKey[i] = 0x11
	}
	for i := range s2cKey {
		s2cKey[i] = 0x22
	}
	var nonce framing.Nonce

	client := NewConn(clientTransport, c2sKey, nonce, s2cKey, nonce)
	server := NewConn(serverTransport, s2cKey, nonce, c2sKey, nonce)

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 32)
		n, err := server.Read(buf)
		if err != nil {
			t.Errorf("server.Read = %v", err)
			return
		}
		if string(buf[:n]) != "ping" {
			t.Errorf("server got %q, want %q", buf[:n], "ping")
		}
		if _, err := server.Write([]byte("pong")); err != nil {
			t.Errorf("server.Write = %v", err)
		}
		if err := server.Close(); err != nil {
			t.Errorf("server.Close = %v", err)
		}
	}()

	if _, err := client.Write([]byte("ping")); err != nil {
		t.Fatalf("client.Write = %v", err)
	}

	buf := make([]byte, 32)
	n, err := client.Read(buf)
	if err != nil {
		t.Fatalf("client.Read = %v", err)
	}
	if string(buf[:n]) != "pong" {
		t.Fatalf("client got %q, want %q", buf[:n], "pong")
	}

	<-done

	if err := client.Close(); err != nil {
		t.Fatalf("client.Close = %v", err)
	}
}

func TestConnReadAndWriteHavesIndependentNonces(t *testing.T) {
	var readKey, writeKey framing.Key
	for i := range readKey {
		readKey[i] = 0xaa
	}
	for i := range writeKey {
		writeKey[i] = 0xbb
	}
	var writeNonce framing.Nonce
	writeNonce[framing.NonceLength-1] = 0x10
	var readNonce framing.Nonce
	readNonce[framing.NonceLength-1] = 0x20

	var transport bytes.Buffer
	conn := NewConn(&nopCloser{&transport}, writeKey, writeNonce, readKey, readNonce)

	if _, err := conn.Write([]byte("x")); err != nil {
		t.Fatalf("Write = %v", err)
	}

	if conn.Writer == nil {
		t.Fatalf("Conn.Writer is nil")
	}

	wantWriteNonce := writeNonce
	wantWriteNonce[framing.NonceLength-1] = 0x12
	if got := conn.Writer.enc.Nonce(); got != wantWriteNonce {
		t.Fatalf("write nonce = %x, want %x", got, wantWriteNonce)
	}
	if got := conn.Reader.dec.Nonce(); got != readNonce {
		t.Fatalf("read nonce = %x, want %x (a Write must not advance it)", got, readNonce)
	}
}

// nopCloser adapts a bytes.Buffer (io.ReadWriter) into an
// io.ReadWriteCloser for tests that only exercise one direction.
type nopCloser struct {
	*bytes.Buffer
}

func (nopCloser) Close() error { return nil }

var _ io.ReadWriteCloser = (*nopCloser)(nil)
