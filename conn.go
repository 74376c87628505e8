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
	"io"

	"github.com/yawningfox/box-stream-go/framing"
)

// Conn pairs a Reader and a Writer over a single duplex transport, with
// independent nonces for each direction -- the shape the teacher's
// Obfs4Conn takes over a net.Conn, minus the handshake (see the
// handshake package) and the link-layer padding/obfuscation that has no
// place in box-stream's fixed-shape wire format.
type Conn struct {
	*Reader
	*Writer

	transport io.ReadWriteCloser
}

// NewConn wraps transport, decrypting reads under (readKey, readNonce)
// and encrypting writes under (writeKey, writeNonce). The two directions
// are entirely independent: a Conn's read half never touches its write
// half's nonce or key, and vice versa.
func NewConn(transport io.ReadWriteCloser, writeKey framing.Key, writeNonce framing.Nonce, readKey framing.Key, readNonce framing.Nonce) *Conn {
	return &Conn{
		Reader:    NewReader(transport, readKey, readNonce),
		Writer:    NewWriter(transport, writeKey, writeNonce),
		transport: transport,
	}
}

// Close performs a graceful shutdown: it sends the goodbye frame (see
// Writer.Close) and then closes the underlying transport. Any buffered,
// not-yet-delivered plaintext on the read side is discarded -- a
// cancelled session cannot be resumed, since its nonce state is lost
// along with it.
func (c *Conn) Close() error {
	return c.Writer.Close()
}
