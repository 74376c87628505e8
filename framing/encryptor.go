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

package framing

import (
	"encoding/binary"
	"fmt"
)

// Encryptor is a frame encoder instance. It is essentially stateless
// between frames: the only state it carries is the nonce. Callers own
// the scratch buffer a frame is encoded into (see Encode/EncodeGoodbye),
// so an Encryptor itself never allocates after construction.
type Encryptor struct {
	key   Key
	nonce Nonce
}

// NewEncryptor creates an Encryptor that will encrypt under key, starting
// from nonce. The two peers of a session must agree on both.
func NewEncryptor(key Key, nonce Nonce) *Encryptor {
	return &Encryptor{key: key, nonce: nonce}
}

// Nonce returns the encryptor's current nonce. Exposed for tests that
// assert the nonce-discipline invariant; callers wiring up a connection
// have no reason to touch it.
func (e *Encryptor) Nonce() Nonce {
	return e.nonce
}

// Encode encrypts a prefix of p (up to MaxPacketSize bytes) as a single
// frame, writing the frame to dst and returning the number of plaintext
// bytes consumed and the number of bytes written to dst.
//
// dst must have length >= HeaderLength + min(len(p), MaxPacketSize).
// Offering a zero-length p consumes and emits nothing, and is not an
// error: the caller is expected to simply stop, not retry.  Offering more
// than MaxPacketSize bytes only consumes the first MaxPacketSize of them;
// the caller is expected to call Encode again with the remainder.
func (e *Encryptor) Encode(dst, p []byte) (consumed, frameLen int) {
	if len(p) == 0 {
		return 0, 0
	}

	n := len(p)
	if n > MaxPacketSize {
		n = MaxPacketSize
	}
	payload := p[:n]

	// Body is sealed under N+1 so that the header -- sealed under N --
	// can be authenticated (and thus its embedded length/tag trusted)
	// before any body bytes exist. Seal into a scratch region of dst
	// past where the header will land, then split the combined
	// tag||ciphertext: the tag gets spliced into the header's plaintext,
	// the ciphertext is the on-wire body.
	bodyNonce := e.nonce
	bodyNonce.Increment()

	var bodyScratch [TagLength + MaxPacketSize]byte
	combined := seal(bodyScratch[:0], payload, &e.key, &bodyNonce)
	tagB := combined[:TagLength]
	cipherB := combined[TagLength:]

	var headerPlain [headerPlainLength]byte
	binary.BigEndian.PutUint16(headerPlain[0:2], uint16(n))
	copy(headerPlain[2:], tagB)

	header := seal(dst[:0], headerPlain[:], &e.key, &e.nonce)
	if len(header) != HeaderLength {
		panic(fmt.Sprintf("BUG: sealed header length %d != %d", len(header), HeaderLength))
	}
	copy(dst[HeaderLength:], cipherB)

	e.nonce.Increment()
	e.nonce.Increment()

	return n, HeaderLength + len(cipherB)
}

// EncodeGoodbye writes the authenticated end-of-stream marker to dst and
// returns its length (always HeaderLength). dst must have length >=
// HeaderLength. No further frames may be encoded after this call.
func (e *Encryptor) EncodeGoodbye(dst []byte) int {
	var headerPlain [headerPlainLength]byte // all-zero plaintext
	header := seal(dst[:0], headerPlain[:], &e.key, &e.nonce)
	e.nonce.Increment()
	e.nonce.Increment()
	return len(header)
}
