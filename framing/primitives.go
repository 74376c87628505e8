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
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// KeyLength is the length of a box-stream secret key.
	KeyLength = 32

	// NonceLength is the length of a box-stream nonce.
	NonceLength = 24

	// TagLength is the length of a detached Poly1305 authentication tag.
	TagLength = secretbox.Overhead

	// MaxPacketSize is the largest plaintext packet a single frame can
	// carry (spec: MAX_PACKET_SIZE).
	MaxPacketSize = 4096

	// headerPlainLength is the length of the header's plaintext: a
	// 2-byte big endian body length followed by the body's tag.
	headerPlainLength = 2 + TagLength

	// HeaderLength is the on-wire length of a frame's header.
	HeaderLength = TagLength + headerPlainLength
)

// Key is a box-stream secret key, shared between the two peers of a
// session and constant for its lifetime.
type Key [KeyLength]byte

// Nonce is a box-stream nonce: a 24-byte big-endian counter. Each
// Encryptor/Decryptor owns exactly one Nonce and mutates it in place;
// the two peers of a session must start from the same initial Nonce for
// a given direction.
type Nonce [NonceLength]byte

// Increment treats the nonce as a big-endian 192-bit unsigned counter
// and adds one to it, carrying from the last byte towards the first.
// Overflow wraps silently; no realistic session sends 2^192 frames.
func (n *Nonce) Increment() {
	for i := len(n) - 1; i >= 0; i-- {
		n[i]++
		if n[i] != 0 {
			return
		}
	}
}

// seal encrypts and authenticates plaintext under key/nonce, appending
// the result (16-byte tag followed by ciphertext of equal length to
// plaintext) to dst and returning the extended slice. This "combined"
// layout is what golang.org/x/crypto/nacl/secretbox produces; callers
// that need the detached wire format (tag transmitted separately from
// its ciphertext, as box-stream's header does for the body) split or
// recombine the two halves locally — see encryptor.go/decryptor.go.
func seal(dst, plaintext []byte, key *Key, nonce *Nonce) []byte {
	return secretbox.Seal(dst, plaintext, (*[NonceLength]byte)(nonce), (*[KeyLength]byte)(key))
}

// open authenticates and decrypts a combined (tag || ciphertext) box
// under key/nonce, appending the plaintext to dst. ok is false if
// authentication failed, in which case the returned slice must not be
// used.
func open(dst, box []byte, key *Key, nonce *Nonce) (plaintext []byte, ok bool) {
	return secretbox.Open(dst, box, (*[NonceLength]byte)(nonce), (*[KeyLength]byte)(key))
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
