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
	"bytes"
	"testing"
)

func TestNonceIncrement(t *testing.T) {
	var n Nonce
	n.Increment()

	want := Nonce{}
	want[NonceLength-1] = 1
	if n != want {
		t.Fatalf("Increment() from zero = %x, want %x", n, want)
	}
}

func TestNonceIncrementCarries(t *testing.T) {
	var n Nonce
	n[NonceLength-1] = 0xff
	n.Increment()

	want := Nonce{}
	want[NonceLength-2] = 1
	if n != want {
		t.Fatalf("Increment() with trailing 0xff = %x, want %x", n, want)
	}
}

func TestNonceIncrementWraps(t *testing.T) {
	var n Nonce
	for i := range n {
		n[i] = 0xff
	}
	n.Increment()

	var want Nonce // all zero
	if n != want {
		t.Fatalf("Increment() at max = %x, want %x", n, want)
	}
}

func TestNonceIncrementIsBigEndian(t *testing.T) {
	// Incrementing should behave like a big-endian counter: carries
	// propagate from the last byte towards the first, never the reverse.
	var n Nonce
	n[0] = 0xff
	n.Increment()

	want := Nonce{}
	want[0] = 0xff
	want[NonceLength-1] = 1
	if n != want {
		t.Fatalf("Increment() = %x, want %x (byte 0 must not carry)", n, want)
	}
}

func TestSealOpenRoundTrip(t *testing.T) {
	var key Key
	var nonce Nonce
	copy(key[:], bytes.Repeat([]byte{0x42}, KeyLength))
	copy(nonce[:], bytes.Repeat([]byte{0x07}, NonceLength))

	plaintext := []byte("the quick brown fox")
	box := seal(nil, plaintext, &key, &nonce)
	if len(box) != TagLength+len(plaintext) {
		t.Fatalf("sealed length = %d, want %d", len(box), TagLength+len(plaintext))
	}

	got, ok := open(nil, box, &key, &nonce)
	if !ok {
		t.Fatalf("open() failed to authenticate a freshly sealed box")
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("open() = %q, want %q", got, plaintext)
	}
}

func TestOpenRejectsTamperedBox(t *testing.T) {
	var key Key
	var nonce Nonce
	box := seal(nil, []byte("hello"), &key, &nonce)
	box[0] ^= 0x01

	if _, ok := open(nil, box, &key, &nonce); ok {
		t.Fatalf("open() authenticated a tampered box")
	}
}

func TestOpenRejectsWrongNonce(t *testing.T) {
	var key Key
	var nonce Nonce
	box := seal(nil, []byte("hello"), &key, &nonce)

	nonce.Increment()
	if _, ok := open(nil, box, &key, &nonce); ok {
		t.Fatalf("open() authenticated a box under the wrong nonce")
	}
}

func TestAllZero(t *testing.T) {
	if !allZero(make([]byte, 18)) {
		t.Fatalf("allZero() false for an all-zero slice")
	}
	if allZero(nil) != true {
		t.Fatalf("allZero() false for an empty slice")
	}
	one := make([]byte, 18)
	one[17] = 1
	if allZero(one) {
		t.Fatalf("allZero() true for a slice with a set byte")
	}
}
