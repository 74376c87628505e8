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
	"testing"
)

func TestEncodeFrameLength(t *testing.T) {
	// S2: a 5-byte packet produces a 34+5 byte frame.
	var key Key
	var nonce Nonce
	enc := NewEncryptor(key, nonce)

	dst := make([]byte, HeaderLength+5)
	consumed, frameLen := enc.Encode(dst, []byte("hello"))
	if consumed != 5 {
		t.Fatalf("consumed = %d, want 5", consumed)
	}
	if frameLen != HeaderLength+5 {
		t.Fatalf("frameLen = %d, want %d", frameLen, HeaderLength+5)
	}
}

func TestEncodeBoundaryPacket(t *testing.T) {
	// S3: a MaxPacketSize packet produces one HeaderLength+MaxPacketSize frame.
	var key Key
	var nonce Nonce
	enc := NewEncryptor(key, nonce)

	plaintext := make([]byte, MaxPacketSize)
	for i := range plaintext {
		plaintext[i] = 0x41
	}

	dst := make([]byte, HeaderLength+MaxPacketSize)
	consumed, frameLen := enc.Encode(dst, plaintext)
	if consumed != MaxPacketSize {
		t.Fatalf("consumed = %d, want %d", consumed, MaxPacketSize)
	}
	if frameLen != HeaderLength+MaxPacketSize {
		t.Fatalf("frameLen = %d, want %d", frameLen, HeaderLength+MaxPacketSize)
	}
}

func TestEncodeChunksOversizedWrites(t *testing.T) {
	// S4: offering 5000 bytes consumes exactly MaxPacketSize, and a
	// second call completes the remaining 904.
	var key Key
	var nonce Nonce
	enc := NewEncryptor(key, nonce)

	plaintext := make([]byte, 5000)
	dst := make([]byte, HeaderLength+MaxPacketSize)

	consumed, _ := enc.Encode(dst, plaintext)
	if consumed != MaxPacketSize {
		t.Fatalf("first Encode consumed = %d, want %d", consumed, MaxPacketSize)
	}

	remaining := plaintext[consumed:]
	if len(remaining) != 904 {
		t.Fatalf("remaining length = %d, want 904", len(remaining))
	}

	consumed, frameLen := enc.Encode(dst, remaining)
	if consumed != 904 {
		t.Fatalf("second Encode consumed = %d, want 904", consumed)
	}
	if frameLen != HeaderLength+904 {
		t.Fatalf("second frameLen = %d, want %d", frameLen, HeaderLength+904)
	}
}

func TestEncodeZeroLengthWriteIsANoOp(t *testing.T) {
	var key Key
	var nonce Nonce
	enc := NewEncryptor(key, nonce)

	dst := make([]byte, HeaderLength)
	consumed, frameLen := enc.Encode(dst, nil)
	if consumed != 0 || frameLen != 0 {
		t.Fatalf("Encode(nil) = (%d, %d), want (0, 0)", consumed, frameLen)
	}
	if enc.Nonce() != nonce {
		t.Fatalf("a zero-length Encode must not touch the nonce")
	}
}

func TestEncodeGoodbyeLength(t *testing.T) {
	// S1: an empty stream is just the goodbye frame, HeaderLength bytes.
	var key Key
	var nonce Nonce
	enc := NewEncryptor(key, nonce)

	dst := make([]byte, HeaderLength)
	n := enc.EncodeGoodbye(dst)
	if n != HeaderLength {
		t.Fatalf("EncodeGoodbye length = %d, want %d", n, HeaderLength)
	}
}

func TestNonceAdvancesByTwoPerFrame(t *testing.T) {
	// Invariant 3: after K data frames plus a goodbye, the nonce equals
	// N0 + 2(K+1).
	var key Key
	var nonce Nonce
	enc := NewEncryptor(key, nonce)

	const frames = 5
	dst := make([]byte, HeaderLength+MaxPacketSize)
	for i := 0; i < frames; i++ {
		enc.Encode(dst, []byte("x"))
	}
	enc.EncodeGoodbye(dst)

	want := Nonce{}
	want[NonceLength-1] = byte(2 * (frames + 1))
	if enc.Nonce() != want {
		t.Fatalf("nonce after %d frames + goodbye = %x, want %x", frames, enc.Nonce(), want)
	}
}
