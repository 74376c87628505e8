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

// Reader decrypts a framed cipherstream read from an underlying
// io.Reader into plaintext. It is the read half of the box-stream
// protocol: a thin binding of framing.Decryptor to a real transport.
type Reader struct {
	src io.Reader
	dec *framing.Decryptor
}

// NewReader returns a Reader that decrypts data read from src under key,
// starting from nonce. key and nonce must match the values the peer's
// Writer was constructed with.
func NewReader(src io.Reader, key framing.Key, nonce framing.Nonce) *Reader {
	return &Reader{src: src, dec: framing.NewDecryptor(key, nonce)}
}

// Read implements io.Reader. A zero-length p returns (0, nil)
// immediately. An authenticated end of stream (a goodbye frame was
// read) is reported as (0, io.EOF), matching Go's usual io.Reader
// convention for clean end of stream. The framing errors (ErrInvalidLength,
// ErrUnauthenticatedHeader, ErrUnauthenticatedPacket,
// ErrUnauthenticatedEOF) are fatal and sticky: every subsequent Read
// returns the same error. Other errors from src are returned unchanged
// and not kept.
func (r *Reader) Read(p []byte) (int, error) {
	return r.dec.ReadFrom(r.src, p)
}
