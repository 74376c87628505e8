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

// Writer encrypts and frames plaintext for an underlying io.Writer. It is
// the write half of the box-stream protocol: a thin binding of
// framing.Encryptor to a real transport.
//
// A Writer owns one frame-sized scratch buffer for the frame currently
// being flushed, plus a cursor into it, so that a short underlying Write
// that reports no error is continued from where the transport left off.
// An error from the underlying Write is kept: Write, Flush and Close
// return it from then on, and the rest of the frame in flight is not
// sent.
type Writer struct {
	dst io.Writer
	enc *framing.Encryptor

	frame    [framing.HeaderLength + framing.MaxPacketSize]byte
	frameLen int
	flushed  int

	closed bool
	err    error
}

// NewWriter returns a Writer that encrypts data written to it under key,
// starting from nonce, and writes the resulting frames to dst.
func NewWriter(dst io.Writer, key framing.Key, nonce framing.Nonce) *Writer {
	return &Writer{dst: dst, enc: framing.NewEncryptor(key, nonce)}
}

// Write encrypts and frames a prefix of p and writes it to the
// underlying transport, returning the number of plaintext bytes
// consumed. As with framing.Encryptor.Encode, a write larger than
// framing.MaxPacketSize only consumes one frame's worth; the caller
// (e.g. io.Copy) is expected to call Write again with the remainder. A
// zero-length p consumes and emits nothing and is not an error.
func (w *Writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	if w.closed {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}

	// Finish flushing any frame still in flight before starting a new
	// one: frames must reach the transport in the order their nonces
	// were consumed.
	if err := w.Flush(); err != nil {
		return 0, err
	}

	consumed, frameLen := w.enc.Encode(w.frame[:], p)
	w.frameLen = frameLen
	w.flushed = 0

	if err := w.Flush(); err != nil {
		return 0, err
	}
	return consumed, nil
}

// Flush writes any remaining bytes of the current in-flight frame to the
// underlying transport. It is a no-op if there is nothing buffered.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	for w.flushed < w.frameLen {
		n, err := w.dst.Write(w.frame[w.flushed:w.frameLen])
		w.flushed += n
		if err != nil {
			w.err = err
			return err
		}
	}
	return nil
}

// Close finishes flushing any in-flight frame, emits the authenticated
// goodbye frame, flushes that too, and then closes the underlying
// transport if it implements io.Closer. After Close, no further writes
// are permitted. Close is idempotent.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	if err := w.Flush(); err != nil {
		return err
	}

	w.frameLen = w.enc.EncodeGoodbye(w.frame[:])
	w.flushed = 0
	if err := w.Flush(); err != nil {
		return err
	}

	w.closed = true
	if c, ok := w.dst.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
