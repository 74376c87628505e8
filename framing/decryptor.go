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
	"io"
)

// decoderState is the Decryptor's state, represented as a sum type: each
// variant carries only the data meaningful in that state (a tagged
// union, not one struct with fields that are nullable/unused depending
// on which state is "really" active).
type decoderState interface {
	isDecoderState()
}

// readingHeader accumulates HeaderLength bytes into Decryptor.headerBuf.
type readingHeader struct {
	n int // bytes accumulated so far
}

// readingBody accumulates length bytes into Decryptor.bodyCipher[TagLength:],
// to be authenticated against tag once full.
type readingBody struct {
	length int
	tag    [TagLength]byte
	n      int // bytes accumulated so far
}

// bufferingPlaintext exposes a decrypted body's [offset, offset+length)
// window inside Decryptor.bodyPlain to the caller.
type bufferingPlaintext struct {
	offset int
	length int
}

// shuttingDown means an authenticated goodbye was read: every read from
// here on reports clean, authenticated end of stream.
type shuttingDown struct{}

// errored is terminal: err is returned to every subsequent ReadFrom call.
type errored struct {
	err error
}

func (readingHeader) isDecoderState()      {}
func (readingBody) isDecoderState()        {}
func (bufferingPlaintext) isDecoderState() {}
func (shuttingDown) isDecoderState()       {}
func (errored) isDecoderState()            {}

// Decryptor is a streaming decoder for the box-stream frame format. It
// owns two fixed scratch buffers (one per header/body) sized for the
// largest possible frame, so decoding a session's worth of frames never
// allocates past construction.
//
// A Decryptor is not safe for concurrent use; like the wire protocol it
// models, it is strictly single-reader, in-order.
type Decryptor struct {
	key   Key
	nonce Nonce

	headerBuf   [HeaderLength]byte
	headerPlain [headerPlainLength]byte
	bodyCipher  [TagLength + MaxPacketSize]byte
	bodyPlain   [MaxPacketSize]byte

	state decoderState
}

// NewDecryptor creates a Decryptor that will decrypt under key, starting
// from nonce. The two peers of a session must agree on both.
func NewDecryptor(key Key, nonce Nonce) *Decryptor {
	return &Decryptor{key: key, nonce: nonce, state: readingHeader{}}
}

// Nonce returns the decryptor's current nonce. Exposed for tests that
// assert the nonce-discipline invariant.
func (d *Decryptor) Nonce() Nonce {
	return d.nonce
}

// ReadFrom pulls as many bytes as necessary from src to either deliver
// at least one plaintext byte into p, deliver authenticated end of
// stream (0, io.EOF), or surface an error. It never returns (0, nil) for
// a nonzero p, matching the io.Reader convention src itself is expected
// to follow.
//
// Once ReadFrom returns one of the fatal framing errors (ErrInvalidLength,
// ErrUnauthenticatedHeader, ErrUnauthenticatedPacket,
// ErrUnauthenticatedEOF), every subsequent call returns that same error:
// the Decryptor is poisoned. An error from src other than io.EOF is
// returned as is and not kept; the next call resumes decoding from where
// it stopped. Once ReadFrom returns io.EOF, every subsequent call returns
// (0, io.EOF).
func (d *Decryptor) ReadFrom(src io.Reader, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for {
		switch st := d.state.(type) {
		case errored:
			return 0, st.err
		case shuttingDown:
			return 0, io.EOF
		case bufferingPlaintext:
			n := copy(p, d.bodyPlain[st.offset:st.offset+st.length])
			st.offset += n
			st.length -= n
			if st.length == 0 {
				d.state = readingHeader{}
			} else {
				d.state = st
			}
			return n, nil
		case readingHeader:
			if err := d.advanceHeader(src, st); err != nil {
				return 0, err
			}
			// state has advanced (readingBody or shuttingDown); loop.
		case readingBody:
			if err := d.advanceBody(src, st); err != nil {
				return 0, err
			}
			// state has advanced to bufferingPlaintext; loop.
		}
	}
}

// advanceHeader pulls the remaining bytes of the header from src,
// authenticates it, and transitions d.state. A non-nil error return means
// ReadFrom should return immediately with that error; nil means the
// state machine progressed and the caller should loop.
func (d *Decryptor) advanceHeader(src io.Reader, st readingHeader) error {
	for st.n < HeaderLength {
		n, err := src.Read(d.headerBuf[st.n:HeaderLength])
		st.n += n
		if err != nil {
			if err == io.EOF {
				// A legitimate stream always ends with an authenticated
				// goodbye frame; a bare transport close here -- whether
				// or not any header bytes had already arrived -- can't
				// be told apart from truncation.
				d.state = errored{err: ErrUnauthenticatedEOF}
				return ErrUnauthenticatedEOF
			}
			// Transport errors are propagated, but not cached: a
			// transient failure isn't fatal to the protocol state.
			d.state = st
			return err
		}
		if n == 0 {
			d.state = st
			return nil
		}
	}

	plaintext, ok := open(d.headerPlain[:0], d.headerBuf[:], &d.key, &d.nonce)
	if !ok {
		d.state = errored{err: ErrUnauthenticatedHeader}
		return ErrUnauthenticatedHeader
	}

	if allZero(plaintext) {
		d.nonce.Increment() // goodbye consumes a header+body pair of nonce values, same as a data frame
		d.nonce.Increment()
		d.state = shuttingDown{}
		return nil
	}

	length := int(binary.BigEndian.Uint16(plaintext[0:2]))
	if length == 0 || length > MaxPacketSize {
		d.state = errored{err: ErrInvalidLength}
		return ErrInvalidLength
	}

	var tag [TagLength]byte
	copy(tag[:], plaintext[2:2+TagLength])

	d.nonce.Increment() // N -> N+1, the body's nonce
	d.state = readingBody{length: length, tag: tag}
	return nil
}

// advanceBody pulls the remaining bytes of the body from src,
// authenticates it against the tag carried in the header, and
// transitions d.state to bufferingPlaintext.
func (d *Decryptor) advanceBody(src io.Reader, st readingBody) error {
	for st.n < st.length {
		n, err := src.Read(d.bodyCipher[TagLength+st.n : TagLength+st.length])
		st.n += n
		if err != nil {
			if err == io.EOF {
				d.state = errored{err: ErrUnauthenticatedEOF}
				return ErrUnauthenticatedEOF
			}
			d.state = st
			return err
		}
		if n == 0 {
			d.state = st
			return nil
		}
	}

	copy(d.bodyCipher[:TagLength], st.tag[:])
	plaintext, ok := open(d.bodyPlain[:0], d.bodyCipher[:TagLength+st.length], &d.key, &d.nonce)
	if !ok {
		d.state = errored{err: ErrUnauthenticatedPacket}
		return ErrUnauthenticatedPacket
	}

	d.nonce.Increment() // N+1 -> N+2, ready for the next frame's header
	d.state = bufferingPlaintext{offset: 0, length: len(plaintext)}
	return nil
}
