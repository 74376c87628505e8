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

import "errors"

// Fatal, sticky errors surfaced by a Decryptor. Once any of these is
// returned, the Decryptor is poisoned: every subsequent ReadFrom call
// returns the same error.
var (
	// ErrInvalidLength is returned when an authenticated header declares
	// a body length of 0 or greater than MaxPacketSize.
	ErrInvalidLength = errors.New("framing: invalid packet length")

	// ErrUnauthenticatedHeader is returned when a header fails Poly1305
	// verification and is not the goodbye marker.
	ErrUnauthenticatedHeader = errors.New("framing: header authentication failed")

	// ErrUnauthenticatedPacket is returned when a body fails Poly1305
	// verification.
	ErrUnauthenticatedPacket = errors.New("framing: packet authentication failed")

	// ErrUnauthenticatedEOF is returned when the underlying transport
	// closes before an authenticated goodbye frame was read. A
	// legitimate sender always ends a stream with a goodbye; a bare
	// transport EOF is indistinguishable from truncation.
	ErrUnauthenticatedEOF = errors.New("framing: transport closed before a goodbye frame")
)
