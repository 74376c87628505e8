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

// Package framing implements the box-stream link framing and cryptography.
//
// The frame format is:
//   Header (34 bytes):
//     uint8_t[16] T_h   NaCl SecretBox (Poly1305) tag of the header body
//     uint8_t[18] C_h   SecretBox ciphertext of:
//                          uint16_t length (big endian, body length L)
//                          uint8_t[16] T_b (tag of the body, see below)
//   Body (L bytes):
//     uint8_t[L]  C_b   SecretBox ciphertext of the L-byte plaintext packet
//
// The header and body are sealed under the same 32-byte key but
// consecutive nonces: the header uses nonce N, the body uses nonce N+1,
// and the nonce used for the next frame's header is N+2. The nonce is a
// 24-byte big-endian counter, shared state between an Encryptor and the
// peer Decryptor that must never be reused.
//
// A frame whose header decrypts to 18 zero bytes ("goodbye") carries no
// body and is the only authenticated way to signal end of stream; a bare
// transport close is always a fatal ErrUnauthenticatedEOF.
package framing
