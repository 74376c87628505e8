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

// Package handshake derives the keys and nonces a boxstream.Conn needs
// from an unauthenticated Curve25519 key exchange. It exists only so
// cmd/boxpipe has a way to bootstrap a session; neither framing nor
// boxstream import it, and nothing in either package depends on the key
// agreement happening this way rather than some other way the two peers
// agree on out of band.
//
// This is deliberately not an authenticated handshake: it provides no
// protection against an active man-in-the-middle, only against a
// passive eavesdropper. Binding the exchange to peer identities is a
// separate concern left to the caller, the same way obfs4's ntor
// handshake binds to a relay's long-term identity key above the bare
// Curve25519 exchange.
package handshake

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"

	"github.com/yawningfox/box-stream-go/framing"
)

// hkdfInfo labels the key material this package derives, so that the
// same shared secret used elsewhere (should that ever happen) can never
// be confused with box-stream session keys.
var hkdfInfo = []byte("box-stream-go handshake v1")

// PublicKey is a Curve25519 public key.
type PublicKey [32]byte

// Keypair is an ephemeral Curve25519 keypair, generated fresh for every
// handshake. It is never reused across sessions.
type Keypair struct {
	Public  PublicKey
	private [32]byte
}

// GenerateKeypair produces a fresh ephemeral Curve25519 keypair, using
// crypto/rand to draw the private scalar -- the Go equivalent of
// ntor.NewKeypair.
func GenerateKeypair() (*Keypair, error) {
	var kp Keypair
	if _, err := io.ReadFull(rand.Reader, kp.private[:]); err != nil {
		return nil, fmt.Errorf("handshake: generating private scalar: %w", err)
	}
	pub, err := curve25519.X25519(kp.private[:], curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("handshake: deriving public key: %w", err)
	}
	copy(kp.Public[:], pub)
	return &kp, nil
}

// SessionKeys holds the four values a boxstream.Conn needs: one
// (key, nonce) pair per direction.
type SessionKeys struct {
	WriteKey   framing.Key
	WriteNonce framing.Nonce
	ReadKey    framing.Key
	ReadNonce  framing.Nonce
}

// ClientHandshake sends kp's public key to the peer over conn, reads
// the peer's public key back, and derives SessionKeys from the shared
// point -- mirroring clientHandshake's shape in the teacher, minus the
// ntor mark-and-MAC framing: a bare Diffie-Hellman exchange has no
// transcript to authenticate, so there is nothing to parse incrementally.
func ClientHandshake(conn io.ReadWriter, kp *Keypair) (*SessionKeys, error) {
	peer, err := exchangeKeys(conn, kp)
	if err != nil {
		return nil, err
	}
	okm, err := deriveOKM(kp, peer)
	if err != nil {
		return nil, err
	}
	return splitOKM(okm, true), nil
}

// ServerHandshake is ClientHandshake's counterpart; the two sides agree
// on which half of the OKM is whose write key by fixing roles (client
// writes with the first half, server writes with the second), the same
// role-asymmetry the teacher's clientHandshake/serverHandshake pair
// bakes into which slice of okm becomes c.encoder versus c.decoder.
func ServerHandshake(conn io.ReadWriter, kp *Keypair) (*SessionKeys, error) {
	peer, err := exchangeKeys(conn, kp)
	if err != nil {
		return nil, err
	}
	okm, err := deriveOKM(kp, peer)
	if err != nil {
		return nil, err
	}
	return splitOKM(okm, false), nil
}

// exchangeKeys writes kp's public key and reads the peer's, in the
// clear: nothing this package sends or receives is itself confidential,
// only the session keys it derives from the result are.
//
// The write happens on its own goroutine so that two peers calling
// exchangeKeys concurrently over an unbuffered transport (net.Pipe,
// notably) don't deadlock with both sides blocked in Write before
// either reaches Read.
func exchangeKeys(conn io.ReadWriter, kp *Keypair) (*PublicKey, error) {
	writeErr := make(chan error, 1)
	go func() {
		_, err := conn.Write(kp.Public[:])
		writeErr <- err
	}()

	var peer PublicKey
	_, readErr := io.ReadFull(conn, peer[:])
	if err := <-writeErr; err != nil {
		return nil, fmt.Errorf("handshake: sending public key: %w", err)
	}
	if readErr != nil {
		return nil, fmt.Errorf("handshake: receiving public key: %w", readErr)
	}
	return &peer, nil
}

// oneDirectionKeyMaterial is the number of bytes a single direction's
// (key, nonce) pair takes up in the OKM stream.
const oneDirectionKeyMaterial = framing.KeyLength + framing.NonceLength

func deriveOKM(kp *Keypair, peer *PublicKey) ([]byte, error) {
	shared, err := curve25519.X25519(kp.private[:], peer[:])
	if err != nil {
		return nil, fmt.Errorf("handshake: computing shared secret: %w", err)
	}

	// Salt the KDF with both public keys, sorted, so that both peers
	// land on the same salt regardless of which one calls it "local"
	// and which calls it "peer".
	salt := sortedPublicKeys(kp.Public, *peer)

	r := hkdf.New(sha256.New, shared, salt, hkdfInfo)
	okm := make([]byte, 2*oneDirectionKeyMaterial)
	if _, err := io.ReadFull(r, okm); err != nil {
		return nil, fmt.Errorf("handshake: expanding key material: %w", err)
	}
	return okm, nil
}

// sortedPublicKeys concatenates a and b in an order determined solely
// by their byte values, so both peers agree on it.
func sortedPublicKeys(a, b PublicKey) []byte {
	for i := range a {
		if a[i] < b[i] {
			return append(append([]byte{}, a[:]...), b[:]...)
		}
		if a[i] > b[i] {
			return append(append([]byte{}, b[:]...), a[:]...)
		}
	}
	return append(append([]byte{}, a[:]...), b[:]...)
}

// splitOKM divides okm into the client's and server's (key, nonce)
// pairs and returns both, arranged for role. The first oneDirectionKeyMaterial
// bytes are always "client writes with this", the second half "server
// writes with this", regardless of caller role -- isClient just picks
// which half becomes WriteKey/WriteNonce versus ReadKey/ReadNonce.
func splitOKM(okm []byte, isClient bool) *SessionKeys {
	clientToServer := okm[:oneDirectionKeyMaterial]
	serverToClient := okm[oneDirectionKeyMaterial:]

	var sk SessionKeys
	if isClient {
		fillKeyNonce(&sk.WriteKey, &sk.WriteNonce, clientToServer)
		fillKeyNonce(&sk.ReadKey, &sk.ReadNonce, serverToClient)
	} else {
		fillKeyNonce(&sk.WriteKey, &sk.WriteNonce, serverToClient)
		fillKeyNonce(&sk.ReadKey, &sk.ReadNonce, clientToServer)
	}
	return &sk
}

func fillKeyNonce(key *framing.Key, nonce *framing.Nonce, okm []byte) {
	copy(key[:], okm[:framing.KeyLength])
	copy(nonce[:], okm[framing.KeyLength:])
}
