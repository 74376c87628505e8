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

// boxpipe is a demonstration client/server that pipes stdin/stdout
// through a boxstream.Conn over a raw TCP connection, deriving session
// keys with an unauthenticated handshake.ClientHandshake/ServerHandshake
// exchange. It exists to give the library something runnable; it is not
// part of the box-stream protocol itself.
//
// Usage:
//
//	boxpipe -listen :4000
//	boxpipe -dial host:4000
package main

import (
	"flag"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/yawningfox/box-stream-go"
	"github.com/yawningfox/box-stream-go/handshake"
)

func main() {
	listenAddr := flag.String("listen", "", "listen for one connection on this address")
	dialAddr := flag.String("dial", "", "dial this address")
	flag.Parse()

	if (*listenAddr == "") == (*dialAddr == "") {
		log.Fatal("[ERROR] boxpipe: exactly one of -listen or -dial is required")
	}

	kp, err := handshake.GenerateKeypair()
	if err != nil {
		log.Fatalf("[ERROR] boxpipe: generating keypair: %s", err)
	}

	var conn net.Conn
	var sk *handshake.SessionKeys
	if *listenAddr != "" {
		conn, sk, err = doListen(*listenAddr, kp)
	} else {
		conn, sk, err = doDial(*dialAddr, kp)
	}
	if err != nil {
		log.Fatalf("[ERROR] boxpipe: %s", err)
	}
	defer conn.Close()

	bs := boxstream.NewConn(conn, sk.WriteKey, sk.WriteNonce, sk.ReadKey, sk.ReadNonce)
	defer bs.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Printf("[INFO] boxpipe: received signal, shutting down")
		bs.Close()
		os.Exit(0)
	}()

	copyLoop(bs)
}

func doListen(addr string, kp *handshake.Keypair) (net.Conn, *handshake.SessionKeys, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}
	defer ln.Close()

	log.Printf("[INFO] boxpipe: listening on %s", addr)
	conn, err := ln.Accept()
	if err != nil {
		return nil, nil, err
	}
	log.Printf("[INFO] boxpipe: accepted connection from %s", conn.RemoteAddr())

	sk, err := handshake.ServerHandshake(conn, kp)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, sk, nil
}

func doDial(addr string, kp *handshake.Keypair) (net.Conn, *handshake.SessionKeys, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("[INFO] boxpipe: connected to %s", addr)

	sk, err := handshake.ClientHandshake(conn, kp)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, sk, nil
}

// copyLoop pipes stdin into bs and bs into stdout concurrently, the same
// shape as the teacher's copyLoop over a pair of net.Conns, returning
// once both directions have drained.
func copyLoop(bs *boxstream.Conn) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		if _, err := io.Copy(os.Stdout, bs); err != nil {
			log.Printf("[WARN] boxpipe: remote->stdout: %s", err)
		}
	}()
	go func() {
		defer wg.Done()
		if _, err := io.Copy(bs, os.Stdin); err != nil {
			log.Printf("[WARN] boxpipe: stdin->remote: %s", err)
		}
		bs.Close()
	}()

	wg.Wait()
}
